// Copyright (c) 2026, ARLKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import (
	"fmt"
	"math"

	"github.com/radioastro/arlkit/obs"
	"github.com/radioastro/arlkit/vis"
	"gonum.org/v1/gonum/floats"
)

const (
	cLight = 299792458.0

	// stationDiameter is the assumed station dish diameter in meters,
	// setting the primary beam field of view.
	stationDiameter = 35.0

	// defaultGuardBand widens the image beyond the primary beam.
	defaultGuardBand = 4.0

	// defaultDelA is the allowed amplitude loss from w-term distortion.
	defaultDelA = 0.02
)

// Advice is the parameter recommendation bundle for wide-field imaging
// of one observation. GuardBand, DelA, and WProjPlanes act as inputs when
// set; the rest are outputs.
type Advice struct {
	// VisSlices is the recommended number of w-slices.
	VisSlices int

	// NPixel is the recommended spatial image size (a power of two).
	NPixel int

	// Cellsize is the recommended pixel size in radians.
	Cellsize float64

	// GuardBand is the image guard band as a multiple of the primary
	// beam field of view.
	GuardBand float64

	// DelA is the tolerated amplitude loss from w-term distortion.
	DelA float64

	// WProjPlanes is the recommended number of w-projection planes.
	WProjPlanes int
}

// AdviseWideField fills the advice bundle from the observation's
// frequency coverage and baseline geometry. The visibility container may
// be nil; advisory operations never touch sample buffers. The computation
// is local and requires no backend.
func AdviseWideField(ob *obs.Observation, vs *vis.Vis, adv *Advice) error {
	if err := ready(); err != nil {
		return err
	}
	if err := ob.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrShapeMismatch, err)
	}
	if ob.NFreqs() == 0 {
		return fmt.Errorf("%w: no frequency channels", ErrShapeMismatch)
	}
	if ob.RMax <= 0 {
		return fmt.Errorf("%w: maximum baseline %g", ErrShapeMismatch, ob.RMax)
	}
	if vs != nil && vs.Data != nil && vs.NPol() != ob.NPol {
		return fmt.Errorf("%w: visibility polarisation count %d != configuration %d", ErrShapeMismatch, vs.NPol(), ob.NPol)
	}
	if adv.GuardBand <= 0 {
		adv.GuardBand = defaultGuardBand
	}
	if adv.DelA <= 0 {
		adv.DelA = defaultDelA
	}

	minWavelength := cLight / floats.Max(ob.Freqs)
	maxWavelength := cLight / floats.Min(ob.Freqs)

	// image covers the guard-banded primary beam; resolution is set by
	// the synthesized beam at the longest baseline, sampled at Nyquist
	fov := adv.GuardBand * maxWavelength / stationDiameter
	synthBeam := minWavelength / (2 * ob.RMax)
	adv.Cellsize = synthBeam / 2
	adv.NPixel = nextPow2(int(math.Ceil(fov / adv.Cellsize)))

	wmax := ob.RMax / minWavelength
	wSampling := math.Sqrt(2*adv.DelA) / (math.Pi * fov * fov)
	slices := max(1, int(math.Ceil(wmax/wSampling)))
	adv.VisSlices = slices
	if adv.WProjPlanes <= 0 {
		adv.WProjPlanes = slices
	}
	return nil
}

// nextPow2 returns the smallest power of two >= n.
func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
