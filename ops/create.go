// Copyright (c) 2026, ARLKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import (
	"fmt"

	"github.com/radioastro/arlkit/obs"
	"github.com/radioastro/arlkit/skyimage"
	"github.com/radioastro/arlkit/vis"
)

// CreateVisibility creates a visibility container for the given
// observation, with one sample per (time, channel, baseline) and unity
// weights. The time, frequency, bandwidth, and antenna columns are filled
// from the configuration and the baseline coordinates by the backend.
// The returned container is owned by the caller.
func CreateVisibility(ob *obs.Observation) (*vis.Vis, error) {
	be, err := current()
	if err != nil {
		return nil, err
	}
	vs, err := newVis(ob, ob.NTimes()*ob.NFreqs()*ob.NBases, false)
	if err != nil {
		return nil, err
	}
	if err := be.ComputeUVW(ob, vs); err != nil {
		return nil, backendErr(err)
	}
	return vs, nil
}

// CreateBlockVisibility creates a block-ordered visibility container for
// the given observation, with one sample per (time, baseline) and the
// channel axis folded into the per-sample records at the reference
// frequency. The returned container is owned by the caller.
func CreateBlockVisibility(ob *obs.Observation) (*vis.Vis, error) {
	be, err := current()
	if err != nil {
		return nil, err
	}
	vs, err := newVis(ob, ob.NTimes()*ob.NBases, true)
	if err != nil {
		return nil, err
	}
	if err := be.ComputeUVW(ob, vs); err != nil {
		return nil, backendErr(err)
	}
	return vs, nil
}

// newVis allocates and fills the configuration-derived sample columns.
func newVis(ob *obs.Observation, nvis int, block bool) (*vis.Vis, error) {
	if err := ob.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShapeMismatch, err)
	}
	if ob.NFreqs() == 0 {
		return nil, fmt.Errorf("%w: no frequency channels", ErrShapeMismatch)
	}
	vs, err := vis.New(ob.NPol, nvis)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedPol, err)
	}
	vs.PhaseCentre = fmt.Sprintf("%g,%g", ob.PCRA, ob.PCDec)

	np := ob.NPol
	i := 0
	for t := 0; t < ob.NTimes(); t++ {
		nch := ob.NFreqs()
		if block {
			nch = 1
		}
		for f := 0; f < nch; f++ {
			for a1 := 0; a1 < ob.NAnt; a1++ {
				for a2 := a1 + 1; a2 < ob.NAnt; a2++ {
					hdr := vs.Data.Header(i)
					hdr.Time = ob.Times[t]
					hdr.Freq = ob.Freqs[f]
					hdr.BW = ob.ChanWidths[f]
					hdr.A1 = int32(a1)
					hdr.A2 = int32(a2)
					for p := 0; p < np; p++ {
						vs.Data.SetWeight(1, i, p)
						vs.Data.SetImagingWeight(1, i, p)
					}
					i++
				}
			}
		}
	}
	return vs, nil
}

// CreateTestImage creates a standard test sky model image for the given
// frequency axis and cell size. The returned image is owned by the caller.
func CreateTestImage(freqs []float64, cellsize float64, phaseCentre string) (*skyimage.Image, error) {
	be, err := current()
	if err != nil {
		return nil, err
	}
	sh, err := skyimage.InferShape(freqs, cellsize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShapeMismatch, err)
	}
	im := skyimage.New(sh[0], sh[1], sh[2], sh[3])
	im.WCS = phaseCentre
	im.PolFrame = "stokesI"
	if err := be.TestImage(freqs, cellsize, phaseCentre, im); err != nil {
		return nil, backendErr(err)
	}
	return im, nil
}

// CreateLowTestImageFromGleam creates a sky model image for the given
// observation from the GLEAM catalogue. The returned image is owned by
// the caller.
func CreateLowTestImageFromGleam(ob *obs.Observation, cellsize float64, npixel int, phaseCentre string) (*skyimage.Image, error) {
	be, err := current()
	if err != nil {
		return nil, err
	}
	sh, err := skyimage.InferShapeMultifreq(ob, cellsize, npixel)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShapeMismatch, err)
	}
	im := skyimage.New(sh[0], sh[1], sh[2], sh[3])
	im.WCS = phaseCentre
	im.PolFrame = ob.PolFrame
	if err := be.LowTestImage(ob, cellsize, phaseCentre, im); err != nil {
		return nil, backendErr(err)
	}
	return im, nil
}

// CreateImageFromVisibility derives the model image's shape and
// descriptors from a populated visibility container and allocates its
// pixels. The backend is not involved.
func CreateImageFromVisibility(vs *vis.Vis, model *skyimage.Image) error {
	if err := ready(); err != nil {
		return err
	}
	if err := validVis(vs); err != nil {
		return err
	}
	if err := skyimage.ParamsFromVis(vs, model); err != nil {
		return fmt.Errorf("%w: %w", ErrShapeMismatch, err)
	}
	model.Alloc()
	return nil
}

// CreateImageFromBlockVisibility creates an empty model image sized for
// the given observation, pixel count, and cell size, with its phase
// centre descriptor set. The returned image is owned by the caller.
func CreateImageFromBlockVisibility(ob *obs.Observation, blockvis *vis.Vis, cellsize float64, npixel int, phaseCentre string) (*skyimage.Image, error) {
	if err := ready(); err != nil {
		return nil, err
	}
	if err := validVis(blockvis); err != nil {
		return nil, err
	}
	sh, err := skyimage.InferShapeMultifreq(ob, cellsize, npixel)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShapeMismatch, err)
	}
	im := skyimage.New(sh[0], sh[1], sh[2], sh[3])
	im.WCS = phaseCentre
	im.PolFrame = ob.PolFrame
	return im, nil
}
