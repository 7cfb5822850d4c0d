// Copyright (c) 2026, ARLKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package skyimage

import (
	"fmt"

	"github.com/radioastro/arlkit/obs"
	"github.com/radioastro/arlkit/vis"
)

// DefaultNPixel is the spatial axis size used when no pixel count
// is requested explicitly.
const DefaultNPixel = 256

// InferShape computes the expected cube shape for the given frequency
// axis and pixel cell size, without allocating any pixels: one
// polarisation plane per channel at the default spatial size.
func InferShape(freqs []float64, cellsize float64) ([NumAxes]int, error) {
	var sh [NumAxes]int
	if len(freqs) == 0 {
		return sh, fmt.Errorf("skyimage.InferShape: empty frequency axis")
	}
	if cellsize <= 0 {
		return sh, fmt.Errorf("skyimage.InferShape: non-positive cell size %g", cellsize)
	}
	sh = [NumAxes]int{1, len(freqs), DefaultNPixel, DefaultNPixel}
	return sh, nil
}

// InferShapeMultifreq computes the expected cube shape from a full
// observation configuration plus a requested pixel count and cell size,
// without allocating any pixels. The polarisation axis follows the
// observation's polarisation frame.
func InferShapeMultifreq(ob *obs.Observation, cellsize float64, npixel int) ([NumAxes]int, error) {
	var sh [NumAxes]int
	if cellsize <= 0 {
		return sh, fmt.Errorf("skyimage.InferShapeMultifreq: non-positive cell size %g", cellsize)
	}
	if npixel <= 0 {
		npixel = DefaultNPixel
	}
	npol := ob.NPol
	if ob.PolFrame != "" {
		np, err := obs.PolFrameNPol(ob.PolFrame)
		if err != nil {
			return sh, err
		}
		npol = np
	}
	nchan := max(1, ob.NFreqs())
	sh = [NumAxes]int{npol, nchan, npixel, npixel}
	return sh, nil
}

// ParamsFromVis fills the shape and descriptor fields of the given image
// from a populated visibility container, suitable for subsequent
// allocation with [Image.Alloc]. The polarisation axis follows the
// container's polarisation count and the channel axis the number of
// distinct sample frequencies.
func ParamsFromVis(vs *vis.Vis, im *Image) error {
	if vs.Data == nil {
		return fmt.Errorf("skyimage.ParamsFromVis: nil sample buffer")
	}
	seen := map[float64]bool{}
	for i := 0; i < vs.NVis(); i++ {
		seen[vs.Data.Header(i).Freq] = true
	}
	nchan := max(1, len(seen))
	im.SetShapeSizes(vs.NPol(), nchan, DefaultNPixel, DefaultNPixel)
	if im.PolFrame == "" {
		switch vs.NPol() {
		case 1:
			im.PolFrame = "stokesI"
		case 2:
			im.PolFrame = "stokesIQ"
		default:
			im.PolFrame = "stokesIQUV"
		}
	}
	if im.WCS == "" {
		im.WCS = vs.PhaseCentre
	}
	return nil
}
