// Copyright (c) 2026, ARLKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package skyimage

import "gonum.org/v1/gonum/mat"

// Plane is a 2D spatial view of one (polarisation, channel) slice of an
// image cube, satisfying [mat.Matrix] so a plane can be passed directly
// to gonum matrix operations. The view aliases the cube's pixel buffer.
type Plane struct {
	im       *Image
	pol, chn int
}

// Plane returns the spatial plane at the given polarisation and channel.
func (im *Image) Plane(pol, chn int) *Plane {
	return &Plane{im: im, pol: pol, chn: chn}
}

// Dims returns the spatial dimensions of the plane (ny, nx).
func (pl *Plane) Dims() (r, c int) {
	return pl.im.DimSize(2), pl.im.DimSize(3)
}

// At returns the pixel value at the given spatial position.
func (pl *Plane) At(r, c int) float64 {
	return pl.im.Value(pl.pol, pl.chn, r, c)
}

// Set sets the pixel value at the given spatial position.
func (pl *Plane) Set(val float64, r, c int) {
	pl.im.Set(val, pl.pol, pl.chn, r, c)
}

// T returns the transpose of the plane, using [mat.Transpose].
func (pl *Plane) T() mat.Matrix {
	return mat.Transpose{Matrix: pl}
}
