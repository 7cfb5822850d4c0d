// Copyright (c) 2026, ARLKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package skyimage provides the image container: a 4-axis pixel cube
// (polarisation, channel, and two spatial axes) with opaque coordinate
// system and polarisation frame descriptors carried through unmodified.
package skyimage

import (
	"fmt"

	"github.com/radioastro/arlkit/base/metadata"
	"github.com/radioastro/arlkit/base/slicesx"
	"github.com/radioastro/arlkit/shape"
)

// NumAxes is the number of axes of an image cube:
// polarisation, channel, height (y), width (x).
const NumAxes = 4

// Image is a 4-axis pixel cube. The total element count always equals
// the product of the 4 shape dimensions. Pixel values are stored in a
// contiguous row-major float64 slice, which may be nil for a container
// whose shape has been set but whose pixels have not been allocated.
// The WCS and PolFrame descriptors are opaque strings that this
// container carries but does not interpret.
type Image struct {
	shape shape.Shape

	// Values is the pixel buffer; len(Values) == Shape().Len() once allocated.
	Values []float64

	// WCS is the opaque world coordinate system descriptor.
	WCS string

	// PolFrame is the opaque polarisation frame descriptor,
	// e.g. "stokesI" or "stokesIQUV".
	PolFrame string

	// Meta is optional side-band metadata for this container.
	Meta metadata.Data
}

// New returns a new image cube of given axis sizes
// with an allocated, zeroed pixel buffer.
func New(npol, nchan, ny, nx int) *Image {
	im := &Image{}
	im.SetShapeSizes(npol, nchan, ny, nx)
	im.Alloc()
	return im
}

// NewLike returns a new image with the same shape and descriptors as the
// given one, with an allocated, zeroed pixel buffer.
func NewLike(src *Image) *Image {
	im := &Image{WCS: src.WCS, PolFrame: src.PolFrame}
	im.shape.CopyFrom(&src.shape)
	im.Meta.Copy(src.Meta)
	im.Alloc()
	return im
}

// Shape returns a pointer to the shape that fully parametrizes the cube.
func (im *Image) Shape() *shape.Shape { return &im.shape }

// SetShapeSizes sets the 4 axis sizes without touching the pixel buffer,
// so a shape can be inferred and communicated before allocation.
// Sizes beyond the first 4 are ignored; missing ones default to 1.
func (im *Image) SetShapeSizes(sizes ...int) {
	sz := [NumAxes]int{1, 1, 1, 1}
	copy(sz[:], sizes)
	im.shape.SetSizes(sz[:]...)
	im.shape.SetNames("Pol", "Chan", "Y", "X")
}

// Alloc sizes the pixel buffer to match the current shape,
// retaining existing values that fit.
func (im *Image) Alloc() {
	im.Values = slicesx.SetLength(im.Values, im.shape.Len())
}

// Len returns the total number of pixels, the product of the 4 axis sizes.
func (im *Image) Len() int { return im.shape.Len() }

// NumDims returns the number of axes (always 4).
func (im *Image) NumDims() int { return im.shape.NumDims() }

// DimSize returns the size of the given axis.
func (im *Image) DimSize(dim int) int { return im.shape.DimSize(dim) }

// Value returns the pixel value at the given (pol, chan, y, x) index.
func (im *Image) Value(i ...int) float64 { return im.Values[im.shape.IndexTo1D(i...)] }

// Set sets the pixel value at the given (pol, chan, y, x) index.
func (im *Image) Set(val float64, i ...int) { im.Values[im.shape.IndexTo1D(i...)] = val }

// Value1D returns the pixel value at the given flat index.
func (im *Image) Value1D(i int) float64 { return im.Values[i] }

// Set1D sets the pixel value at the given flat index.
func (im *Image) Set1D(val float64, i int) { im.Values[i] = val }

// SetZeros sets all pixel values to zero.
func (im *Image) SetZeros() {
	for i := range im.Values {
		im.Values[i] = 0
	}
}

// Bytes returns the underlying byte representation of the pixel buffer.
// This is the actual underlying data, so make a copy if it can be
// unintentionally modified or retained more than for immediate use.
func (im *Image) Bytes() []byte { return slicesx.ToBytes(im.Values) }

// Clone returns a duplicate of this image with its own separate
// copy of the pixel buffer and metadata.
func (im *Image) Clone() *Image {
	cp := &Image{WCS: im.WCS, PolFrame: im.PolFrame}
	cp.shape.CopyFrom(&im.shape)
	cp.Values = slicesx.CopyFrom(cp.Values, im.Values)
	cp.Meta.Copy(im.Meta)
	return cp
}

// CopyFrom copies pixel values and descriptors from the source image,
// which must have an identical shape.
func (im *Image) CopyFrom(src *Image) error {
	if !im.shape.IsEqual(&src.shape) {
		return fmt.Errorf("skyimage.CopyFrom: shapes do not match: %s != %s", im.shape.String(), src.shape.String())
	}
	copy(im.Values, src.Values)
	im.WCS = src.WCS
	im.PolFrame = src.PolFrame
	im.Meta.Copy(src.Meta)
	return nil
}

// Label satisfies the Labeler interface for a summary description.
func (im *Image) Label() string {
	return fmt.Sprintf("Image: %s", im.shape.String())
}

// Valid returns an error if the pixel buffer is unallocated or does not
// match the declared shape.
func (im *Image) Valid() error {
	if im.Values == nil {
		return fmt.Errorf("skyimage: nil pixel buffer")
	}
	if len(im.Values) != im.shape.Len() {
		return fmt.Errorf("skyimage: pixel buffer length %d does not match shape %s", len(im.Values), im.shape.String())
	}
	return nil
}
