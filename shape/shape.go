// Copyright (c) 2026, ARLKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shape provides the row-major shape that parametrizes
// every multi-dimensional data container in arlkit.
package shape

import (
	"fmt"

	"github.com/radioastro/arlkit/base/slicesx"
)

// Shape manages a row-major n-dimensional shape.
// Per C / Go / Python conventions, indexes are ordered from
// outer to inner left-to-right, so the inner-most is right-most.
type Shape struct {
	// Sizes is the size of each dimension.
	Sizes []int

	// Strides is the offset per dimension in a row-major layout,
	// computed automatically from Sizes.
	Strides []int `display:"-"`

	// Names are optional names per dimension, e.g. "Pol", "Chan", "Y", "X".
	Names []string `display:"-"`
}

// New returns a new shape with given sizes per dimension.
func New(sizes ...int) *Shape {
	sh := &Shape{}
	sh.SetSizes(sizes...)
	return sh
}

// SetSizes sets the dimension sizes of the shape,
// updating the strides accordingly.
func (sh *Shape) SetSizes(sizes ...int) {
	sh.Sizes = slicesx.CopyFrom(sh.Sizes, sizes)
	sh.Strides = RowMajorStrides(sizes...)
	if len(sh.Names) != len(sh.Sizes) {
		sh.Names = nil
	}
}

// SetNames sets the dimension names, which must match the
// current number of dimensions.
func (sh *Shape) SetNames(names ...string) {
	if len(names) != len(sh.Sizes) {
		return
	}
	sh.Names = slicesx.CopyFrom(sh.Names, names)
}

// CopyFrom copies the shape parameters from another shape.
func (sh *Shape) CopyFrom(cp *Shape) {
	sh.SetSizes(cp.Sizes...)
	sh.SetNames(cp.Names...)
}

// Len returns the total number of elements implied by the shape,
// which is the product of all dimension sizes.
func (sh *Shape) Len() int {
	if len(sh.Sizes) == 0 {
		return 0
	}
	ln := 1
	for _, v := range sh.Sizes {
		ln *= v
	}
	return ln
}

// NumDims returns the total number of dimensions.
func (sh *Shape) NumDims() int { return len(sh.Sizes) }

// DimSize returns the size of given dimension.
func (sh *Shape) DimSize(i int) int { return sh.Sizes[i] }

// DimName returns the name of given dimension (empty if not set).
func (sh *Shape) DimName(i int) string {
	if len(sh.Names) != len(sh.Sizes) {
		return ""
	}
	return sh.Names[i]
}

// RowCellSize returns the size of the outermost Row shape dimension,
// and the size of all the remaining inner dimensions (the "cell" size).
func (sh *Shape) RowCellSize() (rows, cells int) {
	if len(sh.Sizes) == 0 {
		return 0, 1
	}
	rows = sh.Sizes[0]
	if len(sh.Sizes) == 1 {
		cells = 1
	} else if rows > 0 {
		cells = sh.Len() / rows
	} else {
		ln := 1
		for _, v := range sh.Sizes[1:] {
			ln *= v
		}
		cells = ln
	}
	return
}

// IndexIsValid returns true if given index is valid (within ranges for all dimensions).
func (sh *Shape) IndexIsValid(idx ...int) bool {
	if len(idx) != sh.NumDims() {
		return false
	}
	for i, v := range sh.Sizes {
		if idx[i] < 0 || idx[i] >= v {
			return false
		}
	}
	return true
}

// IsEqual returns true if this shape has the same sizes as the other.
func (sh *Shape) IsEqual(oth *Shape) bool {
	if sh.NumDims() != oth.NumDims() {
		return false
	}
	for i, v := range sh.Sizes {
		if v != oth.Sizes[i] {
			return false
		}
	}
	return true
}

// IndexTo1D returns the flat 1D index from given n-dimensional indexes.
// No checking is done on the length or size of the index values
// relative to the shape of the tensor.
func (sh *Shape) IndexTo1D(idx ...int) int {
	var oned int
	for i, v := range idx {
		oned += v * sh.Strides[i]
	}
	return oned
}

// IndexFrom1D returns the n-dimensional index from a flat 1d index.
func (sh *Shape) IndexFrom1D(oned int) []int {
	nd := len(sh.Sizes)
	idx := make([]int, nd)
	rem := oned
	for i := nd - 1; i >= 0; i-- {
		s := sh.Sizes[i]
		if s == 0 {
			return idx
		}
		idx[i] = rem % s
		rem /= s
	}
	return idx
}

// String satisfies the fmt.Stringer interface.
func (sh *Shape) String() string {
	str := "["
	for i := range sh.Sizes {
		nm := sh.DimName(i)
		if nm != "" {
			str += nm + ": "
		}
		str += fmt.Sprintf("%d", sh.Sizes[i])
		if i < len(sh.Sizes)-1 {
			str += ", "
		}
	}
	str += "]"
	return str
}

// RowMajorStrides returns strides for sizes where the first dimension is outermost
// and the last dimension is innermost.
func RowMajorStrides(sizes ...int) []int {
	n := len(sizes)
	if n == 0 {
		return nil
	}
	strides := make([]int, n)
	stride := 1
	for i := n - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= max(1, sizes[i]) // zero-size dims must still yield usable strides
	}
	return strides
}
