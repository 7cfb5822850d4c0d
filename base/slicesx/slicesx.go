// Copyright (c) 2026, ARLKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package slicesx provides additional slice functions
// beyond those in the standard [slices] package.
package slicesx

import "unsafe"

// SetLength sets the length of the given slice,
// re-using and preserving existing values to the extent possible.
func SetLength[E any](s []E, n int) []E {
	if cap(s) < n {
		s = append(s[:cap(s)], make([]E, n-cap(s))...)
	}
	return s[:n]
}

// CopyFrom efficiently copies from src into dest, using SetLength
// to ensure the destination has sufficient capacity.
func CopyFrom[E any](dest []E, src []E) []E {
	dest = SetLength(dest, len(src))
	copy(dest, src)
	return dest
}

// ToBytes returns the underlying bytes of given slice of any fixed-size type.
// The resulting slice aliases the original data, so it has the same lifetime
// and any modifications are visible through both.
func ToBytes[E any](src []E) []byte {
	if len(src) == 0 {
		return nil
	}
	var e E
	n := int(unsafe.Sizeof(e)) * len(src)
	return unsafe.Slice((*byte)(unsafe.Pointer(&src[0])), n)
}

// FromBytes returns a slice of given fixed-size type viewing the given bytes,
// which must be a whole multiple of the type's size. The resulting slice
// aliases the original data.
func FromBytes[E any](src []byte) []E {
	if len(src) == 0 {
		return nil
	}
	var e E
	n := len(src) / int(unsafe.Sizeof(e))
	return unsafe.Slice((*E)(unsafe.Pointer(&src[0])), n)
}
