// Copyright (c) 2026, ARLKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import (
	"fmt"

	"github.com/radioastro/arlkit/base/errors"
	"github.com/radioastro/arlkit/skyimage"
	"github.com/radioastro/arlkit/vis"
)

// The original native boundary had no error channel; every precondition
// violation was undefined behavior. These sentinels are the strengthened
// contract: each entry point reports the specific failure kind instead.
var (
	// ErrNotInitialized is returned when an entry point is used
	// before [Initialize].
	ErrNotInitialized = errors.New("ops: not initialized")

	// ErrNoBackend is returned when no numerical backend is registered.
	ErrNoBackend = errors.New("ops: no backend registered")

	// ErrNilBuffer is returned when a container's sample or pixel
	// buffer is unallocated.
	ErrNilBuffer = errors.New("ops: nil buffer")

	// ErrShapeMismatch is returned when container shapes or counts
	// do not agree.
	ErrShapeMismatch = errors.New("ops: shape mismatch")

	// ErrUnsupportedPol is returned for polarisation counts other
	// than 1, 2, and 4.
	ErrUnsupportedPol = errors.New("ops: unsupported polarisation count")

	// ErrBackend wraps a failure reported by the numerical backend.
	ErrBackend = errors.New("ops: backend failure")
)

// backendErr wraps a backend failure in [ErrBackend].
func backendErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrBackend, err)
}

// validVis checks that the visibility container is usable as an input.
func validVis(vs *vis.Vis) error {
	if vs == nil || vs.Data == nil {
		return fmt.Errorf("%w: visibility sample buffer", ErrNilBuffer)
	}
	switch vs.NPol() {
	case 1, 2, 4:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedPol, vs.NPol())
	}
}

// validImage checks that the image container is allocated consistently
// with its declared shape.
func validImage(im *skyimage.Image) error {
	if im == nil || im.Values == nil {
		return fmt.Errorf("%w: image pixel buffer", ErrNilBuffer)
	}
	if err := im.Valid(); err != nil {
		return fmt.Errorf("%w: %w", ErrShapeMismatch, err)
	}
	return nil
}

// sameImageShape checks that two images have identical shapes.
func sameImageShape(a, b *skyimage.Image) error {
	if !a.Shape().IsEqual(b.Shape()) {
		return fmt.Errorf("%w: %s != %s", ErrShapeMismatch, a.Shape().String(), b.Shape().String())
	}
	return nil
}
