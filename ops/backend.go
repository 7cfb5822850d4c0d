// Copyright (c) 2026, ARLKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ops provides the operation surface: the entry points through
// which callers and the numerical backend exchange visibility, image,
// and gain table containers. Every entry point is a synchronous
// request / response transformation over containers, with no session
// state beyond the one-time process initialization.
package ops

import (
	"sync"

	"github.com/radioastro/arlkit/gain"
	"github.com/radioastro/arlkit/obs"
	"github.com/radioastro/arlkit/skyimage"
	"github.com/radioastro/arlkit/vis"
)

// Backend is the external numerical engine. The operation surface
// validates container shapes and ownership, then delegates the
// scientific algorithms to the registered backend. Output containers
// are allocated by the entry points and filled by the backend, so a
// backend never retains a container past the call.
type Backend interface {
	// Init performs the backend's one-time process-global initialization.
	Init() error

	// ComputeUVW fills the baseline (u, v, w) coordinates of a freshly
	// created visibility container from the array geometry.
	ComputeUVW(ob *obs.Observation, vs *vis.Vis) error

	// TestImage fills the output with a standard test sky model for the
	// given frequency axis.
	TestImage(freqs []float64, cellsize float64, phaseCentre string, out *skyimage.Image) error

	// LowTestImage fills the output with a sky model drawn from the
	// GLEAM catalogue for the given observation.
	LowTestImage(ob *obs.Observation, cellsize float64, phaseCentre string, out *skyimage.Image) error

	// Predict computes model visibilities from the image, writing them
	// into the pre-sized output container.
	Predict(visin *vis.Vis, model *skyimage.Image, visout *vis.Vis) error

	// Invert grids the visibilities into the pre-sized output image
	// (the PSF instead when dopsf is set), returning the sum of weights.
	Invert(visin *vis.Vis, model *skyimage.Image, dopsf bool, out *skyimage.Image) (sumwt float64, err error)

	// PredictBlock computes model visibilities from the image directly
	// into the block-ordered container, overwriting its sample values
	// in place.
	PredictBlock(ob *obs.Observation, blockvis *vis.Vis, model *skyimage.Image) error

	// PredictSliced is the w-sliced prediction variant, filling both the
	// flat and block-ordered output containers and the index mapping
	// between them.
	PredictSliced(ob *obs.Observation, visin *vis.Vis, model *skyimage.Image, visout, blockvisout *vis.Vis, cindex []int64) error

	// InvertSliced is the w-sliced inversion variant.
	InvertSliced(ob *obs.Observation, visin *vis.Vis, model *skyimage.Image, visSlices int, dirty *skyimage.Image) error

	// Deconvolve runs the deconvolution of the dirty image by the PSF,
	// filling the restored and residual outputs.
	Deconvolve(dirty, psf, restored, residual *skyimage.Image) error

	// Restore convolves the model with the clean beam of the PSF and adds
	// the residuals, filling the restored output.
	Restore(model, psf, residual, restored *skyimage.Image) error

	// ICAL runs the iterative self-calibration imaging loop.
	ICAL(ob *obs.Observation, visin *vis.Vis, model *skyimage.Image, visSlices int, deconv, resid, restored *skyimage.Image) error

	// SimulateGains fills the table with simulated per-antenna gains.
	SimulateGains(ob *obs.Observation, gt *gain.Table) error

	// SolveGains solves the table's gains from the observed visibilities.
	SolveGains(ob *obs.Observation, vs *vis.Vis, gt *gain.Table) error
}

var (
	mu          sync.Mutex
	backend     Backend
	initialized bool
)

// RegisterBackend registers the numerical backend. It must be called
// before [Initialize]; entry points that delegate to the backend return
// [ErrNoBackend] if none is registered.
func RegisterBackend(b Backend) {
	mu.Lock()
	defer mu.Unlock()
	backend = b
}

// Initialize performs the one-time process-global initialization and
// must be called before any other entry point. Calling it again after
// a successful initialization is a no-op.
func Initialize() error {
	mu.Lock()
	defer mu.Unlock()
	if initialized {
		return nil
	}
	if backend != nil {
		if err := backend.Init(); err != nil {
			return err
		}
	}
	initialized = true
	return nil
}

// IsInitialized reports whether [Initialize] has completed successfully.
func IsInitialized() bool {
	mu.Lock()
	defer mu.Unlock()
	return initialized
}

// current returns the registered backend, or an error when the surface
// is not initialized or no backend is registered.
func current() (Backend, error) {
	mu.Lock()
	defer mu.Unlock()
	if !initialized {
		return nil, ErrNotInitialized
	}
	if backend == nil {
		return nil, ErrNoBackend
	}
	return backend, nil
}

// ready returns an error when the surface is not initialized;
// for entry points that do not need the backend.
func ready() error {
	mu.Lock()
	defer mu.Unlock()
	if !initialized {
		return ErrNotInitialized
	}
	return nil
}
