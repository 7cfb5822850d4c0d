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

// Predict2D computes model visibilities from the image at the input
// container's sample coordinates, returning a new output container of the
// same shape. The input is not modified.
func Predict2D(visin *vis.Vis, model *skyimage.Image) (*vis.Vis, error) {
	be, err := current()
	if err != nil {
		return nil, err
	}
	if err := validVis(visin); err != nil {
		return nil, err
	}
	if err := validImage(model); err != nil {
		return nil, err
	}
	visout := visin.NewLike()
	if err := be.Predict(visin, model, visout); err != nil {
		return nil, backendErr(err)
	}
	return visout, nil
}

// Invert2D grids the input visibilities into a new image shaped like the
// model (the PSF instead when dopsf is set), returning the image and the
// sum of weights.
func Invert2D(visin *vis.Vis, model *skyimage.Image, dopsf bool) (*skyimage.Image, float64, error) {
	be, err := current()
	if err != nil {
		return nil, 0, err
	}
	if err := validVis(visin); err != nil {
		return nil, 0, err
	}
	if err := validImage(model); err != nil {
		return nil, 0, err
	}
	out := skyimage.NewLike(model)
	sumwt, err := be.Invert(visin, model, dopsf, out)
	if err != nil {
		return nil, 0, backendErr(err)
	}
	return out, sumwt, nil
}

// PredictBlockVis computes model visibilities from the image directly
// into the block-ordered container, overwriting its sample values in
// place. The container's sample coordinates are left untouched.
func PredictBlockVis(ob *obs.Observation, blockvis *vis.Vis, model *skyimage.Image) error {
	be, err := current()
	if err != nil {
		return err
	}
	if err := validVis(blockvis); err != nil {
		return err
	}
	if err := validImage(model); err != nil {
		return err
	}
	if ob != nil && blockvis.NPol() != ob.NPol {
		return fmt.Errorf("%w: visibility polarisation count %d != configuration %d", ErrShapeMismatch, blockvis.NPol(), ob.NPol)
	}
	if err := be.PredictBlock(ob, blockvis, model); err != nil {
		return backendErr(err)
	}
	return nil
}

// PredictFunction is the w-sliced prediction variant, returning the
// predicted visibilities in both flat and block order along with the
// index mapping from flat samples to block samples.
func PredictFunction(ob *obs.Observation, visin *vis.Vis, model *skyimage.Image) (visout, blockvisout *vis.Vis, cindex []int64, err error) {
	be, err := current()
	if err != nil {
		return nil, nil, nil, err
	}
	if err := validVis(visin); err != nil {
		return nil, nil, nil, err
	}
	if err := validImage(model); err != nil {
		return nil, nil, nil, err
	}
	visout = visin.NewLike()
	blockvisout, err = newVis(ob, ob.NTimes()*ob.NBases, true)
	if err != nil {
		return nil, nil, nil, err
	}
	cindex = make([]int64, visin.NVis())
	if err := be.PredictSliced(ob, visin, model, visout, blockvisout, cindex); err != nil {
		return nil, nil, nil, backendErr(err)
	}
	return visout, blockvisout, cindex, nil
}

// InvertFunction is the w-sliced inversion variant, returning the dirty
// image shaped like the model.
func InvertFunction(ob *obs.Observation, visin *vis.Vis, model *skyimage.Image, visSlices int) (*skyimage.Image, error) {
	be, err := current()
	if err != nil {
		return nil, err
	}
	if err := validVis(visin); err != nil {
		return nil, err
	}
	if err := validImage(model); err != nil {
		return nil, err
	}
	if visSlices < 1 {
		return nil, fmt.Errorf("%w: %d slices", ErrShapeMismatch, visSlices)
	}
	dirty := skyimage.NewLike(model)
	if err := be.InvertSliced(ob, visin, model, visSlices, dirty); err != nil {
		return nil, backendErr(err)
	}
	return dirty, nil
}

// DeconvolveCube deconvolves the dirty image by the PSF, returning the
// restored and residual images.
func DeconvolveCube(dirty, psf *skyimage.Image) (restored, residual *skyimage.Image, err error) {
	be, err := current()
	if err != nil {
		return nil, nil, err
	}
	if err := validImage(dirty); err != nil {
		return nil, nil, err
	}
	if err := validImage(psf); err != nil {
		return nil, nil, err
	}
	if err := sameImageShape(dirty, psf); err != nil {
		return nil, nil, err
	}
	restored = skyimage.NewLike(dirty)
	residual = skyimage.NewLike(dirty)
	if err := be.Deconvolve(dirty, psf, restored, residual); err != nil {
		return nil, nil, backendErr(err)
	}
	return restored, residual, nil
}

// RestoreCube convolves the model with the clean beam of the PSF and
// adds the residuals, returning the restored image.
func RestoreCube(model, psf, residual *skyimage.Image) (*skyimage.Image, error) {
	be, err := current()
	if err != nil {
		return nil, err
	}
	for _, im := range []*skyimage.Image{model, psf, residual} {
		if err := validImage(im); err != nil {
			return nil, err
		}
	}
	if err := sameImageShape(model, residual); err != nil {
		return nil, err
	}
	restored := skyimage.NewLike(model)
	if err := be.Restore(model, psf, residual, restored); err != nil {
		return nil, backendErr(err)
	}
	return restored, nil
}

// ICAL runs the iterative self-calibration imaging loop, returning the
// deconvolved, residual, and restored images, all shaped like the model.
func ICAL(ob *obs.Observation, visin *vis.Vis, model *skyimage.Image, visSlices int) (deconv, resid, restored *skyimage.Image, err error) {
	be, err := current()
	if err != nil {
		return nil, nil, nil, err
	}
	if err := validVis(visin); err != nil {
		return nil, nil, nil, err
	}
	if err := validImage(model); err != nil {
		return nil, nil, nil, err
	}
	if visSlices < 1 {
		return nil, nil, nil, fmt.Errorf("%w: %d slices", ErrShapeMismatch, visSlices)
	}
	deconv = skyimage.NewLike(model)
	resid = skyimage.NewLike(model)
	restored = skyimage.NewLike(model)
	if err := be.ICAL(ob, visin, model, visSlices, deconv, resid, restored); err != nil {
		return nil, nil, nil, backendErr(err)
	}
	return deconv, resid, restored, nil
}

// ConvertVisToBlockVis reorders flat visibility samples into the block
// container's sample order using the index mapping produced by
// [PredictFunction]. A nil mapping is the identity. The conversion is
// local and requires no backend.
func ConvertVisToBlockVis(ob *obs.Observation, visin, blockvisin *vis.Vis, cindex []int64) (*vis.Vis, error) {
	if err := ready(); err != nil {
		return nil, err
	}
	if err := validVis(visin); err != nil {
		return nil, err
	}
	if err := validVis(blockvisin); err != nil {
		return nil, err
	}
	if visin.NPol() != blockvisin.NPol() {
		return nil, fmt.Errorf("%w: polarisation counts %d != %d", ErrShapeMismatch, visin.NPol(), blockvisin.NPol())
	}
	if cindex != nil && len(cindex) != visin.NVis() {
		return nil, fmt.Errorf("%w: index mapping length %d for %d samples", ErrShapeMismatch, len(cindex), visin.NVis())
	}
	out := blockvisin.NewLike()
	np := visin.NPol()
	for i := 0; i < visin.NVis(); i++ {
		j := i
		if cindex != nil {
			j = int(cindex[i])
		}
		if j < 0 || j >= out.NVis() {
			return nil, fmt.Errorf("%w: index mapping %d -> %d outside %d samples", ErrShapeMismatch, i, j, out.NVis())
		}
		*out.Data.Header(j) = *visin.Data.Header(i)
		for p := 0; p < np; p++ {
			out.Data.SetVisValue(visin.Data.VisValue(i, p), j, p)
			out.Data.SetWeight(visin.Data.Weight(i, p), j, p)
			out.Data.SetImagingWeight(visin.Data.ImagingWeight(i, p), j, p)
		}
	}
	return out, nil
}
