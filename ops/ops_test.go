// Copyright (c) 2026, ARLKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import (
	"testing"

	"github.com/radioastro/arlkit/gain"
	"github.com/radioastro/arlkit/obs"
	"github.com/radioastro/arlkit/skyimage"
	"github.com/radioastro/arlkit/vis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend fills outputs with recognizable values so the tests can
// check that the surface wires containers through correctly.
type fakeBackend struct {
	inits int
}

func (fb *fakeBackend) Init() error {
	fb.inits++
	return nil
}

func (fb *fakeBackend) ComputeUVW(ob *obs.Observation, vs *vis.Vis) error {
	for i := 0; i < vs.NVis(); i++ {
		hdr := vs.Data.Header(i)
		hdr.UVW = [3]float64{float64(i), 2 * float64(i), 0}
	}
	return nil
}

func (fb *fakeBackend) TestImage(freqs []float64, cellsize float64, phaseCentre string, out *skyimage.Image) error {
	out.Set1D(1, 0)
	return nil
}

func (fb *fakeBackend) LowTestImage(ob *obs.Observation, cellsize float64, phaseCentre string, out *skyimage.Image) error {
	out.Set1D(2, 0)
	return nil
}

func (fb *fakeBackend) Predict(visin *vis.Vis, model *skyimage.Image, visout *vis.Vis) error {
	for i := 0; i < visout.NVis(); i++ {
		for p := 0; p < visout.NPol(); p++ {
			visout.Data.SetVisValue(1, i, p)
		}
	}
	return nil
}

func (fb *fakeBackend) Invert(visin *vis.Vis, model *skyimage.Image, dopsf bool, out *skyimage.Image) (float64, error) {
	v := 1.0
	if dopsf {
		v = 2
	}
	for i := 0; i < out.Len(); i++ {
		out.Set1D(v, i)
	}
	return float64(visin.SumWeights()), nil
}

func (fb *fakeBackend) PredictBlock(ob *obs.Observation, blockvis *vis.Vis, model *skyimage.Image) error {
	for i := 0; i < blockvis.NVis(); i++ {
		for p := 0; p < blockvis.NPol(); p++ {
			blockvis.Data.SetVisValue(9, i, p)
		}
	}
	return nil
}

func (fb *fakeBackend) PredictSliced(ob *obs.Observation, visin *vis.Vis, model *skyimage.Image, visout, blockvisout *vis.Vis, cindex []int64) error {
	for i := range cindex {
		cindex[i] = int64(i % max(1, blockvisout.NVis()))
	}
	return fb.Predict(visin, model, visout)
}

func (fb *fakeBackend) InvertSliced(ob *obs.Observation, visin *vis.Vis, model *skyimage.Image, visSlices int, dirty *skyimage.Image) error {
	dirty.Set1D(float64(visSlices), 0)
	return nil
}

func (fb *fakeBackend) Deconvolve(dirty, psf, restored, residual *skyimage.Image) error {
	restored.Set1D(3, 0)
	residual.Set1D(4, 0)
	return nil
}

func (fb *fakeBackend) Restore(model, psf, residual, restored *skyimage.Image) error {
	restored.Set1D(5, 0)
	return nil
}

func (fb *fakeBackend) ICAL(ob *obs.Observation, visin *vis.Vis, model *skyimage.Image, visSlices int, deconv, resid, restored *skyimage.Image) error {
	deconv.Set1D(6, 0)
	resid.Set1D(7, 0)
	restored.Set1D(8, 0)
	return nil
}

func (fb *fakeBackend) SimulateGains(ob *obs.Observation, gt *gain.Table) error {
	for i := range gt.Rows {
		gt.Rows[i].Gain[0] = 2
	}
	return nil
}

func (fb *fakeBackend) SolveGains(ob *obs.Observation, vs *vis.Vis, gt *gain.Table) error {
	for i := range gt.Rows {
		gt.Rows[i].Residual = 0.5
	}
	return nil
}

func resetState() {
	mu.Lock()
	backend = nil
	initialized = false
	mu.Unlock()
}

func setup(t *testing.T) *fakeBackend {
	t.Helper()
	resetState()
	t.Cleanup(resetState)
	fb := &fakeBackend{}
	RegisterBackend(fb)
	require.NoError(t, Initialize())
	return fb
}

func newObs(npol int) *obs.Observation {
	return &obs.Observation{
		Name:       "LOWBD2-CORE",
		Times:      []float64{0},
		Freqs:      []float64{1e8},
		ChanWidths: []float64{1e6},
		NAnt:       3,
		NBases:     3,
		NPol:       npol,
		NRec:       2,
		RMax:       300,
	}
}

func TestInitializeOnce(t *testing.T) {
	resetState()
	t.Cleanup(resetState)
	fb := &fakeBackend{}
	RegisterBackend(fb)

	assert.False(t, IsInitialized())
	require.NoError(t, Initialize())
	require.NoError(t, Initialize())
	assert.True(t, IsInitialized())
	assert.Equal(t, 1, fb.inits)
}

func TestNotInitialized(t *testing.T) {
	resetState()
	t.Cleanup(resetState)

	_, err := CreateVisibility(newObs(4))
	assert.ErrorIs(t, err, ErrNotInitialized)

	err = AdviseWideField(newObs(4), nil, &Advice{})
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestNoBackend(t *testing.T) {
	resetState()
	t.Cleanup(resetState)
	require.NoError(t, Initialize())

	_, err := CreateVisibility(newObs(4))
	assert.ErrorIs(t, err, ErrNoBackend)

	// advisory operations are local and work without a backend
	adv := Advice{}
	require.NoError(t, AdviseWideField(newObs(4), nil, &adv))
	assert.Greater(t, adv.NPixel, 0)
}

func TestCreateVisibility(t *testing.T) {
	setup(t)
	ob := newObs(4)

	vs, err := CreateVisibility(ob)
	require.NoError(t, err)
	assert.Equal(t, 3, vs.NVis())
	assert.Equal(t, 4, vs.NPol())

	hdr := vs.Data.Header(2)
	assert.Equal(t, int32(1), hdr.A1)
	assert.Equal(t, int32(2), hdr.A2)
	assert.Equal(t, 1e8, hdr.Freq)
	assert.Equal(t, 1e6, hdr.BW)
	assert.Equal(t, [3]float64{2, 4, 0}, hdr.UVW)
	assert.Equal(t, float32(1), vs.Data.Weight(2, 3))

	bad := newObs(3)
	_, err = CreateVisibility(bad)
	assert.Error(t, err)
}

func TestCreateBlockVisibility(t *testing.T) {
	setup(t)
	ob := newObs(2)
	ob.Times = []float64{0, 0.1}
	ob.Freqs = []float64{1e8, 1.1e8}
	ob.ChanWidths = []float64{1e6, 1e6}

	vs, err := CreateVisibility(ob)
	require.NoError(t, err)
	assert.Equal(t, 2*2*3, vs.NVis())

	bvs, err := CreateBlockVisibility(ob)
	require.NoError(t, err)
	assert.Equal(t, 2*3, bvs.NVis())
}

func TestAdviseWideField(t *testing.T) {
	setup(t)
	ob := newObs(1)

	adv := Advice{}
	require.NoError(t, AdviseWideField(ob, nil, &adv))
	assert.Equal(t, defaultGuardBand, adv.GuardBand)
	assert.Equal(t, defaultDelA, adv.DelA)
	assert.Greater(t, adv.Cellsize, 0.0)
	assert.GreaterOrEqual(t, adv.VisSlices, 1)
	assert.Equal(t, adv.VisSlices, adv.WProjPlanes)
	// power of two
	assert.Equal(t, 0, adv.NPixel&(adv.NPixel-1))
	assert.Greater(t, adv.NPixel, 0)

	// longer baselines need finer cells
	far := newObs(1)
	far.RMax = 3000
	adv2 := Advice{}
	require.NoError(t, AdviseWideField(far, nil, &adv2))
	assert.Less(t, adv2.Cellsize, adv.Cellsize)

	bad := newObs(1)
	bad.RMax = 0
	assert.Error(t, AdviseWideField(bad, nil, &Advice{}))

	mismatch, err := vis.New(4, 0)
	require.NoError(t, err)
	assert.ErrorIs(t, AdviseWideField(ob, mismatch, &Advice{}), ErrShapeMismatch)
}

func TestCreateImages(t *testing.T) {
	setup(t)
	ob := newObs(1)
	ob.PolFrame = "stokesI"

	im, err := CreateTestImage(ob.Freqs, 0.001, "15.0,-45.0")
	require.NoError(t, err)
	assert.Equal(t, 1.0, im.Value1D(0))
	assert.Equal(t, "15.0,-45.0", im.WCS)

	gm, err := CreateLowTestImageFromGleam(ob, 0.001, 64, "15.0,-45.0")
	require.NoError(t, err)
	assert.Equal(t, 2.0, gm.Value1D(0))
	assert.Equal(t, 64, gm.DimSize(2))

	_, err = CreateTestImage(nil, 0.001, "")
	assert.Error(t, err)
}

func TestCreateImageFromVisibility(t *testing.T) {
	setup(t)
	vs, err := CreateVisibility(newObs(4))
	require.NoError(t, err)

	model := &skyimage.Image{}
	require.NoError(t, CreateImageFromVisibility(vs, model))
	assert.Equal(t, 4, model.DimSize(0))
	assert.NoError(t, model.Valid())

	assert.ErrorIs(t, CreateImageFromVisibility(&vis.Vis{}, model), ErrNilBuffer)
}

func TestCreateImageFromBlockVisibility(t *testing.T) {
	setup(t)
	ob := newObs(1)
	ob.PolFrame = "stokesI"
	bvs, err := CreateBlockVisibility(ob)
	require.NoError(t, err)

	im, err := CreateImageFromBlockVisibility(ob, bvs, 0.001, 128, "15.0,-45.0")
	require.NoError(t, err)
	assert.Equal(t, [4]int{1, 1, 128, 128}, [4]int{im.DimSize(0), im.DimSize(1), im.DimSize(2), im.DimSize(3)})
	assert.Equal(t, "15.0,-45.0", im.WCS)
}

func TestPredictInvert(t *testing.T) {
	setup(t)
	ob := newObs(1)
	vs, err := CreateVisibility(ob)
	require.NoError(t, err)
	model := skyimage.New(1, 1, 8, 8)

	visout, err := Predict2D(vs, model)
	require.NoError(t, err)
	assert.Equal(t, vs.NVis(), visout.NVis())
	assert.Equal(t, complex64(1), visout.Data.VisValue(0, 0))
	// input untouched
	assert.Equal(t, complex64(0), vs.Data.VisValue(0, 0))

	dirty, sumwt, err := Invert2D(vs, model, false)
	require.NoError(t, err)
	assert.Equal(t, 1.0, dirty.Value1D(0))
	assert.Equal(t, float64(vs.SumWeights()), sumwt)

	psf, _, err := Invert2D(vs, model, true)
	require.NoError(t, err)
	assert.Equal(t, 2.0, psf.Value1D(0))

	unalloc := &skyimage.Image{}
	unalloc.SetShapeSizes(1, 1, 8, 8)
	_, err = Predict2D(vs, unalloc)
	assert.ErrorIs(t, err, ErrNilBuffer)

	_, err = Predict2D(&vis.Vis{}, model)
	assert.ErrorIs(t, err, ErrNilBuffer)
}

func TestPredictBlockVis(t *testing.T) {
	setup(t)
	ob := newObs(1)
	bvs, err := CreateBlockVisibility(ob)
	require.NoError(t, err)
	model := skyimage.New(1, 1, 8, 8)

	// in-place: the same container's sample values are overwritten
	require.NoError(t, PredictBlockVis(ob, bvs, model))
	assert.Equal(t, complex64(9), bvs.Data.VisValue(0, 0))
	assert.Equal(t, int32(1), bvs.Data.Header(2).A1)

	assert.ErrorIs(t, PredictBlockVis(ob, &vis.Vis{}, model), ErrNilBuffer)
	unalloc := &skyimage.Image{}
	unalloc.SetShapeSizes(1, 1, 8, 8)
	assert.ErrorIs(t, PredictBlockVis(ob, bvs, unalloc), ErrNilBuffer)

	wrongPol, err := vis.New(4, 3)
	require.NoError(t, err)
	assert.ErrorIs(t, PredictBlockVis(ob, wrongPol, model), ErrShapeMismatch)
}

func TestPredictInvertFunction(t *testing.T) {
	setup(t)
	ob := newObs(1)
	vs, err := CreateVisibility(ob)
	require.NoError(t, err)
	model := skyimage.New(1, 1, 8, 8)

	visout, blockvisout, cindex, err := PredictFunction(ob, vs, model)
	require.NoError(t, err)
	assert.Equal(t, vs.NVis(), visout.NVis())
	assert.Equal(t, ob.NTimes()*ob.NBases, blockvisout.NVis())
	assert.Equal(t, vs.NVis(), len(cindex))

	dirty, err := InvertFunction(ob, vs, model, 4)
	require.NoError(t, err)
	assert.Equal(t, 4.0, dirty.Value1D(0))

	_, err = InvertFunction(ob, vs, model, 0)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestDeconvolveRestore(t *testing.T) {
	setup(t)
	dirty := skyimage.New(1, 1, 8, 8)
	psf := skyimage.New(1, 1, 8, 8)

	restored, residual, err := DeconvolveCube(dirty, psf)
	require.NoError(t, err)
	assert.Equal(t, 3.0, restored.Value1D(0))
	assert.Equal(t, 4.0, residual.Value1D(0))

	rest, err := RestoreCube(dirty, psf, residual)
	require.NoError(t, err)
	assert.Equal(t, 5.0, rest.Value1D(0))

	small := skyimage.New(1, 1, 4, 4)
	_, _, err = DeconvolveCube(dirty, small)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = RestoreCube(dirty, psf, small)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestICAL(t *testing.T) {
	setup(t)
	ob := newObs(1)
	vs, err := CreateVisibility(ob)
	require.NoError(t, err)
	model := skyimage.New(1, 1, 8, 8)

	deconv, resid, restored, err := ICAL(ob, vs, model, 2)
	require.NoError(t, err)
	assert.Equal(t, 6.0, deconv.Value1D(0))
	assert.Equal(t, 7.0, resid.Value1D(0))
	assert.Equal(t, 8.0, restored.Value1D(0))
}

func TestConvertVisToBlockVis(t *testing.T) {
	setup(t)
	ob := newObs(1)
	vs, err := CreateVisibility(ob)
	require.NoError(t, err)
	for i := 0; i < vs.NVis(); i++ {
		vs.Data.SetVisValue(complex(float32(i), 0), i, 0)
	}
	bvs, err := CreateBlockVisibility(ob)
	require.NoError(t, err)

	// reverse mapping
	n := vs.NVis()
	cindex := make([]int64, n)
	for i := range cindex {
		cindex[i] = int64(n - 1 - i)
	}
	out, err := ConvertVisToBlockVis(ob, vs, bvs, cindex)
	require.NoError(t, err)
	assert.Equal(t, complex64(complex(float32(n-1), 0)), out.Data.VisValue(0, 0))

	// identity
	out, err = ConvertVisToBlockVis(ob, vs, bvs, nil)
	require.NoError(t, err)
	assert.Equal(t, complex64(1), out.Data.VisValue(1, 0))

	_, err = ConvertVisToBlockVis(ob, vs, bvs, []int64{0})
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = ConvertVisToBlockVis(ob, vs, bvs, []int64{99, 0, 1})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestGainTables(t *testing.T) {
	setup(t)
	ob := newObs(1)

	gt, err := SimulateGainTable(ob)
	require.NoError(t, err)
	assert.Equal(t, ob.NTimes()*ob.NAnt, gt.NRows())
	assert.Equal(t, complex64(2), gt.Rows[0].Gain[0])

	bvs, err := CreateBlockVisibility(ob)
	require.NoError(t, err)
	solved, err := CreateGainTable(ob, bvs)
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), solved.Rows[0].Residual)

	wrongPol, err := vis.New(4, 3)
	require.NoError(t, err)
	_, err = CreateGainTable(ob, wrongPol)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestApplyGainTable(t *testing.T) {
	setup(t)
	ob := newObs(1)
	vs, err := CreateVisibility(ob)
	require.NoError(t, err)
	for i := 0; i < vs.NVis(); i++ {
		vs.Data.SetVisValue(1, i, 0)
	}

	gt, err := SimulateGainTable(ob) // all gains 2
	require.NoError(t, err)

	out, err := ApplyGainTable(ob, vs, gt, false)
	require.NoError(t, err)
	assert.Equal(t, complex64(4), out.Data.VisValue(0, 0)) // 2 * conj(2) = 4

	back, err := ApplyGainTable(ob, out, gt, true)
	require.NoError(t, err)
	assert.InDelta(t, 1, real(back.Data.VisValue(0, 0)), 1e-6)

	_, err = ApplyGainTable(ob, &vis.Vis{}, gt, false)
	assert.ErrorIs(t, err, ErrNilBuffer)
}
