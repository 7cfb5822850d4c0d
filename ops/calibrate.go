// Copyright (c) 2026, ARLKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ops

import (
	"fmt"

	"github.com/radioastro/arlkit/gain"
	"github.com/radioastro/arlkit/obs"
	"github.com/radioastro/arlkit/vis"
)

// SimulateGainTable creates a gain table for the observation, one row
// per antenna per sample time, filled with simulated gains by the
// backend. The returned table is owned by the caller.
func SimulateGainTable(ob *obs.Observation) (*gain.Table, error) {
	be, err := current()
	if err != nil {
		return nil, err
	}
	gt, err := newGainTable(ob)
	if err != nil {
		return nil, err
	}
	if err := be.SimulateGains(ob, gt); err != nil {
		return nil, backendErr(err)
	}
	return gt, nil
}

// CreateGainTable creates a gain table for the observation with its
// gains solved from the observed block visibilities by the backend.
// The returned table is owned by the caller.
func CreateGainTable(ob *obs.Observation, blockvis *vis.Vis) (*gain.Table, error) {
	be, err := current()
	if err != nil {
		return nil, err
	}
	if err := validVis(blockvis); err != nil {
		return nil, err
	}
	if blockvis.NPol() != ob.NPol {
		return nil, fmt.Errorf("%w: visibility polarisation count %d != configuration %d", ErrShapeMismatch, blockvis.NPol(), ob.NPol)
	}
	gt, err := newGainTable(ob)
	if err != nil {
		return nil, err
	}
	if err := be.SolveGains(ob, blockvis, gt); err != nil {
		return nil, backendErr(err)
	}
	return gt, nil
}

// newGainTable allocates one identity solution row per antenna per
// sample time.
func newGainTable(ob *obs.Observation) (*gain.Table, error) {
	if err := ob.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShapeMismatch, err)
	}
	ntimes := max(1, ob.NTimes())
	gt := gain.NewTable(ntimes * ob.NAnt)
	gt.SetUnity()
	i := 0
	for t := 0; t < ntimes; t++ {
		for a := 0; a < ob.NAnt; a++ {
			gt.Rows[i].Antenna = int32(a)
			if t < ob.NTimes() {
				gt.Rows[i].Time = ob.Times[t]
			}
			i++
		}
	}
	return gt, nil
}

// ApplyGainTable applies the table's solutions to the input
// visibilities, returning a new output container of the same shape.
// When inverse is set the solutions are divided out (the correction
// direction). The application is local and requires no backend.
func ApplyGainTable(ob *obs.Observation, visin *vis.Vis, gt *gain.Table, inverse bool) (*vis.Vis, error) {
	if err := ready(); err != nil {
		return nil, err
	}
	if err := validVis(visin); err != nil {
		return nil, err
	}
	visout := visin.NewLike()
	if err := gain.Apply(ob, visin, gt, visout, inverse); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShapeMismatch, err)
	}
	return visout, nil
}
