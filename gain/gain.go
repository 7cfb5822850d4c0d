// Copyright (c) 2026, ARLKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gain provides the gain table container: row-tagged per-antenna
// calibration solutions, and the operation applying them to visibilities.
package gain

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/radioastro/arlkit/base/metadata"
	"github.com/radioastro/arlkit/base/slicesx"
	"github.com/radioastro/arlkit/obs"
	"github.com/radioastro/arlkit/vis"
)

// MaxRec is the number of receptors a solution carries gains for.
const MaxRec = 2

// Solution is one calibration solution row: the complex gain per receptor
// for one antenna over one solution interval. The record is fixed-size so
// a table's rows form one contiguous buffer.
type Solution struct {
	// Time is the solution midpoint time (MJD seconds, UTC).
	Time float64

	// Interval is the solution interval in seconds.
	Interval float64

	// Antenna is the antenna index the solution applies to.
	Antenna int32

	// Gain is the complex gain per receptor.
	Gain [MaxRec]complex64

	// Weight is the solution weight per receptor.
	Weight [MaxRec]float32

	// Residual is the post-fit residual of the solve.
	Residual float32
}

// Amplitude returns the gain amplitude for the given receptor.
func (sol *Solution) Amplitude(rec int) float32 {
	g := sol.Gain[rec]
	return math32.Hypot(real(g), imag(g))
}

// Table is a row-tagged container of calibration solutions.
// Whoever allocates the rows owns them; passing is by pointer.
type Table struct {
	// Rows are the solution records, stored contiguously.
	Rows []Solution

	// Meta is optional side-band metadata for this container.
	Meta metadata.Data
}

// NewTable returns a new table with nrows zero solutions.
func NewTable(nrows int) *Table {
	return &Table{Rows: make([]Solution, nrows)}
}

// NRows returns the number of solution rows.
func (gt *Table) NRows() int { return len(gt.Rows) }

// SetNRows resizes the table to hold n rows,
// retaining existing solutions that fit.
func (gt *Table) SetNRows(n int) {
	gt.Rows = slicesx.SetLength(gt.Rows, n)
}

// Bytes returns the underlying byte representation of the rows.
// This is the actual underlying data, so make a copy if it can be
// unintentionally modified or retained more than for immediate use.
func (gt *Table) Bytes() []byte { return slicesx.ToBytes(gt.Rows) }

// Zero sets every solution to its zero value, keeping the row count.
func (gt *Table) Zero() {
	var z Solution
	for i := range gt.Rows {
		gt.Rows[i] = z
	}
}

// SetUnity sets every solution's gains to 1+0i with unit weight,
// the identity calibration.
func (gt *Table) SetUnity() {
	for i := range gt.Rows {
		for r := 0; r < MaxRec; r++ {
			gt.Rows[i].Gain[r] = 1
			gt.Rows[i].Weight[r] = 1
		}
	}
}

// Label satisfies the Labeler interface for a summary description.
func (gt *Table) Label() string {
	return fmt.Sprintf("GainTable: %d rows", gt.NRows())
}

// Apply applies the table's solutions to the input visibilities, writing
// the results into the output container, which must already be sized to
// the same sample and polarisation counts. Each sample is multiplied by
// g1 * conj(g2) of its antenna pair, or divided by it when inverse is set
// (the correction direction). Samples whose antennas have no solution are
// copied unchanged.
func Apply(ob *obs.Observation, visin *vis.Vis, gt *Table, visout *vis.Vis, inverse bool) error {
	if visin.Data == nil || visout.Data == nil {
		return fmt.Errorf("gain.Apply: nil sample buffer (in: %v, out: %v)", visin.Data == nil, visout.Data == nil)
	}
	if gt.NRows() == 0 {
		return fmt.Errorf("gain.Apply: empty gain table")
	}
	if ob != nil && ob.NPol != visin.NPol() {
		return fmt.Errorf("gain.Apply: visibility polarisation count %d does not match configuration %d", visin.NPol(), ob.NPol)
	}
	if visout.NPol() != visin.NPol() || visout.NVis() != visin.NVis() {
		return fmt.Errorf("gain.Apply: output shape (%d, %d pol) does not match input (%d, %d pol)",
			visout.NVis(), visout.NPol(), visin.NVis(), visin.NPol())
	}
	if err := vis.Copy(visin, visout, false); err != nil {
		return err
	}

	// first solution per antenna; solves produce one row per antenna per interval
	byAnt := map[int32]*Solution{}
	for i := range gt.Rows {
		sol := &gt.Rows[i]
		if _, ok := byAnt[sol.Antenna]; !ok {
			byAnt[sol.Antenna] = sol
		}
	}

	np := visin.NPol()
	for i := 0; i < visin.NVis(); i++ {
		hdr := visout.Data.Header(i)
		s1, ok1 := byAnt[hdr.A1]
		s2, ok2 := byAnt[hdr.A2]
		if !ok1 || !ok2 {
			continue
		}
		for p := 0; p < np; p++ {
			// receptor pairing: pols (0, 1) on receptor 0, (2, 3) on receptor 1
			rec := 0
			if np == 4 && p >= 2 {
				rec = 1
			}
			g := s1.Gain[rec] * conj(s2.Gain[rec])
			v := visout.Data.VisValue(i, p)
			if inverse {
				m2 := real(g)*real(g) + imag(g)*imag(g)
				if m2 == 0 {
					visout.Data.SetVisValue(0, i, p)
					visout.Data.SetWeight(0, i, p)
					continue
				}
				visout.Data.SetVisValue(v*conj(g)/complex(m2, 0), i, p)
			} else {
				visout.Data.SetVisValue(v*g, i, p)
			}
		}
	}
	return nil
}

func conj(c complex64) complex64 {
	return complex(real(c), -imag(c))
}
