// Copyright (c) 2026, ARLKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vis provides the visibility container: a count-tagged,
// polarisation-tagged buffer of per-sample correlator measurements,
// in the exact memory layout the numerical backend operates on.
package vis

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/radioastro/arlkit/base/metadata"
)

// Vis is a container of zero or more visibility samples with a declared
// polarisation count. The sample buffer is a [Buffer] whose record layout
// is selected by the polarisation count at construction; Data is nil until
// allocated, and whoever allocates it owns it. All passing is by pointer;
// the container never owns another container.
type Vis struct {
	// Data is the polarisation-tagged sample buffer. May be nil for a
	// container that has been value-initialized but not yet populated.
	Data Buffer

	// PhaseCentre is the sky direction the observation is centered on,
	// as an opaque descriptor string passed through unmodified.
	PhaseCentre string

	// Meta is optional side-band metadata for this container.
	Meta metadata.Data
}

// New returns a new visibility container with nvis zero samples in the
// record layout for the given polarisation count (1, 2, or 4).
func New(npol, nvis int) (*Vis, error) {
	buf, err := NewBuffer(npol, nvis)
	if err != nil {
		return nil, err
	}
	return &Vis{Data: buf}, nil
}

// NVis returns the number of samples; 0 if the buffer is unallocated.
func (vs *Vis) NVis() int {
	if vs.Data == nil {
		return 0
	}
	return vs.Data.NVis()
}

// NPol returns the polarisation count; 0 if the buffer is unallocated.
func (vs *Vis) NPol() int {
	if vs.Data == nil {
		return 0
	}
	return vs.Data.NPol()
}

// Label satisfies the Labeler interface for a summary description.
func (vs *Vis) Label() string {
	return fmt.Sprintf("Vis: %d samples, %d pol", vs.NVis(), vs.NPol())
}

// Clone returns a duplicate of this container with its own separate
// copy of the sample buffer and metadata.
func (vs *Vis) Clone() *Vis {
	cp := &Vis{PhaseCentre: vs.PhaseCentre}
	if vs.Data != nil {
		cp.Data = vs.Data.Clone()
	}
	cp.Meta.Copy(vs.Meta)
	return cp
}

// NewLike returns a new container with the same polarisation and sample
// counts and metadata as this one, but all-zero sample payloads.
func (vs *Vis) NewLike() *Vis {
	cp := &Vis{PhaseCentre: vs.PhaseCentre}
	if vs.Data != nil {
		buf, _ := NewBuffer(vs.NPol(), vs.NVis())
		cp.Data = buf
	}
	cp.Meta.Copy(vs.Meta)
	return cp
}

// Copy copies the source container into the destination container, which
// must already be sized to the same sample and polarisation counts.
// Every per-sample field is deep-copied, including weights and imaging
// weights. If zero is set, the shape and metadata are duplicated but the
// sample payloads are set to their zero values instead of being copied,
// so a caller can obtain a same-shaped blanked container cheaply.
func Copy(src, dst *Vis, zero bool) error {
	if src.Data == nil || dst.Data == nil {
		return fmt.Errorf("vis.Copy: nil sample buffer (src: %v, dst: %v)", src.Data == nil, dst.Data == nil)
	}
	if dst.NPol() != src.NPol() {
		return fmt.Errorf("vis.Copy: polarisation counts do not match: %d != %d", dst.NPol(), src.NPol())
	}
	if dst.NVis() != src.NVis() {
		return fmt.Errorf("vis.Copy: sample counts do not match: %d != %d", dst.NVis(), src.NVis())
	}
	dst.PhaseCentre = src.PhaseCentre
	dst.Meta.Copy(src.Meta)
	if zero {
		dst.Data.Zero()
		return nil
	}
	return dst.Data.CopyFrom(src.Data)
}

// SumWeights returns the sum of the statistical weights over all samples
// and polarisations.
func (vs *Vis) SumWeights() float32 {
	if vs.Data == nil {
		return 0
	}
	np := vs.NPol()
	var sum float32
	for i := 0; i < vs.NVis(); i++ {
		for p := 0; p < np; p++ {
			sum += vs.Data.Weight(i, p)
		}
	}
	return sum
}

// RMSWeight returns the root-mean-square of the statistical weights over
// all samples and polarisations, 0 for an empty container.
func (vs *Vis) RMSWeight() float32 {
	if vs.Data == nil {
		return 0
	}
	n := vs.NVis() * vs.NPol()
	if n == 0 {
		return 0
	}
	var ss float32
	for i := 0; i < vs.NVis(); i++ {
		for p := 0; p < vs.NPol(); p++ {
			w := vs.Data.Weight(i, p)
			ss += w * w
		}
	}
	return math32.Sqrt(ss / float32(n))
}
