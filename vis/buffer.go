// Copyright (c) 2026, ARLKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vis

import (
	"fmt"
	"unsafe"

	"github.com/radioastro/arlkit/base/slicesx"
)

// Buffer is the polarisation-tagged backing store for visibility samples.
// It is implemented by the generic [Data] type specialized to one of the
// [Entry] record layouts, selected at construction time by [NewBuffer].
// Consumers use the polarisation count as the layout discriminator and the
// sample count as the authoritative bound.
type Buffer interface {
	// NPol returns the polarisation count (1, 2, or 4) that selects
	// the physical record layout.
	NPol() int

	// NVis returns the number of samples in the buffer.
	NVis() int

	// SetNVis resizes the buffer to hold n samples,
	// retaining existing samples that fit.
	SetNVis(n int)

	// EntrySize returns the size in bytes of one sample record.
	EntrySize() int64

	// Sizeof returns the total number of bytes in the buffer.
	Sizeof() int64

	// Bytes returns the underlying byte representation of the samples.
	// This is the actual underlying data, so make a copy if it can be
	// unintentionally modified or retained more than for immediate use.
	Bytes() []byte

	// Header returns the layout-independent scalar fields of sample i,
	// as a pointer into the buffer for in-place updates.
	Header(i int) *SampleHeader

	// VisValue returns the complex visibility of sample i, polarisation pol.
	VisValue(i, pol int) complex64

	// SetVisValue sets the complex visibility of sample i, polarisation pol.
	SetVisValue(val complex64, i, pol int)

	// Weight returns the statistical weight of sample i, polarisation pol.
	Weight(i, pol int) float32

	// SetWeight sets the statistical weight of sample i, polarisation pol.
	SetWeight(val float32, i, pol int)

	// ImagingWeight returns the imaging weight of sample i, polarisation pol.
	ImagingWeight(i, pol int) float32

	// SetImagingWeight sets the imaging weight of sample i, polarisation pol.
	SetImagingWeight(val float32, i, pol int)

	// Zero sets every sample record to its zero value,
	// keeping the sample count.
	Zero()

	// Clone returns a duplicate of this buffer with its own
	// separate copy of all sample records.
	Clone() Buffer

	// View returns a new buffer sharing the same underlying sample
	// records, for borrowed access without a copy.
	View() Buffer

	// CopyFrom copies all sample records from the source buffer, which
	// must have the same polarisation and sample counts.
	CopyFrom(src Buffer) error
}

// NewBuffer returns a new buffer with the record layout selected
// by the polarisation count, holding nvis zero samples.
// Polarisation counts other than 1, 2, and 4 return an error.
func NewBuffer(npol, nvis int) (Buffer, error) {
	switch npol {
	case 1:
		return NewData[EntryP1](nvis), nil
	case 2:
		return NewData[EntryP2](nvis), nil
	case 4:
		return NewData[EntryP4](nvis), nil
	default:
		return nil, fmt.Errorf("vis.NewBuffer: unsupported polarisation count %d (must be 1, 2, or 4)", npol)
	}
}

// Data is a buffer of per-sample records with the layout given by the
// type parameter. The records are stored contiguously, so [Data.Bytes]
// exposes exactly the columnar memory the numerical backend expects.
type Data[E Entry] struct {
	Entries []E
}

// NewData returns a new [Data] buffer of given layout holding nvis zero samples.
func NewData[E Entry](nvis int) *Data[E] {
	return &Data[E]{Entries: make([]E, nvis)}
}

func (dt *Data[E]) NPol() int { return NPolFor[E]() }

func (dt *Data[E]) NVis() int { return len(dt.Entries) }

func (dt *Data[E]) SetNVis(n int) {
	dt.Entries = slicesx.SetLength(dt.Entries, n)
}

func (dt *Data[E]) EntrySize() int64 {
	var e E
	return int64(unsafe.Sizeof(e))
}

func (dt *Data[E]) Sizeof() int64 {
	return dt.EntrySize() * int64(len(dt.Entries))
}

func (dt *Data[E]) Bytes() []byte {
	return slicesx.ToBytes(dt.Entries)
}

// Entry returns a pointer to the full record of sample i,
// for layout-specific access.
func (dt *Data[E]) Entry(i int) *E {
	return &dt.Entries[i]
}

func (dt *Data[E]) Header(i int) *SampleHeader {
	switch es := any(dt.Entries).(type) {
	case []EntryP1:
		return &es[i].SampleHeader
	case []EntryP2:
		return &es[i].SampleHeader
	default:
		return &any(dt.Entries).([]EntryP4)[i].SampleHeader
	}
}

func (dt *Data[E]) VisValue(i, pol int) complex64 {
	switch es := any(dt.Entries).(type) {
	case []EntryP1:
		return es[i].Vis[pol]
	case []EntryP2:
		return es[i].Vis[pol]
	default:
		return any(dt.Entries).([]EntryP4)[i].Vis[pol]
	}
}

func (dt *Data[E]) SetVisValue(val complex64, i, pol int) {
	switch es := any(dt.Entries).(type) {
	case []EntryP1:
		es[i].Vis[pol] = val
	case []EntryP2:
		es[i].Vis[pol] = val
	default:
		any(dt.Entries).([]EntryP4)[i].Vis[pol] = val
	}
}

func (dt *Data[E]) Weight(i, pol int) float32 {
	switch es := any(dt.Entries).(type) {
	case []EntryP1:
		return es[i].Weight[pol]
	case []EntryP2:
		return es[i].Weight[pol]
	default:
		return any(dt.Entries).([]EntryP4)[i].Weight[pol]
	}
}

func (dt *Data[E]) SetWeight(val float32, i, pol int) {
	switch es := any(dt.Entries).(type) {
	case []EntryP1:
		es[i].Weight[pol] = val
	case []EntryP2:
		es[i].Weight[pol] = val
	default:
		any(dt.Entries).([]EntryP4)[i].Weight[pol] = val
	}
}

func (dt *Data[E]) ImagingWeight(i, pol int) float32 {
	switch es := any(dt.Entries).(type) {
	case []EntryP1:
		return es[i].ImagingWeight[pol]
	case []EntryP2:
		return es[i].ImagingWeight[pol]
	default:
		return any(dt.Entries).([]EntryP4)[i].ImagingWeight[pol]
	}
}

func (dt *Data[E]) SetImagingWeight(val float32, i, pol int) {
	switch es := any(dt.Entries).(type) {
	case []EntryP1:
		es[i].ImagingWeight[pol] = val
	case []EntryP2:
		es[i].ImagingWeight[pol] = val
	default:
		any(dt.Entries).([]EntryP4)[i].ImagingWeight[pol] = val
	}
}

func (dt *Data[E]) Zero() {
	var z E
	for i := range dt.Entries {
		dt.Entries[i] = z
	}
}

func (dt *Data[E]) Clone() Buffer {
	cp := NewData[E](len(dt.Entries))
	copy(cp.Entries, dt.Entries)
	return cp
}

func (dt *Data[E]) View() Buffer {
	return &Data[E]{Entries: dt.Entries}
}

func (dt *Data[E]) CopyFrom(src Buffer) error {
	fsm, ok := src.(*Data[E])
	if !ok {
		return fmt.Errorf("vis.CopyFrom: polarisation layouts do not match: %d != %d", dt.NPol(), src.NPol())
	}
	if len(fsm.Entries) != len(dt.Entries) {
		return fmt.Errorf("vis.CopyFrom: sample counts do not match: %d != %d", len(dt.Entries), len(fsm.Entries))
	}
	copy(dt.Entries, fsm.Entries)
	return nil
}
