// Copyright (c) 2026, ARLKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vis

// SampleHeader holds the per-sample fields common to all entry layouts:
// baseline geometry, timing, frequency, and the antenna pair.
// It is laid out first in every entry record so the scalar columns sit at
// identical offsets regardless of polarisation count.
type SampleHeader struct {
	// UVW is the baseline coordinate in the standard (u, v, w) frame, in meters.
	UVW [3]float64

	// Time is the sample midpoint time (MJD seconds, UTC).
	Time float64

	// Freq is the channel center frequency in Hz.
	Freq float64

	// BW is the channel bandwidth in Hz.
	BW float64

	// Integration is the integration time in seconds.
	Integration float64

	// A1, A2 are the indexes of the two antennas forming the baseline.
	A1, A2 int32
}

// EntryP1 is the per-sample record for single-polarisation data.
type EntryP1 struct {
	SampleHeader

	// Vis is the complex visibility value per polarisation.
	Vis [1]complex64

	// Weight is the statistical weight per polarisation.
	Weight [1]float32

	// ImagingWeight is the imaging (gridding) weight per polarisation.
	ImagingWeight [1]float32
}

// EntryP2 is the per-sample record for dual-polarisation data.
type EntryP2 struct {
	SampleHeader
	Vis           [2]complex64
	Weight        [2]float32
	ImagingWeight [2]float32
}

// EntryP4 is the per-sample record for full four-polarisation data.
// Its field order and sizes match the columnar layout the numerical
// backend expects, so the buffer can be reinterpreted without copying.
type EntryP4 struct {
	SampleHeader
	Vis           [4]complex64
	Weight        [4]float32
	ImagingWeight [4]float32
}

// Entry is the type set of the fixed-layout per-sample records,
// discriminated by polarisation count.
type Entry interface {
	EntryP1 | EntryP2 | EntryP4
}

// NPolFor returns the polarisation count for the given entry layout.
func NPolFor[E Entry]() int {
	var e E
	switch any(e).(type) {
	case EntryP1:
		return 1
	case EntryP2:
		return 2
	default:
		return 4
	}
}
