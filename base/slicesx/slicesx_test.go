// Copyright (c) 2026, ARLKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package slicesx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLength(t *testing.T) {
	var s []int
	s = SetLength(s, 3)
	assert.Equal(t, 3, len(s))

	s[2] = 2
	s = SetLength(s, 40)
	assert.Equal(t, 40, len(s))
	assert.Equal(t, 2, s[2])

	s = SetLength(s, 4)
	assert.Equal(t, 4, len(s))
	assert.Equal(t, 2, s[2])
}

func TestToBytes(t *testing.T) {
	s := []float64{1, 2, 3}
	b := ToBytes(s)
	assert.Equal(t, 24, len(b))

	f := FromBytes[float64](b)
	assert.Equal(t, s, f)

	f[1] = 5
	assert.Equal(t, 5.0, s[1])

	assert.Nil(t, ToBytes[float64](nil))
	assert.Nil(t, FromBytes[float64](nil))
}
