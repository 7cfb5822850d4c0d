// Copyright (c) 2026, ARLKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetadata(t *testing.T) {
	var md Data
	md.Set("Cellsize", 0.001)

	cs, err := Get[float64](md, "Cellsize")
	assert.NoError(t, err)
	assert.Equal(t, 0.001, cs)

	_, err = Get[string](md, "Cellsize")
	assert.Error(t, err)

	_, err = Get[float64](md, "Missing")
	assert.Error(t, err)

	md.SetName("lowtest")
	assert.Equal(t, "lowtest", md.GetName())

	var cp Data
	cp.Copy(md)
	assert.Equal(t, "lowtest", cp.GetName())
	cp.SetName("other")
	assert.Equal(t, "lowtest", md.GetName())
}
