// Copyright (c) 2026, ARLKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLog(t *testing.T) {
	err := New("test error")
	assert.Equal(t, err, Log(err))
	assert.NoError(t, Log(nil))
}

func TestLog1(t *testing.T) {
	assert.Equal(t, 42, Log1(42, nil))
	assert.Equal(t, 42, Log1(42, New("test error")))
}

func TestIgnore1(t *testing.T) {
	assert.Equal(t, 42, Ignore1(42, New("test error")))
}

func TestMust(t *testing.T) {
	assert.NotPanics(t, func() { Must(nil) })
	assert.Panics(t, func() { Must(New("test error")) })
}

func TestMust1(t *testing.T) {
	assert.Equal(t, 42, Must1(42, nil))
	assert.Panics(t, func() { Must1(0, New("test error")) })
}
