// Copyright (c) 2026, ARLKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logx manages the log level for [log/slog], with a level
// that the end user can control via a command-line flag.
package logx

import (
	"log/slog"
	"os"
)

// UserLevel is the current user-controlled [slog.Level].
// It defaults to [slog.LevelInfo] (or [slog.LevelDebug] under
// the debug build tag). Use [SetLevel] to change it.
var UserLevel = defaultUserLevel

// SetLevel sets [UserLevel] and installs a default text handler
// at that level writing to stderr.
func SetLevel(level slog.Level) {
	UserLevel = level
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// UserLevelIs returns whether the current [UserLevel]
// includes messages at the given level.
func UserLevelIs(level slog.Level) bool {
	return UserLevel <= level
}
