// Copyright (c) 2026, ARLKit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package obs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Open reads an observation descriptor from the given file,
// selecting the format from the extension (.toml, .yaml, .yml),
// and validates it.
func Open(filename string) (*Observation, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".toml":
		return Read(f, "toml")
	case ".yaml", ".yml":
		return Read(f, "yaml")
	default:
		return nil, fmt.Errorf("obs.Open: unsupported file extension %q", ext)
	}
}

// Read reads an observation descriptor in the given format
// ("toml" or "yaml") from the reader, and validates it.
func Read(r io.Reader, format string) (*Observation, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	ob := &Observation{}
	switch format {
	case "toml":
		err = toml.Unmarshal(b, ob)
	case "yaml":
		err = yaml.Unmarshal(b, ob)
	default:
		return nil, fmt.Errorf("obs.Read: unsupported format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if ob.NBases == 0 && ob.NAnt > 0 {
		ob.NBases = Baselines(ob.NAnt)
	}
	if err := ob.Validate(); err != nil {
		return nil, err
	}
	return ob, nil
}

// Save writes the observation descriptor to the given file,
// selecting the format from the extension (.toml, .yaml, .yml).
func (ob *Observation) Save(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".toml":
		return ob.Write(f, "toml")
	case ".yaml", ".yml":
		return ob.Write(f, "yaml")
	default:
		return fmt.Errorf("obs.Save: unsupported file extension %q", ext)
	}
}

// Write writes the observation descriptor in the given format
// ("toml" or "yaml") to the writer.
func (ob *Observation) Write(w io.Writer, format string) error {
	switch format {
	case "toml":
		return toml.NewEncoder(w).Encode(ob)
	case "yaml":
		return yaml.NewEncoder(w).Encode(ob)
	default:
		return fmt.Errorf("obs.Write: unsupported format %q", format)
	}
}
