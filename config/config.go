// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config contains the stub table settings.
package config

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/docker/go-units"
	"github.com/pkg/errors"

	"gate.computer/stubcode/arch"
)

// Size in bytes.  Text form accepts human units such as "4MiB" or "16k".
type Size int64

func (s *Size) UnmarshalText(text []byte) error {
	n, err := units.RAMInBytes(string(text))
	if err != nil {
		return err
	}
	if n < 0 {
		return errors.Errorf("negative size: %s", text)
	}
	*s = Size(n)
	return nil
}

func (s Size) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s Size) String() string {
	return units.BytesSize(float64(s))
}

type Config struct {
	// Arch is the target architecture.  Empty means the host.
	Arch string `toml:"arch"`

	// Precompiled disables run-time generation of isolate-specific stubs.
	Precompiled bool `toml:"precompiled"`

	// ExecutableMemoryLimit caps the mapped code of the default heap.  Zero
	// means no limit.
	ExecutableMemoryLimit Size `toml:"executable_memory_limit"`

	// MaxStubSize caps the code size of a single stub.
	MaxStubSize Size `toml:"max_stub_size"`
}

func Default() Config {
	return Config{
		ExecutableMemoryLimit: 4 * units.MiB,
		MaxStubSize:           16 * units.KiB,
	}
}

// Target architecture.
func (c Config) Target() (arch.Arch, error) {
	return arch.Parse(c.Arch)
}

func (c Config) Validate() error {
	if _, err := c.Target(); err != nil {
		return err
	}
	if c.MaxStubSize <= 0 {
		return errors.New("max_stub_size must be positive")
	}
	return nil
}

// Decode TOML on top of the defaults.  Unknown keys are errors.
func Decode(text string) (Config, error) {
	c := Default()

	md, err := toml.Decode(text, &c)
	if err != nil {
		return c, errors.Wrap(err, "parse error")
	}
	if err := checkUndecoded(md); err != nil {
		return c, err
	}
	return c, c.Validate()
}

// Load a TOML file on top of the defaults.
func Load(path string) (Config, error) {
	c := Default()

	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return c, errors.Wrapf(err, "cannot load %s", path)
	}
	if err := checkUndecoded(md); err != nil {
		return c, errors.Wrap(err, path)
	}
	return c, c.Validate()
}

func checkUndecoded(md toml.MetaData) error {
	keys := md.Undecoded()
	if len(keys) == 0 {
		return nil
	}

	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return errors.Errorf("unknown configuration keys: %s", strings.Join(names, ", "))
}
