// Package config loads optional TOML configuration for the VM,
// limited to two knobs: trace_execution and max_stack.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"loxvm/vm"
)

// Config is the on-disk shape of loxvm.toml.
type Config struct {
	VM struct {
		TraceExecution bool `toml:"trace_execution"`
		MaxStack       int  `toml:"max_stack"`
	} `toml:"vm"`
}

// Default returns a Config matching vm.Options's zero value: tracing
// off, stack unbounded.
func Default() *Config {
	return &Config{}
}

// ToVMOptions converts the loaded config into the vm.Options New and
// Interpret expect.
func (c *Config) ToVMOptions() vm.Options {
	return vm.Options{
		TraceExecution: c.VM.TraceExecution,
		MaxStack:       c.VM.MaxStack,
	}
}

// Load reads path if it exists, falling back to Default() silently
// when it does not — a missing loxvm.toml is normal, not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath returns the conventional location for a project-local
// loxvm.toml: the current working directory. Unlike the arm-emulator
// example, loxvm's config is a per-project file checked in alongside
// scripts, not a per-user one under $HOME.
func DefaultPath() string {
	return filepath.Join(".", "loxvm.toml")
}
