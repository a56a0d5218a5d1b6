package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsZeroValueVMOptions(t *testing.T) {
	cfg := Default()
	opts := cfg.ToVMOptions()
	if opts.TraceExecution {
		t.Error("expected TraceExecution=false by default")
	}
	if opts.MaxStack != 0 {
		t.Errorf("expected MaxStack=0 (unbounded) by default, got %d", opts.MaxStack)
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load() error on missing file: %v", err)
	}
	if cfg.VM.TraceExecution || cfg.VM.MaxStack != 0 {
		t.Errorf("expected default config, got %+v", cfg.VM)
	}
}

func TestLoadParsesVMSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loxvm.toml")
	contents := "[vm]\ntrace_execution = true\nmax_stack = 256\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.VM.TraceExecution {
		t.Error("expected trace_execution=true to be parsed")
	}
	if cfg.VM.MaxStack != 256 {
		t.Errorf("expected max_stack=256, got %d", cfg.VM.MaxStack)
	}

	opts := cfg.ToVMOptions()
	if !opts.TraceExecution || opts.MaxStack != 256 {
		t.Errorf("ToVMOptions() did not carry config through: %+v", opts)
	}
}

func TestLoadRejectsMalformedToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loxvm.toml")
	if err := os.WriteFile(path, []byte("not = [valid"), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for malformed TOML")
	}
}
