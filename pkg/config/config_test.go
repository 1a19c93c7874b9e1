package config

import "testing"

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Fatalf("DefaultConfig() failed validation: %v", err)
	}
}

func TestLoadWithNoFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.Logging.Level != "INFO" {
		t.Errorf("Logging.Level = %q, want INFO", cfg.Logging.Level)
	}
	if cfg.Defaults.KeySizeBits != 256 {
		t.Errorf("Defaults.KeySizeBits = %d, want 256", cfg.Defaults.KeySizeBits)
	}
}

func TestValidateRejectsBadLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "TRACE"
	if err := Validate(cfg); err == nil {
		t.Errorf("expected validation error for bad logging level")
	}
}

func TestValidateRejectsBadKeySize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Defaults.KeySizeBits = 192
	if err := Validate(cfg); err == nil {
		t.Errorf("expected validation error for unsupported key size")
	}
}
