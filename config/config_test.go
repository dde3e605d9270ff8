package config

import (
	"testing"
)

// ── ParsePort ────────────────────────────────────────────────────────

func TestParsePort(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"0", 0, false}, // 0 is legal: ephemeral listen port
		{"8888", 8888, false},
		{"65535", 65535, false},
		{"1024", 1024, false},
		{"65536", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"80 ", 0, true},
		{"0x50", 0, true}, // decimal only
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePort(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePort(%q) error = %v, wantErr = %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParsePort(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

// ── Defaults ─────────────────────────────────────────────────────────

func TestNewServerConfigDefaults(t *testing.T) {
	cfg := NewServerConfig()
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port, DefaultPort)
	}
	if cfg.WaitTimeout != DefaultWaitTimeout {
		t.Errorf("WaitTimeout = %v, want %v", cfg.WaitTimeout, DefaultWaitTimeout)
	}
	if cfg.RequestBufSize != DefaultRequestBufSize {
		t.Errorf("RequestBufSize = %d, want %d", cfg.RequestBufSize, DefaultRequestBufSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestNewClientConfigDefaults(t *testing.T) {
	cfg := NewClientConfig()
	if cfg.Host != DefaultHost {
		t.Errorf("Host = %q, want %q", cfg.Host, DefaultHost)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port, DefaultPort)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestDefaultShell(t *testing.T) {
	if DefaultShell() == "" {
		t.Fatal("DefaultShell returned empty string")
	}
}
