package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != "stdio" {
		t.Errorf("Expected default mode to be 'stdio', got '%s'", cfg.Mode)
	}

	if cfg.Host != "127.0.0.1" {
		t.Errorf("Expected default host to be '127.0.0.1', got '%s'", cfg.Host)
	}

	if cfg.Port != 8080 {
		t.Errorf("Expected default port to be 8080, got %d", cfg.Port)
	}

	if cfg.ServerName != "mcp-pdf-keymatch" {
		t.Errorf("Expected default server name to be 'mcp-pdf-keymatch', got '%s'", cfg.ServerName)
	}

	if cfg.ReportFormat != "text" {
		t.Errorf("Expected default report format to be 'text', got '%s'", cfg.ReportFormat)
	}

	if cfg.MaxFileSize != 100*1024*1024 {
		t.Errorf("Expected default max file size to be 100MB, got %d", cfg.MaxFileSize)
	}

	currentDir, _ := os.Getwd()
	if cfg.WorkDir != currentDir {
		t.Errorf("Expected default working directory to be '%s', got '%s'", currentDir, cfg.WorkDir)
	}
}

func TestConfigValidate(t *testing.T) {
	tempDir := t.TempDir()

	withDir := func(mutate func(c *Config)) *Config {
		c := DefaultConfig()
		c.WorkDir = tempDir
		mutate(c)
		return c
	}

	tests := []struct {
		name    string
		config  *Config
		wantErr string
	}{
		{
			name:   "valid config - stdio mode",
			config: withDir(func(c *Config) {}),
		},
		{
			name:   "valid config - server mode",
			config: withDir(func(c *Config) { c.Mode = ModeServer }),
		},
		{
			name: "valid config - cli report",
			config: withDir(func(c *Config) {
				c.Mode = ModeCLI
				c.PDFPath = "in.pdf"
				c.Keyword = "risk"
			}),
		},
		{
			name: "cli merge ignores report format",
			config: withDir(func(c *Config) {
				c.Mode = ModeCLI
				c.PDFPath = "in.pdf"
				c.TemplatePath = "t.docx"
				c.Keyword = "risk"
				c.ReportFormat = "whatever"
			}),
		},
		{
			name:    "invalid mode",
			config:  withDir(func(c *Config) { c.Mode = "invalid" }),
			wantErr: "mode must be one of",
		},
		{
			name: "invalid port in server mode",
			config: withDir(func(c *Config) {
				c.Mode = ModeServer
				c.Port = 0
			}),
			wantErr: "port must be between",
		},
		{
			name:   "port ignored in stdio mode",
			config: withDir(func(c *Config) { c.Port = 0 }),
		},
		{
			name:    "empty working directory",
			config:  withDir(func(c *Config) { c.WorkDir = "" }),
			wantErr: "working directory cannot be empty",
		},
		{
			name:    "zero max file size",
			config:  withDir(func(c *Config) { c.MaxFileSize = 0 }),
			wantErr: "maximum file size must be positive",
		},
		{
			name:    "invalid log level",
			config:  withDir(func(c *Config) { c.LogLevel = "verbose" }),
			wantErr: "invalid log level",
		},
		{
			name: "cli without pdf",
			config: withDir(func(c *Config) {
				c.Mode = ModeCLI
				c.Keyword = "risk"
			}),
			wantErr: "requires --pdf and --keyword",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidateDirectoryCreation(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "work")

	cfg := DefaultConfig()
	cfg.WorkDir = dir
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Expected directory to be created: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("Expected %s to be a directory", dir)
	}
}

func TestConfigAddress(t *testing.T) {
	cfg := &Config{Host: "localhost", Port: 9000}
	if got := cfg.Address(); got != "localhost:9000" {
		t.Errorf("Address() = %s, want localhost:9000", got)
	}
}

func TestConfigModes(t *testing.T) {
	tests := []struct {
		mode               string
		stdio, server, cli bool
	}{
		{ModeStdio, true, false, false},
		{ModeServer, false, true, false},
		{ModeCLI, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			cfg := &Config{Mode: tt.mode}
			if cfg.IsStdioMode() != tt.stdio || cfg.IsServerMode() != tt.server || cfg.IsCLIMode() != tt.cli {
				t.Errorf("mode predicates wrong for %s", tt.mode)
			}
		})
	}
}

func TestConfigString(t *testing.T) {
	cfg := &Config{Mode: ModeServer, Host: "h", Port: 1, WorkDir: "/w", LogLevel: "info", MaxFileSize: 2}
	want := "Config{Mode: server, Host: h, Port: 1, WorkDir: /w, LogLevel: info, MaxFileSize: 2}"
	if got := cfg.String(); got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}
