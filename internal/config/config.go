package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"
	ModeCLI    = "cli"

	// Report formats for CLI extraction without a template
	ReportText = "text"
	ReportYAML = "yaml"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

	// EnvPrefix prefixes every environment variable, e.g. KEYMATCH_DIR
	EnvPrefix = "KEYMATCH"

	// Directory permissions
	DefaultDirPerm = 0o750
)

// ErrVersionRequested is returned by LoadFromFlags when --version is given
var ErrVersionRequested = errors.New("version requested")

// Config holds all configuration for the keyword matcher
type Config struct {
	// Server configuration
	Mode string // "stdio", "server" or "cli"
	Host string
	Port int

	// WorkDir confines every file the tools read or write
	WorkDir string

	// CLI inputs
	PDFPath      string
	TemplatePath string
	Keyword      string
	OutputPath   string
	ReportFormat string

	// ConfigFile is an optional YAML/JSON/TOML file read by viper
	ConfigFile string

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum input file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:         ModeStdio, // MCP clients spawn the server over stdio
		Host:         DefaultHost,
		Port:         DefaultPort,
		WorkDir:      currentDir,
		ReportFormat: ReportText,
		Version:      "1.0.0",
		ServerName:   "mcp-pdf-keymatch",
		LogLevel:     DefaultLogLevel,
		MaxFileSize:  DefaultMaxFileSize,
	}
}

// LoadFromFlags parses the process arguments and returns a configuration
func LoadFromFlags() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	if checkVersionFlag(args) {
		return nil, ErrVersionRequested
	}

	if err := pflag.CommandLine.Parse(args); err != nil {
		return nil, err
	}

	if err := readConfigFile(); err != nil {
		return nil, err
	}

	populateConfigFromViper(cfg)

	if cfg.WorkDir != "" {
		if expandedPath, err := filepath.Abs(cfg.WorkDir); err == nil {
			cfg.WorkDir = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.WorkDir)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("pdf", "")
	viper.SetDefault("template", "")
	viper.SetDefault("keyword", "")
	viper.SetDefault("output", "")
	viper.SetDefault("report", cfg.ReportFormat)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Run mode: 'stdio' for MCP standard I/O, 'server' for HTTP/SSE, 'cli' for a one-shot run")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.WorkDir, "Working directory; tool paths are resolved inside it")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum input file size in bytes")
	pflag.String("config", "", "Optional configuration file")

	pflag.String("pdf", "", "Source PDF (cli mode)")
	pflag.String("template", "", "Word template to update (cli mode)")
	pflag.String("keyword", "", "Keyword to extract (cli mode)")
	pflag.String("output", "", "Output document, default Updated_<template> (cli mode)")
	pflag.String("report", cfg.ReportFormat, "Report format when no template is given: text or yaml (cli mode)")
}

var boundFlags = []string{
	"mode", "host", "port", "dir", "loglevel", "maxfilesize", "config",
	"pdf", "template", "keyword", "output", "report",
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range boundFlags {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// readConfigFile loads --config when given. Values from it rank below flags
// and environment variables.
func readConfigFile() error {
	path := viper.GetString("config")
	if path == "" {
		return nil
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return nil
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nMCP PDF Keymatch - extract keyword occurrences from a PDF into a Word template\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                          "+
			"# MCP stdio mode, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --dir=/srv/docs            # HTTP/SSE server\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=cli --pdf=in.pdf --template=t.docx --keyword=risk\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=cli --pdf=in.pdf --keyword=risk --report=yaml\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		for _, name := range boundFlags {
			fmt.Fprintf(os.Stderr, "  %s_%s\n", EnvPrefix, strings.ToUpper(name))
		}
	}
}

// checkVersionFlag reports whether the version flag was requested
func checkVersionFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return true
		}
	}
	return false
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.WorkDir = viper.GetString("dir")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.ConfigFile = viper.GetString("config")
	cfg.PDFPath = viper.GetString("pdf")
	cfg.TemplatePath = viper.GetString("template")
	cfg.Keyword = viper.GetString("keyword")
	cfg.OutputPath = viper.GetString("output")
	cfg.ReportFormat = strings.ToLower(viper.GetString("report"))
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeStdio, ModeServer, ModeCLI:
	default:
		return errors.New("mode must be one of 'stdio', 'server' or 'cli'")
	}

	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.WorkDir == "" {
		return errors.New("working directory cannot be empty")
	}

	// Servers may start before the directory is populated
	if _, err := os.Stat(c.WorkDir); os.IsNotExist(err) {
		if err := os.MkdirAll(c.WorkDir, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create working directory %s: %w", c.WorkDir, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access working directory %s: %w", c.WorkDir, err)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	if c.Mode == ModeCLI {
		if c.PDFPath == "" || strings.TrimSpace(c.Keyword) == "" {
			return errors.New("cli mode requires --pdf and --keyword")
		}
		if c.TemplatePath == "" && c.ReportFormat != ReportText && c.ReportFormat != ReportYAML {
			return fmt.Errorf("invalid report format: %s (must be one of: text, yaml)", c.ReportFormat)
		}
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, WorkDir: %s, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.WorkDir, c.LogLevel, c.MaxFileSize)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

// IsCLIMode returns true for a one-shot command line run
func (c *Config) IsCLIMode() bool {
	return c.Mode == ModeCLI
}
