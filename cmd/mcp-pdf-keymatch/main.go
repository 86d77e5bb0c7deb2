package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/a3tai/mcp-pdf-keymatch/internal/config"
	"github.com/a3tai/mcp-pdf-keymatch/internal/failure"
	"github.com/a3tai/mcp-pdf-keymatch/internal/mcp"
	"github.com/a3tai/mcp-pdf-keymatch/internal/pdf"
	"github.com/a3tai/mcp-pdf-keymatch/internal/report"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging sends human-readable logs to out at the configured level.
// In stdio mode stdout carries the protocol, so anything below warn is
// dropped unless debugging.
func setupLogging(cfg *config.Config, out io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if cfg.IsStdioMode() && !cfg.IsDebug() && level < zerolog.WarnLevel {
		level = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(level)
}

// userMessage is the one-line summary shown for a failed command line run
func userMessage(err error) string {
	switch {
	case errors.Is(err, failure.ErrExtraction):
		return "Could not read the PDF."
	case errors.Is(err, failure.ErrMerge):
		return "Error generating the Word file. Check terminal for details."
	default:
		return err.Error()
	}
}

// runCLI performs one extraction. With a template it writes the updated
// document, otherwise it prints a report of the occurrences.
func runCLI(cfg *config.Config, svc *pdf.Service, stdout io.Writer) error {
	if cfg.TemplatePath != "" {
		result, err := svc.MergeFiles(pdf.MergeRequest{
			PDFPath:      cfg.PDFPath,
			TemplatePath: cfg.TemplatePath,
			Keyword:      cfg.Keyword,
			OutputPath:   cfg.OutputPath,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Successfully processed! Found %d matches.\n", result.MatchCount)
		fmt.Fprintf(stdout, "Output: %s\n", result.OutputPath)
		return nil
	}

	result, err := svc.ExtractFile(pdf.ExtractRequest{Path: cfg.PDFPath, Keyword: cfg.Keyword})
	if err != nil {
		return err
	}
	return report.Write(stdout, report.New(result.Path, result.Keyword, result.Pages, result.Matches), cfg.ReportFormat)
}

// run dispatches on the configured mode
func run(ctx context.Context, cfg *config.Config, svc *pdf.Service, stdout io.Writer) error {
	if cfg.IsCLIMode() {
		return runCLI(cfg, svc, stdout)
	}

	server, err := mcp.NewServer(cfg, svc)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	return server.Run(ctx)
}

func main() {
	cfg, err := config.LoadFromFlags()
	if errors.Is(err, config.ErrVersionRequested) {
		printVersion(os.Stdout)
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(2)
	}

	setupLogging(cfg, os.Stderr)

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	log.Debug().Str("config", cfg.String()).Msg("configuration loaded")

	pdfService, err := pdf.NewService(cfg.MaxFileSize, cfg.WorkDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create PDF service")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, pdfService, os.Stdout); err != nil {
		log.Error().Err(err).Str("mode", cfg.Mode).Msg("run failed")
		if cfg.IsCLIMode() {
			fmt.Fprintln(os.Stderr, userMessage(err))
		}
		stop()
		os.Exit(1)
	}
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "MCP PDF Keymatch\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
