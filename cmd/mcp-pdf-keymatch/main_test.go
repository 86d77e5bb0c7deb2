package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-pdf-keymatch/internal/config"
	"github.com/a3tai/mcp-pdf-keymatch/internal/failure"
	"github.com/a3tai/mcp-pdf-keymatch/internal/pdf"
	"github.com/a3tai/mcp-pdf-keymatch/internal/testdoc"
)

func cliFixture(t *testing.T) (*config.Config, *pdf.Service) {
	t.Helper()
	dir := t.TempDir()

	pdfData, err := testdoc.PDF(
		testdoc.SingleBlocks("Intro", "Risk assessment pending"),
		testdoc.SingleBlocks("No match here", "Residual RISK accepted"),
	)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "in.pdf"), pdfData, 0o644))

	docxData, err := testdoc.DOCX(testdoc.DOCXOptions{Paragraphs: []string{"Body"}, BulletStyle: true})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "t.docx"), docxData, 0o644))

	cfg := config.DefaultConfig()
	cfg.Mode = config.ModeCLI
	cfg.WorkDir = dir
	cfg.PDFPath = "in.pdf"
	cfg.Keyword = "risk"

	svc, err := pdf.NewService(cfg.MaxFileSize, dir)
	require.NoError(t, err)
	return cfg, svc
}

func TestPrintVersion(t *testing.T) {
	oldVersion, oldBuildTime, oldGitCommit := version, buildTime, gitCommit
	defer func() {
		version, buildTime, gitCommit = oldVersion, oldBuildTime, oldGitCommit
	}()
	version = "1.2.3"
	buildTime = "2023-12-01_10:30:00"
	gitCommit = "abc123"

	var buf bytes.Buffer
	printVersion(&buf)

	for _, expected := range []string{
		"MCP PDF Keymatch",
		"Version: 1.2.3",
		"Build Time: 2023-12-01_10:30:00",
		"Git Commit: abc123",
		"Built with: go",
	} {
		if !strings.Contains(buf.String(), expected) {
			t.Errorf("printVersion() output missing %q\nActual output:\n%s", expected, buf.String())
		}
	}
}

func TestSetupLogging(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())

	tests := []struct {
		mode     string
		logLevel string
		want     zerolog.Level
	}{
		{config.ModeStdio, "info", zerolog.WarnLevel},
		{config.ModeStdio, "debug", zerolog.DebugLevel},
		{config.ModeStdio, "error", zerolog.ErrorLevel},
		{config.ModeServer, "info", zerolog.InfoLevel},
		{config.ModeCLI, "debug", zerolog.DebugLevel},
		{config.ModeCLI, "bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.mode+"/"+tt.logLevel, func(t *testing.T) {
			var buf bytes.Buffer
			setupLogging(&config.Config{Mode: tt.mode, LogLevel: tt.logLevel}, &buf)
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Could not read the PDF.",
		userMessage(failure.New(failure.KindExtraction, "extract", "bad")))
	assert.Equal(t, "Error generating the Word file. Check terminal for details.",
		userMessage(failure.New(failure.KindMerge, "merge", "bad")))
	assert.Equal(t, "[INPUT] validate: Please provide both files and a keyword.",
		userMessage(failure.New(failure.KindInput, "validate", "Please provide both files and a keyword.")))
}

func TestRunCLI_Merge(t *testing.T) {
	cfg, svc := cliFixture(t)
	cfg.TemplatePath = "t.docx"

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, svc, &out))

	want := filepath.Join(cfg.WorkDir, "Updated_t.docx")
	assert.Equal(t, "Successfully processed! Found 2 matches.\nOutput: "+want+"\n", out.String())
	_, err := os.Stat(want)
	assert.NoError(t, err)
}

func TestRunCLI_TextReport(t *testing.T) {
	cfg, svc := cliFixture(t)

	var out bytes.Buffer
	require.NoError(t, runCLI(cfg, svc, &out))

	assert.Equal(t, "Extracted Occurrences: 'risk'\n"+
		"• (Page 1): Risk assessment pending\n"+
		"• (Page 2): Residual RISK accepted\n", out.String())
}

func TestRunCLI_YAMLReport(t *testing.T) {
	cfg, svc := cliFixture(t)
	cfg.ReportFormat = config.ReportYAML

	var out bytes.Buffer
	require.NoError(t, runCLI(cfg, svc, &out))

	assert.Contains(t, out.String(), "keyword: risk")
	assert.Contains(t, out.String(), "pages: 2")
	assert.Contains(t, out.String(), "match_count: 2")
}

func TestRunCLI_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(t *testing.T, cfg *config.Config)
		target error
	}{
		{"missing pdf", func(t *testing.T, cfg *config.Config) { cfg.PDFPath = "absent.pdf" }, failure.ErrInput},
		{"unreadable pdf", func(t *testing.T, cfg *config.Config) {
			require.NoError(t, os.WriteFile(filepath.Join(cfg.WorkDir, "bad.pdf"), []byte("garbage"), 0o644))
			cfg.PDFPath = "bad.pdf"
			cfg.TemplatePath = "t.docx"
		}, failure.ErrExtraction},
		{"corrupt template", func(t *testing.T, cfg *config.Config) {
			require.NoError(t, os.WriteFile(filepath.Join(cfg.WorkDir, "bad.docx"), []byte("garbage"), 0o644))
			cfg.TemplatePath = "bad.docx"
		}, failure.ErrMerge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, svc := cliFixture(t)
			tt.mutate(t, cfg)

			var out bytes.Buffer
			err := runCLI(cfg, svc, &out)
			require.ErrorIs(t, err, tt.target)
			assert.Empty(t, out.String())
		})
	}
}

func TestRun_ServerModeStopsOnCancel(t *testing.T) {
	cfg, svc := cliFixture(t)
	cfg.Mode = config.ModeServer
	cfg.Host = "127.0.0.1"
	cfg.Port = 0

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, cfg, svc, &bytes.Buffer{})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("run did not return after cancellation")
	}
}
