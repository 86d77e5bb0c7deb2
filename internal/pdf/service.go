package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/a3tai/mcp-pdf-keymatch/internal/docx"
	"github.com/a3tai/mcp-pdf-keymatch/internal/failure"
	"github.com/a3tai/mcp-pdf-keymatch/internal/pdf/security"
)

// OutputPrefix is prepended to the template name to form the default output
// file name
const OutputPrefix = "Updated_"

// Service handles keyword extraction and template merging for files inside
// the configured directory
type Service struct {
	maxFileSize   int64
	validator     *Validator
	pathValidator *security.PathValidator
}

// NewService creates a new service confined to configuredDirectory
func NewService(maxFileSize int64, configuredDirectory string) (*Service, error) {
	pathValidator, err := security.NewPathValidator(configuredDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	return &Service{
		maxFileSize:   maxFileSize,
		validator:     NewValidator(maxFileSize),
		pathValidator: pathValidator,
	}, nil
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// ConfiguredDirectory returns the directory tool paths are resolved against
func (s *Service) ConfiguredDirectory() string {
	return s.pathValidator.Root()
}

func (s *Service) readInput(path string, kind FileKind) (string, []byte, error) {
	abs, err := s.pathValidator.Resolve(path)
	if err != nil {
		return "", nil, failure.Wrap(failure.KindInput, "resolve", fmt.Errorf("security validation failed: %w", err))
	}
	data, err := s.validator.ReadInput(abs, kind)
	if err != nil {
		return "", nil, err
	}
	return abs, data, nil
}

func requireKeyword(keyword string) error {
	if strings.TrimSpace(keyword) == "" {
		return failure.New(failure.KindInput, "validate", "keyword cannot be empty")
	}
	return nil
}

// ExtractFile finds the keyword occurrences in a PDF file
func (s *Service) ExtractFile(req ExtractRequest) (*ExtractResult, error) {
	if err := requireKeyword(req.Keyword); err != nil {
		return nil, err
	}

	abs, data, err := s.readInput(req.Path, KindPDF)
	if err != nil {
		return nil, err
	}

	matches, pages, err := extract(data, req.Keyword)
	if err != nil {
		return nil, err
	}

	return &ExtractResult{
		Path:       abs,
		Keyword:    req.Keyword,
		Matches:    matches,
		MatchCount: len(matches),
		Pages:      pages,
	}, nil
}

// InspectFile reports page count, version and encryption of a PDF file
func (s *Service) InspectFile(req InspectRequest) (*InspectResult, error) {
	abs, data, err := s.readInput(req.Path, KindPDF)
	if err != nil {
		return nil, err
	}

	result, err := Inspect(data)
	if err != nil {
		return nil, err
	}
	result.Path = abs
	return result, nil
}

// Process runs extraction and, when it succeeds, the merge, entirely in
// memory. A PDF that cannot be read stops the pipeline before the template
// is touched.
func (s *Service) Process(pdfData, docxData []byte, keyword string) (*ProcessResult, error) {
	matches, err := Extract(pdfData, keyword)
	if err != nil {
		return nil, err
	}

	out, err := docx.Merge(docxData, matches, keyword)
	if err != nil {
		return nil, err
	}

	return &ProcessResult{Document: out, Matches: matches}, nil
}

// DefaultOutputPath returns Updated_<template name> in the template's
// directory
func DefaultOutputPath(templatePath string) string {
	dir, name := filepath.Split(templatePath)
	return filepath.Join(dir, OutputPrefix+name)
}

// MergeFiles extracts the keyword occurrences from a PDF, appends them to a
// copy of the template and writes the result. Nothing is written unless both
// stages succeed.
func (s *Service) MergeFiles(req MergeRequest) (*MergeResult, error) {
	if req.PDFPath == "" || req.TemplatePath == "" || strings.TrimSpace(req.Keyword) == "" {
		return nil, failure.New(failure.KindInput, "validate", "Please provide both files and a keyword.")
	}

	_, pdfData, err := s.readInput(req.PDFPath, KindPDF)
	if err != nil {
		return nil, err
	}
	templatePath, docxData, err := s.readInput(req.TemplatePath, KindDOCX)
	if err != nil {
		return nil, err
	}

	output := req.OutputPath
	if output == "" {
		output = DefaultOutputPath(templatePath)
	}
	output, err = s.pathValidator.Resolve(output)
	if err != nil {
		return nil, failure.Wrap(failure.KindInput, "resolve", fmt.Errorf("security validation failed: %w", err))
	}
	if err := s.validator.ValidateOutput(output); err != nil {
		return nil, err
	}
	if output == templatePath {
		return nil, failure.New(failure.KindInput, "validate", "output would overwrite the template")
	}

	result, err := s.Process(pdfData, docxData, req.Keyword)
	if err != nil {
		return nil, err
	}

	if err := writeFileAtomic(output, result.Document); err != nil {
		return nil, failure.Wrap(failure.KindIO, "write", err).WithContext(output)
	}

	log.Info().
		Str("output", output).
		Int("matches", len(result.Matches)).
		Msg("template updated")

	return &MergeResult{
		OutputPath: output,
		MatchCount: len(result.Matches),
		Size:       int64(len(result.Document)),
	}, nil
}

// writeFileAtomic writes data to a temporary file in the destination
// directory and renames it into place
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".keymatch-*.docx")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
