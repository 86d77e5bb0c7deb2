package pdf

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/a3tai/mcp-pdf-keymatch/internal/descriptions"
)

// errScanLimit stops a directory walk once a limit is reached
var errScanLimit = errors.New("scan limit reached")

// InputScanner lists candidate input files below a directory with bounded
// depth, count and time
type InputScanner struct {
	maxDepth  int
	fileLimit int
	timeLimit time.Duration
	validator *Validator
}

// NewInputScanner creates a scanner. Zero limits disable the corresponding
// check.
func NewInputScanner(maxDepth, fileLimit int, timeLimit time.Duration, validator *Validator) *InputScanner {
	return &InputScanner{
		maxDepth:  maxDepth,
		fileLimit: fileLimit,
		timeLimit: timeLimit,
		validator: validator,
	}
}

// Scan returns the PDF and DOCX files below root. Hidden entries and
// symlinks are skipped. truncated is set when a limit cut the walk short.
func (s *InputScanner) Scan(ctx context.Context, root string) (files []FileInfo, truncated bool, err error) {
	start := time.Now()
	files = []FileInfo{}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// unreadable entries are skipped
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if s.timeLimit > 0 && time.Since(start) > s.timeLimit {
			return errScanLimit
		}

		if path == root {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") || d.Type()&os.ModeSymlink != 0 {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			rel, _ := filepath.Rel(root, path)
			if s.maxDepth > 0 && strings.Count(rel, string(filepath.Separator))+1 >= s.maxDepth {
				return filepath.SkipDir
			}
			return nil
		}

		kind, ok := KindFromName(d.Name())
		if !ok {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if s.validator != nil && s.validator.ValidateFileInfo(path, info, kind) != nil {
			return nil
		}

		files = append(files, FileInfo{
			Path:         path,
			Name:         d.Name(),
			Kind:         string(kind),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
		if s.fileLimit > 0 && len(files) >= s.fileLimit {
			return errScanLimit
		}
		return nil
	})

	switch {
	case errors.Is(walkErr, errScanLimit):
		return files, true, nil
	case walkErr != nil:
		return files, true, walkErr
	}
	return files, false, nil
}

// ListInputs returns the PDF and DOCX files in the configured directory
func (s *Service) ListInputs(ctx context.Context) ([]FileInfo, bool, error) {
	root, err := s.pathValidator.ValidateDirectory(s.pathValidator.Root())
	if err != nil {
		return nil, false, err
	}
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return []FileInfo{}, false, nil
	}

	scanner := NewInputScanner(5, 100, 3*time.Second, s.validator)
	return scanner.Scan(ctx, root)
}

// ServerInfo describes the server, its tools and the inputs available in
// the configured directory
func (s *Service) ServerInfo(ctx context.Context, serverName, version string) (*ServerInfoResult, error) {
	scanCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	files, truncated, err := s.ListInputs(scanCtx)
	if err != nil && ctx.Err() != nil {
		return nil, err
	}
	if files == nil {
		files = []FileInfo{}
	}

	return &ServerInfoResult{
		ServerName:        serverName,
		Version:           version,
		DefaultDirectory:  s.ConfiguredDirectory(),
		MaxFileSize:       s.maxFileSize,
		AvailableTools:    availableTools(),
		DirectoryContents: files,
		Truncated:         truncated,
		UsageGuidance:     s.usageGuidance(),
	}, nil
}

func availableTools() []ToolInfo {
	return []ToolInfo{
		{
			Name:        "keymatch_extract",
			Description: descriptions.GetToolDescription("keymatch_extract"),
			Usage:       "Use this tool to preview which text blocks of a PDF contain a keyword.",
			Parameters:  "path (required): PDF file, keyword (required): text to search for",
		},
		{
			Name:        "keymatch_merge",
			Description: descriptions.GetToolDescription("keymatch_merge"),
			Usage: "Use this tool to append every occurrence of a keyword in a PDF to a copy " +
				"of a Word template.",
			Parameters: "pdf_path (required): source PDF, template_path (required): .docx template, " +
				"keyword (required): text to search for, output_path (optional): destination .docx",
		},
		{
			Name:        "keymatch_inspect",
			Description: descriptions.GetToolDescription("keymatch_inspect"),
			Usage:       "Use this tool to check that a PDF opens and see its page count before extracting.",
			Parameters:  "path (required): PDF file",
		},
		{
			Name:        "keymatch_server_info",
			Description: descriptions.GetToolDescription("keymatch_server_info"),
			Usage:       "Use this tool to list the PDF and Word files available to the other tools.",
			Parameters:  "No parameters required",
		},
	}
}

func (s *Service) usageGuidance() string {
	maxFileSizeMB := s.maxFileSize / (1024 * 1024)

	return fmt.Sprintf(`Keyword Matcher Usage Guide:

1. Use 'keymatch_server_info' to list the PDF and .docx files in the working directory.
2. Optionally run 'keymatch_inspect' on the PDF to confirm it can be opened.
3. Run 'keymatch_extract' to preview the matching text blocks.
4. Run 'keymatch_merge' to write the updated Word document. Unless output_path
   is given it is saved as %s<template name> next to the template.

NOTES:
- Matching is case-insensitive and works on whole text blocks.
- Relative paths are resolved against %s; paths outside it are rejected.
- Files up to %dMB are accepted.
- Scanned PDFs without a text layer yield no matches.`, OutputPrefix, s.ConfiguredDirectory(), maxFileSizeMB)
}
