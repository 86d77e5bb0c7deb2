package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/a3tai/mcp-pdf-keymatch/internal/failure"
)

// FileKind identifies the two input formats
type FileKind string

const (
	KindPDF  FileKind = "pdf"
	KindDOCX FileKind = "docx"
)

// KindFromName returns the input kind implied by a file extension
func KindFromName(name string) (FileKind, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return KindPDF, true
	case ".docx":
		return KindDOCX, true
	}
	return "", false
}

// Validator checks input files before they are read
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new validator with the specified size limit
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// ReadInput validates filePath as an input of the given kind and returns
// its content
func (v *Validator) ReadInput(filePath string, kind FileKind) ([]byte, error) {
	if filePath == "" {
		return nil, failure.New(failure.KindInput, "validate", fmt.Sprintf("%s path cannot be empty", kind))
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, failure.New(failure.KindInput, "validate", fmt.Sprintf("file does not exist: %s", filePath))
	}
	if err != nil {
		return nil, failure.Wrap(failure.KindIO, "stat", fmt.Errorf("cannot access file: %w", err))
	}

	if err := v.ValidateFileInfo(filePath, info, kind); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, failure.Wrap(failure.KindIO, "read", err).WithContext(filePath)
	}
	return data, nil
}

// ValidateFileInfo performs the checks that need no file content
func (v *Validator) ValidateFileInfo(filePath string, info os.FileInfo, kind FileKind) error {
	if info.IsDir() {
		return failure.New(failure.KindInput, "validate", fmt.Sprintf("path is a directory, not a file: %s", filePath))
	}

	if got, ok := KindFromName(filePath); !ok || got != kind {
		return failure.New(failure.KindInput, "validate", fmt.Sprintf("file is not a %s: %s", strings.ToUpper(string(kind)), filePath))
	}

	if info.Size() == 0 {
		return failure.New(failure.KindInput, "validate", fmt.Sprintf("file is empty: %s", filePath))
	}

	if v.maxFileSize > 0 && info.Size() > v.maxFileSize {
		return failure.New(failure.KindInput, "validate",
			fmt.Sprintf("file too large: %d bytes (max: %d bytes)", info.Size(), v.maxFileSize))
	}

	return nil
}

// ValidateOutput checks that filePath can receive a word-processing
// document
func (v *Validator) ValidateOutput(filePath string) error {
	if got, ok := KindFromName(filePath); !ok || got != KindDOCX {
		return failure.New(failure.KindInput, "validate", fmt.Sprintf("output must be a .docx file: %s", filePath))
	}
	if info, err := os.Stat(filePath); err == nil && info.IsDir() {
		return failure.New(failure.KindInput, "validate", fmt.Sprintf("output path is a directory: %s", filePath))
	}
	return nil
}
