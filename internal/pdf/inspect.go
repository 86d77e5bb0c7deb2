package pdf

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/a3tai/mcp-pdf-keymatch/internal/failure"
)

// InspectResult holds structural facts about a PDF
type InspectResult struct {
	Path      string `json:"path,omitempty" yaml:"path,omitempty"`
	Size      int64  `json:"size" yaml:"size"`
	Pages     int    `json:"pages" yaml:"pages"`
	Version   string `json:"version" yaml:"version"`
	Encrypted bool   `json:"encrypted" yaml:"encrypted"`
}

// Inspect reads the cross-reference structure of the PDF in data with
// pdfcpu. It does not decode page content.
func Inspect(data []byte) (result *InspectResult, err error) {
	if len(data) == 0 {
		return nil, failure.New(failure.KindExtraction, "inspect", "empty PDF content")
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = failure.Wrap(failure.KindExtraction, "inspect", fmt.Errorf("malformed PDF: %v", r))
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, failure.Wrap(failure.KindExtraction, "inspect",
			fmt.Errorf("failed to read PDF context: %w", err))
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, failure.Wrap(failure.KindExtraction, "inspect",
			fmt.Errorf("failed to ensure page count: %w", err))
	}

	result = &InspectResult{
		Size:      int64(len(data)),
		Pages:     ctx.PageCount,
		Encrypted: ctx.Encrypt != nil,
	}
	if ctx.HeaderVersion != nil {
		result.Version = ctx.HeaderVersion.String()
	}

	return result, nil
}
