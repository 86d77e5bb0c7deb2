package failure

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindExtraction, "EXTRACTION"},
		{KindMerge, "MERGE"},
		{KindInput, "INPUT"},
		{KindIO, "IO"},
		{KindUnknown, "UNKNOWN"},
		{Kind(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}
}

func TestFailure_Is(t *testing.T) {
	cause := errors.New("malformed PDF: no xref")
	err := Wrap(KindExtraction, "open", cause)

	assert.True(t, errors.Is(err, ErrExtraction))
	assert.False(t, errors.Is(err, ErrMerge))
	assert.True(t, errors.Is(err, cause))

	wrapped := fmt.Errorf("service: %w", err)
	assert.True(t, errors.Is(wrapped, ErrExtraction))
	assert.Equal(t, KindExtraction, KindOf(wrapped))
}

func TestFailure_Error(t *testing.T) {
	err := New(KindMerge, "parse", "zip: not a valid zip file").WithContext("template.docx")
	assert.Equal(t, "[MERGE] parse (template.docx): zip: not a valid zip file", err.Error())

	bare := &Failure{Kind: KindInput, Op: "validate"}
	assert.Equal(t, "[INPUT] validate", bare.Error())
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(KindIO, "read", nil))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}
