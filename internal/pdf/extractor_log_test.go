package pdf

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-pdf-keymatch/internal/testdoc"
)

func TestExtract_LogsFailureOnce(t *testing.T) {
	var buf bytes.Buffer
	oldLogger := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = oldLogger })

	_, err := Extract([]byte("definitely not a pdf"), "k")
	require.Error(t, err)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var event map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &event))
	assert.Equal(t, "error", event["level"])
	assert.Equal(t, "extract", event["op"])
	assert.Contains(t, event["message"], "PDF Analysis Error: ")
}

func TestExtract_NoLogOnSuccess(t *testing.T) {
	var buf bytes.Buffer
	oldLogger := log.Logger
	log.Logger = zerolog.New(&buf).Level(zerolog.ErrorLevel)
	t.Cleanup(func() { log.Logger = oldLogger })

	_, err := Extract(buildPDF(t, testdoc.SingleBlocks("nothing to see")), "absent")
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}
