package report

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xaenox/chat-features/internal/analyzer"
	"github.com/xaenox/chat-features/internal/models"
)

func sampleReport(t *testing.T) *analyzer.Report {
	t.Helper()
	base := time.Date(2020, 1, 6, 10, 0, 0, 0, time.UTC)
	conv := models.NewConversation("sample chat")
	conv.AddMessage(models.NewMessage("A", base, "hi there?!"))
	conv.AddMessage(models.NewMessage("B", base.Add(5*time.Minute), "hello hello"))
	conv.AddMessage(models.NewMessage("A", base.Add(6*time.Minute), "<Media omitted>"))

	settings := analyzer.DefaultSettings()
	settings.Patterns = []string{"hello", "?!"}
	r, err := analyzer.New(settings, zap.NewNop()).Analyze(conv)
	require.NoError(t, err)
	return r
}

func TestWrite_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleReport(t), FormatText))
	out := buf.String()

	assert.Contains(t, out, "Conversation: sample chat")
	assert.Contains(t, out, "Avg root response:")
	assert.Contains(t, out, "1m0s")
	assert.Contains(t, out, "5m0s")
	assert.Contains(t, out, "2 (66.7%)")
	assert.Contains(t, out, "Monday:")
	assert.Contains(t, out, "latenight:")
	assert.Contains(t, out, `"hello"`)
	assert.Regexp(t, `1\.\s+hello\s+2`, out)
	assert.NotContains(t, out, "Tuesday")
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleReport(t), FormatJSON))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "A", decoded["root"])
	assert.EqualValues(t, 3, decoded["messages"])
	shifts := decoded["shifts"].(map[string]any)
	assert.EqualValues(t, 3, shifts["morning"])
	assert.EqualValues(t, 0, shifts["evening"])
	proportions := decoded["proportions"].(map[string]any)
	assert.EqualValues(t, 1, proportions["total_media"])
	assert.NotContains(t, decoded, "PatternOrder")
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, sampleReport(t), "xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
