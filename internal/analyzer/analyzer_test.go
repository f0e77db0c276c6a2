package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xaenox/chat-features/internal/analytics"
	"github.com/xaenox/chat-features/internal/models"
	"github.com/xaenox/chat-features/pkg/config"
)

func sampleConversation() *models.Conversation {
	base := time.Date(2020, 1, 6, 10, 0, 0, 0, time.UTC)
	conv := models.NewConversation("sample")
	conv.AddMessage(models.NewMessage("A", base, "hi"))
	conv.AddMessage(models.NewMessage("B", base.Add(5*time.Minute), "hello there"))
	conv.AddMessage(models.NewMessage("A", base.Add(6*time.Minute), "how are you"))
	return conv
}

func TestAnalyze_EndToEnd(t *testing.T) {
	settings := DefaultSettings()
	settings.InitiationThreshold = time.Hour
	settings.Patterns = []string{"hello", "?!"}

	report, err := New(settings, zaptest.NewLogger(t)).Analyze(sampleConversation())
	require.NoError(t, err)

	assert.Equal(t, "sample", report.Name)
	assert.Equal(t, "A", report.Root)
	assert.Equal(t, []string{"B"}, report.Contacts)
	assert.Equal(t, 3, report.Messages)
	assert.Equal(t, 6*time.Minute, report.LastMessageAt.Sub(report.FirstMessageAt))

	assert.Equal(t, map[string]int{"A": 0, "B": 0}, report.Response.Initiations)
	assert.Equal(t, []int64{60}, report.Response.RootResponseTime)
	assert.Equal(t, []int64{300}, report.Response.ContactResponseTime)
	assert.Equal(t, int64(60), report.Summary.AvgRootResponseTime)
	assert.Equal(t, int64(300), report.Summary.AvgContactResponseTime)
	assert.Equal(t, map[string]int{"B": 0}, report.Summary.InitiationRatios)

	assert.Equal(t, map[string]int{"A": 2, "B": 1}, report.Proportions.Messages)
	assert.Equal(t, 3, report.Proportions.TotalMessages)
	assert.Equal(t, map[string]int{"Monday": 3}, report.Weekday)
	assert.Equal(t, 3, report.Shifts[analytics.ShiftMorning])
	assert.Equal(t, map[string]int{"A": 0, "B": 1}, report.Patterns["hello"])
	assert.Equal(t, []string{"hello", "?!"}, report.PatternOrder)
	assert.Len(t, report.MostUsedWords, 2)
}

func TestAnalyze_ExplicitRootAndSenders(t *testing.T) {
	settings := DefaultSettings()
	settings.RootName = "B"
	settings.Senders = []string{"A", "B", "C"}

	report, err := New(settings, zaptest.NewLogger(t)).Analyze(sampleConversation())
	require.NoError(t, err)

	assert.Equal(t, "B", report.Root)
	assert.Equal(t, []string{"A", "C"}, report.Contacts)
	assert.Equal(t, []int64{300}, report.Response.RootResponseTime)
	assert.Equal(t, 0, report.Proportions.Messages["C"])
	assert.NotContains(t, report.Proportions.AvgWords, "C")
}

func TestAnalyze_Errors(t *testing.T) {
	logger := zaptest.NewLogger(t)

	_, err := New(DefaultSettings(), logger).Analyze(&models.Conversation{})
	assert.ErrorIs(t, err, ErrNoSenders)

	settings := DefaultSettings()
	settings.RootName = "Z"
	_, err = New(settings, logger).Analyze(sampleConversation())
	assert.ErrorIs(t, err, ErrUnknownRoot)

	settings = DefaultSettings()
	settings.Senders = []string{"A"}
	_, err = New(settings, logger).Analyze(sampleConversation())
	assert.ErrorIs(t, err, analytics.ErrUnknownSender)

	settings = DefaultSettings()
	settings.Patterns = []string{""}
	_, err = New(settings, logger).Analyze(sampleConversation())
	assert.ErrorIs(t, err, analytics.ErrEmptyPattern)
}

func TestSettingsFromConfig(t *testing.T) {
	settings := SettingsFromConfig(config.AnalysisConfig{
		RootName:            "A",
		Senders:             []string{"A", "B"},
		InitiationThreshold: time.Hour,
		BurstThreshold:      4,
		Patterns:            []string{"x"},
		TopWords:            5,
		WordLengthThreshold: 2,
	})

	assert.Equal(t, Settings{
		RootName:            "A",
		Senders:             []string{"A", "B"},
		InitiationThreshold: time.Hour,
		BurstThreshold:      4,
		Patterns:            []string{"x"},
		TopWords:            5,
		WordLengthThreshold: 2,
	}, settings)
}
