package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaenox/chat-features/internal/models"
)

func TestFeatures_AccessorsBeforeCompute(t *testing.T) {
	f := NewFeatures()

	assert.Zero(t, f.AvgRootResponseTime())
	assert.Zero(t, f.AvgContactResponseTime())
	assert.Zero(t, f.RootBurstCount())
	assert.Zero(t, f.ContactBurstCount())
	assert.Zero(t, f.AvgRootBurst())
	assert.Zero(t, f.AvgContactBurst())
	assert.Zero(t, f.RootInitiationRatio("A", "B"))
	assert.Nil(t, f.Proportions)
	assert.Empty(t, f.MostUsedWords)
}

func TestFeatures_EndToEnd(t *testing.T) {
	messages := []*models.Message{
		msg("A", 0, "hi"),
		msg("B", 5*time.Minute, "hello there"),
		msg("A", 6*time.Minute, "how are you"),
	}
	senders := []string{"A", "B"}
	f := NewFeatures()

	require.NoError(t, f.ComputeResponseTimeAndBurst(messages, "A", senders, time.Hour, 3))
	assert.Equal(t, map[string]int{"A": 0, "B": 0}, f.Initiations)
	assert.Equal(t, int64(60), f.AvgRootResponseTime())
	assert.Equal(t, int64(300), f.AvgContactResponseTime())

	p, err := f.ComputeMessageProportions(messages, senders)
	require.NoError(t, err)
	assert.Same(t, p, f.Proportions)
	assert.Equal(t, map[string]int{"A": 2, "B": 1}, f.Proportions.Messages)
	assert.Equal(t, 3, f.Proportions.TotalMessages)

	weekday, err := f.ComputeMessagesPerWeekday(messages)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Monday": 3}, f.Weekday)
	assert.Equal(t, weekday, f.Weekday)

	_, err = f.ComputeMessagesPerShift(messages)
	require.NoError(t, err)
	assert.Equal(t, 3, f.Shifts[ShiftMorning])

	_, err = f.ComputeMessagesPattern(messages, senders, []string{"HOW"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"A": 1, "B": 0}, f.Patterns["HOW"])

	words := f.ComputeMostUsedWords(messages, 10, 3)
	assert.Equal(t, []WordCount{{Word: "hello", Count: 1}, {Word: "there", Count: 1}}, words)
}

func TestFeatures_RecomputeOverwrites(t *testing.T) {
	f := NewFeatures()
	first := concat(run("A", 0, 5), run("B", time.Hour, 1), run("A", 2*time.Hour, 1))

	require.NoError(t, f.ComputeResponseTimeAndBurst(first, "A", []string{"A", "B"}, time.Hour, 3))
	require.NoError(t, f.ComputeResponseTimeAndBurst(first, "A", []string{"A", "B"}, time.Hour, 3))

	assert.Equal(t, []int{5}, f.RootBurst)
	assert.Len(t, f.RootResponseTime, 1)
	assert.Len(t, f.ContactResponseTime, 1)
}

func TestFeatures_FailedComputeKeepsPreviousResult(t *testing.T) {
	f := NewFeatures()
	good := run("A", 0, 2)

	_, err := f.ComputeMessageProportions(good, []string{"A"})
	require.NoError(t, err)

	_, err = f.ComputeMessageProportions(run("Z", 0, 1), []string{"A"})
	require.ErrorIs(t, err, ErrUnknownSender)
	assert.Equal(t, 2, f.Proportions.TotalMessages)
}
