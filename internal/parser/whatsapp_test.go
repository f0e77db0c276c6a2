package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const androidExport = `31/12/2019, 22:05 - Messages and calls are end-to-end encrypted. No one outside of this chat can read them.
31/12/2019, 22:05 - Alice: hi
31/12/2019, 22:10 - Bob: hello there
how are you?
01/01/2020, 09:00 - Alice: <Media omitted>
`

const iosExport = "[31/12/2019, 22:05:13] Alice: hi\r\n" +
	"\u200e[31/12/2019, 22:06:00] Bob: \u200e<image omitted>\r\n" +
	"[1/1/20, 9:00:01 PM] Alice: happy new year\r\n"

func TestParse_Android(t *testing.T) {
	p := New(time.UTC, DayMonthYear, zaptest.NewLogger(t))

	conv, err := p.Parse(strings.NewReader(androidExport))
	require.NoError(t, err)

	require.Len(t, conv.Messages, 3)
	assert.Equal(t, []string{"Alice", "Bob"}, conv.Senders)

	first := conv.Messages[0]
	assert.Equal(t, "Alice", first.Sender)
	assert.Equal(t, "hi", first.Content)
	assert.Equal(t, time.Date(2019, 12, 31, 22, 5, 0, 0, time.UTC), first.DateTime)
	assert.Equal(t, "2019-12-31", first.Date)
	assert.Equal(t, "22:05:00", first.Time)
	assert.NotEmpty(t, first.ID)

	assert.Equal(t, "hello there\nhow are you?", conv.Messages[1].Content)
	assert.Equal(t, "<Media omitted>", conv.Messages[2].Content)
	assert.Equal(t, "2020-01-01", conv.Messages[2].Date)
}

func TestParse_IOS(t *testing.T) {
	p := New(time.UTC, DayMonthYear, zaptest.NewLogger(t))

	conv, err := p.Parse(strings.NewReader(iosExport))
	require.NoError(t, err)

	require.Len(t, conv.Messages, 3)
	assert.Equal(t, time.Date(2019, 12, 31, 22, 5, 13, 0, time.UTC), conv.Messages[0].DateTime)
	assert.Equal(t, "Bob", conv.Messages[1].Sender)
	assert.Equal(t, "\u200e<image omitted>", conv.Messages[1].Content)
	assert.Equal(t, time.Date(2020, 1, 1, 21, 0, 1, 0, time.UTC), conv.Messages[2].DateTime)
	assert.Equal(t, "happy new year", conv.Messages[2].Content)
}

func TestParse_MonthDayYear(t *testing.T) {
	p := New(time.UTC, MonthDayYear, nil)

	conv, err := p.Parse(strings.NewReader("12/31/19, 10:05 PM - Alice: hi\n"))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2019, 12, 31, 22, 5, 0, 0, time.UTC), conv.Messages[0].DateTime)
}

func TestParse_Location(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	p := New(loc, DayMonthYear, nil)

	conv, err := p.Parse(strings.NewReader("31/12/2019, 00:30 - Alice: hi\n"))
	require.NoError(t, err)
	assert.Equal(t, "2019-12-31", conv.Messages[0].Date)
	assert.Equal(t, "00:30:00", conv.Messages[0].Time)
	assert.True(t, time.Date(2019, 12, 30, 23, 30, 0, 0, time.UTC).Equal(conv.Messages[0].DateTime))
}

func TestParse_Errors(t *testing.T) {
	p := New(nil, "", nil)

	_, err := p.Parse(strings.NewReader("just some text\nwithout timestamps\n"))
	assert.ErrorIs(t, err, ErrNoMessages)

	_, err = p.Parse(strings.NewReader("31/02/2019, 10:00 - Alice: hi\n"))
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
	assert.Contains(t, err.Error(), "line 1")

	_, err = p.Parse(strings.NewReader("01/01/2019, 13:00 PM - Alice: hi\n"))
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in                   string
		hour, minute, second int
	}{
		{"22:05", 22, 5, 0},
		{"22:05:13", 22, 5, 13},
		{"12:00 AM", 0, 0, 0},
		{"12:30 PM", 12, 30, 0},
		{"9:15 pm", 21, 15, 0},
		{"9.15 p.m.", 21, 15, 0},
		{"7:01:02 AM", 7, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			h, m, s, err := parseClock(tt.in)
			require.NoError(t, err)
			assert.Equal(t, []int{tt.hour, tt.minute, tt.second}, []int{h, m, s})
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "WhatsApp Chat with Bob.txt")
	require.NoError(t, os.WriteFile(path, []byte(androidExport), 0o644))

	conv, err := New(time.UTC, DayMonthYear, nil).ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "WhatsApp Chat with Bob", conv.Name)
	assert.Len(t, conv.Messages, 3)

	_, err = New(time.UTC, DayMonthYear, nil).ParseFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
