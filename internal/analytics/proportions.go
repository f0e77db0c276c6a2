package analytics

import (
	"strings"
	"unicode/utf8"

	"github.com/xaenox/chat-features/internal/models"
)

// Metric names used by Proportions.Metric and Proportions.Total
const (
	MetricMessages = "messages"
	MetricWords    = "words"
	MetricChars    = "chars"
	MetricQMarks   = "qmarks"
	MetricExclams  = "exclams"
	MetricMedia    = "media"
	MetricAvgWords = "avg_words"
)

// MediaPlaceholders are the text markers chat exports write in place of attachments
var MediaPlaceholders = []string{
	"<Media omitted>",
	"<media omitted>",
	"<image omitted>",
	"<video omitted>",
	"<audio omitted>",
	"<\u200eimmagine omessa>",
	"<video omesso>",
	"<\u200evCard omessa>",
	"Photo Message",
	"Video Message",
	"Sticker",
}

// Proportions holds per-sender contribution counts and their totals
type Proportions struct {
	Messages map[string]int `json:"messages"`
	Words    map[string]int `json:"words"`
	Chars    map[string]int `json:"chars"`
	QMarks   map[string]int `json:"qmarks"`
	Exclams  map[string]int `json:"exclams"`
	Media    map[string]int `json:"media"`
	AvgWords map[string]int `json:"avg_words"`

	TotalMessages int `json:"total_messages"`
	TotalWords    int `json:"total_words"`
	TotalChars    int `json:"total_chars"`
	TotalQMarks   int `json:"total_qmarks"`
	TotalExclams  int `json:"total_exclams"`
	TotalMedia    int `json:"total_media"`
}

// ComputeMessageProportions accumulates per-sender message, word, character, question
// mark, exclamation mark and media counts. Words are split on single spaces.
func ComputeMessageProportions(messages []*models.Message, senders []string) (*Proportions, error) {
	if err := checkSenders(OpMessageProportions, messages, senderSet(senders)); err != nil {
		return nil, err
	}

	p := &Proportions{
		Messages: seeded(senders),
		Words:    seeded(senders),
		Chars:    seeded(senders),
		QMarks:   seeded(senders),
		Exclams:  seeded(senders),
		Media:    seeded(senders),
		AvgWords: make(map[string]int, len(senders)),
	}

	for _, msg := range messages {
		s, content := msg.Sender, msg.Content
		p.Messages[s]++
		p.Words[s] += len(strings.Split(content, " "))
		p.Chars[s] += utf8.RuneCountInString(content)
		p.QMarks[s] += strings.Count(content, "?")
		p.Exclams[s] += strings.Count(content, "!")
		p.Media[s] += countMedia(content)
	}

	for _, s := range senders {
		p.TotalMessages += p.Messages[s]
		p.TotalWords += p.Words[s]
		p.TotalChars += p.Chars[s]
		p.TotalQMarks += p.QMarks[s]
		p.TotalExclams += p.Exclams[s]
		p.TotalMedia += p.Media[s]
		if p.Messages[s] > 0 {
			p.AvgWords[s] = p.Words[s] / p.Messages[s]
		}
	}
	return p, nil
}

// Metric returns the per-sender counts for a metric name, or nil if the name is unknown
func (p *Proportions) Metric(name string) map[string]int {
	switch name {
	case MetricMessages:
		return p.Messages
	case MetricWords:
		return p.Words
	case MetricChars:
		return p.Chars
	case MetricQMarks:
		return p.QMarks
	case MetricExclams:
		return p.Exclams
	case MetricMedia:
		return p.Media
	case MetricAvgWords:
		return p.AvgWords
	}
	return nil
}

// Total returns a scalar total such as "total_messages". ok is false for unknown names.
func (p *Proportions) Total(name string) (int, bool) {
	switch name {
	case "total_" + MetricMessages:
		return p.TotalMessages, true
	case "total_" + MetricWords:
		return p.TotalWords, true
	case "total_" + MetricChars:
		return p.TotalChars, true
	case "total_" + MetricQMarks:
		return p.TotalQMarks, true
	case "total_" + MetricExclams:
		return p.TotalExclams, true
	case "total_" + MetricMedia:
		return p.TotalMedia, true
	}
	return 0, false
}

func countMedia(content string) int {
	n := 0
	for _, marker := range MediaPlaceholders {
		n += strings.Count(content, marker)
	}
	return n
}

func seeded(senders []string) map[string]int {
	m := make(map[string]int, len(senders))
	for _, s := range senders {
		m[s] = 0
	}
	return m
}
