package analytics

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/xaenox/chat-features/internal/models"
)

const (
	DefaultTopWords            = 10
	DefaultWordLengthThreshold = 3
)

// WordCount is a normalized word and its frequency
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// ComputeMostUsedWords returns up to top words longer than lengthThreshold runes,
// most frequent first. Words with equal counts keep the order in which they were
// first seen.
func ComputeMostUsedWords(messages []*models.Message, top, lengthThreshold int) []WordCount {
	index := make(map[string]int)
	var words []WordCount

	for _, msg := range messages {
		for _, w := range strings.Split(msg.Content, " ") {
			if utf8.RuneCountInString(w) <= lengthThreshold {
				continue
			}
			w = strings.ToLower(strings.ReplaceAll(w, "\r", ""))
			if i, ok := index[w]; ok {
				words[i].Count++
				continue
			}
			index[w] = len(words)
			words = append(words, WordCount{Word: w, Count: 1})
		}
	}

	sort.SliceStable(words, func(i, j int) bool {
		return words[i].Count > words[j].Count
	})

	if top < 0 {
		top = 0
	}
	if len(words) > top {
		words = words[:top]
	}
	if words == nil {
		words = []WordCount{}
	}
	return words
}
