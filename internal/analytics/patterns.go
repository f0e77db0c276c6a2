package analytics

import (
	"strings"

	"github.com/xaenox/chat-features/internal/models"
)

// ComputeMessagesPattern counts, per pattern and sender, every case-insensitive literal
// occurrence of the pattern in message contents. Patterns are plain text: "?!" matches
// exactly those two characters.
func ComputeMessagesPattern(messages []*models.Message, senders []string, patterns []string) (map[string]map[string]int, error) {
	result := make(map[string]map[string]int, len(patterns))
	needles := make([]string, len(patterns))
	for i, p := range patterns {
		if p == "" {
			return nil, computeErr(OpMessagesPattern, ErrEmptyPattern)
		}
		needles[i] = strings.ToLower(p)
		result[p] = make(map[string]int, len(senders))
		for _, s := range senders {
			result[p][s] = 0
		}
	}

	if err := checkSenders(OpMessagesPattern, messages, senderSet(senders)); err != nil {
		return nil, err
	}

	for _, msg := range messages {
		content := strings.ToLower(msg.Content)
		for i, p := range patterns {
			if n := strings.Count(content, needles[i]); n > 0 {
				result[p][msg.Sender] += n
			}
		}
	}
	return result, nil
}
