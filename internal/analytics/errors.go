package analytics

import (
	"errors"
	"fmt"

	"github.com/xaenox/chat-features/internal/models"
)

// Operation names reported in ComputeError.Op
const (
	OpResponseTimeAndBurst = "response_time_and_burst"
	OpMessagesPerWeekday   = "messages_per_weekday"
	OpMessagesPerShift     = "messages_per_shift"
	OpMessagesPattern      = "messages_pattern"
	OpMessageProportions   = "message_proportions"
)

var (
	ErrUnknownSender = errors.New("unknown sender")
	ErrMalformedTime = errors.New("malformed time of day")
	ErrEmptyPattern  = errors.New("empty pattern")
)

// ComputeError identifies the computation and input that failed
type ComputeError struct {
	Op  string
	Err error
}

func (e *ComputeError) Error() string {
	return fmt.Sprintf("compute %s: %v", e.Op, e.Err)
}

func (e *ComputeError) Unwrap() error {
	return e.Err
}

func computeErr(op string, err error) error {
	return &ComputeError{Op: op, Err: err}
}

// messageErr wraps err with the position and ID of the offending message
func messageErr(op string, index int, msg *models.Message, err error) error {
	return computeErr(op, fmt.Errorf("message %d (id=%s): %w", index, msg.ID, err))
}

// checkSenders rejects any message whose sender is missing from the known set
func checkSenders(op string, messages []*models.Message, known map[string]struct{}) error {
	for i, msg := range messages {
		if _, ok := known[msg.Sender]; !ok {
			return messageErr(op, i, msg, fmt.Errorf("%w %q", ErrUnknownSender, msg.Sender))
		}
	}
	return nil
}

func senderSet(senders []string) map[string]struct{} {
	set := make(map[string]struct{}, len(senders))
	for _, s := range senders {
		set[s] = struct{}{}
	}
	return set
}
