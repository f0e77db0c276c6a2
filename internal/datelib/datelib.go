package datelib

import (
	"errors"
	"fmt"
	"time"

	"github.com/xaenox/chat-features/internal/models"
)

var ErrInvalidDate = errors.New("invalid date")

// DateToWeekday maps a calendar date in models.DateLayout to its English weekday label
func DateToWeekday(date string) (string, error) {
	t, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidDate, date, err)
	}
	return t.Weekday().String(), nil
}
