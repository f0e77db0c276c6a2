package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xaenox/chat-features/internal/models"
	"go.uber.org/zap"
)

type DateOrder string

const (
	DayMonthYear DateOrder = "dmy"
	MonthDayYear DateOrder = "mdy"
)

var (
	ErrNoMessages       = errors.New("no messages found")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

var (
	// [31/12/2019, 22:05:13] Alice: text
	iosLine = regexp.MustCompile(`^\[(\d{1,2}[/.]\d{1,2}[/.]\d{2,4}),? (\d{1,2}[:.]\d{2}(?:[:.]\d{2})?(?:[\s\x{202f}]?[AaPp]\.?[Mm]\.?)?)\] (.*)$`)
	// 31/12/2019, 22:05 - Alice: text
	androidLine = regexp.MustCompile(`^(\d{1,2}[/.]\d{1,2}[/.]\d{2,4}),? (\d{1,2}[:.]\d{2}(?:[:.]\d{2})?(?:[\s\x{202f}]?[AaPp]\.?[Mm]\.?)?) - (.*)$`)
)

// Parser reads WhatsApp text exports into a conversation
type Parser struct {
	location  *time.Location
	dateOrder DateOrder
	logger    *zap.Logger
}

func New(location *time.Location, dateOrder DateOrder, logger *zap.Logger) *Parser {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if dateOrder == "" {
		dateOrder = DayMonthYear
	}
	return &Parser{
		location:  location,
		dateOrder: dateOrder,
		logger:    logger,
	}
}

// ParseFile parses the export at path. The conversation is named after the file.
func (p *Parser) ParseFile(path string) (*models.Conversation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export: %w", err)
	}
	defer f.Close()

	conv, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	conv.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return conv, nil
}

// Parse reads an export line by line. Lines without a timestamp continue the previous
// message; timestamped lines without a "sender: " prefix are system notices and skipped.
func (p *Parser) Parse(r io.Reader) (*models.Conversation, error) {
	conv := models.NewConversation("")
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var last *models.Message
	skipped := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimLeft(strings.TrimRight(scanner.Text(), "\r"), "\u200e\ufeff")

		date, clock, rest, ok := splitLine(line)
		if !ok {
			if last != nil {
				last.Content += "\n" + line
			}
			continue
		}

		ts, err := p.timestamp(date, clock)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		sender, content, ok := strings.Cut(rest, ": ")
		if !ok || sender == "" {
			skipped++
			last = nil
			continue
		}

		last = models.NewMessage(strings.TrimSpace(sender), ts, content)
		conv.AddMessage(last)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}

	if len(conv.Messages) == 0 {
		return nil, ErrNoMessages
	}

	p.logger.Debug("Parsed export",
		zap.Int("messages", len(conv.Messages)),
		zap.Int("senders", len(conv.Senders)),
		zap.Int("skipped_notices", skipped))
	return conv, nil
}

func splitLine(line string) (date, clock, rest string, ok bool) {
	if m := iosLine.FindStringSubmatch(line); m != nil {
		return m[1], m[2], m[3], true
	}
	if m := androidLine.FindStringSubmatch(line); m != nil {
		return m[1], m[2], m[3], true
	}
	return "", "", "", false
}

func (p *Parser) timestamp(date, clock string) (time.Time, error) {
	parts := strings.FieldsFunc(date, func(r rune) bool { return r == '/' || r == '.' })
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidTimestamp, date)
	}
	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidTimestamp, date)
		}
		nums[i] = n
	}

	day, month, year := nums[0], nums[1], nums[2]
	if p.dateOrder == MonthDayYear {
		day, month = month, day
	}
	if year < 100 {
		year += 2000
	}

	hour, minute, second, err := parseClock(clock)
	if err != nil {
		return time.Time{}, err
	}

	ts := time.Date(year, time.Month(month), day, hour, minute, second, 0, p.location)
	// time.Date normalizes out-of-range values; reject them instead
	if ts.Day() != day || int(ts.Month()) != month || ts.Year() != year {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidTimestamp, date)
	}
	return ts, nil
}

func parseClock(clock string) (hour, minute, second int, err error) {
	lower := strings.ToLower(strings.ReplaceAll(clock, ".", ":"))
	pm := strings.Contains(lower, "p")
	twelveHour := pm || strings.Contains(lower, "a")
	lower = strings.TrimRight(lower, "apm: \u202f")

	fields := strings.Split(strings.TrimSpace(lower), ":")
	values := make([]int, 3)
	for i, f := range fields {
		if i > 2 {
			break
		}
		if values[i], err = strconv.Atoi(f); err != nil {
			return 0, 0, 0, fmt.Errorf("%w: time %q", ErrInvalidTimestamp, clock)
		}
	}
	hour, minute, second = values[0], values[1], values[2]

	if twelveHour {
		if hour < 1 || hour > 12 {
			return 0, 0, 0, fmt.Errorf("%w: time %q", ErrInvalidTimestamp, clock)
		}
		hour %= 12
		if pm {
			hour += 12
		}
	}
	if hour > 23 || minute > 59 || second > 59 {
		return 0, 0, 0, fmt.Errorf("%w: time %q", ErrInvalidTimestamp, clock)
	}
	return hour, minute, second, nil
}
