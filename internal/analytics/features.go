// Package analytics computes descriptive metrics over an ordered conversation:
// response latency, bursts, initiations, weekday and shift volume, literal pattern
// frequency, per-sender proportions and the most used words.
//
// Every computation is a pure function over a message slice. Features wraps them for
// callers that want one object holding the latest result of each computation.
package analytics

import (
	"time"

	"github.com/xaenox/chat-features/internal/models"
)

// Features keeps the most recent result of each computation. Each Compute method
// replaces only the fields it owns; a failed computation leaves them untouched.
// Features is not safe for concurrent use.
type Features struct {
	RootResponseTime    []int64
	ContactResponseTime []int64
	RootBurst           []int
	ContactBurst        []int
	Initiations         map[string]int
	Weekday             map[string]int
	Shifts              map[Shift]int
	Patterns            map[string]map[string]int
	Proportions         *Proportions
	MostUsedWords       []WordCount
}

func NewFeatures() *Features {
	return &Features{
		Initiations: make(map[string]int),
		Weekday:     make(map[string]int),
		Shifts:      make(map[Shift]int),
		Patterns:    make(map[string]map[string]int),
	}
}

func (f *Features) ComputeResponseTimeAndBurst(messages []*models.Message, rootName string, senders []string, initiationThreshold time.Duration, burstThreshold int) error {
	stats, err := ComputeResponseTimeAndBurst(messages, rootName, senders, initiationThreshold, burstThreshold)
	if err != nil {
		return err
	}
	f.RootResponseTime = stats.RootResponseTime
	f.ContactResponseTime = stats.ContactResponseTime
	f.RootBurst = stats.RootBurst
	f.ContactBurst = stats.ContactBurst
	f.Initiations = stats.Initiations
	return nil
}

func (f *Features) ComputeMessagesPerWeekday(messages []*models.Message) (map[string]int, error) {
	weekday, err := ComputeMessagesPerWeekday(messages)
	if err != nil {
		return nil, err
	}
	f.Weekday = weekday
	return weekday, nil
}

func (f *Features) ComputeMessagesPerShift(messages []*models.Message) (map[Shift]int, error) {
	shifts, err := ComputeMessagesPerShift(messages)
	if err != nil {
		return nil, err
	}
	f.Shifts = shifts
	return shifts, nil
}

func (f *Features) ComputeMessagesPattern(messages []*models.Message, senders, patterns []string) (map[string]map[string]int, error) {
	result, err := ComputeMessagesPattern(messages, senders, patterns)
	if err != nil {
		return nil, err
	}
	f.Patterns = result
	return result, nil
}

func (f *Features) ComputeMessageProportions(messages []*models.Message, senders []string) (*Proportions, error) {
	p, err := ComputeMessageProportions(messages, senders)
	if err != nil {
		return nil, err
	}
	f.Proportions = p
	return p, nil
}

func (f *Features) ComputeMostUsedWords(messages []*models.Message, top, lengthThreshold int) []WordCount {
	f.MostUsedWords = ComputeMostUsedWords(messages, top, lengthThreshold)
	return f.MostUsedWords
}

// Response returns the response-time fields as a ResponseStats value
func (f *Features) Response() *ResponseStats {
	return &ResponseStats{
		RootResponseTime:    f.RootResponseTime,
		ContactResponseTime: f.ContactResponseTime,
		RootBurst:           f.RootBurst,
		ContactBurst:        f.ContactBurst,
		Initiations:         f.Initiations,
	}
}

func (f *Features) AvgRootResponseTime() int64    { return f.Response().AvgRootResponseTime() }
func (f *Features) AvgContactResponseTime() int64 { return f.Response().AvgContactResponseTime() }
func (f *Features) RootBurstCount() int           { return f.Response().RootBurstCount() }
func (f *Features) ContactBurstCount() int        { return f.Response().ContactBurstCount() }
func (f *Features) AvgRootBurst() int             { return f.Response().AvgRootBurst() }
func (f *Features) AvgContactBurst() int          { return f.Response().AvgContactBurst() }

func (f *Features) RootInitiationRatio(root, contact string) int {
	return f.Response().RootInitiationRatio(root, contact)
}
