package analyzer

import (
	"errors"
	"fmt"
	"time"

	"github.com/xaenox/chat-features/internal/analytics"
	"github.com/xaenox/chat-features/internal/models"
	"github.com/xaenox/chat-features/pkg/config"
	"go.uber.org/zap"
)

var (
	ErrNoSenders   = errors.New("conversation has no senders")
	ErrUnknownRoot = errors.New("root participant is not a sender")
)

// Settings are the parameters every analysis run uses
type Settings struct {
	RootName            string
	Senders             []string
	InitiationThreshold time.Duration
	BurstThreshold      int
	Patterns            []string
	TopWords            int
	WordLengthThreshold int
}

func DefaultSettings() Settings {
	return Settings{
		InitiationThreshold: analytics.DefaultInitiationThreshold,
		BurstThreshold:      analytics.DefaultBurstThreshold,
		TopWords:            analytics.DefaultTopWords,
		WordLengthThreshold: analytics.DefaultWordLengthThreshold,
	}
}

func SettingsFromConfig(cfg config.AnalysisConfig) Settings {
	return Settings{
		RootName:            cfg.RootName,
		Senders:             cfg.Senders,
		InitiationThreshold: cfg.InitiationThreshold,
		BurstThreshold:      cfg.BurstThreshold,
		Patterns:            cfg.Patterns,
		TopWords:            cfg.TopWords,
		WordLengthThreshold: cfg.WordLengthThreshold,
	}
}

// Summary holds the derived scalar metrics of a report
type Summary struct {
	AvgRootResponseTime    int64          `json:"avg_root_response_time"`
	AvgContactResponseTime int64          `json:"avg_contact_response_time"`
	RootBursts             int            `json:"root_bursts"`
	ContactBursts          int            `json:"contact_bursts"`
	AvgRootBurst           int            `json:"avg_root_burst"`
	AvgContactBurst        int            `json:"avg_contact_burst"`
	InitiationRatios       map[string]int `json:"initiation_ratios"`
}

// Report is the full result of analyzing one conversation
type Report struct {
	ConversationID string                    `json:"conversation_id"`
	Name           string                    `json:"name"`
	Root           string                    `json:"root"`
	Contacts       []string                  `json:"contacts"`
	Senders        []string                  `json:"senders"`
	Messages       int                       `json:"messages"`
	FirstMessageAt time.Time                 `json:"first_message_at"`
	LastMessageAt  time.Time                 `json:"last_message_at"`
	Response       *analytics.ResponseStats  `json:"response"`
	Summary        Summary                   `json:"summary"`
	Weekday        map[string]int            `json:"weekday"`
	Shifts         map[analytics.Shift]int   `json:"shifts"`
	Patterns       map[string]map[string]int `json:"patterns"`
	PatternOrder   []string                  `json:"-"`
	Proportions    *analytics.Proportions    `json:"proportions"`
	MostUsedWords  []analytics.WordCount     `json:"most_used_words"`
}

type Analyzer struct {
	settings Settings
	logger   *zap.Logger
}

func New(settings Settings, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		settings: settings,
		logger:   logger,
	}
}

// Analyze runs every computation over the conversation. Senders default to the
// conversation participants and the root to the first of them.
func (a *Analyzer) Analyze(conv *models.Conversation) (*Report, error) {
	senders := a.settings.Senders
	if len(senders) == 0 {
		senders = conv.Senders
	}
	if len(senders) == 0 {
		return nil, ErrNoSenders
	}

	root := a.settings.RootName
	if root == "" {
		root = senders[0]
	}
	contacts := make([]string, 0, len(senders))
	found := false
	for _, s := range senders {
		if s == root {
			found = true
			continue
		}
		contacts = append(contacts, s)
	}
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRoot, root)
	}

	logger := a.logger.With(
		zap.String("conversation_id", conv.ID),
		zap.String("root", root),
		zap.Int("messages", len(conv.Messages)))

	messages := conv.Messages
	f := analytics.NewFeatures()

	if err := f.ComputeResponseTimeAndBurst(messages, root, senders, a.settings.InitiationThreshold, a.settings.BurstThreshold); err != nil {
		return nil, err
	}
	logger.Debug("Computed response times and bursts",
		zap.Int("root_bursts", f.RootBurstCount()),
		zap.Int("contact_bursts", f.ContactBurstCount()))

	if _, err := f.ComputeMessagesPerWeekday(messages); err != nil {
		return nil, err
	}
	if _, err := f.ComputeMessagesPerShift(messages); err != nil {
		return nil, err
	}
	if _, err := f.ComputeMessagesPattern(messages, senders, a.settings.Patterns); err != nil {
		return nil, err
	}
	logger.Debug("Computed activity and patterns", zap.Int("patterns", len(a.settings.Patterns)))

	if _, err := f.ComputeMessageProportions(messages, senders); err != nil {
		return nil, err
	}
	f.ComputeMostUsedWords(messages, a.settings.TopWords, a.settings.WordLengthThreshold)

	ratios := make(map[string]int, len(contacts))
	for _, c := range contacts {
		ratios[c] = f.RootInitiationRatio(root, c)
	}

	first, last := conv.Period()
	report := &Report{
		ConversationID: conv.ID,
		Name:           conv.Name,
		Root:           root,
		Contacts:       contacts,
		Senders:        senders,
		Messages:       len(messages),
		FirstMessageAt: first,
		LastMessageAt:  last,
		Response:       f.Response(),
		Summary: Summary{
			AvgRootResponseTime:    f.AvgRootResponseTime(),
			AvgContactResponseTime: f.AvgContactResponseTime(),
			RootBursts:             f.RootBurstCount(),
			ContactBursts:          f.ContactBurstCount(),
			AvgRootBurst:           f.AvgRootBurst(),
			AvgContactBurst:        f.AvgContactBurst(),
			InitiationRatios:       ratios,
		},
		Weekday:       f.Weekday,
		Shifts:        f.Shifts,
		Patterns:      f.Patterns,
		PatternOrder:  a.settings.Patterns,
		Proportions:   f.Proportions,
		MostUsedWords: f.MostUsedWords,
	}

	logger.Info("Analyzed conversation",
		zap.Int("senders", len(senders)),
		zap.Int64("avg_root_response_s", report.Summary.AvgRootResponseTime),
		zap.Int64("avg_contact_response_s", report.Summary.AvgContactResponseTime))
	return report, nil
}
