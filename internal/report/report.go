package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/xaenox/chat-features/internal/analytics"
	"github.com/xaenox/chat-features/internal/analyzer"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

var ErrUnknownFormat = errors.New("unknown report format")

// weekdays in display order, Monday first
var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// Write renders r to w in the given format
func Write(w io.Writer, r *analyzer.Report, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatText, "":
		return writeText(w, r)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func writeText(out io.Writer, r *analyzer.Report) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	title := r.Name
	if title == "" {
		title = r.ConversationID
	}
	fmt.Fprintf(w, "Conversation: %s\n", title)
	fmt.Fprintf(w, "Root:\t%s\n", r.Root)
	fmt.Fprintf(w, "Contacts:\t%s\n", strings.Join(r.Contacts, ", "))
	fmt.Fprintf(w, "Messages:\t%d\n", r.Messages)
	if r.Messages > 0 {
		fmt.Fprintf(w, "Period:\t%s - %s\n",
			r.FirstMessageAt.Format("2006-01-02 15:04"), r.LastMessageAt.Format("2006-01-02 15:04"))
	}

	fmt.Fprintln(w, "\n# Responses")
	s := r.Summary
	fmt.Fprintf(w, "Avg root response:\t%s\n", seconds(s.AvgRootResponseTime))
	fmt.Fprintf(w, "Avg contact response:\t%s\n", seconds(s.AvgContactResponseTime))
	fmt.Fprintf(w, "Root bursts:\t%d\t(avg %d)\n", s.RootBursts, s.AvgRootBurst)
	fmt.Fprintf(w, "Contact bursts:\t%d\t(avg %d)\n", s.ContactBursts, s.AvgContactBurst)
	for _, sender := range r.Senders {
		fmt.Fprintf(w, "Initiations %s:\t%d\n", sender, r.Response.Initiations[sender])
	}
	for _, c := range r.Contacts {
		fmt.Fprintf(w, "Root/%s initiation ratio:\t%d\n", c, s.InitiationRatios[c])
	}

	if p := r.Proportions; p != nil {
		fmt.Fprintln(w, "\n# Proportions")
		fmt.Fprintf(w, "sender\tmessages\twords\tchars\t?\t!\tmedia\tavg words\n")
		for _, sender := range r.Senders {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\n", sender,
				share(p.Messages[sender], p.TotalMessages),
				share(p.Words[sender], p.TotalWords),
				share(p.Chars[sender], p.TotalChars),
				p.QMarks[sender], p.Exclams[sender], p.Media[sender], p.AvgWords[sender])
		}
		fmt.Fprintf(w, "total\t%d\t%d\t%d\t%d\t%d\t%d\t\n",
			p.TotalMessages, p.TotalWords, p.TotalChars, p.TotalQMarks, p.TotalExclams, p.TotalMedia)
	}

	fmt.Fprintln(w, "\n# Activity")
	for _, d := range weekdays {
		if n, ok := r.Weekday[d.String()]; ok {
			fmt.Fprintf(w, "%s:\t%d\n", d, n)
		}
	}
	for _, shift := range analytics.Shifts {
		fmt.Fprintf(w, "%s:\t%d\n", shift, r.Shifts[shift])
	}

	if len(r.Patterns) > 0 {
		fmt.Fprintln(w, "\n# Patterns")
		fmt.Fprintf(w, "pattern\t%s\n", strings.Join(r.Senders, "\t"))
		for _, pattern := range patternOrder(r) {
			counts := make([]string, len(r.Senders))
			for i, sender := range r.Senders {
				counts[i] = fmt.Sprint(r.Patterns[pattern][sender])
			}
			fmt.Fprintf(w, "%q\t%s\n", pattern, strings.Join(counts, "\t"))
		}
	}

	if len(r.MostUsedWords) > 0 {
		fmt.Fprintln(w, "\n# Most used words")
		for i, wc := range r.MostUsedWords {
			fmt.Fprintf(w, "%d.\t%s\t%d\n", i+1, wc.Word, wc.Count)
		}
	}

	return w.Flush()
}

func patternOrder(r *analyzer.Report) []string {
	if len(r.PatternOrder) == len(r.Patterns) {
		return r.PatternOrder
	}
	keys := make([]string, 0, len(r.Patterns))
	for k := range r.Patterns {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func share(n, total int) string {
	if total == 0 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%d (%.1f%%)", n, float64(n)*100/float64(total))
}

func seconds(s int64) string {
	return (time.Duration(s) * time.Second).String()
}
