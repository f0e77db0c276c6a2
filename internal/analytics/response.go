package analytics

import (
	"time"

	"github.com/xaenox/chat-features/internal/models"
)

const (
	DefaultInitiationThreshold = 8 * time.Hour
	DefaultBurstThreshold      = 3
)

// ResponseStats holds response latencies, bursts and initiations of a conversation.
// Response times are whole seconds.
type ResponseStats struct {
	RootResponseTime    []int64        `json:"root_response_time"`
	ContactResponseTime []int64        `json:"contact_response_time"`
	RootBurst           []int          `json:"root_burst"`
	ContactBurst        []int          `json:"contact_burst"`
	Initiations         map[string]int `json:"initiations"`
}

// ComputeResponseTimeAndBurst scans messages once and records, on every hand-off,
// the elapsed time attributed to the new speaker and the just-ended burst attributed
// to the previous one. A hand-off after a gap longer than initiationThreshold counts
// as an initiation by the new speaker. The burst still open at the end of the stream
// is never recorded.
func ComputeResponseTimeAndBurst(messages []*models.Message, rootName string, senders []string, initiationThreshold time.Duration, burstThreshold int) (*ResponseStats, error) {
	stats := &ResponseStats{
		RootResponseTime:    []int64{},
		ContactResponseTime: []int64{},
		RootBurst:           []int{},
		ContactBurst:        []int{},
		Initiations:         make(map[string]int, len(senders)),
	}
	for _, s := range senders {
		stats.Initiations[s] = 0
	}

	if len(messages) == 0 {
		return stats, nil
	}
	if err := checkSenders(OpResponseTimeAndBurst, messages, senderSet(senders)); err != nil {
		return nil, err
	}

	threshold := int64(initiationThreshold / time.Second)
	t0 := messages[0].DateTime
	burst := 1

	for i := 1; i < len(messages); i++ {
		msg := messages[i]
		dt := int64(msg.DateTime.Sub(t0) / time.Second)

		if msg.Sender != messages[i-1].Sender {
			if dt > threshold {
				stats.Initiations[msg.Sender]++
			}

			if msg.Sender == rootName {
				// the burst that just ended belongs to the contact
				if burst > burstThreshold {
					stats.ContactBurst = append(stats.ContactBurst, burst)
				}
				stats.RootResponseTime = append(stats.RootResponseTime, dt)
			} else {
				if burst > burstThreshold {
					stats.RootBurst = append(stats.RootBurst, burst)
				}
				stats.ContactResponseTime = append(stats.ContactResponseTime, dt)
			}
			burst = 1
		} else {
			burst++
		}
		t0 = msg.DateTime
	}

	return stats, nil
}

func (s *ResponseStats) AvgRootResponseTime() int64 {
	return mean64(s.RootResponseTime)
}

func (s *ResponseStats) AvgContactResponseTime() int64 {
	return mean64(s.ContactResponseTime)
}

func (s *ResponseStats) RootBurstCount() int {
	return len(s.RootBurst)
}

func (s *ResponseStats) ContactBurstCount() int {
	return len(s.ContactBurst)
}

func (s *ResponseStats) AvgRootBurst() int {
	return mean(s.RootBurst)
}

func (s *ResponseStats) AvgContactBurst() int {
	return mean(s.ContactBurst)
}

// RootInitiationRatio returns initiations[root] / initiations[contact], or 0 when the
// contact never initiated.
func (s *ResponseStats) RootInitiationRatio(root, contact string) int {
	if s.Initiations[contact] == 0 {
		return 0
	}
	return s.Initiations[root] / s.Initiations[contact]
}

func mean64(values []int64) int64 {
	if len(values) == 0 {
		return 0
	}
	var sum int64
	for _, v := range values {
		sum += v
	}
	return sum / int64(len(values))
}

func mean(values []int) int {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return sum / len(values)
}
