package notification

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/olahol/melody"
)

type Service interface {
	SendMessage(message string) error
}

type MelodyService struct {
	m *melody.Melody
}

func NewMelodyService(m *melody.Melody) *MelodyService {
	return &MelodyService{m: m}
}

func (s *MelodyService) SendMessage(message string) error {
	if s.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	return s.m.Broadcast([]byte(message))
}

// VoteEvent được broadcast mỗi khi tổng vote của một review thay đổi
type VoteEvent struct {
	Event      string    `json:"event"`
	ReviewID   uint      `json:"reviewId"`
	Transition string    `json:"transition"`
	VoteType   string    `json:"voteType,omitempty"`
	TotalVotes int       `json:"totalVotes"`
	At         time.Time `json:"at"`
}

type MessageBuilder struct {
	event VoteEvent
}

func NewMessageBuilder(reviewID uint, totalVotes int) *MessageBuilder {
	return &MessageBuilder{
		event: VoteEvent{
			Event:      "review.votes",
			ReviewID:   reviewID,
			TotalVotes: totalVotes,
		},
	}
}

func (b *MessageBuilder) WithTransition(transition, voteType string) *MessageBuilder {
	b.event.Transition = transition
	b.event.VoteType = voteType
	return b
}

func (b *MessageBuilder) At(t time.Time) *MessageBuilder {
	b.event.At = t
	return b
}

func (b *MessageBuilder) Build() (string, error) {
	data, err := json.Marshal(b.event)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
