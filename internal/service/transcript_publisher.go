// FILE: internal/service/transcript_publisher.go
package service

import (
	"encoding/json"
	"fmt"

	"leadq-chatbot-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// transcriptPublisher hands resolved exchanges to the in-process event bus.
// The publish is buffered, so the response path never waits on the database.
type transcriptPublisher struct {
	topicName string
	pubSub    *gochannel.GoChannel
}

func NewTranscriptPublisher(topicName string, pubSub *gochannel.GoChannel) ITranscriptPublisher {
	return &transcriptPublisher{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

func (p *transcriptPublisher) Publish(record *dto.TranscriptRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript record: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := p.pubSub.Publish(p.topicName, msg); err != nil {
		return fmt.Errorf("failed to publish transcript record: %w", err)
	}
	return nil
}
