package service

import (
	"context"
	"encoding/json"
	"sync"

	"ai-trendboard-be/internal/dto"
	"ai-trendboard-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// ProgressDelivery pushes a progress event to connected dashboard
// clients. The websocket hub implements it.
type ProgressDelivery interface {
	Broadcast(sessionID string, event dto.ProgressEvent)
}

type IProgressService interface {
	Consume(ctx context.Context) error
	Fraction(sessionID string) float64
}

// progressService subscribes to the engine's progress topic, keeps the
// latest fraction per session for polling clients, and forwards every
// event to the websocket hub.
type progressService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	delivery  ProgressDelivery
	logger    logger.ILogger

	mu        sync.RWMutex
	fractions map[string]float64
}

func NewProgressService(
	pubSub *gochannel.GoChannel,
	topicName string,
	delivery ProgressDelivery,
	log logger.ILogger,
) IProgressService {
	return &progressService{
		pubSub:    pubSub,
		topicName: topicName,
		delivery:  delivery,
		logger:    log,
		fractions: make(map[string]float64),
	}
}

func (ps *progressService) Consume(ctx context.Context) error {
	messages, err := ps.pubSub.Subscribe(ctx, ps.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			ps.processMessage(msg)
		}
	}()

	return nil
}

func (ps *progressService) processMessage(msg *message.Message) {
	var event dto.ProgressEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		ps.logger.Error("Progress", "Failed to unmarshal progress event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // drop invalid events, nothing to retry
		return
	}

	ps.mu.Lock()
	ps.fractions[event.SessionID] = event.Fraction
	ps.mu.Unlock()

	if ps.delivery != nil {
		ps.delivery.Broadcast(event.SessionID, event)
	}
	msg.Ack()
}

// Fraction returns the latest reported fraction for a session, zero
// when no batch has run yet.
func (ps *progressService) Fraction(sessionID string) float64 {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return ps.fractions[sessionID]
}
