// Package events publishes auth and repository lifecycle events through
// Watermill so other services (indexers, notifiers) can react to them.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/sui-direct/node/core"
	"github.com/sui-direct/node/ports"
)

const (
	TopicLogin   = "direct.auth.login"
	TopicPushed  = "direct.repo.pushed"
	TopicRenamed = "direct.repo.renamed"
)

// LoginEvent is emitted after a successful signature proof.
type LoginEvent struct {
	Account string `json:"account"`
	PeerID  string `json:"peer_id"`
	Deposit string `json:"deposit"`
}

// PushedEvent is emitted after a repository is cataloged.
type PushedEvent struct {
	BlobID string `json:"blob_id"`
	Owner  string `json:"owner"`
	Name   string `json:"name"`
}

// RenamedEvent is emitted after a repository display name changes.
type RenamedEvent struct {
	BlobID string `json:"blob_id"`
	Name   string `json:"name"`
}

// WatermillPublisher implements ports.EventPublisher on a Watermill
// message.Publisher.
type WatermillPublisher struct {
	publisher message.Publisher
}

func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{publisher: publisher}
}

func (p *WatermillPublisher) PublishLogin(ctx context.Context, account, peerID, deposit string) error {
	return p.publish(TopicLogin, LoginEvent{Account: account, PeerID: peerID, Deposit: deposit})
}

func (p *WatermillPublisher) PublishPushed(ctx context.Context, rec core.RepositoryRecord) error {
	return p.publish(TopicPushed, PushedEvent{BlobID: rec.BlobID, Owner: rec.Owner, Name: rec.Name})
}

func (p *WatermillPublisher) PublishRenamed(ctx context.Context, blobID, name string) error {
	return p.publish(TopicRenamed, RenamedEvent{BlobID: blobID, Name: name})
}

func (p *WatermillPublisher) publish(topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(uuid.New().String(), payload)
	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}
