package redis

import (
	"context"
	"fmt"
	"time"

	"wallet-ledger/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// DefaultAuditStream is the stream key used when none is configured.
const DefaultAuditStream = "wallet:audit"

// AuditPublisher implements ports.AuditPublisher over a Redis stream.
// Entries are appended with XADD, so a downstream audit consumer reading
// with a consumer group gets at-least-once delivery.
type AuditPublisher struct {
	client *goredis.Client
	stream string
}

// NewAuditPublisher creates a Redis-stream-backed audit publisher.
func NewAuditPublisher(client *goredis.Client, stream string) *AuditPublisher {
	if stream == "" {
		stream = DefaultAuditStream
	}
	return &AuditPublisher{client: client, stream: stream}
}

// Publish appends a committed ledger entry to the audit stream.
func (p *AuditPublisher) Publish(ctx context.Context, txn *domain.WalletTransaction) error {
	err := p.client.XAdd(ctx, &goredis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"transaction_id": txn.ID.String(),
			"wallet_id":      txn.WalletID.String(),
			"amount":         txn.Amount.String(),
			"type":           string(txn.Type),
			"status":         string(txn.Status),
			"created_at":     txn.CreatedAt.UTC().Format(time.RFC3339Nano),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("redis audit publish: %w", err)
	}
	return nil
}
