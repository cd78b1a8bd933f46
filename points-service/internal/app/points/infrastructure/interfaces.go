package infrastructure

import (
	"context"
)

// MessagePublisher публикует события отзывов в брокер
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}
