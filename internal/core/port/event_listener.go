package port

import "context"

// EventListenerPort - входящий адаптер, который слушает брокер сообщений.
type EventListenerPort interface {
	Start(ctx context.Context) error
	Close() error
}
