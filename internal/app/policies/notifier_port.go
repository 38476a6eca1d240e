package policies

import "context"

// Notifier delivers user-facing notifications through an external channel.
type Notifier interface {
	Send(ctx context.Context, to string, template string, data any) error
}
