// Package notify delivers generation-run outcomes (article published,
// run failed) to an external channel.
package notify

import "context"

// Notifier sends one titled notice. Implementations must be safe to
// call from the scheduler goroutine.
type Notifier interface {
	Send(ctx context.Context, title, body string) error
}
