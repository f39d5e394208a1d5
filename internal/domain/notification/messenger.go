package notification

import "context"

// Messenger defines the interface for delivering a pre-formatted message to a
// destination (a chat ID, a routing key). Delivery is fire-and-forget from the
// caller's perspective: implementations return errors for logging, and callers
// must never let a delivery failure escape a watcher cycle.
type Messenger interface {
	Send(ctx context.Context, destination, text string) error

	// SendPhoto delivers an image with a caption. Implementations that have
	// no image transport may deliver the caption alone.
	SendPhoto(ctx context.Context, destination, imagePath, caption string) error
}
