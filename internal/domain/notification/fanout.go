package notification

import (
	"context"
	"errors"
)

// Fanout delivers every message through all configured messengers. Each
// messenger is attempted even when an earlier one fails; the errors are
// joined so callers still see every failure.
type Fanout []Messenger

var _ Messenger = (Fanout)(nil)

func (f Fanout) Send(ctx context.Context, destination, text string) error {
	var errs []error
	for _, m := range f {
		if err := m.Send(ctx, destination, text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f Fanout) SendPhoto(ctx context.Context, destination, imagePath, caption string) error {
	var errs []error
	for _, m := range f {
		if err := m.SendPhoto(ctx, destination, imagePath, caption); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
