package service

import "context"

// Notifier delivers a message to one user. Delivery is best effort: the
// reporting workflow never fails because a notification could not be sent, so
// implementations log failures instead of returning them.
type Notifier interface {
	Notify(ctx context.Context, recipientID uint, kind, title, message, actionRef string)
}
