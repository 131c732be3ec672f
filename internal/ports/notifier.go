package ports

import "context"

// NotifyLevel classifies a notification for downstream formatting.
type NotifyLevel string

const (
	NotifyInfo    NotifyLevel = "info"
	NotifyWarning NotifyLevel = "warning"
	NotifyError   NotifyLevel = "error"
	NotifySuccess NotifyLevel = "success"
)

// Notifier delivers human-facing execution updates (trade fills, rejections,
// kill switch events). Implementations must be safe for concurrent use.
type Notifier interface {
	Notify(ctx context.Context, level NotifyLevel, msg string)
}

// NotifierFunc adapts a plain function to the Notifier interface.
type NotifierFunc func(ctx context.Context, level NotifyLevel, msg string)

func (f NotifierFunc) Notify(ctx context.Context, level NotifyLevel, msg string) {
	f(ctx, level, msg)
}
