package ports

import "context"

// Push is the payload handed to the external push transport.
type Push struct {
	Title string
	Body  string
	Data  map[string]string
}

// PushTransport delivers a push message to one registered device or browser
// token. Delivery is best-effort: callers persist the notification row first
// and tolerate Send failures. Token registration and removal are external
// concerns.
type PushTransport interface {
	Send(ctx context.Context, token string, push Push) error
}
