package mailer

import "context"

// Message is one outbound email. Both bodies are optional but at least one
// should be set.
type Message struct {
	ToName   string
	ToEmail  string
	Subject  string
	TextBody string
	HTMLBody string
}

//go:generate mockgen -source=mailer.go -destination=mock/mailer_mock.go -package=mock

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
