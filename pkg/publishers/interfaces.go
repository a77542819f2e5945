package publishers

import "context"

// Publisher sends order events to a downstream sink (SQS, SNS, Pub/Sub, HTTP).
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// Logger is the structured logging surface publishers write delivery
// metadata to. internal/logger.Logger satisfies it.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

// discardLogger drops every entry; builders fall back to it.
type discardLogger struct{}

func (discardLogger) InfoObj(string, string, interface{})  {}
func (discardLogger) DebugObj(string, string, interface{}) {}
func (discardLogger) WarnObj(string, string, interface{})  {}
func (discardLogger) ErrorObj(string, string, interface{}) {}

func ensureLogger(log Logger) Logger {
	if log != nil {
		return log
	}
	return discardLogger{}
}
