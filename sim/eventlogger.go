package sim

import (
	"reflect"

	"github.com/sirupsen/logrus"
)

// EventLogger is an hook that prints the event information
type EventLogger struct {
	logger *logrus.Entry
}

// NewEventLogger returns a new EventLogger which writes one trace-level entry
// per handled event.
func NewEventLogger(logger *logrus.Entry) *EventLogger {
	return &EventLogger{logger: logger}
}

// Func writes the event information into the logger
func (h *EventLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(Event)
	if !ok {
		return
	}

	entry := h.logger.WithFields(logrus.Fields{
		"time":  float64(evt.Time()),
		"event": reflect.TypeOf(evt).String(),
	})

	if named, ok := evt.Handler().(Named); ok {
		entry = entry.WithField("handler", named.Name())
	}

	entry.Trace("event")
}
