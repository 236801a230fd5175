package events

import "github.com/rs/zerolog"

// LogHandler returns a handler that writes events to the given logger.
// Failure events log at error level, everything else at debug.
func LogHandler(logger zerolog.Logger) Handler {
	return func(e Event) {
		var evt *zerolog.Event
		if e.IsFailure() {
			evt = logger.Error()
		} else {
			evt = logger.Debug()
		}

		evt = evt.Str("event", string(e.Type))
		if e.Run != "" {
			evt = evt.Str("run", e.Run)
		}
		if e.Stage != 0 {
			evt = evt.Int("stage", e.Stage)
		}
		if e.Lock != "" {
			evt = evt.Str("lock", e.Lock)
		}
		if e.Error != "" {
			evt = evt.Str("error", e.Error)
		}
		evt.Send()
	}
}
