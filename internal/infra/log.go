package infra

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogEvents subscribes logger to every event type on the bus.
//
// Rejected fields are noisy on real spreadsheets and go to debug. Join
// ambiguities and failed sections go to warn, assembled reports to info.
func LogEvents(bus *Bus, logger *zap.Logger) {
	bus.Subscribe(FieldRejected, logAt(logger, zapcore.DebugLevel, "field rejected"))
	bus.Subscribe(JoinAmbiguityDetected, logAt(logger, zapcore.WarnLevel, "join ambiguity"))
	bus.Subscribe(SectionFailed, logAt(logger, zapcore.WarnLevel, "section failed"))
	bus.Subscribe(ReportAssembled, logAt(logger, zapcore.InfoLevel, "report assembled"))
}

func logAt(logger *zap.Logger, level zapcore.Level, msg string) Handler {
	return func(e Event) {
		ce := logger.Check(level, msg)
		if ce == nil {
			return
		}
		ce.Write(eventFields(e)...)
	}
}

func eventFields(e Event) []zap.Field {
	fields := []zap.Field{zap.Stringer("event", e.EventType())}
	switch v := e.(type) {
	case zapcore.ObjectMarshaler:
		fields = append(fields, zap.Object("detail", v))
	case error:
		fields = append(fields, zap.Error(v))
	}
	return fields
}
