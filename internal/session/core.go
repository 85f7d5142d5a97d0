package session

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// progressCore forwards log entries to a ProgressSink as EventLog events.
type progressCore struct {
	zapcore.LevelEnabler
	sink   ProgressSink
	fields []zapcore.Field
}

// NewProgressCore returns a zapcore.Core that turns every entry at or above
// level into an Event on sink.
func NewProgressCore(sink ProgressSink, level zapcore.LevelEnabler) zapcore.Core {
	return &progressCore{LevelEnabler: level, sink: sink}
}

// TeeProgress returns logger with its output also delivered to sink.
func TeeProgress(logger *zap.Logger, sink ProgressSink) *zap.Logger {
	pc := NewProgressCore(sink, zapcore.InfoLevel)
	return logger.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, pc)
	}))
}

func (c *progressCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields = append(append([]zapcore.Field{}, c.fields...), fields...)
	return &clone
}

func (c *progressCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *progressCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range c.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}
	e := Event{
		Time:    ent.Time,
		Kind:    EventLog,
		Level:   ent.Level.String(),
		Message: ent.Message,
	}
	if ent.LoggerName != "" {
		enc.Fields["logger"] = ent.LoggerName
	}
	if len(enc.Fields) > 0 {
		e.Fields = enc.Fields
	}
	c.sink.Emit(e)
	return nil
}

func (c *progressCore) Sync() error { return nil }
