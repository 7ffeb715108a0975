// Package zapredact masks PII fields in entries written by a zap core.
package zapredact

import (
	"go.uber.org/zap/zapcore"

	log "github.com/nexuer/piilog"
)

type writeSyncer struct {
	zapcore.WriteSyncer
	redactor *log.Redactor
}

// WriteSyncer returns ws with every written entry redacted by r.
// zap encodes one entry per Write call, so each call is one log line.
func WriteSyncer(ws zapcore.WriteSyncer, r *log.Redactor) zapcore.WriteSyncer {
	return &writeSyncer{WriteSyncer: ws, redactor: r}
}

func (w *writeSyncer) Write(p []byte) (int, error) {
	if _, err := w.WriteSyncer.Write(w.redactor.RedactBytes(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// NewCore is zapcore.NewCore with the output redacted by r.
func NewCore(enc zapcore.Encoder, ws zapcore.WriteSyncer, enab zapcore.LevelEnabler, r *log.Redactor) zapcore.Core {
	return zapcore.NewCore(enc, WriteSyncer(ws, r), enab)
}
