package monitoring

import (
	"log/slog"
	"os"
	"time"
)

// Logger provides structured JSON logging with domain-specific helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates the service logger and installs it as the slog default.
func NewLogger() *Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   "timestamp",
					Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
				}
			}
			return a
		},
	})

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return &Logger{Logger: logger}
}

// RequestLogger logs one HTTP request.
func (l *Logger) RequestLogger(method, path, ip, requestID string, statusCode int, duration time.Duration) {
	l.Info("http request",
		"method", method,
		"path", path,
		"ip", ip,
		"request_id", requestID,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
	)
}

// AssessmentLogger logs one completed risk assessment. Only the derived
// outputs are logged, never the patient's raw clinical values.
func (l *Logger) AssessmentLogger(requestID string, probability float64, band, label string, duration time.Duration, cacheHit bool) {
	l.Info("assessment completed",
		"request_id", requestID,
		"probability", probability,
		"band", band,
		"label", label,
		"duration_ms", duration.Milliseconds(),
		"cache_hit", cacheHit,
	)
}
