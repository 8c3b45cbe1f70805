package cluster2d

import "log/slog"

var discardLogger = slog.New(slog.DiscardHandler)

// loggerOrDiscard returns l, or a logger that drops every record when l is nil.
func loggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return discardLogger
	}
	return l
}
