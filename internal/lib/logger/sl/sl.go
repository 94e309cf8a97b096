package sl

import (
	"log/slog"
)

// Err creates a slog.Attr carrying the given error under the "error" key.
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
