package logging

import (
	"log/slog"
	"os"
)

// Setup installs the global slog logger: JSON on stdout, plus any extra
// sinks such as the database handler. Development builds log at debug.
func Setup(appEnv string, sinks ...slog.Handler) {
	level := slog.LevelInfo
	if appEnv == "development" {
		level = slog.LevelDebug
	}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	if len(sinks) > 0 {
		handler = NewMultiHandler(append([]slog.Handler{handler}, sinks...)...)
	}
	slog.SetDefault(slog.New(handler))
}
