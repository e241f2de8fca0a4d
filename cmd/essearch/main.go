package main

import (
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	// Load .env file if present (does not override existing env vars)
	_ = godotenv.Load()

	log := newLogger()

	root := searchCmd(log)
	root.AddCommand(indicesListCmd(log))
	root.AddCommand(clusterHealthCmd(log))

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("invocation failed")
		os.Exit(1)
	}
}

// newLogger builds the diagnostics logger. Diagnostics go to stderr only;
// stdout is reserved for output records. Each invocation carries a run id so
// the host can line up its own logs with ours.
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if s := os.Getenv("ESSEARCH_LOG_LEVEL"); s != "" {
		if parsed, err := zerolog.ParseLevel(s); err == nil {
			level = parsed
		}
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Str("run_id", uuid.NewString()).
		Logger()
}
