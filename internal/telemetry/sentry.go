// sentry.go — Sentry error tracking for the bot process.
//
// Usage in main:
//
//	telemetry.Init(cfg.SentryDSN, version)
//	defer telemetry.Flush()
//
// Usage around per-message handler goroutines:
//
//	go func() {
//	    defer telemetry.RecoverMessage(log, text)
//	    // ... handle command
//	}()
package telemetry

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
)

// Init initializes the Sentry SDK. Call once at process startup.
// dsn may be empty — Sentry is then disabled and every other function in this
// package becomes a no-op. release should be the git SHA or version tag.
func Init(dsn, release string) error {
	env := os.Getenv("MOVIEBOT_ENV")
	if env == "" {
		env = "development"
	}

	if dsn == "" {
		// Sentry disabled — not an error. Log and continue.
		fmt.Fprintln(os.Stderr, "[telemetry] SENTRY_DSN not set — Sentry disabled")
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      env,
		Release:          release,
		AttachStacktrace: true,
		Tags: map[string]string{
			"service": "moviebot",
		},
	})
	if err != nil {
		return fmt.Errorf("sentry.Init: %w", err)
	}
	return nil
}

// CaptureError sends an error to Sentry with optional context tags.
// tags may include: operation, command, movie. Safe to call when Sentry is
// disabled (dsn was empty) and when err is nil.
func CaptureError(err error, tags map[string]string) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}

// Flush waits for buffered Sentry events to be sent. Call with defer in main().
func Flush() {
	sentry.Flush(2 * time.Second)
}

// RecoverMessage catches a panic raised while handling one incoming message,
// reports it, and lets the goroutine exit. One poisoned message must never
// take down the process or other in-flight commands.
func RecoverMessage(log *slog.Logger, text string) {
	rec := recover()
	if rec == nil {
		return
	}

	var err error
	switch v := rec.(type) {
	case error:
		err = v
	default:
		err = fmt.Errorf("panic: %v", v)
	}

	hub := sentry.CurrentHub().Clone()
	hub.Scope().SetTag("panic", "true")
	hub.Scope().SetExtra("message_text", text)
	hub.CaptureException(err)
	hub.Flush(2 * time.Second)

	log.Error("recovered panic while handling message", "error", err)
}
