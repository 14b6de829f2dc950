package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/Belphemur/ShowFinder/internal/apperrors"
	"github.com/Belphemur/ShowFinder/internal/config"
)

// Options configures a Reporter. An empty DSN yields a Reporter that drops everything.
type Options struct {
	DSN         string
	Environment string
	Release     string

	// BeforeSend, when set, sees every event before it is sent and may drop it by returning nil.
	BeforeSend func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event
}

// Reporter sends pipeline failures to Sentry.
type Reporter struct {
	hub *sentry.Hub // nil when disabled
}

// New creates a Reporter from opts.
func New(opts Options) (*Reporter, error) {
	if opts.DSN == "" {
		return &Reporter{}, nil
	}

	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:              opts.DSN,
		Environment:      opts.Environment,
		Release:          opts.Release,
		AttachStacktrace: true,
		BeforeSend:       opts.BeforeSend,
	})
	if err != nil {
		return nil, fmt.Errorf("init sentry: %w", err)
	}

	return &Reporter{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

// FromConfig creates a Reporter from the sentry section of cfg. A bad DSN is
// logged and reporting stays off.
func FromConfig(cfg *config.Config, release string) *Reporter {
	logger := config.GetLogger()
	r, err := New(Options{
		DSN:         cfg.Sentry.DSN,
		Environment: cfg.Sentry.Environment,
		Release:     release,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Failure reporting disabled")
		return &Reporter{}
	}
	if r.Enabled() {
		logger.Info().Str("environment", cfg.Sentry.Environment).Msg("Failure reporting enabled")
	}
	return r
}

// Enabled reports whether events are sent anywhere.
func (r *Reporter) Enabled() bool {
	return r != nil && r.hub != nil
}

// ReportFailure captures err raised by pipeline. Unknown shows and
// cancelled requests are user-driven and not reported.
func (r *Reporter) ReportFailure(pipeline string, err error) {
	if !r.Enabled() || err == nil {
		return
	}
	kind := apperrors.KindOf(err)
	if kind == apperrors.KindNotFound || errors.Is(err, context.Canceled) {
		return
	}

	r.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("pipeline", pipeline)
		scope.SetTag("kind", string(kind))
		r.hub.CaptureException(err)
	})
}

// Flush waits up to timeout for queued events to be delivered.
func (r *Reporter) Flush(timeout time.Duration) bool {
	if !r.Enabled() {
		return true
	}
	return r.hub.Flush(timeout)
}
