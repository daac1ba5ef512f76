package scheduling

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// Recorder receives core outcomes. *metrics.SchedulingMetrics implements it.
type Recorder interface {
	ObserveSlotComputation(outcome string, seconds float64, slots int)
	ObserveBooking(outcome string)
	ObserveGuardRejection()
}

type nopRecorder struct{}

func (nopRecorder) ObserveSlotComputation(string, float64, int) {}
func (nopRecorder) ObserveBooking(string)                       {}
func (nopRecorder) ObserveGuardRejection()                      {}

type options struct {
	logger           *slog.Logger
	recorder         Recorder
	autoVisitHistory bool
	normalizePhone   func(string) (string, error)
	now              func() time.Time
}

type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(o *options) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithAutoVisitHistory makes every booking also create an empty visit-history row.
func WithAutoVisitHistory(on bool) Option {
	return func(o *options) { o.autoVisitHistory = on }
}

// WithPhoneNormalizer sets the function that canonicalizes client phone numbers
// before lookup. The default trims surrounding whitespace.
func WithPhoneNormalizer(fn func(string) (string, error)) Option {
	return func(o *options) {
		if fn != nil {
			o.normalizePhone = fn
		}
	}
}

// WithNow sets the clock that decides which dates are upcoming. Pass a
// function returning time in the business location.
func WithNow(fn func() time.Time) Option {
	return func(o *options) {
		if fn != nil {
			o.now = fn
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		recorder: nopRecorder{},
		normalizePhone: func(s string) (string, error) {
			return strings.TrimSpace(s), nil
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// outcome is the metrics label for a classified error.
func outcome(err error) string {
	switch err.(type) {
	case nil:
		return "ok"
	case *ValidationError:
		return "invalid"
	case *NotFoundError:
		return "not_found"
	case *ConflictError:
		return "conflict"
	default:
		return "error"
	}
}
