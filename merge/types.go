// SPDX-License-Identifier: MIT

package merge

import (
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Sentinel errors for composition.
var (
	// ErrPushRequired is returned when no push mode was chosen.
	ErrPushRequired = errors.New("merge: push mode required")

	// ErrDomain is returned when an input network is not in the log domain.
	ErrDomain = errors.New("merge: networks must be log domain")

	// ErrPending is returned when an input network still holds pending nodes.
	ErrPending = errors.New("merge: network has pending nodes")

	// ErrLexiconShape is returned when the lexicon has backoff edges or is
	// not a tree on its internal contexts.
	ErrLexiconShape = errors.New("merge: lexicon is not a pronunciation tree")

	// ErrWordShape is returned when a literal word transition emits nothing.
	ErrWordShape = errors.New("merge: word transition without output")

	// ErrAlphabetMismatch is returned when the lexicon's output table and
	// the word network's input table share no token.
	ErrAlphabetMismatch = errors.New("merge: alphabets do not line up")

	// ErrMismatch is returned by Verify when composed scores disagree with
	// the inputs.
	ErrMismatch = errors.New("merge: composed scores do not match")
)

// DefaultTolerance is the relative tolerance of the verification pass.
const DefaultTolerance = 1e-5

const meterName = "github.com/katalvlaran/lexnet/merge"

// Option configures Merge and Verify.
type Option func(*Options)

// Options holds the composition settings.
type Options struct {
	// Tolerance scales with max(1, |expected|) in Verify.
	Tolerance float64

	// Verify runs Verify on the result before returning it.
	Verify bool

	// MeterProvider receives the composition counters.
	MeterProvider metric.MeterProvider

	err error
}

// DefaultOptions verifies with DefaultTolerance and reports to the global
// otel MeterProvider.
func DefaultOptions() Options {
	return Options{
		Tolerance:     DefaultTolerance,
		Verify:        true,
		MeterProvider: otel.GetMeterProvider(),
	}
}

// WithTolerance sets the verification tolerance. The bound is relative: a
// word passes when |got - want| <= tol · max(1, |want|), so for scores of
// magnitude at most 1 it is the absolute tolerance tol. Negative or NaN
// values are recorded and reported when Merge runs.
func WithTolerance(tol float64) Option {
	return func(o *Options) {
		if tol < 0 || tol != tol {
			o.err = fmt.Errorf("merge: invalid tolerance %v", tol)
			return
		}
		o.Tolerance = tol
	}
}

// WithoutVerification skips the verification pass.
func WithoutVerification() Option {
	return func(o *Options) { o.Verify = false }
}

// WithMeterProvider reports the composition counters to mp.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *Options) {
		if mp != nil {
			o.MeterProvider = mp
		}
	}
}

func buildOptions(opts []Option) (Options, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o, o.err
}
