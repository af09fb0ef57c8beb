// SPDX-License-Identifier: MIT

// Package semiring holds the weight arithmetic shared by every network
// operation: the linear probability domain, the natural-log domain, and the
// two probability-pushing laws used by composition.
//
// In the log domain "times" is addition and "plus" is log-sum-exp; in the
// linear domain they are the ordinary operators.
package semiring

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownDomain is returned by ParseDomain for unrecognised names.
var ErrUnknownDomain = errors.New("semiring: unknown domain")

// ErrUnknownPush is returned by ParsePush for unrecognised names.
var ErrUnknownPush = errors.New("semiring: unknown push mode")

// Domain selects how weights are interpreted.
type Domain uint8

const (
	// Linear weights are raw counts or probabilities.
	Linear Domain = iota
	// Log weights are natural logarithms of probabilities.
	Log
)

// String returns the header spelling of d.
func (d Domain) String() string {
	switch d {
	case Linear:
		return "linear"
	case Log:
		return "log"
	}
	return fmt.Sprintf("domain(%d)", uint8(d))
}

// ParseDomain is the inverse of Domain.String.
func ParseDomain(s string) (Domain, error) {
	switch s {
	case "linear":
		return Linear, nil
	case "log":
		return Log, nil
	}
	return Linear, fmt.Errorf("%w: %q", ErrUnknownDomain, s)
}

// One is the multiplicative identity.
func (d Domain) One() float64 {
	if d == Log {
		return 0
	}
	return 1
}

// Zero is the additive identity (impossible event).
func (d Domain) Zero() float64 {
	if d == Log {
		return math.Inf(-1)
	}
	return 0
}

// IsZero reports whether w is the impossible weight.
func (d Domain) IsZero(w float64) bool {
	if d == Log {
		return math.IsInf(w, -1)
	}
	return w == 0
}

// Times combines weights along a path.
func (d Domain) Times(a, b float64) float64 {
	if d == Log {
		return a + b
	}
	return a * b
}

// Plus combines weights of alternative paths.
func (d Domain) Plus(a, b float64) float64 {
	if d == Log {
		return LogAdd(a, b)
	}
	return a + b
}

// Divide is the inverse of Times.
func (d Domain) Divide(a, b float64) float64 {
	if d == Log {
		return a - b
	}
	return a / b
}

// Better reports whether a is a more likely weight than b. Both domains are
// ordered the same way: larger is better.
func (d Domain) Better(a, b float64) bool { return a > b }

// LogAdd returns ln(e^a + e^b) without overflow.
func LogAdd(a, b float64) float64 {
	if a < b {
		a, b = b, a
	}
	if math.IsInf(b, -1) {
		return a
	}
	return a + math.Log1p(math.Exp(b-a))
}

// LogSum folds LogAdd over ws; the empty sum is -Inf.
func LogSum(ws ...float64) float64 {
	acc := math.Inf(-1)
	for _, w := range ws {
		acc = LogAdd(acc, w)
	}
	return acc
}

// Push selects how a subtree's potential is aggregated during composition.
// The zero value is deliberately invalid: callers must choose.
type Push uint8

const (
	// PushUnset is the zero value and is rejected by composition.
	PushUnset Push = iota
	// PushSum aggregates with log-add (sum semiring).
	PushSum
	// PushMax aggregates with max (tropical/Viterbi semiring).
	PushMax
)

// String returns the config spelling of p.
func (p Push) String() string {
	switch p {
	case PushSum:
		return "sum"
	case PushMax:
		return "max"
	case PushUnset:
		return "unset"
	}
	return fmt.Sprintf("push(%d)", uint8(p))
}

// ParsePush is the inverse of Push.String for the two valid modes.
func ParsePush(s string) (Push, error) {
	switch s {
	case "sum":
		return PushSum, nil
	case "max":
		return PushMax, nil
	}
	return PushUnset, fmt.Errorf("%w: %q", ErrUnknownPush, s)
}

// Valid reports whether p is PushSum or PushMax.
func (p Push) Valid() bool { return p == PushSum || p == PushMax }

// Combine aggregates two log-domain scores under p.
func (p Push) Combine(a, b float64) float64 {
	if p == PushMax {
		return math.Max(a, b)
	}
	return LogAdd(a, b)
}
