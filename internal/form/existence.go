package form

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Existence is the outcome of asking the API whether an identifier is taken.
type Existence int

const (
	// Unchecked means no check has run for the current identifier.
	Unchecked Existence = iota
	Available
	Exists
	// CheckFailed means the API could not answer.
	CheckFailed
)

func (e Existence) String() string {
	switch e {
	case Unchecked:
		return "unchecked"
	case Available:
		return "available"
	case Exists:
		return "exists"
	case CheckFailed:
		return "check-failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(e))
	}
}

// ExistencePolicy decides what a failed check means.
type ExistencePolicy int

const (
	// FailOpen treats a failed check as available; the server still rejects
	// duplicates on create.
	FailOpen ExistencePolicy = iota
	// FailClosed blocks submission until the identifier can be verified.
	FailClosed
)

func (p ExistencePolicy) String() string {
	if p == FailClosed {
		return "closed"
	}
	return "open"
}

// ParseExistencePolicy parses "open" or "closed".
func ParseExistencePolicy(s string) (ExistencePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "open":
		return FailOpen, nil
	case "closed":
		return FailClosed, nil
	default:
		return FailOpen, fmt.Errorf("unknown existence policy %q", s)
	}
}

// Verifier answers whether an identifier is already in use.
type Verifier interface {
	VerifyProduct(ctx context.Context, id string) (bool, error)
}

// ExistenceChecker runs identifier checks against a Verifier.
type ExistenceChecker struct {
	verifier Verifier
	policy   ExistencePolicy
	logger   *slog.Logger
}

// NewExistenceChecker creates an ExistenceChecker.
func NewExistenceChecker(v Verifier, policy ExistencePolicy, logger *slog.Logger) *ExistenceChecker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ExistenceChecker{verifier: v, policy: policy, logger: logger}
}

// Policy returns the configured policy.
func (e *ExistenceChecker) Policy() ExistencePolicy {
	return e.policy
}

// Check asks whether id exists. Transport or server failures yield CheckFailed.
func (e *ExistenceChecker) Check(ctx context.Context, id string) Existence {
	exists, err := e.verifier.VerifyProduct(ctx, id)
	if err != nil {
		e.logger.Warn("product id verification failed", "id", id, "policy", e.policy.String(), "error", err)
		return CheckFailed
	}
	if exists {
		return Exists
	}
	return Available
}

// Blocks reports whether result must stop a submission under the policy.
func (e *ExistenceChecker) Blocks(result Existence) bool {
	switch result {
	case Exists:
		return true
	case CheckFailed:
		return e.policy == FailClosed
	default:
		return false
	}
}
