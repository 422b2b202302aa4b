package aspic

import (
	"errors"
	"fmt"

	"github.com/samber/oops"
)

// Sentinel errors for the kinds spec.md §7 requires callers be able to
// detect with errors.Is, wrapping a structured oops.OopsError so
// logging sites still get a code, a domain tag, and context fields.
var (
	// ErrParse is returned when rule or formula text doesn't match the
	// grammar in spec.md §6.
	ErrParse = errors.New("aspic: parse error")

	// ErrNotWellFormed is returned by (*ArgumentationTheory).Evaluate
	// when the theory violates either Prakken 2010 well-formedness
	// principle (spec.md §4.4.1). No arguments are constructed.
	ErrNotWellFormed = errors.New("aspic: theory is not well-formed")

	// ErrExtensionServiceUnavailable is returned when the external
	// extension-enumeration service cannot be reached at all (not when
	// it simply omits the requested semantics — that case falls back
	// to "grounded" per spec.md §7).
	ErrExtensionServiceUnavailable = errors.New("aspic: extension service unavailable")
)

const domainTag = "aspic"

func newParseError(kind, text, reason string) error {
	return oops.
		Code("PARSE_ERROR").
		Domain(domainTag).
		With("kind", kind).
		With("text", text).
		With("reason", reason).
		Wrap(ErrParse)
}

func newNotWellFormedError(reason string) error {
	return oops.
		Code("NOT_WELL_FORMED").
		Domain(domainTag).
		With("reason", reason).
		Wrap(ErrNotWellFormed)
}

func newExtensionServiceError(cause error, url string) error {
	wrapped := oops.
		Code("EXTENSION_SERVICE_UNAVAILABLE").
		Domain(domainTag).
		With("url", url).
		Wrap(cause)
	return fmt.Errorf("%w: %w", ErrExtensionServiceUnavailable, wrapped)
}
