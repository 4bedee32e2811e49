package dowser

import (
	"errors"
	"fmt"
)

// Kind is a stable identifier for a class of engine error. Kinds survive
// wrapping; test suites should match on them rather than on message text.
type Kind string

const (
	// KindCycle means the planner detected a cyclic prerequisite graph.
	KindCycle Kind = "cycle"

	// KindMissingOutKey means Get was called with a key no outward rule
	// produces.
	KindMissingOutKey Kind = "missingOutKey"

	// KindBadGetArgument means Get received an argument that is neither a
	// string, an LHS, nor a document element.
	KindBadGetArgument Kind = "badGetArgument"

	// KindConserveScoreWithoutType means an RHS requested score
	// conservation but its LHS guarantees no type to conserve from.
	KindConserveScoreWithoutType Kind = "conserveScoreWithoutType"

	// KindScoreWithoutInferableType means an RHS supplied a score with
	// neither an explicit nor an inferable type to attach it to.
	KindScoreWithoutInferableType Kind = "scoreWithoutInferableType"

	// KindNoteWithoutInferableType means an RHS supplied a note with no
	// inferable type to attach it to.
	KindNoteWithoutInferableType Kind = "noteWithoutInferableType"

	// KindUnderspecifiedEmission means rule construction could not
	// determine what type the RHS may emit.
	KindUnderspecifiedEmission Kind = "underspecifiedEmission"

	// KindDomRuleMustAssignType means a Dom LHS was paired with an RHS
	// that emits no type.
	KindDomRuleMustAssignType Kind = "domRuleMustAssignType"

	// KindNoteOverwrite means a note already set for a (fnode, type) pair
	// was reassigned to another non-nil value.
	KindNoteOverwrite Kind = "noteOverwrite"

	// KindUnsupportedAnd means And received an argument that is not a
	// plain type selector.
	KindUnsupportedAnd Kind = "unsupportedAnd"

	// KindDoubleExecution means an inward rule was about to run twice in
	// one bound ruleset. It indicates a planner bug, not a user error.
	KindDoubleExecution Kind = "doubleExecution"
)

// Error is an engine error carrying a stable Kind.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds an Error of the given kind with a formatted message.
func NewError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// WrapError builds an Error of the given kind around an underlying cause.
func WrapError(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the Kind carried by err, unwrapping as needed, or "" when
// err is not an engine error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
