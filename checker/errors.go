package checker

import "github.com/pkg/errors"

// Every error in this taxonomy is fatal: the checker has no partial
// recovery path, matching the original's err_printf-then-exit(1)
// behavior. Each constructor records enough context (clause/node id,
// source file, line) to reproduce the original's file/line/function
// diagnostics in this domain's actual coordinates.

type ParseError struct {
	File string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return errors.Errorf("%s:%d: parse error: %s", e.File, e.Line, e.Msg).Error()
}

type DuplicateClauseIDError struct{ CID int32 }

func (e *DuplicateClauseIDError) Error() string {
	return errors.Errorf("clause %d: duplicate clause id", e.CID).Error()
}

type UnknownClauseIDError struct{ CID int32 }

func (e *UnknownClauseIDError) Error() string {
	return errors.Errorf("clause %d: unknown clause id", e.CID).Error()
}

type AlreadyDeletedError struct{ CID int32 }

func (e *AlreadyDeletedError) Error() string {
	return errors.Errorf("clause %d: already deleted", e.CID).Error()
}

type VariableRangeError struct {
	Lit   int32
	Limit int32
}

func (e *VariableRangeError) Error() string {
	return errors.Errorf("literal %d exceeds variable limit %d", e.Lit, e.Limit).Error()
}

type DependencyViolationError struct {
	NodeID int32
	Detail string
}

func (e *DependencyViolationError) Error() string {
	return errors.Errorf("node %d: dependency violation: %s", e.NodeID, e.Detail).Error()
}

type NonPropagatingHintError struct {
	TargetCID int32
	HintCID   int32
}

func (e *NonPropagatingHintError) Error() string {
	return errors.Errorf("clause %d: hint clause %d did not cause unit propagation", e.TargetCID, e.HintCID).Error()
}

type ConflictBeforeTerminationError struct{ TargetCID int32 }

func (e *ConflictBeforeTerminationError) Error() string {
	return errors.Errorf("clause %d: conflict reached before end of hint list", e.TargetCID).Error()
}

type IncompatibleHintTypeError struct {
	TargetCID int32
	HintCID   int32
}

func (e *IncompatibleHintTypeError) Error() string {
	return errors.Errorf("clause %d: hint clause %d has an incompatible type for this target", e.TargetCID, e.HintCID).Error()
}

type RupFailureError struct {
	TargetCID int32
	Cause     error
}

func (e *RupFailureError) Error() string {
	return errors.Wrapf(e.Cause, "RUP failure for clause %d", e.TargetCID).Error()
}

func (e *RupFailureError) Unwrap() error { return e.Cause }

type MutexFailureError struct{ NodeID int32 }

func (e *MutexFailureError) Error() string {
	return errors.Errorf("node %d: mutual-exclusion proof failed", e.NodeID).Error()
}

type ImplicitDeletionError struct {
	CID   int32
	Cause error
}

func (e *ImplicitDeletionError) Error() string {
	return errors.Wrapf(e.Cause, "implicit deletion failed for clause %d", e.CID).Error()
}

func (e *ImplicitDeletionError) Unwrap() error { return e.Cause }

type IntegrityError struct{ Msg string }

func (e *IntegrityError) Error() string {
	return errors.Errorf("integrity error: %s", e.Msg).Error()
}
