// Package errs carries the error taxonomy shared by every component:
// a small code-error type plus the sentinel values callers match with
// errors.Is. Terminal codes (NotFound/Forbidden/InvalidArgument/
// CapacityExceeded/Auth) are surfaced to the caller as-is and never
// retried; Transient marks storage or timeout failures that the caller
// may retry as a whole operation.
package errs

import (
	"errors"
	"strconv"
	"strings"
)

const (
	CodeNotFound         = 10404
	CodeForbidden        = 10403
	CodeInvalidArgument  = 10400
	CodeCapacityExceeded = 10409
	CodeAuth             = 10401
	CodeTransient        = 10503
	CodeInternal         = 10500
)

var (
	ErrNotFound         = NewCodeError(CodeNotFound, "record not found")
	ErrForbidden        = NewCodeError(CodeForbidden, "operation not allowed")
	ErrInvalidArgument  = NewCodeError(CodeInvalidArgument, "invalid argument")
	ErrCapacityExceeded = NewCodeError(CodeCapacityExceeded, "capacity exceeded")
	ErrAuth             = NewCodeError(CodeAuth, "authentication failed")
	ErrTransient        = NewCodeError(CodeTransient, "transient failure")
	ErrInternal         = NewCodeError(CodeInternal, "internal error")
)

type CodeError struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Detail string `json:"detail,omitempty"`
}

func NewCodeError(code int, msg string) *CodeError {
	return &CodeError{Code: code, Msg: msg}
}

func (e *CodeError) Error() string {
	v := make([]string, 0, 3)
	v = append(v, strconv.Itoa(e.Code), e.Msg)
	if e.Detail != "" {
		v = append(v, e.Detail)
	}
	return strings.Join(v, " ")
}

// WithDetail returns a copy carrying extra context. The copy still
// matches the original sentinel via errors.Is.
func (e *CodeError) WithDetail(detail string) *CodeError {
	d := detail
	if e.Detail != "" {
		d = e.Detail + ", " + detail
	}
	return &CodeError{Code: e.Code, Msg: e.Msg, Detail: d}
}

// WrapMsg attaches a detail message plus the underlying cause. The
// result matches the sentinel through errors.Is and exposes the cause
// through errors.Unwrap.
func (e *CodeError) WrapMsg(msg string, cause error) error {
	ce := e.WithDetail(msg)
	if cause == nil {
		return ce
	}
	return &wrapped{ce: ce, cause: cause}
}

func (e *CodeError) Is(target error) bool {
	var ce *CodeError
	if !errors.As(target, &ce) {
		return false
	}
	return e.Code == ce.Code
}

type wrapped struct {
	ce    *CodeError
	cause error
}

func (w *wrapped) Error() string   { return w.ce.Error() + ": " + w.cause.Error() }
func (w *wrapped) Unwrap() []error { return []error{w.ce, w.cause} }

// Code extracts the taxonomy code from err, or CodeInternal when err
// carries none.
func Code(err error) int {
	var ce *CodeError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return CodeInternal
}
