// Package services contains server-side business logic: accounts and
// password reset, chat sessions and messages, document uploads.
package services

import "github.com/themisai/themis/internal/common"

// Error is a failure meant for the API caller. Kind is one of the common
// sentinels and selects the HTTP status; Detail is returned verbatim.
type Error struct {
	Kind   error
	Detail string
}

func (e *Error) Error() string { return e.Detail }

func (e *Error) Unwrap() error { return e.Kind }

var (
	ErrEmailTaken        = &Error{Kind: common.ErrorValidation, Detail: "Email already registered"}
	ErrBadCredentials    = &Error{Kind: common.ErrorUnauthorized, Detail: "Invalid email or password"}
	ErrInvalidResetToken = &Error{Kind: common.ErrorValidation, Detail: "Invalid or expired token"}
	ErrSessionNotFound   = &Error{Kind: common.ErrorNotFound, Detail: "session not found"}
	ErrNoFiles           = &Error{Kind: common.ErrorValidation, Detail: "no files uploaded"}
	ErrResponderFailed   = &Error{Kind: common.ErrorInternal, Detail: "Failed to generate an answer"}
)

func validation(detail string) *Error {
	return &Error{Kind: common.ErrorValidation, Detail: detail}
}
