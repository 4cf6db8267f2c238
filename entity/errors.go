package entity

import "errors"

var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrConflict          = errors.New("conflict")
	ErrRemoteUnavailable = errors.New("remote service unavailable")
	ErrProtocol          = errors.New("unexpected response from remote service")
	ErrInternal          = errors.New("internal error")
	ErrNotFound          = errors.New("not found")
)
