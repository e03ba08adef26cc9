package domain

import "errors"

var (
	ErrProviderUnavailable = errors.New("wallet provider unavailable")
	ErrNotTrusted          = errors.New("wallet has not trusted this app")
	ErrConnectionRejected  = errors.New("wallet connection rejected")
	ErrNotConnected        = errors.New("wallet not connected")
	ErrAccountNotFound     = errors.New("board account not found")
	ErrTrustNotFound       = errors.New("trust grant not found")
	ErrSecretNotFound      = errors.New("secret not found")
	ErrInvalidKeyMaterial  = errors.New("invalid key material")
	ErrInvalidLink         = errors.New("invalid link")
)
