package domain

import "errors"

var (
	ErrUnknownKey      = errors.New("storage key is not registered")
	ErrAlreadyResolved = errors.New("pending upload already resolved")
)
