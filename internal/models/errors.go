package models

import "errors"

// Error kinds shared by the entity, the stores and the commands.
// Wrap them with fmt.Errorf("...: %w", ErrX) and test with errors.Is.
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrAlreadyStopped = errors.New("task already stopped")
	ErrEmptyStore     = errors.New("no recorded tasks")
	ErrCorruptStore   = errors.New("corrupt store")
	ErrIO             = errors.New("storage i/o failure")
)
