package types

import "errors"

var ErrNotFound = errors.New("requested item not found")
var ErrConflict = errors.New("item already exists or conflict")
var ErrUnauthenticated = errors.New("authentication required or invalid credentials")
var ErrInvalidInput = errors.New("invalid input")

// ErrAssistantUnavailable is returned when the language model could not produce a reply.
var ErrAssistantUnavailable = errors.New("assistant unavailable")
