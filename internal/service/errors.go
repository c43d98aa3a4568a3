package service

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidGeometry    = errors.New("invalid geometry")
	ErrInvalidGrid        = errors.New("invalid grid configuration")
	ErrOutsideTask        = errors.New("annotation outside task area")
	ErrTooManyAnnotations = errors.New("too many annotations for one task")
	ErrNoTasks            = errors.New("project has no tasks")
	ErrInvalidViewport    = errors.New("invalid viewport")
	ErrInvalidMode        = errors.New("invalid project mode")
)
