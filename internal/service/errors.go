package service

import "errors"

var (
	// ErrNotConfirmed is returned by destructive actions called without the
	// user's confirmation. No request is sent.
	ErrNotConfirmed = errors.New("action not confirmed")

	// ErrSelectionActive is returned when dragging while selection mode is on.
	ErrSelectionActive = errors.New("drag is disabled while selecting")

	// ErrTaskNotLoaded is returned when a task is missing from the cache.
	ErrTaskNotLoaded = errors.New("task is not loaded")

	// ErrStaleList is returned alongside a count when a delete went through
	// but the refetch after it failed.
	ErrStaleList = errors.New("task list not refreshed")
)
