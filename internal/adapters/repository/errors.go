package repository

import "errors"

// Sentinel kinds for scorecard store errors.
var (
	ErrNotFound       = errors.New("subject has no scorecards")
	ErrEmptySubjectID = errors.New("empty subject id")
)
