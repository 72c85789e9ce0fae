package scoring

import "errors"

// ErrInvalidProjectData marks a project or rubric rejected by strict validation.
var ErrInvalidProjectData = errors.New("invalid project data")
