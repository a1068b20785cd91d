package domain

import "strings"

// ValidationError is a single structured registration/password-policy failure.
type ValidationError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// ValidationErrors preserves the order in which rules failed.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	msgs := make([]string, 0, len(ve))
	for _, e := range ve {
		msgs = append(msgs, e.Description)
	}
	return strings.Join(msgs, "; ")
}

// Is makes errors.Is(err, ValidationErrors{}) match any validation failure,
// so the error handler can map the whole family to one status code.
func (ve ValidationErrors) Is(target error) bool {
	_, ok := target.(ValidationErrors)
	return ok
}
