package remote

import (
	"fmt"
	"net/http"
)

// RejectedError represents a non-successful response from the remote.
type RejectedError struct {
	Status int
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("remote rejected mutation with status %d %s", e.Status, http.StatusText(e.Status))
}
