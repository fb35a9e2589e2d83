package push

import (
	"fmt"

	"github.com/iudanet/offlinesync/internal/models"
)

// PushFailedError is returned when a push was aborted or left unhandled sync errors.
type PushFailedError struct {
	Result *models.PushCompletionResult
}

func (e *PushFailedError) Error() string {
	if e.Result.Status != models.PushComplete {
		return fmt.Sprintf("push failed: %s", e.Result.Status)
	}
	return fmt.Sprintf("push failed: %d operation(s) rejected by the server", len(e.Result.UnhandledErrors()))
}
