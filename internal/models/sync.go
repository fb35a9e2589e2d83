package models

// SyncError описывает неудачную отправку операции на сервер.
// Хранится в системной таблице ошибок до разрешения конфликта
// или до удаления операции из очереди.
type SyncError struct {
	Item             Item          `json:"item,omitempty"`   // клиентская версия записи
	Result           Item          `json:"result,omitempty"` // серверная версия записи (конфликт)
	ID               string        `json:"id"`
	OperationID      string        `json:"operationId"`
	TableName        string        `json:"tableName"`
	ItemID           string        `json:"itemId"`
	OperationKind    OperationKind `json:"operationKind"`
	RawResult        string        `json:"rawResult,omitempty"`
	OperationVersion int64         `json:"operationVersion"`
	StatusCode       int           `json:"statusCode,omitempty"`
	Handled          bool          `json:"handled"`
}

// IsConflict reports whether the server rejected the operation because of
// a version mismatch (409 Conflict or 412 Precondition Failed).
func (e *SyncError) IsConflict() bool {
	return e.StatusCode == 409 || e.StatusCode == 412
}

// PushStatus итоговый статус push
type PushStatus string

const (
	PushComplete                       PushStatus = "complete"
	PushCancelledByNetworkError        PushStatus = "cancelled_by_network_error"
	PushCancelledByAuthenticationError PushStatus = "cancelled_by_authentication_error"
	PushCancelledByToken               PushStatus = "cancelled_by_token"
	PushInternalError                  PushStatus = "internal_error"
)

// PushCompletionResult aggregates the outcome of one push.
type PushCompletionResult struct {
	Status PushStatus
	Errors []*SyncError
}

// UnhandledErrors returns the errors not resolved by the push completion callback.
func (r *PushCompletionResult) UnhandledErrors() []*SyncError {
	var out []*SyncError
	for _, e := range r.Errors {
		if !e.Handled {
			out = append(out, e)
		}
	}
	return out
}
