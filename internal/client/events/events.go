package events

import (
	"github.com/iudanet/offlinesync/internal/models"
)

// Event is anything published on the bus.
type Event interface {
	Name() string
}

// Имена событий
const (
	NameStoreOperationCompleted = "store_operation_completed"
	NameStoreBatchCompleted     = "store_batch_completed"
	NamePushCompleted           = "push_completed"
	NamePullCompleted           = "pull_completed"
	NamePurgeCompleted          = "purge_completed"
)

// StoreOperationKind тип изменения записи в локальном хранилище
type StoreOperationKind string

const (
	StoreInsert StoreOperationKind = "insert"
	StoreUpdate StoreOperationKind = "update"
	StoreDelete StoreOperationKind = "delete"
)

// StoreOperation describes one record change observed by the change tracker.
type StoreOperation struct {
	TableName string
	RecordID  string
	BatchID   string
	Kind      StoreOperationKind
	Source    models.Source
	Sequence  int
}

// StoreOperationCompletedEvent is published after a tracked record change.
type StoreOperationCompletedEvent struct {
	Operation StoreOperation
}

func (StoreOperationCompletedEvent) Name() string { return NameStoreOperationCompleted }

// Batch summarises the record changes observed within one tracked scope.
type Batch struct {
	ByKind         map[StoreOperationKind]int
	ID             string
	TrackingID     string
	Source         models.Source
	OperationCount int
}

// StoreBatchCompletedEvent is published when a tracked scope closes.
type StoreBatchCompletedEvent struct {
	Batch Batch
}

func (StoreBatchCompletedEvent) Name() string { return NameStoreBatchCompleted }

// PushCompletedEvent is published after every push, successful or not.
type PushCompletedEvent struct {
	Result *models.PushCompletionResult
}

func (PushCompletedEvent) Name() string { return NamePushCompleted }

// PullCompletedEvent is published after every pull attempt.
type PullCompletedEvent struct {
	Err       error
	TableName string
	QueryID   string
	Pulled    int
}

func (PullCompletedEvent) Name() string { return NamePullCompleted }

// PurgeCompletedEvent is published after a purge.
type PurgeCompletedEvent struct {
	TableName string
	QueryID   string
}

func (PurgeCompletedEvent) Name() string { return NamePurgeCompleted }
