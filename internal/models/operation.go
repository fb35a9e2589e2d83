package models

import (
	"errors"
	"fmt"
	"time"
)

// OperationKind тип локальной мутации
type OperationKind string

const (
	OperationInsert OperationKind = "insert"
	OperationUpdate OperationKind = "update"
	OperationDelete OperationKind = "delete"
)

// OperationState состояние операции в очереди
type OperationState string

const (
	StatePending   OperationState = "pending"
	StateExecuting OperationState = "executing"
	// StateCompleted is never persisted: completed operations leave the queue.
	StateCompleted OperationState = "completed"
)

// TableKind distinguishes data tables from internal system tables.
type TableKind string

const (
	TableKindData   TableKind = "table"
	TableKindSystem TableKind = "system"
)

// Collapse errors. All of them wrap ErrInvalidOperation.
var (
	ErrInvalidOperation    = errors.New("invalid operation")
	ErrDuplicateInsert     = fmt.Errorf("%w: an insert operation on the item is already in the queue", ErrInvalidOperation)
	ErrItemAlreadyTracked  = fmt.Errorf("%w: an update operation on the item is already in the queue, the item cannot be inserted", ErrInvalidOperation)
	ErrItemPendingDeletion = fmt.Errorf("%w: a delete operation on the item is already in the queue", ErrInvalidOperation)
	ErrDuplicateDelete     = fmt.Errorf("%w: the item is already pending deletion", ErrInvalidOperation)
)

// Operation представляет ожидающую синхронизации мутацию одной записи.
type Operation struct {
	CreatedAt time.Time      `json:"createdAt"`
	Item      Item           `json:"item,omitempty"`
	ID        string         `json:"id"`
	TableName string         `json:"tableName"`
	TableKind TableKind      `json:"tableKind"`
	ItemID    string         `json:"itemId"`
	Kind      OperationKind  `json:"kind"`
	State     OperationState `json:"state"`
	Version   int64          `json:"version"` // растет при каждом collapse
	Sequence  int64          `json:"sequence"` // позиция в FIFO порядке
}

// CollapseResult describes what happened to an existing operation
// when a newer mutation on the same item arrived.
type CollapseResult int

const (
	// Collapsed means the existing operation was updated in place.
	Collapsed CollapseResult = iota
	// Cancelled means the two mutations cancel out and the operation must be removed.
	Cancelled
)

// Validate checks whether a new mutation of kind next may follow this operation.
func (o *Operation) Validate(next OperationKind) error {
	switch o.Kind {
	case OperationInsert:
		if next == OperationInsert {
			return ErrDuplicateInsert
		}
	case OperationUpdate:
		if next == OperationInsert {
			return ErrItemAlreadyTracked
		}
	case OperationDelete:
		if next == OperationDelete {
			return ErrDuplicateDelete
		}
		return ErrItemPendingDeletion
	default:
		return fmt.Errorf("%w: unknown operation kind %q", ErrInvalidOperation, o.Kind)
	}
	return nil
}

// Collapse merges a newer mutation into the operation in place.
// The operation keeps its ID and Sequence.
//
//	insert + update -> insert (new item)
//	insert + delete -> cancelled
//	update + update -> update (new item)
//	update + delete -> delete
func (o *Operation) Collapse(next OperationKind, item Item) (CollapseResult, error) {
	if err := o.Validate(next); err != nil {
		return Collapsed, err
	}

	if o.Kind == OperationInsert && next == OperationDelete {
		return Cancelled, nil
	}

	if next == OperationDelete {
		o.Kind = OperationDelete
	}
	if item != nil {
		o.Item = item.Clone()
	}
	o.Version++

	return Collapsed, nil
}

// Clone returns a copy safe to hand out to callers
func (o *Operation) Clone() *Operation {
	if o == nil {
		return nil
	}
	c := *o
	c.Item = o.Item.Clone()
	return &c
}
