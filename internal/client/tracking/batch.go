package tracking

import (
	"sync"

	"github.com/iudanet/offlinesync/internal/client/events"
	"github.com/iudanet/offlinesync/internal/models"
)

// batch считает изменения внутри одной области отслеживания
type batch struct {
	byKind map[events.StoreOperationKind]int
	id     string
	count  int
	mu     sync.Mutex
}

func newBatch(id string) *batch {
	return &batch{
		id:     id,
		byKind: make(map[events.StoreOperationKind]int),
	}
}

// add records one operation and returns its position within the batch
func (b *batch) add(kind events.StoreOperationKind) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.count++
	b.byKind[kind]++
	return b.count
}

func (b *batch) snapshot(tc models.TrackingContext) events.Batch {
	b.mu.Lock()
	defer b.mu.Unlock()

	byKind := make(map[events.StoreOperationKind]int, len(b.byKind))
	for k, v := range b.byKind {
		byKind[k] = v
	}
	return events.Batch{
		ID:             b.id,
		TrackingID:     tc.TrackingID,
		Source:         tc.Source,
		OperationCount: b.count,
		ByKind:         byKind,
	}
}
