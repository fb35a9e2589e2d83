package push

import (
	"context"
	"fmt"

	"github.com/iudanet/offlinesync/internal/models"
)

//go:generate moq -out handler_mock.go . Handler
//go:generate moq -out table_client_mock.go . TableClient

// Handler executes queued operations against the remote service.
type Handler interface {
	// ExecuteTableOperation sends op and returns the server version of the item.
	// A nil item means the server returned nothing to store.
	ExecuteTableOperation(ctx context.Context, op *models.Operation) (models.Item, error)

	// OnPushComplete is called once per push with the aggregated result,
	// before the push returns. Errors resolved here must be marked Handled.
	OnPushComplete(ctx context.Context, result *models.PushCompletionResult) error
}

// TableClient is the part of the remote client the default handler uses
type TableClient interface {
	Insert(ctx context.Context, table string, item models.Item) (models.Item, error)
	Update(ctx context.Context, table string, item models.Item) (models.Item, error)
	Delete(ctx context.Context, table string, item models.Item) error
}

// DefaultHandler maps operation kinds onto table requests.
type DefaultHandler struct {
	client TableClient
}

// NewDefaultHandler creates the handler used when none is configured
func NewDefaultHandler(client TableClient) *DefaultHandler {
	return &DefaultHandler{client: client}
}

// ExecuteTableOperation implements Handler
func (h *DefaultHandler) ExecuteTableOperation(ctx context.Context, op *models.Operation) (models.Item, error) {
	switch op.Kind {
	case models.OperationInsert:
		return h.client.Insert(ctx, op.TableName, op.Item)
	case models.OperationUpdate:
		return h.client.Update(ctx, op.TableName, op.Item)
	case models.OperationDelete:
		item := op.Item
		if item == nil {
			item = models.Item{"id": op.ItemID}
		}
		return nil, h.client.Delete(ctx, op.TableName, item)
	default:
		return nil, fmt.Errorf("%w: unknown operation kind %q", models.ErrInvalidOperation, op.Kind)
	}
}

// OnPushComplete implements Handler; the default handler resolves nothing
func (h *DefaultHandler) OnPushComplete(ctx context.Context, result *models.PushCompletionResult) error {
	return nil
}
