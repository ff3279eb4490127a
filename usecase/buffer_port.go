package usecase

import (
	"context"

	"github.com/weaverapp/backend/domain"
)

// Operation names shared with the offline buffer.
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// OperationBuffer abstracts the offline write buffer so use cases stay
// storage-agnostic. Buffered writes are replayed once the primary store is
// reachable again.
type OperationBuffer interface {
	BufferProfile(ctx context.Context, operation string, user *domain.User) error
	BufferTask(ctx context.Context, operation string, task *domain.Task) error
	BufferPlan(ctx context.Context, operation string, plan *domain.Plan) error
}
