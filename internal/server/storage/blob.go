package storage

import (
	"context"

	"github.com/iudanet/orgsync/internal/models"
)

// BlobStorage defines interface for snapshot blob persistence.
// Каждый пользователь владеет ровно одним blob: PutBlob замещает
// предыдущую версию целиком вместе с маркером ревизии.
type BlobStorage interface {
	// GetBlob retrieves the current snapshot blob for a user
	// Returns ErrBlobNotFound if the user has never pushed
	GetBlob(ctx context.Context, userID string) (*models.Blob, error)

	// PutBlob creates or replaces the snapshot blob for blob.UserID
	PutBlob(ctx context.Context, blob *models.Blob) error

	// DeleteBlob removes the snapshot blob for a user
	// Returns ErrBlobNotFound if nothing is stored
	DeleteBlob(ctx context.Context, userID string) error
}
