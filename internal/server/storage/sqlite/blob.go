package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/orgsync/internal/models"
	"github.com/iudanet/orgsync/internal/server/storage"
)

// GetBlob retrieves the current snapshot blob for a user
func (s *Storage) GetBlob(ctx context.Context, userID string) (*models.Blob, error) {
	query := `
		SELECT user_id, payload, revision, sequence, updated_at
		FROM blobs
		WHERE user_id = ?
	`

	blob := &models.Blob{}

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&blob.UserID,
		&blob.Payload,
		&blob.Revision,
		&blob.Sequence,
		&blob.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to get blob: %w", err)
	}

	return blob, nil
}

// PutBlob creates or replaces the snapshot blob for blob.UserID.
// Проверка ревизии выполняется на уровне handler: storage хранит
// последнюю принятую версию без собственной conditional логики.
func (s *Storage) PutBlob(ctx context.Context, blob *models.Blob) error {
	query := `
		INSERT INTO blobs (user_id, payload, revision, sequence, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			payload = excluded.payload,
			revision = excluded.revision,
			sequence = excluded.sequence,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		blob.UserID,
		blob.Payload,
		blob.Revision,
		blob.Sequence,
		blob.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to put blob: %w", err)
	}

	return nil
}

// DeleteBlob removes the snapshot blob for a user
func (s *Storage) DeleteBlob(ctx context.Context, userID string) error {
	query := `DELETE FROM blobs WHERE user_id = ?`

	result, err := s.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to delete blob: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrBlobNotFound
	}

	return nil
}
