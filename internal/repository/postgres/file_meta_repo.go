package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"pantrio/internal/domain"
	"pantrio/internal/port"
)

type fileMetaRepo struct {
	db *sqlx.DB
}

// NewFileMetaRepo creates a new PostgreSQL-backed FileMetaRepository.
func NewFileMetaRepo(db *sqlx.DB) port.FileMetaRepository {
	return &fileMetaRepo{db: db}
}

func (r *fileMetaRepo) Create(ctx context.Context, meta *domain.FileMeta) error {
	now := time.Now().UTC()
	meta.CreatedAt = now
	meta.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO file_meta (
			id, owner_id, file_name, original_name, file_type, file_size,
			s3_bucket, s3_key, content_type, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		meta.ID, meta.OwnerID, meta.FileName, meta.OriginalName, meta.FileType, meta.FileSize,
		meta.S3Bucket, meta.S3Key, meta.ContentType, meta.Status, meta.CreatedAt, meta.UpdatedAt)
	if err != nil {
		return fmt.Errorf("fileMetaRepo.Create: %w", err)
	}
	return nil
}

func (r *fileMetaRepo) GetByID(ctx context.Context, ownerID, fileID uuid.UUID) (*domain.FileMeta, error) {
	var meta domain.FileMeta
	err := r.db.GetContext(ctx, &meta,
		"SELECT * FROM file_meta WHERE id = $1 AND owner_id = $2", fileID, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFileNotFound
		}
		return nil, fmt.Errorf("fileMetaRepo.GetByID: %w", err)
	}
	return &meta, nil
}

func (r *fileMetaRepo) UpdateStatus(ctx context.Context, ownerID, fileID uuid.UUID, status domain.FileStatus) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE file_meta SET status = $1, updated_at = $2 WHERE id = $3 AND owner_id = $4",
		status, time.Now().UTC(), fileID, ownerID)
	if err != nil {
		return fmt.Errorf("fileMetaRepo.UpdateStatus: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("fileMetaRepo.UpdateStatus rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrFileNotFound
	}
	return nil
}

func (r *fileMetaRepo) Delete(ctx context.Context, ownerID, fileID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM file_meta WHERE id = $1 AND owner_id = $2", fileID, ownerID)
	if err != nil {
		return fmt.Errorf("fileMetaRepo.Delete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("fileMetaRepo.Delete rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrFileNotFound
	}
	return nil
}
