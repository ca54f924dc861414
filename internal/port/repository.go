package port

import (
	"context"

	"github.com/google/uuid"

	"pantrio/internal/domain"
)

// UserRepository defines the contract for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// FileMetaRepository defines the contract for file metadata persistence.
// Query methods include ownerID for ownership isolation.
type FileMetaRepository interface {
	Create(ctx context.Context, meta *domain.FileMeta) error
	GetByID(ctx context.Context, ownerID, fileID uuid.UUID) (*domain.FileMeta, error)
	UpdateStatus(ctx context.Context, ownerID, fileID uuid.UUID, status domain.FileStatus) error
	Delete(ctx context.Context, ownerID, fileID uuid.UUID) error
}
