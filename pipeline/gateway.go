package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/danisikibeye/diploma_registry/models"
)

// ErrRecordNotFound is returned by Gateway implementations when a lookup
// matches nothing. A miss is a terminal outcome, not a fault.
var ErrRecordNotFound = errors.New("record not found")

// BlobRef identifies a stored document: the storage key plus the public
// delivery URL kept on the record.
type BlobRef struct {
	PublicID string
	URL      string
}

// Gateway is the record and blob store the pipeline runs against. The
// production implementation sits in the storage package (GORM + Cloudinary);
// tests substitute an in-memory fake. The gateway knows nothing about
// diploma lifecycle rules; those live here.
type Gateway interface {
	CreateDiploma(ctx context.Context, d *models.Diploma) error
	DiplomaByID(ctx context.Context, id uuid.UUID) (*models.Diploma, error)
	DiplomaByToken(ctx context.Context, token string) (*models.Diploma, error)
	SetAuthenticated(ctx context.Context, id uuid.UUID, ref BlobRef) error
	SignerByID(ctx context.Context, id uuid.UUID) (*models.Signer, error)

	UploadBlob(ctx context.Context, path string, data []byte, overwrite bool) (BlobRef, error)
	FetchBlob(ctx context.Context, ref BlobRef) ([]byte, error)
	SignedURL(ctx context.Context, ref BlobRef, ttl time.Duration) (string, error)
}
