// Package storage implements the pipeline's Gateway against the real
// backing services: Postgres via GORM for records and Cloudinary for the
// document blobs.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/danisikibeye/diploma_registry/models"
	"github.com/danisikibeye/diploma_registry/pipeline"
)

type Store struct {
	db     *gorm.DB
	cld    *cloudinary.Cloudinary
	client *http.Client
}

func New(db *gorm.DB, cloudinaryURL string) (*Store, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &Store{
		db:     db,
		cld:    cld,
		client: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// Cloudinary exposes the underlying client for maintenance jobs.
func (s *Store) Cloudinary() *cloudinary.Cloudinary { return s.cld }

func (s *Store) CreateDiploma(ctx context.Context, d *models.Diploma) error {
	return s.db.WithContext(ctx).Create(d).Error
}

func (s *Store) DiplomaByID(ctx context.Context, id uuid.UUID) (*models.Diploma, error) {
	var d models.Diploma
	err := s.db.WithContext(ctx).
		Preload("Student.Promotion.Department.Faculty").
		Preload("Signer").
		First(&d, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pipeline.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) DiplomaByToken(ctx context.Context, token string) (*models.Diploma, error) {
	var d models.Diploma
	err := s.db.WithContext(ctx).
		Preload("Student.Promotion.Department.Faculty").
		Preload("Signer").
		First(&d, "qr_code = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pipeline.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// SetAuthenticated flips the one-way authenticity flag and records the new
// blob reference in a single update.
func (s *Store) SetAuthenticated(ctx context.Context, id uuid.UUID, ref pipeline.BlobRef) error {
	res := s.db.WithContext(ctx).Model(&models.Diploma{}).Where("id = ?", id).Updates(map[string]interface{}{
		"est_authentique":   true,
		"fichier_url":       ref.URL,
		"fichier_public_id": ref.PublicID,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pipeline.ErrRecordNotFound
	}
	return nil
}

func (s *Store) SignerByID(ctx context.Context, id uuid.UUID) (*models.Signer, error) {
	var signer models.Signer
	err := s.db.WithContext(ctx).First(&signer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pipeline.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &signer, nil
}

func (s *Store) UploadBlob(ctx context.Context, path string, data []byte, overwrite bool) (pipeline.BlobRef, error) {
	params := uploader.UploadParams{
		PublicID:     path,
		ResourceType: "raw",
		Overwrite:    api.Bool(overwrite),
	}
	if overwrite {
		params.Invalidate = api.Bool(true)
	}
	result, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), params)
	if err != nil {
		return pipeline.BlobRef{}, fmt.Errorf("upload blob %s: %w", path, err)
	}
	return pipeline.BlobRef{PublicID: result.PublicID, URL: result.SecureURL}, nil
}

func (s *Store) FetchBlob(ctx context.Context, ref pipeline.BlobRef) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch blob %s: %w", ref.PublicID, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch blob %s: %w", ref.PublicID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch blob %s: status %d", ref.PublicID, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch blob %s: %w", ref.PublicID, err)
	}
	return data, nil
}

// SignedURL returns a signed delivery URL for the stored document.
// Cloudinary URL signatures do not themselves expire; ttl is accepted for
// the gateway contract and reserved for token-based delivery setups.
func (s *Store) SignedURL(_ context.Context, ref pipeline.BlobRef, _ time.Duration) (string, error) {
	asset, err := s.cld.File(ref.PublicID)
	if err != nil {
		return "", fmt.Errorf("signed url for %s: %w", ref.PublicID, err)
	}
	asset.DeliveryType = "upload"
	asset.Config.URL.SignURL = true
	url, err := asset.String()
	if err != nil {
		return "", fmt.Errorf("signed url for %s: %w", ref.PublicID, err)
	}
	return url, nil
}
