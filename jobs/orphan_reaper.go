package jobs

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/danisikibeye/diploma_registry/database"
	"github.com/danisikibeye/diploma_registry/models"
)

// Blobs younger than this are never touched; an issue call may still be
// between its upload and its record write.
const orphanRetention = 24 * time.Hour

const blobPrefix = "diplomes/"

// ReapOrphanBlobs deletes stored documents that no diploma record points
// at. Issue uploads before it writes the record, so a failed record write
// leaves a blob behind; this job is the cleanup side of that contract.
func ReapOrphanBlobs(cld *cloudinary.Cloudinary) {
	log.Println("Running job: ReapOrphanBlobs...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var knownIDs []string
	err := database.DB.Model(&models.Diploma{}).
		Where("fichier_public_id <> ''").
		Pluck("fichier_public_id", &knownIDs).Error
	if err != nil {
		log.Printf("Error listing diploma blob references: %v", err)
		return
	}
	known := make(map[string]bool, len(knownIDs))
	for _, id := range knownIDs {
		known[id] = true
	}

	cutoff := time.Now().Add(-orphanRetention)
	reaped := 0
	cursor := ""
	for {
		res, err := cld.Admin.Assets(ctx, admin.AssetsParams{
			AssetType:  api.File,
			Prefix:     blobPrefix,
			MaxResults: 500,
			NextCursor: cursor,
		})
		if err != nil {
			log.Printf("Error listing stored documents: %v", err)
			return
		}

		for _, asset := range res.Assets {
			if !strings.HasPrefix(asset.PublicID, blobPrefix) || known[asset.PublicID] {
				continue
			}
			if asset.CreatedAt.After(cutoff) {
				continue
			}
			_, err := cld.Upload.Destroy(ctx, uploader.DestroyParams{
				PublicID:     asset.PublicID,
				ResourceType: "raw",
				Invalidate:   api.Bool(true),
			})
			if err != nil {
				log.Printf("Error deleting orphaned blob %s: %v", asset.PublicID, err)
				continue
			}
			reaped++
		}

		if res.NextCursor == "" {
			break
		}
		cursor = res.NextCursor
	}

	if reaped > 0 {
		log.Printf("Reaped %d orphaned blob(s).", reaped)
	}
}
