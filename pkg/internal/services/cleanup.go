package services

import (
	"time"

	"github.com/adtechademy/wall/pkg/internal/database"
	"github.com/adtechademy/wall/pkg/internal/models"
	"github.com/rs/zerolog/log"
)

// DoAutoDatabaseCleanup hard-deletes testimonials that were soft-deleted
// more than thirty days ago.
func DoAutoDatabaseCleanup() {
	deadline := time.Now().Add(-30 * 24 * time.Hour)
	log.Debug().Time("deadline", deadline).Msg("Now cleaning up entire database...")

	res := database.C.Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at <= ?", deadline).
		Delete(&models.Testimonial{})
	if res.Error != nil {
		log.Error().Err(res.Error).Msg("An error occurred when running auto cleanup...")
		return
	}

	log.Debug().Int64("affected", res.RowsAffected).Msg("Clean up entire database accomplished.")
}
