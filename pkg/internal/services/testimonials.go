package services

import (
	"context"
	"fmt"
	"time"

	localCache "github.com/adtechademy/wall/pkg/internal/cache"
	"github.com/adtechademy/wall/pkg/internal/database"
	"github.com/adtechademy/wall/pkg/internal/models"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

func FilterTestimonialApproved(tx *gorm.DB) *gorm.DB {
	return tx.Where("approved = ?", true)
}

func FilterTestimonialWithType(tx *gorm.DB, t string) *gorm.DB {
	return tx.Where("type = ?", t)
}

func GetTestimonial(tx *gorm.DB, id string) (models.Testimonial, error) {
	var item models.Testimonial
	if err := tx.Where("id = ?", id).First(&item).Error; err != nil {
		return item, err
	}

	return item, nil
}

func CountTestimonial(tx *gorm.DB) (int64, error) {
	var count int64
	if err := tx.Model(&models.Testimonial{}).Count(&count).Error; err != nil {
		return count, err
	}

	return count, nil
}

// CountPendingTestimonial backs the moderation panel badge.
func CountPendingTestimonial() (int64, error) {
	var count int64
	if err := database.C.Model(&models.Testimonial{}).
		Where("approved = ?", false).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// ListTestimonial returns records newest first, which is the only order the
// wall ever renders.
func ListTestimonial(tx *gorm.DB, take int, offset int) ([]models.Testimonial, error) {
	if take > 100 || take <= 0 {
		take = 100
	}

	var items []models.Testimonial
	if err := tx.
		Limit(take).Offset(offset).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return items, err
	}

	return items, nil
}

const publicTestimonialCacheKey = "public-testimonials"

// ListPublicTestimonial serves the unauthenticated wall via a local cache;
// every mutation drops the key so the next read hits the database again.
func ListPublicTestimonial() ([]models.Testimonial, error) {
	cacheManager := cache.New[any](localCache.S)
	marshal := marshaler.New(cacheManager)
	ctx := context.Background()

	if val, err := marshal.Get(ctx, publicTestimonialCacheKey, new([]models.Testimonial)); err == nil {
		return *val.(*[]models.Testimonial), nil
	}

	items, err := ListTestimonial(FilterTestimonialApproved(database.C), 100, 0)
	if err != nil {
		return items, err
	}

	ttl := time.Duration(viper.GetInt("performance.testimonial_cache_ttl")) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	_ = marshal.Set(ctx, publicTestimonialCacheKey, items, store.WithExpiration(ttl))

	return items, nil
}

func invalidatePublicTestimonialCache() {
	cacheManager := cache.New[any](localCache.S)
	marshal := marshaler.New(cacheManager)
	_ = marshal.Delete(context.Background(), publicTestimonialCacheKey)
}

// NewTestimonial persists a submission. Approval policy is unconditional:
// every record starts unapproved and unverified, moderators included; the
// moderation panel flips the flag in a separate call.
func NewTestimonial(item models.Testimonial) (models.Testimonial, error) {
	item.Approved = false
	item.Verified = false

	switch item.Type {
	case models.TestimonialTypeWritten:
		if item.Text == nil || len(*item.Text) == 0 {
			return item, fmt.Errorf("a written testimonial requires text")
		}
		item.Headline = nil
		item.ImageURL = nil
		item.LinkedinURL = nil
		if lang := DetectLanguage(*item.Text); lang != nil {
			item.Language = lang
		}
	case models.TestimonialTypeLinkedin:
		item.Text = nil
		item.Company = nil
		item.Role = nil
		item.AvatarURL = nil
	default:
		return item, fmt.Errorf("unknown testimonial type: %s", item.Type)
	}

	log.Debug().Str("name", item.Name).Str("type", item.Type).Msg("Saving testimonial record into database...")
	if err := database.C.Create(&item).Error; err != nil {
		return item, err
	}

	invalidatePublicTestimonialCache()
	EmitChange(ChangeOpInsert, item.ID)

	return item, nil
}

// DeleteTestimonial reports whether a row was actually removed. Deleting an
// id that is already gone is not an error.
func DeleteTestimonial(id string) (bool, error) {
	res := database.C.Where("id = ?", id).Delete(&models.Testimonial{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	invalidatePublicTestimonialCache()
	EmitChange(ChangeOpDelete, id)

	return true, nil
}

// SetTestimonialApproval updates only the approved column.
func SetTestimonialApproval(id string, approved bool) (bool, error) {
	res := database.C.Model(&models.Testimonial{}).
		Where("id = ?", id).
		Update("approved", approved)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	invalidatePublicTestimonialCache()
	EmitChange(ChangeOpUpdate, id)

	return true, nil
}
