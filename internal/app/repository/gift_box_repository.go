package repository

import (
	"context"
	"errors"

	"github.com/ikkim/giftbox-backend/internal/app/model"
	"github.com/ikkim/giftbox-backend/pkg/logger"
	"gorm.io/gorm"
)

// GiftBoxStats aggregates request counts for the admin summary and the daily report
type GiftBoxStats struct {
	Total       int64 `json:"total"`
	Pending     int64 `json:"pending"`
	Shipped     int64 `json:"shipped"`
	Pickup      int64 `json:"pickup"`
	Mail        int64 `json:"mail"`
	PendingMail int64 `json:"pending_mail"`
	Standard    int64 `json:"standard"`
	Halal       int64 `json:"halal"`
}

type GiftBoxRepository interface {
	Create(ctx context.Context, box *model.GiftBox) error
	FindByID(ctx context.Context, id uint) (*model.GiftBox, error)
	FindByUserID(ctx context.Context, userID uint) (*model.GiftBox, error)
	FindAll(ctx context.Context) ([]model.GiftBox, error)
	MarkShipped(ctx context.Context, id uint, trackingNumber string) (bool, error)
	Stats(ctx context.Context) (*GiftBoxStats, error)
}

type giftBoxRepository struct {
	db *gorm.DB
}

func NewGiftBoxRepository(db *gorm.DB) GiftBoxRepository {
	return &giftBoxRepository{db: db}
}

func (r *giftBoxRepository) Create(ctx context.Context, box *model.GiftBox) error {
	logger.Debug("Creating gift box in database", map[string]interface{}{
		"user_id":       box.UserID,
		"box_type":      box.BoxType,
		"delivery_type": box.DeliveryType,
	})

	// Omit the association so inserting a request never touches users
	if err := r.db.WithContext(ctx).Omit("User").Create(box).Error; err != nil {
		return err
	}

	logger.Debug("Gift box created in database", map[string]interface{}{
		"gift_box_id": box.ID,
		"user_id":     box.UserID,
	})
	return nil
}

func (r *giftBoxRepository) FindByID(ctx context.Context, id uint) (*model.GiftBox, error) {
	var box model.GiftBox
	if err := r.db.WithContext(ctx).Preload("User").First(&box, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find gift box by ID in database", err, map[string]interface{}{
				"gift_box_id": id,
			})
		}
		return nil, err
	}
	return &box, nil
}

// FindByUserID returns gorm.ErrRecordNotFound when the user has not applied yet
func (r *giftBoxRepository) FindByUserID(ctx context.Context, userID uint) (*model.GiftBox, error) {
	var box model.GiftBox
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&box).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find gift box by user ID in database", err, map[string]interface{}{
				"user_id": userID,
			})
		}
		return nil, err
	}
	return &box, nil
}

// FindAll lists every request with its owner, newest first
func (r *giftBoxRepository) FindAll(ctx context.Context) ([]model.GiftBox, error) {
	var boxes []model.GiftBox
	if err := r.db.WithContext(ctx).Preload("User").
		Order("created_at DESC").
		Order("id DESC").
		Find(&boxes).Error; err != nil {
		logger.Error("Failed to list gift boxes in database", err)
		return nil, err
	}

	logger.Debug("Gift boxes listed from database", map[string]interface{}{
		"count": len(boxes),
	})
	return boxes, nil
}

// MarkShipped sets the tracking number and flips status in one statement.
// It only touches pending mail requests; false means nothing matched.
func (r *giftBoxRepository) MarkShipped(ctx context.Context, id uint, trackingNumber string) (bool, error) {
	logger.Debug("Marking gift box shipped in database", map[string]interface{}{
		"gift_box_id": id,
	})

	result := r.db.WithContext(ctx).Model(&model.GiftBox{}).
		Where("id = ? AND status = ? AND delivery_type = ?", id, model.GiftBoxStatusPending, model.DeliveryMail).
		Updates(map[string]interface{}{
			"tracking_number": trackingNumber,
			"status":          model.GiftBoxStatusShipped,
		})
	if result.Error != nil {
		logger.Error("Failed to mark gift box shipped in database", result.Error, map[string]interface{}{
			"gift_box_id": id,
		})
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *giftBoxRepository) Stats(ctx context.Context) (*GiftBoxStats, error) {
	rows := []struct {
		Status       model.GiftBoxStatus
		DeliveryType model.DeliveryType
		BoxType      model.BoxType
		Count        int64
	}{}
	if err := r.db.WithContext(ctx).Model(&model.GiftBox{}).
		Select("status, delivery_type, box_type, COUNT(*) as count").
		Group("status, delivery_type, box_type").
		Scan(&rows).Error; err != nil {
		logger.Error("Failed to aggregate gift box stats", err)
		return nil, err
	}

	stats := &GiftBoxStats{}
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Status {
		case model.GiftBoxStatusPending:
			stats.Pending += row.Count
		case model.GiftBoxStatusShipped:
			stats.Shipped += row.Count
		}
		switch row.DeliveryType {
		case model.DeliveryPickup:
			stats.Pickup += row.Count
		case model.DeliveryMail:
			stats.Mail += row.Count
			if row.Status == model.GiftBoxStatusPending {
				stats.PendingMail += row.Count
			}
		}
		switch row.BoxType {
		case model.BoxTypeStandard:
			stats.Standard += row.Count
		case model.BoxTypeHalal:
			stats.Halal += row.Count
		}
	}
	return stats, nil
}
