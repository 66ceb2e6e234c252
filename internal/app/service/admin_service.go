package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ikkim/giftbox-backend/internal/app/model"
	"github.com/ikkim/giftbox-backend/internal/app/repository"
	"github.com/ikkim/giftbox-backend/pkg/logger"
	"gorm.io/gorm"
)

// ShipmentResult is returned after a tracking number is attached.
// Requests is the reloaded full list; it is nil if the reload failed.
type ShipmentResult struct {
	GiftBox  *model.GiftBox
	Requests []model.GiftBox
}

type AdminService interface {
	ListAllRequests(ctx context.Context) ([]model.GiftBox, error)
	SearchRequests(ctx context.Context, term string) ([]model.GiftBox, error)
	SetTracking(ctx context.Context, id uint, trackingNumber string) (*ShipmentResult, error)
	Summary(ctx context.Context) (*repository.GiftBoxStats, error)
	ExportRequests(ctx context.Context, term string) ([]byte, error)
}

type adminService struct {
	giftBoxRepo repository.GiftBoxRepository
	events      EventPublisher
}

// NewAdminService builds the admin console service. events may be nil.
func NewAdminService(giftBoxRepo repository.GiftBoxRepository, events EventPublisher) AdminService {
	return &adminService{
		giftBoxRepo: giftBoxRepo,
		events:      events,
	}
}

func (s *adminService) ListAllRequests(ctx context.Context) ([]model.GiftBox, error) {
	boxes, err := s.giftBoxRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return boxes, nil
}

func (s *adminService) SearchRequests(ctx context.Context, term string) ([]model.GiftBox, error) {
	boxes, err := s.ListAllRequests(ctx)
	if err != nil {
		return nil, err
	}
	return FilterGiftBoxes(boxes, term), nil
}

// SetTracking ships a pending mail request. Shipped requests are final and
// pickup requests never carry a tracking number.
func (s *adminService) SetTracking(ctx context.Context, id uint, trackingNumber string) (*ShipmentResult, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return nil, &ValidationError{
			Message: "请输入快递单号",
			Fields:  map[string]string{"tracking_number": "请输入快递单号"},
		}
	}

	logger.Info("Setting tracking number", map[string]interface{}{
		"gift_box_id":     id,
		"tracking_number": trackingNumber,
	})

	updated, err := s.giftBoxRepo.MarkShipped(ctx, id, trackingNumber)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpdateFailed, err)
	}
	if !updated {
		return nil, s.explainNotShipped(ctx, id)
	}

	box, err := s.giftBoxRepo.FindByID(ctx, id)
	if err != nil {
		// The update is committed; only the read back failed
		logger.Warn("Using fallback for shipped gift box", map[string]interface{}{
			"gift_box_id": id,
		})
		box = &model.GiftBox{ID: id, Status: model.GiftBoxStatusShipped, TrackingNumber: &trackingNumber}
	}

	logger.Info("Gift box shipped", map[string]interface{}{
		"gift_box_id":     id,
		"user_id":         box.UserID,
		"tracking_number": trackingNumber,
	})

	if s.events != nil {
		s.events.PublishGiftBoxEvent(model.NewGiftBoxEvent(model.EventGiftBoxShipped, box))
	}

	result := &ShipmentResult{GiftBox: box}
	if requests, err := s.ListAllRequests(ctx); err == nil {
		result.Requests = requests
	}
	return result, nil
}

// explainNotShipped tells why the conditional update matched no row
func (s *adminService) explainNotShipped(ctx context.Context, id uint) error {
	box, err := s.giftBoxRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGiftBoxNotFound
		}
		return fmt.Errorf("%w: %w", ErrUpdateFailed, err)
	}

	switch {
	case box.IsShipped():
		logger.Warn("Tracking update rejected: already shipped", map[string]interface{}{
			"gift_box_id": id,
		})
		return ErrAlreadyShipped
	case box.DeliveryType != model.DeliveryMail:
		logger.Warn("Tracking update rejected: not a mail delivery", map[string]interface{}{
			"gift_box_id":   id,
			"delivery_type": box.DeliveryType,
		})
		return ErrNotMailDelivery
	}
	return ErrUpdateFailed
}

func (s *adminService) Summary(ctx context.Context) (*repository.GiftBoxStats, error) {
	return s.giftBoxRepo.Stats(ctx)
}

func (s *adminService) ExportRequests(ctx context.Context, term string) ([]byte, error) {
	boxes, err := s.SearchRequests(ctx, term)
	if err != nil {
		return nil, err
	}

	data, err := BuildGiftBoxWorkbook(boxes)
	if err != nil {
		logger.Error("Failed to build gift box export", err)
		return nil, err
	}

	logger.Info("Gift boxes exported", map[string]interface{}{
		"count": len(boxes),
		"bytes": len(data),
	})
	return data, nil
}
