package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ikkim/giftbox-backend/internal/app/model"
	"github.com/ikkim/giftbox-backend/internal/app/repository"
	apperrors "github.com/ikkim/giftbox-backend/internal/errors"
	"github.com/ikkim/giftbox-backend/pkg/logger"
	"gorm.io/gorm"
)

// MsgMailInfoRequired is the message for an incomplete mail delivery form
const MsgMailInfoRequired = "请填写完整的邮寄信息"

// EventPublisher fans gift box changes out to admin consoles
type EventPublisher interface {
	PublishGiftBoxEvent(event model.GiftBoxEvent)
}

// SubmitGiftBoxInput is the employee's application form
type SubmitGiftBoxInput struct {
	BoxType       model.BoxType
	DeliveryType  model.DeliveryType
	RecipientName string
	Phone         string
	Address       string
}

type GiftBoxService interface {
	GetMyRequest(ctx context.Context, userID uint) (*model.GiftBox, error)
	SubmitRequest(ctx context.Context, userID uint, input SubmitGiftBoxInput) (*model.GiftBox, error)
}

type giftBoxService struct {
	giftBoxRepo repository.GiftBoxRepository
	events      EventPublisher
}

// NewGiftBoxService builds the employee portal service. events may be nil.
func NewGiftBoxService(giftBoxRepo repository.GiftBoxRepository, events EventPublisher) GiftBoxService {
	return &giftBoxService{
		giftBoxRepo: giftBoxRepo,
		events:      events,
	}
}

// GetMyRequest returns (nil, nil) when the user has not applied yet
func (s *giftBoxService) GetMyRequest(ctx context.Context, userID uint) (*model.GiftBox, error) {
	box, err := s.giftBoxRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return box, nil
}

func (s *giftBoxService) SubmitRequest(ctx context.Context, userID uint, input SubmitGiftBoxInput) (*model.GiftBox, error) {
	box, err := input.toGiftBox(userID)
	if err != nil {
		logger.Debug("Gift box submission rejected", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}

	if err := s.giftBoxRepo.Create(ctx, box); err != nil {
		if apperrors.IsUniqueViolation(err) {
			logger.Warn("Duplicate gift box submission", map[string]interface{}{
				"user_id": userID,
			})
			return nil, ErrDuplicateGiftBox
		}
		logger.Error("Failed to submit gift box", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}

	logger.Info("Gift box submitted", map[string]interface{}{
		"gift_box_id":   box.ID,
		"user_id":       userID,
		"box_type":      box.BoxType,
		"delivery_type": box.DeliveryType,
	})

	if s.events != nil {
		s.events.PublishGiftBoxEvent(model.NewGiftBoxEvent(model.EventGiftBoxCreated, box))
	}

	// Reload so the caller sees exactly what the store kept
	stored, err := s.GetMyRequest(ctx, userID)
	if err != nil || stored == nil {
		return box, nil
	}
	return stored, nil
}

// toGiftBox validates the form and builds a pending request.
// Recipient fields are kept only for mail delivery.
func (in SubmitGiftBoxInput) toGiftBox(userID uint) (*model.GiftBox, error) {
	fields := map[string]string{}
	if !in.BoxType.Valid() {
		fields["box_type"] = "请选择礼盒类型"
	}
	if !in.DeliveryType.Valid() {
		fields["delivery_type"] = "请选择领取方式"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Message: "申请信息有误", Fields: fields}
	}

	box := &model.GiftBox{
		UserID:       userID,
		BoxType:      in.BoxType,
		DeliveryType: in.DeliveryType,
		Status:       model.GiftBoxStatusPending,
	}
	if in.DeliveryType != model.DeliveryMail {
		return box, nil
	}

	name := strings.TrimSpace(in.RecipientName)
	phone := strings.TrimSpace(in.Phone)
	address := strings.TrimSpace(in.Address)
	if name == "" {
		fields["recipient_name"] = "请输入收件人姓名"
	}
	if phone == "" {
		fields["phone"] = "请输入联系电话"
	}
	if address == "" {
		fields["address"] = "请输入详细收货地址"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Message: MsgMailInfoRequired, Fields: fields}
	}

	box.RecipientName = &name
	box.Phone = &phone
	box.Address = &address
	return box, nil
}
