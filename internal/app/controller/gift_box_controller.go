package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/giftbox-backend/internal/app/model"
	"github.com/ikkim/giftbox-backend/internal/app/service"
	apperrors "github.com/ikkim/giftbox-backend/internal/errors"
	"github.com/ikkim/giftbox-backend/internal/middleware"
)

type GiftBoxController struct {
	giftBoxService service.GiftBoxService
}

func NewGiftBoxController(giftBoxService service.GiftBoxService) *GiftBoxController {
	return &GiftBoxController{
		giftBoxService: giftBoxService,
	}
}

type SubmitGiftBoxRequest struct {
	BoxType       model.BoxType      `json:"box_type" form:"box_type"`
	DeliveryType  model.DeliveryType `json:"delivery_type" form:"delivery_type"`
	RecipientName string             `json:"recipient_name" form:"recipient_name"`
	Phone         string             `json:"phone" form:"phone"`
	Address       string             `json:"address" form:"address"`
}

func (r SubmitGiftBoxRequest) toInput() service.SubmitGiftBoxInput {
	return service.SubmitGiftBoxInput{
		BoxType:       r.BoxType,
		DeliveryType:  r.DeliveryType,
		RecipientName: r.RecipientName,
		Phone:         r.Phone,
		Address:       r.Address,
	}
}

// GetMyGiftBox returns the caller's request; gift_box is null before applying
// GET /api/v1/gift-box
func (ctrl *GiftBoxController) GetMyGiftBox(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	box, err := ctrl.giftBoxService.GetMyRequest(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "get gift box")
		return
	}

	c.JSON(http.StatusOK, gin.H{"gift_box": box})
}

// SubmitGiftBox files the caller's single request
// POST /api/v1/gift-box
func (ctrl *GiftBoxController) SubmitGiftBox(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req SubmitGiftBoxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid gift box request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, msgInvalidInput)
		return
	}

	box, err := ctrl.giftBoxService.SubmitRequest(c.Request.Context(), userID, req.toInput())
	if err != nil {
		respondError(c, err, "submit gift box")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  msgSubmitSucceeded,
		"gift_box": box,
	})
}
