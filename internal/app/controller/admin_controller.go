package controller

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/giftbox-backend/internal/app/service"
	apperrors "github.com/ikkim/giftbox-backend/internal/errors"
	"github.com/ikkim/giftbox-backend/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminController struct {
	adminService service.AdminService
}

func NewAdminController(adminService service.AdminService) *AdminController {
	return &AdminController{
		adminService: adminService,
	}
}

type SetTrackingRequest struct {
	TrackingNumber string `json:"tracking_number" binding:"required"`
}

// ListGiftBoxes lists every request, newest first, filtered by ?q=
// GET /api/v1/admin/gift-boxes
func (ctrl *AdminController) ListGiftBoxes(c *gin.Context) {
	query := c.Query("q")

	boxes, err := ctrl.adminService.SearchRequests(c.Request.Context(), query)
	if err != nil {
		respondError(c, err, "list gift boxes")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"gift_boxes": boxes,
		"count":      len(boxes),
		"query":      query,
	})
}

// GetSummary returns request counts
// GET /api/v1/admin/gift-boxes/summary
func (ctrl *AdminController) GetSummary(c *gin.Context) {
	stats, err := ctrl.adminService.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err, "gift box summary")
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": stats})
}

// ExportGiftBoxes downloads the (filtered) list as xlsx
// GET /api/v1/admin/gift-boxes/export
func (ctrl *AdminController) ExportGiftBoxes(c *gin.Context) {
	data, err := ctrl.adminService.ExportRequests(c.Request.Context(), c.Query("q"))
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to export gift boxes", err)
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.GiftBoxExportFailed, msgExportFailed)
		return
	}

	filename := fmt.Sprintf("gift-boxes-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// SetTracking ships a pending mail request
// PUT /api/v1/admin/gift-boxes/:id/tracking
func (ctrl *AdminController) SetTracking(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseGiftBoxID(c.Param("id"))
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "无效的申请编号")
		return
	}

	var req SetTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid tracking request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationRequired, msgTrackingRequired)
		return
	}

	result, err := ctrl.adminService.SetTracking(c.Request.Context(), id, req.TrackingNumber)
	if err != nil {
		respondError(c, err, "update tracking")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    msgUpdateSucceeded,
		"gift_box":   result.GiftBox,
		"gift_boxes": result.Requests,
	})
}

func parseGiftBoxID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
