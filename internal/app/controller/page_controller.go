package controller

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/giftbox-backend/internal/app/model"
	"github.com/ikkim/giftbox-backend/internal/app/service"
	apperrors "github.com/ikkim/giftbox-backend/internal/errors"
	"github.com/ikkim/giftbox-backend/internal/gate"
	"github.com/ikkim/giftbox-backend/internal/middleware"
)

const (
	portalTitle = "中秋礼盒申请系统"
	adminTitle  = "中秋礼盒管理系统"

	noticeShipped = "shipped"
)

// adminPageMessages are the messages the admin page shows after a redirect.
// Only known codes are rendered.
var adminPageMessages = map[string]string{
	apperrors.GiftBoxAlreadyShipped:  msgAlreadyShipped,
	apperrors.GiftBoxNotMail:         msgNotMailDelivery,
	apperrors.GiftBoxNotFound:        msgGiftBoxNotFound,
	apperrors.GiftBoxUpdateFailed:    msgUpdateFailed,
	apperrors.ValidationInvalidInput: msgTrackingRequired,
	apperrors.ValidationInvalidID:    msgGiftBoxNotFound,
}

// PageController serves the server-rendered login, dashboard and admin pages.
// Access control is done by the gate middleware in front of it.
type PageController struct {
	authService    service.AuthService
	giftBoxService service.GiftBoxService
	adminService   service.AdminService
	cookie         SessionCookie
	demoAccounts   bool
}

func NewPageController(
	authService service.AuthService,
	giftBoxService service.GiftBoxService,
	adminService service.AdminService,
	cookie SessionCookie,
	demoAccounts bool,
) *PageController {
	return &PageController{
		authService:    authService,
		giftBoxService: giftBoxService,
		adminService:   adminService,
		cookie:         cookie,
		demoAccounts:   demoAccounts,
	}
}

func (ctrl *PageController) renderLogin(c *gin.Context, status int, email, errMsg string) {
	c.HTML(status, "login.html", gin.H{
		"Title":        portalTitle,
		"Email":        email,
		"Error":        errMsg,
		"DemoAccounts": ctrl.demoAccounts,
	})
}

// Home shows the sign-in form
// GET /
func (ctrl *PageController) Home(c *gin.Context) {
	ctrl.renderLogin(c, http.StatusOK, "", "")
}

// Login signs in from the form and lets the gate route the new session
// POST /login
func (ctrl *PageController) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	_, token, err := ctrl.authService.Login(c.Request.Context(), email, password)
	if err != nil {
		desc := describeError(err, "login")
		if desc.status >= http.StatusInternalServerError {
			middleware.GetLoggerFromContext(c).Error("Page login failed", err)
		}
		ctrl.renderLogin(c, desc.status, email, desc.message)
		return
	}

	ctrl.cookie.Set(c, token, ctrl.authService.SessionExpiry())
	c.Redirect(http.StatusFound, gate.HomePath)
}

// Logout revokes the session and always clears the cookie
// POST /logout
func (ctrl *PageController) Logout(c *gin.Context) {
	if err := ctrl.authService.Logout(c.Request.Context(), ctrl.cookie.Token(c)); err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to revoke session", err)
	}
	ctrl.cookie.Clear(c)
	c.Redirect(http.StatusFound, gate.HomePath)
}

type dashboardView struct {
	box        *model.GiftBox
	form       SubmitGiftBoxRequest
	fields     map[string]string
	errMsg     string
	success    string
	loadFailed bool
	// employeeOnly hides the form from admins
	employeeOnly bool
}

func (ctrl *PageController) renderDashboard(c *gin.Context, status int, view dashboardView) {
	if view.fields == nil {
		view.fields = map[string]string{}
	}
	if view.form.BoxType == "" {
		view.form.BoxType = model.BoxTypeStandard
	}
	if view.form.DeliveryType == "" {
		view.form.DeliveryType = model.DeliveryPickup
	}

	c.HTML(status, "dashboard.html", gin.H{
		"Title":        portalTitle,
		"Identity":     middleware.GetIdentity(c),
		"GiftBox":      view.box,
		"Form":         view.form,
		"Fields":       view.fields,
		"Error":        view.errMsg,
		"Success":      view.success,
		"LoadFailed":   view.loadFailed,
		"EmployeeOnly": view.employeeOnly,
	})
}

// Dashboard shows the caller's request, or the application form
// GET /dashboard
func (ctrl *PageController) Dashboard(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	box, err := ctrl.giftBoxService.GetMyRequest(c.Request.Context(), identity.UserID)
	if err != nil {
		ctrl.renderDashboard(c, http.StatusInternalServerError, dashboardView{
			errMsg:     msgLoadFailed,
			loadFailed: true,
		})
		return
	}

	view := dashboardView{box: box}
	if identity.IsAdmin() {
		view.errMsg = msgEmployeeOnly
		view.employeeOnly = true
	}
	ctrl.renderDashboard(c, http.StatusOK, view)
}

// SubmitDashboard files the request from the form
// POST /dashboard
func (ctrl *PageController) SubmitDashboard(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity.IsAdmin() {
		middleware.GetLoggerFromContext(c).Warn("Admin submission rejected", map[string]interface{}{
			"user_id": identity.UserID,
		})
		ctrl.renderDashboard(c, http.StatusForbidden, dashboardView{
			errMsg:       msgEmployeeOnly,
			employeeOnly: true,
		})
		return
	}

	var form SubmitGiftBoxRequest
	if err := c.ShouldBind(&form); err != nil {
		ctrl.renderDashboard(c, http.StatusBadRequest, dashboardView{form: form, errMsg: msgInvalidInput})
		return
	}

	box, err := ctrl.giftBoxService.SubmitRequest(c.Request.Context(), identity.UserID, form.toInput())
	if err != nil {
		desc := describeError(err, "submit gift box")
		view := dashboardView{form: form, errMsg: desc.message}

		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			view.fields = vErr.Fields
		case errors.Is(err, service.ErrDuplicateGiftBox):
			// Show the request that already exists
			view.box, _ = ctrl.giftBoxService.GetMyRequest(c.Request.Context(), identity.UserID)
		default:
			middleware.GetLoggerFromContext(c).Error("Gift box submission failed", err)
		}
		ctrl.renderDashboard(c, desc.status, view)
		return
	}

	ctrl.renderDashboard(c, http.StatusOK, dashboardView{box: box, success: msgSubmitSucceeded})
}

// Admin lists every request, filtered by ?q=
// GET /admin
func (ctrl *PageController) Admin(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	query := c.Query("q")

	data := gin.H{
		"Title":    adminTitle,
		"Identity": middleware.GetIdentity(c),
		"Query":    query,
	}
	if c.Query("notice") == noticeShipped {
		data["Success"] = msgUpdateSucceeded
	}
	if msg, ok := adminPageMessages[c.Query("error")]; ok {
		data["Error"] = msg
	}

	boxes, err := ctrl.adminService.SearchRequests(c.Request.Context(), query)
	if err != nil {
		log.Error("Failed to load admin list", err)
		data["Error"] = msgLoadFailed
		c.HTML(http.StatusInternalServerError, "admin.html", data)
		return
	}
	data["GiftBoxes"] = boxes

	if stats, err := ctrl.adminService.Summary(c.Request.Context()); err == nil {
		data["Summary"] = stats
	} else {
		log.Warn("Failed to load summary", map[string]interface{}{
			"error": err.Error(),
		})
	}

	c.HTML(http.StatusOK, "admin.html", data)
}

// AdminSetTracking ships a request from the admin table, then redirects back
// to the (still filtered) list with a message.
// POST /admin/gift-boxes/:id/tracking
func (ctrl *PageController) AdminSetTracking(c *gin.Context) {
	params := url.Values{}
	if q := c.PostForm("q"); q != "" {
		params.Set("q", q)
	}

	id, ok := parseGiftBoxID(c.Param("id"))
	if !ok {
		params.Set("error", apperrors.ValidationInvalidID)
		c.Redirect(http.StatusFound, adminLocation(params))
		return
	}

	if _, err := ctrl.adminService.SetTracking(c.Request.Context(), id, c.PostForm("tracking_number")); err != nil {
		desc := describeError(err, "update tracking")
		if desc.status >= http.StatusInternalServerError {
			middleware.GetLoggerFromContext(c).Error("Tracking update failed", err, map[string]interface{}{
				"gift_box_id": id,
			})
		}
		params.Set("error", desc.code)
	} else {
		params.Set("notice", noticeShipped)
	}

	c.Redirect(http.StatusFound, adminLocation(params))
}

func adminLocation(params url.Values) string {
	if len(params) == 0 {
		return gate.AdminPath
	}
	return gate.AdminPath + "?" + params.Encode()
}
