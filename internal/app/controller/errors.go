package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/giftbox-backend/internal/app/service"
	apperrors "github.com/ikkim/giftbox-backend/internal/errors"
	"github.com/ikkim/giftbox-backend/internal/middleware"
)

const (
	msgLoginFailed      = "邮箱或密码错误"
	msgAlreadyApplied   = "您已经申请过礼盒，不能重复申请"
	msgSubmitFailed     = "申请提交失败，请稍后重试"
	msgSubmitSucceeded  = "礼盒申请提交成功！"
	msgUpdateFailed     = "更新快递单号失败"
	msgUpdateSucceeded  = "快递单号更新成功"
	msgAlreadyShipped   = "该申请已发货，快递单号不可修改"
	msgNotMailDelivery  = "线下领取的申请无需填写快递单号"
	msgGiftBoxNotFound  = "礼盒申请不存在"
	msgUserNotFound     = "用户不存在"
	msgInvalidInput     = "输入信息有误"
	msgLoadFailed       = "加载数据失败，请稍后重试"
	msgExportFailed     = "导出失败，请稍后重试"
	msgTrackingRequired = "请输入快递单号"
	msgEmployeeOnly     = "仅限员工申请"
)

// errorDescription is how a service error is shown to the caller
type errorDescription struct {
	status  int
	code    string
	message string
}

// describeError maps service errors to a status, error code and message.
// Unknown errors fall back to apperrors.ParseError.
func describeError(err error, action string) errorDescription {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		code := apperrors.ValidationInvalidInput
		if vErr.Message == service.MsgMailInfoRequired {
			code = apperrors.GiftBoxMailInfo
		}
		return errorDescription{http.StatusBadRequest, code, vErr.Message}
	case errors.Is(err, service.ErrInvalidCredentials):
		return errorDescription{http.StatusUnauthorized, apperrors.AuthInvalidCredentials, msgLoginFailed}
	case errors.Is(err, service.ErrUserNotFound):
		return errorDescription{http.StatusNotFound, apperrors.ResourceNotFound, msgUserNotFound}
	case errors.Is(err, service.ErrDuplicateGiftBox):
		return errorDescription{http.StatusConflict, apperrors.GiftBoxAlreadyApplied, msgAlreadyApplied}
	case errors.Is(err, service.ErrGiftBoxNotFound):
		return errorDescription{http.StatusNotFound, apperrors.GiftBoxNotFound, msgGiftBoxNotFound}
	case errors.Is(err, service.ErrAlreadyShipped):
		return errorDescription{http.StatusConflict, apperrors.GiftBoxAlreadyShipped, msgAlreadyShipped}
	case errors.Is(err, service.ErrNotMailDelivery):
		return errorDescription{http.StatusConflict, apperrors.GiftBoxNotMail, msgNotMailDelivery}
	case errors.Is(err, service.ErrSubmitFailed):
		return errorDescription{http.StatusInternalServerError, apperrors.GiftBoxSubmitFailed, msgSubmitFailed}
	case errors.Is(err, service.ErrUpdateFailed):
		return errorDescription{http.StatusInternalServerError, apperrors.GiftBoxUpdateFailed, msgUpdateFailed}
	}

	info := apperrors.ParseError(err, action)
	return errorDescription{http.StatusInternalServerError, info.Code, info.Message}
}

// respondError writes err as JSON. Server side failures are logged at error
// level, caller mistakes at warn.
func respondError(c *gin.Context, err error, action string) {
	log := middleware.GetLoggerFromContext(c)
	desc := describeError(err, action)

	fields := map[string]interface{}{
		"action": action,
		"code":   desc.code,
	}
	if desc.status >= http.StatusInternalServerError {
		log.Error("Request failed", err, fields)
	} else {
		fields["error"] = err.Error()
		log.Warn("Request rejected", fields)
	}

	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		apperrors.RespondWithValidationError(c, desc.code, desc.message, vErr.Fields)
		return
	}
	apperrors.RespondWithError(c, desc.status, desc.code, desc.message)
}

// errorMessage is the user facing text for err
func errorMessage(err error, action string) string {
	return describeError(err, action).message
}
