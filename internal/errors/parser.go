package errors

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes we translate
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// ErrorInfo is a user facing code + message pair
type ErrorInfo struct {
	Code    string
	Message string
}

// IsUniqueViolation reports whether err came from a unique constraint.
// Works for translated GORM errors, raw pgx errors and SQLite driver messages.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "duplicate key") || strings.Contains(lower, "unique constraint")
}

// ParseError converts a store error into a code and localized message.
// Details such as constraint names are never echoed back to the user.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "服务器错误，请稍后重试"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: getNotFoundMessage(context)}
	}

	if IsUniqueViolation(err) {
		return parseDuplicateKeyError(err.Error())
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return ErrorInfo{Code: ResourceNotFound, Message: "关联的数据不存在"}
		case pgNotNullViolation:
			return ErrorInfo{Code: ValidationRequired, Message: "缺少必填项"}
		case pgCheckViolation:
			return ErrorInfo{Code: ValidationInvalidInput, Message: "输入信息有误"}
		}
	}

	if isTimeout(err) {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "服务连接失败，请稍后重试",
		}
	}

	return ErrorInfo{Code: InternalServerError, Message: getDefaultErrorMessage(context)}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "connection refused") ||
		strings.Contains(lower, "no such host") ||
		strings.Contains(lower, "timeout")
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	lower := strings.ToLower(errStr)

	if strings.Contains(lower, "gift_boxes") || strings.Contains(lower, "idx_gift_boxes_user_id") {
		return ErrorInfo{Code: GiftBoxAlreadyApplied, Message: "您已经申请过礼盒，不能重复申请"}
	}
	if strings.Contains(lower, "email") || strings.Contains(lower, "idx_users_email") {
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "该邮箱已存在"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "数据已存在"}
}

func getNotFoundMessage(context string) string {
	lower := strings.ToLower(context)

	if strings.Contains(lower, "gift") || strings.Contains(lower, "礼盒") {
		return "礼盒申请不存在"
	}
	if strings.Contains(lower, "user") || strings.Contains(lower, "用户") {
		return "用户不存在"
	}
	return "请求的数据不存在"
}

func getDefaultErrorMessage(context string) string {
	lower := strings.ToLower(context)

	if strings.Contains(lower, "submit") || strings.Contains(lower, "create") {
		return "申请提交失败，请稍后重试"
	}
	if strings.Contains(lower, "tracking") || strings.Contains(lower, "update") {
		return "更新快递单号失败"
	}
	if strings.Contains(lower, "export") {
		return "导出失败，请稍后重试"
	}
	return "服务器错误，请稍后重试"
}
