package errors

// Error codes returned in ErrorResponse.Error
// Format: CATEGORY_SPECIFIC_DETAIL; the frontend maps messages from the code.

const (
	// ==================== 认证 (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // 需要登录
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // 邮箱或密码错误
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // 会话过期
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // 会话无效
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // 已退出登录

	// ==================== 授权 (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // 无访问权限
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // 缺少角色信息
	AuthzEmployeeOnly = "AUTHZ_EMPLOYEE_ONLY"  // 仅限员工

	// ==================== 校验 (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // 输入无效
	ValidationInvalidID    = "VALIDATION_INVALID_ID"    // ID 无效
	ValidationRequired     = "VALIDATION_REQUIRED"      // 必填项缺失

	// ==================== 资源 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // 资源不存在
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // 资源已存在

	// ==================== 礼盒 (GIFTBOX_) ====================
	GiftBoxNotFound       = "GIFTBOX_NOT_FOUND"       // 申请不存在
	GiftBoxAlreadyApplied = "GIFTBOX_ALREADY_APPLIED" // 已申请过礼盒
	GiftBoxMailInfo       = "GIFTBOX_MAIL_INFO"       // 邮寄信息不完整
	GiftBoxAlreadyShipped = "GIFTBOX_ALREADY_SHIPPED" // 已发货
	GiftBoxNotMail        = "GIFTBOX_NOT_MAIL"        // 非邮寄申请
	GiftBoxSubmitFailed   = "GIFTBOX_SUBMIT_FAILED"   // 提交失败
	GiftBoxUpdateFailed   = "GIFTBOX_UPDATE_FAILED"   // 更新快递单号失败
	GiftBoxExportFailed   = "GIFTBOX_EXPORT_FAILED"   // 导出失败

	// ==================== 内部错误 (INTERNAL_) ====================
	InternalServerError = "INTERNAL_SERVER_ERROR" // 服务器错误
	InternalExternalAPI = "INTERNAL_EXTERNAL_API" // 外部服务错误
)
