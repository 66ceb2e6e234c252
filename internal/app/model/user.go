package model

import (
	"time"
)

type UserRole string // 用户角色

const (
	RoleEmployee UserRole = "employee" // 员工
	RoleAdmin    UserRole = "admin"    // 管理员
)

// Valid reports whether r is a known role
func (r UserRole) Valid() bool {
	return r == RoleEmployee || r == RoleAdmin
}

type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`                            // 用户 ID
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`               // 邮箱
	PasswordHash string    `gorm:"not null" json:"-"`                               // 密码哈希
	Name         string    `json:"name"`                                            // 姓名
	Role         UserRole  `gorm:"type:varchar(20);default:'employee'" json:"role"` // 角色
	CreatedAt    time.Time `json:"created_at"`                                      // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                                      // 更新时间
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Identity is the caller resolved from the session for a single request.
// A nil *Identity means the caller is anonymous.
type Identity struct {
	UserID uint     `json:"user_id"`
	Email  string   `json:"email"`
	Role   UserRole `json:"role"`
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// IdentityOf builds the request identity for a stored user
func IdentityOf(u *User) *Identity {
	return &Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
}
