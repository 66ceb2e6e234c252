package model

import (
	"time"
)

type BoxType string       // 礼盒类型
type DeliveryType string  // 领取方式
type GiftBoxStatus string // 申请状态

const (
	BoxTypeStandard BoxType = "standard" // 常规
	BoxTypeHalal    BoxType = "halal"    // 清真

	DeliveryPickup DeliveryType = "pickup" // 线下领取
	DeliveryMail   DeliveryType = "mail"   // 线上邮寄

	GiftBoxStatusPending GiftBoxStatus = "pending" // 待发货
	GiftBoxStatusShipped GiftBoxStatus = "shipped" // 已发货
)

func (t BoxType) Valid() bool {
	return t == BoxTypeStandard || t == BoxTypeHalal
}

func (t BoxType) Label() string {
	switch t {
	case BoxTypeStandard:
		return "常规"
	case BoxTypeHalal:
		return "清真"
	}
	return string(t)
}

func (t DeliveryType) Valid() bool {
	return t == DeliveryPickup || t == DeliveryMail
}

func (t DeliveryType) Label() string {
	switch t {
	case DeliveryPickup:
		return "线下领取"
	case DeliveryMail:
		return "线上邮寄"
	}
	return string(t)
}

func (s GiftBoxStatus) Label() string {
	switch s {
	case GiftBoxStatusPending:
		return "待发货"
	case GiftBoxStatusShipped:
		return "已发货"
	}
	return string(s)
}

// GiftBox is the single gift box request an employee may file.
// TrackingNumber is set exactly when Status is shipped.
type GiftBox struct {
	ID             uint          `gorm:"primarykey" json:"id"`                                            // 申请 ID
	UserID         uint          `gorm:"not null;uniqueIndex:idx_gift_boxes_user_id" json:"user_id"`      // 申请人 ID (每人仅一份)
	BoxType        BoxType       `gorm:"type:varchar(20);not null" json:"box_type"`                       // 礼盒类型
	DeliveryType   DeliveryType  `gorm:"type:varchar(20);not null" json:"delivery_type"`                  // 领取方式
	RecipientName  *string       `gorm:"type:varchar(100)" json:"recipient_name"`                         // 收件人
	Phone          *string       `gorm:"type:varchar(30)" json:"phone"`                                   // 联系电话
	Address        *string       `gorm:"type:text" json:"address"`                                        // 收货地址
	Status         GiftBoxStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"` // 申请状态
	TrackingNumber *string       `gorm:"type:varchar(64)" json:"tracking_number"`                         // 快递单号
	CreatedAt      time.Time     `gorm:"index" json:"created_at"`                                         // 申请时间
	UpdatedAt      time.Time     `json:"updated_at"`                                                      // 更新时间

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"` // 申请人
}

func (GiftBox) TableName() string {
	return "gift_boxes"
}

// OwnerEmail returns the applicant email when the owner was preloaded
func (g *GiftBox) OwnerEmail() string {
	if g.User == nil {
		return ""
	}
	return g.User.Email
}

func (g *GiftBox) IsShipped() bool {
	return g.Status == GiftBoxStatusShipped
}

// Shippable reports whether an admin may attach a tracking number
func (g *GiftBox) Shippable() bool {
	return g.DeliveryType == DeliveryMail && g.Status == GiftBoxStatusPending
}

// StringValue dereferences optional text columns for display
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
