package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                         // 主键
	OrderNo        string         `gorm:"uniqueIndex;not null" json:"order_no"`                         // 订单编号
	UserID         uint           `gorm:"index;not null" json:"user_id"`                                // 用户ID
	Status         string         `gorm:"index;not null" json:"status"`                                 // 订单状态
	Currency       string         `gorm:"not null" json:"currency"`                                     // 币种
	SubtotalAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal_amount"` // 商品小计
	ShippingAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_amount"` // 运费
	TotalAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`    // 实付金额
	ShippingName   string         `gorm:"type:varchar(120)" json:"shipping_name"`                       // 收件人
	ShippingEmail  string         `gorm:"type:varchar(200)" json:"shipping_email"`                      // 联系邮箱
	ShippingPhone  string         `gorm:"type:varchar(40)" json:"shipping_phone"`                       // 联系电话
	Address        string         `gorm:"type:varchar(255)" json:"address"`                             // 地址
	City           string         `gorm:"type:varchar(120)" json:"city"`                                // 城市
	Country        string         `gorm:"type:varchar(120)" json:"country"`                             // 国家
	PostalCode     string         `gorm:"type:varchar(20)" json:"postal_code"`                          // 邮编
	PaidAt         *time.Time     `gorm:"index" json:"paid_at"`                                         // 支付时间
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`                                      // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
