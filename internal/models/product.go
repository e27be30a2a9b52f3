package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表（卖家发布的在售物品）
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                           // 主键
	SellerID    uint           `gorm:"not null;index" json:"seller_id"`                                // 卖家用户ID
	CategoryID  uint           `gorm:"not null;index" json:"category_id"`                              // 分类ID
	Title       string         `gorm:"type:varchar(200);not null" json:"title"`                        // 标题
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`                               // 唯一标识
	Description string         `gorm:"type:text" json:"description"`                                   // 描述
	PriceAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`             // 价格
	Condition   string         `gorm:"type:varchar(20);not null;default:'new'" json:"condition"`       // 成色
	Quantity    int            `gorm:"not null;default:1" json:"quantity"`                             // 可售数量
	City        string         `gorm:"type:varchar(120);default:''" json:"city"`                       // 所在城市
	Country     string         `gorm:"type:varchar(120);default:''" json:"country"`                    // 所在国家
	Status      string         `gorm:"type:varchar(20);not null;default:'active';index" json:"status"` // 状态（active/sold/inactive）
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                                     // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                                 // 软删除时间

	// 关联
	Category Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息
	Images   []ProductImage `gorm:"foreignKey:ProductID" json:"images,omitempty"`    // 图片列表
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// PrimaryImageURL 返回主图地址，没有主图时取第一张
func (p *Product) PrimaryImageURL() string {
	if p == nil || len(p.Images) == 0 {
		return ""
	}
	for _, img := range p.Images {
		if img.IsPrimary {
			return img.URL
		}
	}
	return p.Images[0].URL
}
