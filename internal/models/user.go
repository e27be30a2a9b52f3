package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                           // 主键
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`              // 邮箱
	PasswordHash string         `gorm:"not null" json:"-"`                              // 密码哈希（不返回给前端）
	FullName     string         `gorm:"type:varchar(120);default:''" json:"full_name"`  // 姓名
	Phone        string         `gorm:"type:varchar(40);default:''" json:"phone"`       // 电话
	Address      string         `gorm:"type:varchar(255);default:''" json:"address"`    // 地址
	City         string         `gorm:"type:varchar(120);default:''" json:"city"`       // 城市
	Country      string         `gorm:"type:varchar(120);default:''" json:"country"`    // 国家
	PostalCode   string         `gorm:"type:varchar(20);default:''" json:"postal_code"` // 邮编
	Status       string         `gorm:"default:'active'" json:"status"`                 // 账号状态
	TokenVersion uint64         `gorm:"not null;default:0" json:"-"`                    // Token 版本（退出登录时递增）
	LastLoginAt  *time.Time     `json:"last_login_at"`                                  // 最后登录时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                        // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                        // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                 // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
