package models

import "time"

// Credential 本地持久化的登录凭据（替代浏览器 cookie）
type Credential struct {
	ID        uint       `gorm:"primarykey" json:"id"`                  // 主键
	Token     string     `gorm:"type:text;not null" json:"-"`           // Bearer Token
	Role      string     `gorm:"type:varchar(20);not null" json:"role"` // 角色 USER/ADMIN
	UserID    uint       `gorm:"index" json:"user_id"`                  // 用户ID
	Email     string     `gorm:"type:varchar(255)" json:"email"`        // 登录邮箱
	ExpiresAt *time.Time `gorm:"index" json:"expires_at"`               // 过期时间（取自 Token）
	CreatedAt time.Time  `gorm:"index" json:"created_at"`               // 创建时间
	UpdatedAt time.Time  `json:"updated_at"`                            // 更新时间
}

// TableName 指定表名
func (Credential) TableName() string {
	return "credentials"
}

// Expired 凭据是否已过期
func (c *Credential) Expired(now time.Time) bool {
	if c == nil {
		return true
	}
	return c.ExpiresAt != nil && !now.Before(*c.ExpiresAt)
}
