package repository

import (
	"errors"

	"github.com/storefront-next/internal/models"

	"gorm.io/gorm"
)

// CredentialRepository 登录凭据数据访问接口
type CredentialRepository interface {
	Get() (*models.Credential, error)
	Save(credential *models.Credential) error
	Delete() error
}

// GormCredentialRepository GORM 实现
// 同一时刻只保留一条有效凭据
type GormCredentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository 创建凭据仓库
func NewCredentialRepository(db *gorm.DB) *GormCredentialRepository {
	return &GormCredentialRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCredentialRepository) WithTx(tx *gorm.DB) *GormCredentialRepository {
	if tx == nil {
		return r
	}
	return &GormCredentialRepository{db: tx}
}

// Get 获取当前凭据，不存在返回 nil
func (r *GormCredentialRepository) Get() (*models.Credential, error) {
	var credential models.Credential
	if err := r.db.Order("id desc").First(&credential).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &credential, nil
}

// Save 替换当前凭据
func (r *GormCredentialRepository) Save(credential *models.Credential) error {
	if credential == nil {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Credential{}).Error; err != nil {
			return err
		}
		credential.ID = 0
		return tx.Create(credential).Error
	})
}

// Delete 清除凭据（登出）
func (r *GormCredentialRepository) Delete() error {
	return r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Credential{}).Error
}
