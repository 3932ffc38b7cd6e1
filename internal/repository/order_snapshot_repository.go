package repository

import (
	"errors"
	"strings"

	"github.com/storefront-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderSnapshotRepository 订单快照数据访问接口
type OrderSnapshotRepository interface {
	Upsert(snapshot *models.OrderSnapshot) error
	GetByOrderID(orderID string) (*models.OrderSnapshot, error)
	UpdateStatus(orderID, status string) error
	Delete(orderID string) error
	ListRecent(userID uint, limit int) ([]models.OrderSnapshot, error)
}

// GormOrderSnapshotRepository GORM 实现
type GormOrderSnapshotRepository struct {
	db *gorm.DB
}

// NewOrderSnapshotRepository 创建订单快照仓库
func NewOrderSnapshotRepository(db *gorm.DB) *GormOrderSnapshotRepository {
	return &GormOrderSnapshotRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderSnapshotRepository) WithTx(tx *gorm.DB) *GormOrderSnapshotRepository {
	if tx == nil {
		return r
	}
	return &GormOrderSnapshotRepository{db: tx}
}

// Upsert 按订单号写入或覆盖快照
func (r *GormOrderSnapshotRepository) Upsert(snapshot *models.OrderSnapshot) error {
	if snapshot == nil || strings.TrimSpace(snapshot.OrderID) == "" {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "order_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"idempotency_key",
			"user_id",
			"cart_id",
			"total_amount",
			"payment_url",
			"status",
			"order_created_at",
			"updated_at",
			"deleted_at",
		}),
	}).Create(snapshot).Error
}

// GetByOrderID 根据订单号获取快照，不存在返回 nil
func (r *GormOrderSnapshotRepository) GetByOrderID(orderID string) (*models.OrderSnapshot, error) {
	var snapshot models.OrderSnapshot
	if err := r.db.Where("order_id = ?", orderID).First(&snapshot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &snapshot, nil
}

// UpdateStatus 更新快照状态
func (r *GormOrderSnapshotRepository) UpdateStatus(orderID, status string) error {
	return r.db.Model(&models.OrderSnapshot{}).
		Where("order_id = ?", orderID).
		Update("status", status).Error
}

// Delete 删除快照
func (r *GormOrderSnapshotRepository) Delete(orderID string) error {
	return r.db.Where("order_id = ?", orderID).Delete(&models.OrderSnapshot{}).Error
}

// ListRecent 获取最近的订单快照
func (r *GormOrderSnapshotRepository) ListRecent(userID uint, limit int) ([]models.OrderSnapshot, error) {
	if limit <= 0 {
		limit = 20
	}
	query := r.db.Model(&models.OrderSnapshot{})
	if userID > 0 {
		query = query.Where("user_id = ?", userID)
	}
	var snapshots []models.OrderSnapshot
	if err := query.Order("order_created_at desc").Limit(limit).Find(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}
