package audit

import (
	"context"
	"time"

	"github.com/khanghh/kattend/model"
	"gorm.io/gorm"
)

// LoginHistoryRepository is append-only: records are never updated or deleted.
type LoginHistoryRepository interface {
	Create(ctx context.Context, record *model.LoginHistory) error
	Find(ctx context.Context, filter Filter) ([]*model.LoginHistory, error)
	Count(ctx context.Context, status model.LoginStatus, since time.Time) (int64, error)
}

type loginHistoryRepository struct {
	db *gorm.DB
}

func (r *loginHistoryRepository) Create(ctx context.Context, record *model.LoginHistory) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *loginHistoryRepository) Find(ctx context.Context, filter Filter) ([]*model.LoginHistory, error) {
	tx := r.db.WithContext(ctx).Model(&model.LoginHistory{})
	if filter.UserID != nil {
		tx = tx.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}
	var records []*model.LoginHistory
	err := tx.Order("login_time DESC").Order("id DESC").Find(&records).Error
	return records, err
}

// Count counts records with the given status, since is ignored when zero.
func (r *loginHistoryRepository) Count(ctx context.Context, status model.LoginStatus, since time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.LoginHistory{}).Where("status = ?", status)
	if !since.IsZero() {
		tx = tx.Where("login_time >= ?", since.UTC())
	}
	var count int64
	err := tx.Count(&count).Error
	return count, err
}

func NewLoginHistoryRepository(db *gorm.DB) LoginHistoryRepository {
	return &loginHistoryRepository{db: db}
}
