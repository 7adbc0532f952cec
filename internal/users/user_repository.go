package users

import (
	"context"

	"github.com/khanghh/kattend/model"
	"gorm.io/gorm"
)

type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByIDs(ctx context.Context, ids []uint) ([]*model.User, error)
	Count(ctx context.Context, roles ...model.Role) (int64, error)
	Create(ctx context.Context, user *model.User) error
	Updates(ctx context.Context, id uint, columns map[string]interface{}) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []uint) ([]*model.User, error) {
	var users []*model.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *userRepository) Count(ctx context.Context, roles ...model.Role) (int64, error) {
	var count int64
	tx := r.db.WithContext(ctx).Model(&model.User{})
	if len(roles) > 0 {
		tx = tx.Where("role IN ?", roles)
	}
	err := tx.Count(&count).Error
	return count, err
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Updates(ctx context.Context, id uint, columns map[string]interface{}) (int64, error) {
	ret := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(columns)
	return ret.RowsAffected, ret.Error
}

func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return NewUserRepository(tx)
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db}
}
