package database

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"StockPulse/pkg/model"
)

type UserDB struct {
	db *gorm.DB
}

func (p *Postgres) User() *UserDB {
	return &UserDB{db: p.db}
}

func (u *UserDB) Create(user *model.User) error {
	return u.db.Create(user).Error
}

func (u *UserDB) GetByEmail(email string) (*model.User, error) {
	var user model.User
	err := u.db.First(&user, "email = ?", email).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("用户不存在")
		}
		return nil, fmt.Errorf("根据邮箱获取用户信息失败: %w", err)
	}
	return &user, nil
}

func (u *UserDB) UpdateLastLogin(userID string) error {
	return u.db.Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_login_at", time.Now()).Error
}

func (u *UserDB) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := u.db.Model(&model.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (u *UserDB) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := u.db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}
