package auth

import (
	"errors"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"StockPulse/pkg/model"
)

// 认证相关错误类别
var (
	// ErrUsernameExists 用户名已被注册
	ErrUsernameExists = errors.New("用户名已存在")
	// ErrEmailExists 邮箱已被注册
	ErrEmailExists = errors.New("邮箱已存在")
	// ErrInvalidCredentials 邮箱或密码错误
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
)

// UserStore 用户存储接口
type UserStore interface {
	Create(user *model.User) error
	GetByEmail(email string) (*model.User, error)
	ExistsByUsername(username string) (bool, error)
	ExistsByEmail(email string) (bool, error)
	UpdateLastLogin(userID string) error
}

// Service 用户注册登录服务
type Service struct {
	users UserStore
}

// NewService 创建认证服务
func NewService(users UserStore) *Service {
	return &Service{users: users}
}

// Register 注册新用户，用户名和邮箱均不可重复
func (s *Service) Register(username, email, password string) (*model.User, error) {
	exists, err := s.users.ExistsByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("检查用户名失败: %w", err)
	}
	if exists {
		return nil, ErrUsernameExists
	}

	exists, err = s.users.ExistsByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("检查邮箱失败: %w", err)
	}
	if exists {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("生成密码哈希失败: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(user); err != nil {
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}

	return user, nil
}

// Login 校验邮箱和密码，成功后刷新最后登录时间
func (s *Service) Login(email, password string) (*model.User, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 登录时间刷新失败不阻断登录
	if err := s.users.UpdateLastLogin(user.ID); err != nil {
		log.Printf("刷新最后登录时间失败: 用户=%s, 错误=%v\n", user.ID, err)
	}

	return user, nil
}
