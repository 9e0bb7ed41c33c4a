package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"algotutor-go/internal/model"
	"algotutor-go/internal/repository"
	"algotutor-go/pkg/hash"
	"algotutor-go/pkg/log"
)

// UserService 接口定义了与用户记录相关的业务操作。本系统不做登录鉴权，用户只是普通记录。
type UserService interface {
	Register(ctx context.Context, username, password string) (*model.User, error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
}

// userService 是 UserService 接口的实现。
type userService struct {
	userRepo repository.UserRepository
}

// NewUserService 创建一个新的 UserService 实例。
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// Register 处理用户注册的业务逻辑。
func (s *userService) Register(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	// 1. 检查用户名是否已存在
	_, err := s.userRepo.FindUserByUsername(ctx, username)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// 2. 对密码进行哈希处理
	hashedPassword, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	// 3. 将用户存入数据库以生成ID
	user := &model.User{
		Username: username,
		Password: hashedPassword,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		log.Errorf("[UserService] 创建用户失败, username: %s, error: %v", username, err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetUser 根据 ID 获取用户。
func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
