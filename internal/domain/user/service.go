package user

import (
	"context"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/wholesale/pkg/errors"
)

// Service 用户领域服务
// 设计说明：
// 1. Service包含不属于单个实体的业务逻辑（如密码加密、验证）
// 2. Service依赖Repository接口，不依赖具体实现（依赖倒置）
// 3. Service不处理HTTP请求，只处理业务逻辑
type Service interface {
	// Register 创建用户（管理端操作，角色由调用方指定）
	Register(ctx context.Context, username, password string, role Role) (*User, error)

	// Login 用户登录
	Login(ctx context.Context, username, password string) (*User, error)

	// ResetPassword 重置指定用户的密码（管理端操作）
	ResetPassword(ctx context.Context, id uint, newPassword string) error

	// ValidatePassword 验证密码
	ValidatePassword(hashedPassword, plainPassword string) error
}

type service struct {
	repo Repository
}

// NewService 创建用户服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Register 创建用户
// 业务规则：
// 1. 用户名格式校验（3-50位，字母数字下划线）
// 2. 密码强度校验（8-20位，包含字母和数字）
// 3. 密码bcrypt加密（cost=12）
// 4. 用户名唯一性由数据库UNIQUE索引保证
func (s *service) Register(ctx context.Context, username, password string, role Role) (*User, error) {
	// 1. 用户名格式校验
	if !isValidUsername(username) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "用户名应为3-50位字母、数字或下划线")
	}

	// 2. 角色校验
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}

	// 3. 密码强度校验
	if err := validatePasswordStrength(password); err != nil {
		return nil, err
	}

	// 4. 密码加密
	// 学习要点：
	// - bcrypt自动加盐，每次加密结果都不同（即使密码相同）
	// - cost=12是推荐值，平衡安全性与性能（cost每+1，耗时翻倍）
	// - 不要使用MD5/SHA1，已被证明不安全（彩虹表攻击）
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	// 5. 创建用户实体并持久化
	u := NewUser(username, string(hashedPassword), role)
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err // Repository已转换为ErrUsernameDuplicate等业务错误
	}

	return u, nil
}

// Login 用户登录
// 业务规则：
// 1. 用户名必须存在
// 2. 密码必须正确
// 注意：用户不存在与密码错误统一返回ErrInvalidPassword，避免用户名枚举
func (s *service) Login(ctx context.Context, username, password string) (*User, error) {
	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if apperrors.IsAppError(err) && apperrors.GetAppError(err).Code == apperrors.ErrCodeUserNotFound {
			return nil, ErrInvalidPassword
		}
		return nil, err
	}

	if err := s.ValidatePassword(u.Password, password); err != nil {
		return nil, err // 返回ErrInvalidPassword
	}

	return u, nil
}

// ResetPassword 重置密码
// 业务规则：新密码同样走强度校验与bcrypt加密
func (s *service) ResetPassword(ctx context.Context, id uint, newPassword string) error {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := validatePasswordStrength(newPassword); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), 12)
	if err != nil {
		return apperrors.Wrap(err, "密码加密失败")
	}

	u.Password = string(hashedPassword)
	return s.repo.Update(ctx, u)
}

// ValidatePassword 验证密码
// 说明：登录时使用，验证明文密码与哈希值是否匹配
func (s *service) ValidatePassword(hashedPassword, plainPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	if err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return ErrInvalidPassword
		}
		return apperrors.Wrap(err, "密码验证失败")
	}
	return nil
}

// =========================================
// 辅助函数：业务规则校验
// =========================================

// isValidUsername 用户名格式校验
// 规则：3-50位，字母、数字、下划线
func isValidUsername(username string) bool {
	pattern := `^[a-zA-Z0-9_]{3,50}$`
	matched, _ := regexp.MatchString(pattern, username)
	return matched
}

// validatePasswordStrength 密码强度校验
// 规则：8-20位，必须包含字母和数字
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return ErrWeakPassword
	}

	hasLetter := regexp.MustCompile(`[a-zA-Z]`).MatchString(password)
	hasDigit := regexp.MustCompile(`[0-9]`).MatchString(password)

	if !hasLetter || !hasDigit {
		return ErrWeakPassword
	}

	return nil
}
