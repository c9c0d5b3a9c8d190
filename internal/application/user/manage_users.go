package user

import (
	"context"

	"github.com/xiebiao/wholesale/internal/domain/user"
)

// ManageUsersUseCase 用户管理用例（管理端）
// 设计说明：
// 1. 创建/重置密码的业务规则（格式、强度、加密）在领域服务内完成
// 2. 删除用户前做订单引用预检查：有订单的用户删除会破坏报表与审计链路，
//    用明确的业务错误拒绝，而不是依赖数据库外键错误反推原因
type ManageUsersUseCase struct {
	userService user.Service
	userRepo    user.Repository
}

// NewManageUsersUseCase 创建用户管理用例
func NewManageUsersUseCase(userService user.Service, userRepo user.Repository) *ManageUsersUseCase {
	return &ManageUsersUseCase{
		userService: userService,
		userRepo:    userRepo,
	}
}

// CreateUserRequest 创建用户请求DTO
type CreateUserRequest struct {
	Username string
	Password string
	Role     string // customer/manager/admin
}

// Create 创建用户
func (uc *ManageUsersUseCase) Create(ctx context.Context, req CreateUserRequest) (*UserInfo, error) {
	role, err := user.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	u, err := uc.userService.Register(ctx, req.Username, req.Password, role)
	if err != nil {
		return nil, err
	}

	return &UserInfo{
		ID:       u.ID,
		Username: u.Username,
		Role:     string(u.Role),
	}, nil
}

// ResetPassword 重置指定用户的密码
func (uc *ManageUsersUseCase) ResetPassword(ctx context.Context, id uint, newPassword string) error {
	return uc.userService.ResetPassword(ctx, id, newPassword)
}

// Delete 删除用户
// 业务规则：名下存在订单的用户不能删除
func (uc *ManageUsersUseCase) Delete(ctx context.Context, id uint) error {
	if _, err := uc.userRepo.FindByID(ctx, id); err != nil {
		return err
	}

	count, err := uc.userRepo.CountOrdersByUser(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return user.ErrUserHasOrders
	}

	return uc.userRepo.Delete(ctx, id)
}

// List 查询全部用户
func (uc *ManageUsersUseCase) List(ctx context.Context) ([]*UserInfo, error) {
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*UserInfo, 0, len(users))
	for _, u := range users {
		result = append(result, &UserInfo{
			ID:       u.ID,
			Username: u.Username,
			Role:     string(u.Role),
		})
	}
	return result, nil
}
