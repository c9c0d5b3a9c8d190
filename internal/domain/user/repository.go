package user

import (
	"context"
)

// Repository 用户仓储接口
// DDD设计说明：
// 1. 接口定义在domain层（依赖倒置原则）
// 2. 具体实现在infrastructure/persistence/mysql层
// 3. 这样domain层不依赖任何外部框架（GORM、sqlx等）
// 4. 便于单元测试（Mock此接口）
type Repository interface {
	// Create 创建用户
	// 注意：如果用户名已存在，应返回ErrUsernameDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找用户
	// 如果不存在，返回ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByUsername 根据用户名查找用户
	// 如果不存在，返回ErrUserNotFound
	FindByUsername(ctx context.Context, username string) (*User, error)

	// List 查询全部用户（管理端用户列表）
	List(ctx context.Context) ([]*User, error)

	// Update 更新用户信息（密码重置、角色变更）
	Update(ctx context.Context, user *User) error

	// Delete 删除用户（软删除）
	// 调用前必须先确认用户名下无订单（CountOrdersByUser）
	Delete(ctx context.Context, id uint) error

	// CountOrdersByUser 统计用户名下的订单数
	// 用于删除前的完整性预检查：有订单的用户不允许删除
	CountOrdersByUser(ctx context.Context, id uint) (int64, error)
}
