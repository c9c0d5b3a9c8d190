package product

import (
	"context"
)

// Repository 商品仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 便于Mock测试,不依赖具体数据库实现
// 3. LockByID/UpdateStock是订单事务引擎的库存账本原语,
//    必须通过context加入调用方开启的事务
type Repository interface {
	// Create 创建商品
	Create(ctx context.Context, product *Product) error

	// FindByID 根据ID查找商品
	FindByID(ctx context.Context, id uint) (*Product, error)

	// List 查询全部商品
	List(ctx context.Context) ([]*Product, error)

	// ListLowStock 查询低库存商品(stock <= threshold)
	ListLowStock(ctx context.Context, threshold int) ([]*Product, error)

	// Update 更新商品信息(价格、库存绝对值)
	Update(ctx context.Context, product *Product) error

	// Delete 删除商品(软删除)
	// 调用前必须先通过CountActiveReferences确认无未完结订单引用
	Delete(ctx context.Context, id uint) error

	// CountActiveReferences 统计引用该商品的未完结订单行数
	// 未完结 = 订单状态属于 {NEW, IN_PROGRESS, SHIPPED}
	// 用于删除前的完整性预检查
	CountActiveReferences(ctx context.Context, id uint) (int64, error)

	// LockByID 悲观锁查询商品(用于订单事务中锁定价格与库存)
	// 使用SELECT FOR UPDATE锁定行,防止并发超卖
	// 锁内读到的Price即订单行的价格快照来源
	LockByID(ctx context.Context, id uint) (*Product, error)

	// UpdateStock 更新库存(原子操作)
	// delta为正数表示增加(移除订单行时归还),负数表示扣减
	// SQL层保证 stock + delta >= 0,不足则返回ErrInsufficientStock
	UpdateStock(ctx context.Context, id uint, delta int) error
}
