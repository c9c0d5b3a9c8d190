package order

import (
	"context"
)

// Repository 订单仓储接口(依赖倒置原则)
// 教学要点:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 所有方法通过context加入调用方的事务(TxManager契约)
// 3. 锁定方法是事务引擎的并发控制原语:
//    统一的加锁顺序是"先订单行锁,再按商品ID升序锁商品",防止死锁
type Repository interface {
	// Create 创建订单(不含订单行,订单行由事务内逐条写入)
	// 创建成功后回填order.ID
	Create(ctx context.Context, order *Order) error

	// FindByID 根据ID查找订单(包含订单行)
	FindByID(ctx context.Context, id uint) (*Order, error)

	// LockByID 悲观锁查询订单(仅订单头,不含订单行)
	// 用于修改订单内容前锁定订单行记录并检查状态
	LockByID(ctx context.Context, id uint) (*Order, error)

	// LockLine 悲观锁查询订单行
	// 不存在返回ErrLineNotFound
	LockLine(ctx context.Context, orderID, productID uint) (*OrderLine, error)

	// UpsertLine 写入/累加订单行
	// 已存在(order_id, product_id)时执行quantity += line.Quantity,
	// UnitPrice保持首次写入的快照;不存在时插入
	UpsertLine(ctx context.Context, line *OrderLine) error

	// DeleteLine 删除订单行
	DeleteLine(ctx context.Context, orderID, productID uint) error

	// UpdateStatus 更新订单状态
	// 订单不存在返回ErrOrderNotFound
	UpdateStatus(ctx context.Context, id uint, status Status) error

	// ListByUserID 查询用户的订单列表(含订单行)
	ListByUserID(ctx context.Context, userID uint) ([]*Order, error)
}
