package product

import (
	"time"
)

// Product 商品实体(聚合根)
// DDD设计说明:
// 1. Product是商品聚合的根实体,价格与库存是订单事务引擎的核心输入
// 2. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 3. 库存不变量:任何已提交事务之后 Stock >= 0
type Product struct {
	ID        uint
	Name      string // 商品名称
	Price     int64  // 单价(单位:分,1元=100分)
	Stock     int    // 库存数量
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProduct 创建新商品(工厂方法)
// 业务规则:价格必须>0,初始库存必须>=0
func NewProduct(name string, price int64, stock int) (*Product, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	if stock < 0 {
		return nil, ErrInvalidStock
	}
	now := time.Now()
	return &Product{
		Name:      name,
		Price:     price,
		Stock:     stock,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// UpdatePrice 更新价格(领域行为)
// 业务规则:价格必须>0
// 注意:改价不影响已有订单行的UnitPrice快照
func (p *Product) UpdatePrice(newPrice int64) error {
	if newPrice <= 0 {
		return ErrInvalidPrice
	}
	p.Price = newPrice
	p.UpdatedAt = time.Now()
	return nil
}

// SetStock 设置库存(领域行为,绝对值)
// 业务规则:库存不能为负数
func (p *Product) SetStock(newStock int) error {
	if newStock < 0 {
		return ErrInvalidStock
	}
	p.Stock = newStock
	p.UpdatedAt = time.Now()
	return nil
}

// HasStock 检查库存是否足够扣减quantity
// 在FOR UPDATE锁内调用,用于事务中的可用性检查
func (p *Product) HasStock(quantity int) bool {
	return p.Stock >= quantity
}
