package order

import (
	"time"
)

// Order 订单实体(聚合根)
// 教学要点:
// 1. Order是聚合根,OrderLine是子实体
// 2. 订单没有冗余的总金额字段:总额永远由订单行快照价格实时汇总,
//    避免增删订单行时维护两份数据的不一致风险
// 3. 订单行可以被全部移除,空订单是合法状态(历史记录仍有意义)
type Order struct {
	ID        uint
	UserID    uint        // 下单用户ID
	Status    Status      // 订单状态
	Lines     []OrderLine // 订单行(聚合内的子实体)
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderLine 订单行
// 教学要点:
// 1. 不是独立聚合根,必须通过Order访问
// 2. 复合主键(OrderID, ProductID):同一商品在一个订单中只有一行,
//    重复添加累加Quantity
// 3. UnitPrice是"加入订单行时"的价格快照(FOR UPDATE锁内读取),
//    商品改价后历史订单金额不变;累加数量时也不刷新快照
type OrderLine struct {
	OrderID   uint
	ProductID uint
	Quantity  int
	UnitPrice int64 // 价格快照(分)
}

// LineTotal 订单行小计(快照单价 x 数量)
func (l OrderLine) LineTotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// NewOrder 创建新订单(工厂方法)
// 初始状态为NEW,订单行由应用层在同一事务中逐条写入
func NewOrder(userID uint) *Order {
	now := time.Now()
	return &Order{
		UserID:    userID,
		Status:    StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Total 计算订单总金额
// 教学要点:基于订单行的价格快照汇总,与商品当前价格无关
func (o *Order) Total() int64 {
	var total int64
	for _, line := range o.Lines {
		total += line.LineTotal()
	}
	return total
}

// IsOwnedBy 检查订单是否属于指定用户
// 教学要点:权限校验,防止用户访问他人订单
func (o *Order) IsOwnedBy(userID uint) bool {
	return o.UserID == userID
}
