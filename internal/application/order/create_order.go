package order

import (
	"context"
	"sort"
	"time"

	"github.com/xiebiao/wholesale/internal/domain/order"
	"github.com/xiebiao/wholesale/internal/domain/product"
	"github.com/xiebiao/wholesale/pkg/metrics"
	"github.com/xiebiao/wholesale/pkg/tracing"
)

// CreateOrderUseCase 创建订单用例
// 教学要点:这是整个项目最核心的用例之一
// 涉及:事务处理、并发控制(悲观锁)、价格快照、业务规则校验
type CreateOrderUseCase struct {
	orderRepo   order.Repository
	productRepo product.Repository
	txManager   TxManager
	publisher   EventPublisher
}

// NewCreateOrderUseCase 创建下单用例
func NewCreateOrderUseCase(
	orderRepo order.Repository,
	productRepo product.Repository,
	txManager TxManager,
	publisher EventPublisher,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		txManager:   txManager,
		publisher:   publisher,
	}
}

// CreateOrderRequest 下单请求DTO
type CreateOrderRequest struct {
	UserID uint              // 下单用户ID(从JWT中提取)
	Items  []CreateOrderItem // 订单明细
}

// CreateOrderItem 订单明细项
type CreateOrderItem struct {
	ProductID uint // 商品ID
	Quantity  int  // 购买数量
}

// CreateOrderResponse 下单响应DTO
type CreateOrderResponse struct {
	OrderID   uint   `json:"order_id"`
	Total     int64  `json:"total"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// Execute 执行下单用例
// 教学重点:防止超卖的完整流程
//
// 核心问题:库存超卖
// 场景:商品库存10个,100人同时下单
// 错误实现:先SELECT库存再判断再UPDATE,多个请求会同时通过判断(超卖!)
//
// 正确实现:悲观锁
//  1. 插入订单头(状态NEW)
//  2. 按商品ID"升序"逐个 SELECT FOR UPDATE 锁定商品行
//  3. 锁内检查库存是否充足
//  4. 以锁内读到的价格写入订单行(价格快照)
//  5. 扣减库存(SQL层再保证 stock >= 0)
//  6. COMMIT释放锁;任何一步失败,整个订单回滚
//
// 加锁顺序说明:所有并发事务都按同一顺序(订单行→商品ID升序)加锁,
// 两个多商品订单不会互相持有对方等待的锁,从根上消除死锁
func (uc *CreateOrderUseCase) Execute(ctx context.Context, req CreateOrderRequest) (*CreateOrderResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "wholesale-api", "CreateOrder")
	defer span.End()

	// 1. 参数校验(开事务前完成,无效请求不占用数据库连接)
	if len(req.Items) == 0 {
		return nil, order.ErrEmptyItems
	}
	seen := make(map[uint]bool, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, order.ErrInvalidQuantity
		}
		// 同一商品出现两次视为无效请求:
		// 调用方语义不明确(累加还是覆盖?),拒绝比猜测安全
		if seen[item.ProductID] {
			return nil, order.ErrDuplicateItems
		}
		seen[item.ProductID] = true
	}

	// 2. 按商品ID升序排序(统一加锁顺序)
	items := make([]CreateOrderItem, len(req.Items))
	copy(items, req.Items)
	sort.Slice(items, func(i, j int) bool {
		return items[i].ProductID < items[j].ProductID
	})

	// 3. 事务执行整个下单流程
	// 教学要点:事务保证原子性,要么全成功,要么全失败
	start := time.Now()
	var result *order.Order
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 步骤1:插入订单头(状态NEW)
		newOrder := order.NewOrder(req.UserID)
		if err := uc.orderRepo.Create(txCtx, newOrder); err != nil {
			return err
		}

		// 步骤2-5:逐商品 锁定→检查→快照→扣减
		for _, item := range items {
			// LockByID执行:SELECT * FROM products WHERE id = ? FOR UPDATE
			// 其他事务必须等待当前事务COMMIT或ROLLBACK后才能访问该行
			p, err := uc.productRepo.LockByID(txCtx, item.ProductID)
			if err != nil {
				return err
			}

			// 锁内检查库存
			// 教学要点:必须在锁定后检查,否则并发扣减会超卖
			if !p.HasStock(item.Quantity) {
				return product.ErrInsufficientStock
			}

			// 订单行价格 = 锁内读到的商品当前价格(快照)
			// 防止改价攻击:价格永远来自数据库,不信任前端
			line := &order.OrderLine{
				OrderID:   newOrder.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: p.Price,
			}
			if err := uc.orderRepo.UpsertLine(txCtx, line); err != nil {
				return err
			}
			newOrder.Lines = append(newOrder.Lines, *line)

			// 扣减库存;SQL层的 stock + delta >= 0 条件是最后一道防线
			if err := uc.productRepo.UpdateStock(txCtx, item.ProductID, -item.Quantity); err != nil {
				return err
			}
			metrics.IncCounterBy(metrics.StockReservedTotal, float64(item.Quantity))
		}

		result = newOrder
		return nil
	})
	metrics.ObserveHistogramVec(metrics.OrderTxDuration,
		map[string]string{"operation": "create_order"}, time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		metrics.IncCounterVec(metrics.OrdersFailedTotal,
			map[string]string{"operation": "create_order", "reason": failureReason(err)})
		return nil, err
	}

	metrics.IncCounter(metrics.OrdersCreatedTotal)

	// 事务提交后发布事件(尽力而为,失败不影响订单)
	publishEvent(uc.publisher, EventOrderCreated, OrderEvent{
		OrderID: result.ID,
		UserID:  result.UserID,
		Total:   result.Total(),
		Status:  string(result.Status),
	})

	return &CreateOrderResponse{
		OrderID:   result.ID,
		Total:     result.Total(),
		Status:    string(result.Status),
		CreatedAt: result.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}
