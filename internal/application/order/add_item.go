package order

import (
	"context"
	"time"

	"github.com/xiebiao/wholesale/internal/domain/order"
	"github.com/xiebiao/wholesale/internal/domain/product"
	"github.com/xiebiao/wholesale/pkg/metrics"
	"github.com/xiebiao/wholesale/pkg/tracing"
)

// AddItemUseCase 向订单添加商品用例
// 教学要点:Upsert语义
// 商品已在订单中 → 数量累加,价格快照"不刷新"(保留首次加入时的价格)
// 商品不在订单中 → 以当前价格插入新订单行
type AddItemUseCase struct {
	orderRepo   order.Repository
	productRepo product.Repository
	txManager   TxManager
	publisher   EventPublisher
}

// NewAddItemUseCase 创建添加商品用例
func NewAddItemUseCase(
	orderRepo order.Repository,
	productRepo product.Repository,
	txManager TxManager,
	publisher EventPublisher,
) *AddItemUseCase {
	return &AddItemUseCase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		txManager:   txManager,
		publisher:   publisher,
	}
}

// AddItemRequest 添加商品请求DTO
type AddItemRequest struct {
	OrderID   uint
	ProductID uint
	Quantity  int // 本次新增的数量(累加值,不是目标值)
}

// Execute 执行添加商品
// 事务流程(加锁顺序与其他操作一致:先订单行,再商品行):
//  1. FOR UPDATE锁定订单头,检查状态是否允许修改(NEW/IN_PROGRESS)
//  2. FOR UPDATE锁定商品行
//  3. 锁内检查"本次新增数量"的库存(已占用部分不重复检查)
//  4. Upsert订单行(存在则quantity累加,UnitPrice不变)
//  5. 扣减库存
func (uc *AddItemUseCase) Execute(ctx context.Context, req AddItemRequest) error {
	ctx, span := tracing.StartSpan(ctx, "wholesale-api", "AddOrderItem")
	defer span.End()

	if req.Quantity <= 0 {
		return order.ErrInvalidQuantity
	}

	start := time.Now()
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 步骤1:锁定订单头并检查可修改性
		// 教学要点:状态检查必须在锁内完成,
		// 否则并发的ChangeStatus可能在检查和写入之间定稿订单
		o, err := uc.orderRepo.LockByID(txCtx, req.OrderID)
		if err != nil {
			return err
		}
		if !o.Status.IsModifiable() {
			return order.ErrOrderNotModifiable
		}

		// 步骤2:锁定商品行
		p, err := uc.productRepo.LockByID(txCtx, req.ProductID)
		if err != nil {
			return err
		}

		// 步骤3:库存检查只针对本次新增的数量
		if !p.HasStock(req.Quantity) {
			return product.ErrInsufficientStock
		}

		// 步骤4:Upsert订单行
		// 已存在时Repository执行quantity += req.Quantity,UnitPrice保持首次快照;
		// 不存在时以锁内读到的当前价格插入
		line := &order.OrderLine{
			OrderID:   req.OrderID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			UnitPrice: p.Price,
		}
		if err := uc.orderRepo.UpsertLine(txCtx, line); err != nil {
			return err
		}

		// 步骤5:扣减库存
		if err := uc.productRepo.UpdateStock(txCtx, req.ProductID, -req.Quantity); err != nil {
			return err
		}
		metrics.IncCounterBy(metrics.StockReservedTotal, float64(req.Quantity))
		return nil
	})
	metrics.ObserveHistogramVec(metrics.OrderTxDuration,
		map[string]string{"operation": "add_item"}, time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		metrics.IncCounterVec(metrics.OrdersFailedTotal,
			map[string]string{"operation": "add_item", "reason": failureReason(err)})
		return err
	}

	publishEvent(uc.publisher, EventOrderItemAdded, OrderEvent{
		OrderID:   req.OrderID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	return nil
}
