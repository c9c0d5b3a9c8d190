package order

import (
	"context"
	"time"

	"github.com/xiebiao/wholesale/internal/domain/order"
	"github.com/xiebiao/wholesale/internal/domain/product"
	"github.com/xiebiao/wholesale/pkg/metrics"
	"github.com/xiebiao/wholesale/pkg/tracing"
)

// RemoveItemUseCase 从订单移除商品用例
// 教学要点:移除订单行要把该行占用的全部数量归还库存,
// 删除行与归还库存必须在同一事务中(部分成功会造成库存账目错乱)
type RemoveItemUseCase struct {
	orderRepo   order.Repository
	productRepo product.Repository
	txManager   TxManager
	publisher   EventPublisher
}

// NewRemoveItemUseCase 创建移除商品用例
func NewRemoveItemUseCase(
	orderRepo order.Repository,
	productRepo product.Repository,
	txManager TxManager,
	publisher EventPublisher,
) *RemoveItemUseCase {
	return &RemoveItemUseCase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		txManager:   txManager,
		publisher:   publisher,
	}
}

// RemoveItemRequest 移除商品请求DTO
type RemoveItemRequest struct {
	OrderID   uint
	ProductID uint
}

// Execute 执行移除商品
// 事务流程:
//  1. FOR UPDATE锁定订单头,检查状态是否允许修改
//  2. FOR UPDATE锁定订单行(不存在 → LineNotFound)
//  3. 删除订单行
//  4. 归还库存(stock += line.Quantity)
//
// 注意:移除最后一行后订单可以为空,空订单是合法状态
func (uc *RemoveItemUseCase) Execute(ctx context.Context, req RemoveItemRequest) error {
	ctx, span := tracing.StartSpan(ctx, "wholesale-api", "RemoveOrderItem")
	defer span.End()

	var removedQty int
	start := time.Now()
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 步骤1:锁定订单头并检查可修改性
		o, err := uc.orderRepo.LockByID(txCtx, req.OrderID)
		if err != nil {
			return err
		}
		if !o.Status.IsModifiable() {
			return order.ErrOrderNotModifiable
		}

		// 步骤2:锁定订单行,拿到待归还的数量
		line, err := uc.orderRepo.LockLine(txCtx, req.OrderID, req.ProductID)
		if err != nil {
			return err
		}
		removedQty = line.Quantity

		// 步骤3:删除订单行
		if err := uc.orderRepo.DeleteLine(txCtx, req.OrderID, req.ProductID); err != nil {
			return err
		}

		// 步骤4:归还库存(delta为正数)
		if err := uc.productRepo.UpdateStock(txCtx, req.ProductID, line.Quantity); err != nil {
			return err
		}
		metrics.IncCounterBy(metrics.StockReleasedTotal, float64(line.Quantity))
		return nil
	})
	metrics.ObserveHistogramVec(metrics.OrderTxDuration,
		map[string]string{"operation": "remove_item"}, time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		metrics.IncCounterVec(metrics.OrdersFailedTotal,
			map[string]string{"operation": "remove_item", "reason": failureReason(err)})
		return err
	}

	publishEvent(uc.publisher, EventOrderItemRemoved, OrderEvent{
		OrderID:   req.OrderID,
		ProductID: req.ProductID,
		Quantity:  removedQty,
	})
	return nil
}
