package order

import (
	"context"
	"time"

	"github.com/xiebiao/wholesale/internal/domain/order"
	"github.com/xiebiao/wholesale/pkg/metrics"
	"github.com/xiebiao/wholesale/pkg/tracing"
)

// ChangeStatusUseCase 修改订单状态用例
// 教学要点:状态修改"只"改状态,不动库存
// 取消订单(CANCELLED)也不归还库存:已扣减的数量视为已出库,
// 归还必须通过显式的移除订单行操作完成(账目可追溯)
type ChangeStatusUseCase struct {
	orderRepo order.Repository
	txManager TxManager
	publisher EventPublisher
}

// NewChangeStatusUseCase 创建修改状态用例
func NewChangeStatusUseCase(
	orderRepo order.Repository,
	txManager TxManager,
	publisher EventPublisher,
) *ChangeStatusUseCase {
	return &ChangeStatusUseCase{
		orderRepo: orderRepo,
		txManager: txManager,
		publisher: publisher,
	}
}

// ChangeStatusRequest 修改状态请求DTO
type ChangeStatusRequest struct {
	OrderID uint
	Status  string // 目标状态(IN_PROGRESS/SHIPPED/FULFILLED/CANCELLED)
}

// Execute 执行状态修改
// 业务规则:
// 1. 目标状态必须是已知状态,且不能是NEW(订单不能回到新建)
// 2. 订单必须存在
// 3. 不做状态机限制:FULFILLED也可以改回IN_PROGRESS(人工纠错场景)
func (uc *ChangeStatusUseCase) Execute(ctx context.Context, req ChangeStatusRequest) error {
	ctx, span := tracing.StartSpan(ctx, "wholesale-api", "ChangeOrderStatus")
	defer span.End()

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return err
	}
	if !status.IsSettable() {
		return order.ErrStatusNotSettable
	}

	start := time.Now()
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 状态修改虽是单条UPDATE,仍走事务+行锁:
		// 与增删订单行的"锁订单头→检查状态"串行化,
		// 防止订单在可修改性检查之后、订单行写入之前被定稿
		if _, err := uc.orderRepo.LockByID(txCtx, req.OrderID); err != nil {
			return err
		}
		return uc.orderRepo.UpdateStatus(txCtx, req.OrderID, status)
	})
	metrics.ObserveHistogramVec(metrics.OrderTxDuration,
		map[string]string{"operation": "change_status"}, time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		metrics.IncCounterVec(metrics.OrdersFailedTotal,
			map[string]string{"operation": "change_status", "reason": failureReason(err)})
		return err
	}

	publishEvent(uc.publisher, EventOrderStatusChanged, OrderEvent{
		OrderID: req.OrderID,
		Status:  string(status),
	})
	return nil
}
