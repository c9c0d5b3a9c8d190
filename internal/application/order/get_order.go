package order

import (
	"context"

	"github.com/xiebiao/wholesale/internal/domain/order"
	"github.com/xiebiao/wholesale/internal/domain/user"
	apperrors "github.com/xiebiao/wholesale/pkg/errors"
)

// GetOrderUseCase 查询订单用例(只读,不开事务)
type GetOrderUseCase struct {
	orderRepo order.Repository
}

// NewGetOrderUseCase 创建查询订单用例
func NewGetOrderUseCase(orderRepo order.Repository) *GetOrderUseCase {
	return &GetOrderUseCase{orderRepo: orderRepo}
}

// OrderLineView 订单行视图
type OrderLineView struct {
	ProductID uint  `json:"product_id"`
	Quantity  int   `json:"quantity"`
	UnitPrice int64 `json:"unit_price"`
	LineTotal int64 `json:"line_total"`
}

// OrderView 订单视图
type OrderView struct {
	OrderID   uint            `json:"order_id"`
	UserID    uint            `json:"user_id"`
	Status    string          `json:"status"`
	Total     int64           `json:"total"` // 基于价格快照汇总
	Lines     []OrderLineView `json:"lines"`
	CreatedAt string          `json:"created_at"`
}

// Execute 查询单个订单
// 权限规则:customer只能查看自己的订单,manager/admin可查看任意订单
func (uc *GetOrderUseCase) Execute(ctx context.Context, orderID, requesterID uint, requesterRole user.Role) (*OrderView, error) {
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if requesterRole == user.RoleCustomer && !o.IsOwnedBy(requesterID) {
		return nil, apperrors.ErrForbidden
	}

	return toOrderView(o), nil
}

func toOrderView(o *order.Order) *OrderView {
	view := &OrderView{
		OrderID:   o.ID,
		UserID:    o.UserID,
		Status:    string(o.Status),
		Total:     o.Total(),
		Lines:     make([]OrderLineView, 0, len(o.Lines)),
		CreatedAt: o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	for _, line := range o.Lines {
		view.Lines = append(view.Lines, OrderLineView{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal(),
		})
	}
	return view
}
