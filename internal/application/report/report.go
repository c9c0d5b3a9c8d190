package report

import (
	"context"

	"github.com/xiebiao/wholesale/internal/domain/product"
	"github.com/xiebiao/wholesale/internal/domain/user"
	apperrors "github.com/xiebiao/wholesale/pkg/errors"
)

// Reader 报表读模型接口
// 设计说明:
// 1. 报表是纯读视图,不走领域仓储:聚合/窗口函数直接用SQL表达,
//    在应用层用Go重算既慢又容易和数据库口径不一致
// 2. mysql.ReportRepo是唯一实现,内部使用原生SQL
type Reader interface {
	// OrderHistory 用户订单历史:每单总额+累计金额(窗口函数计算)
	OrderHistory(ctx context.Context, userID uint) ([]OrderHistoryRow, error)

	// OrderDetails 订单明细:订单行 x 商品名称
	// 订单不存在或没有订单行时返回空切片
	OrderDetails(ctx context.Context, orderID uint) ([]OrderDetailRow, error)
}

// OrderHistoryRow 订单历史行
type OrderHistoryRow struct {
	OrderID         uint   `json:"order_id"`
	Status          string `json:"status"`
	CreatedAt       string `json:"created_at"`
	OrderTotal      int64  `json:"order_total"`      // 本单总额(快照价格汇总)
	CumulativeTotal int64  `json:"cumulative_total"` // 截至本单的累计金额
}

// OrderDetailRow 订单明细行
type OrderDetailRow struct {
	OrderID     uint   `json:"order_id"`
	OrderUserID uint   `json:"-"` // 仅用于权限检查,不输出
	Status      string `json:"status"`
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	LineTotal   int64  `json:"line_total"`
}

// 报表层错误
var (
	// ErrNoOrders 用户没有任何订单
	ErrNoOrders = apperrors.New(apperrors.ErrCodeNotFound, "该用户没有订单")

	// ErrNoDetails 订单不存在或没有明细
	ErrNoDetails = apperrors.New(apperrors.ErrCodeNotFound, "订单不存在或没有明细")
)

// ReportUseCase 报表用例
type ReportUseCase struct {
	reader            Reader
	productRepo       product.Repository
	lowStockThreshold int // 低库存阈值(配置,默认5)
}

// NewReportUseCase 创建报表用例
func NewReportUseCase(reader Reader, productRepo product.Repository, lowStockThreshold int) *ReportUseCase {
	return &ReportUseCase{
		reader:            reader,
		productRepo:       productRepo,
		lowStockThreshold: lowStockThreshold,
	}
}

// History 查询用户订单历史
// 权限规则:customer只能查自己的历史,manager/admin可查任意用户
func (uc *ReportUseCase) History(ctx context.Context, targetUserID, requesterID uint, requesterRole user.Role) ([]OrderHistoryRow, error) {
	if requesterRole == user.RoleCustomer && targetUserID != requesterID {
		return nil, apperrors.ErrForbidden
	}

	rows, err := uc.reader.OrderHistory(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoOrders
	}
	return rows, nil
}

// LowStock 查询低库存商品(stock <= 阈值)
func (uc *ReportUseCase) LowStock(ctx context.Context) ([]*product.Product, error) {
	return uc.productRepo.ListLowStock(ctx, uc.lowStockThreshold)
}

// Details 查询订单明细
// 权限规则:customer只能查自己的订单
func (uc *ReportUseCase) Details(ctx context.Context, orderID, requesterID uint, requesterRole user.Role) ([]OrderDetailRow, error) {
	rows, err := uc.reader.OrderDetails(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoDetails
	}
	if requesterRole == user.RoleCustomer && rows[0].OrderUserID != requesterID {
		return nil, apperrors.ErrForbidden
	}
	return rows, nil
}
