package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/wholesale/internal/application/report"
	apperrors "github.com/xiebiao/wholesale/pkg/errors"
)

// reportRepository 报表读模型实现(MySQL,原生SQL)
// 设计说明:
// 1. 报表是纯读路径,不经过领域仓储:聚合与窗口函数直接用SQL表达
// 2. 原生SQL绕过GORM的软删除过滤:已删除商品的名称在历史订单明细中仍可见,
//    这是有意为之(历史报表的完整性优先)
type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository 创建报表仓储
func NewReportRepository(db *gorm.DB) report.Reader {
	return &reportRepository{db: db}
}

// historyRow 历史查询扫描结构
type historyRow struct {
	OrderID         uint
	Status          string
	CreatedAt       time.Time
	OrderTotal      int64
	CumulativeTotal int64
}

// OrderHistory 用户订单历史:每单总额+累计金额
// 教学要点:窗口函数套聚合
// 内层SUM(quantity*unit_price)是每单的GROUP BY聚合,
// 外层SUM(...) OVER (ORDER BY created_at, id)在聚合结果上做累计,
// 一条SQL同时得到单笔金额和流水累计,应用层无需二次遍历
func (r *reportRepository) OrderHistory(ctx context.Context, userID uint) ([]report.OrderHistoryRow, error) {
	const query = `
		SELECT o.id                                        AS order_id,
		       o.status                                    AS status,
		       o.created_at                                AS created_at,
		       COALESCE(SUM(l.quantity * l.unit_price), 0) AS order_total,
		       SUM(COALESCE(SUM(l.quantity * l.unit_price), 0))
		           OVER (ORDER BY o.created_at, o.id)      AS cumulative_total
		FROM orders o
		LEFT JOIN order_lines l ON l.order_id = o.id
		WHERE o.user_id = ?
		GROUP BY o.id, o.status, o.created_at
		ORDER BY o.created_at, o.id`

	var rows []historyRow
	if err := r.db.WithContext(ctx).Raw(query, userID).Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询订单历史失败")
	}

	result := make([]report.OrderHistoryRow, len(rows))
	for i, row := range rows {
		result[i] = report.OrderHistoryRow{
			OrderID:         row.OrderID,
			Status:          row.Status,
			CreatedAt:       row.CreatedAt.Format("2006-01-02 15:04:05"),
			OrderTotal:      row.OrderTotal,
			CumulativeTotal: row.CumulativeTotal,
		}
	}
	return result, nil
}

// OrderDetails 订单明细:订单行 x 商品名称
// 订单不存在或没有订单行时返回空切片(上层决定是否404)
func (r *reportRepository) OrderDetails(ctx context.Context, orderID uint) ([]report.OrderDetailRow, error) {
	const query = `
		SELECT o.id                         AS order_id,
		       o.user_id                    AS order_user_id,
		       o.status                     AS status,
		       l.product_id                 AS product_id,
		       p.name                       AS product_name,
		       l.quantity                   AS quantity,
		       l.unit_price                 AS unit_price,
		       l.quantity * l.unit_price    AS line_total
		FROM orders o
		JOIN order_lines l ON l.order_id = o.id
		JOIN products p    ON p.id = l.product_id
		WHERE o.id = ?
		ORDER BY l.product_id`

	var rows []report.OrderDetailRow
	if err := r.db.WithContext(ctx).Raw(query, orderID).Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询订单明细失败")
	}
	return rows, nil
}
