package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/wholesale/internal/domain/order"
	apperrors "github.com/xiebiao/wholesale/pkg/errors"
)

// orderRepository 订单仓储实现(MySQL)
// 教学要点:
// 1. 所有写方法通过getDB(ctx)加入调用方的事务
// 2. UpsertLine用MySQL的ON DUPLICATE KEY UPDATE表达"累加数量、
//    保留价格快照"的语义,一条SQL完成,无检查-插入竞态
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepository{db: db}
}

// Create 创建订单(仅订单头)
func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	model := &OrderModel{
		UserID: o.UserID,
		Status: string(o.Status),
	}

	db := getDB(ctx, r.db)
	if err := db.Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建订单失败")
	}

	o.ID = model.ID
	o.CreatedAt = model.CreatedAt
	o.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找订单(包含订单行)
func (r *orderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var model OrderModel
	err := getDB(ctx, r.db).Preload("Lines").First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "查询订单失败")
	}
	return toOrderEntity(&model), nil
}

// LockByID 悲观锁查询订单头
// SELECT * FROM orders WHERE id = ? FOR UPDATE
// 教学要点:修改订单内容前先锁订单头,
// 可修改性检查与订单行写入之间订单状态不会被并发请求改变
func (r *orderRepository) LockByID(ctx context.Context, id uint) (*order.Order, error) {
	var model OrderModel
	db := getDB(ctx, r.db)
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "锁定订单失败")
	}
	return toOrderEntity(&model), nil
}

// LockLine 悲观锁查询订单行
func (r *orderRepository) LockLine(ctx context.Context, orderID, productID uint) (*order.OrderLine, error) {
	var model OrderLineModel
	db := getDB(ctx, r.db)
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("order_id = ? AND product_id = ?", orderID, productID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrLineNotFound
		}
		return nil, apperrors.Wrap(err, "锁定订单行失败")
	}

	return &order.OrderLine{
		OrderID:   model.OrderID,
		ProductID: model.ProductID,
		Quantity:  model.Quantity,
		UnitPrice: model.UnitPrice,
	}, nil
}

// UpsertLine 写入/累加订单行
// 教学要点:
// INSERT ... ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)
// 已存在时只累加数量,unit_price不在更新列表中 → 价格快照天然保留
func (r *orderRepository) UpsertLine(ctx context.Context, line *order.OrderLine) error {
	model := &OrderLineModel{
		OrderID:   line.OrderID,
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
		UnitPrice: line.UnitPrice,
	}

	db := getDB(ctx, r.db)
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "order_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("quantity + VALUES(quantity)"),
		}),
	}).Create(model).Error
	if err != nil {
		return apperrors.Wrap(err, "写入订单行失败")
	}
	return nil
}

// DeleteLine 删除订单行
func (r *orderRepository) DeleteLine(ctx context.Context, orderID, productID uint) error {
	db := getDB(ctx, r.db)
	result := db.Where("order_id = ? AND product_id = ?", orderID, productID).
		Delete(&OrderLineModel{})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除订单行失败")
	}
	if result.RowsAffected == 0 {
		return order.ErrLineNotFound
	}
	return nil
}

// UpdateStatus 更新订单状态
func (r *orderRepository) UpdateStatus(ctx context.Context, id uint, status order.Status) error {
	db := getDB(ctx, r.db)
	result := db.Model(&OrderModel{}).
		Where("id = ?", id).
		Update("status", string(status))
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新订单状态失败")
	}
	// RowsAffected为0可能是状态未变化(MySQL不计入),需要区分订单不存在
	if result.RowsAffected == 0 {
		var model OrderModel
		if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return order.ErrOrderNotFound
			}
			return apperrors.Wrap(err, "查询订单失败")
		}
	}
	return nil
}

// ListByUserID 查询用户的订单列表(含订单行)
func (r *orderRepository) ListByUserID(ctx context.Context, userID uint) ([]*order.Order, error) {
	var models []OrderModel
	err := getDB(ctx, r.db).
		Preload("Lines").
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询订单列表失败")
	}

	orders := make([]*order.Order, len(models))
	for i := range models {
		orders[i] = toOrderEntity(&models[i])
	}
	return orders, nil
}

// toOrderEntity GORM模型 → 领域实体
func toOrderEntity(model *OrderModel) *order.Order {
	o := &order.Order{
		ID:        model.ID,
		UserID:    model.UserID,
		Status:    order.Status(model.Status),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
	for _, line := range model.Lines {
		o.Lines = append(o.Lines, order.OrderLine{
			OrderID:   line.OrderID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return o
}
