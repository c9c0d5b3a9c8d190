package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/wholesale/internal/domain/order"
	"github.com/xiebiao/wholesale/internal/domain/product"
	apperrors "github.com/xiebiao/wholesale/pkg/errors"
)

// productRepository 商品仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/product/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误,转换为业务错误
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) product.Repository {
	return &productRepository{db: db}
}

// Create 创建商品
func (r *productRepository) Create(ctx context.Context, p *product.Product) error {
	model := &ProductModel{
		Name:  p.Name,
		Price: p.Price,
		Stock: p.Stock,
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建商品失败")
	}

	// 回填自增ID
	p.ID = model.ID
	p.CreatedAt = model.CreatedAt
	p.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找商品
func (r *productRepository) FindByID(ctx context.Context, id uint) (*product.Product, error) {
	var model ProductModel
	err := r.db.WithContext(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, apperrors.Wrap(err, "查询商品失败")
	}
	return toProductEntity(&model), nil
}

// List 查询全部商品
func (r *productRepository) List(ctx context.Context) ([]*product.Product, error) {
	var models []ProductModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询商品列表失败")
	}

	products := make([]*product.Product, len(models))
	for i := range models {
		products[i] = toProductEntity(&models[i])
	}
	return products, nil
}

// ListLowStock 查询低库存商品(stock <= threshold)
func (r *productRepository) ListLowStock(ctx context.Context, threshold int) ([]*product.Product, error) {
	var models []ProductModel
	err := r.db.WithContext(ctx).
		Where("stock <= ?", threshold).
		Order("stock ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询低库存商品失败")
	}

	products := make([]*product.Product, len(models))
	for i := range models {
		products[i] = toProductEntity(&models[i])
	}
	return products, nil
}

// Update 更新商品信息
func (r *productRepository) Update(ctx context.Context, p *product.Product) error {
	model := &ProductModel{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt,
	}

	// 教学要点:用getDB参与调用方的事务(盘点设置库存在锁内完成)
	db := getDB(ctx, r.db)
	if err := db.Save(model).Error; err != nil {
		return apperrors.Wrap(err, "更新商品失败")
	}

	p.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete 删除商品(软删除)
func (r *productRepository) Delete(ctx context.Context, id uint) error {
	db := getDB(ctx, r.db)
	result := db.Delete(&ProductModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除商品失败")
	}
	if result.RowsAffected == 0 {
		return product.ErrProductNotFound
	}
	return nil
}

// CountActiveReferences 统计引用该商品的未完结订单行数
// 未完结 = 订单状态属于 {NEW, IN_PROGRESS, SHIPPED}
func (r *productRepository) CountActiveReferences(ctx context.Context, id uint) (int64, error) {
	var count int64
	db := getDB(ctx, r.db)
	err := db.Model(&OrderLineModel{}).
		Joins("JOIN orders ON orders.id = order_lines.order_id").
		Where("order_lines.product_id = ?", id).
		Where("orders.status IN ?", []string{
			string(order.StatusNew),
			string(order.StatusInProgress),
			string(order.StatusShipped),
		}).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "统计商品引用失败")
	}
	return count, nil
}

// LockByID 悲观锁查询商品(用于订单事务)
func (r *productRepository) LockByID(ctx context.Context, id uint) (*product.Product, error) {
	var model ProductModel
	// SELECT * FROM products WHERE id = ? FOR UPDATE
	// 教学要点:必须使用getDB(ctx)从context获取事务DB,
	// 否则锁加在另一个连接上,起不到任何保护作用
	db := getDB(ctx, r.db)
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, apperrors.Wrap(err, "锁定商品失败")
	}
	return toProductEntity(&model), nil
}

// UpdateStock 更新库存(原子操作)
func (r *productRepository) UpdateStock(ctx context.Context, id uint, delta int) error {
	// UPDATE products SET stock = stock + delta WHERE id = ? AND stock + delta >= 0
	// 教学要点:WHERE条件里的stock + delta >= 0是库存不变量的最后一道防线,
	// 即使应用层检查有疏漏,数据库也不会出现负库存
	db := getDB(ctx, r.db)
	result := db.Model(&ProductModel{}).
		Where("id = ?", id).
		Where("stock + ? >= 0", delta).
		Update("stock", gorm.Expr("stock + ?", delta))

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新库存失败")
	}

	if result.RowsAffected == 0 {
		// 可能是商品不存在,或者库存不足,再查一次确定原因
		var model ProductModel
		if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return product.ErrProductNotFound
			}
			return apperrors.Wrap(err, "查询商品失败")
		}
		// 商品存在,说明是库存不足
		return product.ErrInsufficientStock
	}

	return nil
}

// toProductEntity GORM模型 → 领域实体
func toProductEntity(model *ProductModel) *product.Product {
	return &product.Product{
		ID:        model.ID,
		Name:      model.Name,
		Price:     model.Price,
		Stock:     model.Stock,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
