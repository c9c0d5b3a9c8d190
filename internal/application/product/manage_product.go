package product

import (
	"context"

	"github.com/xiebiao/wholesale/internal/domain/product"
)

// TxManager 事务管理端口(结构兼容mysql.TxManager)
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ManageProductUseCase 商品管理用例(管理端)
// 设计说明:
// 1. 应用层负责用例编排,业务规则校验在领域实体内完成
// 2. 删除前的引用检查与删除在同一事务中,避免检查与删除之间新订单引用该商品
type ManageProductUseCase struct {
	productRepo product.Repository
	txManager   TxManager
}

// NewManageProductUseCase 创建商品管理用例
func NewManageProductUseCase(productRepo product.Repository, txManager TxManager) *ManageProductUseCase {
	return &ManageProductUseCase{
		productRepo: productRepo,
		txManager:   txManager,
	}
}

// CreateProductRequest 创建商品请求DTO
type CreateProductRequest struct {
	Name  string
	Price int64 // 价格(分)
	Stock int   // 初始库存
}

// ProductResponse 商品响应DTO
type ProductResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"` // 价格(分)
	Stock     int    `json:"stock"`
	CreatedAt string `json:"created_at"`
}

// Create 创建商品
func (uc *ManageProductUseCase) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	p, err := product.NewProduct(req.Name, req.Price, req.Stock)
	if err != nil {
		return nil, err
	}
	if err := uc.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// UpdatePrice 更新商品价格
// 注意:改价只影响后续新增的订单行,已有订单行保持价格快照
func (uc *ManageProductUseCase) UpdatePrice(ctx context.Context, id uint, newPrice int64) error {
	p, err := uc.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := p.UpdatePrice(newPrice); err != nil {
		return err
	}
	return uc.productRepo.Update(ctx, p)
}

// UpdateStock 设置商品库存(绝对值)
// 教学要点:管理端是"盘点设置"语义(SET stock = ?),
// 订单事务用的是"增量扣减"语义(stock = stock + delta),两者不要混用
func (uc *ManageProductUseCase) UpdateStock(ctx context.Context, id uint, newStock int) error {
	return uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// FOR UPDATE锁定后再设置,避免覆盖并发订单事务的扣减
		p, err := uc.productRepo.LockByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := p.SetStock(newStock); err != nil {
			return err
		}
		return uc.productRepo.Update(txCtx, p)
	})
}

// Delete 删除商品
// 业务规则:被未完结订单(NEW/IN_PROGRESS/SHIPPED)引用的商品不能删除;
// 已完结订单的引用不阻止删除,软删除保证历史报表的商品名仍可关联
func (uc *ManageProductUseCase) Delete(ctx context.Context, id uint) error {
	return uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if _, err := uc.productRepo.FindByID(txCtx, id); err != nil {
			return err
		}

		count, err := uc.productRepo.CountActiveReferences(txCtx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return product.ErrProductInUse
		}

		return uc.productRepo.Delete(txCtx, id)
	})
}

func toProductResponse(p *product.Product) *ProductResponse {
	return &ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
