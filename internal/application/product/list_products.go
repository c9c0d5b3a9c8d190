package product

import (
	"context"

	"github.com/xiebiao/wholesale/internal/domain/product"
)

// ListProductsUseCase 商品列表用例(公开接口,只读)
type ListProductsUseCase struct {
	productRepo product.Repository
}

// NewListProductsUseCase 创建商品列表用例
func NewListProductsUseCase(productRepo product.Repository) *ListProductsUseCase {
	return &ListProductsUseCase{productRepo: productRepo}
}

// Execute 查询全部商品
func (uc *ListProductsUseCase) Execute(ctx context.Context) ([]*ProductResponse, error) {
	products, err := uc.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*ProductResponse, 0, len(products))
	for _, p := range products {
		result = append(result, toProductResponse(p))
	}
	return result, nil
}
