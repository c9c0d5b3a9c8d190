package dto

import "fmt"

// CreateProductRequest HTTP创建商品请求
type CreateProductRequest struct {
	Name  string `json:"name" binding:"required,max=200" example:"黑胡椒粒 1kg"`
	Price int64  `json:"price" binding:"required,min=1,max=99999999" example:"5900"` // 价格(分)
	Stock int    `json:"stock" binding:"min=0" example:"100"`
}

// UpdatePriceRequest HTTP改价请求
type UpdatePriceRequest struct {
	Price int64 `json:"price" binding:"required,min=1,max=99999999" example:"6200"`
}

// UpdateStockRequest HTTP盘点设置库存请求(绝对值)
type UpdateStockRequest struct {
	Stock int `json:"stock" binding:"min=0" example:"80"`
}

// ProductResponse HTTP商品响应
type ProductResponse struct {
	ID        uint   `json:"id" example:"1"`
	Name      string `json:"name" example:"黑胡椒粒 1kg"`
	Price     int64  `json:"price" example:"5900"`      // 价格(分)
	PriceYuan string `json:"price_yuan" example:"59.00"` // 价格(元),方便前端显示
	Stock     int    `json:"stock" example:"100"`
	CreatedAt string `json:"created_at" example:"2024-01-15 10:30:00"`
}

// FormatPriceYuan 格式化价格(分→元)
// 例如:5900分 → "59.00"
func FormatPriceYuan(priceFen int64) string {
	yuan := float64(priceFen) / 100.0
	return fmt.Sprintf("%.2f", yuan)
}
