package dto

// CreateOrderRequest HTTP下单请求
type CreateOrderRequest struct {
	Items []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateOrderItemRequest 订单明细项
// 数量上限999是业务约定:批发单超过此量走线下流程
type CreateOrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1,max=999"`
}

// CreateOrderResponse HTTP下单响应
type CreateOrderResponse struct {
	OrderID   uint   `json:"order_id" example:"1"`
	Total     int64  `json:"total" example:"11800"`      // 总额(分)
	TotalYuan string `json:"total_yuan" example:"118.00"` // 总额(元),方便前端显示
	Status    string `json:"status" example:"NEW"`
	CreatedAt string `json:"created_at" example:"2024-11-06 10:30:00"`
}

// AddItemRequest HTTP添加商品请求
// quantity是本次新增的数量:商品已在订单中时累加,不是覆盖
type AddItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1,max=999"`
}

// ChangeStatusRequest HTTP修改订单状态请求
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required" example:"IN_PROGRESS"`
}
