package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/wholesale/internal/application/order"
	"github.com/xiebiao/wholesale/internal/interface/http/dto"
	"github.com/xiebiao/wholesale/internal/interface/http/middleware"
	"github.com/xiebiao/wholesale/pkg/response"
)

// OrderHandler 订单HTTP处理器
type OrderHandler struct {
	createOrderUseCase  *apporder.CreateOrderUseCase
	addItemUseCase      *apporder.AddItemUseCase
	removeItemUseCase   *apporder.RemoveItemUseCase
	changeStatusUseCase *apporder.ChangeStatusUseCase
	getOrderUseCase     *apporder.GetOrderUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	createOrderUseCase *apporder.CreateOrderUseCase,
	addItemUseCase *apporder.AddItemUseCase,
	removeItemUseCase *apporder.RemoveItemUseCase,
	changeStatusUseCase *apporder.ChangeStatusUseCase,
	getOrderUseCase *apporder.GetOrderUseCase,
) *OrderHandler {
	return &OrderHandler{
		createOrderUseCase:  createOrderUseCase,
		addItemUseCase:      addItemUseCase,
		removeItemUseCase:   removeItemUseCase,
		changeStatusUseCase: changeStatusUseCase,
		getOrderUseCase:     getOrderUseCase,
	}
}

// CreateOrder 创建订单
// @Summary      创建订单
// @Description  下单（需要登录），悲观锁防止超卖，订单行记录价格快照
// @Tags         订单模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateOrderRequest true "订单明细"
// @Success      201 {object} response.Response{data=dto.CreateOrderResponse} "下单成功"
// @Failure      400 {object} response.Response "参数错误或库存不足"
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /orders [post]
//
// 教学说明：防超卖的核心逻辑
// 1. 开启数据库事务
// 2. 按商品ID升序SELECT FOR UPDATE锁定商品行（统一加锁顺序防死锁）
// 3. 锁内检查库存是否充足
// 4. 以锁内价格写入订单行（快照）
// 5. 扣减库存
// 6. 提交事务；任何一步失败，整个订单回滚
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40901, "参数错误: "+err.Error())
		return
	}

	userID := middleware.GetUserID(c)

	items := make([]apporder.CreateOrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = apporder.CreateOrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	result, err := h.createOrderUseCase.Execute(c.Request.Context(), apporder.CreateOrderRequest{
		UserID: userID,
		Items:  items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, &dto.CreateOrderResponse{
		OrderID:   result.OrderID,
		Total:     result.Total,
		TotalYuan: dto.FormatPriceYuan(result.Total),
		Status:    result.Status,
		CreatedAt: result.CreatedAt,
	})
}

// GetOrder 查询订单
// @Summary      查询订单
// @Tags         订单模块
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=apporder.OrderView}
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	view, err := h.getOrderUseCase.Execute(c.Request.Context(),
		orderID, middleware.GetUserID(c), middleware.GetRole(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, view)
}

// AddItem 向订单添加商品
// @Summary      向订单添加商品
// @Description  商品已在订单中则数量累加（价格快照不变），否则以当前价格插入
// @Tags         订单模块
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Param        request body dto.AddItemRequest true "商品与数量"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "库存不足或订单不可修改"
// @Failure      404 {object} response.Response "订单或商品不存在"
// @Router       /orders/{id}/items [post]
func (h *OrderHandler) AddItem(c *gin.Context) {
	orderID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req dto.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40901, "参数错误: "+err.Error())
		return
	}

	err := h.addItemUseCase.Execute(c.Request.Context(), apporder.AddItemRequest{
		OrderID:   orderID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// RemoveItem 从订单移除商品
// @Summary      从订单移除商品
// @Description  删除订单行并把该行的全部数量归还库存
// @Tags         订单模块
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Param        product_id path int true "商品ID"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "订单不可修改"
// @Failure      404 {object} response.Response "订单或订单行不存在"
// @Router       /orders/{id}/items/{product_id} [delete]
func (h *OrderHandler) RemoveItem(c *gin.Context) {
	orderID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	productID, ok := parseUintParam(c, "product_id")
	if !ok {
		return
	}

	err := h.removeItemUseCase.Execute(c.Request.Context(), apporder.RemoveItemRequest{
		OrderID:   orderID,
		ProductID: productID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// ChangeStatus 修改订单状态
// @Summary      修改订单状态
// @Description  仅修改状态，不影响库存（取消订单不自动归还库存）
// @Tags         订单模块
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Param        request body dto.ChangeStatusRequest true "目标状态"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "无效状态"
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /orders/{id}/status [patch]
func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	orderID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req dto.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40901, "参数错误: "+err.Error())
		return
	}

	err := h.changeStatusUseCase.Execute(c.Request.Context(), apporder.ChangeStatusRequest{
		OrderID: orderID,
		Status:  req.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// parseUintParam 解析路径中的uint参数,失败时直接写400响应
func parseUintParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		response.ErrorWithCode(c, 40900, "无效的"+name+"参数")
		return 0, false
	}
	return uint(value), true
}
