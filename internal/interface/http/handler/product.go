package handler

import (
	"github.com/gin-gonic/gin"

	appproduct "github.com/xiebiao/wholesale/internal/application/product"
	"github.com/xiebiao/wholesale/internal/interface/http/dto"
	"github.com/xiebiao/wholesale/pkg/response"
)

// ProductHandler 商品HTTP处理器
type ProductHandler struct {
	manageUseCase *appproduct.ManageProductUseCase
	listUseCase   *appproduct.ListProductsUseCase
}

// NewProductHandler 创建商品处理器
func NewProductHandler(
	manageUseCase *appproduct.ManageProductUseCase,
	listUseCase *appproduct.ListProductsUseCase,
) *ProductHandler {
	return &ProductHandler{
		manageUseCase: manageUseCase,
		listUseCase:   listUseCase,
	}
}

// List 商品列表
// @Summary      商品列表
// @Description  浏览商品目录（无需登录）
// @Tags         商品模块
// @Produce      json
// @Success      200 {object} response.Response{data=[]dto.ProductResponse}
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.listUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toProductDTOs(products))
}

// Create 创建商品
// @Summary      创建商品
// @Tags         商品模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateProductRequest true "商品信息"
// @Success      201 {object} response.Response{data=dto.ProductResponse}
// @Failure      403 {object} response.Response "无权限"
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40901, "参数错误: "+err.Error())
		return
	}

	result, err := h.manageUseCase.Create(c.Request.Context(), appproduct.CreateProductRequest{
		Name:  req.Name,
		Price: req.Price,
		Stock: req.Stock,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toProductDTO(result))
}

// UpdatePrice 修改商品价格
// @Summary      修改商品价格
// @Description  改价只影响后续订单，已有订单行保持下单时的价格快照
// @Tags         商品模块
// @Security     BearerAuth
// @Param        id path int true "商品ID"
// @Param        request body dto.UpdatePriceRequest true "新价格(分)"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /products/{id}/price [patch]
func (h *ProductHandler) UpdatePrice(c *gin.Context) {
	productID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40901, "参数错误: "+err.Error())
		return
	}

	if err := h.manageUseCase.UpdatePrice(c.Request.Context(), productID, req.Price); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// UpdateStock 盘点设置库存
// @Summary      盘点设置库存
// @Description  把库存设置为绝对值（盘点场景），非增量调整
// @Tags         商品模块
// @Security     BearerAuth
// @Param        id path int true "商品ID"
// @Param        request body dto.UpdateStockRequest true "新库存"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /products/{id}/stock [patch]
func (h *ProductHandler) UpdateStock(c *gin.Context) {
	productID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40901, "参数错误: "+err.Error())
		return
	}

	if err := h.manageUseCase.UpdateStock(c.Request.Context(), productID, req.Stock); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// Delete 删除商品
// @Summary      删除商品
// @Description  商品被未完结订单引用时拒绝删除
// @Tags         商品模块
// @Security     BearerAuth
// @Param        id path int true "商品ID"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "商品被活跃订单引用"
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.manageUseCase.Delete(c.Request.Context(), productID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

func toProductDTO(p *appproduct.ProductResponse) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		PriceYuan: dto.FormatPriceYuan(p.Price),
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt,
	}
}

func toProductDTOs(products []*appproduct.ProductResponse) []*dto.ProductResponse {
	result := make([]*dto.ProductResponse, len(products))
	for i, p := range products {
		result[i] = toProductDTO(p)
	}
	return result
}
