package handler

import (
	"github.com/gin-gonic/gin"

	appreport "github.com/xiebiao/wholesale/internal/application/report"
	"github.com/xiebiao/wholesale/internal/interface/http/dto"
	"github.com/xiebiao/wholesale/internal/interface/http/middleware"
	"github.com/xiebiao/wholesale/pkg/response"
)

// ReportHandler 报表HTTP处理器
type ReportHandler struct {
	reportUseCase *appreport.ReportUseCase
}

// NewReportHandler 创建报表处理器
func NewReportHandler(reportUseCase *appreport.ReportUseCase) *ReportHandler {
	return &ReportHandler{reportUseCase: reportUseCase}
}

// History 订单历史报表
// @Summary      订单历史报表
// @Description  按下单时间排列的订单历史，带累计消费额（SQL窗口函数计算）；客户只能查自己的
// @Tags         报表模块
// @Security     BearerAuth
// @Param        user_id path int true "用户ID"
// @Success      200 {object} response.Response{data=[]appreport.OrderHistoryRow}
// @Failure      403 {object} response.Response "越权查询他人历史"
// @Failure      404 {object} response.Response "该用户没有订单"
// @Router       /reports/history/{user_id} [get]
func (h *ReportHandler) History(c *gin.Context) {
	targetUserID, ok := parseUintParam(c, "user_id")
	if !ok {
		return
	}

	rows, err := h.reportUseCase.History(c.Request.Context(),
		targetUserID, middleware.GetUserID(c), middleware.GetRole(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, rows)
}

// LowStock 低库存报表
// @Summary      低库存报表
// @Description  库存不高于阈值的商品，按库存升序
// @Tags         报表模块
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]dto.ProductResponse}
// @Router       /reports/low-stock [get]
func (h *ReportHandler) LowStock(c *gin.Context) {
	products, err := h.reportUseCase.LowStock(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, dto.ProductResponse{
			ID:        p.ID,
			Name:      p.Name,
			Price:     p.Price,
			PriceYuan: dto.FormatPriceYuan(p.Price),
			Stock:     p.Stock,
		})
	}
	response.Success(c, items)
}

// Details 订单明细报表
// @Summary      订单明细报表
// @Description  订单的逐行明细（按快照价计算行小计）；客户只能查自己的订单
// @Tags         报表模块
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=[]appreport.OrderDetailRow}
// @Failure      403 {object} response.Response "越权查询他人订单"
// @Failure      404 {object} response.Response "订单不存在或没有明细"
// @Router       /reports/orders/{id} [get]
func (h *ReportHandler) Details(c *gin.Context) {
	orderID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	rows, err := h.reportUseCase.Details(c.Request.Context(),
		orderID, middleware.GetUserID(c), middleware.GetRole(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, rows)
}
