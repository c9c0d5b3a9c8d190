package integration

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 订单模块集成测试：覆盖下单、改单、状态流转的完整链路
// 这些用例依赖真实的MySQL事务与行锁，是并发正确性的最终防线

// TestCreateOrder 测试下单
func TestCreateOrder(t *testing.T) {
	RequireIntegrationEnv(t)
	adminToken := AdminToken(t)
	_, customerToken := CreateTestUser(t, adminToken, "ocreate", "customer")

	t.Run("下单成功且扣减库存", func(t *testing.T) {
		productID := CreateTestProduct(t, adminToken, "集成测试商品-下单", 5900, 10)

		data := CreateTestOrder(t, customerToken, []map[string]interface{}{
			{"product_id": productID, "quantity": 3},
		})
		assert.Equal(t, "NEW", data.Status)
		assert.Equal(t, int64(17700), data.Total, "总额应为单价快照×数量")
		assert.Equal(t, "177.00", data.TotalYuan)

		assert.Equal(t, 7, GetProductStock(t, productID), "下单应扣减库存")
	})

	t.Run("库存不足整单回滚", func(t *testing.T) {
		okID := CreateTestProduct(t, adminToken, "集成测试商品-充足", 100, 10)
		shortID := CreateTestProduct(t, adminToken, "集成测试商品-不足", 100, 2)

		resp := PostJSON(t, BaseURL+"/orders", map[string]interface{}{
			"items": []map[string]interface{}{
				{"product_id": okID, "quantity": 5},
				{"product_id": shortID, "quantity": 3},
			},
		}, customerToken)
		assert.Equal(t, 40001, resp.Code, "库存不足应返回业务错误")

		assert.Equal(t, 10, GetProductStock(t, okID), "回滚后充足商品库存不应扣减")
		assert.Equal(t, 2, GetProductStock(t, shortID))
	})

	t.Run("空明细下单被拒绝", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/orders", map[string]interface{}{
			"items": []map[string]interface{}{},
		}, customerToken)
		assert.Equal(t, 40901, resp.Code, "下单必须至少包含一个商品")
	})

	t.Run("未登录不能下单", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/orders", map[string]interface{}{
			"items": []map[string]interface{}{},
		}, "")
		assert.Equal(t, 40100, resp.Code)
	})
}

// TestOrderItemMutation 测试店长加单与撤单
func TestOrderItemMutation(t *testing.T) {
	RequireIntegrationEnv(t)
	adminToken := AdminToken(t)
	_, customerToken := CreateTestUser(t, adminToken, "oitem", "customer")
	_, managerToken := CreateTestUser(t, adminToken, "omgr", "manager")

	t.Run("加单累加数量且保留价格快照", func(t *testing.T) {
		productID := CreateTestProduct(t, adminToken, "集成测试商品-快照", 5900, 20)
		data := CreateTestOrder(t, customerToken, []map[string]interface{}{
			{"product_id": productID, "quantity": 2},
		})

		// 下单后涨价，已有订单行的单价不应跟着变
		resp := PatchJSON(t, BaseURL+"/products/"+itoa(productID)+"/price", map[string]interface{}{
			"price": 9900,
		}, adminToken)
		require.Equal(t, 0, resp.Code)

		resp = PostJSON(t, BaseURL+"/orders/"+itoa(data.OrderID)+"/items", map[string]interface{}{
			"product_id": productID,
			"quantity":   3,
		}, managerToken)
		require.Equal(t, 0, resp.Code, "加单失败: %s", resp.Message)

		view := getOrder(t, managerToken, data.OrderID)
		require.Len(t, view.Lines, 1, "同商品应累加到同一行")
		assert.Equal(t, 5, view.Lines[0].Quantity)
		assert.Equal(t, int64(5900), view.Lines[0].UnitPrice, "累加应保留首次成交的单价快照")
		assert.Equal(t, int64(29500), view.Total)

		assert.Equal(t, 15, GetProductStock(t, productID), "加单只扣减新增数量")
	})

	t.Run("撤单整行回补库存", func(t *testing.T) {
		productID := CreateTestProduct(t, adminToken, "集成测试商品-撤单", 100, 10)
		data := CreateTestOrder(t, customerToken, []map[string]interface{}{
			{"product_id": productID, "quantity": 4},
		})
		require.Equal(t, 6, GetProductStock(t, productID))

		resp := DeleteJSON(t, BaseURL+"/orders/"+itoa(data.OrderID)+"/items/"+itoa(productID), managerToken)
		require.Equal(t, 0, resp.Code, "撤单失败: %s", resp.Message)

		assert.Equal(t, 10, GetProductStock(t, productID), "撤单应回补整行数量")

		view := getOrder(t, managerToken, data.OrderID)
		assert.Empty(t, view.Lines, "撤单后订单可以为空")
		assert.Equal(t, int64(0), view.Total)
	})

	t.Run("客户无改单权限", func(t *testing.T) {
		productID := CreateTestProduct(t, adminToken, "集成测试商品-越权改单", 100, 10)
		data := CreateTestOrder(t, customerToken, []map[string]interface{}{
			{"product_id": productID, "quantity": 1},
		})

		resp := PostJSON(t, BaseURL+"/orders/"+itoa(data.OrderID)+"/items", map[string]interface{}{
			"product_id": productID,
			"quantity":   1,
		}, customerToken)
		assert.Equal(t, 40104, resp.Code, "客户不应有加单能力")
	})

	t.Run("已发货订单不可改单", func(t *testing.T) {
		productID := CreateTestProduct(t, adminToken, "集成测试商品-已发货", 100, 10)
		data := CreateTestOrder(t, customerToken, []map[string]interface{}{
			{"product_id": productID, "quantity": 1},
		})

		resp := PatchJSON(t, BaseURL+"/orders/"+itoa(data.OrderID)+"/status", map[string]string{
			"status": "SHIPPED",
		}, managerToken)
		require.Equal(t, 0, resp.Code)

		resp = PostJSON(t, BaseURL+"/orders/"+itoa(data.OrderID)+"/items", map[string]interface{}{
			"product_id": productID,
			"quantity":   1,
		}, managerToken)
		assert.Equal(t, 40002, resp.Code, "发货后加单应被拒绝")

		resp = DeleteJSON(t, BaseURL+"/orders/"+itoa(data.OrderID)+"/items/"+itoa(productID), managerToken)
		assert.Equal(t, 40002, resp.Code, "发货后撤单应被拒绝")
		assert.Equal(t, 9, GetProductStock(t, productID), "被拒绝的撤单不应回补库存")
	})
}

// TestOrderStatus 测试状态流转
func TestOrderStatus(t *testing.T) {
	RequireIntegrationEnv(t)
	adminToken := AdminToken(t)
	_, customerToken := CreateTestUser(t, adminToken, "ostat", "customer")
	_, managerToken := CreateTestUser(t, adminToken, "osmgr", "manager")

	statusProductID := CreateTestProduct(t, adminToken, "集成测试商品-状态", 100, 100)
	newStatusOrder := func(t *testing.T) OrderData {
		return CreateTestOrder(t, customerToken, []map[string]interface{}{
			{"product_id": statusProductID, "quantity": 1},
		})
	}

	t.Run("店长推进状态", func(t *testing.T) {
		data := newStatusOrder(t)

		for _, status := range []string{"IN_PROGRESS", "SHIPPED", "FULFILLED"} {
			resp := PatchJSON(t, BaseURL+"/orders/"+itoa(data.OrderID)+"/status", map[string]string{
				"status": status,
			}, managerToken)
			require.Equal(t, 0, resp.Code, "状态设置为%s失败: %s", status, resp.Message)
		}

		view := getOrder(t, managerToken, data.OrderID)
		assert.Equal(t, "FULFILLED", view.Status)
	})

	t.Run("不能手动设回NEW", func(t *testing.T) {
		data := newStatusOrder(t)
		resp := PatchJSON(t, BaseURL+"/orders/"+itoa(data.OrderID)+"/status", map[string]string{
			"status": "NEW",
		}, managerToken)
		assert.Equal(t, 40900, resp.Code, "NEW只能由系统在下单时设置")
	})

	t.Run("无法识别的状态", func(t *testing.T) {
		data := newStatusOrder(t)
		resp := PatchJSON(t, BaseURL+"/orders/"+itoa(data.OrderID)+"/status", map[string]string{
			"status": "DELIVERED",
		}, managerToken)
		assert.Equal(t, 40900, resp.Code)
	})

	t.Run("取消不回补库存", func(t *testing.T) {
		productID := CreateTestProduct(t, adminToken, "集成测试商品-取消", 100, 10)
		data := CreateTestOrder(t, customerToken, []map[string]interface{}{
			{"product_id": productID, "quantity": 4},
		})
		require.Equal(t, 6, GetProductStock(t, productID))

		resp := PatchJSON(t, BaseURL+"/orders/"+itoa(data.OrderID)+"/status", map[string]string{
			"status": "CANCELLED",
		}, managerToken)
		require.Equal(t, 0, resp.Code)

		assert.Equal(t, 6, GetProductStock(t, productID), "取消订单不做自动回补，需人工撤单处理")
	})

	t.Run("客户无状态变更权限", func(t *testing.T) {
		data := newStatusOrder(t)
		resp := PatchJSON(t, BaseURL+"/orders/"+itoa(data.OrderID)+"/status", map[string]string{
			"status": "CANCELLED",
		}, customerToken)
		assert.Equal(t, 40104, resp.Code)
	})
}

// TestGetOrderOwnership 测试订单查询的属主校验
func TestGetOrderOwnership(t *testing.T) {
	RequireIntegrationEnv(t)
	adminToken := AdminToken(t)
	_, ownerToken := CreateTestUser(t, adminToken, "oowner", "customer")
	_, otherToken := CreateTestUser(t, adminToken, "oother", "customer")
	_, managerToken := CreateTestUser(t, adminToken, "oview", "manager")

	productID := CreateTestProduct(t, adminToken, "集成测试商品-属主", 100, 10)
	data := CreateTestOrder(t, ownerToken, []map[string]interface{}{
		{"product_id": productID, "quantity": 1},
	})

	t.Run("本人可查", func(t *testing.T) {
		view := getOrder(t, ownerToken, data.OrderID)
		assert.Equal(t, data.OrderID, view.OrderID)
	})

	t.Run("其他客户不可查", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/orders/"+itoa(data.OrderID), otherToken)
		assert.Equal(t, 40104, resp.Code, "客户只能查看自己的订单")
	})

	t.Run("店长可查任意订单", func(t *testing.T) {
		view := getOrder(t, managerToken, data.OrderID)
		assert.Equal(t, data.OrderID, view.OrderID)
	})

	t.Run("订单不存在", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/orders/999999", managerToken)
		assert.Equal(t, 40403, resp.Code)
	})
}

// getOrder 查询订单详情
func getOrder(t *testing.T, token string, orderID uint) OrderViewData {
	t.Helper()
	resp := GetJSON(t, BaseURL+"/orders/"+itoa(orderID), token)
	require.Equal(t, 0, resp.Code, "查询订单失败: %s", resp.Message)

	var view OrderViewData
	require.NoError(t, json.Unmarshal(resp.Data, &view), "解析订单详情失败")
	return view
}
