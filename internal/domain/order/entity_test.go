package order

import "testing"

// TestNewOrder 测试创建订单
func TestNewOrder(t *testing.T) {
	o := NewOrder(42)

	if o.UserID != 42 {
		t.Errorf("期望UserID=42，实际%d", o.UserID)
	}
	if o.Status != StatusNew {
		t.Errorf("新订单状态应为NEW，实际%s", o.Status)
	}
	if len(o.Lines) != 0 {
		t.Error("新订单不应有明细")
	}
	// 空订单合法，总价为0
	if o.Total() != 0 {
		t.Errorf("空订单总价应为0，实际%d", o.Total())
	}
}

// TestOrderLine_LineTotal 测试行小计（价格快照×数量）
func TestOrderLine_LineTotal(t *testing.T) {
	line := OrderLine{ProductID: 1, Quantity: 3, UnitPrice: 5900}
	if line.LineTotal() != 17700 {
		t.Errorf("期望行小计17700，实际%d", line.LineTotal())
	}
}

// TestOrder_Total 测试订单总价（从明细实时计算，不做冗余存储）
func TestOrder_Total(t *testing.T) {
	o := NewOrder(1)
	o.Lines = []OrderLine{
		{ProductID: 1, Quantity: 2, UnitPrice: 5900},
		{ProductID: 2, Quantity: 1, UnitPrice: 12000},
	}

	want := int64(2*5900 + 12000)
	if o.Total() != want {
		t.Errorf("期望总价%d，实际%d", want, o.Total())
	}
}

// TestOrder_IsOwnedBy 测试归属判断
func TestOrder_IsOwnedBy(t *testing.T) {
	o := NewOrder(7)
	if !o.IsOwnedBy(7) {
		t.Error("订单应属于下单用户")
	}
	if o.IsOwnedBy(8) {
		t.Error("订单不应属于其他用户")
	}
}
