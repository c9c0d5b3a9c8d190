package user

import "testing"

// TestParseRole 测试角色解析
func TestParseRole(t *testing.T) {
	for _, s := range []string{"customer", "manager", "admin"} {
		r, err := ParseRole(s)
		if err != nil {
			t.Errorf("解析%s失败: %v", s, err)
		}
		if string(r) != s {
			t.Errorf("期望%s，实际%s", s, r)
		}
	}

	if _, err := ParseRole("superuser"); err == nil {
		t.Error("未知角色应解析失败")
	}
	if _, err := ParseRole(""); err == nil {
		t.Error("空角色应解析失败")
	}
}

// TestHasCapability 测试能力矩阵
func TestHasCapability(t *testing.T) {
	cases := []struct {
		name string
		role Role
		cap  Capability
		want bool
	}{
		// 客户：下单、查自己的报表
		{"客户可下单", RoleCustomer, CapOrderCreate, true},
		{"客户可查历史报表", RoleCustomer, CapReportHistory, true},
		{"客户可查订单明细", RoleCustomer, CapReportOrderDetail, true},
		{"客户不可改订单行", RoleCustomer, CapOrderModifyItems, false},
		{"客户不可改订单状态", RoleCustomer, CapOrderChangeStatus, false},
		{"客户不可管理商品", RoleCustomer, CapProductManage, false},
		{"客户不可查低库存", RoleCustomer, CapReportLowStock, false},

		// 店长：订单内容与状态、库存报表
		{"店长可下单", RoleManager, CapOrderCreate, true},
		{"店长可改订单行", RoleManager, CapOrderModifyItems, true},
		{"店长可改订单状态", RoleManager, CapOrderChangeStatus, true},
		{"店长可查低库存", RoleManager, CapReportLowStock, true},
		{"店长不可管理商品", RoleManager, CapProductManage, false},
		{"店长不可管理用户", RoleManager, CapUserManage, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HasCapability(tc.role, tc.cap); got != tc.want {
				t.Errorf("HasCapability(%s, %s)=%v，期望%v", tc.role, tc.cap, got, tc.want)
			}
		})
	}
}

// TestHasCapability_AdminBypass 测试管理员无条件放行
func TestHasCapability_AdminBypass(t *testing.T) {
	all := []Capability{
		CapOrderCreate, CapOrderModifyItems, CapOrderChangeStatus,
		CapProductManage, CapUserManage,
		CapReportHistory, CapReportLowStock, CapReportOrderDetail,
	}
	for _, cap := range all {
		if !HasCapability(RoleAdmin, cap) {
			t.Errorf("admin应具备能力%s", cap)
		}
	}
}

// TestHasCapability_UnknownRole 测试未知角色无任何能力
func TestHasCapability_UnknownRole(t *testing.T) {
	if HasCapability(Role("guest"), CapOrderCreate) {
		t.Error("未知角色不应具备任何能力")
	}
}
