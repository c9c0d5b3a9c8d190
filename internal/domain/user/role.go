package user

// Role 用户角色
// 教学要点:
// 1. 使用string类型（Token payload和数据库中可读，便于排查问题）
// 2. 定义为类型别名，便于添加方法
type Role string

const (
	RoleCustomer Role = "customer" // 客户：下单、查看自己的报表
	RoleManager  Role = "manager"  // 店长：管理订单内容与状态、库存报表
	RoleAdmin    Role = "admin"    // 管理员：全部权限
)

// IsValid 检查是否为已知角色
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// ParseRole 解析角色字符串
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// Capability 业务能力（操作级权限）
// 设计说明：
// 1. 权限按"能力"而非"路由"建模，HTTP层只是能力检查的一个调用方
// 2. 能力到角色的映射是纯函数，领域层可单测，不依赖gin
type Capability string

const (
	CapOrderCreate       Capability = "order:create"        // 创建订单
	CapOrderModifyItems  Capability = "order:modify_items"  // 增删改订单行
	CapOrderChangeStatus Capability = "order:change_status" // 修改订单状态
	CapProductManage     Capability = "product:manage"      // 商品增删改
	CapUserManage        Capability = "user:manage"         // 用户管理
	CapReportHistory     Capability = "report:history"      // 客户订单历史报表
	CapReportLowStock    Capability = "report:low_stock"    // 低库存报表
	CapReportOrderDetail Capability = "report:order_detail" // 订单明细报表
)

// capabilityRoles 能力→允许角色集合
// admin不在这里列出：HasCapability对admin统一放行
var capabilityRoles = map[Capability][]Role{
	CapOrderCreate:       {RoleCustomer, RoleManager},
	CapOrderModifyItems:  {RoleManager},
	CapOrderChangeStatus: {RoleManager},
	CapProductManage:     {},
	CapUserManage:        {},
	CapReportHistory:     {RoleCustomer, RoleManager},
	CapReportLowStock:    {RoleManager},
	CapReportOrderDetail: {RoleCustomer, RoleManager},
}

// HasCapability 检查角色是否具备某业务能力
// 业务规则：admin拥有所有能力（无条件放行）
func HasCapability(role Role, cap Capability) bool {
	if role == RoleAdmin {
		return true
	}
	for _, allowed := range capabilityRoles[cap] {
		if allowed == role {
			return true
		}
	}
	return false
}
