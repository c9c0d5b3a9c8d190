package order

// Status 订单状态
// 教学要点:
// 1. 使用string类型(数据库与API中直接可读,排查问题不需要查对照表)
// 2. 定义为类型别名,便于添加方法
// 3. 状态流转是宽松的:任何订单都可以被设置为IN_PROGRESS/SHIPPED/
//    FULFILLED/CANCELLED,但NEW只在创建时出现,之后不可再设回
type Status string

const (
	StatusNew        Status = "NEW"         // 新建(仅创建时)
	StatusInProgress Status = "IN_PROGRESS" // 处理中
	StatusShipped    Status = "SHIPPED"     // 已发货
	StatusFulfilled  Status = "FULFILLED"   // 已完成
	StatusCancelled  Status = "CANCELLED"   // 已取消
)

// IsValid 检查是否为已知状态
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusShipped, StatusFulfilled, StatusCancelled:
		return true
	}
	return false
}

// IsModifiable 订单内容是否可修改
// 业务规则:只有NEW和IN_PROGRESS状态的订单允许增删改订单行;
// SHIPPED/FULFILLED/CANCELLED视为已定稿
func (s Status) IsModifiable() bool {
	return s == StatusNew || s == StatusInProgress
}

// IsActive 订单是否未完结(仍会占用其引用的商品)
// 用于商品删除前的完整性检查:被未完结订单引用的商品不能删除
func (s Status) IsActive() bool {
	return s == StatusNew || s == StatusInProgress || s == StatusShipped
}

// ParseStatus 解析状态字符串
// 注意:NEW是合法状态但不能通过状态修改接口设置,
// 该限制在应用层(ChangeStatus)校验
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// SettableStatuses 可通过状态修改接口设置的状态集合
// NEW被排除:订单创建后不能被重置为新建
var SettableStatuses = []Status{StatusInProgress, StatusShipped, StatusFulfilled, StatusCancelled}

// IsSettable 检查状态是否可通过状态修改接口设置
func (s Status) IsSettable() bool {
	for _, st := range SettableStatuses {
		if s == st {
			return true
		}
	}
	return false
}
