package order

import (
	"log"
	"time"

	apperrors "github.com/xiebiao/wholesale/pkg/errors"
)

// 订单事件路由键
// Topic Exchange上按 order.* 订阅即可收到全部订单事件
const (
	EventOrderCreated       = "order.created"
	EventOrderItemAdded     = "order.item_added"
	EventOrderItemRemoved   = "order.item_removed"
	EventOrderStatusChanged = "order.status_changed"
)

// EventPublisher 事件发布端口
// 设计说明:
// 1. 应用层只依赖此接口,AMQP实现(含熔断器)在infrastructure层
// 2. 事件在事务提交"之后"发布:MQ故障不回滚订单事务
// 3. 发布失败只记录日志(尽力而为语义),下游靠对账补偿
type EventPublisher interface {
	Publish(routingKey string, event interface{}) error
}

// OrderEvent 订单事件载荷
// 字段按需填充:ItemAdded/ItemRemoved填ProductID/Quantity,
// StatusChanged填Status
type OrderEvent struct {
	OrderID   uint   `json:"order_id"`
	UserID    uint   `json:"user_id,omitempty"`
	ProductID uint   `json:"product_id,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
	Status    string `json:"status,omitempty"`
	Total     int64  `json:"total,omitempty"`
	Occurred  string `json:"occurred_at"`
}

// publishEvent 事务提交后的尽力而为发布
// 只在事务成功返回后调用,失败不向调用方传播
func publishEvent(publisher EventPublisher, routingKey string, event OrderEvent) {
	if publisher == nil {
		return
	}
	event.Occurred = time.Now().Format(time.RFC3339)
	if err := publisher.Publish(routingKey, event); err != nil {
		log.Printf("⚠️ 订单事件发布失败(不影响事务): routingKey=%s, orderID=%d, err=%v",
			routingKey, event.OrderID, err)
	}
}

// failureReason 将业务错误归类为指标的reason标签
// 标签基数必须有限:只用粗粒度分类,不用错误消息
func failureReason(err error) string {
	appErr := apperrors.GetAppError(err)
	switch {
	case appErr.Code == apperrors.ErrCodeInsufficientStock:
		return "insufficient_stock"
	case appErr.Code == apperrors.ErrCodeOrderNotModifiable:
		return "not_modifiable"
	case appErr.Code >= 40400 && appErr.Code < 40500:
		return "not_found"
	case appErr.Code >= 40900 && appErr.Code < 41000:
		return "invalid_request"
	case appErr.Code >= 50000:
		return "internal"
	default:
		return "business_error"
	}
}

// NoopPublisher 空实现(配置中禁用MQ时使用)
type NoopPublisher struct{}

// Publish 丢弃事件
func (NoopPublisher) Publish(routingKey string, event interface{}) error {
	return nil
}
