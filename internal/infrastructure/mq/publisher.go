// Package mq 提供订单事件发布器的AMQP实现
package mq

import (
	"time"

	"github.com/xiebiao/wholesale/pkg/circuitbreaker"
	"github.com/xiebiao/wholesale/pkg/metrics"
	pkgmq "github.com/xiebiao/wholesale/pkg/mq"
)

// EventPublisher 订单事件发布器(RabbitMQ + 熔断器)
// 设计说明:
// 1. 实现application/order.EventPublisher端口
// 2. 熔断器隔离MQ故障:RabbitMQ宕机时快速失败,
//    不让每次下单都等待AMQP超时
// 3. 发布结果计入Prometheus指标
type EventPublisher struct {
	publisher *pkgmq.Publisher
	breaker   *circuitbreaker.CircuitBreaker
	exchange  string
}

// NewEventPublisher 创建事件发布器
// exchange使用topic类型,下游按order.*等模式订阅
func NewEventPublisher(url, exchange string) (*EventPublisher, error) {
	publisher, err := pkgmq.NewPublisher(url, exchange, "topic")
	if err != nil {
		return nil, err
	}

	breaker := circuitbreaker.NewCircuitBreaker("order-events", circuitbreaker.Config{
		MaxRequests: 3,                // 半开状态最多3个探测请求
		Interval:    60 * time.Second, // 闭合状态计数窗口
		Timeout:     30 * time.Second, // 打开→半开的等待时间
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			// 连续5次失败,或请求数>=10且失败率>=60%时熔断
			return counts.ConsecutiveFailures >= 5 ||
				(counts.Requests >= 10 && counts.FailureRate() >= 0.6)
		},
	})
	breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		metrics.SetGaugeVec(metrics.CircuitBreakerState,
			map[string]string{"name": name}, float64(to))
	})

	return &EventPublisher{
		publisher: publisher,
		breaker:   breaker,
		exchange:  exchange,
	}, nil
}

// Publish 发布事件(经熔断器)
func (p *EventPublisher) Publish(routingKey string, event interface{}) error {
	err := p.breaker.Execute(func() error {
		return p.publisher.Publish(routingKey, event)
	})
	labels := map[string]string{"exchange": p.exchange, "routing_key": routingKey}
	if err != nil {
		metrics.IncCounterVec(metrics.MessagesPublishFailedTotal, labels)
		return err
	}
	metrics.IncCounterVec(metrics.MessagesPublishedTotal, labels)
	return nil
}

// Close 关闭底层连接
func (p *EventPublisher) Close() error {
	return p.publisher.Close()
}
