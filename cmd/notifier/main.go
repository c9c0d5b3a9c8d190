package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	apporder "github.com/xiebiao/wholesale/internal/application/order"
	"github.com/xiebiao/wholesale/internal/infrastructure/config"
	"github.com/xiebiao/wholesale/pkg/mq"
)

// 通知服务入口
// 教学说明：
// 1. 独立进程订阅订单事件（order.#），与API服务解耦
// 2. 订单主流程只管发布事件，通知的成败不影响下单
// 3. 当前实现打印通知日志，接入短信/邮件网关时只需替换handleEvent
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	if !cfg.MQ.Enabled {
		log.Fatal("通知服务依赖RabbitMQ，请先在配置中启用mq")
	}

	consumer, err := mq.NewConsumer(
		cfg.MQ.URL,
		cfg.MQ.Exchange,
		"topic",
		"wholesale.notifier", // 队列名
		[]string{"order.#"},  // 订阅全部订单事件
	)
	if err != nil {
		log.Fatalf("初始化消费者失败: %v", err)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println("🔔 通知服务已启动，等待订单事件...")

	if err := consumer.Consume(ctx, handleEvent); err != nil && ctx.Err() == nil {
		log.Fatalf("消费失败: %v", err)
	}

	fmt.Println("通知服务已退出")
}

// handleEvent 处理一条订单事件
// 返回error时消息会被Nack重新入队，所以只有解析失败这种不可恢复的错误才吞掉
func handleEvent(routingKey string, body []byte) error {
	var event apporder.OrderEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Printf("[notifier] 忽略无法解析的消息 key=%s err=%v", routingKey, err)
		return nil
	}

	switch routingKey {
	case apporder.EventOrderCreated:
		log.Printf("[notifier] 订单创建 order=%d user=%d total=%d分", event.OrderID, event.UserID, event.Total)
	case apporder.EventOrderItemAdded:
		log.Printf("[notifier] 订单加货 order=%d product=%d qty=%d", event.OrderID, event.ProductID, event.Quantity)
	case apporder.EventOrderItemRemoved:
		log.Printf("[notifier] 订单退货 order=%d product=%d qty=%d", event.OrderID, event.ProductID, event.Quantity)
	case apporder.EventOrderStatusChanged:
		log.Printf("[notifier] 订单状态变更 order=%d status=%s", event.OrderID, event.Status)
	default:
		log.Printf("[notifier] 未知事件 key=%s", routingKey)
	}
	return nil
}
