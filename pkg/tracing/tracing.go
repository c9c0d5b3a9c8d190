// Package tracing 提供基于OpenTelemetry的分布式追踪
//
// 核心概念：
// 1. Trace（追踪）：一个完整的请求链路（如一次下单从HTTP入口到事务提交）
// 2. Span（跨度）：链路中的一个操作单元（如锁定库存、写订单行）
// 3. SpanContext：跨操作传递的元数据（TraceID/SpanID/ParentSpanID）
//
// 本项目中的用途：
// 订单事务引擎的每个操作（创建订单、增删订单行、修改状态）创建根Span，
// 事务内的库存锁定/扣减作为子Span，慢事务可在Jaeger UI中直接定位瓶颈步骤。
//
// 教学要点：
// - OTLP协议厂商中立，未来可无缝切换Zipkin/Datadog
// - defer span.End()确保Span被关闭；退出前调用shutdown()刷新未发送数据
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// InitTracer 初始化全局Tracer Provider
//
// 参数：
//   - serviceName: 服务名称（在Jaeger UI中显示，如"wholesale-api"）
//   - collectorEndpoint: OTLP gRPC端点（如"localhost:4317"）
//
// 返回关闭函数，程序退出前必须调用以刷新未发送的Span。
//
// 设计说明：
// 1. 采样策略：AlwaysSample（100%采样）适合开发/测试环境，
//    生产环境建议改用TraceIDRatioBased（如1%采样）
// 2. BatchSpanProcessor批量发送Span，性能优于SimpleSpanProcessor
func InitTracer(serviceName, collectorEndpoint string) (func(context.Context) error, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// OTLP gRPC Exporter（默认端口4317）
	exporter, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(collectorEndpoint),
		otlptracegrpc.WithInsecure(), // 禁用TLS（生产环境应启用）
	)
	if err != nil {
		return nil, fmt.Errorf("创建OTLP exporter失败: %w", err)
	}

	// Resource描述产生遥测数据的实体，属性附加到所有Span上
	res, err := resource.New(
		ctx,
		resource.WithAttributes(
			// service.name是必需属性，用于在Jaeger UI中标识服务
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("创建资源属性失败: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	// 全局Provider：业务代码直接用otel.Tracer()获取，无需传递
	otel.SetTracerProvider(tp)

	// 上下文传播器：W3C Trace Context（traceparent Header）+ Baggage
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)

	shutdown := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}

	return shutdown, nil
}

// StartSpan 创建一个新的Span（便捷函数）
//
// 如果ctx包含父Span，新Span自动成为子Span；否则成为根Span。
// 必须使用返回的ctx调用下游函数，否则无法构建调用树。
//
// Span命名使用操作名（CreateOrder、DeductStock），
// 动态值（用户ID、订单ID）通过span.SetAttributes添加。
func StartSpan(ctx context.Context, tracerName, spanName string) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	return tracer.Start(ctx, spanName)
}

// ExtractTraceID 从Context提取TraceID（用于关联日志）
//
// 在日志中记录TraceID，便于从日志快速定位到Jaeger追踪：
//
//	traceID := tracing.ExtractTraceID(ctx)
//	log.Printf("TraceID=%s, 订单创建成功, OrderID=%d", traceID, orderID)
func ExtractTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.SpanContext().IsValid() {
		return ""
	}
	return span.SpanContext().TraceID().String()
}

// ExtractSpanID 从Context提取SpanID
func ExtractSpanID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.SpanContext().IsValid() {
		return ""
	}
	return span.SpanContext().SpanID().String()
}
