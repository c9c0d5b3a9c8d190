package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/wholesale/pkg/metrics"
)

// Metrics HTTP指标采集中间件
//
// 教学要点：
// 1. path标签使用路由模板（c.FullPath()）而非实际URL，
//    /orders/123和/orders/456都归到/orders/:id，控制标签基数
// 2. 进行中请求用Gauge（Inc/defer Dec），可观察瞬时并发
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		metrics.IncGauge(metrics.HTTPRequestsInProgress)
		defer metrics.DecGauge(metrics.HTTPRequestsInProgress)

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unknown" // 未匹配路由（404），避免高基数标签
		}

		metrics.IncCounterVec(metrics.HTTPRequestsTotal, map[string]string{
			"method": c.Request.Method,
			"path":   path,
			"status": strconv.Itoa(c.Writer.Status()),
		})
		metrics.ObserveHistogramVec(metrics.HTTPRequestDuration, map[string]string{
			"method": c.Request.Method,
			"path":   path,
		}, time.Since(start).Seconds())
	}
}
