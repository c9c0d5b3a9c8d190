package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// CORS 跨域资源共享中间件
//
// 教学要点：
// 1. CORS解决浏览器跨域请求问题（同源策略：协议+域名+端口必须相同）
// 2. 预检请求（OPTIONS）的处理
// 3. 生产环境应配置具体的允许域名，不要使用"*"
func CORS(allowOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		allowed := false
		for _, allowOrigin := range allowOrigins {
			if allowOrigin == "*" || allowOrigin == origin {
				c.Header("Access-Control-Allow-Origin", allowOrigin)
				allowed = true
				break
			}
		}

		if !allowed && origin != "" {
			c.AbortWithStatus(403)
			return
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", strings.Join([]string{
			"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID",
		}, ", "))
		c.Header("Access-Control-Max-Age", "86400")

		// 浏览器在发送跨域请求前，先发送OPTIONS询问是否允许
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
