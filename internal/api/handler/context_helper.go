package handler

import (
	"time"

	"github.com/gin-gonic/gin"
)

// 上下文取值辅助函数
// 这些值由 JWTAuth 中间件注入，受保护路由中必然存在；
// 缺失说明路由未挂认证中间件，属于编码错误，直接返回零值由上层兜底。

func getEmployeeID(c *gin.Context) uint {
	v, ok := c.Get("employee_id")
	if !ok {
		return 0
	}
	id, _ := v.(uint)
	return id
}

func getIsAdmin(c *gin.Context) bool {
	v, ok := c.Get("is_admin")
	if !ok {
		return false
	}
	admin, _ := v.(bool)
	return admin
}

func getJTI(c *gin.Context) string {
	v, ok := c.Get("jti")
	if !ok {
		return ""
	}
	jti, _ := v.(string)
	return jti
}

func getTokenExpiresAt(c *gin.Context) time.Time {
	v, ok := c.Get("token_expires_at")
	if !ok {
		return time.Time{}
	}
	exp, _ := v.(time.Time)
	return exp
}
