package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ricky-kyaw/optitrack-backend/pkg/jwt"
	"github.com/ricky-kyaw/optitrack-backend/pkg/redis"
	"github.com/ricky-kyaw/optitrack-backend/pkg/response"
)

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Access Token；
// rdb 不为 nil 时同时校验 Token 黑名单（登出后的 Token 立即失效）。
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		if claims.TokenType != "access" {
			response.Unauthorized(c, "invalid token type")
			c.Abort()
			return
		}

		// 黑名单校验（Redis 不可用时降级放行）
		if rdb != nil {
			blacklisted, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
			if err == nil && blacklisted {
				response.Unauthorized(c, "invalid or expired token")
				c.Abort()
				return
			}
		}

		// 将员工信息注入上下文
		c.Set("employee_id", claims.EmployeeID)
		c.Set("is_admin", claims.IsAdmin)
		c.Set("jti", claims.ID)
		if claims.ExpiresAt != nil {
			c.Set("token_expires_at", claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

// AdminAuth 管理员权限中间件
// 仅允许 is_admin 的员工访问
func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, exists := c.Get("is_admin")
		if !exists {
			response.Unauthorized(c, "unauthenticated")
			c.Abort()
			return
		}

		if admin, ok := isAdmin.(bool); !ok || !admin {
			response.Forbidden(c, "admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}
