package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ricky-kyaw/optitrack-backend/config"
	"github.com/ricky-kyaw/optitrack-backend/internal/api/handler"
	"github.com/ricky-kyaw/optitrack-backend/internal/api/middleware"
	"github.com/ricky-kyaw/optitrack-backend/pkg/jwt"
	"github.com/ricky-kyaw/optitrack-backend/pkg/redis"
)

const (
	maxBodyBytes   = 1 << 20 // 1MB
	loginRateLimit = 10      // 每 IP 每分钟登录尝试次数上限
)

// Setup 初始化路由
// 路由路径与前端客户端（lib/api.ts）逐字对齐，均带结尾斜杠
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *gin.Engine {
	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// 结尾斜杠为规范形式，不做 301 重定向
	r.RedirectTrailingSlash = false

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	// ── 公开路由 ──
	auth := v1.Group("/auth")
	{
		auth.POST("/login/", middleware.RateLimit(rdb, loginRateLimit, time.Minute), h.Auth.Login)
		auth.POST("/refresh/", h.Auth.Refresh)
	}

	// ── 需登录路由 ──
	authed := v1.Group("")
	authed.Use(middleware.JWTAuth(jwtMgr, rdb))
	{
		authed.POST("/auth/logout/", h.Auth.Logout)
		authed.GET("/auth/me/", h.Auth.Me)

		attendance := authed.Group("/attendance")
		{
			attendance.POST("/clock-in/", h.Attendance.ClockIn)
			attendance.POST("/clock-out/", h.Attendance.ClockOut)
			attendance.GET("/sessions/", h.Attendance.ListSessions)
		}

		tracker := authed.Group("/tracker")
		{
			tracker.GET("/live/", h.Tracker.Live)
			tracker.GET("/my-summary/", h.Tracker.MySummary)
		}

		overtime := authed.Group("/overtime")
		{
			overtime.GET("/entries/", h.Overtime.ListEntries)
			overtime.GET("/rules/", h.Overtime.ListRules)
		}

		// ── 管理员路由 ──
		admin := authed.Group("")
		admin.Use(middleware.AdminAuth())
		{
			admin.POST("/overtime/entries/recalculate/", h.Overtime.Recalculate)
			admin.POST("/overtime/rules/", h.Overtime.CreateRule)
			admin.PATCH("/overtime/rules/:id/", h.Overtime.UpdateRule)

			admin.GET("/users/employees/", h.Employee.List)
			admin.POST("/users/employees/", h.Employee.Create)

			admin.GET("/export/overtime/", h.Export.ExportOvertime)
		}
	}

	return r
}
