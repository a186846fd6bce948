package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 前端（lib/api.ts）直接消费响应体本身，因此成功响应不做 code/message 包装，
// 原样输出业务数据；错误响应统一为 {"message": "..."}，由 HTTP 状态码表达语义。

// ErrorBody 错误响应体
type ErrorBody struct {
	Message string `json:"message"`
}

// ── 成功响应 ──

// OK 200 成功响应（原样输出 data）
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201 创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, ErrorBody{Message: message})
}

// ── 常见快捷方式 ──

// BadRequest 400
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 401（客户端收到后会丢弃本地 Token 并跳转登录）
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

// NotFound 404
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Conflict 409（考勤状态冲突：重复打卡 / 无进行中会话）
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// UnprocessableEntity 422
func UnprocessableEntity(c *gin.Context, message string) {
	Error(c, http.StatusUnprocessableEntity, message)
}

// InternalError 500
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "internal server error")
}
