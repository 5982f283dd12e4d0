// Package handler 提供 API Handler 的通用辅助函数
// 用于减少 Handler 层的代码重复，统一错误处理、认证检查、参数解析等操作
package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/luochenwei/villa-booking-backend/internal/common/errors"
	"github.com/luochenwei/villa-booking-backend/internal/common/response"
	"github.com/luochenwei/villa-booking-backend/internal/common/utils"
	"github.com/luochenwei/villa-booking-backend/internal/middleware"
)

// HandleError 处理错误并发送适当的响应
// 如果 err 为 nil，返回 false（表示无错误需要处理）
// 如果 err 不为 nil，发送错误响应并返回 true（表示已处理错误，调用方应该 return）
//
// 使用示例:
//
//	result, err := service.DoSomething()
//	if HandleError(c, err) {
//	    return
//	}
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	if appErr, ok := err.(*errors.AppError); ok {
		response.Error(c, appErr.Code, appErr.Message)
		return true
	}
	response.InternalError(c, err.Error())
	return true
}

// MustSucceed 便捷封装：如果有错误则返回错误响应，否则返回成功响应
//
// 使用示例:
//
//	result, err := service.GetData()
//	MustSucceed(c, err, result)
//	return  // 注意：调用 MustSucceed 后必须 return
func MustSucceed(c *gin.Context, err error, data interface{}) {
	if HandleError(c, err) {
		return
	}
	response.Success(c, data)
}

// MustSucceedPage 便捷封装：分页响应版本
func MustSucceedPage(c *gin.Context, err error, list interface{}, total int64, page, pageSize int) {
	if HandleError(c, err) {
		return
	}
	response.SuccessPage(c, list, total, page, pageSize)
}

// RequireTenantID 获取当前租户ID，如果未认证则返回401响应
// 返回 (tenantID, true) 表示已认证
// 返回 (0, false) 表示未认证（已发送响应，调用方应该 return）
func RequireTenantID(c *gin.Context) (int64, bool) {
	tenantID := middleware.GetTenantID(c)
	if tenantID == 0 {
		response.Unauthorized(c, "请先登录")
		return 0, false
	}
	return tenantID, true
}

// ParseID 解析路径参数 "id" 为 int64
// 返回 (0, false) 表示解析失败（已发送400响应，调用方应该 return）
func ParseID(c *gin.Context, resourceName string) (int64, bool) {
	return ParseParamID(c, "id", resourceName)
}

// ParseParamID 解析指定路径参数为 int64
// paramName: 路径参数名称（如 "id", "property_id"）
// resourceName: 资源名称，用于错误消息（如 "房源", "预订"）
func ParseParamID(c *gin.Context, paramName, resourceName string) (int64, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的"+resourceName+"ID")
		return 0, false
	}
	return id, true
}

// ParseQueryID 解析查询参数中的可选 ID
// 如果参数为空返回 (nil, true)
// 如果解析失败返回 (nil, false)（已发送400响应）
func ParseQueryID(c *gin.Context, paramName, resourceName string) (*int64, bool) {
	idStr := c.Query(paramName)
	if idStr == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的"+resourceName+"ID")
		return nil, false
	}
	return &id, true
}

// ParseRequiredQueryID 解析查询参数中的必填 ID
func ParseRequiredQueryID(c *gin.Context, paramName, resourceName string) (int64, bool) {
	idStr := c.Query(paramName)
	if idStr == "" {
		response.BadRequest(c, "请提供"+resourceName+"ID")
		return 0, false
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的"+resourceName+"ID")
		return 0, false
	}
	return id, true
}

// 时间格式常量
const (
	DateFormat        = "2006-01-02"
	DateTimeFormat    = "2006-01-02 15:04:05"
	DateTimeFormatISO = "2006-01-02T15:04:05Z07:00"
)

var dateTimeFormats = []string{
	DateTimeFormatISO,
	DateTimeFormat,
	DateFormat,
}

// ParseDate 解析日期字符串 (YYYY-MM-DD)
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}

// ParseDateTime 解析日期时间字符串，支持多种格式
func ParseDateTime(s string) (time.Time, error) {
	for _, format := range dateTimeFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.ErrInvalidParams.WithMessage("时间格式错误")
}

// ParseRequiredQueryDate 从查询参数解析必填日期
// 返回 (zero, false) 表示参数为空或解析失败（已发送400响应）
func ParseRequiredQueryDate(c *gin.Context, paramName string) (time.Time, bool) {
	dateStr := c.Query(paramName)
	if dateStr == "" {
		response.BadRequest(c, "请提供"+paramName+"参数")
		return time.Time{}, false
	}
	t, err := ParseDate(dateStr)
	if err != nil {
		response.BadRequest(c, "无效的日期格式: "+paramName)
		return time.Time{}, false
	}
	return t, true
}

// BindPagination 从查询参数绑定并规范化分页参数
// 默认 page=1, pageSize=10, 最大 pageSize=100
func BindPagination(c *gin.Context) utils.Pagination {
	var p utils.Pagination
	p.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	p.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "10"))
	p.Normalize()
	return p
}

// RequireTenantAndParseID 组合：检查租户认证 + 解析ID参数
func RequireTenantAndParseID(c *gin.Context, resourceName string) (tenantID, resourceID int64, ok bool) {
	tenantID, ok = RequireTenantID(c)
	if !ok {
		return 0, 0, false
	}
	resourceID, ok = ParseID(c, resourceName)
	if !ok {
		return 0, 0, false
	}
	return tenantID, resourceID, true
}
