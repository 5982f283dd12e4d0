// Package errors 定义业务错误码和错误处理
package errors

import (
	"fmt"
)

// AppError 应用错误
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap
func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新的应用错误
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithMessage 修改错误消息
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: message,
		Err:     e.Err,
	}
}

// WithMessagef 格式化修改错误消息
func (e *AppError) WithMessagef(format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: fmt.Sprintf(format, args...),
		Err:     e.Err,
	}
}

// WithError 添加原始错误
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// 通用错误码 (1000-1999)
var (
	ErrUnknown         = New(1000, "未知错误")
	ErrInvalidParams   = New(1001, "参数错误")
	ErrNotFound        = New(1002, "资源不存在")
	ErrAlreadyExists   = New(1003, "资源已存在")
	ErrDatabaseError   = New(1004, "数据库错误")
	ErrCacheError      = New(1005, "缓存错误")
	ErrInternalError   = New(1006, "内部错误")
	ErrRateLimitExceed = New(1007, "请求过于频繁")
	ErrOperationFailed = New(1008, "操作失败")
)

// 认证错误码 (2000-2999)
var (
	ErrUnauthorized     = New(2000, "未登录")
	ErrTokenExpired     = New(2001, "登录已过期")
	ErrTokenInvalid     = New(2002, "无效的令牌")
	ErrPermissionDenied = New(2003, "权限不足")
	ErrTenantMismatch   = New(2004, "无权访问该租户资源")
)

// 租户与配置错误码 (3000-3999)
var (
	ErrTenantNotFound        = New(3000, "租户不存在")
	ErrTenantDisabled        = New(3001, "租户已禁用")
	ErrPaymentConfigNotFound = New(3002, "支付配置不存在")
	ErrPaymentConfigInvalid  = New(3003, "支付配置无效")
)

// 房源与价格期错误码 (4000-4999)
var (
	ErrPropertyNotFound    = New(4000, "房源不存在")
	ErrPropertyUnpublished = New(4001, "房源未发布")
	ErrPeriodNotFound      = New(4002, "价格期不存在")
	ErrPeriodInvalid       = New(4003, "价格期配置无效")
	ErrOptionNotFound      = New(4004, "附加服务不存在")
)

// 定价校验错误码 (5000-5999)
var (
	ErrGuestsExceedCapacity = New(5000, "入住人数超过房源容量")
	ErrStayTooShort         = New(5001, "入住天数不足最低要求")
	ErrInvalidDateRange     = New(5002, "无效的日期区间")
	ErrPricingFailed        = New(5003, "价格计算失败")
)

// 预订与可用性错误码 (6000-6999)
var (
	ErrBookingNotFound     = New(6000, "预订不存在")
	ErrBookingStatusError  = New(6001, "预订状态异常")
	ErrBookingConflict     = New(6002, "所选日期已被预订")
	ErrBookingExpired      = New(6003, "预订已过期")
	ErrBookingCannotCancel = New(6004, "预订无法取消")
	ErrDatesUnavailable    = New(6005, "所选日期不可预订")
)

// IsAppError 判断是否为应用错误
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError 获取应用错误
func GetAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return ErrUnknown.WithError(err)
}
