// Package booking 提供预订相关的 HTTP Handler
package booking

import (
	"github.com/gin-gonic/gin"

	"github.com/luochenwei/villa-booking-backend/internal/common/handler"
	"github.com/luochenwei/villa-booking-backend/internal/common/response"
	bookingService "github.com/luochenwei/villa-booking-backend/internal/service/booking"
)

// Handler 预订处理器
type Handler struct {
	bookingService *bookingService.Service
}

// NewHandler 创建预订处理器
func NewHandler(bookingSvc *bookingService.Service) *Handler {
	return &Handler{bookingService: bookingSvc}
}

// Create 创建预订
// @Summary 创建预订
// @Description 创建待确认预订并冻结当前报价，日期冲突时返回 6006
// @Tags 预订
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body bookingService.CreateRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Booking}
// @Router /api/v1/bookings [post]
func (h *Handler) Create(c *gin.Context) {
	tenantID, ok := handler.RequireTenantID(c)
	if !ok {
		return
	}

	var req bookingService.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}
	req.TenantID = tenantID

	booking, err := h.bookingService.Create(c.Request.Context(), &req)
	handler.MustSucceed(c, err, booking)
}

// List 获取预订列表
// @Summary 获取预订列表
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param property_id query int false "房源ID"
// @Param status query string false "预订状态"
// @Param reference query string false "预订编号模糊匹配"
// @Param start_date query string false "入住开始日期 YYYY-MM-DD"
// @Param end_date query string false "入住结束日期 YYYY-MM-DD"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/bookings [get]
func (h *Handler) List(c *gin.Context) {
	tenantID, ok := handler.RequireTenantID(c)
	if !ok {
		return
	}

	var req bookingService.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}
	page := handler.BindPagination(c)

	bookings, total, err := h.bookingService.List(c.Request.Context(), tenantID, &page, &req)
	handler.MustSucceedPage(c, err, bookings, total, page.Page, page.PageSize)
}

// Get 获取预订详情
// @Summary 获取预订详情
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=models.Booking}
// @Router /api/v1/bookings/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	tenantID, bookingID, ok := handler.RequireTenantAndParseID(c, "预订")
	if !ok {
		return
	}

	booking, err := h.bookingService.GetByID(c.Request.Context(), tenantID, bookingID)
	handler.MustSucceed(c, err, booking)
}

// GetByReference 根据预订编号获取预订
// @Summary 根据预订编号获取预订
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param reference path string true "预订编号"
// @Success 200 {object} response.Response{data=models.Booking}
// @Router /api/v1/bookings/reference/{reference} [get]
func (h *Handler) GetByReference(c *gin.Context) {
	tenantID, ok := handler.RequireTenantID(c)
	if !ok {
		return
	}
	reference := c.Param("reference")
	if reference == "" {
		response.BadRequest(c, "请提供预订编号")
		return
	}

	booking, err := h.bookingService.GetByReference(c.Request.Context(), tenantID, reference)
	handler.MustSucceed(c, err, booking)
}

// Confirm 确认预订
// @Summary 确认预订
// @Description 将待确认预订标记为已确认，只有 PENDING 状态可确认
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=models.Booking}
// @Router /api/v1/bookings/{id}/confirm [post]
func (h *Handler) Confirm(c *gin.Context) {
	tenantID, bookingID, ok := handler.RequireTenantAndParseID(c, "预订")
	if !ok {
		return
	}

	booking, err := h.bookingService.Confirm(c.Request.Context(), tenantID, bookingID)
	handler.MustSucceed(c, err, booking)
}

// CancelRequest 取消预订请求
type CancelRequest struct {
	Reason *string `json:"reason" binding:"omitempty,max=255"`
}

// Cancel 取消预订
// @Summary 取消预订
// @Description 取消待确认或已确认的预订并释放占用日期
// @Tags 预订
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Param request body CancelRequest false "请求参数"
// @Success 200 {object} response.Response{data=models.Booking}
// @Router /api/v1/bookings/{id}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	tenantID, bookingID, ok := handler.RequireTenantAndParseID(c, "预订")
	if !ok {
		return
	}

	var req CancelRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "参数错误")
			return
		}
	}

	booking, err := h.bookingService.Cancel(c.Request.Context(), tenantID, bookingID, req.Reason)
	handler.MustSucceed(c, err, booking)
}
