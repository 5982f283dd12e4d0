// Package pricing 提供报价与可用性查询的 HTTP Handler
package pricing

import (
	"github.com/gin-gonic/gin"

	"github.com/luochenwei/villa-booking-backend/internal/common/handler"
	"github.com/luochenwei/villa-booking-backend/internal/common/response"
	pricingService "github.com/luochenwei/villa-booking-backend/internal/service/pricing"
)

// Handler 报价处理器
type Handler struct {
	pricingService      *pricingService.Service
	availabilityService *pricingService.AvailabilityService
}

// NewHandler 创建报价处理器
func NewHandler(pricingSvc *pricingService.Service, availabilitySvc *pricingService.AvailabilityService) *Handler {
	return &Handler{
		pricingService:      pricingSvc,
		availabilityService: availabilitySvc,
	}
}

// Quote 计算报价
// @Summary 计算住宿报价
// @Description 按房源、日期区间和人数计算完整报价，含逐晚明细、长住折扣、旅游税和押金
// @Tags 报价
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body pricingService.Request true "请求参数"
// @Success 200 {object} response.Response{data=pricingService.Result}
// @Router /api/v1/pricing/quote [post]
func (h *Handler) Quote(c *gin.Context) {
	tenantID, ok := handler.RequireTenantID(c)
	if !ok {
		return
	}

	var req pricingService.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}
	req.TenantID = tenantID

	result, err := h.pricingService.CalculatePrice(c.Request.Context(), &req)
	handler.MustSucceed(c, err, result)
}

// AvailabilityResult 可用性查询结果
type AvailabilityResult struct {
	Available bool `json:"available"`
}

// CheckAvailability 查询房源可用性
// @Summary 查询房源日期区间是否可预订
// @Description 按半开区间判定，退房日当天允许新预订入住；改期场景可通过 exclude_booking_id 排除自身
// @Tags 报价
// @Produce json
// @Security Bearer
// @Param property_id query int true "房源ID"
// @Param check_in query string true "入住日期 YYYY-MM-DD"
// @Param check_out query string true "退房日期 YYYY-MM-DD"
// @Param exclude_booking_id query int false "排除的预订ID"
// @Success 200 {object} response.Response{data=AvailabilityResult}
// @Router /api/v1/pricing/availability [get]
func (h *Handler) CheckAvailability(c *gin.Context) {
	tenantID, ok := handler.RequireTenantID(c)
	if !ok {
		return
	}
	propertyID, ok := handler.ParseRequiredQueryID(c, "property_id", "房源")
	if !ok {
		return
	}
	checkIn, ok := handler.ParseRequiredQueryDate(c, "check_in")
	if !ok {
		return
	}
	checkOut, ok := handler.ParseRequiredQueryDate(c, "check_out")
	if !ok {
		return
	}
	excludeBookingID, ok := handler.ParseQueryID(c, "exclude_booking_id", "预订")
	if !ok {
		return
	}

	available, err := h.availabilityService.CheckAvailability(
		c.Request.Context(), tenantID, propertyID, checkIn, checkOut, excludeBookingID)
	handler.MustSucceed(c, err, AvailabilityResult{Available: available})
}

// ListPropertyOptions 获取房源可选附加服务
// @Summary 获取房源可选的附加服务列表
// @Description 租户目录与房源级覆盖配置合并后的结果，名称按 locale 本地化
// @Tags 报价
// @Produce json
// @Security Bearer
// @Param id path int true "房源ID"
// @Param locale query string false "语言，默认 en"
// @Success 200 {object} response.Response{data=[]pricingService.PropertyOptionView}
// @Router /api/v1/properties/{id}/options [get]
func (h *Handler) ListPropertyOptions(c *gin.Context) {
	tenantID, propertyID, ok := handler.RequireTenantAndParseID(c, "房源")
	if !ok {
		return
	}

	options, err := h.pricingService.ListPropertyOptions(
		c.Request.Context(), tenantID, propertyID, c.Query("locale"))
	handler.MustSucceed(c, err, options)
}
