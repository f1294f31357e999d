package controller

import (
	"ai_authoring_backend/internal/middleware"
	"ai_authoring_backend/internal/service"
	"ai_authoring_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ReportController 管理报表
type ReportController struct {
	service *service.UsageService
}

func NewReportController(s *service.UsageService) *ReportController {
	return &ReportController{service: s}
}

// Usage godoc
// @Summary 使用量汇总
// @Tags 报表
// @Produce json
// @Success 200 {object} util.Response{data=service.UsageSummary}
// @Failure 502 {object} util.Response "上游错误"
// @Router /api/reports/usage [get]
func (c *ReportController) Usage(ctx *gin.Context) {
	summary, err := c.service.Totals(ctx.Request.Context(), middleware.CurrentSession(ctx))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

// BookUsage godoc
// @Summary 按书目的使用量
// @Tags 报表
// @Produce json
// @Success 200 {object} util.Response{data=[]model.BookUsage}
// @Router /api/reports/book-usage [get]
func (c *ReportController) BookUsage(ctx *gin.Context) {
	rows, err := c.service.BookWise(ctx.Request.Context(), middleware.CurrentSession(ctx))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}
