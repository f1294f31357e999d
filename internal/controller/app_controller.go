package controller

import (
	"ai_authoring_backend/internal/middleware"
	"ai_authoring_backend/internal/service"
	"ai_authoring_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AppController AI 应用订阅
type AppController struct {
	service *service.AppService
}

func NewAppController(s *service.AppService) *AppController {
	return &AppController{service: s}
}

// List godoc
// @Summary AI 应用列表
// @Tags 应用
// @Produce json
// @Param subscription query string false "0 未订阅 / 1 已订阅，不传返回全部"
// @Success 200 {object} util.Response{data=[]model.AppDetail}
// @Failure 400 {object} util.Response
// @Router /api/apps [get]
func (c *AppController) List(ctx *gin.Context) {
	apps, err := c.service.List(ctx.Request.Context(), middleware.CurrentSession(ctx), ctx.Query("subscription"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, apps)
}

// Subscribe godoc
// @Summary 订阅 AI 应用
// @Tags 应用
// @Produce json
// @Param appcode path string true "应用编码"
// @Success 200 {object} util.Response{data=model.SubscribeResult}
// @Router /api/apps/{appcode}/subscribe [post]
func (c *AppController) Subscribe(ctx *gin.Context) {
	res, err := c.service.Subscribe(ctx.Request.Context(), middleware.CurrentSession(ctx), ctx.Param("appcode"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}
