package controller

import (
	"ai_authoring_backend/internal/middleware"
	"ai_authoring_backend/internal/service"
	"ai_authoring_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// CatalogController 书目、章节、学习目标下拉数据
type CatalogController struct {
	service *service.CatalogService
}

func NewCatalogController(s *service.CatalogService) *CatalogController {
	return &CatalogController{service: s}
}

// Books godoc
// @Summary 书目下拉
// @Tags 目录
// @Produce json
// @Success 200 {object} util.Response{data=[]model.DropdownOption}
// @Failure 502 {object} util.Response "上游错误"
// @Router /api/catalog/books [get]
func (c *CatalogController) Books(ctx *gin.Context) {
	books, err := c.service.Books(ctx.Request.Context(), middleware.CurrentSession(ctx))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, books)
}

// Chapters godoc
// @Summary 书目下的章节
// @Description 上游返回 null 时为空数组
// @Tags 目录
// @Produce json
// @Param bookcode query string true "书目编码"
// @Success 200 {object} util.Response{data=[]model.Chapter}
// @Failure 400 {object} util.Response
// @Router /api/catalog/chapters [get]
func (c *CatalogController) Chapters(ctx *gin.Context) {
	chapters, err := c.service.Chapters(ctx.Request.Context(), ctx.Query("bookcode"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, chapters)
}

// LearningObjectives godoc
// @Summary 章节下的学习目标
// @Description 兼容上游的数组和 {data: [...]} 两种形态，并过滤掉单纯的编码
// @Tags 目录
// @Produce json
// @Param chaptercode query string true "章节编码"
// @Success 200 {object} util.Response{data=[]model.LearningObjective}
// @Failure 400 {object} util.Response
// @Router /api/catalog/learning-objectives [get]
func (c *CatalogController) LearningObjectives(ctx *gin.Context) {
	los, err := c.service.LearningObjectives(ctx.Request.Context(), ctx.Query("chaptercode"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, los)
}
