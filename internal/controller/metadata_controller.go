package controller

import (
	"ai_authoring_backend/internal/middleware"
	"ai_authoring_backend/internal/model"
	"ai_authoring_backend/internal/service"
	"ai_authoring_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MetadataController struct {
	service *service.MetadataService
}

func NewMetadataController(s *service.MetadataService) *MetadataController {
	return &MetadataController{service: s}
}

// Tag godoc
// @Summary 生成题目元数据
// @Tags 元数据
// @Accept json
// @Produce json
// @Param body body model.MetadataRequest true "题干"
// @Success 200 {object} util.Response{data=model.ItemMetadata}
// @Failure 400 {object} util.Response
// @Router /api/metadata/tag [post]
func (c *MetadataController) Tag(ctx *gin.Context) {
	var req model.MetadataRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	meta, err := c.service.Tag(ctx.Request.Context(), middleware.CurrentSession(ctx), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, meta)
}

// Current godoc
// @Summary 当前元数据结果
// @Tags 元数据
// @Produce json
// @Success 200 {object} util.Response{data=object}
// @Router /api/metadata [get]
func (c *MetadataController) Current(ctx *gin.Context) {
	util.Success(ctx, c.service.Current(middleware.CurrentSession(ctx)))
}
