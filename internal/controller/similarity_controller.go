package controller

import (
	"ai_authoring_backend/internal/middleware"
	"ai_authoring_backend/internal/model"
	"ai_authoring_backend/internal/service"
	"ai_authoring_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// SimilarityController 相似题检测页面
type SimilarityController struct {
	service *service.SimilarityService
}

func NewSimilarityController(s *service.SimilarityService) *SimilarityController {
	return &SimilarityController{service: s}
}

// Upload godoc
// @Summary 上传题目工作簿
// @Description 仅接受 .xlsx / .xls，上传后成为当前选中的文件
// @Tags 相似题
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "工作簿"
// @Success 200 {object} util.Response{data=model.UploadedFile}
// @Failure 400 {object} util.Response
// @Router /api/similarity/upload [post]
func (c *SimilarityController) Upload(ctx *gin.Context) {
	fh, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer f.Close()

	file, err := c.service.Upload(ctx.Request.Context(), middleware.CurrentSession(ctx), fh.Filename, f, fh.Size)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, file)
}

// Process godoc
// @Summary 分析相似题
// @Description 未选择文件时返回 400 且不做分析
// @Tags 相似题
// @Produce json
// @Success 200 {object} util.Response{data=model.SimilarityResult}
// @Failure 400 {object} util.Response "未选择文件"
// @Failure 409 {object} util.Response "提交进行中"
// @Router /api/similarity/process [post]
func (c *SimilarityController) Process(ctx *gin.Context) {
	res, err := c.service.Process(ctx.Request.Context(), middleware.CurrentSession(ctx))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// List godoc
// @Summary 相似题列表
// @Tags 相似题
// @Produce json
// @Param status query string false "similar / enemy"
// @Param minScore query number false "最低相似度"
// @Param search query string false "关键字"
// @Param sort query string false "score_desc（默认）/ score_asc"
// @Success 200 {object} util.Response{data=service.SimilarityView}
// @Router /api/similarity [get]
func (c *SimilarityController) List(ctx *gin.Context) {
	var filter model.SimilarityFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, c.service.List(middleware.CurrentSession(ctx), filter))
}

// Toggle godoc
// @Summary 切换 similar / enemy
// @Tags 相似题
// @Produce json
// @Param id path string true "相似题 ID"
// @Success 200 {object} util.Response{data=model.SimilarItem}
// @Failure 404 {object} util.Response
// @Router /api/similarity/items/{id}/toggle [post]
func (c *SimilarityController) Toggle(ctx *gin.Context) {
	item, err := c.service.ToggleStatus(middleware.CurrentSession(ctx), ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, item)
}
