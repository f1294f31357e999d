package controller

import (
	"ai_authoring_backend/internal/middleware"
	"ai_authoring_backend/internal/model"
	"ai_authoring_backend/internal/service"
	"ai_authoring_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

type SummaryController struct {
	service *service.SummaryService
}

func NewSummaryController(s *service.SummaryService) *SummaryController {
	return &SummaryController{service: s}
}

// Summarize godoc
// @Summary 章节摘要
// @Description JSON 提交文本，或 multipart 上传 .pdf / .txt / .md 文件
// @Tags 章节摘要
// @Accept json,mpfd
// @Produce json
// @Param body body model.SummaryRequest false "章节文本"
// @Param file formData file false "章节文件"
// @Param chapterName formData string false "章节名"
// @Success 200 {object} util.Response{data=model.ChapterSummary}
// @Failure 400 {object} util.Response
// @Router /api/summary [post]
func (c *SummaryController) Summarize(ctx *gin.Context) {
	sess := middleware.CurrentSession(ctx)

	if strings.HasPrefix(ctx.ContentType(), "multipart/") {
		chapterName := ctx.PostForm("chapterName")
		fh, err := ctx.FormFile("file")
		if err != nil {
			// 没有文件时按表单文本处理
			sum, err := c.service.Summarize(ctx.Request.Context(), sess, model.SummaryRequest{
				ChapterName: chapterName,
				Text:        ctx.PostForm("text"),
			})
			if err != nil {
				util.RespondError(ctx, err)
				return
			}
			util.Success(ctx, sum)
			return
		}

		f, err := fh.Open()
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		defer f.Close()
		sum, err := c.service.SummarizeUpload(ctx.Request.Context(), sess, chapterName, fh.Filename, f)
		if err != nil {
			util.RespondError(ctx, err)
			return
		}
		util.Success(ctx, sum)
		return
	}

	var req model.SummaryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	sum, err := c.service.Summarize(ctx.Request.Context(), sess, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, sum)
}

// Current godoc
// @Summary 当前摘要
// @Tags 章节摘要
// @Produce json
// @Success 200 {object} util.Response{data=object}
// @Router /api/summary [get]
func (c *SummaryController) Current(ctx *gin.Context) {
	util.Success(ctx, c.service.Current(middleware.CurrentSession(ctx)))
}
