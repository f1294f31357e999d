package controller

import (
	"ai_authoring_backend/internal/middleware"
	"ai_authoring_backend/internal/model"
	"ai_authoring_backend/internal/service"
	"ai_authoring_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// QuizController 测验生成页面
type QuizController struct {
	service *service.QuizService
}

func NewQuizController(s *service.QuizService) *QuizController {
	return &QuizController{service: s}
}

// Generate godoc
// @Summary 生成测验
// @Description questionCount 为 "per-elo" 时每个 ELO 三题；同一会话已有提交在进行时返回 409
// @Tags 测验
// @Accept json
// @Produce json
// @Param body body model.QuizRequest true "测验表单"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response "提交进行中"
// @Router /api/quiz/generate [post]
func (c *QuizController) Generate(ctx *gin.Context) {
	var req model.QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	quiz, err := c.service.Generate(ctx.Request.Context(), middleware.CurrentSession(ctx), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// Current godoc
// @Summary 当前测验
// @Description 页面状态、最近一次结果及按 ELO 分组的题目
// @Tags 测验
// @Produce json
// @Success 200 {object} util.Response{data=object}
// @Router /api/quiz [get]
func (c *QuizController) Current(ctx *gin.Context) {
	sess := middleware.CurrentSession(ctx)
	snap := c.service.Current(sess)
	groups, err := c.service.Grouped(sess)
	if err != nil {
		groups = []model.ELOGroup{}
	}
	util.Success(ctx, gin.H{
		"state":     snap.State,
		"error":     snap.Error,
		"quiz":      snap.Result,
		"groups":    groups,
		"updatedAt": snap.UpdatedAt,
	})
}

// RemoveQuestion godoc
// @Summary 删除测验中的一题
// @Tags 测验
// @Produce json
// @Param id path string true "题目 ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/quiz/questions/{id} [delete]
func (c *QuizController) RemoveQuestion(ctx *gin.Context) {
	if err := c.service.RemoveQuestion(middleware.CurrentSession(ctx), ctx.Param("id")); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Reset godoc
// @Summary 清空测验
// @Tags 测验
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/quiz/reset [post]
func (c *QuizController) Reset(ctx *gin.Context) {
	c.service.Reset(middleware.CurrentSession(ctx))
	util.Success(ctx, nil)
}
