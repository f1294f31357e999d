package controller

import (
	"ai_authoring_backend/internal/middleware"
	"ai_authoring_backend/internal/service"
	"ai_authoring_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// EssayController 作文评估页面
type EssayController struct {
	service *service.EssayService
}

func NewEssayController(s *service.EssayService) *EssayController {
	return &EssayController{service: s}
}

type SetAnswerRequest struct {
	Answer string `json:"answer"`
}

type SaveEvaluationRequest struct {
	Evaluator string `json:"evaluator"`
}

// Open godoc
// @Summary 打开考生作文
// @Description 载入考生的作文题，作答为空，evaluated 为 false
// @Tags 作文评估
// @Produce json
// @Param candidateId path string true "考生 ID"
// @Success 200 {object} util.Response{data=service.EssaySheet}
// @Router /api/essays/{candidateId}/open [post]
func (c *EssayController) Open(ctx *gin.Context) {
	sheet, err := c.service.Open(ctx.Request.Context(), middleware.CurrentSession(ctx), ctx.Param("candidateId"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, sheet)
}

// Sheet godoc
// @Summary 当前作文页面
// @Tags 作文评估
// @Produce json
// @Success 200 {object} util.Response{data=service.EssaySheet}
// @Failure 400 {object} util.Response "页面未打开"
// @Router /api/essays [get]
func (c *EssayController) Sheet(ctx *gin.Context) {
	sheet, err := c.service.Sheet(middleware.CurrentSession(ctx))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, sheet)
}

// SetAnswer godoc
// @Summary 填写作答
// @Tags 作文评估
// @Accept json
// @Produce json
// @Param questionId path string true "题目 ID"
// @Param body body SetAnswerRequest true "作答"
// @Success 200 {object} util.Response{data=service.EssaySheet}
// @Router /api/essays/answers/{questionId} [put]
func (c *EssayController) SetAnswer(ctx *gin.Context) {
	var req SetAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	sheet, err := c.service.SetAnswer(middleware.CurrentSession(ctx), ctx.Param("questionId"), req.Answer)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, sheet)
}

// ClearAll godoc
// @Summary 清空作答与评分
// @Tags 作文评估
// @Produce json
// @Success 200 {object} util.Response{data=service.EssaySheet}
// @Router /api/essays/clear [post]
func (c *EssayController) ClearAll(ctx *gin.Context) {
	sheet, err := c.service.ClearAll(middleware.CurrentSession(ctx))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, sheet)
}

// Evaluate godoc
// @Summary AI 评分
// @Description 至少一题有作答；每题评分在 60%-100% 满分之间
// @Tags 作文评估
// @Produce json
// @Success 200 {object} util.Response{data=service.EssaySheet}
// @Failure 400 {object} util.Response "没有作答"
// @Failure 409 {object} util.Response "提交进行中"
// @Router /api/essays/evaluate [post]
func (c *EssayController) Evaluate(ctx *gin.Context) {
	sheet, err := c.service.Evaluate(ctx.Request.Context(), middleware.CurrentSession(ctx))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, sheet)
}

// Save godoc
// @Summary 保存评估
// @Description 首次评估完成前返回 409
// @Tags 作文评估
// @Accept json
// @Produce json
// @Param body body SaveEvaluationRequest false "评估人"
// @Success 201 {object} util.Response{data=model.Evaluation}
// @Failure 409 {object} util.Response "尚未评估"
// @Router /api/essays/save [post]
func (c *EssayController) Save(ctx *gin.Context) {
	var req SaveEvaluationRequest
	// 请求体可省略
	_ = ctx.ShouldBindJSON(&req)

	eval, err := c.service.Save(ctx.Request.Context(), middleware.CurrentSession(ctx), req.Evaluator)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, eval)
}

// Saved godoc
// @Summary 已保存的评估
// @Tags 作文评估
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Evaluation}
// @Router /api/essays/saved [get]
func (c *EssayController) Saved(ctx *gin.Context) {
	evals, err := c.service.Saved(ctx.Request.Context(), middleware.CurrentSession(ctx))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, evals)
}
