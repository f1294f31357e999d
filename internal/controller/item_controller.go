package controller

import (
	"ai_authoring_backend/internal/middleware"
	"ai_authoring_backend/internal/model"
	"ai_authoring_backend/internal/service"
	"ai_authoring_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ItemController 题目生成与题库
type ItemController struct {
	service *service.ItemBankService
}

func NewItemController(s *service.ItemBankService) *ItemController {
	return &ItemController{service: s}
}

// Generate godoc
// @Summary 生成题目
// @Description 会话编码由服务端填充，响应为上游原始内容
// @Tags 题库
// @Accept json
// @Produce json
// @Param body body model.ItemGenInput true "生成参数"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Failure 502 {object} util.Response "上游错误"
// @Router /api/items/generate [post]
func (c *ItemController) Generate(ctx *gin.Context) {
	var in model.ItemGenInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	raw, err := c.service.Generate(ctx.Request.Context(), middleware.CurrentSession(ctx), in)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, raw)
}

// Search godoc
// @Summary 查询题库
// @Tags 题库
// @Accept json
// @Produce json
// @Param body body model.ItemQuery true "查询条件"
// @Success 200 {object} util.Response{data=object}
// @Router /api/items/search [post]
func (c *ItemController) Search(ctx *gin.Context) {
	var q model.ItemQuery
	if err := ctx.ShouldBindJSON(&q); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	raw, err := c.service.Search(ctx.Request.Context(), middleware.CurrentSession(ctx), q)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, raw)
}

// Update godoc
// @Summary 修改题目
// @Tags 题库
// @Accept json
// @Produce json
// @Param id path string true "题目 ID"
// @Param body body model.QuestionUpdate true "题目内容"
// @Success 200 {object} util.Response{data=object}
// @Router /api/items/{id} [put]
func (c *ItemController) Update(ctx *gin.Context) {
	var u model.QuestionUpdate
	if err := ctx.ShouldBindJSON(&u); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	u.QuestionID = ctx.Param("id")
	raw, err := c.service.Update(ctx.Request.Context(), middleware.CurrentSession(ctx), u)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, raw)
}

// Delete godoc
// @Summary 删除题目
// @Description 仅当上游确认删除成功时返回 200
// @Tags 题库
// @Produce json
// @Param id path string true "题目 ID"
// @Param requestId query string false "题目请求 ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 502 {object} util.Response "删除未确认"
// @Router /api/items/{id} [delete]
func (c *ItemController) Delete(ctx *gin.Context) {
	ok := c.service.Delete(ctx.Request.Context(), middleware.CurrentSession(ctx), ctx.Param("id"), ctx.Query("requestId"))
	if !ok {
		util.Error(ctx, http.StatusBadGateway, "question was not deleted")
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}
