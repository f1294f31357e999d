package controller

import (
	"ai_authoring_backend/internal/middleware"
	"ai_authoring_backend/internal/model"
	"ai_authoring_backend/internal/service"
	"ai_authoring_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// KnowledgeBaseController 知识库与文档对话
type KnowledgeBaseController struct {
	kbs  *service.KnowledgeBaseService
	chat *service.DocChatService
}

func NewKnowledgeBaseController(kbs *service.KnowledgeBaseService, chat *service.DocChatService) *KnowledgeBaseController {
	return &KnowledgeBaseController{kbs: kbs, chat: chat}
}

// kbID 路径参数非法时按不存在处理
func kbID(ctx *gin.Context) uint {
	return util.MustParseUint(ctx.Param("id"))
}

// Create godoc
// @Summary 创建知识库
// @Tags 知识库
// @Accept json
// @Produce json
// @Param body body service.CreateKnowledgeBaseRequest true "知识库"
// @Success 201 {object} util.Response{data=model.KnowledgeBase}
// @Router /api/knowledge-bases [post]
func (c *KnowledgeBaseController) Create(ctx *gin.Context) {
	var req service.CreateKnowledgeBaseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	kb, err := c.kbs.Create(ctx.Request.Context(), middleware.CurrentSession(ctx), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, kb)
}

// List godoc
// @Summary 我的知识库
// @Tags 知识库
// @Produce json
// @Success 200 {object} util.Response{data=[]model.KnowledgeBase}
// @Router /api/knowledge-bases [get]
func (c *KnowledgeBaseController) List(ctx *gin.Context) {
	kbs, err := c.kbs.List(ctx.Request.Context(), middleware.CurrentSession(ctx))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, kbs)
}

// Get godoc
// @Summary 知识库详情
// @Tags 知识库
// @Produce json
// @Param id path int true "知识库 ID"
// @Success 200 {object} util.Response{data=model.KnowledgeBase}
// @Failure 404 {object} util.Response
// @Router /api/knowledge-bases/{id} [get]
func (c *KnowledgeBaseController) Get(ctx *gin.Context) {
	kb, err := c.kbs.Get(ctx.Request.Context(), middleware.CurrentSession(ctx), kbID(ctx))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, kb)
}

// Delete godoc
// @Summary 删除知识库
// @Description 同时删除文档和对话历史
// @Tags 知识库
// @Produce json
// @Param id path int true "知识库 ID"
// @Success 200 {object} util.Response
// @Router /api/knowledge-bases/{id} [delete]
func (c *KnowledgeBaseController) Delete(ctx *gin.Context) {
	if err := c.kbs.Delete(ctx.Request.Context(), middleware.CurrentSession(ctx), kbID(ctx)); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// UploadDocument godoc
// @Summary 上传文档
// @Description 支持 .pdf / .txt / .md，最大 20MB
// @Tags 知识库
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "知识库 ID"
// @Param file formData file true "文档"
// @Success 201 {object} util.Response{data=model.KnowledgeDocument}
// @Failure 400 {object} util.Response
// @Router /api/knowledge-bases/{id}/documents [post]
func (c *KnowledgeBaseController) UploadDocument(ctx *gin.Context) {
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

	doc, err := c.kbs.AddDocument(ctx.Request.Context(), middleware.CurrentSession(ctx), kbID(ctx), fh.Filename, f)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, doc)
}

// Chat godoc
// @Summary 文档对话
// @Tags 知识库
// @Accept json
// @Produce json
// @Param id path int true "知识库 ID"
// @Param body body model.ChatRequest true "问题"
// @Success 200 {object} util.Response{data=model.ChatReply}
// @Failure 409 {object} util.Response "提交进行中"
// @Router /api/knowledge-bases/{id}/chat [post]
func (c *KnowledgeBaseController) Chat(ctx *gin.Context) {
	var req model.ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	reply, err := c.chat.Chat(ctx.Request.Context(), middleware.CurrentSession(ctx), kbID(ctx), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, reply)
}

// History godoc
// @Summary 对话历史
// @Tags 知识库
// @Produce json
// @Param id path int true "知识库 ID"
// @Success 200 {object} util.Response{data=[]model.ChatMessage}
// @Router /api/knowledge-bases/{id}/history [get]
func (c *KnowledgeBaseController) History(ctx *gin.Context) {
	msgs, err := c.chat.History(ctx.Request.Context(), middleware.CurrentSession(ctx), kbID(ctx))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, msgs)
}

// ClearHistory godoc
// @Summary 清空对话历史
// @Tags 知识库
// @Produce json
// @Param id path int true "知识库 ID"
// @Success 200 {object} util.Response
// @Router /api/knowledge-bases/{id}/history [delete]
func (c *KnowledgeBaseController) ClearHistory(ctx *gin.Context) {
	if err := c.chat.ClearHistory(ctx.Request.Context(), middleware.CurrentSession(ctx), kbID(ctx)); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
