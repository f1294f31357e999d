package controller

import (
	"ai_authoring_backend/internal/middleware"
	"ai_authoring_backend/internal/model"
	"ai_authoring_backend/internal/service"
	"ai_authoring_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// Login godoc
// @Summary 登录
// @Description 凭据转发给上游，成功后用户记录和会话编码写入当前会话
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   X-Session-Token header string false "会话令牌"
// @Param   body body model.LoginCredentials true "登录凭据"
// @Success 200 {object} util.Response{data=model.LoginUser} "登录成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "登录失败"
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var creds model.LoginCredentials
	if err := ctx.ShouldBindJSON(&creds); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.Login(ctx.Request.Context(), middleware.CurrentSession(ctx), creds)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// Register godoc
// @Summary 注册用户
// @Description createdBy 和 userID 取当前会话的用户编码
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body model.RegisterPayload true "注册信息"
// @Success 200 {object} util.Response{data=model.RegisterResult}
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 502 {object} util.Response "上游错误"
// @Router /api/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var payload model.RegisterPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.AuthService.Register(ctx.Request.Context(), middleware.CurrentSession(ctx), payload)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// Logout godoc
// @Summary 退出登录
// @Description 清空会话中的全部键和该会话的页面状态
// @Tags 认证
// @Produce  json
// @Success 200 {object} util.Response
// @Router /api/auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	if err := c.AuthService.Logout(ctx.Request.Context(), middleware.CurrentSession(ctx)); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Me godoc
// @Summary 当前会话
// @Description 返回登录用户（未登录为 null）和当前生效的会话编码
// @Tags 认证
// @Produce  json
// @Success 200 {object} util.Response{data=object}
// @Router /api/auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	user, identity := c.AuthService.CurrentUser(ctx.Request.Context(), middleware.CurrentSession(ctx))
	util.Success(ctx, gin.H{
		"user":     user,
		"identity": identity,
		"loggedIn": user != nil,
	})
}
