package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/wholesale/internal/application/user"
	"github.com/xiebiao/wholesale/internal/interface/http/dto"
	"github.com/xiebiao/wholesale/internal/interface/http/middleware"
	"github.com/xiebiao/wholesale/pkg/response"
)

// UserHandler 用户HTTP处理器
type UserHandler struct {
	loginUseCase  *appuser.LoginUseCase
	logoutUseCase *appuser.LogoutUseCase
	manageUseCase *appuser.ManageUsersUseCase
}

// NewUserHandler 创建用户处理器
func NewUserHandler(
	loginUseCase *appuser.LoginUseCase,
	logoutUseCase *appuser.LogoutUseCase,
	manageUseCase *appuser.ManageUsersUseCase,
) *UserHandler {
	return &UserHandler{
		loginUseCase:  loginUseCase,
		logoutUseCase: logoutUseCase,
		manageUseCase: manageUseCase,
	}
}

// Login 用户登录
// @Summary      用户登录
// @Description  用户名密码登录，返回JWT Token对
// @Tags         用户模块
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=appuser.LoginResponse} "登录成功"
// @Failure      401 {object} response.Response "用户名或密码错误"
// @Router       /auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40901, "参数错误: "+err.Error())
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appuser.LoginRequest{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Logout 用户登出
// @Summary      用户登出
// @Description  删除会话并把当前Token加入黑名单
// @Tags         用户模块
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Router       /auth/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	err := h.logoutUseCase.Execute(c.Request.Context(),
		middleware.GetUserID(c), middleware.GetAccessToken(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// Create 创建用户
// @Summary      创建用户
// @Description  管理端创建用户并指定角色
// @Tags         用户模块
// @Security     BearerAuth
// @Param        request body dto.CreateUserRequest true "用户信息"
// @Success      201 {object} response.Response{data=appuser.UserInfo}
// @Failure      403 {object} response.Response "无权限"
// @Failure      409 {object} response.Response "用户名已存在"
// @Router       /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40901, "参数错误: "+err.Error())
		return
	}

	result, err := h.manageUseCase.Create(c.Request.Context(), appuser.CreateUserRequest{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// List 用户列表
// @Summary      用户列表
// @Tags         用户模块
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]appuser.UserInfo}
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.manageUseCase.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, users)
}

// ResetPassword 重置用户密码
// @Summary      重置用户密码
// @Tags         用户模块
// @Security     BearerAuth
// @Param        id path int true "用户ID"
// @Param        request body dto.ResetPasswordRequest true "新密码"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "用户不存在"
// @Router       /users/{id}/password [patch]
func (h *UserHandler) ResetPassword(c *gin.Context) {
	userID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40901, "参数错误: "+err.Error())
		return
	}

	if err := h.manageUseCase.ResetPassword(c.Request.Context(), userID, req.Password); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// Delete 删除用户
// @Summary      删除用户
// @Description  用户存在历史订单时拒绝删除
// @Tags         用户模块
// @Security     BearerAuth
// @Param        id path int true "用户ID"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "用户存在历史订单"
// @Failure      404 {object} response.Response "用户不存在"
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	userID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.manageUseCase.Delete(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}
