package dto

// LoginRequest HTTP登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50" example:"zhangsan"`
	Password string `json:"password" binding:"required,min=8,max=20" example:"pass1234"`
}

// CreateUserRequest HTTP创建用户请求(管理端)
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50" example:"lisi"`
	Password string `json:"password" binding:"required,min=8,max=20" example:"pass1234"`
	Role     string `json:"role" binding:"required,oneof=customer manager admin" example:"customer"`
}

// ResetPasswordRequest HTTP重置密码请求(管理端)
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8,max=20" example:"newpass1"`
}
