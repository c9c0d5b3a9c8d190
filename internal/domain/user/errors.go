package user

import (
	apperrors "github.com/xiebiao/wholesale/pkg/errors"
)

// 用户领域错误定义
var (
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = apperrors.New(apperrors.ErrCodeUserNotFound, "用户不存在")

	// ErrUsernameDuplicate 用户名已存在
	ErrUsernameDuplicate = apperrors.New(apperrors.ErrCodeUsernameDuplicate, "用户名已存在")

	// ErrInvalidRole 无效的角色
	ErrInvalidRole = apperrors.New(apperrors.ErrCodeInvalidParams, "角色必须是customer/manager/admin之一")

	// ErrInvalidPassword 密码错误
	ErrInvalidPassword = apperrors.New(apperrors.ErrCodeInvalidPassword, "用户名或密码错误")

	// ErrWeakPassword 密码强度不足
	ErrWeakPassword = apperrors.New(apperrors.ErrCodeInvalidParams, "密码长度应为8-20位，且包含字母和数字")

	// ErrUserHasOrders 用户名下存在订单，不能删除
	ErrUserHasOrders = apperrors.New(apperrors.ErrCodeIntegrityViolation, "该用户名下存在订单，不能删除")
)
