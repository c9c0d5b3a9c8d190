package order

import (
	apperrors "github.com/xiebiao/wholesale/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = apperrors.New(apperrors.ErrCodeOrderNotFound, "订单不存在")

	// ErrLineNotFound 订单行不存在
	ErrLineNotFound = apperrors.New(apperrors.ErrCodeLineNotFound, "订单中不存在该商品")

	// ErrOrderNotModifiable 订单状态不允许修改内容
	ErrOrderNotModifiable = apperrors.New(apperrors.ErrCodeOrderNotModifiable, "订单当前状态不允许修改")

	// ErrInvalidStatus 无效的订单状态
	ErrInvalidStatus = apperrors.New(apperrors.ErrCodeInvalidParams, "无效的订单状态")

	// ErrStatusNotSettable 状态不能通过修改接口设置(如NEW)
	ErrStatusNotSettable = apperrors.New(apperrors.ErrCodeInvalidParams, "不能将订单设置为该状态")

	// ErrEmptyItems 订单明细不能为空
	ErrEmptyItems = apperrors.New(apperrors.ErrCodeInvalidParams, "订单明细不能为空")

	// ErrInvalidQuantity 购买数量不合法
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "购买数量必须大于0")

	// ErrDuplicateItems 同一请求中商品重复
	ErrDuplicateItems = apperrors.New(apperrors.ErrCodeInvalidParams, "订单明细中存在重复商品")
)
