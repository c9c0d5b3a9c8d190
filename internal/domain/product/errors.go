package product

import (
	apperrors "github.com/xiebiao/wholesale/pkg/errors"
)

// 商品领域错误定义
var (
	// ErrProductNotFound 商品不存在
	ErrProductNotFound = apperrors.New(apperrors.ErrCodeProductNotFound, "商品不存在")

	// ErrInvalidName 商品名称不能为空
	ErrInvalidName = apperrors.New(apperrors.ErrCodeInvalidParams, "商品名称不能为空")

	// ErrInvalidPrice 无效的价格
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "价格必须大于0")

	// ErrInvalidStock 无效的库存
	ErrInvalidStock = apperrors.New(apperrors.ErrCodeInvalidParams, "库存不能为负数")

	// ErrInsufficientStock 库存不足
	ErrInsufficientStock = apperrors.New(apperrors.ErrCodeInsufficientStock, "库存不足")

	// ErrProductInUse 商品被未完结订单引用,不能删除
	ErrProductInUse = apperrors.New(apperrors.ErrCodeIntegrityViolation, "商品被进行中的订单引用，不能删除")
)
