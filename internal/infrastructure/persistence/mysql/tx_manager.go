package mysql

import (
	"context"

	"gorm.io/gorm"
)

// txKey 事务在context中的键
// 教学要点:用非导出类型做context键,避免与其他包的键冲突
type txKey struct{}

// TxManager 事务管理器
// 教学要点:
// 1. 封装GORM的Transaction方法
// 2. 通过context传递事务DB(避免全局变量)
// 3. 支持嵌套事务(GORM自动使用Savepoint)
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务
// 教学要点:
// 1. fn函数内的所有Repository操作都会在同一事务中执行
// 2. fn返回error时自动ROLLBACK,返回nil时自动COMMIT
// 3. 通过context.WithValue传递事务DB,Repository的getDB方法提取
//
// 使用示例:
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    // 1. 锁定商品
//	    p, err := productRepo.LockByID(ctx, productID)
//	    if err != nil {
//	        return err
//	    }
//	    // 2. 写入订单行
//	    if err := orderRepo.UpsertLine(ctx, line); err != nil {
//	        return err // 自动回滚
//	    }
//	    // 3. 扣减库存
//	    return productRepo.UpdateStock(ctx, productID, -quantity)
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txKey{}, tx)
		return fn(txCtx)
	})
}

// getDB 从context获取事务DB,没有事务时返回默认DB
// 所有Repository共用,保证同一事务内的操作走同一连接
func getDB(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}
