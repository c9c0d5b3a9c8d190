package order

import (
	"context"
)

// TxManager 事务管理端口
// 教学要点:
// 1. 应用层定义接口,mysql.TxManager是其实现(依赖倒置)
// 2. fn内的所有Repository操作通过context加入同一事务:
//    fn返回error时自动ROLLBACK,返回nil时自动COMMIT
// 3. 接口化使得单元测试可以用内存快照回滚的假实现验证原子性
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
