package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/wholesale/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.Database.DSN()

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 配置连接池
	// 学习要点：合理的连接池配置对性能至关重要
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	// 最大打开连接数（建议：CPU核数 * 2 + 磁盘数量）
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	// 最大空闲连接数（建议：MaxOpenConns的1/4到1/2）
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// 连接最大存活时间（防止数据库主动断开连接）
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 自动迁移表结构（开发环境）
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// 学习要点：
// 1. AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
// 2. 生产环境应使用版本化的迁移脚本，不要依赖AutoMigrate
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&ProductModel{},
		&OrderModel{},
		&OrderLineModel{},
	)
}

// UserModel GORM用户模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/user/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
type UserModel struct {
	ID        uint           `gorm:"primaryKey"`
	Username  string         `gorm:"uniqueIndex;size:50;not null;comment:用户名"`
	Password  string         `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Role      string         `gorm:"size:20;not null;comment:角色(customer/manager/admin)"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// ProductModel GORM商品模型
// 设计说明:
// 1. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 2. 软删除:历史订单行仍要能JOIN出商品名称
// 3. stock列是库存账本的唯一事实来源,更新走原子UPDATE
type ProductModel struct {
	ID        uint           `gorm:"primaryKey"`
	Name      string         `gorm:"size:200;not null;comment:商品名称"`
	Price     int64          `gorm:"not null;comment:单价(分)"`
	Stock     int            `gorm:"not null;default:0;comment:库存数量"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (ProductModel) TableName() string {
	return "products"
}

// OrderModel GORM订单模型
// 教学要点:
// 1. 与OrderLineModel是一对多关系
// 2. 没有冗余总额字段:总额由订单行快照价格汇总
// 3. Status使用string存储(NEW/IN_PROGRESS/...),可读性优先
type OrderModel struct {
	ID        uint             `gorm:"primaryKey"`
	UserID    uint             `gorm:"index;not null;comment:下单用户ID"`
	Status    string           `gorm:"index;size:20;not null;default:NEW;comment:订单状态"`
	Lines     []OrderLineModel `gorm:"foreignKey:OrderID"` // 一对多关联
	CreatedAt time.Time        `gorm:"index;comment:创建时间"`
	UpdatedAt time.Time        `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (OrderModel) TableName() string {
	return "orders"
}

// OrderLineModel GORM订单行模型
// 教学要点:
// 1. 复合主键(order_id, product_id):同一商品在一个订单中只有一行
// 2. UnitPrice是加入订单时的价格快照,商品改价不影响历史订单
type OrderLineModel struct {
	OrderID   uint  `gorm:"primaryKey;autoIncrement:false;comment:订单ID"`
	ProductID uint  `gorm:"primaryKey;autoIncrement:false;index;comment:商品ID"`
	Quantity  int   `gorm:"not null;comment:数量"`
	UnitPrice int64 `gorm:"not null;comment:加入时单价快照(分)"`
}

// TableName 指定表名
func (OrderLineModel) TableName() string {
	return "order_lines"
}
