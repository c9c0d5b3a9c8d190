//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 教学说明：
// 1. Wire是Google开发的编译期依赖注入工具
// 2. 与运行时反射注入不同，Wire在编译期生成代码
// 3. 优势：零运行时开销、类型安全、编译期检测循环依赖
//
// Wire工作流程：
// Step 1: 编写wire.go（本文件），定义Providers和Injector
// Step 2: 运行 `wire gen ./cmd/api`
// Step 3: Wire生成wire_gen.go，包含完整的依赖创建代码
// Step 4: main.go调用wire_gen.go中的InitializeApp()

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	apporder "github.com/xiebiao/wholesale/internal/application/order"
	appproduct "github.com/xiebiao/wholesale/internal/application/product"
	appreport "github.com/xiebiao/wholesale/internal/application/report"
	appuser "github.com/xiebiao/wholesale/internal/application/user"
	"github.com/xiebiao/wholesale/internal/domain/product"
	"github.com/xiebiao/wholesale/internal/domain/user"
	"github.com/xiebiao/wholesale/internal/infrastructure/config"
	inframq "github.com/xiebiao/wholesale/internal/infrastructure/mq"
	"github.com/xiebiao/wholesale/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/wholesale/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/wholesale/internal/interface/http/handler"
	"github.com/xiebiao/wholesale/internal/interface/http/middleware"
	"github.com/xiebiao/wholesale/pkg/jwt"
)

// ========================================
// Wire Provider Sets (依赖分组)
// ========================================

// infrastructureSet 基础设施层依赖
var infrastructureSet = wire.NewSet(
	config.Load,     // 加载配置文件
	mysql.NewDB,     // 创建MySQL连接
	redis.NewClient, // 创建Redis连接
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,    // 用户仓储
	mysql.NewProductRepository, // 商品仓储
	mysql.NewOrderRepository,   // 订单仓储
	mysql.NewReportRepository,  // 报表只读仓储
	mysql.NewTxManager,         // 事务管理器
	// TxManager接口绑定：应用层依赖接口，基础设施层提供实现
	wire.Bind(new(apporder.TxManager), new(*mysql.TxManager)),
	wire.Bind(new(appproduct.TxManager), new(*mysql.TxManager)),
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	user.NewService, // 用户领域服务
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewManageUsersUseCase,
	appproduct.NewManageProductUseCase,
	appproduct.NewListProductsUseCase,
	apporder.NewCreateOrderUseCase,
	apporder.NewAddItemUseCase,
	apporder.NewRemoveItemUseCase,
	apporder.NewChangeStatusUseCase,
	apporder.NewGetOrderUseCase,
	provideReportUseCase,
)

// middlewareSet 中间件依赖
var middlewareSet = wire.NewSet(
	provideJWTManager,
	provideSessionStore,
	middleware.NewAuthMiddleware,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewUserHandler,
	handler.NewProductHandler,
	handler.NewOrderHandler,
	handler.NewReportHandler,
)

// ========================================
// Custom Providers (自定义Provider)
// ========================================

// provideJWTManager 从配置创建JWT管理器
// 教学要点：config.Config包含多个字段，jwt.NewManager只需要JWT相关配置，
// Wire无法自动提取，所以手动编写Provider
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideSessionStore 从Redis客户端创建Session存储
func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// provideEventPublisher 根据配置选择真实MQ发布器或空实现
// 教学要点：端口-适配器模式在Wire里同样适用，Provider返回接口类型
func provideEventPublisher(cfg *config.Config) (apporder.EventPublisher, error) {
	if !cfg.MQ.Enabled {
		return apporder.NoopPublisher{}, nil
	}
	return inframq.NewEventPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
}

// provideReportUseCase 从配置提取低库存阈值
func provideReportUseCase(reader appreport.Reader, productRepo product.Repository, cfg *config.Config) *appreport.ReportUseCase {
	return appreport.NewReportUseCase(reader, productRepo, cfg.Report.LowStockThreshold)
}

// provideGinEngine 创建并配置Gin引擎
func provideGinEngine(
	cfg *config.Config,
	userHandler *handler.UserHandler,
	productHandler *handler.ProductHandler,
	orderHandler *handler.OrderHandler,
	reportHandler *handler.ReportHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(middleware.Metrics())

	// Swagger文档路由
	// 访问 http://localhost:8080/swagger/index.html 查看API文档
	// 生产环境建议禁用Swagger或添加访问控制
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	registerRoutes(r, userHandler, productHandler, orderHandler, reportHandler, authMiddleware)

	return r
}

// ========================================
// Wire Injector (依赖注入器)
// ========================================

// InitializeApp 初始化整个应用
// 返回：配置好的Gin引擎
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		provideEventPublisher,
		provideGinEngine,
	)

	// 占位返回值，实际代码由wire_gen.go生成
	return nil, nil
}
