package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apporder "github.com/xiebiao/wholesale/internal/application/order"
	appproduct "github.com/xiebiao/wholesale/internal/application/product"
	appreport "github.com/xiebiao/wholesale/internal/application/report"
	appuser "github.com/xiebiao/wholesale/internal/application/user"
	"github.com/xiebiao/wholesale/internal/domain/user"
	"github.com/xiebiao/wholesale/internal/infrastructure/config"
	inframq "github.com/xiebiao/wholesale/internal/infrastructure/mq"
	"github.com/xiebiao/wholesale/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/wholesale/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/wholesale/internal/interface/http/handler"
	"github.com/xiebiao/wholesale/internal/interface/http/middleware"
	"github.com/xiebiao/wholesale/pkg/jwt"
	"github.com/xiebiao/wholesale/pkg/metrics"
	"github.com/xiebiao/wholesale/pkg/response"
	"github.com/xiebiao/wholesale/pkg/tracing"
)

// main 主程序入口
// 说明：手动依赖注入，组装顺序与wire.go中的ProviderSet一致
// Repository ← Service ← UseCase ← Handler
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())
	fmt.Printf("  - MQ启用: %v\n", cfg.MQ.Enabled)
	fmt.Printf("  - 链路追踪启用: %v\n", cfg.Tracing.Enabled)

	// 2. 初始化Prometheus指标
	metrics.InitMetrics()

	// 3. 初始化链路追踪(可选)
	if cfg.Tracing.Enabled {
		shutdownTracer, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			log.Fatalf("初始化链路追踪失败: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracer(ctx); err != nil {
				log.Printf("关闭链路追踪失败: %v", err)
			}
		}()
	}

	// 4. 初始化数据库连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	// 5. 初始化Redis连接
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 6. 初始化事件发布器
	// 学习要点：端口-适配器模式
	// 应用层只依赖EventPublisher接口，MQ禁用时注入空实现，订单流程完全不受影响
	var publisher apporder.EventPublisher = apporder.NoopPublisher{}
	if cfg.MQ.Enabled {
		eventPublisher, err := inframq.NewEventPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
		if err != nil {
			log.Fatalf("初始化事件发布器失败: %v", err)
		}
		defer eventPublisher.Close()
		publisher = eventPublisher
	}

	// 7. 依赖注入（手动组装）
	// 基础设施层
	userRepo := mysql.NewUserRepository(db)
	productRepo := mysql.NewProductRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	reportReader := mysql.NewReportRepository(db)
	txManager := mysql.NewTxManager(db)
	sessionStore := redis.NewSessionStore(redisClient)
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)

	// 领域层
	userService := user.NewService(userRepo)

	// 应用层
	loginUseCase := appuser.NewLoginUseCase(userService, jwtManager, sessionStore)
	logoutUseCase := appuser.NewLogoutUseCase(sessionStore)
	manageUsersUseCase := appuser.NewManageUsersUseCase(userService, userRepo)
	manageProductUseCase := appproduct.NewManageProductUseCase(productRepo, txManager)
	listProductsUseCase := appproduct.NewListProductsUseCase(productRepo)
	createOrderUseCase := apporder.NewCreateOrderUseCase(orderRepo, productRepo, txManager, publisher)
	addItemUseCase := apporder.NewAddItemUseCase(orderRepo, productRepo, txManager, publisher)
	removeItemUseCase := apporder.NewRemoveItemUseCase(orderRepo, productRepo, txManager, publisher)
	changeStatusUseCase := apporder.NewChangeStatusUseCase(orderRepo, txManager, publisher)
	getOrderUseCase := apporder.NewGetOrderUseCase(orderRepo)
	reportUseCase := appreport.NewReportUseCase(reportReader, productRepo, cfg.Report.LowStockThreshold)

	// 接口层
	userHandler := handler.NewUserHandler(loginUseCase, logoutUseCase, manageUsersUseCase)
	productHandler := handler.NewProductHandler(manageProductUseCase, listProductsUseCase)
	orderHandler := handler.NewOrderHandler(
		createOrderUseCase, addItemUseCase, removeItemUseCase, changeStatusUseCase, getOrderUseCase)
	reportHandler := handler.NewReportHandler(reportUseCase)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 8. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(middleware.Metrics())

	// 9. 注册路由
	registerRoutes(r, userHandler, productHandler, orderHandler, reportHandler, authMiddleware)

	// 10. 启动服务（优雅关停）
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		fmt.Printf("\n🚀 服务启动成功！\n")
		fmt.Printf("   访问地址: http://localhost%s\n", addr)
		fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
		fmt.Printf("   监控指标: http://localhost%s/metrics\n", addr)
		fmt.Printf("\n按Ctrl+C停止服务\n\n")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("启动服务失败: %v", err)
		}
	}()

	<-ctx.Done()
	stop()
	fmt.Println("\n正在关停服务...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("服务关停超时: %v", err)
	}
	fmt.Println("服务已退出")
}

// registerRoutes 注册路由
// 权限矩阵：
// - 商品浏览公开；商品管理仅admin
// - 下单：customer/manager；订单行增删、状态修改：manager(admin兜底放行)
// - 用户管理仅admin
// - 报表：历史/明细customer可查自己的，低库存仅manager
func registerRoutes(
	r *gin.Engine,
	userHandler *handler.UserHandler,
	productHandler *handler.ProductHandler,
	orderHandler *handler.OrderHandler,
	reportHandler *handler.ReportHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		// 认证模块
		auth := v1.Group("/auth")
		{
			auth.POST("/login", userHandler.Login)
			auth.POST("/logout", authMiddleware.RequireAuth(), userHandler.Logout)
		}

		// 商品模块
		products := v1.Group("/products")
		{
			// 商品目录公开，无需登录
			products.GET("", productHandler.List)

			manage := products.Group("")
			manage.Use(authMiddleware.RequireAuth(), authMiddleware.RequireCapability(user.CapProductManage))
			{
				manage.POST("", productHandler.Create)
				manage.PATCH("/:id/price", productHandler.UpdatePrice)
				manage.PATCH("/:id/stock", productHandler.UpdateStock)
				manage.DELETE("/:id", productHandler.Delete)
			}
		}

		// 订单模块
		orders := v1.Group("/orders")
		orders.Use(authMiddleware.RequireAuth())
		{
			orders.POST("", authMiddleware.RequireCapability(user.CapOrderCreate), orderHandler.CreateOrder)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.POST("/:id/items",
				authMiddleware.RequireCapability(user.CapOrderModifyItems), orderHandler.AddItem)
			orders.DELETE("/:id/items/:product_id",
				authMiddleware.RequireCapability(user.CapOrderModifyItems), orderHandler.RemoveItem)
			orders.PATCH("/:id/status",
				authMiddleware.RequireCapability(user.CapOrderChangeStatus), orderHandler.ChangeStatus)
		}

		// 用户模块（管理端）
		users := v1.Group("/users")
		users.Use(authMiddleware.RequireAuth(), authMiddleware.RequireCapability(user.CapUserManage))
		{
			users.POST("", userHandler.Create)
			users.GET("", userHandler.List)
			users.PATCH("/:id/password", userHandler.ResetPassword)
			users.DELETE("/:id", userHandler.Delete)
		}

		// 报表模块
		reports := v1.Group("/reports")
		reports.Use(authMiddleware.RequireAuth())
		{
			reports.GET("/history/:user_id",
				authMiddleware.RequireCapability(user.CapReportHistory), reportHandler.History)
			reports.GET("/low-stock",
				authMiddleware.RequireCapability(user.CapReportLowStock), reportHandler.LowStock)
			reports.GET("/orders/:id",
				authMiddleware.RequireCapability(user.CapReportOrderDetail), reportHandler.Details)
		}
	}
}
