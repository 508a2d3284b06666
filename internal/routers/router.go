package routers

import (
	"time"

	_ "github.com/haierkeys/objective-share-service/docs"
	"github.com/haierkeys/objective-share-service/internal/app"
	"github.com/haierkeys/objective-share-service/internal/middleware"
	"github.com/haierkeys/objective-share-service/internal/routers/api_router"
	"github.com/haierkeys/objective-share-service/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// newMethodLimiters 进程内按路由模板限流，写接口更严格
func newMethodLimiters() limiter.Face {
	return limiter.NewMethodLimiter().AddBuckets(
		limiter.BucketRule{
			Key:          "/invites",
			FillInterval: time.Second,
			Capacity:     10,
			Quantum:      10,
		},
		limiter.BucketRule{
			Key:          "/redeem",
			FillInterval: time.Second,
			Capacity:     20,
			Quantum:      20,
		},
		limiter.BucketRule{
			Key:          "/share/:token/comments",
			FillInterval: time.Second,
			Capacity:     20,
			Quantum:      20,
		},
	)
}

func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {

	// 获取配置
	cfg := appContainer.Config()

	r := gin.New()
	r.ContextWithFallback = true

	r.Use(middleware.AppInfo(app.Name, appContainer.Version().Version))
	r.Use(middleware.TraceMiddleware(middleware.TraceConfig{
		Enabled: cfg.Tracer.Enabled,
		Header:  cfg.Tracer.Header,
		Tracer:  appContainer.Tracer,
	}))
	r.Use(middleware.RateLimiter(newMethodLimiters()))
	r.Use(middleware.ContextTimeout(time.Duration(cfg.App.DefaultContextTimeout) * time.Second))
	r.Use(middleware.Cors())
	r.Use(middleware.LangWithTranslator(uni))
	r.Use(middleware.AccessLogWithLogger(appContainer.Logger()))
	r.Use(middleware.RecoveryWithLogger(appContainer.Logger()))

	// 创建 Handlers（注入 App Container）
	objectiveHandler := api_router.NewObjectiveHandler(appContainer)
	linkHandler := api_router.NewLinkHandler(appContainer)
	shareHandler := api_router.NewShareHandler(appContainer)
	inviteHandler := api_router.NewInviteHandler(appContainer)
	healthHandler := api_router.NewHealthHandler(appContainer)
	versionHandler := api_router.NewVersionHandler(appContainer)

	// 无需认证
	r.GET("/health", healthHandler.Check)
	r.GET("/version", versionHandler.ServerVersion)

	if cfg.Server.RunMode == gin.DebugMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// owner 接口
	owner := r.Group("/", middleware.OwnerAuthToken(appContainer.TokenManager))
	{
		owner.POST("/objectives", objectiveHandler.Create)
		owner.GET("/objectives/:id", objectiveHandler.Get)

		owner.POST("/links/revoke", linkHandler.Revoke)
		owner.POST("/links/:resourceId", linkHandler.Create)
		owner.GET("/links/:resourceId", linkHandler.List)
		owner.POST("/links/:resourceId/revoke", linkHandler.RevokeRole)

		owner.POST("/invites", inviteHandler.Create)
	}

	// 访客接口，Token 即凭证
	guest := r.Group("/", middleware.GuestRateLimiter(appContainer.GuestLimiter, appContainer.Logger()))
	{
		guest.GET("/share/:token", shareHandler.View)
		guest.POST("/share/:token/comments", shareHandler.Comment)
		guest.PUT("/share/:token/objective", shareHandler.Edit)

		guest.GET("/redeem", inviteHandler.Redeem)
		guest.POST("/redeem", inviteHandler.Redeem)
	}

	r.NoRoute(middleware.NoFound())

	return r
}
