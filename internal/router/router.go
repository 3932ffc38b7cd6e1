package router

import (
	"fmt"
	"strings"

	"github.com/storefront-next/internal/cache"
	"github.com/storefront-next/internal/config"
	adminhandlers "github.com/storefront-next/internal/http/handlers/admin"
	publichandlers "github.com/storefront-next/internal/http/handlers/public"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按用户侧/管理端分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "sf"
	}
	checkoutRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:checkout", redisPrefix),
		WindowSeconds: cfg.Security.CheckoutRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CheckoutRateLimit.MaxRequests,
		Message:       "下单过于频繁，请 %d 秒后再试",
	}
	roleGuard := RoleGuardMiddleware(c.AuthzService, c.Store)

	// 中间件
	r.Use(RecoveryMiddleware())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, "页面不存在")
	})

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/health", func(ctx *gin.Context) {
			response.Success(ctx, gin.H{"status": "ok"})
		})

		// 公开接口
		apiGroup.POST("/auth/login", publicHandler.Login)
		apiGroup.POST("/auth/register", publicHandler.Register)
		apiGroup.GET("/products", publicHandler.GetProducts)
		apiGroup.GET("/categories", publicHandler.GetCategories)

		// 登录用户接口
		authed := apiGroup.Group("")
		authed.Use(roleGuard)
		{
			authed.POST("/auth/logout", publicHandler.Logout)
			authed.GET("/session", publicHandler.GetSession)
			authed.GET("/profile", publicHandler.GetProfile)
			authed.PUT("/profile", publicHandler.UpdateProfile)

			authed.GET("/cart", publicHandler.GetCart)
			authed.POST("/cart/items", publicHandler.AddCartItem)
			authed.PUT("/cart/items/:productId", publicHandler.UpdateCartItem)
			authed.POST("/cart/items/:productId/step", publicHandler.StepCartItem)
			authed.DELETE("/cart/items/:productId", publicHandler.RemoveCartItem)

			authed.POST("/checkout", RateLimitMiddleware(cache.Client(), checkoutRule, KeyByUser), publicHandler.Checkout)
			authed.GET("/orders", publicHandler.ListOrders)
			authed.GET("/orders/:orderId", publicHandler.GetOrder)
			authed.DELETE("/orders/:orderId", publicHandler.DeleteOrder)
			authed.GET("/orders/:orderId/countdown", publicHandler.GetCountdown)
			authed.GET("/orders/:orderId/countdown/stream", publicHandler.StreamCountdown)

			authed.POST("/chats/room", publicHandler.OpenChatRoom)
			authed.GET("/chats/room/messages", publicHandler.ListChatMessages)
			authed.POST("/chats/room/messages", publicHandler.SendChatMessage)
			authed.GET("/chats/room/stream", publicHandler.StreamChatMessages)
		}

		// 管理端接口
		admin := apiGroup.Group("/admin")
		admin.Use(roleGuard)
		{
			admin.POST("/products", adminHandler.CreateProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.DELETE("/products/:id", adminHandler.DeleteProduct)
			admin.POST("/categories", adminHandler.CreateCategory)
			admin.PUT("/categories/:id", adminHandler.UpdateCategory)
			admin.DELETE("/categories/:id", adminHandler.DeleteCategory)
			admin.GET("/transactions", adminHandler.GetTransactions)
			admin.GET("/users", adminHandler.GetUsers)

			admin.GET("/authz/roles", adminHandler.ListAuthzRoles)
			admin.POST("/authz/roles", adminHandler.CreateAuthzRole)
			admin.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
			admin.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
			admin.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
			admin.GET("/authz/audit-logs", adminHandler.ListAuthzAuditLogs)
		}
	}

	// 支付网关回跳落地页
	userGroup := r.Group("/user")
	userGroup.Use(roleGuard)
	{
		userGroup.GET("/checkout/:orderId", publicHandler.CheckoutLanding)
	}

	return r
}
