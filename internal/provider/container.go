package provider

import (
	"context"
	"errors"

	"github.com/storefront-next/internal/api"
	"github.com/storefront-next/internal/authz"
	"github.com/storefront-next/internal/cache"
	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/queue"
	"github.com/storefront-next/internal/repository"
	"github.com/storefront-next/internal/service"
	"github.com/storefront-next/internal/store"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Store       *store.Store
	API         *api.Client
	Relay       service.MessageRelay

	// Repositories
	CredentialRepo    repository.CredentialRepository
	OrderSnapshotRepo repository.OrderSnapshotRepository
	AuthzAuditRepo    repository.AuthzAuditLogRepository

	// Services
	AuthzService      *authz.Service
	AuthzAuditService *service.AuthzAuditService
	AuthService       *service.AuthService
	ProfileService    *service.ProfileService
	CartService       *service.CartService
	OrderService      *service.OrderService
	SessionService    *service.SessionService
	CatalogService    *service.CatalogService
	ChatService       *service.ChatService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端，未启用时为空操作
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	st := store.New()
	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Store:       st,
		API:         api.NewClient(cfg.API, api.TokenFunc(st.Token)),
		Relay:       service.NewMessageRelay(cfg.Chat.Channel),
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	// 3. 恢复上次登录
	c.restoreSession()

	return c
}

// Close 释放外部连接
func (c *Container) Close() error {
	var errs []error
	if err := c.QueueClient.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := cache.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c *Container) initRepositories() {
	db := models.DB
	c.CredentialRepo = repository.NewCredentialRepository(db)
	c.OrderSnapshotRepo = repository.NewOrderSnapshotRepository(db)
	c.AuthzAuditRepo = repository.NewAuthzAuditLogRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
	} else if err := authzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_roles_failed", "error", err)
	}
	c.AuthzService = authzService
	c.AuthzAuditService = service.NewAuthzAuditService(c.AuthzAuditRepo)

	c.ProfileService = service.NewProfileService(c.Store, c.API)
	c.CartService = service.NewCartService(c.Store, c.API)
	c.OrderService = service.NewOrderService(service.OrderServiceOptions{
		Store:         c.Store,
		API:           c.API,
		Snapshots:     c.OrderSnapshotRepo,
		Scheduler:     c.QueueClient,
		PaymentWindow: c.Config.Order.PaymentWindow(),
	})
	c.SessionService = service.NewSessionService(c.ProfileService, c.CartService)
	c.AuthService = service.NewAuthService(c.Store, c.API, c.CredentialRepo)
	c.AuthService.BindSession(c.CartService, c.OrderService, c.SessionService)
	c.CatalogService = service.NewCatalogService(c.Store, c.API, c.Config.Catalog.CacheTTL())
	c.ChatService = service.NewChatService(c.Store, c.API, c.Relay, c.Config.Chat.AdminID)
}

func (c *Container) restoreSession() {
	restored, err := c.AuthService.Restore(context.Background())
	if err != nil {
		logger.Warnw("provider_restore_session_failed", "error", err)
		return
	}
	if restored {
		auth := c.Store.Auth()
		logger.Infow("provider_session_restored", "user_id", auth.UserID, "role", auth.Role)
	}
}
