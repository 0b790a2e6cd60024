package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joincivil/civil-newsroom-plugin/internal/api/handlers"
	"github.com/joincivil/civil-newsroom-plugin/internal/api/middleware"
	"github.com/joincivil/civil-newsroom-plugin/internal/services"
	"github.com/joincivil/civil-newsroom-plugin/internal/store"
	"github.com/joincivil/civil-newsroom-plugin/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Router struct {
	engine          *gin.Engine
	logger          *zap.Logger
	registry        *prometheus.Registry
	revisionHandler *handlers.RevisionHandler
	documentHandler *handlers.DocumentHandler
	userHandler     *handlers.UserHandler
	authHandler     *handlers.AuthHandler
	authMiddleware  *middleware.AuthMiddleware
	reqMiddleware   *middleware.RequestMiddleware
}

func NewRouter(
	logger *zap.Logger,
	m *metrics.Metrics,
	registry *prometheus.Registry,
	queries *services.QueryService,
	revisions *services.RevisionService,
	sessions *services.SessionService,
	users store.UserDirectory,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	reqMiddleware := middleware.NewRequestMiddleware(logger, m)
	authMiddleware := middleware.NewAuthMiddleware(sessions, users)

	engine.Use(reqMiddleware.ProcessRequest())
	engine.Use(reqMiddleware.RecoverPanic())

	return &Router{
		engine:          engine,
		logger:          logger,
		registry:        registry,
		revisionHandler: handlers.NewRevisionHandler(queries, logger),
		documentHandler: handlers.NewDocumentHandler(revisions, logger),
		userHandler:     handlers.NewUserHandler(users, logger),
		authHandler:     handlers.NewAuthHandler(sessions, users, logger),
		authMiddleware:  authMiddleware,
		reqMiddleware:   reqMiddleware,
	}
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "up", "name": "civil-newsroom"})
	})

	r.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})))

	r.engine.POST("/auth/login", r.authHandler.Login)
	r.engine.GET("/auth/logout", r.authHandler.Logout)

	r.engine.GET("/revisions/:id", r.revisionHandler.GetRevisionPayload)
	r.engine.GET("/documents/:id/last-revision-id", r.revisionHandler.GetLastRevisionID)
	r.engine.GET("/revisions-content/:hash", r.revisionHandler.GetRevisionContent)
	r.engine.GET("/users-by-address/:address", r.userHandler.GetUserByAddress)

	authorized := r.engine.Group("/")
	authorized.Use(r.authMiddleware.RequireAuth())
	{
		authorized.POST("/users/:id", r.userHandler.SetUserMeta)
		authorized.POST("/documents/:id/revisions", r.documentHandler.CaptureRevision)
		authorized.POST("/documents/:id/status", r.documentHandler.TransitionStatus)
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
