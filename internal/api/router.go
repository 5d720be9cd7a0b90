package api

import (
	"context"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/kanbanly/kanban-web/docs"
	"github.com/kanbanly/kanban-web/internal/api/handler"
	"github.com/kanbanly/kanban-web/internal/api/middleware"
	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/core/ports"
	"github.com/kanbanly/kanban-web/internal/core/service"
)

// Gateway is the backend client the web layer drives.
type Gateway interface {
	ports.KanbanAPI
	OnUnauthorized(fn func())
	Ping(ctx context.Context) error
}

// Deps are the process-wide collaborators of the web layer.
type Deps struct {
	Session *service.SessionStore
	Gateway Gateway
	Storage ports.SessionStorage
	Flash   handler.Flash
	Log     zerolog.Logger
	// Registry receives the HTTP metrics; nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
// Controllers are closed when the server shuts down.
//
//	@title			kanban-web
//	@version		1.0
//	@description	Session-aware web front of the Kanban REST API.
//	@BasePath		/
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, d.Flash)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(metricsConfig(d.Registry)))

	// --- Dependencies ---
	guard := service.NewGuard(d.Session, d.Log.With().Str("component", "guard").Logger())
	authService := service.NewAuthService(d.Gateway, d.Session, d.Log.With().Str("component", "auth").Logger())
	adminService := service.NewAdminService(d.Gateway, d.Flash, d.Log.With().Str("component", "admin").Logger())

	workspaces := service.NewWorkspaceController(d.Gateway, d.Session, d.Flash, d.Log)
	boards := service.NewBoardController(d.Gateway, d.Session, d.Flash, d.Log)
	lists := service.NewListController(d.Gateway, d.Flash, d.Log)
	cards := service.NewCardController(d.Gateway, d.Session, d.Flash, d.Log)
	checklists := service.NewChecklistController(d.Gateway, d.Flash, d.Log)
	workspaceMembers := service.NewWorkspaceMemberController(d.Gateway, d.Session, d.Flash, d.Log)
	boardMembers := service.NewBoardMemberController(d.Gateway, d.Session, d.Flash, d.Log)

	d.Session.Subscribe(func(ev domain.SessionEvent, _ domain.Session) {
		if ev != domain.SessionLoggedOut {
			return
		}
		workspaces.Reset()
		boards.Reset()
		lists.Reset()
		cards.Reset()
		checklists.Reset()
		workspaceMembers.Reset()
		boardMembers.Reset()
	})
	d.Gateway.OnUnauthorized(func() {
		d.Log.Info().Msg("backend rejected the session, login required")
	})
	e.Server.RegisterOnShutdown(func() {
		workspaces.Close()
		boards.Close()
		lists.Close()
		cards.Close()
		checklists.Close()
		workspaceMembers.Close()
		boardMembers.Close()
	})

	render := handler.NewRenderer(d.Flash)
	authHandler := handler.NewAuthHandler(authService, render)
	workspaceHandler := handler.NewWorkspaceHandler(workspaces, render)
	boardHandler := handler.NewBoardHandler(boards, render)
	listHandler := handler.NewListHandler(lists, render)
	cardHandler := handler.NewCardHandler(cards, render)
	checklistHandler := handler.NewChecklistHandler(checklists, render)
	memberHandler := handler.NewMemberHandler(workspaceMembers, boardMembers, render)
	adminHandler := handler.NewAdminHandler(adminService, render)

	// --- Public routes ---
	e.GET("/login", authHandler.LoginPage)
	e.POST("/login", authHandler.Login)
	e.GET("/signup", authHandler.SignupPage)
	e.POST("/signup", authHandler.Signup)
	e.POST("/auth/google", authHandler.Google)
	e.POST("/forgot-password", authHandler.ForgotPassword)
	e.GET("/logout", authHandler.Logout)
	e.POST("/logout", authHandler.Logout)
	e.GET("/not-authorized", authHandler.NotAuthorized)

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(map[string]handler.Pinger{
		"session_storage": d.Storage,
		"kanban_api":      d.Gateway,
	})

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer(d.Registry)}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Protected routes ---
	authed := middleware.Guard(guard, domain.RoleNone)

	me := e.Group("/me", authed)
	me.GET("", authHandler.Me)
	me.POST("/password", authHandler.ResetPassword)

	ws := e.Group("/workspaces", authed)
	ws.GET("", workspaceHandler.List)
	ws.POST("", workspaceHandler.Create)
	ws.PUT("/:id", workspaceHandler.Update)
	ws.DELETE("/:id", workspaceHandler.Delete)
	ws.GET("/:id/members", memberHandler.ListWorkspace)
	ws.POST("/:id/members", memberHandler.Invite)
	ws.PUT("/:id/members/:memberId/role", memberHandler.ChangeRole)
	ws.DELETE("/:id/members/:memberId", memberHandler.RemoveWorkspace)
	ws.GET("/:id/boards", boardHandler.List)
	ws.POST("/:id/boards", boardHandler.Create)

	b := e.Group("/boards", authed)
	b.PUT("/:id", boardHandler.Update)
	b.DELETE("/:id", boardHandler.Delete)
	b.GET("/:id/lists", listHandler.List)
	b.POST("/:id/lists", listHandler.Create)
	b.GET("/:id/members", memberHandler.ListBoard)
	b.POST("/:id/members", memberHandler.AddBoard)
	b.DELETE("/:id/members/:memberId", memberHandler.RemoveBoard)
	b.POST("/:id/members/:memberId/leader", memberHandler.PromoteLeader)

	l := e.Group("/lists", authed)
	l.PUT("/:id", listHandler.Update)
	l.DELETE("/:id", listHandler.Delete)
	l.GET("/:id/cards", cardHandler.List)
	l.POST("/:id/cards", cardHandler.Create)

	cg := e.Group("/cards", authed)
	cg.PUT("/:id", cardHandler.Update)
	cg.DELETE("/:id", cardHandler.Delete)
	cg.GET("/:id/checklists", checklistHandler.List)
	cg.POST("/:id/checklists", checklistHandler.Create)

	cl := e.Group("/checklists", authed)
	cl.PUT("/:id", checklistHandler.Update)
	cl.DELETE("/:id", checklistHandler.Delete)
	cl.POST("/:id/items", checklistHandler.AddItem)
	cl.DELETE("/:id/completed-items", checklistHandler.ClearCompleted)

	items := e.Group("/checklist-items", authed)
	items.PATCH("/:id/toggle", checklistHandler.ToggleItem)
	items.DELETE("/:id", checklistHandler.DeleteItem)

	// --- Admin routes ---
	admin := e.Group("/admin", middleware.Guard(guard, domain.RoleAdmin))
	admin.GET("", adminHandler.Dashboard)
	admin.GET("/workspaces", adminHandler.Workspaces)
	admin.GET("/roles", adminHandler.Roles)
	admin.GET("/logs", adminHandler.Logs)

	return e
}

func metricsConfig(reg *prometheus.Registry) echoprometheus.MiddlewareConfig {
	cfg := echoprometheus.MiddlewareConfig{
		Subsystem: "kanban_web",
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/health"
		},
	}
	if reg != nil {
		cfg.Registerer = reg
	}
	return cfg
}

func gatherer(reg *prometheus.Registry) prometheus.Gatherer {
	if reg != nil {
		return reg
	}
	return prometheus.DefaultGatherer
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
