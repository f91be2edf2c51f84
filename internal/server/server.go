package server

import (
	"github.com/apexearn/apexearn/config"
	"github.com/apexearn/apexearn/internal/service"
	"github.com/apexearn/apexearn/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	engine  *gin.Engine
	service *service.Service
	config  *config.Config
	logger  *utils.Logger
}

func NewServer(svc *service.Service, cfg *config.Config, logger *utils.Logger) *Server {
	s := &Server{
		engine:  gin.New(),
		service: svc,
		config:  cfg,
		logger:  logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.Use(gin.Recovery(), s.metricsMiddleware())

	s.engine.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.engine.Group("/api")

	api.POST("/auth/register", s.handleRegister)
	api.POST("/auth/login", s.handleLogin)

	user := api.Group("", s.authMiddleware())
	{
		user.GET("/users/me/dashboard", s.handleDashboard)
		user.GET("/users/genealogy", s.handleGenealogy)
		user.PUT("/users/me", s.handleUpdateProfile)
		user.PUT("/users/me/password", s.handleChangePassword)

		user.GET("/plans", s.handleListPlans)
		user.POST("/plans/buy", s.handleBuyPlan)

		user.POST("/deposit", s.handleRequestDeposit)
		user.POST("/withdraw", s.handleRequestWithdrawal)
	}

	admin := api.Group("/admin", s.authMiddleware(), s.adminMiddleware())
	{
		admin.GET("/users", s.handleAdminListUsers)
		admin.PUT("/users/:id/status", s.handleAdminSetUserStatus)

		admin.GET("/plans", s.handleAdminListPlans)
		admin.POST("/plans", s.handleAdminCreatePlan)
		admin.PUT("/plans/:id", s.handleAdminUpdatePlan)

		admin.GET("/deposits", s.handleAdminListDeposits)
		admin.GET("/withdrawals", s.handleAdminListWithdrawals)
		admin.POST("/requests/:type/:id/:action", s.handleAdminProcessRequest)

		admin.GET("/commissions", s.handleAdminListCommissions)
		admin.POST("/commissions/:id/:action", s.handleAdminReleaseCommission)
	}
}

func (s *Server) Run() error {
	s.logger.Infof("HTTP server listening on %s", s.config.HTTPAddr)
	return s.engine.Run(s.config.HTTPAddr)
}
