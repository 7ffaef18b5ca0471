package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"github.com/rakeshkumarg2119/ThinkBeforeWeClick/internal/handler"
	"github.com/rakeshkumarg2119/ThinkBeforeWeClick/internal/middleware"
	"github.com/rakeshkumarg2119/ThinkBeforeWeClick/internal/service"
)

type Server struct {
	router      *gin.Engine
	analyzer    service.AnalyzerService
	authService service.AuthService
	log         *logrus.Logger
	zlog        *zap.Logger
}

func NewServer(analyzer service.AnalyzerService, authService service.AuthService, log *logrus.Logger, zlog *zap.Logger) *Server {
	router := gin.Default()

	s := &Server{
		router:      router,
		analyzer:    analyzer,
		authService: authService,
		log:         log,
		zlog:        zlog,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	analysisHandler := handler.NewAnalysisHandler(s.analyzer, s.zlog)
	authHandler := handler.NewAuthHandler(s.authService, s.log)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	api := s.router.Group("/api/v1")
	api.GET("/health", analysisHandler.Health)
	api.POST("/analyze", analysisHandler.Analyze)
	api.GET("/stats", analysisHandler.Stats)
	api.POST("/auth/login", authHandler.Login)

	// Admin routes: label correction and manual retraining
	admin := s.router.Group("/api/v1")
	admin.Use(middleware.AuthMiddleware(s.authService.JWTSecret(), s.zlog))
	{
		admin.POST("/correct", analysisHandler.Correct)
		admin.POST("/retrain", analysisHandler.Retrain)
	}
}

func (s *Server) Run(addr string) {
	s.log.Infof("Server starting on port %s...", addr)
	if err := s.router.Run(addr); err != nil {
		s.log.Fatalf("Server failed to start: %v", err)
	}
}
