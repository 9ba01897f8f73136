package server

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"scory/internal/auth"
	"scory/internal/config"
)

type Server struct {
	db     *gorm.DB
	cfg    config.Config
	tokens *auth.Manager
	rooms  *roomHub
	locks  *lockTable
}

func New(conn *gorm.DB, cfg config.Config) *Server {
	return &Server{
		db:     conn,
		cfg:    cfg,
		tokens: auth.NewManager(cfg),
		rooms:  newRoomHub(),
		locks:  newLockTable(),
	}
}

func (s *Server) Router() *gin.Engine {
	registerValidators()
	router := gin.New()
	router.Use(gin.Recovery())

	authRoutes := router.Group("/api/auth")
	authRoutes.POST("/register", s.handleRegister)
	authRoutes.POST("/login", s.handleLogin)
	authRoutes.POST("/logout", s.handleLogout)
	authRoutes.POST("/refresh", s.handleRefresh)
	authRoutes.GET("/me", s.requireAuth, s.handleCurrentUser)

	games := router.Group("/api/games", s.requireAuth)
	games.POST("", s.handleCreateGame)
	games.GET("", s.handleListGames)
	games.POST("/join", s.handleJoinGame)
	games.GET("/:id", s.handleGetGame)
	games.POST("/:id/leave", s.handleLeaveGame)
	games.PUT("/:id/status", s.handleUpdateStatus)
	games.PUT("/:id/score", s.handleUpdateScore)
	games.GET("/:id/events", s.handleListEvents)
	games.DELETE("/:id", s.handleDeleteGame)

	router.GET("/ws", s.handleWebsocket)
	return router
}
