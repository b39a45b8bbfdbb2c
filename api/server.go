package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/mbenaiss/whatsapp-session/services"
)

// Server represents the API handler
type Server struct {
	service services.Service
	log     *slog.Logger
	router  *gin.Engine
	server  *http.Server

	// stopping ends open event streams, Shutdown waits for them otherwise
	stopping chan struct{}
	stopOnce sync.Once
}

// NewServer creates a new API server with its routes registered
func NewServer(service services.Service, port string, log *slog.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	s := &Server{
		service:  service,
		log:      log,
		router:   router,
		stopping: make(chan struct{}),
		server:   &http.Server{
			Addr:    ":" + port,
			Handler: router,
		},
	}
	s.registerRoutes(router)

	return s
}

// SendMessageRequest represents the request body for sending messages
type SendMessageRequest struct {
	Recipient string `json:"recipient"`
	Message   string `json:"message"`
}

// SendMediaRequest represents the request body for sending images and voice notes
type SendMediaRequest struct {
	Recipient string `json:"recipient"`
	MediaRef  string `json:"media_ref"`
	Caption   string `json:"caption,omitempty"`
}

// Response represents a generic API response
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.GET("/login", s.handleLogin)
		api.GET("/qr", s.handleQR)
		api.GET("/status", s.handleStatus)
		api.POST("/send", s.handleSendMessage)
		api.POST("/send/image", s.handleSendImage)
		api.POST("/send/voice", s.handleSendVoice)
		api.GET("/chats", s.handleGetChats)
		api.GET("/chats/:id/messages", s.handleGetChatMessages)
		api.POST("/chats/:id/read", s.handleMarkRead)
		api.GET("/messages", s.handleGetMessages)
		api.GET("/unread", s.handleGetUnread)
		api.GET("/contacts", s.handleGetContacts)
		api.GET("/contacts/:id/status", s.handleGetContactStatus)
		api.GET("/contacts/:id/picture", s.handleGetProfilePicture)
		api.GET("/groups/:id/members", s.handleGetGroupMembers)
		api.GET("/battery", s.handleGetBattery)
		api.GET("/events", s.handleEvents)
		api.POST("/browser/close", s.handleBrowserClose)
		api.POST("/close", s.handleClose)
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.stopping) })
	return s.server.Shutdown(ctx)
}
