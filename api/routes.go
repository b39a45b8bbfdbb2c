package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultMessageLimit = 50

func (s *Server) handleQR(c *gin.Context) {
	qrCode, err := s.service.GetQR(c.Request.Context())
	if err != nil {
		s.fail(c, "get QR code", err)
		return
	}

	// If qrCode is empty, it means we're already paired
	if qrCode == nil {
		c.JSON(http.StatusOK, Response{
			Success: true,
			Message: "Already connected to WhatsApp",
		})
		return
	}

	c.Data(http.StatusOK, "image/png", qrCode)
}

func (s *Server) handleLogin(c *gin.Context) {
	logged, err := s.service.Login(c.Request.Context())
	if err != nil {
		s.fail(c, "login", err)
		return
	}

	if !logged {
		c.JSON(http.StatusUnauthorized, Response{
			Success: false,
			Message: "Not logged in, scan the QR code from /api/qr",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "Login successful",
	})
}

func (s *Server) handleStatus(c *gin.Context) {
	status, err := s.service.GetStatus(c.Request.Context())
	if err != nil {
		s.fail(c, "get status", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    status,
	})
}

func (s *Server) handleSendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	receipt, err := s.service.SendMessage(c.Request.Context(), req.Recipient, req.Message)
	if err != nil {
		s.fail(c, "send message", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: receipt.Message,
		Data:    receipt,
	})
}

func (s *Server) handleSendImage(c *gin.Context) {
	var req SendMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	receipt, err := s.service.SendImage(c.Request.Context(), req.Recipient, req.MediaRef, req.Caption)
	if err != nil {
		s.fail(c, "send image", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: receipt.Message,
		Data:    receipt,
	})
}

func (s *Server) handleSendVoice(c *gin.Context) {
	var req SendMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	receipt, err := s.service.SendVoice(c.Request.Context(), req.Recipient, req.MediaRef)
	if err != nil {
		s.fail(c, "send voice note", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: receipt.Message,
		Data:    receipt,
	})
}

func (s *Server) handleGetChats(c *gin.Context) {
	chats, err := s.service.GetChats(c.Request.Context())
	if err != nil {
		s.fail(c, "get chats", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    chats,
	})
}

func (s *Server) handleGetChatMessages(c *gin.Context) {
	s.respondMessages(c, c.Param("id"), 0)
}

func (s *Server) handleGetMessages(c *gin.Context) {
	chatJID := c.Query("chat")
	if chatJID == "" {
		badRequest(c, "Missing chat parameter")
		return
	}
	s.respondMessages(c, chatJID, defaultMessageLimit)
}

func (s *Server) respondMessages(c *gin.Context, chatJID string, limit int) {
	if limitStr := c.Query("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 0 {
			badRequest(c, "Invalid limit parameter")
			return
		}
		limit = n
	}

	messages, err := s.service.GetMessages(c.Request.Context(), chatJID, limit)
	if err != nil {
		s.fail(c, "get messages", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    messages,
	})
}

func (s *Server) handleMarkRead(c *gin.Context) {
	if err := s.service.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, "mark chat read", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "Chat marked as read",
	})
}

func (s *Server) handleGetUnread(c *gin.Context) {
	messages, err := s.service.GetUnreadMessages(c.Request.Context())
	if err != nil {
		s.fail(c, "get unread messages", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    messages,
	})
}

func (s *Server) handleGetContacts(c *gin.Context) {
	contacts, err := s.service.GetContacts(c.Request.Context())
	if err != nil {
		s.fail(c, "get contacts", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    contacts,
	})
}

func (s *Server) handleGetContactStatus(c *gin.Context) {
	status, err := s.service.GetContactStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, "get contact status", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    gin.H{"jid": c.Param("id"), "status": status},
	})
}

func (s *Server) handleGetProfilePicture(c *gin.Context) {
	url, err := s.service.GetProfilePicture(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, "get profile picture", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    gin.H{"jid": c.Param("id"), "url": url},
	})
}

func (s *Server) handleGetGroupMembers(c *gin.Context) {
	members, err := s.service.GetGroupMembers(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, "get group members", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    members,
	})
}

func (s *Server) handleGetBattery(c *gin.Context) {
	level, err := s.service.GetBatteryLevel(c.Request.Context())
	if err != nil {
		s.fail(c, "get battery level", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    gin.H{"level": level},
	})
}

// handleEvents streams inbound messages as server-sent events
func (s *Server) handleEvents(c *gin.Context) {
	messages, release := s.service.Subscribe()
	defer release()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-messages:
			if !ok {
				return false
			}
			c.SSEvent("message", msg)
			return true
		case <-ctx.Done():
			return false
		case <-s.stopping:
			return false
		}
	})
}

func (s *Server) handleBrowserClose(c *gin.Context) {
	closed, err := s.service.BrowserClose(c.Request.Context())
	if err != nil {
		s.fail(c, "close browser", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "Browser closed",
		Data:    gin.H{"closed": closed},
	})
}

func (s *Server) handleClose(c *gin.Context) {
	msg, err := s.service.Close(c.Request.Context())
	if err != nil {
		s.fail(c, "close session", err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: msg,
	})
}
