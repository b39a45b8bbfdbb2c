package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"log/slog"

	"github.com/mbenaiss/whatsapp-session/models"
	"github.com/mbenaiss/whatsapp-session/session"
	"github.com/skip2/go-qrcode"
)

const subscriberBuffer = 32

type Service interface {
	GetStatus(ctx context.Context) (models.Status, error)
	GetQR(ctx context.Context) ([]byte, error)
	Login(ctx context.Context) (bool, error)
	SendMessage(ctx context.Context, recipient string, message string) (models.Receipt, error)
	SendImage(ctx context.Context, recipient, mediaRef, caption string) (models.Receipt, error)
	SendVoice(ctx context.Context, recipient, mediaRef string) (models.Receipt, error)
	GetChats(ctx context.Context) ([]models.Chat, error)
	GetMessages(ctx context.Context, chatJID string, limit int) ([]models.Message, error)
	GetUnreadMessages(ctx context.Context) ([]models.Message, error)
	MarkRead(ctx context.Context, chatJID string) error
	GetContacts(ctx context.Context) ([]models.Contact, error)
	GetContactStatus(ctx context.Context, contactID string) (string, error)
	GetProfilePicture(ctx context.Context, contactID string) (string, error)
	GetGroupMembers(ctx context.Context, groupID string) ([]string, error)
	GetBatteryLevel(ctx context.Context) (int, error)
	Subscribe() (<-chan models.Message, func())
	BrowserClose(ctx context.Context) (bool, error)
	Close(ctx context.Context) (string, error)
}

type service struct {
	client *session.Client
	hub    *hub
	log    *slog.Logger
}

// NewService creates a new Service over a session client.
// Inbound messages of the session are fanned out to subscribers.
func NewService(client *session.Client, log *slog.Logger) (Service, error) {
	s := &service{client: client, hub: newHub(log, subscriberBuffer), log: log}

	if err := client.OnMessage(s.hub.publish); err != nil {
		return nil, fmt.Errorf("failed to register message handler: %w", err)
	}

	go func() {
		<-client.Done()
		s.hub.close()
	}()

	return s, nil
}

// GetQR returns the pairing QR code as a PNG, nil when already paired
func (s *service) GetQR(ctx context.Context) ([]byte, error) {
	code, err := s.client.PairingCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get QR code: %w", err)
	}
	if code == "" {
		s.log.Info("WhatsApp is already paired")
		return nil, nil
	}

	qrCode, err := qrcode.New(code, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code image: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qrCode.Image(256)); err != nil {
		return nil, fmt.Errorf("failed to encode QR code image: %w", err)
	}

	return buf.Bytes(), nil
}

// Login reports whether the session is authenticated
func (s *service) Login(ctx context.Context) (bool, error) {
	return s.client.IsLogged(ctx)
}

// GetStatus returns the current status of the session
func (s *service) GetStatus(ctx context.Context) (models.Status, error) {
	_, err := s.client.IsLogged(ctx)
	if err != nil && !errors.Is(err, session.ErrSessionClosed) {
		return models.Status{}, err
	}
	return s.client.Info(), nil
}

// SendMessage sends a text message to the specified recipient
func (s *service) SendMessage(ctx context.Context, recipient string, message string) (models.Receipt, error) {
	return s.client.SendText(ctx, recipient, message)
}

func (s *service) SendImage(ctx context.Context, recipient, mediaRef, caption string) (models.Receipt, error) {
	return s.client.SendImage(ctx, recipient, mediaRef, caption)
}

func (s *service) SendVoice(ctx context.Context, recipient, mediaRef string) (models.Receipt, error) {
	return s.client.SendVoice(ctx, recipient, mediaRef)
}

// GetChats retrieves all available chats
func (s *service) GetChats(ctx context.Context) ([]models.Chat, error) {
	return s.client.GetAllChats(ctx)
}

// GetMessages retrieves the last limit messages of a chat, all of them when limit <= 0
func (s *service) GetMessages(ctx context.Context, chatJID string, limit int) ([]models.Message, error) {
	messages, err := s.client.GetAllMessagesInChat(ctx, chatJID)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}

func (s *service) GetUnreadMessages(ctx context.Context) ([]models.Message, error) {
	return s.client.GetUnreadMessages(ctx)
}

func (s *service) MarkRead(ctx context.Context, chatJID string) error {
	return s.client.MarkRead(ctx, chatJID)
}

func (s *service) GetContacts(ctx context.Context) ([]models.Contact, error) {
	return s.client.GetContacts(ctx)
}

func (s *service) GetContactStatus(ctx context.Context, contactID string) (string, error) {
	return s.client.GetContactStatus(ctx, contactID)
}

func (s *service) GetProfilePicture(ctx context.Context, contactID string) (string, error) {
	return s.client.GetProfilePic(ctx, contactID)
}

func (s *service) GetGroupMembers(ctx context.Context, groupID string) ([]string, error) {
	return s.client.GetGroupMembers(ctx, groupID)
}

func (s *service) GetBatteryLevel(ctx context.Context) (int, error) {
	return s.client.GetBatteryLevel(ctx)
}

// Subscribe streams inbound messages until the returned func is called or the session closes
func (s *service) Subscribe() (<-chan models.Message, func()) {
	return s.hub.subscribe()
}

func (s *service) BrowserClose(ctx context.Context) (bool, error) {
	return s.client.BrowserClose(ctx)
}

// Close ends the session and releases the subscribers
func (s *service) Close(ctx context.Context) (string, error) {
	msg, err := s.client.Close(ctx)
	if s.client.State() == session.StateClosed {
		s.hub.close()
	}
	return msg, err
}
