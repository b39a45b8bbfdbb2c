//go:generate go run go.uber.org/mock/mockgen -source=transport.go -destination=../mocks/mock_transport.go -package=mocks
package session

import (
	"context"

	"github.com/mbenaiss/whatsapp-session/models"
)

// InboundFunc receives messages pushed by the transport
type InboundFunc func(msg models.Message)

// Connector opens a transport handle for a named session
type Connector interface {
	Connect(ctx context.Context, sessionName string, cfg Config) (Handle, error)
}

// Handle is the live transport connection a Client drives.
// Implementations may be called from several goroutines at once.
type Handle interface {
	IsLoggedIn(ctx context.Context) (bool, error)
	Send(ctx context.Context, req models.SendRequest) (models.Receipt, error)

	BatteryLevel(ctx context.Context) (int, error)
	ProfilePicture(ctx context.Context, contactID string) (string, error)
	Chats(ctx context.Context) ([]models.Chat, error)
	UnreadMessages(ctx context.Context) ([]models.Message, error)
	Contacts(ctx context.Context) ([]models.Contact, error)
	ChatMessages(ctx context.Context, chatID string) ([]models.Message, error)
	GroupMembers(ctx context.Context, groupID string) ([]string, error)
	ContactStatus(ctx context.Context, contactID string) (string, error)
	MarkRead(ctx context.Context, chatID string) error

	RegisterInboundHandler(fn InboundFunc)
	TeardownBrowser(ctx context.Context) (bool, error)
	CloseSession(ctx context.Context) (string, error)
}

// Pairer is implemented by handles that need an out-of-band pairing step
// (a QR code scanned on the phone) before they report a logged-in state.
type Pairer interface {
	PairingCode(ctx context.Context) (string, error)
}
