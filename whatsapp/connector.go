package whatsapp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mbenaiss/whatsapp-session/db"
	"github.com/mbenaiss/whatsapp-session/session"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/store/sqlstore"
)

// Connector opens whatsmeow sessions. Each session name maps to its own
// device database under storeDir.
type Connector struct {
	storeDir string
	store    db.DB
	log      *slog.Logger
}

// NewConnector creates a Connector persisting chats and messages in store
func NewConnector(storeDir string, store db.DB, log *slog.Logger) *Connector {
	return &Connector{storeDir: storeDir, store: store, log: log}
}

// Connect loads the device for sessionName and connects it when it is already paired.
// An unpaired device stays offline until a pairing code is requested.
func (c *Connector) Connect(ctx context.Context, sessionName string, cfg session.Config) (session.Handle, error) {
	if strings.ContainsAny(sessionName, `/\`) || strings.Contains(sessionName, "..") {
		return nil, fmt.Errorf("%w: invalid session name %q", session.ErrInvalidArgument, sessionName)
	}

	log := c.log.With("session", sessionName)

	container, err := sqlstore.New("sqlite3",
		fmt.Sprintf("file:%s/%s.db?_foreign_keys=on", c.storeDir, sessionName),
		newLogger(log, "Database"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to WhatsApp database: %w", err)
	}

	deviceStore, err := container.GetFirstDevice()
	if err != nil {
		_ = container.Close()
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	client := whatsmeow.NewClient(deviceStore, newLogger(log, "Client"))
	w := newWhatsapp(client, container, c.store, log)

	if deviceStore.ID == nil {
		log.Info("Device not paired, waiting for QR login")
		return w, nil
	}

	if err := client.Connect(); err != nil {
		client.RemoveEventHandlers()
		_ = container.Close()
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return w, nil
}
