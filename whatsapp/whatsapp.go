package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mbenaiss/whatsapp-session/db"
	"github.com/mbenaiss/whatsapp-session/models"
	"github.com/mbenaiss/whatsapp-session/session"
	"github.com/mdp/qrterminal"
	"github.com/samber/lo"
	"go.mau.fi/whatsmeow"
	waProto "go.mau.fi/whatsmeow/binary/proto"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"google.golang.org/protobuf/proto"
)

// Whatsapp is a session.Handle backed by a whatsmeow client.
// Chats and messages it observes are kept in the message store, which
// answers the chat, history and unread queries.
type Whatsapp struct {
	client     *whatsmeow.Client
	container  *sqlstore.Container
	store      db.DB
	log        *slog.Logger
	httpClient *http.Client

	loggedOut atomic.Bool

	mu        sync.Mutex
	inbound   session.InboundFunc
	pairing   bool
	qrCode    string
	codeReady chan struct{}
}

func newWhatsapp(client *whatsmeow.Client, container *sqlstore.Container, store db.DB, log *slog.Logger) *Whatsapp {
	w := &Whatsapp{
		client:     client,
		container:  container,
		store:      store,
		log:        log,
		httpClient: &http.Client{Timeout: time.Minute},
	}
	client.AddEventHandler(w.handleEvent)
	return w
}

func (w *Whatsapp) handleEvent(evt any) {
	ctx := context.Background()

	switch v := evt.(type) {
	case *events.Message:
		msg, ok := toMessage(v)
		if !ok {
			w.log.Debug("Ignoring message without text or media", "id", v.Info.ID)
			return
		}
		if err := w.store.StoreMessage(ctx, msg); err != nil {
			w.log.Error("Error storing message", "id", msg.ID, "error", err)
		}
		if msg.Direction == models.Inbound {
			w.deliver(msg)
		}
	case *events.HistorySync:
		w.storeHistory(ctx, v)
	case *events.Connected:
		w.log.Info("Connected to WhatsApp")
	case *events.Disconnected:
		w.log.Info("Disconnected from WhatsApp")
	case *events.PairSuccess:
		w.log.Info("Device paired", "jid", v.ID.String())
	case *events.LoggedOut:
		w.loggedOut.Store(true)
		w.log.Warn("Device logged out, please scan QR code to log in again", "reason", v.Reason)
	}
}

func (w *Whatsapp) deliver(msg models.Message) {
	w.mu.Lock()
	fn := w.inbound
	w.mu.Unlock()

	if fn != nil {
		fn(msg)
	}
}

func (w *Whatsapp) storeHistory(ctx context.Context, hs *events.HistorySync) {
	for _, conv := range hs.Data.GetConversations() {
		chat, ok := historyChat(conv)
		if !ok {
			continue
		}

		if err := w.store.StoreChat(ctx, chat); err != nil {
			w.log.Error("Error storing chat from history sync", "chat", chat.JID, "error", err)
			continue
		}
		for _, msg := range chat.Messages {
			if err := w.store.StoreMessage(ctx, msg); err != nil {
				w.log.Error("Error storing message from history sync", "id", msg.ID, "error", err)
			}
		}
		w.log.Debug("History synced", "chat", chat.JID, "messages", len(chat.Messages))
	}
}

// guard rejects calls that need a live connection
func (w *Whatsapp) guard() error {
	if w.loggedOut.Load() {
		return fmt.Errorf("%w: device logged out", session.ErrFatal)
	}
	if !w.client.IsConnected() {
		return whatsmeow.ErrNotConnected
	}
	return nil
}

// IsLoggedIn returns true if the client is logged in
func (w *Whatsapp) IsLoggedIn(ctx context.Context) (bool, error) {
	if w.loggedOut.Load() {
		return false, fmt.Errorf("%w: device logged out", session.ErrFatal)
	}
	return w.client.IsLoggedIn(), nil
}

// PairingCode starts QR pairing on first call and returns the current code.
// It returns an empty code when the device is already paired.
func (w *Whatsapp) PairingCode(ctx context.Context) (string, error) {
	if w.client.Store.ID != nil {
		return "", nil
	}

	w.mu.Lock()
	if !w.pairing {
		// the QR channel outlives the request that started the pairing
		qrChan, err := w.client.GetQRChannel(context.Background())
		if err != nil {
			w.mu.Unlock()
			return "", fmt.Errorf("failed to get QR channel: %w", err)
		}
		if err := w.client.Connect(); err != nil {
			w.mu.Unlock()
			return "", fmt.Errorf("failed to connect to WhatsApp: %w", err)
		}
		w.pairing = true
		w.codeReady = make(chan struct{})
		go w.watchPairing(qrChan, w.codeReady)
	}
	ready := w.codeReady
	w.mu.Unlock()

	select {
	case <-ready:
	case <-ctx.Done():
		return "", ctx.Err()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.qrCode == "" && w.client.Store.ID == nil {
		return "", errors.New("pairing ended before a QR code was issued")
	}
	return w.qrCode, nil
}

func (w *Whatsapp) watchPairing(qrChan <-chan whatsmeow.QRChannelItem, ready chan struct{}) {
	var once sync.Once
	signal := func() { once.Do(func() { close(ready) }) }

	defer func() {
		w.mu.Lock()
		w.pairing = false
		w.qrCode = ""
		w.mu.Unlock()
		signal()
	}()

	for evt := range qrChan {
		switch evt.Event {
		case "code":
			w.mu.Lock()
			w.qrCode = evt.Code
			w.mu.Unlock()
			qrterminal.GenerateHalfBlock(evt.Code, qrterminal.L, os.Stdout)
			signal()
		case "success":
			w.log.Info("Successfully connected and authenticated")
			return
		default:
			w.log.Warn("QR pairing stopped", "event", evt.Event, "error", evt.Error)
			return
		}
	}
}

// Send uploads media when needed and sends the message to the recipient
func (w *Whatsapp) Send(ctx context.Context, req models.SendRequest) (models.Receipt, error) {
	if err := w.guard(); err != nil {
		return models.Receipt{}, err
	}

	jid, err := parseJID(req.Recipient)
	if err != nil {
		return models.Receipt{}, err
	}

	msg, confirmation, err := w.buildMessage(ctx, req)
	if err != nil {
		return models.Receipt{}, err
	}

	resp, err := w.client.SendMessage(ctx, jid, msg)
	if err != nil {
		return models.Receipt{}, fmt.Errorf("failed to send message: %w", err)
	}

	echo := models.Message{
		ID:        resp.ID,
		ChatJID:   jid.String(),
		Content:   lo.CoalesceOrEmpty(req.Body, req.Caption),
		MediaRef:  req.MediaRef,
		Kind:      req.Kind,
		Direction: models.Outbound,
		IsGroup:   jid.Server == types.GroupServer,
		IsRead:    true,
		Timestamp: resp.Timestamp,
	}
	if w.client.Store.ID != nil {
		echo.Sender = w.client.Store.ID.ToNonAD().String()
	}
	if err := w.store.StoreMessage(ctx, echo); err != nil {
		w.log.Error("Error storing sent message", "id", resp.ID, "error", err)
	}

	return models.Receipt{
		ID:        resp.ID,
		Recipient: req.Recipient,
		Kind:      req.Kind,
		Timestamp: resp.Timestamp,
		Success:   true,
		Message:   confirmation,
	}, nil
}

func (w *Whatsapp) buildMessage(ctx context.Context, req models.SendRequest) (*waProto.Message, string, error) {
	switch req.Kind {
	case models.KindText:
		return &waProto.Message{Conversation: proto.String(req.Body)}, "Message sent successfully", nil
	case models.KindImage:
		m, up, err := w.upload(ctx, req, whatsmeow.MediaImage)
		if err != nil {
			return nil, "", err
		}
		return &waProto.Message{ImageMessage: &waProto.ImageMessage{
			Caption:       proto.String(req.Caption),
			Mimetype:      proto.String(m.mimeType),
			URL:           proto.String(up.URL),
			DirectPath:    proto.String(up.DirectPath),
			MediaKey:      up.MediaKey,
			FileEncSHA256: up.FileEncSHA256,
			FileSHA256:    up.FileSHA256,
			FileLength:    proto.Uint64(up.FileLength),
		}}, "Image sent successfully", nil
	case models.KindVoice:
		m, up, err := w.upload(ctx, req, whatsmeow.MediaAudio)
		if err != nil {
			return nil, "", err
		}
		return &waProto.Message{AudioMessage: &waProto.AudioMessage{
			Mimetype:      proto.String(m.mimeType),
			URL:           proto.String(up.URL),
			DirectPath:    proto.String(up.DirectPath),
			MediaKey:      up.MediaKey,
			FileEncSHA256: up.FileEncSHA256,
			FileSHA256:    up.FileSHA256,
			FileLength:    proto.Uint64(up.FileLength),
			PTT:           proto.Bool(true),
		}}, "Voice note sent successfully", nil
	default:
		return nil, "", fmt.Errorf("%w: unknown message kind %q", session.ErrInvalidArgument, req.Kind)
	}
}

func (w *Whatsapp) upload(ctx context.Context, req models.SendRequest, mediaType whatsmeow.MediaType) (media, whatsmeow.UploadResponse, error) {
	m, err := loadMedia(ctx, w.httpClient, req.MediaRef, req.Kind)
	if err != nil {
		return media{}, whatsmeow.UploadResponse{}, err
	}

	up, err := w.client.Upload(ctx, m.data, mediaType)
	if err != nil {
		return media{}, whatsmeow.UploadResponse{}, fmt.Errorf("failed to upload media: %w", err)
	}
	return m, up, nil
}

// BatteryLevel is not available: multi-device clients do not receive the phone's battery state.
func (w *Whatsapp) BatteryLevel(ctx context.Context) (int, error) {
	if err := w.guard(); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("battery level is not reported to linked devices: %w", session.ErrUnsupported)
}

// ProfilePicture returns the URL of a contact's profile picture
func (w *Whatsapp) ProfilePicture(ctx context.Context, contactID string) (string, error) {
	if err := w.guard(); err != nil {
		return "", err
	}

	jid, err := parseJID(contactID)
	if err != nil {
		return "", err
	}

	info, err := w.client.GetProfilePictureInfo(jid, &whatsmeow.GetProfilePictureParams{})
	switch {
	case errors.Is(err, whatsmeow.ErrProfilePictureNotSet), errors.Is(err, whatsmeow.ErrProfilePictureUnauthorized):
		return "", fmt.Errorf("no profile picture for %s: %w", jid, session.ErrNotFound)
	case err != nil:
		return "", fmt.Errorf("failed to get profile picture: %w", err)
	case info == nil:
		return "", fmt.Errorf("no profile picture for %s: %w", jid, session.ErrNotFound)
	}
	return info.URL, nil
}

// Chats returns the chats seen by this device
func (w *Whatsapp) Chats(ctx context.Context) ([]models.Chat, error) {
	return w.store.GetChats(ctx)
}

// UnreadMessages returns unread inbound messages across chats
func (w *Whatsapp) UnreadMessages(ctx context.Context) ([]models.Message, error) {
	return w.store.GetUnreadMessages(ctx, "")
}

// ChatMessages returns every stored message of a chat
func (w *Whatsapp) ChatMessages(ctx context.Context, chatID string) ([]models.Message, error) {
	jid, err := w.knownChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	return w.store.GetMessages(ctx, jid.String(), 0)
}

func (w *Whatsapp) knownChat(ctx context.Context, chatID string) (types.JID, error) {
	jid, err := parseJID(chatID)
	if err != nil {
		return types.JID{}, err
	}

	chat, err := w.store.GetChat(ctx, jid.String())
	if err != nil {
		return types.JID{}, fmt.Errorf("failed to get chat: %w", err)
	}
	if chat == nil {
		return types.JID{}, fmt.Errorf("chat %s: %w", jid, session.ErrNotFound)
	}
	return jid, nil
}

// Contacts returns the address book synced from the phone.
// About texts are filled in only while connected.
func (w *Whatsapp) Contacts(ctx context.Context) ([]models.Contact, error) {
	if w.loggedOut.Load() {
		return nil, fmt.Errorf("%w: device logged out", session.ErrFatal)
	}

	all, err := w.client.Store.Contacts.GetAllContacts()
	if err != nil {
		return nil, fmt.Errorf("failed to get contacts: %w", err)
	}

	var infos map[types.JID]types.UserInfo
	if len(all) > 0 && w.client.IsConnected() {
		if infos, err = w.client.GetUserInfo(lo.Keys(all)); err != nil {
			w.log.Warn("Failed to get contact statuses", "error", err)
		}
	}
	return toContacts(all, infos), nil
}

// GroupMembers returns the participant JIDs of a group
func (w *Whatsapp) GroupMembers(ctx context.Context, groupID string) ([]string, error) {
	if err := w.guard(); err != nil {
		return nil, err
	}

	jid, err := parseJID(groupID)
	if err != nil {
		return nil, err
	}
	if jid.Server != types.GroupServer {
		return nil, fmt.Errorf("%w: %s is not a group", session.ErrInvalidArgument, jid)
	}

	info, err := w.client.GetGroupInfo(jid)
	switch {
	case errors.Is(err, whatsmeow.ErrGroupNotFound), errors.Is(err, whatsmeow.ErrNotInGroup):
		return nil, fmt.Errorf("group %s: %w", jid, session.ErrNotFound)
	case err != nil:
		return nil, fmt.Errorf("failed to get group info: %w", err)
	}

	return lo.Map(info.Participants, func(p types.GroupParticipant, _ int) string {
		return p.JID.String()
	}), nil
}

// ContactStatus returns the about text of a contact
func (w *Whatsapp) ContactStatus(ctx context.Context, contactID string) (string, error) {
	if err := w.guard(); err != nil {
		return "", err
	}

	jid, err := parseJID(contactID)
	if err != nil {
		return "", err
	}

	infos, err := w.client.GetUserInfo([]types.JID{jid})
	if err != nil {
		return "", fmt.Errorf("failed to get user info: %w", err)
	}

	info, ok := infos[jid]
	if !ok {
		return "", fmt.Errorf("contact %s: %w", jid, session.ErrNotFound)
	}
	return info.Status, nil
}

// MarkRead sends read receipts for the unread messages of a chat
func (w *Whatsapp) MarkRead(ctx context.Context, chatID string) error {
	if err := w.guard(); err != nil {
		return err
	}

	jid, err := w.knownChat(ctx, chatID)
	if err != nil {
		return err
	}

	unread, err := w.store.GetUnreadMessages(ctx, jid.String())
	if err != nil {
		return err
	}

	// receipts are grouped per sender, the sender matters in groups
	for sender, msgs := range lo.GroupBy(unread, func(m models.Message) string { return m.Sender }) {
		senderJID := types.EmptyJID
		if jid.Server == types.GroupServer && sender != "" {
			if senderJID, err = types.ParseJID(sender); err != nil {
				return fmt.Errorf("invalid sender %q: %w", sender, err)
			}
		}

		ids := lo.Map(msgs, func(m models.Message, _ int) types.MessageID { return m.ID })
		if err := w.client.MarkRead(ids, time.Now(), jid, senderJID); err != nil {
			return fmt.Errorf("failed to mark messages read: %w", err)
		}
	}

	_, err = w.store.MarkRead(ctx, jid.String(), lo.Map(unread, func(m models.Message, _ int) string { return m.ID }))
	return err
}

// RegisterInboundHandler sets the callback for inbound messages
func (w *Whatsapp) RegisterInboundHandler(fn session.InboundFunc) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.inbound = fn
}

// TeardownBrowser drops the websocket; the device stays paired.
func (w *Whatsapp) TeardownBrowser(ctx context.Context) (bool, error) {
	if !w.client.IsConnected() {
		return false, fmt.Errorf("failed to close browser: %w", whatsmeow.ErrNotConnected)
	}
	w.client.Disconnect()
	return true, nil
}

// CloseSession disconnects, stops event processing and releases the device database
func (w *Whatsapp) CloseSession(ctx context.Context) (string, error) {
	w.client.Disconnect()
	w.client.RemoveEventHandlers()
	w.RegisterInboundHandler(nil)

	if w.container != nil {
		if err := w.container.Close(); err != nil {
			return "", fmt.Errorf("failed to close device database: %w", err)
		}
	}
	return "Session closed successfully", nil
}
