package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mbenaiss/whatsapp-session/models"
)

const (
	DefaultCommandTimeout = 30 * time.Second
	DefaultInboundBuffer  = 64

	closedConfirmation = "Session closed successfully"
)

// Config tunes a Client
type Config struct {
	// CommandTimeout bounds how long a command waits for the transport.
	CommandTimeout time.Duration
	// InboundBuffer is the number of inbound messages queued ahead of the handler.
	InboundBuffer int
	Logger        *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.CommandTimeout <= 0 {
		c.CommandTimeout = DefaultCommandTimeout
	}
	if c.InboundBuffer <= 0 {
		c.InboundBuffer = DefaultInboundBuffer
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Client is the command and query surface over one transport session.
// It is safe for concurrent use.
type Client struct {
	id      string
	name    string
	handle  Handle
	cfg     Config
	log     *slog.Logger
	inbound *dispatcher

	mu            sync.RWMutex
	state         State
	browserClosed bool
	closeMsg      string
	closeErr      error
	closed        chan struct{}
}

// New connects a session through the connector. The returned Client is in
// StateCreated until IsLogged observes a logged-in transport.
func New(ctx context.Context, connector Connector, sessionName string, cfg Config) (*Client, error) {
	if strings.TrimSpace(sessionName) == "" {
		return nil, fmt.Errorf("%w: session name is required", ErrInvalidArgument)
	}
	cfg = cfg.withDefaults()

	handle, err := connector.Connect(ctx, sessionName, cfg)
	if err != nil {
		return nil, &ConnectError{Session: sessionName, Err: err}
	}
	if handle == nil {
		return nil, &ConnectError{Session: sessionName, Err: errors.New("connector returned no handle")}
	}

	id := uuid.NewString()
	log := cfg.Logger.With("session", sessionName, "session_id", id)
	c := &Client{
		id:      id,
		name:    sessionName,
		handle:  handle,
		cfg:     cfg,
		log:     log,
		inbound: newDispatcher(log, cfg.InboundBuffer),
		state:   StateCreated,
		closed:  make(chan struct{}),
	}

	handle.RegisterInboundHandler(c.inbound.enqueue)
	go c.inbound.run()

	log.Info("Session created")
	return c, nil
}

// ID returns the unique identifier of this session instance
func (c *Client) ID() string { return c.id }

// Name returns the session name given to the connector
func (c *Client) Name() string { return c.name }

// State returns the current lifecycle state
func (c *Client) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Done is closed once the session reaches StateClosed
func (c *Client) Done() <-chan struct{} { return c.closed }

// Info returns a status snapshot without contacting the transport
func (c *Client) Info() models.Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return models.Status{
		SessionID:     c.id,
		Session:       c.name,
		State:         c.state.String(),
		LoggedIn:      c.state == StateReady,
		BrowserClosed: c.browserClosed,
	}
}

// IsLogged asks the transport whether the session is authenticated.
// A positive answer moves a created session to ready.
func (c *Client) IsLogged(ctx context.Context) (bool, error) {
	if err := c.admit(true); err != nil {
		return false, err
	}

	logged, err := invoke(ctx, c, "is_logged", c.handle.IsLoggedIn)
	if err != nil {
		return false, err
	}

	if logged {
		c.markReady()
	}
	return logged, nil
}

// AwaitReady polls IsLogged every interval until the session is ready.
// Transport failures while waiting are logged and polling continues.
func (c *Client) AwaitReady(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		logged, err := c.IsLogged(ctx)
		switch {
		case err == nil && logged:
			return nil
		case errors.Is(err, ErrSessionClosed):
			return err
		case ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			c.log.Debug("Login check failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.closed:
			return ErrSessionClosed
		case <-ticker.C:
		}
	}
}

// PairingCode returns the code to scan on the phone, when the transport pairs out of band.
// An empty code means the transport is already paired.
func (c *Client) PairingCode(ctx context.Context) (string, error) {
	if err := c.admit(true); err != nil {
		return "", err
	}

	p, ok := c.handle.(Pairer)
	if !ok {
		return "", fmt.Errorf("pairing_code: %w", ErrUnsupported)
	}
	return invoke(ctx, c, "pairing_code", p.PairingCode)
}

// SendText sends body to recipient
func (c *Client) SendText(ctx context.Context, recipient, body string) (models.Receipt, error) {
	return c.send(ctx, models.SendRequest{Kind: models.KindText, Recipient: recipient, Body: body})
}

// SendImage sends the image behind mediaRef (URL or local path) to recipient
func (c *Client) SendImage(ctx context.Context, recipient, mediaRef, caption string) (models.Receipt, error) {
	return c.send(ctx, models.SendRequest{Kind: models.KindImage, Recipient: recipient, MediaRef: mediaRef, Caption: caption})
}

// SendVoice sends the audio behind mediaRef as a voice note
func (c *Client) SendVoice(ctx context.Context, recipient, mediaRef string) (models.Receipt, error) {
	return c.send(ctx, models.SendRequest{Kind: models.KindVoice, Recipient: recipient, MediaRef: mediaRef})
}

func (c *Client) send(ctx context.Context, req models.SendRequest) (models.Receipt, error) {
	if err := c.admit(false); err != nil {
		return models.Receipt{}, err
	}
	if err := validateRequest(req); err != nil {
		return models.Receipt{}, err
	}

	op := "send_" + string(req.Kind)
	return invoke(ctx, c, op, func(ctx context.Context) (models.Receipt, error) {
		return c.handle.Send(ctx, req)
	})
}

func validateRequest(req models.SendRequest) error {
	if strings.TrimSpace(req.Recipient) == "" {
		return fmt.Errorf("%w: recipient is required", ErrInvalidRecipient)
	}

	switch req.Kind {
	case models.KindText:
		if req.Body == "" {
			return fmt.Errorf("%w: message body is required", ErrInvalidArgument)
		}
	case models.KindImage, models.KindVoice:
		if strings.TrimSpace(req.MediaRef) == "" {
			return fmt.Errorf("%w: media reference is required", ErrInvalidArgument)
		}
	default:
		return fmt.Errorf("%w: unknown message kind %q", ErrInvalidArgument, req.Kind)
	}
	return nil
}

// GetBatteryLevel returns the battery percentage of the paired device
func (c *Client) GetBatteryLevel(ctx context.Context) (int, error) {
	if err := c.admit(false); err != nil {
		return 0, err
	}

	level, err := invoke(ctx, c, "battery_level", c.handle.BatteryLevel)
	if err != nil {
		return 0, err
	}
	if level < 0 || level > 100 {
		return 0, &TransportError{Op: "battery_level", Err: fmt.Errorf("battery level %d out of range", level)}
	}
	return level, nil
}

// GetProfilePic returns the profile picture URL of a contact
func (c *Client) GetProfilePic(ctx context.Context, contactID string) (string, error) {
	return queryByID(ctx, c, "profile_pic", contactID, c.handle.ProfilePicture)
}

// GetAllChats returns every chat known to the transport
func (c *Client) GetAllChats(ctx context.Context) ([]models.Chat, error) {
	return query(ctx, c, "all_chats", c.handle.Chats)
}

// GetUnreadMessages returns unread inbound messages in the order the transport supplies them
func (c *Client) GetUnreadMessages(ctx context.Context) ([]models.Message, error) {
	return query(ctx, c, "unread_messages", c.handle.UnreadMessages)
}

// GetContacts returns the address book snapshot
func (c *Client) GetContacts(ctx context.Context) ([]models.Contact, error) {
	return query(ctx, c, "contacts", c.handle.Contacts)
}

// GetAllMessagesInChat returns the messages of a chat in arrival order
func (c *Client) GetAllMessagesInChat(ctx context.Context, chatID string) ([]models.Message, error) {
	return queryByID(ctx, c, "chat_messages", chatID, c.handle.ChatMessages)
}

// GetGroupMembers returns the member identifiers of a group
func (c *Client) GetGroupMembers(ctx context.Context, groupID string) ([]string, error) {
	return queryByID(ctx, c, "group_members", groupID, c.handle.GroupMembers)
}

// GetContactStatus returns the about/status text of a contact
func (c *Client) GetContactStatus(ctx context.Context, contactID string) (string, error) {
	return queryByID(ctx, c, "contact_status", contactID, c.handle.ContactStatus)
}

// MarkRead marks the inbound messages of a chat as read
func (c *Client) MarkRead(ctx context.Context, chatID string) error {
	_, err := queryByID(ctx, c, "mark_read", chatID, func(ctx context.Context, id string) (struct{}, error) {
		return struct{}{}, c.handle.MarkRead(ctx, id)
	})
	return err
}

// OnMessage sets the inbound handler; a later call replaces it.
func (c *Client) OnMessage(handler MessageHandler) error {
	if handler == nil {
		return fmt.Errorf("%w: handler is nil", ErrInvalidArgument)
	}
	if c.State() == StateClosed {
		return ErrSessionClosed
	}
	c.inbound.setHandler(handler)
	return nil
}

// BrowserClose asks the transport to tear down its browser/connection.
// The session keeps its state; callers should not issue further commands.
func (c *Client) BrowserClose(ctx context.Context) (bool, error) {
	if err := c.admit(true); err != nil {
		return false, err
	}

	ok, err := invoke(ctx, c, "browser_close", c.handle.TeardownBrowser)
	if err != nil {
		c.log.Warn("Browser teardown failed", "error", err)
		return false, err
	}

	c.mu.Lock()
	c.browserClosed = true
	c.mu.Unlock()
	c.log.Info("Browser closed")
	return ok, nil
}

// Close ends the session. Later calls return the first confirmation without
// contacting the transport. A failed transport close still leaves the session closed.
func (c *Client) Close(ctx context.Context) (string, error) {
	c.mu.Lock()
	switch c.state {
	case StateClosed:
		msg := c.closeMsg
		c.mu.Unlock()
		return msg, nil
	case StateClosing:
		c.mu.Unlock()
		select {
		case <-c.closed:
			return c.closeOutcome()
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	c.state = StateClosing
	c.mu.Unlock()

	c.log.Info("Closing session")
	msg, err := invoke(ctx, c, "close", c.handle.CloseSession)
	if errors.Is(err, ErrSessionClosed) {
		return c.confirmation(), nil
	}
	if err != nil {
		c.terminate(closedConfirmation, err)
		return "", err
	}

	if msg == "" {
		msg = closedConfirmation
	}
	c.terminate(msg, nil)
	return msg, nil
}

func (c *Client) confirmation() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closeMsg
}

// closeOutcome is what the close that ended the session returned
func (c *Client) closeOutcome() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closeErr != nil {
		return "", c.closeErr
	}
	return c.closeMsg, nil
}

func (c *Client) admit(allowCreated bool) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch c.state {
	case StateReady:
		return nil
	case StateCreated:
		if allowCreated {
			return nil
		}
		return ErrNotReady
	default:
		return ErrSessionClosed
	}
}

func (c *Client) markReady() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateCreated {
		c.state = StateReady
		c.log.Info("Session ready")
	}
}

// terminate moves the session to closed; it reports false if it already was.
// err is the failure of the close that ended the session, if any.
func (c *Client) terminate(msg string, err error) bool {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return false
	}
	c.state = StateClosed
	c.closeMsg = msg
	c.closeErr = err
	close(c.closed)
	c.mu.Unlock()

	c.inbound.stop()
	c.log.Info("Session closed")
	return true
}

// classify turns a transport failure into the caller-facing error.
func (c *Client) classify(op string, err error) error {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrUnsupported),
		errors.Is(err, ErrInvalidRecipient),
		errors.Is(err, ErrInvalidArgument):
		return fmt.Errorf("%s: %w", op, err)
	}

	var te *TransportError
	if !errors.As(err, &te) {
		te = &TransportError{Op: op, Err: err}
	}
	if errors.Is(err, ErrFatal) {
		te.Fatal = true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		te.Timeout = true
	}
	if te.Fatal && c.terminate("Session closed after fatal transport error", nil) {
		c.log.Error("Fatal transport error, session closed", "op", op, "error", err)
	}
	return te
}

func query[T any](ctx context.Context, c *Client, op string, fn func(context.Context) (T, error)) (T, error) {
	if err := c.admit(false); err != nil {
		var zero T
		return zero, err
	}
	return invoke(ctx, c, op, fn)
}

func queryByID[T any](ctx context.Context, c *Client, op, id string, fn func(context.Context, string) (T, error)) (T, error) {
	var zero T
	if err := c.admit(false); err != nil {
		return zero, err
	}
	if strings.TrimSpace(id) == "" {
		return zero, fmt.Errorf("%s: %w: identifier is required", op, ErrInvalidArgument)
	}
	return invoke(ctx, c, op, func(ctx context.Context) (T, error) {
		return fn(ctx, id)
	})
}

// invoke runs fn on its own goroutine and waits for it, the command timeout,
// the caller's context or the session closing, whichever comes first.
// Giving up only stops the wait; fn keeps its (cancelled) context.
func invoke[T any](ctx context.Context, c *Client, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	callCtx, cancel := context.WithTimeout(ctx, c.cfg.CommandTimeout)
	defer cancel()

	type result struct {
		val T
		err error
	}
	done := make(chan result, 1)
	go func() {
		val, err := fn(callCtx)
		done <- result{val: val, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil && ctx.Err() != nil {
			return zero, ctx.Err()
		}
		if r.err != nil {
			return zero, c.classify(op, r.err)
		}
		return r.val, nil
	case <-c.closed:
		return zero, ErrSessionClosed
	case <-callCtx.Done():
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		return zero, &TransportError{Op: op, Timeout: true, Err: callCtx.Err()}
	}
}
