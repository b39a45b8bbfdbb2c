package session_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/mbenaiss/whatsapp-session/mocks"
	"github.com/mbenaiss/whatsapp-session/models"
	"github.com/mbenaiss/whatsapp-session/session"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const sessionName = "session-name"

type fixture struct {
	client  *session.Client
	handle  *mocks.MockHandle
	inbound session.InboundFunc
}

func newFixture(t *testing.T, cfg session.Config) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	connector := mocks.NewMockConnector(ctrl)
	handle := mocks.NewMockHandle(ctrl)
	f := &fixture{handle: handle}

	if cfg.Logger == nil {
		cfg.Logger = logs.GetLoggerFromLevel(slog.LevelDebug)
	}
	connector.EXPECT().Connect(gomock.Any(), sessionName, gomock.Any()).Return(handle, nil)
	handle.EXPECT().RegisterInboundHandler(gomock.Any()).Do(func(fn session.InboundFunc) {
		f.inbound = fn
	})

	client, err := session.New(context.Background(), connector, sessionName, cfg)
	require.NoError(t, err)
	f.client = client
	return f
}

func newReadyFixture(t *testing.T, cfg session.Config) *fixture {
	t.Helper()
	f := newFixture(t, cfg)
	f.handle.EXPECT().IsLoggedIn(gomock.Any()).Return(true, nil)
	logged, err := f.client.IsLogged(context.Background())
	require.NoError(t, err)
	require.True(t, logged)
	return f
}

func TestNew_ConnectFailure(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	connector := mocks.NewMockConnector(ctrl)

	// Given a connector that cannot reach the backend
	connector.EXPECT().Connect(gomock.Any(), sessionName, gomock.Any()).Return(nil, errors.New("dial failed"))

	// When the session is created
	client, err := session.New(context.Background(), connector, sessionName, session.Config{})

	// Then a ConnectError is returned
	req.Nil(client)
	var connectErr *session.ConnectError
	req.ErrorAs(err, &connectErr)
	req.Equal(sessionName, connectErr.Session)
	req.ErrorContains(err, "dial failed")
}

func TestNew_EmptySessionName(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	connector := mocks.NewMockConnector(ctrl)

	_, err := session.New(context.Background(), connector, "  ", session.Config{})

	req.ErrorIs(err, session.ErrInvalidArgument)
}

func TestClient_IsLogged_GatesReady(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t, session.Config{})
	req.Equal(session.StateCreated, f.client.State())

	// Given commands are refused before login, without reaching the transport
	_, err := f.client.SendText(ctx, "sender-id", "Hello, world!")
	req.ErrorIs(err, session.ErrNotReady)

	// When the transport is not logged in yet
	f.handle.EXPECT().IsLoggedIn(gomock.Any()).Return(false, nil)
	logged, err := f.client.IsLogged(ctx)
	req.NoError(err)
	req.False(logged)
	req.Equal(session.StateCreated, f.client.State())

	// When authentication completed
	f.handle.EXPECT().IsLoggedIn(gomock.Any()).Return(true, nil)
	logged, err = f.client.IsLogged(ctx)
	req.NoError(err)
	req.True(logged)

	// Then the session is ready
	req.Equal(session.StateReady, f.client.State())
	req.True(f.client.Info().LoggedIn)
}

func TestClient_AwaitReady(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, session.Config{})

	gomock.InOrder(
		f.handle.EXPECT().IsLoggedIn(gomock.Any()).Return(false, nil),
		f.handle.EXPECT().IsLoggedIn(gomock.Any()).Return(false, errors.New("not connected")),
		f.handle.EXPECT().IsLoggedIn(gomock.Any()).Return(true, nil),
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	req.NoError(f.client.AwaitReady(ctx, 5*time.Millisecond))
	req.Equal(session.StateReady, f.client.State())
}

func TestClient_SendText_ForwardsUnmodified(t *testing.T) {
	req := require.New(t)
	f := newReadyFixture(t, session.Config{})
	receipt := models.Receipt{
		ID:        "3EB0C767D26A",
		Recipient: "sender-id",
		Kind:      models.KindText,
		Success:   true,
		Message:   "Message sent successfully",
	}

	// Given the transport accepts the message
	f.handle.EXPECT().
		Send(gomock.Any(), models.SendRequest{Kind: models.KindText, Recipient: "sender-id", Body: "  Hello, world!"}).
		Return(receipt, nil).
		Times(1)

	// When a text is sent
	got, err := f.client.SendText(context.Background(), "sender-id", "  Hello, world!")

	// Then the transport receipt is returned as is
	req.NoError(err)
	req.Equal(receipt, got)
}

func TestClient_Send_ValidatesBeforeTransport(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newReadyFixture(t, session.Config{})

	_, err := f.client.SendText(ctx, "", "Hello")
	req.ErrorIs(err, session.ErrInvalidRecipient)

	_, err = f.client.SendText(ctx, "sender-id", "")
	req.ErrorIs(err, session.ErrInvalidArgument)

	_, err = f.client.SendImage(ctx, " ", "http://x/y.jpg", "")
	req.ErrorIs(err, session.ErrInvalidRecipient)

	_, err = f.client.SendImage(ctx, "id-1", "", "")
	req.ErrorIs(err, session.ErrInvalidArgument)

	_, err = f.client.SendVoice(ctx, "id-1", "")
	req.ErrorIs(err, session.ErrInvalidArgument)

	_, err = f.client.GetProfilePic(ctx, "")
	req.ErrorIs(err, session.ErrInvalidArgument)

	_, err = f.client.GetAllMessagesInChat(ctx, "")
	req.ErrorIs(err, session.ErrInvalidArgument)
}

func TestClient_SendImage_TransportFailureKeepsState(t *testing.T) {
	req := require.New(t)
	f := newReadyFixture(t, session.Config{})

	// Given a transport failing the upload
	f.handle.EXPECT().
		Send(gomock.Any(), models.SendRequest{Kind: models.KindImage, Recipient: "id-1", MediaRef: "http://x/y.jpg"}).
		Return(models.Receipt{}, errors.New("upload failed"))

	// When an image is sent
	_, err := f.client.SendImage(context.Background(), "id-1", "http://x/y.jpg", "")

	// Then a TransportError is surfaced and the session stays ready
	var te *session.TransportError
	req.ErrorAs(err, &te)
	req.Equal("send_image", te.Op)
	req.False(te.Fatal)
	req.False(te.Timeout)
	req.Equal(session.StateReady, f.client.State())
}

func TestClient_SendVoice(t *testing.T) {
	req := require.New(t)
	f := newReadyFixture(t, session.Config{})
	receipt := models.Receipt{ID: "voice-1", Kind: models.KindVoice, Success: true}

	f.handle.EXPECT().
		Send(gomock.Any(), models.SendRequest{Kind: models.KindVoice, Recipient: "id-1", MediaRef: "/tmp/note.ogg"}).
		Return(receipt, nil)

	got, err := f.client.SendVoice(context.Background(), "id-1", "/tmp/note.ogg")
	req.NoError(err)
	req.Equal(receipt, got)
}

func TestClient_Queries_ReturnTransportResults(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newReadyFixture(t, session.Config{})

	unread := []models.Message{
		{ID: "message1", Content: "first", Direction: models.Inbound},
		{ID: "message2", Content: "second", Direction: models.Inbound},
		{ID: "message3", Content: "third", Direction: models.Inbound},
	}
	chats := []models.Chat{{JID: "chat1"}, {JID: "chat2"}, {JID: "chat3"}}
	contacts := []models.Contact{{JID: "a@s.whatsapp.net", Name: "Alice"}}
	history := []models.Message{{ID: "m1"}, {ID: "m2"}}

	f.handle.EXPECT().UnreadMessages(gomock.Any()).Return(unread, nil)
	f.handle.EXPECT().Chats(gomock.Any()).Return(chats, nil)
	f.handle.EXPECT().Contacts(gomock.Any()).Return(contacts, nil)
	f.handle.EXPECT().ChatMessages(gomock.Any(), "chat1").Return(history, nil)
	f.handle.EXPECT().GroupMembers(gomock.Any(), "group-id").Return([]string{"member1", "member2", "member3"}, nil)
	f.handle.EXPECT().ContactStatus(gomock.Any(), "contact-id").Return("Hey there!", nil)
	f.handle.EXPECT().ProfilePicture(gomock.Any(), "contact-id").Return("https://example.com/profile-pic.jpg", nil)
	f.handle.EXPECT().BatteryLevel(gomock.Any()).Return(80, nil)
	f.handle.EXPECT().MarkRead(gomock.Any(), "chat1").Return(nil)

	gotUnread, err := f.client.GetUnreadMessages(ctx)
	req.NoError(err)
	req.Equal(unread, gotUnread)

	gotChats, err := f.client.GetAllChats(ctx)
	req.NoError(err)
	req.Equal(chats, gotChats)

	gotContacts, err := f.client.GetContacts(ctx)
	req.NoError(err)
	req.Equal(contacts, gotContacts)

	gotHistory, err := f.client.GetAllMessagesInChat(ctx, "chat1")
	req.NoError(err)
	req.Equal(history, gotHistory)

	members, err := f.client.GetGroupMembers(ctx, "group-id")
	req.NoError(err)
	req.Equal([]string{"member1", "member2", "member3"}, members)

	status, err := f.client.GetContactStatus(ctx, "contact-id")
	req.NoError(err)
	req.Equal("Hey there!", status)

	pic, err := f.client.GetProfilePic(ctx, "contact-id")
	req.NoError(err)
	req.Equal("https://example.com/profile-pic.jpg", pic)

	level, err := f.client.GetBatteryLevel(ctx)
	req.NoError(err)
	req.Equal(80, level)

	req.NoError(f.client.MarkRead(ctx, "chat1"))
}

func TestClient_NotFoundIsSurfaced(t *testing.T) {
	req := require.New(t)
	f := newReadyFixture(t, session.Config{})

	f.handle.EXPECT().ProfilePicture(gomock.Any(), "unknown").
		Return("", fmt.Errorf("no profile picture for unknown: %w", session.ErrNotFound))

	_, err := f.client.GetProfilePic(context.Background(), "unknown")

	req.ErrorIs(err, session.ErrNotFound)
	var te *session.TransportError
	req.False(errors.As(err, &te))
	req.Equal(session.StateReady, f.client.State())
}

func TestClient_BatteryLevelOutOfRange(t *testing.T) {
	req := require.New(t)
	f := newReadyFixture(t, session.Config{})

	f.handle.EXPECT().BatteryLevel(gomock.Any()).Return(120, nil)

	_, err := f.client.GetBatteryLevel(context.Background())

	var te *session.TransportError
	req.ErrorAs(err, &te)
}

func TestClient_CommandTimeout(t *testing.T) {
	req := require.New(t)
	f := newReadyFixture(t, session.Config{CommandTimeout: 20 * time.Millisecond})

	// Given a transport that hangs until its context is cancelled
	f.handle.EXPECT().BatteryLevel(gomock.Any()).DoAndReturn(func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})

	// When the battery level is requested
	start := time.Now()
	_, err := f.client.GetBatteryLevel(context.Background())

	// Then a timeout TransportError is returned within the bound
	req.True(session.IsTimeout(err), "got %v", err)
	req.Less(time.Since(start), time.Second)
	req.Equal(session.StateReady, f.client.State())
}

func TestClient_CallerCancellationStopsWaiting(t *testing.T) {
	req := require.New(t)
	f := newReadyFixture(t, session.Config{})

	f.handle.EXPECT().Chats(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]models.Chat, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := f.client.GetAllChats(ctx)

	req.ErrorIs(err, context.DeadlineExceeded)
	req.False(session.IsTimeout(err))
}

func TestClient_FatalTransportErrorClosesSession(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newReadyFixture(t, session.Config{})

	// Given the device was logged out remotely
	f.handle.EXPECT().Chats(gomock.Any()).Return(nil, fmt.Errorf("%w: device logged out", session.ErrFatal))

	// When a query hits the transport
	_, err := f.client.GetAllChats(ctx)

	// Then the error is fatal and the session is closed
	var te *session.TransportError
	req.ErrorAs(err, &te)
	req.True(te.Fatal)
	req.Equal(session.StateClosed, f.client.State())

	// And no further command reaches the transport
	_, err = f.client.GetAllChats(ctx)
	req.ErrorIs(err, session.ErrSessionClosed)
	msg, err := f.client.Close(ctx)
	req.NoError(err)
	req.NotEmpty(msg)
}

func TestClient_CommandsAfterClose(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newReadyFixture(t, session.Config{})

	f.handle.EXPECT().CloseSession(gomock.Any()).Return("Session closed successfully", nil).Times(1)
	_, err := f.client.Close(ctx)
	req.NoError(err)

	// Any transport call from here on fails the test through gomock
	_, err = f.client.SendText(ctx, "sender-id", "Hello")
	req.ErrorIs(err, session.ErrSessionClosed)
	_, err = f.client.SendImage(ctx, "id-1", "http://x/y.jpg", "")
	req.ErrorIs(err, session.ErrSessionClosed)
	_, err = f.client.SendVoice(ctx, "id-1", "/tmp/a.ogg")
	req.ErrorIs(err, session.ErrSessionClosed)
	_, err = f.client.IsLogged(ctx)
	req.ErrorIs(err, session.ErrSessionClosed)
	_, err = f.client.GetBatteryLevel(ctx)
	req.ErrorIs(err, session.ErrSessionClosed)
	_, err = f.client.GetProfilePic(ctx, "contact-id")
	req.ErrorIs(err, session.ErrSessionClosed)
	_, err = f.client.GetAllChats(ctx)
	req.ErrorIs(err, session.ErrSessionClosed)
	_, err = f.client.GetUnreadMessages(ctx)
	req.ErrorIs(err, session.ErrSessionClosed)
	_, err = f.client.GetContacts(ctx)
	req.ErrorIs(err, session.ErrSessionClosed)
	_, err = f.client.GetAllMessagesInChat(ctx, "chat1")
	req.ErrorIs(err, session.ErrSessionClosed)
	_, err = f.client.GetGroupMembers(ctx, "group-id")
	req.ErrorIs(err, session.ErrSessionClosed)
	_, err = f.client.GetContactStatus(ctx, "contact-id")
	req.ErrorIs(err, session.ErrSessionClosed)
	req.ErrorIs(f.client.MarkRead(ctx, "chat1"), session.ErrSessionClosed)
	_, err = f.client.BrowserClose(ctx)
	req.ErrorIs(err, session.ErrSessionClosed)
	_, err = f.client.PairingCode(ctx)
	req.ErrorIs(err, session.ErrSessionClosed)
	req.ErrorIs(f.client.OnMessage(func(models.Message) {}), session.ErrSessionClosed)

	select {
	case <-f.client.Done():
	default:
		req.Fail("Done channel should be closed")
	}
}

func TestClient_Close_Idempotent(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newReadyFixture(t, session.Config{})

	// Given the transport confirms the close once
	f.handle.EXPECT().CloseSession(gomock.Any()).Return("Session closed successfully", nil).Times(1)

	// When close is called twice
	first, err := f.client.Close(ctx)
	req.NoError(err)
	second, err := f.client.Close(ctx)
	req.NoError(err)

	// Then both calls succeed with the same confirmation
	req.Equal("Session closed successfully", first)
	req.Equal(first, second)
	req.Equal(session.StateClosed, f.client.State())
}

func TestClient_Close_FromCreated(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, session.Config{})

	f.handle.EXPECT().CloseSession(gomock.Any()).Return("", nil)

	msg, err := f.client.Close(context.Background())
	req.NoError(err)
	req.Equal("Session closed successfully", msg)
}

func TestClient_Close_TransportFailureStillCloses(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newReadyFixture(t, session.Config{})

	f.handle.EXPECT().CloseSession(gomock.Any()).Return("", errors.New("socket already gone")).Times(1)

	_, err := f.client.Close(ctx)
	var te *session.TransportError
	req.ErrorAs(err, &te)
	req.Equal(session.StateClosed, f.client.State())

	msg, err := f.client.Close(ctx)
	req.NoError(err)
	req.Equal("Session closed successfully", msg)
}

func TestClient_Close_ConcurrentCallersShareOutcome(t *testing.T) {
	req := require.New(t)
	f := newReadyFixture(t, session.Config{})
	release := make(chan struct{})
	entered := make(chan struct{})

	f.handle.EXPECT().CloseSession(gomock.Any()).DoAndReturn(func(ctx context.Context) (string, error) {
		close(entered)
		<-release
		return "Session closed successfully", nil
	}).Times(1)

	var wg sync.WaitGroup
	results := make([]string, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = f.client.Close(context.Background())
	}()

	<-entered
	req.Equal(session.StateClosing, f.client.State())
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], _ = f.client.Close(context.Background())
	}()

	close(release)
	wg.Wait()
	req.Equal("Session closed successfully", results[0])
	req.Equal(results[0], results[1])
}

func TestClient_Close_ConcurrentCallersShareFailure(t *testing.T) {
	req := require.New(t)
	f := newReadyFixture(t, session.Config{})
	release := make(chan struct{})
	entered := make(chan struct{})

	// Given a transport close that fails while a second caller waits on it
	f.handle.EXPECT().CloseSession(gomock.Any()).DoAndReturn(func(ctx context.Context) (string, error) {
		close(entered)
		<-release
		return "", errors.New("boom")
	}).Times(1)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, errs[0] = f.client.Close(context.Background())
	}()
	<-entered

	waiting := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		close(waiting)
		_, errs[1] = f.client.Close(context.Background())
	}()
	<-waiting
	time.Sleep(20 * time.Millisecond)

	// When the first close completes
	close(release)
	wg.Wait()

	// Then both callers see the failure
	var te *session.TransportError
	req.ErrorAs(errs[0], &te)
	req.ErrorContains(errs[1], "boom")
	req.Equal(session.StateClosed, f.client.State())

	// And a later close reports the closed session as success
	msg, err := f.client.Close(context.Background())
	req.NoError(err)
	req.Equal("Session closed successfully", msg)
}

func TestClient_CloseRacesInFlightCommand(t *testing.T) {
	req := require.New(t)
	f := newReadyFixture(t, session.Config{})
	started := make(chan struct{})

	// Given a query stuck in the transport
	f.handle.EXPECT().Chats(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]models.Chat, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	})
	f.handle.EXPECT().CloseSession(gomock.Any()).Return("Session closed successfully", nil)

	errc := make(chan error, 1)
	go func() {
		_, err := f.client.GetAllChats(context.Background())
		errc <- err
	}()
	<-started

	// When the session is closed meanwhile
	_, err := f.client.Close(context.Background())
	req.NoError(err)

	// Then the in-flight command resolves instead of hanging
	select {
	case err := <-errc:
		req.ErrorIs(err, session.ErrSessionClosed)
	case <-time.After(time.Second):
		req.Fail("in-flight command did not resolve")
	}
}

func TestClient_BrowserClose(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newReadyFixture(t, session.Config{})

	// Given the first teardown fails
	f.handle.EXPECT().TeardownBrowser(gomock.Any()).Return(false, errors.New("Failed to close browser"))
	ok, err := f.client.BrowserClose(ctx)

	// Then the failure is surfaced but not fatal
	req.False(ok)
	req.ErrorContains(err, "Failed to close browser")
	var te *session.TransportError
	req.ErrorAs(err, &te)
	req.Equal(session.StateReady, f.client.State())
	req.False(f.client.Info().BrowserClosed)

	// When teardown succeeds
	f.handle.EXPECT().TeardownBrowser(gomock.Any()).Return(true, nil)
	ok, err = f.client.BrowserClose(ctx)

	// Then the state is still not closed
	req.NoError(err)
	req.True(ok)
	req.Equal(session.StateReady, f.client.State())
	req.True(f.client.Info().BrowserClosed)
}

func TestClient_PairingCode(t *testing.T) {
	req := require.New(t)

	// Given a handle without out-of-band pairing
	f := newFixture(t, session.Config{})
	_, err := f.client.PairingCode(context.Background())
	req.ErrorIs(err, session.ErrUnsupported)

	// Given a handle that pairs with a QR code
	ctrl := gomock.NewController(t)
	connector := mocks.NewMockConnector(ctrl)
	handle := mocks.NewMockHandle(ctrl)
	pairer := mocks.NewMockPairer(ctrl)
	connector.EXPECT().Connect(gomock.Any(), sessionName, gomock.Any()).Return(struct {
		*mocks.MockHandle
		*mocks.MockPairer
	}{handle, pairer}, nil)
	handle.EXPECT().RegisterInboundHandler(gomock.Any())
	pairer.EXPECT().PairingCode(gomock.Any()).Return("2@abc,def", nil)

	client, err := session.New(context.Background(), connector, sessionName, session.Config{})
	req.NoError(err)
	code, err := client.PairingCode(context.Background())
	req.NoError(err)
	req.Equal("2@abc,def", code)
}

func TestClient_OnMessage_LastRegistrationWins(t *testing.T) {
	req := require.New(t)
	f := newReadyFixture(t, session.Config{})
	first := make(chan models.Message, 2)
	second := make(chan models.Message, 2)

	req.NoError(f.client.OnMessage(func(msg models.Message) { first <- msg }))
	f.inbound(models.Message{ID: "1", Content: "Hello", Sender: "sender-id"})
	req.Equal("1", (<-first).ID)

	// When a new handler replaces the first one
	req.NoError(f.client.OnMessage(func(msg models.Message) { second <- msg }))
	f.inbound(models.Message{ID: "2", Content: "Hello again", Sender: "sender-id"})

	// Then only the latest handler receives the message
	select {
	case msg := <-second:
		req.Equal("2", msg.ID)
	case <-time.After(time.Second):
		req.Fail("latest handler not called")
	}
	req.Empty(first)
}

func TestClient_OnMessage_SerializedInArrivalOrder(t *testing.T) {
	req := require.New(t)
	f := newReadyFixture(t, session.Config{InboundBuffer: 4})
	const total = 50

	var mu sync.Mutex
	var got []string
	inFlight, maxInFlight := 0, 0
	done := make(chan struct{})

	req.NoError(f.client.OnMessage(func(msg models.Message) {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()

		time.Sleep(time.Millisecond)

		mu.Lock()
		inFlight--
		got = append(got, msg.ID)
		if len(got) == total {
			close(done)
		}
		mu.Unlock()
	}))

	var want []string
	for i := 0; i < total; i++ {
		id := fmt.Sprintf("msg-%02d", i)
		want = append(want, id)
		f.inbound(models.Message{ID: id, Direction: models.Inbound})
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		req.Fail("messages not delivered in time")
	}
	mu.Lock()
	defer mu.Unlock()
	req.Equal(want, got)
	req.Equal(1, maxInFlight)
}

func TestClient_OnMessage_HandlerPanicDoesNotStopDelivery(t *testing.T) {
	req := require.New(t)
	f := newReadyFixture(t, session.Config{})
	delivered := make(chan string, 1)

	req.NoError(f.client.OnMessage(func(msg models.Message) {
		if msg.ID == "boom" {
			panic("handler bug")
		}
		delivered <- msg.ID
	}))
	f.inbound(models.Message{ID: "boom"})
	f.inbound(models.Message{ID: "ok"})

	select {
	case id := <-delivered:
		req.Equal("ok", id)
	case <-time.After(time.Second):
		req.Fail("delivery stopped after panic")
	}
}

func TestClient_OnMessage_NilHandler(t *testing.T) {
	f := newFixture(t, session.Config{})
	require.ErrorIs(t, f.client.OnMessage(nil), session.ErrInvalidArgument)
}
