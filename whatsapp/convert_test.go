package whatsapp

import (
	"testing"
	"time"

	"github.com/mbenaiss/whatsapp-session/models"
	"github.com/stretchr/testify/require"
	waProto "go.mau.fi/whatsmeow/binary/proto"
	"go.mau.fi/whatsmeow/proto/waCommon"
	"go.mau.fi/whatsmeow/proto/waHistorySync"
	"go.mau.fi/whatsmeow/proto/waWeb"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"google.golang.org/protobuf/proto"
)

var (
	alice = types.NewJID("33611111111", types.DefaultUserServer)
	bob   = types.NewJID("33622222222", types.DefaultUserServer)
	group = types.NewJID("120363025246125486", types.GroupServer)
)

func messageEvent(chat, sender types.JID, fromMe bool, msg *waProto.Message) *events.Message {
	return &events.Message{
		Info: types.MessageInfo{
			MessageSource: types.MessageSource{
				Chat:     chat,
				Sender:   sender,
				IsFromMe: fromMe,
				IsGroup:  chat.Server == types.GroupServer,
			},
			ID:        "3EB0C0FFEE",
			PushName:  "Alice",
			Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		},
		Message: msg,
	}
}

func TestToMessage_Text(t *testing.T) {
	req := require.New(t)

	msg, ok := toMessage(messageEvent(alice, alice, false, &waProto.Message{Conversation: proto.String("hello")}))

	req.True(ok)
	req.Equal("3EB0C0FFEE", msg.ID)
	req.Equal(alice.String(), msg.ChatJID)
	req.Equal(models.KindText, msg.Kind)
	req.Equal("hello", msg.Content)
	req.Equal(models.Inbound, msg.Direction)
	req.Equal("Alice", msg.ChatName)
	req.False(msg.IsGroup)
}

func TestToMessage_ExtendedTextInGroup(t *testing.T) {
	req := require.New(t)

	msg, ok := toMessage(messageEvent(group, bob, false, &waProto.Message{
		ExtendedTextMessage: &waProto.ExtendedTextMessage{Text: proto.String("see https://example.com")},
	}))

	req.True(ok)
	req.True(msg.IsGroup)
	req.Equal(bob.String(), msg.Sender)
	req.Equal("see https://example.com", msg.Content)
	req.Empty(msg.ChatName)
}

func TestToMessage_MediaAndOwnMessages(t *testing.T) {
	req := require.New(t)

	img, ok := toMessage(messageEvent(alice, alice, true, &waProto.Message{
		ImageMessage: &waProto.ImageMessage{
			Caption:    proto.String("holiday"),
			DirectPath: proto.String("/v/t62.7118-24/abc"),
		},
	}))
	req.True(ok)
	req.Equal(models.KindImage, img.Kind)
	req.Equal("holiday", img.Content)
	req.Equal("/v/t62.7118-24/abc", img.MediaRef)
	req.True(img.IsFromMe())

	voice, ok := toMessage(messageEvent(alice, alice, false, &waProto.Message{
		AudioMessage: &waProto.AudioMessage{URL: proto.String("https://mmg.whatsapp.net/voice"), PTT: proto.Bool(true)},
	}))
	req.True(ok)
	req.Equal(models.KindVoice, voice.Kind)
	req.Equal("https://mmg.whatsapp.net/voice", voice.MediaRef)
}

func TestToMessage_IgnoresUnsupportedPayloads(t *testing.T) {
	_, ok := toMessage(messageEvent(alice, alice, false, &waProto.Message{}))
	require.False(t, ok)

	_, ok = toMessage(messageEvent(alice, alice, false, &waProto.Message{
		ExtendedTextMessage: &waProto.ExtendedTextMessage{},
	}))
	require.False(t, ok)
}

func historyMsg(id string, fromMe bool, ts uint64, text string) *waHistorySync.HistorySyncMsg {
	return &waHistorySync.HistorySyncMsg{
		Message: &waWeb.WebMessageInfo{
			Key:              &waCommon.MessageKey{ID: proto.String(id), FromMe: proto.Bool(fromMe)},
			MessageTimestamp: proto.Uint64(ts),
			Message:          &waProto.Message{Conversation: proto.String(text)},
		},
	}
}

func TestHistoryChat(t *testing.T) {
	req := require.New(t)

	chat, ok := historyChat(&waHistorySync.Conversation{
		ID:   proto.String(alice.String()),
		Name: proto.String("Alice"),
		Messages: []*waHistorySync.HistorySyncMsg{
			historyMsg("m3", false, 1714564980, "third"),
			historyMsg("m2", true, 1714564920, "second"),
			historyMsg("", false, 1714564900, "no id"),
			historyMsg("m1", false, 1714564860, "first"),
		},
	})

	req.True(ok)
	req.Equal("Alice", chat.Name)
	req.False(chat.IsGroup)
	req.Len(chat.Messages, 3)
	req.Equal("m1", chat.Messages[0].ID)
	req.Equal("m3", chat.Messages[2].ID)
	req.Equal(alice.String(), chat.Messages[0].Sender)
	req.True(chat.Messages[1].IsFromMe())
	req.True(chat.Messages[0].IsRead)
	req.True(chat.LastMessageTime.Equal(time.Unix(1714564980, 0)))

	_, ok = historyChat(&waHistorySync.Conversation{})
	req.False(ok)
}

func TestToContacts(t *testing.T) {
	req := require.New(t)

	contacts := toContacts(map[types.JID]types.ContactInfo{
		bob:   {Found: true, PushName: "bob"},
		alice: {Found: true, FirstName: "Alice", FullName: "Alice Martin"},
	}, nil)

	req.Equal([]models.Contact{
		{JID: alice.String(), PhoneNumber: alice.User, Name: "Alice Martin"},
		{JID: bob.String(), PhoneNumber: bob.User, Name: "bob"},
	}, contacts)
}

func TestToContacts_FillsStatusFromUserInfo(t *testing.T) {
	req := require.New(t)

	// Given an about text is known for alice only
	contacts := toContacts(map[types.JID]types.ContactInfo{
		bob:   {Found: true, PushName: "bob"},
		alice: {Found: true, FullName: "Alice Martin"},
	}, map[types.JID]types.UserInfo{
		alice: {Status: "Hey there! I am using WhatsApp."},
	})

	// Then alice carries it and bob stays blank
	req.Len(contacts, 2)
	req.Equal("Hey there! I am using WhatsApp.", contacts[0].Status)
	req.Empty(contacts[1].Status)
}
