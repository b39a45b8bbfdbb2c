package whatsapp

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/mbenaiss/whatsapp-session/models"
	"github.com/samber/lo"
	waProto "go.mau.fi/whatsmeow/binary/proto"
	"go.mau.fi/whatsmeow/proto/waHistorySync"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
)

// fillContent sets kind, text and media reference from a message proto.
// It reports false for payloads the store does not keep (reactions, receipts...).
func fillContent(msg *models.Message, m *waProto.Message) bool {
	switch {
	case m.GetConversation() != "":
		msg.Kind = models.KindText
		msg.Content = m.GetConversation()
	case m.GetExtendedTextMessage().GetText() != "":
		msg.Kind = models.KindText
		msg.Content = m.GetExtendedTextMessage().GetText()
	case m.GetImageMessage() != nil:
		img := m.GetImageMessage()
		msg.Kind = models.KindImage
		msg.Content = img.GetCaption()
		msg.MediaRef = lo.CoalesceOrEmpty(img.GetURL(), img.GetDirectPath())
	case m.GetAudioMessage() != nil:
		audio := m.GetAudioMessage()
		msg.Kind = models.KindVoice
		msg.MediaRef = lo.CoalesceOrEmpty(audio.GetURL(), audio.GetDirectPath())
	default:
		return false
	}
	return true
}

func toMessage(evt *events.Message) (models.Message, bool) {
	msg := models.Message{
		ID:        evt.Info.ID,
		ChatJID:   evt.Info.Chat.String(),
		Sender:    evt.Info.Sender.String(),
		IsGroup:   evt.Info.IsGroup,
		Timestamp: evt.Info.Timestamp,
		Direction: models.Inbound,
	}
	if evt.Info.IsFromMe {
		msg.Direction = models.Outbound
	} else if !evt.Info.IsGroup {
		msg.ChatName = evt.Info.PushName
	}

	if !fillContent(&msg, evt.Message) {
		return models.Message{}, false
	}
	return msg, true
}

// historyChat converts a synced conversation. Messages come newest first in
// the sync payload and are returned oldest first.
func historyChat(conv *waHistorySync.Conversation) (models.Chat, bool) {
	chatJID := conv.GetID()
	if chatJID == "" {
		return models.Chat{}, false
	}

	chat := models.Chat{
		JID:     chatJID,
		Name:    conv.GetName(),
		IsGroup: models.IsGroupJID(chatJID),
	}

	for _, item := range conv.GetMessages() {
		info := item.GetMessage()
		if info == nil {
			continue
		}

		key := info.GetKey()
		msg := models.Message{
			ID:        key.GetID(),
			ChatJID:   chatJID,
			Sender:    lo.CoalesceOrEmpty(key.GetParticipant(), info.GetParticipant(), chatJID),
			IsGroup:   chat.IsGroup,
			Timestamp: time.Unix(int64(info.GetMessageTimestamp()), 0).UTC(),
			Direction: models.Inbound,
			// history predates this session, it is not surfaced as unread
			IsRead: true,
		}
		if key.GetFromMe() {
			msg.Direction = models.Outbound
		}
		if msg.ID == "" || !fillContent(&msg, info.GetMessage()) {
			continue
		}

		if msg.Timestamp.After(chat.LastMessageTime) {
			chat.LastMessageTime = msg.Timestamp
		}
		chat.Messages = append(chat.Messages, msg)
	}

	slices.SortStableFunc(chat.Messages, func(a, b models.Message) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return chat, true
}

func toContacts(all map[types.JID]types.ContactInfo, infos map[types.JID]types.UserInfo) []models.Contact {
	contacts := lo.MapToSlice(all, func(jid types.JID, info types.ContactInfo) models.Contact {
		return models.Contact{
			JID:         jid.String(),
			PhoneNumber: jid.User,
			Name:        lo.CoalesceOrEmpty(info.FullName, info.FirstName, info.PushName, info.BusinessName),
			Status:      infos[jid].Status,
		}
	})

	slices.SortFunc(contacts, func(a, b models.Contact) int {
		return cmp.Or(strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)), strings.Compare(a.JID, b.JID))
	})
	return contacts
}
