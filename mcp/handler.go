package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mbenaiss/whatsapp-session/models"
	"github.com/samber/lo"
)

const defaultMessageLimit = 20

// Bridge is the subset of the bridge API the tools use
type Bridge interface {
	Status(ctx context.Context) (models.Status, error)
	SendMessage(ctx context.Context, recipient, message string) (models.Receipt, error)
	SendImage(ctx context.Context, recipient, mediaRef, caption string) (models.Receipt, error)
	SendVoice(ctx context.Context, recipient, mediaRef string) (models.Receipt, error)
	Chats(ctx context.Context) ([]models.Chat, error)
	Messages(ctx context.Context, chatJID string, limit int) ([]models.Message, error)
	UnreadMessages(ctx context.Context) ([]models.Message, error)
	MarkRead(ctx context.Context, chatJID string) error
	Contacts(ctx context.Context) ([]models.Contact, error)
	ContactStatus(ctx context.Context, contactID string) (string, error)
	ProfilePicture(ctx context.Context, contactID string) (string, error)
	GroupMembers(ctx context.Context, groupID string) ([]string, error)
	BatteryLevel(ctx context.Context) (int, error)
}

type handler struct {
	bridge Bridge
}

func requiredString(request mcp.CallToolRequest, name string) (string, error) {
	v, ok := request.Params.Arguments[name].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("%s must be a non-empty string", name)
	}
	return v, nil
}

func optionalString(request mcp.CallToolRequest, name string) string {
	v, _ := request.Params.Arguments[name].(string)
	return v
}

func optionalTime(request mcp.CallToolRequest, name string) (time.Time, error) {
	v := optionalString(request, name)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be an RFC 3339 timestamp: %w", name, err)
	}
	return t, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (h *handler) getStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := h.bridge.Status(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResult(status)
}

func (h *handler) sendMessage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recipient, err := requiredString(request, "recipient")
	if err != nil {
		return nil, err
	}
	message, err := requiredString(request, "message")
	if err != nil {
		return nil, err
	}

	receipt, err := h.bridge.SendMessage(ctx, recipient, message)
	if err != nil {
		return nil, err
	}
	return jsonResult(receipt)
}

func (h *handler) sendImage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recipient, err := requiredString(request, "recipient")
	if err != nil {
		return nil, err
	}
	mediaRef, err := requiredString(request, "media_ref")
	if err != nil {
		return nil, err
	}
	caption, _ := request.Params.Arguments["caption"].(string)

	receipt, err := h.bridge.SendImage(ctx, recipient, mediaRef, caption)
	if err != nil {
		return nil, err
	}
	return jsonResult(receipt)
}

func (h *handler) sendVoice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recipient, err := requiredString(request, "recipient")
	if err != nil {
		return nil, err
	}
	mediaRef, err := requiredString(request, "media_ref")
	if err != nil {
		return nil, err
	}

	receipt, err := h.bridge.SendVoice(ctx, recipient, mediaRef)
	if err != nil {
		return nil, err
	}
	return jsonResult(receipt)
}

func (h *handler) listChats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	chats, err := h.bridge.Chats(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResult(chats)
}

func (h *handler) listMessages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	chatJID, err := requiredString(request, "chat_jid")
	if err != nil {
		return nil, err
	}

	limit := defaultMessageLimit
	if l, ok := request.Params.Arguments["limit"].(float64); ok {
		limit = int(l)
	}

	query := strings.ToLower(optionalString(request, "query"))
	after, err := optionalTime(request, "after")
	if err != nil {
		return nil, err
	}
	before, err := optionalTime(request, "before")
	if err != nil {
		return nil, err
	}

	messages, err := h.bridge.Messages(ctx, chatJID, limit)
	if err != nil {
		return nil, err
	}

	// filters apply to the limited tail
	messages = lo.Filter(messages, func(m models.Message, _ int) bool {
		switch {
		case query != "" && !strings.Contains(strings.ToLower(m.Content), query):
			return false
		case !after.IsZero() && !m.Timestamp.After(after):
			return false
		case !before.IsZero() && !m.Timestamp.Before(before):
			return false
		}
		return true
	})
	return jsonResult(messages)
}

func (h *handler) listUnreadMessages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	messages, err := h.bridge.UnreadMessages(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResult(messages)
}

func (h *handler) markRead(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	chatJID, err := requiredString(request, "chat_jid")
	if err != nil {
		return nil, err
	}

	if err := h.bridge.MarkRead(ctx, chatJID); err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(fmt.Sprintf("Chat %s marked as read", chatJID)), nil
}

func (h *handler) listContacts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	contacts, err := h.bridge.Contacts(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResult(contacts)
}

func (h *handler) searchContacts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := requiredString(request, "query")
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(query)

	contacts, err := h.bridge.Contacts(ctx)
	if err != nil {
		return nil, err
	}

	matches := lo.Filter(contacts, func(c models.Contact, _ int) bool {
		return strings.Contains(strings.ToLower(c.Name), query) ||
			strings.Contains(c.PhoneNumber, query) ||
			strings.Contains(strings.ToLower(c.JID), query)
	})
	return jsonResult(matches)
}

func (h *handler) getContactStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jid, err := requiredString(request, "jid")
	if err != nil {
		return nil, err
	}

	status, err := h.bridge.ContactStatus(ctx, jid)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]string{"jid": jid, "status": status})
}

func (h *handler) getProfilePicture(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jid, err := requiredString(request, "jid")
	if err != nil {
		return nil, err
	}

	url, err := h.bridge.ProfilePicture(ctx, jid)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]string{"jid": jid, "url": url})
}

func (h *handler) getGroupMembers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	groupJID, err := requiredString(request, "group_jid")
	if err != nil {
		return nil, err
	}

	members, err := h.bridge.GroupMembers(ctx, groupJID)
	if err != nil {
		return nil, err
	}
	return jsonResult(members)
}

func (h *handler) getBatteryLevel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	level, err := h.bridge.BatteryLevel(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]int{"level": level})
}
