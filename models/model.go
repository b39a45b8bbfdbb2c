package models

import (
	"strings"
	"time"
)

// MessageKind is the payload type of a message
type MessageKind string

const (
	KindText  MessageKind = "text"
	KindImage MessageKind = "image"
	KindVoice MessageKind = "voice"
)

// Direction tells whether a message was received or sent by this session
type Direction string

const (
	Inbound  Direction = "inbound"
	Outbound Direction = "outbound"
)

// Message represents a chat message
type Message struct {
	ID        string      `json:"id"`
	ChatJID   string      `json:"chat_jid"`
	Sender    string      `json:"sender"`
	Content   string      `json:"content"`
	MediaRef  string      `json:"media_ref,omitempty"`
	Kind      MessageKind `json:"kind"`
	Direction Direction   `json:"direction"`
	IsGroup   bool        `json:"is_group"`
	IsRead    bool        `json:"is_read"`
	Timestamp time.Time   `json:"timestamp"`
	ChatName  string      `json:"chat_name,omitempty"`
}

// IsFromMe reports whether the message was sent by this session
func (m Message) IsFromMe() bool {
	return m.Direction == Outbound
}

// Chat represents a WhatsApp chat
type Chat struct {
	JID             string    `json:"jid"`
	Name            string    `json:"name"`
	IsGroup         bool      `json:"is_group"`
	LastMessageTime time.Time `json:"last_message_time"`
	LastMessage     string    `json:"last_message,omitempty"`
	LastSender      string    `json:"last_sender,omitempty"`
	LastIsFromMe    bool      `json:"last_is_from_me"`
	UnreadCount     int       `json:"unread_count"`
	Messages        []Message `json:"messages,omitempty"`
}

// IsGroupJID determines if a JID points at a group chat
func IsGroupJID(jid string) bool {
	return strings.HasSuffix(jid, "@g.us")
}

// Contact represents a WhatsApp contact
type Contact struct {
	JID         string `json:"jid"`
	PhoneNumber string `json:"phone_number"`
	Name        string `json:"name"`
	Status      string `json:"status,omitempty"`
}

// SendRequest is a send request handed to the transport
type SendRequest struct {
	Kind      MessageKind `json:"kind"`
	Recipient string      `json:"recipient"`
	Body      string      `json:"body,omitempty"`
	MediaRef  string      `json:"media_ref,omitempty"`
	Caption   string      `json:"caption,omitempty"`
}

// Receipt confirms a successful send
type Receipt struct {
	ID        string      `json:"id"`
	Recipient string      `json:"recipient"`
	Kind      MessageKind `json:"kind"`
	Timestamp time.Time   `json:"timestamp"`
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
}

// Status represents the status of the session
type Status struct {
	SessionID     string `json:"session_id"`
	Session       string `json:"session"`
	State         string `json:"state"`
	LoggedIn      bool   `json:"logged_in"`
	BrowserClosed bool   `json:"browser_closed"`
}
