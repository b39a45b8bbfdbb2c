package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const recipientDescription = "The recipient - either a phone number with country code but without + or other symbols, or a JID (e.g. '123456789@s.whatsapp.net' or a group JID like '123456789@g.us')"

// NewMCPServer creates a new MCP server whose tools call the bridge
func NewMCPServer(name string, version string, bridge Bridge) *server.MCPServer {
	s := server.NewMCPServer(
		name,
		version,
	)
	h := &handler{bridge: bridge}

	getStatusTool := mcp.NewTool("get_status",
		mcp.WithDescription("Get the state of the WhatsApp session and whether it is logged in"),
	)

	sendMessageTool := mcp.NewTool("send_message",
		mcp.WithDescription("Send a WhatsApp message to a person or group. For group chats, use the JID"),
		mcp.WithString("recipient",
			mcp.Required(),
			mcp.Description(recipientDescription),
		),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("The text of the message to send"),
		),
	)

	sendImageTool := mcp.NewTool("send_image",
		mcp.WithDescription("Send an image to a person or group"),
		mcp.WithString("recipient",
			mcp.Required(),
			mcp.Description(recipientDescription),
		),
		mcp.WithString("media_ref",
			mcp.Required(),
			mcp.Description("URL or local path of the image, as seen by the bridge"),
		),
		mcp.WithString("caption",
			mcp.Description("Optional caption shown under the image"),
		),
	)

	sendVoiceTool := mcp.NewTool("send_voice",
		mcp.WithDescription("Send an audio file as a voice note (ogg/opus plays natively)"),
		mcp.WithString("recipient",
			mcp.Required(),
			mcp.Description(recipientDescription),
		),
		mcp.WithString("media_ref",
			mcp.Required(),
			mcp.Description("URL or local path of the audio file, as seen by the bridge"),
		),
	)

	listChatsTool := mcp.NewTool("list_chats",
		mcp.WithDescription("Retrieve WhatsApp chats, most recently active first"),
	)

	listMessagesTool := mcp.NewTool("list_messages",
		mcp.WithDescription("Retrieve the messages of a chat in arrival order"),
		mcp.WithString("chat_jid",
			mcp.Required(),
			mcp.Description("JID of the chat"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of most recent messages to return (default 20)"),
		),
		mcp.WithString("query",
			mcp.Description("Only keep messages whose text contains this, case insensitive"),
		),
		mcp.WithString("after",
			mcp.Description("Only keep messages sent after this RFC 3339 timestamp"),
		),
		mcp.WithString("before",
			mcp.Description("Only keep messages sent before this RFC 3339 timestamp"),
		),
	)

	listUnreadTool := mcp.NewTool("list_unread_messages",
		mcp.WithDescription("Retrieve unread messages across all chats"),
	)

	markReadTool := mcp.NewTool("mark_read",
		mcp.WithDescription("Mark the messages of a chat as read"),
		mcp.WithString("chat_jid",
			mcp.Required(),
			mcp.Description("JID of the chat"),
		),
	)

	listContactsTool := mcp.NewTool("list_contacts",
		mcp.WithDescription("Retrieve the WhatsApp contacts"),
	)

	searchContactsTool := mcp.NewTool("search_contacts",
		mcp.WithDescription("Search WhatsApp contacts by name, phone number or JID"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Text to look for, case insensitive"),
		),
	)

	getContactStatusTool := mcp.NewTool("get_contact_status",
		mcp.WithDescription("Retrieve the about text of a contact"),
		mcp.WithString("jid",
			mcp.Required(),
			mcp.Description("JID or phone number of the contact"),
		),
	)

	getProfilePictureTool := mcp.NewTool("get_profile_picture",
		mcp.WithDescription("Retrieve the profile picture URL of a contact or group"),
		mcp.WithString("jid",
			mcp.Required(),
			mcp.Description("JID or phone number of the contact"),
		),
	)

	getGroupMembersTool := mcp.NewTool("get_group_members",
		mcp.WithDescription("Retrieve the participants of a group"),
		mcp.WithString("group_jid",
			mcp.Required(),
			mcp.Description("JID of the group, ending in @g.us"),
		),
	)

	getBatteryLevelTool := mcp.NewTool("get_battery_level",
		mcp.WithDescription("Retrieve the battery level of the paired phone, when the transport reports it"),
	)

	s.AddTool(getStatusTool, h.getStatus)
	s.AddTool(sendMessageTool, h.sendMessage)
	s.AddTool(sendImageTool, h.sendImage)
	s.AddTool(sendVoiceTool, h.sendVoice)
	s.AddTool(listChatsTool, h.listChats)
	s.AddTool(listMessagesTool, h.listMessages)
	s.AddTool(listUnreadTool, h.listUnreadMessages)
	s.AddTool(markReadTool, h.markRead)
	s.AddTool(listContactsTool, h.listContacts)
	s.AddTool(searchContactsTool, h.searchContacts)
	s.AddTool(getContactStatusTool, h.getContactStatus)
	s.AddTool(getProfilePictureTool, h.getProfilePicture)
	s.AddTool(getGroupMembersTool, h.getGroupMembers)
	s.AddTool(getBatteryLevelTool, h.getBatteryLevel)

	return s
}

// StartMCPServer starts the MCP server
func StartMCPServer(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
