package main

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mbenaiss/whatsapp-session/models"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

const maxCell = 60

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	return table
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func truncate(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if r := []rune(s); len(r) > maxCell {
		return string(r[:maxCell-1]) + "…"
	}
	return s
}

func renderChats(w io.Writer, chats []models.Chat) {
	table := newTable(w, "JID", "Name", "Last Active", "Unread", "Last Message")
	table.AppendBulk(lo.Map(chats, func(c models.Chat, _ int) []string {
		last := c.LastMessage
		if c.LastIsFromMe {
			last = "me: " + last
		}
		return []string{c.JID, c.Name, formatTime(c.LastMessageTime), strconv.Itoa(c.UnreadCount), truncate(last)}
	}))
	table.Render()
}

func renderMessages(w io.Writer, messages []models.Message) {
	table := newTable(w, "Time", "Chat", "From", "Kind", "Content")
	table.AppendBulk(lo.Map(messages, func(m models.Message, _ int) []string {
		from := m.Sender
		if m.IsFromMe() {
			from = "me"
		}
		content := lo.CoalesceOrEmpty(m.Content, m.MediaRef)
		return []string{formatTime(m.Timestamp), m.ChatJID, from, string(m.Kind), truncate(content)}
	}))
	table.Render()
}

func renderContacts(w io.Writer, contacts []models.Contact) {
	table := newTable(w, "Name", "Phone", "JID")
	table.AppendBulk(lo.Map(contacts, func(c models.Contact, _ int) []string {
		return []string{c.Name, c.PhoneNumber, c.JID}
	}))
	table.Render()
}
