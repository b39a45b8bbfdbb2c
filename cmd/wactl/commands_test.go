package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mbenaiss/whatsapp-session/models"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, handler http.HandlerFunc, args ...string) (string, error) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--bridge", srv.URL + "/api"}, args...))

	err := root.Execute()
	return out.String(), err
}

func reply(w http.ResponseWriter, code int, body map[string]any) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func TestSend(t *testing.T) {
	req := require.New(t)
	var got map[string]string

	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		req.Equal("/api/send", r.URL.Path)
		req.NoError(json.NewDecoder(r.Body).Decode(&got))
		reply(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    models.Receipt{ID: "3EB0", Success: true, Message: "Message sent successfully"},
		})
	}, "send", "33612345678", "Hello, world!")

	req.NoError(err)
	req.Equal("Hello, world!", got["message"])
	req.Equal("Message sent successfully (id 3EB0)\n", out)
}

func TestChats_RendersTable(t *testing.T) {
	req := require.New(t)

	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, map[string]any{
			"success": true,
			"data": []models.Chat{{
				JID:             "120363025246125486@g.us",
				Name:            "Family",
				LastMessageTime: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
				LastMessage:     "dinner?",
				LastIsFromMe:    true,
				UnreadCount:     2,
			}},
		})
	}, "chats")

	req.NoError(err)
	req.Contains(out, "JID")
	req.Contains(out, "Family")
	req.Contains(out, "me: dinner?")
}

func TestMessages_PassesLimit(t *testing.T) {
	req := require.New(t)

	_, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		req.Equal("/api/chats/alice@s.whatsapp.net/messages", r.URL.Path)
		req.Equal("5", r.URL.Query().Get("limit"))
		reply(w, http.StatusOK, map[string]any{"success": true, "data": []models.Message{}})
	}, "messages", "alice@s.whatsapp.net", "-n", "5")

	req.NoError(err)
}

func TestBridgeErrorIsReturned(t *testing.T) {
	req := require.New(t)

	_, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusConflict, map[string]any{"success": false, "message": "Failed to get battery level: session closed"})
	}, "battery")

	req.ErrorContains(err, "HTTP 409")
}

func TestArgsAreValidated(t *testing.T) {
	_, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("bridge must not be called")
	}, "send", "33612345678")

	require.Error(t, err)
}
