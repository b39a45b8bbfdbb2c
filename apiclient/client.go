package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mbenaiss/whatsapp-session/models"
)

// Client talks to the bridge HTTP API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// APIError is returned when the bridge answers with a non-2xx status
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Error: HTTP %d - %s", e.StatusCode, e.Message)
}

type response struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// New creates a client for the bridge at baseURL (e.g. http://localhost:8080/api).
// A nil httpClient uses a client with a two minute timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 2 * time.Minute}
	}
	return &Client{baseURL: strings.TrimSuffix(baseURL, "/"), httpClient: httpClient}
}

func (c *Client) Status(ctx context.Context) (models.Status, error) {
	var status models.Status
	_, err := c.do(ctx, http.MethodGet, "/status", nil, &status)
	return status, err
}

func (c *Client) SendMessage(ctx context.Context, recipient, message string) (models.Receipt, error) {
	var receipt models.Receipt
	_, err := c.do(ctx, http.MethodPost, "/send", map[string]string{
		"recipient": recipient,
		"message":   message,
	}, &receipt)
	return receipt, err
}

func (c *Client) SendImage(ctx context.Context, recipient, mediaRef, caption string) (models.Receipt, error) {
	var receipt models.Receipt
	_, err := c.do(ctx, http.MethodPost, "/send/image", map[string]string{
		"recipient": recipient,
		"media_ref": mediaRef,
		"caption":   caption,
	}, &receipt)
	return receipt, err
}

func (c *Client) SendVoice(ctx context.Context, recipient, mediaRef string) (models.Receipt, error) {
	var receipt models.Receipt
	_, err := c.do(ctx, http.MethodPost, "/send/voice", map[string]string{
		"recipient": recipient,
		"media_ref": mediaRef,
	}, &receipt)
	return receipt, err
}

func (c *Client) Chats(ctx context.Context) ([]models.Chat, error) {
	var chats []models.Chat
	_, err := c.do(ctx, http.MethodGet, "/chats", nil, &chats)
	return chats, err
}

// Messages returns the last limit messages of a chat, all of them when limit <= 0
func (c *Client) Messages(ctx context.Context, chatJID string, limit int) ([]models.Message, error) {
	path := "/chats/" + url.PathEscape(chatJID) + "/messages"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var messages []models.Message
	_, err := c.do(ctx, http.MethodGet, path, nil, &messages)
	return messages, err
}

func (c *Client) UnreadMessages(ctx context.Context) ([]models.Message, error) {
	var messages []models.Message
	_, err := c.do(ctx, http.MethodGet, "/unread", nil, &messages)
	return messages, err
}

func (c *Client) MarkRead(ctx context.Context, chatJID string) error {
	_, err := c.do(ctx, http.MethodPost, "/chats/"+url.PathEscape(chatJID)+"/read", nil, nil)
	return err
}

func (c *Client) Contacts(ctx context.Context) ([]models.Contact, error) {
	var contacts []models.Contact
	_, err := c.do(ctx, http.MethodGet, "/contacts", nil, &contacts)
	return contacts, err
}

func (c *Client) ContactStatus(ctx context.Context, contactID string) (string, error) {
	var data struct {
		Status string `json:"status"`
	}
	_, err := c.do(ctx, http.MethodGet, "/contacts/"+url.PathEscape(contactID)+"/status", nil, &data)
	return data.Status, err
}

func (c *Client) ProfilePicture(ctx context.Context, contactID string) (string, error) {
	var data struct {
		URL string `json:"url"`
	}
	_, err := c.do(ctx, http.MethodGet, "/contacts/"+url.PathEscape(contactID)+"/picture", nil, &data)
	return data.URL, err
}

func (c *Client) GroupMembers(ctx context.Context, groupID string) ([]string, error) {
	var members []string
	_, err := c.do(ctx, http.MethodGet, "/groups/"+url.PathEscape(groupID)+"/members", nil, &members)
	return members, err
}

func (c *Client) BatteryLevel(ctx context.Context) (int, error) {
	var data struct {
		Level int `json:"level"`
	}
	_, err := c.do(ctx, http.MethodGet, "/battery", nil, &data)
	return data.Level, err
}

// Close ends the bridge session and returns its confirmation
func (c *Client) Close(ctx context.Context) (string, error) {
	return c.do(ctx, http.MethodPost, "/close", nil, nil)
}

// do sends the request and decodes the data field of the envelope into out.
// It returns the envelope message.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) (string, error) {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return "", fmt.Errorf("JSON serialization error: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var result response
	if err := json.Unmarshal(raw, &result); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		}
		return "", fmt.Errorf("response decoding error: %w", err)
	}

	if resp.StatusCode != http.StatusOK || !result.Success {
		return "", &APIError{StatusCode: resp.StatusCode, Message: result.Message}
	}

	if out != nil && len(result.Data) > 0 {
		if err := json.Unmarshal(result.Data, out); err != nil {
			return "", fmt.Errorf("response decoding error: %w", err)
		}
	}
	return result.Message, nil
}
