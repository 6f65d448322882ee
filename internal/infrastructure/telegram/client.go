// Package telegram polls the Bot API for new chat messages and feeds them,
// rate-gated and deduplicated, into the extraction pipeline.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type botClient struct {
	baseURL    string
	botToken   string
	httpClient *http.Client
}

func newBotClient(baseURL, botToken string) *botClient {
	return &botClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		botToken:   strings.TrimSpace(botToken),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *botClient) getUpdates(ctx context.Context, offset int64, limit int) (*updatesResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	q := url.Values{}
	if offset > 0 {
		q.Set("offset", strconv.FormatInt(offset, 10))
	}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("timeout", "0")

	endpoint := fmt.Sprintf("%s/bot%s/getUpdates?%s", c.baseURL, c.botToken, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram getUpdates failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("telegram API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out updatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding getUpdates response: %w", err)
	}
	if !out.OK {
		if out.Description == "" {
			out.Description = "unknown error"
		}
		return nil, fmt.Errorf("telegram API error: %s", out.Description)
	}

	return &out, nil
}

type updatesResponse struct {
	OK          bool     `json:"ok"`
	Description string   `json:"description"`
	Result      []update `json:"result"`
}

type update struct {
	UpdateID      int64    `json:"update_id"`
	Message       *message `json:"message"`
	EditedMessage *message `json:"edited_message"`
	ChannelPost   *message `json:"channel_post"`
}

// content returns the message carried by the update, whichever field the
// API used. Cargo channels deliver through channel_post; groups through
// message.
func (u *update) content() *message {
	switch {
	case u.Message != nil:
		return u.Message
	case u.ChannelPost != nil:
		return u.ChannelPost
	default:
		return u.EditedMessage
	}
}

type message struct {
	MessageID int64  `json:"message_id"`
	Date      int64  `json:"date"`
	Text      string `json:"text"`
	Caption   string `json:"caption"`
	From      *user  `json:"from"`
	Chat      chat   `json:"chat"`
}

type user struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

type chat struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Username string `json:"username"`
}

func senderName(from *user) string {
	if from == nil {
		return "unknown"
	}
	if strings.TrimSpace(from.FirstName) != "" && strings.TrimSpace(from.LastName) != "" {
		return strings.TrimSpace(from.FirstName + " " + from.LastName)
	}
	if strings.TrimSpace(from.FirstName) != "" {
		return strings.TrimSpace(from.FirstName)
	}
	if strings.TrimSpace(from.Username) != "" {
		return strings.TrimSpace(from.Username)
	}
	if from.ID != 0 {
		return strconv.FormatInt(from.ID, 10)
	}
	return "unknown"
}

// messageBody prefers text and falls back to the media caption. Adverts
// attached to photos arrive as captions.
func messageBody(msg *message) string {
	if msg == nil {
		return ""
	}
	if body := strings.TrimSpace(msg.Text); body != "" {
		return body
	}
	return strings.TrimSpace(msg.Caption)
}
