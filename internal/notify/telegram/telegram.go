package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"
)

const apiBaseURL = "https://api.telegram.org"

// Client sends short publish/failure notices via the Telegram Bot API.
type Client struct {
	botToken   string
	chatID     string
	baseURL    string
	httpClient *http.Client
}

// New creates a Telegram notifier. Returns nil if token or chatID is empty.
func New(botToken, chatID string) *Client {
	if botToken == "" || chatID == "" {
		return nil
	}
	return &Client{
		botToken:   botToken,
		chatID:     chatID,
		baseURL:    apiBaseURL,
		httpClient: &http.Client{},
	}
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

const maxMessageLen = 4096

// Send delivers one notice to the configured chat. The body is plain
// text (an error message or article path); anything over the Bot API
// limit is truncated.
func (c *Client) Send(ctx context.Context, title, body string) error {
	text := escapeHTML(body)
	if title != "" {
		text = "<b>" + escapeHTML(title) + "</b>\n\n" + text
	}
	if len(text) > maxMessageLen {
		cut := maxMessageLen
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.botToken)

	payload, err := json.Marshal(sendMessageRequest{
		ChatID:    c.chatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		var apiResp apiResponse
		json.Unmarshal(respBody, &apiResp)
		return fmt.Errorf("telegram API %d: %s", resp.StatusCode, apiResp.Description)
	}
	return nil
}

func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
