// Package mattermost provides webhook client for sending notifications to Mattermost.
package mattermost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/aimd54/gametracker/internal/config"
	"github.com/aimd54/gametracker/pkg/logger"
)

const botUsername = "Game Tracker"

// Client handles Mattermost webhook notifications.
type Client struct {
	webhookURL string
	channel    string
	enabled    bool
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient creates a new Mattermost client.
func NewClient(cfg *config.MattermostConfig, log *logger.Logger) *Client {
	return &Client{
		webhookURL: cfg.WebhookURL,
		channel:    cfg.Channel,
		enabled:    cfg.Enabled,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// Enabled reports whether messages are actually delivered.
func (c *Client) Enabled() bool {
	return c.enabled
}

// Message represents a Mattermost message payload.
type Message struct {
	Channel     string       `json:"channel,omitempty"`
	Username    string       `json:"username,omitempty"`
	Text        string       `json:"text,omitempty"`
	IconURL     string       `json:"icon_url,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment represents a message attachment.
type Attachment struct {
	Fallback string  `json:"fallback,omitempty"`
	Color    string  `json:"color,omitempty"`
	Pretext  string  `json:"pretext,omitempty"`
	Title    string  `json:"title,omitempty"`
	Text     string  `json:"text,omitempty"`
	Fields   []Field `json:"fields,omitempty"`
	Footer   string  `json:"footer,omitempty"`
}

// Field represents a message field.
type Field struct {
	Short bool   `json:"short"`
	Title string `json:"title"`
	Value string `json:"value"`
}

// SendMessage sends a message to Mattermost.
func (c *Client) SendMessage(ctx context.Context, msg *Message) error {
	if !c.enabled {
		c.log.Debug().Msg("Mattermost is disabled, skipping message")
		return nil
	}

	if msg.Channel == "" {
		msg.Channel = c.channel
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message to Mattermost: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mattermost returned status %d", resp.StatusCode)
	}

	c.log.Debug().
		Str("channel", msg.Channel).
		Msg("Sent message to Mattermost")

	return nil
}

// SendSimpleMessage sends a simple text message.
func (c *Client) SendSimpleMessage(ctx context.Context, text string) error {
	return c.SendMessage(ctx, &Message{
		Text: text,
	})
}

// AuditSummary is the outcome of one library audit run.
type AuditSummary struct {
	RanAt             time.Time
	TotalGames        int
	CompletedGames    int
	CompletionPercent float64
	TotalReviews      int
	AverageRating     *float64
	OrphanedReviews   map[string]int // missing game ID -> review count
	Unlocked          []string
}

// OrphanCount returns the total number of orphaned reviews.
func (s AuditSummary) OrphanCount() int {
	n := 0
	for _, c := range s.OrphanedReviews {
		n += c
	}
	return n
}

// SendAuditSummary posts the nightly audit report.
func (c *Client) SendAuditSummary(ctx context.Context, summary AuditSummary) error {
	return c.SendMessage(ctx, &Message{
		Username:    botUsername,
		Text:        "### 🎮 Library Audit",
		Attachments: []Attachment{auditAttachment(summary)},
	})
}

func auditAttachment(s AuditSummary) Attachment {
	rating := "n/a"
	if s.AverageRating != nil {
		rating = fmt.Sprintf("%.1f ★", *s.AverageRating)
	}

	color := "#2eb886"
	orphans := s.OrphanCount()
	if orphans > 0 {
		color = "#daa038"
	}

	fields := []Field{
		{Short: true, Title: "Games", Value: fmt.Sprintf("%d", s.TotalGames)},
		{Short: true, Title: "Completed", Value: fmt.Sprintf("%d (%.1f%%)", s.CompletedGames, s.CompletionPercent)},
		{Short: true, Title: "Reviews", Value: fmt.Sprintf("%d", s.TotalReviews)},
		{Short: true, Title: "Average rating", Value: rating},
		{Short: true, Title: "Orphaned reviews", Value: fmt.Sprintf("%d", orphans)},
	}
	if len(s.Unlocked) > 0 {
		fields = append(fields, Field{Title: "Achievements", Value: strings.Join(s.Unlocked, ", ")})
	}

	text := ""
	if orphans > 0 {
		ids := make([]string, 0, len(s.OrphanedReviews))
		for id := range s.OrphanedReviews {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		var b strings.Builder
		b.WriteString("⚠️ Reviews reference missing games:\n")
		for _, id := range ids {
			fmt.Fprintf(&b, "• `%s` (%d)\n", id, s.OrphanedReviews[id])
		}
		text = b.String()
	}

	return Attachment{
		Fallback: fmt.Sprintf("Library audit: %d games, %d orphaned reviews", s.TotalGames, orphans),
		Color:    color,
		Title:    "Library summary",
		Text:     text,
		Fields:   fields,
		Footer:   s.RanAt.UTC().Format(time.RFC3339),
	}
}
