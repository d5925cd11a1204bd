package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/baechuer/integrations-hub/internal/domain"
	"github.com/baechuer/integrations-hub/internal/logger"
)

const postMessageURL = "https://slack.com/api/chat.postMessage"

// Connector posts a notification to Slack when a request_submitted
// event is published. It implements outbox.Connector; its failure must
// never roll back the publish (§4.2), so every error path here is
// swallowed after logging and the call always returns nil.
type Connector struct {
	botToken       string
	defaultChannel string
	httpClient     *http.Client
	postMessageURL string
}

func New(botToken, defaultChannel string) *Connector {
	return &Connector{
		botToken:       botToken,
		defaultChannel: defaultChannel,
		httpClient:     &http.Client{Timeout: 10 * time.Second},
		postMessageURL: postMessageURL,
	}
}

type slackMessage struct {
	Channel string       `json:"channel"`
	Text    string       `json:"text"`
	Blocks  []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type   string          `json:"type"`
	Text   *slackBlockText `json:"text,omitempty"`
	Fields []slackBlockText `json:"fields,omitempty"`
}

type slackBlockText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackAPIResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// Notify implements outbox.Connector. Only request_submitted events
// produce a Slack message; all other event types are a silent no-op.
func (c *Connector) Notify(ctx context.Context, e *domain.OutboxEvent) error {
	if e.EventType != domain.EventRequestSubmitted {
		return nil
	}
	if c.botToken == "" {
		logger.WithCtx(ctx).Warn().Msg("slack_bot_token_not_configured")
		return nil
	}

	msg := formatMessage(c.defaultChannel, e)
	body, err := json.Marshal(msg)
	if err != nil {
		logger.WithCtx(ctx).Error().Err(err).Str("event_id", e.ID).Msg("slack_format_error")
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.postMessageURL, bytes.NewReader(body))
	if err != nil {
		logger.WithCtx(ctx).Error().Err(err).Str("event_id", e.ID).Msg("slack_request_build_error")
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+c.botToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.WithCtx(ctx).Error().Err(err).Str("event_id", e.ID).Msg("slack_request_error")
		return nil
	}
	defer resp.Body.Close()

	var parsed slackAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		logger.WithCtx(ctx).Error().Err(err).Str("event_id", e.ID).Msg("slack_response_decode_error")
		return nil
	}
	if !parsed.OK {
		logger.WithCtx(ctx).Error().Str("event_id", e.ID).Str("error", parsed.Error).Msg("slack_api_error")
		return nil
	}

	logger.WithCtx(ctx).Info().Str("event_id", e.ID).Str("channel", c.defaultChannel).Msg("slack_notification_sent")
	return nil
}

func formatMessage(channel string, e *domain.OutboxEvent) slackMessage {
	var payload map[string]any
	_ = json.Unmarshal(e.Payload, &payload)

	title, _ := payload["title"].(string)
	if title == "" {
		title = "New Request"
	}
	requester, _ := payload["requester"].(string)
	if requester == "" {
		requester = "Unknown"
	}
	description, _ := payload["description"].(string)

	blocks := []slackBlock{
		{Type: "header", Text: &slackBlockText{Type: "plain_text", Text: fmt.Sprintf("New Request Submitted: %s", title)}},
		{Type: "section", Fields: []slackBlockText{
			{Type: "mrkdwn", Text: fmt.Sprintf("*Requester:*\n%s", requester)},
			{Type: "mrkdwn", Text: fmt.Sprintf("*Event ID:*\n%s", e.ID)},
		}},
	}
	if description != "" {
		blocks = append(blocks, slackBlock{Type: "section", Text: &slackBlockText{Type: "mrkdwn", Text: fmt.Sprintf("*Description:*\n%s", description)}})
	}

	return slackMessage{
		Channel: channel,
		Text:    fmt.Sprintf("New request submitted: %s", title),
		Blocks:  blocks,
	}
}
