package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// SlackNotifier mirrors verdicts to a Slack channel via "incoming webhook",
// for teams who watch Slack rather than the Telegram admin chat.
//
// The slack incoming webhook must be already configured in the slack
// workplace.
type SlackNotifier struct {
	SlackWebhookURL string
}

var _ Notifier = (*SlackNotifier)(nil)

type slackWebhookBody struct {
	Text string `json:"text"`
}

func (n *SlackNotifier) SendVerdict(ctx context.Context, evt *MessageEvent, verdict Verdict) error {
	msg := fmt.Sprintf("⚠️ Warden %s ⚠️\n%s", verdict.Action, verdict.NotifyText)

	body, err := json.Marshal(slackWebhookBody{Text: msg})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.SlackWebhookURL, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Add("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	buf := new(bytes.Buffer)
	buf.ReadFrom(resp.Body)
	if resp.StatusCode != 200 || buf.String() != "ok" {
		return fmt.Errorf("failed slack webhook POST request. status=%d", resp.StatusCode)
	}
	return nil
}
