/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package notification

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/nitesh7079/veneer/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlackPayload(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	msg := slackPayload("Annapurna Veneer", errors.New("poller gave up"), at)

	require.Len(t, msg.Blocks, 3)
	assert.Equal(t, "Error From Annapurna Veneer 🐞", msg.Blocks[0].Text.Text)
	assert.Equal(t, "*Error:*\npoller gave up", msg.Blocks[1].Fields[0].Text)
	assert.Contains(t, msg.Blocks[2].Fields[0].Text, "01 May 24")
}

func TestSlackNotification_Sends(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	config.MockConfig(&config.Configuration{
		ProjectName:  "Annapurna Veneer",
		Notification: config.Notification{Slack: config.SlackWebhook{WebhookUrl: "https://hooks.slack.test/services/x"}},
	})

	var received map[string]interface{}
	httpmock.RegisterResponder("POST", "https://hooks.slack.test/services/x",
		func(req *http.Request) (*http.Response, error) {
			body, _ := io.ReadAll(req.Body)
			_ = json.Unmarshal(body, &received)
			return httpmock.NewStringResponse(200, ""), nil
		})

	err := SlackNotification(errors.New("unread count unavailable"))
	assert.NoError(t, err)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
	assert.Contains(t, received, "blocks")
}

func TestSlackNotification_NoWebhook(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	config.MockConfig(&config.Configuration{ProjectName: "Annapurna Veneer"})

	err := SlackNotification(errors.New("ignored"))
	assert.NoError(t, err)
	assert.Equal(t, 0, httpmock.GetTotalCallCount())
}

func TestSlackNotification_Failure(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	config.MockConfig(&config.Configuration{
		Notification: config.Notification{Slack: config.SlackWebhook{WebhookUrl: "https://hooks.slack.test/services/x"}},
	})
	httpmock.RegisterResponder("POST", "https://hooks.slack.test/services/x",
		httpmock.NewStringResponder(500, "invalid_payload"))

	assert.Error(t, SlackNotification(errors.New("boom")))
}
