package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/condoflow/backend/internal/models"
)

// wppconnectAdapter speaks the WPPConnect server protocol: session name in
// the path, bearer token auth.
type wppconnectAdapter struct{}

func (a *wppconnectAdapter) Name() models.Provider {
	return models.ProviderWPPConnect
}

type wppconnectResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Response []struct {
		ID string `json:"id"`
	} `json:"response"`
}

func (a *wppconnectAdapter) SendText(ctx context.Context, phone, message string, settings Settings) SendResult {
	endpoint := fmt.Sprintf("%s/api/%s/send-message",
		strings.TrimRight(settings.APIURL, "/"), settings.InstanceID)

	payload := map[string]string{
		"phone":   NormalizePhone(phone),
		"message": message,
	}

	status, raw, errResult := postJSON(ctx, endpoint, a.headers(settings), payload)
	if errResult != nil {
		return *errResult
	}
	return a.interpret(endpoint, status, raw)
}

func (a *wppconnectAdapter) SendImage(ctx context.Context, phone, imageURL, caption string, settings Settings) SendResult {
	endpoint := fmt.Sprintf("%s/api/%s/send-image",
		strings.TrimRight(settings.APIURL, "/"), settings.InstanceID)

	payload := map[string]string{
		"phone":   NormalizePhone(phone),
		"path":    imageURL,
		"caption": caption,
	}

	status, raw, errResult := postJSON(ctx, endpoint, a.headers(settings), payload)
	if errResult != nil {
		return *errResult
	}
	return a.interpret(endpoint, status, raw)
}

func (a *wppconnectAdapter) headers(settings Settings) map[string]string {
	return map[string]string{"Authorization": "Bearer " + settings.APIKey}
}

// WPPConnect answers with status "success"/"sent", or an id inside the
// response array. Accept either; treat everything else as failed.
func (a *wppconnectAdapter) interpret(endpoint string, status int, raw []byte) SendResult {
	var body wppconnectResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return failure(endpoint, status, raw, fmt.Sprintf("unexpected response from wppconnect (status %d)", status))
	}

	ok := status >= 200 && status < 300 &&
		(body.Status == "success" || body.Status == "sent" || len(body.Response) > 0)
	if ok {
		var messageID string
		if len(body.Response) > 0 {
			messageID = body.Response[0].ID
		}
		return success(endpoint, status, raw, messageID)
	}

	msg := body.Message
	if msg == "" {
		msg = fmt.Sprintf("wppconnect returned status %d with status %q", status, body.Status)
	}
	return failure(endpoint, status, raw, msg)
}
