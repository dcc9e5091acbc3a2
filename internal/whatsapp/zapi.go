package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/condoflow/backend/internal/models"
)

// zapiAdapter speaks the Z-API protocol: the instance id and token are part
// of the URL path, no auth header.
type zapiAdapter struct{}

func (a *zapiAdapter) Name() models.Provider {
	return models.ProviderZAPI
}

type zapiResponse struct {
	ZaapID    string `json:"zaapId"`
	MessageID string `json:"messageId"`
	Error     string `json:"error"`
}

func (a *zapiAdapter) SendText(ctx context.Context, phone, message string, settings Settings) SendResult {
	endpoint := fmt.Sprintf("%s/instances/%s/token/%s/send-text",
		strings.TrimRight(settings.APIURL, "/"), settings.InstanceID, settings.APIKey)

	payload := map[string]string{
		"phone":   NormalizePhone(phone),
		"message": message,
	}

	status, raw, errResult := postJSON(ctx, endpoint, nil, payload)
	if errResult != nil {
		return *errResult
	}
	return a.interpret(endpoint, status, raw)
}

func (a *zapiAdapter) SendImage(ctx context.Context, phone, imageURL, caption string, settings Settings) SendResult {
	endpoint := fmt.Sprintf("%s/instances/%s/token/%s/send-image",
		strings.TrimRight(settings.APIURL, "/"), settings.InstanceID, settings.APIKey)

	payload := map[string]string{
		"phone":   NormalizePhone(phone),
		"image":   imageURL,
		"caption": caption,
	}

	status, raw, errResult := postJSON(ctx, endpoint, nil, payload)
	if errResult != nil {
		return *errResult
	}
	return a.interpret(endpoint, status, raw)
}

// Z-API reports success through messageId or zaapId; anything else is a
// failure even on HTTP 200.
func (a *zapiAdapter) interpret(endpoint string, status int, raw []byte) SendResult {
	var body zapiResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return failure(endpoint, status, raw, fmt.Sprintf("unexpected response from z-api (status %d)", status))
	}

	if status >= 200 && status < 300 && (body.MessageID != "" || body.ZaapID != "") {
		messageID := body.MessageID
		if messageID == "" {
			messageID = body.ZaapID
		}
		return success(endpoint, status, raw, messageID)
	}

	msg := body.Error
	if msg == "" {
		msg = fmt.Sprintf("z-api returned status %d without a message id", status)
	}
	return failure(endpoint, status, raw, msg)
}
