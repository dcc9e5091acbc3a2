package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/condoflow/backend/internal/models"
)

// evolutionAdapter speaks the Evolution API protocol: instance name in the
// path, credentials in the "apikey" header.
type evolutionAdapter struct{}

func (a *evolutionAdapter) Name() models.Provider {
	return models.ProviderEvolution
}

type evolutionResponse struct {
	Key struct {
		ID string `json:"id"`
	} `json:"key"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (a *evolutionAdapter) SendText(ctx context.Context, phone, message string, settings Settings) SendResult {
	endpoint := fmt.Sprintf("%s/message/sendText/%s",
		strings.TrimRight(settings.APIURL, "/"), settings.InstanceID)

	payload := map[string]string{
		"number": NormalizePhone(phone),
		"text":   message,
	}

	status, raw, errResult := postJSON(ctx, endpoint, map[string]string{"apikey": settings.APIKey}, payload)
	if errResult != nil {
		return *errResult
	}
	return a.interpret(endpoint, status, raw)
}

func (a *evolutionAdapter) SendImage(ctx context.Context, phone, imageURL, caption string, settings Settings) SendResult {
	endpoint := fmt.Sprintf("%s/message/sendMedia/%s",
		strings.TrimRight(settings.APIURL, "/"), settings.InstanceID)

	payload := map[string]string{
		"number":    NormalizePhone(phone),
		"mediatype": "image",
		"media":     imageURL,
		"caption":   caption,
	}

	status, raw, errResult := postJSON(ctx, endpoint, map[string]string{"apikey": settings.APIKey}, payload)
	if errResult != nil {
		return *errResult
	}
	return a.interpret(endpoint, status, raw)
}

// Evolution nests the message id under key.id; the status field alone is
// not enough because errors also carry one.
func (a *evolutionAdapter) interpret(endpoint string, status int, raw []byte) SendResult {
	var body evolutionResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return failure(endpoint, status, raw, fmt.Sprintf("unexpected response from evolution (status %d)", status))
	}

	if status >= 200 && status < 300 && body.Key.ID != "" {
		return success(endpoint, status, raw, body.Key.ID)
	}

	msg := body.Error
	if msg == "" {
		msg = body.Message
	}
	if msg == "" {
		msg = fmt.Sprintf("evolution returned status %d without a message key", status)
	}
	return failure(endpoint, status, raw, msg)
}
