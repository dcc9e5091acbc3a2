package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/condoflow/backend/internal/models"
)

// metaCloudAdapter speaks the official WhatsApp Cloud API: the instance id
// is the phone number id in the Graph path, bearer token auth.
type metaCloudAdapter struct{}

func (a *metaCloudAdapter) Name() models.Provider {
	return models.ProviderMetaCloud
}

type metaCloudResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (a *metaCloudAdapter) SendText(ctx context.Context, phone, message string, settings Settings) SendResult {
	endpoint := fmt.Sprintf("%s/%s/messages",
		strings.TrimRight(settings.APIURL, "/"), settings.InstanceID)

	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                NormalizePhone(phone),
		"type":              "text",
		"text":              map[string]string{"body": message},
	}

	status, raw, errResult := postJSON(ctx, endpoint, a.headers(settings), payload)
	if errResult != nil {
		return *errResult
	}
	return a.interpret(endpoint, status, raw)
}

func (a *metaCloudAdapter) SendImage(ctx context.Context, phone, imageURL, caption string, settings Settings) SendResult {
	endpoint := fmt.Sprintf("%s/%s/messages",
		strings.TrimRight(settings.APIURL, "/"), settings.InstanceID)

	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                NormalizePhone(phone),
		"type":              "image",
		"image":             map[string]string{"link": imageURL, "caption": caption},
	}

	status, raw, errResult := postJSON(ctx, endpoint, a.headers(settings), payload)
	if errResult != nil {
		return *errResult
	}
	return a.interpret(endpoint, status, raw)
}

func (a *metaCloudAdapter) headers(settings Settings) map[string]string {
	return map[string]string{"Authorization": "Bearer " + settings.APIKey}
}

// The Cloud API confirms a send with messages[0].id and reports failures
// under an error object.
func (a *metaCloudAdapter) interpret(endpoint string, status int, raw []byte) SendResult {
	var body metaCloudResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return failure(endpoint, status, raw, fmt.Sprintf("unexpected response from cloud api (status %d)", status))
	}

	if status >= 200 && status < 300 && len(body.Messages) > 0 && body.Messages[0].ID != "" {
		return success(endpoint, status, raw, body.Messages[0].ID)
	}

	msg := body.Error.Message
	if msg == "" {
		msg = fmt.Sprintf("cloud api returned status %d without a message id", status)
	}
	return failure(endpoint, status, raw, msg)
}
