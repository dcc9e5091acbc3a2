package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/condoflow/backend/internal/models"
)

const (
	requestTimeout  = 30 * time.Second
	responseSnippet = 500
	// maxResponseBody bounds the raw body carried back for audit rows; the
	// debug snippet stays shorter so DebugInfo JSON remains scannable.
	maxResponseBody = 2000
)

// Settings carries the credentials of the active provider configuration.
type Settings struct {
	APIURL     string
	APIKey     string
	InstanceID string
}

// DebugInfo captures the raw exchange for the delivery audit log.
type DebugInfo struct {
	Endpoint    string `json:"endpoint"`
	Status      int    `json:"status"`
	RawResponse string `json:"raw_response"`
}

// SendResult is the uniform outcome of one provider call. Adapters never
// return Go errors for HTTP or provider failures; every failure mode ends
// up here with Success=false and a readable Error.
type SendResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
	// ResponseBody is the provider's raw response, capped at maxResponseBody.
	ResponseBody string     `json:"response_body,omitempty"`
	Debug        *DebugInfo `json:"debug,omitempty"`
}

// Adapter sends messages through one concrete WhatsApp gateway. Providers
// signal success inconsistently, so each implementation carries its own
// success heuristic over the response body.
type Adapter interface {
	Name() models.Provider
	SendText(ctx context.Context, phone, message string, settings Settings) SendResult
	SendImage(ctx context.Context, phone, imageURL, caption string, settings Settings) SendResult
}

var httpClient = &http.Client{Timeout: requestTimeout}

// ForProvider returns the adapter registered for a provider name. Adding a
// new gateway means adding one Adapter implementation here.
func ForProvider(provider models.Provider) (Adapter, error) {
	switch provider {
	case models.ProviderZAPI:
		return &zapiAdapter{}, nil
	case models.ProviderEvolution:
		return &evolutionAdapter{}, nil
	case models.ProviderWPPConnect:
		return &wppconnectAdapter{}, nil
	case models.ProviderMetaCloud:
		return &metaCloudAdapter{}, nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}

// NormalizePhone strips everything but digits before transmission.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// postJSON performs the provider call and converts every transport-level
// failure into a failed SendResult instead of an error.
func postJSON(ctx context.Context, endpoint string, headers map[string]string, payload interface{}) (int, []byte, *SendResult) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, &SendResult{
			Success: false,
			Error:   fmt.Sprintf("failed to encode request: %v", err),
			Debug:   &DebugInfo{Endpoint: endpoint},
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, nil, &SendResult{
			Success: false,
			Error:   fmt.Sprintf("failed to build request: %v", err),
			Debug:   &DebugInfo{Endpoint: endpoint},
		}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, nil, &SendResult{
			Success: false,
			Error:   fmt.Sprintf("request failed: %v", err),
			Debug:   &DebugInfo{Endpoint: endpoint},
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, &SendResult{
			Success: false,
			Error:   fmt.Sprintf("failed to read response: %v", err),
			Debug:   &DebugInfo{Endpoint: endpoint, Status: resp.StatusCode},
		}
	}

	return resp.StatusCode, raw, nil
}

func debugFor(endpoint string, status int, raw []byte) *DebugInfo {
	snippet := string(raw)
	if len(snippet) > responseSnippet {
		snippet = snippet[:responseSnippet]
	}
	return &DebugInfo{Endpoint: endpoint, Status: status, RawResponse: snippet}
}

func storedBody(raw []byte) string {
	if len(raw) > maxResponseBody {
		raw = raw[:maxResponseBody]
	}
	return string(raw)
}

func success(endpoint string, status int, raw []byte, messageID string) SendResult {
	return SendResult{
		Success:      true,
		MessageID:    messageID,
		ResponseBody: storedBody(raw),
		Debug:        debugFor(endpoint, status, raw),
	}
}

func failure(endpoint string, status int, raw []byte, msg string) SendResult {
	return SendResult{
		Success:      false,
		Error:        msg,
		ResponseBody: storedBody(raw),
		Debug:        debugFor(endpoint, status, raw),
	}
}
