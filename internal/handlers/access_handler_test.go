package handlers

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condoflow/backend/internal/services"
)

type stubAccessService struct {
	result *services.VerifyResult
	err    error
}

func (s *stubAccessService) VerifyToken(ctx context.Context, input *services.VerifyInput) (*services.VerifyResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func accessApp(svc services.AccessService) *fiber.App {
	app := fiber.New()
	handler := NewAccessHandler(svc)
	app.Post("/api/v1/access/verify", handler.Verify)
	return app
}

func postVerify(t *testing.T, app *fiber.App, body string) int {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/access/verify", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestVerifyEndpointSuccess(t *testing.T) {
	app := accessApp(&stubAccessService{result: &services.VerifyResult{
		MagicLink: "https://auth.example.com/magic",
	}})

	status := postVerify(t, app, `{"token":"6f1c1a34-9f5e-4f07-9a0e-0a61ffec3c15"}`)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestVerifyEndpointNotFound(t *testing.T) {
	app := accessApp(&stubAccessService{err: services.ErrTokenNotFound})

	status := postVerify(t, app, `{"token":"6f1c1a34-9f5e-4f07-9a0e-0a61ffec3c15"}`)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestVerifyEndpointExpired(t *testing.T) {
	app := accessApp(&stubAccessService{err: services.ErrTokenExpired})

	status := postVerify(t, app, `{"token":"6f1c1a34-9f5e-4f07-9a0e-0a61ffec3c15"}`)
	assert.Equal(t, fiber.StatusGone, status)
}

func TestVerifyEndpointInternalErrorIsOpaque(t *testing.T) {
	app := accessApp(&stubAccessService{err: assert.AnError})

	req := httptest.NewRequest("POST", "/api/v1/access/verify", strings.NewReader(`{"token":"6f1c1a34-9f5e-4f07-9a0e-0a61ffec3c15"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestVerifyEndpointMissingToken(t *testing.T) {
	app := accessApp(&stubAccessService{})

	status := postVerify(t, app, `{}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}
