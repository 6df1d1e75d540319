package handler_test

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/aulaforge/aulaforge-api/internal/dto"
)

func TestGenerateProjectEndpoint(t *testing.T) {
	provider := &fakeProvider{response: "```json\n" + `{
		"title": "Build a weather station",
		"description": "Students assemble and program a small weather station.",
		"objectives": ["Read sensor data"]
	}` + "\n```"}
	app, _ := setupApp(t, provider)

	payload := dto.GenerateProjectRequest{
		Idea:     "a weather station for the schoolyard",
		TaskType: "PROJECT",
	}
	resp, err := app.Test(jsonRequest(t, "POST", "/api/v1/generate/project", payload))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data dto.GenerationResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.True(t, body.Data.Success)
	require.Equal(t, "Build a weather station", body.Data.Data["title"])
	require.Equal(t, "m1", body.Data.Model)
}

func TestGenerateProjectValidation(t *testing.T) {
	app, _ := setupApp(t, &fakeProvider{})

	payload := dto.GenerateProjectRequest{Idea: "too short", TaskType: "PROJECT"}
	resp, err := app.Test(jsonRequest(t, "POST", "/api/v1/generate/project", payload))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGenerateProjectExhaustedChainIsBadGateway(t *testing.T) {
	app, _ := setupApp(t, &fakeProvider{err: fmt.Errorf("quota exceeded")})

	payload := dto.GenerateProjectRequest{
		Idea:     "a weather station for the schoolyard",
		TaskType: "PROJECT",
	}
	resp, err := app.Test(jsonRequest(t, "POST", "/api/v1/generate/project", payload))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}

func TestGenerateProjectMissingProviderIsBadGateway(t *testing.T) {
	app, _ := setupApp(t, nil)

	payload := dto.GenerateProjectRequest{
		Idea:     "a weather station for the schoolyard",
		TaskType: "PROJECT",
	}
	resp, err := app.Test(jsonRequest(t, "POST", "/api/v1/generate/project", payload))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}

func TestExtractMetadataEndpoint(t *testing.T) {
	provider := &fakeProvider{response: `{
		"title": "Photosynthesis basics",
		"description": "An introductory reading on photosynthesis."
	}`}
	app, _ := setupApp(t, provider)

	payload := dto.ExtractMetadataRequest{
		Description: "an introductory reading on photosynthesis for ninth graders",
	}
	resp, err := app.Test(jsonRequest(t, "POST", "/api/v1/generate/metadata", payload))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data dto.GenerationResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.True(t, body.Data.Success)
	require.Equal(t, "Photosynthesis basics", body.Data.Data["title"])
}
