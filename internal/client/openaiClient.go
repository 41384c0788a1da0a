package client

import (
	"context"
	"errors"
	"net/http"
	"promptcanvas/internal/apperr"
	"promptcanvas/internal/config"

	"github.com/sashabaranov/go-openai"
)

type ImageClient interface {
	// GenerateImage synthesizes a single image for prompt and returns its URL.
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

type openaiImageClientImpl struct {
	client  *openai.Client
	model   string
	size    string
	quality string
}

func NewImageClient(openaiCfg *config.OpenAI) ImageClient {
	return &openaiImageClientImpl{
		client:  openai.NewClient(openaiCfg.APIKey),
		model:   openaiCfg.Model,
		size:    openaiCfg.ImageSize,
		quality: openaiCfg.Quality,
	}
}

func (c *openaiImageClientImpl) GenerateImage(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          c.model,
		N:              1,
		Size:           c.size,
		Quality:        c.quality,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return "", translateImageError(err)
	}

	if len(resp.Data) == 0 {
		return "", apperr.New(apperr.KindUpstream, "image service returned no image")
	}

	return resp.Data[0].URL, nil
}

func translateImageError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return apperr.Wrap(apperr.KindRateLimited, "image service is busy, try again in a moment", err)
		case http.StatusBadRequest:
			return apperr.Wrap(apperr.KindInvalidInput, "prompt was rejected by the image service", err)
		}
	}
	return apperr.Wrap(apperr.KindUpstream, "image generation failed", err)
}
