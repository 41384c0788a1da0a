package service

import (
	"context"
	"promptcanvas/internal/apperr"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGenerationService(imageClient *fakeImageClient, picker ModifierPicker) GenerationService {
	return NewGenerationService(imageClient, picker, zerolog.Nop())
}

func TestGenerateRejectsEmptyPrompt(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
	}{
		{"empty", ""},
		{"spaces", "   "},
		{"whitespace", " \t\n "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imageClient := &fakeImageClient{url: "https://img.example.com/1.png"}
			svc := newGenerationService(imageClient, fixedPicker{})

			_, err := svc.Generate(context.Background(), tt.prompt)

			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			assert.Empty(t, imageClient.prompts, "no synthesis call for invalid prompt")
		})
	}
}

func TestGenerateReturnsResult(t *testing.T) {
	imageClient := &fakeImageClient{url: "https://img.example.com/fox.png"}
	svc := newGenerationService(imageClient, fixedPicker{})

	result, err := svc.Generate(context.Background(), "a red fox in snow")

	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/fox.png", result.ImageURL)
	assert.Equal(t, "a red fox in snow", result.Prompt)
	assert.Equal(t, []string{"a red fox in snow"}, imageClient.prompts)
}

func TestGenerateTrimsPrompt(t *testing.T) {
	imageClient := &fakeImageClient{url: "https://img.example.com/1.png"}
	svc := newGenerationService(imageClient, fixedPicker{})

	result, err := svc.Generate(context.Background(), "  a red fox in snow  ")

	require.NoError(t, err)
	assert.Equal(t, "a red fox in snow", result.Prompt)
	assert.Equal(t, []string{"a red fox in snow"}, imageClient.prompts)
}

func TestGeneratePropagatesClientError(t *testing.T) {
	imageClient := &fakeImageClient{
		err: apperr.New(apperr.KindRateLimited, "image service is busy, try again in a moment"),
	}
	svc := newGenerationService(imageClient, fixedPicker{})

	_, err := svc.Generate(context.Background(), "a red fox in snow")

	require.Error(t, err)
	assert.Equal(t, apperr.KindRateLimited, apperr.KindOf(err))
}

func TestGenerateVariationAppendsModifier(t *testing.T) {
	imageClient := &fakeImageClient{url: "https://img.example.com/2.png"}
	svc := newGenerationService(imageClient, fixedPicker{modifier: "with different lighting"})

	result, err := svc.GenerateVariation(context.Background(), "a red fox in snow")

	require.NoError(t, err)
	assert.Equal(t, "a red fox in snow, with different lighting", result.Prompt)
	assert.Equal(t, []string{"a red fox in snow, with different lighting"}, imageClient.prompts)
}

func TestGenerateVariationRejectsEmptyBase(t *testing.T) {
	imageClient := &fakeImageClient{url: "https://img.example.com/2.png"}
	svc := newGenerationService(imageClient, fixedPicker{modifier: "with more intricate detail"})

	_, err := svc.GenerateVariation(context.Background(), "  ")

	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Empty(t, imageClient.prompts)
}

func TestRandomModifierPickerStaysInFixedSet(t *testing.T) {
	picker := NewRandomModifierPicker()

	for i := 0; i < 50; i++ {
		assert.Contains(t, variationModifiers, picker.Pick())
	}
}
