package service

import (
	"context"
	"math/rand/v2"
	"promptcanvas/internal/apperr"
	"promptcanvas/internal/client"
	"promptcanvas/internal/model"
	"strings"

	"github.com/rs/zerolog"
)

// variationModifiers are the clauses the variation path appends to a base
// prompt. Selection is uniform random and unseeded.
var variationModifiers = []string{
	"with different lighting",
	"from a different angle",
	"in a different art style",
	"with a different color palette",
	"with more intricate detail",
	"in a different setting",
}

// ModifierPicker selects the variation clause. Tests inject a deterministic
// picker.
type ModifierPicker interface {
	Pick() string
}

type randomModifierPicker struct{}

func NewRandomModifierPicker() ModifierPicker {
	return randomModifierPicker{}
}

func (randomModifierPicker) Pick() string {
	return variationModifiers[rand.IntN(len(variationModifiers))]
}

type GenerationService interface {
	Generate(ctx context.Context, prompt string) (*model.GenerationResult, error)
	GenerateVariation(ctx context.Context, basePrompt string) (*model.GenerationResult, error)
}

type generationServiceImpl struct {
	imageClient client.ImageClient
	picker      ModifierPicker
	logger      zerolog.Logger
}

func NewGenerationService(
	imageClient client.ImageClient,
	picker ModifierPicker,
	logger zerolog.Logger,
) GenerationService {
	return &generationServiceImpl{
		imageClient: imageClient,
		picker:      picker,
		logger:      logger,
	}
}

func (s *generationServiceImpl) Generate(ctx context.Context, prompt string) (*model.GenerationResult, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, apperr.Validation("prompt is required")
	}

	imageURL, err := s.imageClient.GenerateImage(ctx, prompt)
	if err != nil {
		s.logger.Error().Err(err).Msg("image generation failed")
		return nil, err
	}

	s.logger.Info().Str("prompt", prompt).Msg("image generated")

	return &model.GenerationResult{
		ImageURL: imageURL,
		Prompt:   prompt,
	}, nil
}

func (s *generationServiceImpl) GenerateVariation(ctx context.Context, basePrompt string) (*model.GenerationResult, error) {
	basePrompt = strings.TrimSpace(basePrompt)
	if basePrompt == "" {
		return nil, apperr.Validation("base prompt is required")
	}

	return s.Generate(ctx, basePrompt+", "+s.picker.Pick())
}
