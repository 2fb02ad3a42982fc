package deconstruct

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"li-insights/internal/adapters/llm"
	"li-insights/internal/domain"
	"li-insights/internal/usecase/metrics"
)

const systemPrompt = "You are a senior LinkedIn content strategist. You answer with valid JSON only, no markdown and no commentary."

// Service разбирает один пост: детерминированная часть (зацепка и
// призыв) считается всегда, AI-часть добавляется одним вызовом
// генерации, когда генератор доступен.
type Service struct {
	gen    domain.Generator
	logger zerolog.Logger
	now    func() time.Time
}

// NewService создаёт разборщик. gen может быть nil — тогда результат
// содержит только детерминированную часть.
func NewService(gen domain.Generator, logger zerolog.Logger) *Service {
	return &Service{gen: gen, logger: logger, now: time.Now}
}

// Deconstruct строит разбор поста. Сбой генерации не фатален:
// AI-часть просто отсутствует.
func (s *Service) Deconstruct(ctx context.Context, post domain.Post) domain.PostDeconstruction {
	hook := metrics.ExtractHook(post.Text)
	cta := metrics.ExtractCTA(post.Text)

	out := domain.PostDeconstruction{
		PostURL:        post.URL,
		AuthorName:     post.AuthorName,
		AuthorHeadline: post.AuthorHeadline,
		AnalyzedAt:     s.now().UTC(),
		Type:           post.Type,
		Text:           post.Text,
		NumLikes:       post.NumLikes,
		NumComments:    post.NumComments,
		NumShares:      post.NumShares,
		Hook:           hook,
		HookType:       metrics.ClassifyHookType(hook),
		HookLength:     len(strings.Fields(hook)),
		CTA:            cta,
		CTAType:        metrics.ClassifyCTAType(cta),
	}

	if s.gen == nil {
		return out
	}
	ai, err := s.generateAI(ctx, post, out)
	if err != nil {
		s.logger.Warn().Err(err).Str("post", post.ID).Msg("AI-часть разбора не удалась")
		return out
	}
	out.AI = ai
	return out
}

func (s *Service) generateAI(ctx context.Context, post domain.Post, det domain.PostDeconstruction) (*domain.DeconstructionAI, error) {
	prompt := fmt.Sprintf(`Deconstruct this LinkedIn post (%s, %d likes, %d comments, %d shares).

Text:
%s

Detected hook (%s): %s
Detected CTA (%s): %s

Return ONLY a JSON object:
{"whyItWorked": "2-3 sentences on why this post performed the way it did",
 "contentPillar": "the topical pillar this post belongs to",
 "archetype": "the structural format, e.g. Listicle or Personal Story",
 "hookFormula": "a reusable one-line formula behind the hook",
 "ctaFormula": "a reusable one-line formula behind the CTA, or empty string",
 "replicationGuide": ["step 1", "step 2", ...]}`,
		post.Type, post.NumLikes, post.NumComments, post.NumShares,
		post.Text, det.HookType, det.Hook, det.CTAType, det.CTA)

	raw, err := s.gen.Generate(ctx, prompt, systemPrompt)
	if err != nil {
		return nil, fmt.Errorf("генерация разбора: %w", err)
	}
	var payload domain.DeconstructionAI
	if err := llm.ExtractJSON(raw, &payload); err != nil {
		return nil, fmt.Errorf("разбор ответа модели: %w", err)
	}
	if strings.TrimSpace(payload.WhyItWorked) == "" {
		return nil, fmt.Errorf("модель вернула пустой разбор")
	}
	return &payload, nil
}
