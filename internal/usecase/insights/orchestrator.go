package insights

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"li-insights/internal/domain"
	"li-insights/internal/infra/metrics"
)

const (
	defaultChunkSize   = 40
	defaultCallTimeout = 120 * time.Second
)

// Orchestrator строит AI-инсайты по коллекции постов. Виды с фазой
// кусков (колонны, архетипы, категории) проходят через конкурентное
// извлечение кандидатов и консолидацию; остальные четыре вида
// запускаются одной конкурентной пачкой по всей коллекции. Ошибка
// любого вызова не прерывает прогон: вид получает плейсхолдер, а
// проблема попадает в предупреждения.
type Orchestrator struct {
	gen         domain.Generator
	logger      zerolog.Logger
	chunkSize   int
	callTimeout time.Duration
}

// Option настраивает оркестратор.
type Option func(*Orchestrator)

// WithChunkSize задаёт размер куска фазы извлечения.
func WithChunkSize(size int) Option {
	return func(o *Orchestrator) {
		if size > 0 {
			o.chunkSize = size
		}
	}
}

// WithCallTimeout задаёт бюджет времени одного вызова генерации.
func WithCallTimeout(timeout time.Duration) Option {
	return func(o *Orchestrator) {
		if timeout > 0 {
			o.callTimeout = timeout
		}
	}
}

// NewOrchestrator создаёт оркестратор поверх выбранного генератора.
func NewOrchestrator(gen domain.Generator, logger zerolog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		gen:         gen,
		logger:      logger,
		chunkSize:   defaultChunkSize,
		callTimeout: defaultCallTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Placeholders возвращает инсайты деградированного режима: все поля
// заполнены фиксированными плейсхолдерами, источник каждого вида —
// skipped, ни одного вызова генерации.
func Placeholders(in Input) domain.AIInsights {
	out := domain.AIInsights{
		Pillars:      fallbackPillars(),
		Archetypes:   fallbackArchetypes(len(in.Posts)),
		Categories:   fallbackCategories(len(in.Posts)),
		Executive:    fallbackExecutive(),
		TopWorst:     fallbackTopWorst(),
		HookStrategy: fallbackStrategy(),
		CTAStrategy:  fallbackStrategy(),
	}
	for _, k := range chunkedKinds() {
		out.Statuses = append(out.Statuses, domain.InsightStatus{Kind: k.kind, Source: domain.InsightSkipped})
	}
	for _, k := range wholeKinds() {
		out.Statuses = append(out.Statuses, domain.InsightStatus{Kind: k.kind, Source: domain.InsightSkipped})
	}
	return out
}

// Generate выполняет обе фазы и собирает значение каждого вида.
func (o *Orchestrator) Generate(ctx context.Context, in Input) (domain.AIInsights, []domain.Warning) {
	out := domain.AIInsights{}
	var warnings []domain.Warning

	cks := chunkedKinds()
	chunks := partition(in.Posts, o.chunkSize)

	// Фаза извлечения: все запросы всех видов в одной пачке.
	type chunkTask struct {
		kindIdx  int
		chunkIdx int
	}
	var tasks []chunkTask
	for kindIdx := range cks {
		for chunkIdx := range chunks {
			tasks = append(tasks, chunkTask{kindIdx: kindIdx, chunkIdx: chunkIdx})
		}
	}
	chunkOutcomes := fanOut(ctx, len(tasks), func(ctx context.Context, i int) (string, error) {
		task := tasks[i]
		prompt := cks[task.kindIdx].chunkPrompt(chunks[task.chunkIdx], task.chunkIdx*o.chunkSize)
		return o.generate(ctx, prompt)
	})

	candidates := make([][]string, len(cks))
	for i, res := range chunkOutcomes {
		task := tasks[i]
		if res.err != nil {
			o.logger.Warn().Err(res.err).
				Str("kind", string(cks[task.kindIdx].kind)).
				Int("chunk", task.chunkIdx).
				Msg("запрос по куску не удался")
			warnings = append(warnings, domain.Warning{
				Kind:    domain.WarnGenerationFailure,
				Message: fmt.Sprintf("%s: кусок %d: %v", cks[task.kindIdx].kind, task.chunkIdx, res.err),
			})
			continue
		}
		candidates[task.kindIdx] = append(candidates[task.kindIdx], res.val)
	}

	// Консолидация: по одному запросу на вид.
	consolidated := fanOut(ctx, len(cks), func(ctx context.Context, i int) (string, error) {
		if len(candidates[i]) == 0 {
			return "", fmt.Errorf("все куски вида %s завершились ошибкой", cks[i].kind)
		}
		return o.generate(ctx, cks[i].consolidatePrompt(candidates[i], in))
	})
	for i, res := range consolidated {
		k := cks[i]
		err := res.err
		if err == nil {
			err = k.apply(res.val, in, &out)
		}
		if err != nil {
			warnings = append(warnings, o.substituteFallback(k.kind, err))
			k.fallback(in, &out)
			out.Statuses = append(out.Statuses, domain.InsightStatus{Kind: k.kind, Source: domain.InsightFallback})
			continue
		}
		out.Statuses = append(out.Statuses, domain.InsightStatus{Kind: k.kind, Source: domain.InsightFromAI})
	}

	// Вторая фаза: четыре вида по всей коллекции одной пачкой.
	wks := wholeKinds()
	wholeOutcomes := fanOut(ctx, len(wks), func(ctx context.Context, i int) (string, error) {
		return o.generate(ctx, wks[i].prompt(in))
	})
	for i, res := range wholeOutcomes {
		k := wks[i]
		err := res.err
		if err == nil {
			err = k.apply(res.val, in, &out)
		}
		if err != nil {
			warnings = append(warnings, o.substituteFallback(k.kind, err))
			k.fallback(in, &out)
			out.Statuses = append(out.Statuses, domain.InsightStatus{Kind: k.kind, Source: domain.InsightFallback})
			continue
		}
		out.Statuses = append(out.Statuses, domain.InsightStatus{Kind: k.kind, Source: domain.InsightFromAI})
	}

	return out, warnings
}

func (o *Orchestrator) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()
	return o.gen.Generate(ctx, prompt, systemPrompt)
}

func (o *Orchestrator) substituteFallback(kind domain.InsightKind, err error) domain.Warning {
	o.logger.Warn().Err(err).Str("kind", string(kind)).Msg("вид инсайта заменён плейсхолдером")
	metrics.IncInsightFallback(string(kind))
	return domain.Warning{
		Kind:    domain.WarnConsolidationFallback,
		Message: fmt.Sprintf("%s: %v", kind, err),
	}
}
