package analysis

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"li-insights/internal/adapters/cleaner"
	"li-insights/internal/domain"
	"li-insights/internal/usecase/insights"
)

type fixedSource struct {
	items []domain.RawPost
	err   error
}

func (s *fixedSource) Fetch(context.Context, string, int) ([]domain.RawPost, error) {
	return s.items, s.err
}

type stubBuilder struct {
	calls int
}

func (b *stubBuilder) Generate(_ context.Context, in insights.Input) (domain.AIInsights, []domain.Warning) {
	b.calls++
	out := insights.Placeholders(in)
	out.Executive = domain.ExecutiveSummary{Summary: "от модели"}
	for i := range out.Statuses {
		out.Statuses[i].Source = domain.InsightFromAI
	}
	return out, []domain.Warning{{Kind: domain.WarnGenerationFailure, Message: "один кусок упал"}}
}

func rawPosts() []domain.RawPost {
	return []domain.RawPost{
		{
			Text:              "Is remote work dead? Here's my take.",
			NumLikes:          30,
			NumComments:       5,
			PostedAtTimestamp: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC).UnixMilli(),
			AuthorName:        "Jane Doe",
			Author:            &domain.RawAuthor{Occupation: "Founder"},
			URN:               "urn:li:activity:1",
		},
		{
			Text:              "5 ways to grow.\n\nComment below if you agree",
			NumLikes:          80,
			NumComments:       12,
			PostedAtTimestamp: time.Date(2024, 5, 8, 10, 0, 0, 0, time.UTC).UnixMilli(),
			AuthorName:        "Jane Doe",
			URN:               "urn:li:activity:2",
		},
	}
}

func fixedNow() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func newService(source domain.PostSource, builder InsightBuilder) *Service {
	normalizer := cleaner.New(cleaner.WithNow(fixedNow))
	svc := NewService(source, normalizer, builder, zerolog.Nop())
	svc.now = fixedNow
	return svc
}

func TestRun_FullMode(t *testing.T) {
	builder := &stubBuilder{}
	svc := newService(&fixedSource{items: rawPosts()}, builder)

	analysis, err := svc.Run(context.Background(), RunParams{ProfileURL: "https://www.linkedin.com/in/jane/", Limit: 50})
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if builder.calls != 1 {
		t.Fatalf("ожидали один вызов построителя инсайтов, получили %d", builder.calls)
	}
	if analysis.ProfileName != "Jane Doe" || analysis.ProfileHeadline != "Founder" {
		t.Fatalf("неверный профиль: %q / %q", analysis.ProfileName, analysis.ProfileHeadline)
	}
	if analysis.Insights.Executive.Summary != "от модели" {
		t.Fatalf("инсайты построителя потеряны: %+v", analysis.Insights.Executive)
	}
	if len(analysis.ScoredPosts) != 2 || len(analysis.TopPosts) != 2 {
		t.Fatalf("неверные оценённые посты: %d / %d", len(analysis.ScoredPosts), len(analysis.TopPosts))
	}
	if len(analysis.Warnings) != 1 || analysis.Warnings[0].Kind != domain.WarnGenerationFailure {
		t.Fatalf("предупреждения построителя потеряны: %v", analysis.Warnings)
	}
}

func TestRun_DegradedMatchesFullMetrics(t *testing.T) {
	builder := &stubBuilder{}
	full := newService(&fixedSource{items: rawPosts()}, builder)
	degraded := newService(&fixedSource{items: rawPosts()}, builder)

	fullOut, err := full.Run(context.Background(), RunParams{ProfileURL: "p", Limit: 50})
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	degradedOut, err := degraded.Run(context.Background(), RunParams{ProfileURL: "p", Limit: 50, SkipAI: true})
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}

	if builder.calls != 1 {
		t.Fatalf("в деградированном режиме построитель вызываться не должен: %d", builder.calls)
	}
	for _, st := range degradedOut.Insights.Statuses {
		if st.Source != domain.InsightSkipped {
			t.Fatalf("вид %s должен быть пропущен, получили %s", st.Kind, st.Source)
		}
	}

	// Детерминированная часть отчёта не зависит от режима.
	fullOut.Insights, degradedOut.Insights = domain.AIInsights{}, domain.AIInsights{}
	fullOut.Warnings, degradedOut.Warnings = nil, nil
	if !reflect.DeepEqual(fullOut, degradedOut) {
		t.Fatal("метрики деградированного режима отличаются от полного")
	}
}

func TestRun_EmptyInput(t *testing.T) {
	svc := newService(&fixedSource{items: nil}, &stubBuilder{})
	_, err := svc.Run(context.Background(), RunParams{ProfileURL: "p", Limit: 50})
	if !errors.Is(err, domain.ErrEmptyInput) {
		t.Fatalf("ожидали ErrEmptyInput, получили %v", err)
	}
}

func TestRun_FetchError(t *testing.T) {
	svc := newService(&fixedSource{err: errors.New("актор упал")}, &stubBuilder{})
	if _, err := svc.Run(context.Background(), RunParams{ProfileURL: "p", Limit: 50}); err == nil {
		t.Fatal("ожидали ошибку выгрузки")
	}
}
