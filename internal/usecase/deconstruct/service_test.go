package deconstruct

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"li-insights/internal/domain"
)

type stubGen struct {
	resp string
	err  error
}

func (g *stubGen) Name() string { return "stub" }

func (g *stubGen) Generate(context.Context, string, string) (string, error) {
	return g.resp, g.err
}

var samplePost = domain.Post{
	ID:       "post-0",
	Type:     domain.PostTypeText,
	Text:     "Is remote work dead? My honest take.\n\nComment below if you agree",
	NumLikes: 42,
	URL:      "https://www.linkedin.com/posts/x",
}

func TestDeconstruct_DeterministicPart(t *testing.T) {
	svc := NewService(nil, zerolog.Nop())
	out := svc.Deconstruct(context.Background(), samplePost)

	if out.Hook != "Is remote work dead?" || out.HookType != domain.HookQuestion {
		t.Fatalf("неверная зацепка: %q (%s)", out.Hook, out.HookType)
	}
	if out.HookLength != 4 {
		t.Fatalf("неверная длина зацепки: %d", out.HookLength)
	}
	if out.CTAType != domain.CTACommentGated {
		t.Fatalf("неверный тип призыва: %s", out.CTAType)
	}
	if out.AI != nil {
		t.Fatal("без генератора AI-части быть не должно")
	}
}

func TestDeconstruct_WithAI(t *testing.T) {
	gen := &stubGen{resp: `{"whyItWorked":"Вопрос в зацепке.","contentPillar":"Remote","archetype":"Hot Take","hookFormula":"Ask","ctaFormula":"Comment","replicationGuide":["шаг"]}`}
	svc := NewService(gen, zerolog.Nop())
	out := svc.Deconstruct(context.Background(), samplePost)

	if out.AI == nil || out.AI.WhyItWorked != "Вопрос в зацепке." {
		t.Fatalf("AI-часть потеряна: %+v", out.AI)
	}
}

func TestDeconstruct_AIFailureNotFatal(t *testing.T) {
	svc := NewService(&stubGen{err: errors.New("недоступно")}, zerolog.Nop())
	out := svc.Deconstruct(context.Background(), samplePost)

	if out.AI != nil {
		t.Fatal("при сбое генерации AI-часть должна отсутствовать")
	}
	if out.Hook == "" {
		t.Fatal("детерминированная часть должна сохраниться")
	}
}
