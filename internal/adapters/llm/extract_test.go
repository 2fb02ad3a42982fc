package llm

import (
	"errors"
	"testing"
)

type pillarPayload struct {
	Pillars []struct {
		Name string `json:"name"`
	} `json:"pillars"`
}

func TestExtractJSON_PureJSON(t *testing.T) {
	var out pillarPayload
	raw := `{"pillars":[{"name":"Карьера"}]}`
	if err := ExtractJSON(raw, &out); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(out.Pillars) != 1 || out.Pillars[0].Name != "Карьера" {
		t.Fatalf("неверный разбор: %+v", out)
	}
}

func TestExtractJSON_Fenced(t *testing.T) {
	raw := "Вот результат:\n```json\n{\"pillars\":[{\"name\":\"AI\"}]}\n```\nНадеюсь, помог!"
	var out pillarPayload
	if err := ExtractJSON(raw, &out); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(out.Pillars) != 1 || out.Pillars[0].Name != "AI" {
		t.Fatalf("неверный разбор: %+v", out)
	}
}

func TestExtractJSON_FencedNoLang(t *testing.T) {
	raw := "```\n[1, 2, 3]\n```"
	var out []int
	if err := ExtractJSON(raw, &out); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(out) != 3 || out[2] != 3 {
		t.Fatalf("неверный разбор: %v", out)
	}
}

func TestExtractJSON_Embedded(t *testing.T) {
	raw := `Sure! Here is the analysis you asked for: {"pillars":[{"name":"Leadership"}]} Let me know if you need more.`
	var out pillarPayload
	if err := ExtractJSON(raw, &out); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(out.Pillars) != 1 || out.Pillars[0].Name != "Leadership" {
		t.Fatalf("неверный разбор: %+v", out)
	}
}

func TestExtractJSON_FirstValueOnly(t *testing.T) {
	// Соседние значения не склеиваются: берётся только первое.
	raw := `[1] [2, 3]`
	var out []int
	if err := ExtractJSON(raw, &out); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(out) != 1 || out[0] != 1 {
		t.Fatalf("ожидали первое значение [1], получили %v", out)
	}
}

func TestExtractJSON_NoJSON(t *testing.T) {
	var out pillarPayload
	err := ExtractJSON("извините, не могу помочь", &out)
	if !errors.Is(err, ErrNoJSON) {
		t.Fatalf("ожидали ErrNoJSON, получили %v", err)
	}
}

func TestExtractJSON_Empty(t *testing.T) {
	var out pillarPayload
	if err := ExtractJSON("   ", &out); !errors.Is(err, ErrNoJSON) {
		t.Fatalf("ожидали ErrNoJSON, получили %v", err)
	}
}

func TestExtractJSON_Unbalanced(t *testing.T) {
	var out pillarPayload
	err := ExtractJSON(`{"pillars": [`, &out)
	if !errors.Is(err, ErrNoJSON) {
		t.Fatalf("ожидали ErrNoJSON, получили %v", err)
	}
}
