package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON означает, что в ответе модели не нашлось ни одного
// корректного JSON-значения.
var ErrNoJSON = errors.New("в ответе модели нет JSON")

// ExtractJSON достаёт первое JSON-значение из ответа модели и
// декодирует его в out. Модели часто оборачивают JSON в markdown-блок
// или сопровождают пояснительным текстом, поэтому порядок такой:
// строгий разбор всего ответа, затем содержимое блока ```...```,
// затем первое сбалансированное значение начиная с '{' или '['.
func ExtractJSON(raw string, out any) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ErrNoJSON
	}
	if err := strictUnmarshal(trimmed, out); err == nil {
		return nil
	}
	if fenced, ok := stripFence(trimmed); ok {
		if err := strictUnmarshal(fenced, out); err == nil {
			return nil
		}
	}
	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] != '{' && trimmed[i] != '[' {
			continue
		}
		if err := decodeFirstValue(trimmed[i:], out); err == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrNoJSON, preview(trimmed))
}

func strictUnmarshal(s string, out any) error {
	return json.Unmarshal([]byte(s), out)
}

// stripFence снимает обрамление ```json ... ``` или ``` ... ```.
func stripFence(s string) (string, bool) {
	if !strings.HasPrefix(s, "```") {
		return "", false
	}
	body := s[3:]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		lang := strings.TrimSpace(body[:nl])
		if lang == "" || strings.EqualFold(lang, "json") {
			body = body[nl+1:]
		}
	}
	end := strings.LastIndex(body, "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(body[:end]), true
}

// decodeFirstValue декодирует ровно одно JSON-значение с начала строки,
// игнорируя хвост после него. Соседние значения не склеиваются.
func decodeFirstValue(s string, out any) error {
	dec := json.NewDecoder(strings.NewReader(s))
	return dec.Decode(out)
}

func preview(s string) string {
	const max = 120
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
