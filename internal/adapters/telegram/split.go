package telegram

import "strings"

// messageLimit — максимальная длина одного сообщения Bot API в рунах.
const messageLimit = 4096

// SplitMessage режет текст отчёта на части, укладывающиеся в лимит
// Telegram. Режем по границам абзацев, чтобы не рвать HTML-разметку
// секций; абзац длиннее лимита дорезается по строкам.
func SplitMessage(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if len([]rune(trimmed)) <= messageLimit {
		return []string{trimmed}
	}

	var parts []string
	var current []rune
	for _, block := range strings.Split(trimmed, "\n\n") {
		for _, piece := range cutLong(block) {
			runes := []rune(piece)
			switch {
			case len(current) == 0:
				current = runes
			case len(current)+2+len(runes) <= messageLimit:
				current = append(current, '\n', '\n')
				current = append(current, runes...)
			default:
				parts = append(parts, string(current))
				current = runes
			}
		}
	}
	if len(current) > 0 {
		parts = append(parts, string(current))
	}
	return parts
}

// cutLong дорезает абзац, не влезающий в лимит, по переводам строк,
// а совсем длинные строки — посимвольно.
func cutLong(block string) []string {
	runes := []rune(block)
	if len(runes) <= messageLimit {
		return []string{block}
	}

	var pieces []string
	start := 0
	for start < len(runes) {
		end := start + messageLimit
		if end >= len(runes) {
			pieces = append(pieces, string(runes[start:]))
			break
		}
		split := -1
		for i := end; i > start; i-- {
			if runes[i-1] == '\n' {
				split = i
				break
			}
		}
		if split == -1 {
			split = end
		}
		piece := strings.Trim(string(runes[start:split]), "\n")
		if piece != "" {
			pieces = append(pieces, piece)
		}
		start = split
		for start < len(runes) && runes[start] == '\n' {
			start++
		}
	}
	return pieces
}
