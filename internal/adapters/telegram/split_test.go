package telegram

import (
	"strings"
	"testing"
)

func TestSplitMessage_Short(t *testing.T) {
	parts := SplitMessage("  короткий отчёт  ")
	if len(parts) != 1 {
		t.Fatalf("ожидали одну часть, получили %d", len(parts))
	}
	if parts[0] != "короткий отчёт" {
		t.Fatalf("текст не обрезан: %q", parts[0])
	}
}

func TestSplitMessage_Empty(t *testing.T) {
	if parts := SplitMessage("   \n\n  "); parts != nil {
		t.Fatalf("пустой текст должен давать nil, получили %v", parts)
	}
}

func TestSplitMessage_KeepsParagraphsTogether(t *testing.T) {
	para := strings.Repeat("строка\n", 100)
	text := strings.TrimSpace(strings.Repeat(para+"\n", 12))

	parts := SplitMessage(text)
	if len(parts) < 2 {
		t.Fatalf("ожидали разбиение, получили %d частей", len(parts))
	}
	for i, part := range parts {
		if n := len([]rune(part)); n > messageLimit {
			t.Fatalf("часть %d длиннее лимита: %d", i, n)
		}
		if strings.HasPrefix(part, "\n") || strings.HasSuffix(part, "\n") {
			t.Fatalf("часть %d с висячими переводами строк: %q", i, part)
		}
	}
	joined := strings.Join(parts, "\n\n")
	if strings.Count(joined, "строка") != strings.Count(text, "строка") {
		t.Fatal("при разбиении потерялись строки")
	}
}

func TestSplitMessage_LongParagraph(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("очень длинная строка отчёта\n", 400))

	parts := SplitMessage(text)
	if len(parts) < 2 {
		t.Fatalf("ожидали разбиение, получили %d частей", len(parts))
	}
	for i, part := range parts {
		if n := len([]rune(part)); n > messageLimit {
			t.Fatalf("часть %d длиннее лимита: %d", i, n)
		}
	}
}

func TestSplitMessage_SolidLine(t *testing.T) {
	text := strings.Repeat("а", messageLimit+10)

	parts := SplitMessage(text)
	if len(parts) != 2 {
		t.Fatalf("ожидали две части, получили %d", len(parts))
	}
	if n := len([]rune(parts[0])); n != messageLimit {
		t.Fatalf("первая часть должна быть ровно в лимит, получили %d", n)
	}
}
