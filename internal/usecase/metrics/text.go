package metrics

import (
	"regexp"
	"strings"

	"li-insights/internal/domain"
)

var (
	urlRe         = regexp.MustCompile(`(?i)https?://\S+`)
	hashtagLineRe = regexp.MustCompile(`^\s*#`)
	listLineRe    = regexp.MustCompile(`(?m)^[→•\-\d]+\.?\s`)

	interrogativeRe = regexp.MustCompile(`(?i)^(why|how|what|when|who|where|which)\b`)

	numberHookRe  = regexp.MustCompile(`^\d+[\s.:]`)
	listPhraseRe  = regexp.MustCompile(`(?i)\b\d+\s+(ways|tips|reasons|steps|mistakes|things)\b`)
	firstPersonRe = regexp.MustCompile(`(?i)\b(i|my|we)\b`)
	narrativeRe   = regexp.MustCompile(`(?i)\b(learned|realized|discovered|made|built|failed|quit|left)\b`)
	urgencyRe     = regexp.MustCompile(`(?i)\b(today|now|stop|never|always|mistake|warning|urgent|immediately|right now|breaking|instantly)\b`)
	contrarianRe  = regexp.MustCompile(`(?i)\b(unpopular opinion|hot take|controversial|most people|everyone|nobody)\b`)

	commentCTARe = regexp.MustCompile(`(?i)\b(comment|drop a|type|reply)\b`)
	dmCTARe      = regexp.MustCompile(`(?i)\b(dm|dms|message me|send me a message)\b`)
	followCTARe  = regexp.MustCompile(`(?i)\bfollow\b`)
	saveCTARe    = regexp.MustCompile(`(?i)\b(save|bookmark|repost|share)\b`)
	linkCTARe    = regexp.MustCompile(`(?i)\blink\b`)
	anyCTARe     = regexp.MustCompile(`(?i)\b(comment|drop a|type|reply|dm|dms|message me|follow|save|bookmark|repost|share|link)\b`)

	questionRe  = regexp.MustCompile(`\?`)
	paragraphRe = regexp.MustCompile(`\n\s*\n`)
	wordsRe     = regexp.MustCompile(`\s+`)
	nonAlnumRe  = regexp.MustCompile(`[^a-z0-9\s]`)
	nonAlphaRe  = regexp.MustCompile(`[^a-z]`)
)

// ExtractHook возвращает зацепку — первое предложение текста: всё до
// первого завершающего знака (включительно) либо до перевода строки,
// смотря что наступит раньше.
func ExtractHook(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}
	for i, r := range trimmed {
		switch r {
		case '.', '!', '?':
			return strings.TrimSpace(trimmed[:i+len(string(r))])
		case '\n':
			return strings.TrimSpace(trimmed[:i])
		}
	}
	return trimmed
}

// ClassifyHookType относит зацепку к одному из пяти типов. Проверки
// идут в фиксированном порядке: вопрос, число или список, личная
// история, провокация, иначе нейтральное утверждение. Вопросом
// считается и зацепка без знака вопроса, начинающаяся с вопросного
// слова.
func ClassifyHookType(hook string) domain.HookType {
	switch {
	case strings.Contains(hook, "?") || interrogativeRe.MatchString(strings.TrimSpace(hook)):
		return domain.HookQuestion
	case numberHookRe.MatchString(strings.TrimSpace(hook)) || listPhraseRe.MatchString(hook):
		return domain.HookNumberList
	case firstPersonRe.MatchString(hook) && narrativeRe.MatchString(hook):
		return domain.HookStory
	case urgencyRe.MatchString(hook) || contrarianRe.MatchString(hook):
		return domain.HookProvocative
	default:
		return domain.HookStatement
	}
}

// ExtractCTA возвращает призыв к действию — последний абзац текста,
// если в нём есть хотя бы одна лексема действия. Ссылки вырезаются,
// хвостовые строки из хэштегов отбрасываются. Без лексемы действия
// призыв считается отсутствующим и возвращается пустая строка.
func ExtractCTA(text string) string {
	cleaned := urlRe.ReplaceAllString(text, "")
	cleaned = dropTrailingHashtags(cleaned)
	if cleaned == "" {
		return ""
	}
	last := lastParagraph(cleaned)
	if last == "" || !anyCTARe.MatchString(last) {
		return ""
	}
	return last
}

// ClassifyCTAType относит призыв к типу по совпавшей лексеме. При
// нескольких совпадениях действует фиксированный приоритет:
// Comment-gated, DM, Follow, Save/Share, Link.
func ClassifyCTAType(cta string) domain.CTAType {
	if strings.TrimSpace(cta) == "" {
		return domain.CTANone
	}
	switch {
	case commentCTARe.MatchString(cta):
		return domain.CTACommentGated
	case dmCTARe.MatchString(cta):
		return domain.CTADM
	case followCTARe.MatchString(cta):
		return domain.CTAFollow
	case saveCTARe.MatchString(cta):
		return domain.CTASaveShare
	case linkCTARe.MatchString(cta):
		return domain.CTALink
	default:
		return domain.CTANone
	}
}

func dropTrailingHashtags(text string) string {
	lines := strings.Split(text, "\n")
	for len(lines) > 0 {
		last := lines[len(lines)-1]
		if strings.TrimSpace(last) == "" || hashtagLineRe.MatchString(last) {
			lines = lines[:len(lines)-1]
			continue
		}
		break
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// lastParagraph возвращает последний абзац — блок после последней
// пустой строки. В тексте без пустых строк абзацем считается
// последняя строка.
func lastParagraph(text string) string {
	blocks := paragraphRe.Split(strings.TrimSpace(text), -1)
	for i := len(blocks) - 1; i >= 0; i-- {
		b := strings.TrimSpace(blocks[i])
		if b == "" {
			continue
		}
		if i == 0 && len(blocks) == 1 && strings.Contains(b, "\n") {
			lines := strings.Split(b, "\n")
			return strings.TrimSpace(lines[len(lines)-1])
		}
		return b
	}
	return ""
}

func splitWords(text string) []string {
	var out []string
	for _, w := range wordsRe.Split(strings.TrimSpace(text), -1) {
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}
