package cleaner

import (
	"fmt"
	"strings"
	"time"

	"li-insights/internal/domain"
)

// TypeClassifier выводит формат поста из сырой записи скрейпера.
type TypeClassifier func(raw domain.RawPost) domain.PostType

// DefaultTypeClassifier нормализует тег скрейпера и достраивает формат
// по медиа-полям, когда тег отсутствует.
func DefaultTypeClassifier(raw domain.RawPost) domain.PostType {
	switch strings.TrimSpace(raw.Type) {
	case "text":
		return domain.PostTypeText
	case "image":
		return domain.PostTypeImage
	case "video", "linkedinVideo":
		return domain.PostTypeVideo
	case "document":
		return domain.PostTypeDocument
	case "article":
		return domain.PostTypeArticle
	case "poll":
		return domain.PostTypePoll
	}
	if len(raw.Poll) > 0 {
		return domain.PostTypePoll
	}
	if raw.Document != nil {
		return domain.PostTypeDocument
	}
	if len(raw.Images) > 0 {
		return domain.PostTypeImage
	}
	return domain.PostTypeText
}

// Normalizer превращает сырые записи скрейпера в валидированные посты.
type Normalizer struct {
	classify TypeClassifier
	now      func() time.Time
}

// Option настраивает Normalizer.
type Option func(*Normalizer)

// WithTypeClassifier подменяет классификатор формата поста.
func WithTypeClassifier(fn TypeClassifier) Option {
	return func(n *Normalizer) { n.classify = fn }
}

// WithNow подменяет источник текущего времени.
func WithNow(fn func() time.Time) Option {
	return func(n *Normalizer) { n.now = fn }
}

// New создаёт Normalizer.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{classify: DefaultTypeClassifier, now: time.Now}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize валидирует коллекцию сырых постов, сохраняя исходный порядок.
// Корректные записи никогда не отбрасываются; при превышении лимита
// коллекция усекается с предупреждением. Пустой вход — именованная
// ошибка domain.ErrEmptyInput, а не пустой результат.
func (n *Normalizer) Normalize(raw []domain.RawPost, limit int) ([]domain.Post, []domain.Warning, error) {
	if len(raw) == 0 {
		return nil, nil, domain.ErrEmptyInput
	}

	var warnings []domain.Warning
	total := len(raw)
	if limit > 0 && total > limit {
		// Скрейпер возвращает посты от новых к старым, берём свежие.
		raw = raw[:limit]
		warnings = append(warnings, domain.Warning{
			Kind:    domain.WarnTruncated,
			Message: fmt.Sprintf("коллекция усечена: %d из %d постов", limit, total),
		})
	}

	now := n.now().UTC()
	posts := make([]domain.Post, 0, len(raw))
	invalidTS := 0
	for i, rp := range raw {
		publishedAt, ok := parseTimestamp(rp, now)
		if !ok {
			invalidTS++
		}
		headline := ""
		if rp.Author != nil {
			headline = rp.Author.Occupation
		}
		posts = append(posts, domain.Post{
			ID:             postID(rp, i),
			Type:           n.classify(rp),
			Text:           rp.Text,
			NumLikes:       clampNonNegative(rp.NumLikes),
			NumComments:    clampNonNegative(rp.NumComments),
			NumShares:      clampNonNegative(rp.NumShares),
			PublishedAt:    publishedAt,
			TimestampValid: ok,
			AuthorName:     rp.AuthorName,
			AuthorHeadline: headline,
			URL:            rp.URL,
		})
	}

	if invalidTS > 0 {
		warnings = append(warnings, domain.Warning{
			Kind:    domain.WarnInvalidTimestamps,
			Message: fmt.Sprintf("постов без валидного времени публикации: %d", invalidTS),
		})
	}

	return posts, warnings, nil
}

// parseTimestamp предпочитает миллисекундный таймстемп, затем ISO-строку.
// Будущее время помечается невалидным, подмена значения не выполняется.
func parseTimestamp(rp domain.RawPost, now time.Time) (time.Time, bool) {
	if rp.PostedAtTimestamp > 0 {
		ts := time.UnixMilli(rp.PostedAtTimestamp).UTC()
		if ts.After(now) {
			return ts, false
		}
		return ts, true
	}
	if iso := strings.TrimSpace(rp.PostedAtISO); iso != "" {
		ts, err := time.Parse(time.RFC3339, iso)
		if err != nil {
			return time.Time{}, false
		}
		ts = ts.UTC()
		if ts.After(now) {
			return ts, false
		}
		return ts, true
	}
	return time.Time{}, false
}

func postID(rp domain.RawPost, idx int) string {
	if rp.URN != "" {
		return rp.URN
	}
	if rp.URL != "" {
		return rp.URL
	}
	return fmt.Sprintf("post-%d", idx)
}

func clampNonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
