package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"li-insights/internal/domain"
)

// CachedSource оборачивает источник постов TTL-кэшем. Повторный
// анализ того же профиля в пределах TTL не дергает скрейпер.
type CachedSource struct {
	source domain.PostSource
	cache  domain.Cache
	ttl    time.Duration
	logger zerolog.Logger
}

var _ domain.PostSource = (*CachedSource)(nil)

// NewCached создаёт кэширующую обёртку.
func NewCached(source domain.PostSource, cache domain.Cache, ttl time.Duration, logger zerolog.Logger) *CachedSource {
	return &CachedSource{source: source, cache: cache, ttl: ttl, logger: logger}
}

// Fetch возвращает посты из кэша либо из источника.
func (s *CachedSource) Fetch(ctx context.Context, profileURL string, limit int) ([]domain.RawPost, error) {
	key := fmt.Sprintf("scrape:%s:%d", profileURL, limit)

	if data, err := s.cache.Get(key); err == nil {
		var cached []domain.RawPost
		if unmarshalErr := json.Unmarshal(data, &cached); unmarshalErr != nil {
			s.logger.Warn().Err(unmarshalErr).Str("key", key).Msg("битая запись в кэше, идём в источник")
		} else {
			s.logger.Debug().Str("profile", profileURL).Msg("посты взяты из кэша")
			return cached, nil
		}
	}

	items, err := s.source.Fetch(ctx, profileURL, limit)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(items); err == nil {
		if err := s.cache.Set(key, data, s.ttl); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("не удалось записать посты в кэш")
		}
	}
	return items, nil
}
