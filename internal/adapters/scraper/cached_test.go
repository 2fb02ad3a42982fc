package scraper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"li-insights/internal/domain"
)

type stubSource struct {
	items []domain.RawPost
	err   error
	calls int
}

func (s *stubSource) Fetch(context.Context, string, int) ([]domain.RawPost, error) {
	s.calls++
	return s.items, s.err
}

type memCache struct {
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Set(key string, value []byte, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *memCache) Get(key string) ([]byte, error) {
	v, ok := c.data[key]
	if !ok {
		return nil, errors.New("нет ключа")
	}
	return v, nil
}

func TestCachedSource_SecondFetchFromCache(t *testing.T) {
	src := &stubSource{items: []domain.RawPost{{Text: "пост"}}}
	cached := NewCached(src, newMemCache(), time.Hour, zerolog.Nop())

	first, err := cached.Fetch(context.Background(), "https://www.linkedin.com/in/x/", 50)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	second, err := cached.Fetch(context.Background(), "https://www.linkedin.com/in/x/", 50)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if src.calls != 1 {
		t.Fatalf("ожидали единственный вызов источника, получили %d", src.calls)
	}
	if len(first) != 1 || len(second) != 1 || second[0].Text != "пост" {
		t.Fatalf("содержимое кэша не совпадает: %v vs %v", first, second)
	}
}

func TestCachedSource_DifferentLimitMisses(t *testing.T) {
	src := &stubSource{items: []domain.RawPost{{Text: "пост"}}}
	cached := NewCached(src, newMemCache(), time.Hour, zerolog.Nop())

	if _, err := cached.Fetch(context.Background(), "https://www.linkedin.com/in/x/", 50); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if _, err := cached.Fetch(context.Background(), "https://www.linkedin.com/in/x/", 10); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if src.calls != 2 {
		t.Fatalf("другой limit должен идти мимо кэша, вызовов: %d", src.calls)
	}
}

func TestCachedSource_SourceError(t *testing.T) {
	src := &stubSource{err: errors.New("актор упал")}
	cached := NewCached(src, newMemCache(), time.Hour, zerolog.Nop())

	if _, err := cached.Fetch(context.Background(), "https://www.linkedin.com/in/x/", 50); err == nil {
		t.Fatal("ожидали ошибку источника")
	}
}

func TestUsernameFromURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://www.linkedin.com/in/jane-doe/", "jane-doe"},
		{"https://www.linkedin.com/in/jane-doe", "jane-doe"},
		{"https://www.linkedin.com/company/acme/", "acme"},
		{"jane-doe", "jane-doe"},
	}
	for _, c := range cases {
		if got := usernameFromURL(c.in); got != c.want {
			t.Errorf("usernameFromURL(%q) = %q, ожидали %q", c.in, got, c.want)
		}
	}
}
