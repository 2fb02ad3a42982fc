package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"li-insights/internal/domain"
	"li-insights/internal/infra/metrics"
)

const defaultAPIBase = "https://api.apify.com"

// ApifyClient выгружает посты профиля LinkedIn через актора Apify.
// Используется синхронный запуск run-sync-get-dataset-items: один
// HTTP-вызов возвращает сразу элементы датасета.
type ApifyClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
	actorID    string
}

var _ domain.PostSource = (*ApifyClient)(nil)

// NewApify создаёт клиент скрейпера.
func NewApify(token, actorID string, timeout time.Duration) *ApifyClient {
	if timeout <= 0 {
		timeout = 300 * time.Second
	}
	return &ApifyClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultAPIBase,
		token:      token,
		actorID:    actorID,
	}
}

type actorInput struct {
	Username    string `json:"username"`
	PageNumber  int    `json:"page_number"`
	TotalPosts  int    `json:"total_posts"`
	ProfileURL  string `json:"profile_url,omitempty"`
}

// Fetch запускает актора и возвращает сырые посты. limit передаётся
// актору как ориентир, финальное усечение делает нормализатор.
func (c *ApifyClient) Fetch(ctx context.Context, profileURL string, limit int) ([]domain.RawPost, error) {
	start := time.Now()
	items, err := c.fetch(ctx, profileURL, limit)
	metrics.ObserveNetworkRequest("scraper", "fetch_posts", "apify", start, err)
	if err != nil {
		metrics.ScrapeErrors.Inc()
		return nil, err
	}
	return items, nil
}

func (c *ApifyClient) fetch(ctx context.Context, profileURL string, limit int) ([]domain.RawPost, error) {
	input := actorInput{
		Username:   usernameFromURL(profileURL),
		PageNumber: 1,
		TotalPosts: limit,
		ProfileURL: profileURL,
	}
	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("apify: сериализация входа: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/acts/%s/run-sync-get-dataset-items?token=%s",
		c.baseURL, url.PathEscape(c.actorID), url.QueryEscape(c.token))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("apify: создание запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("apify: запрос актора: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("apify: чтение ответа: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("apify: статус %d: %s", resp.StatusCode, truncateBody(data))
	}

	var items []domain.RawPost
	if err := json.Unmarshal(data, &items); err != nil {
		// Некоторые акторы заворачивают элементы в объект с полем items.
		var wrapped struct {
			Items []domain.RawPost `json:"items"`
		}
		if errWrapped := json.Unmarshal(data, &wrapped); errWrapped != nil {
			return nil, fmt.Errorf("apify: разбор ответа: %w", err)
		}
		items = wrapped.Items
	}
	return items, nil
}

// usernameFromURL достаёт хэндл из ссылки вида
// https://www.linkedin.com/in/<handle>/. Если разобрать не удалось,
// возвращается вся строка: актор принимает и полную ссылку.
func usernameFromURL(profileURL string) string {
	u, err := url.Parse(profileURL)
	if err != nil || u.Path == "" {
		return profileURL
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, p := range parts {
		if (p == "in" || p == "company") && i+1 < len(parts) && parts[i+1] != "" {
			return parts[i+1]
		}
	}
	if last := parts[len(parts)-1]; last != "" {
		return last
	}
	return profileURL
}

func truncateBody(b []byte) string {
	const max = 200
	if len(b) <= max {
		return string(b)
	}
	return string(b[:max]) + "..."
}
