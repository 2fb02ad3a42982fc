package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"li-insights/internal/domain"
)

// FileSource читает сырые посты из локального JSON-файла. Удобен для
// прогонов без токена Apify и для воспроизведения сохранённых выгрузок.
type FileSource struct {
	path string
}

var _ domain.PostSource = (*FileSource)(nil)

// NewFile создаёт файловый источник.
func NewFile(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch читает файл целиком; profileURL и limit игнорируются,
// усечение выполняет нормализатор.
func (s *FileSource) Fetch(_ context.Context, _ string, _ int) ([]domain.RawPost, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("чтение файла постов %s: %w", s.path, err)
	}
	var items []domain.RawPost
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("разбор файла постов %s: %w", s.path, err)
	}
	return items, nil
}
