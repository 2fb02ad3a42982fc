package insights

import (
	"context"
	"sync"
)

// outcome — результат одного конкурентного вызова с его порядковым
// номером. Слайс результатов всегда упорядочен по номеру, а не по
// времени завершения.
type outcome[T any] struct {
	idx int
	val T
	err error
}

// fanOut запускает n вызовов конкурентно и ждёт завершения всех.
// Ошибки отдельных вызовов не прерывают остальные.
func fanOut[T any](ctx context.Context, n int, call func(ctx context.Context, idx int) (T, error)) []outcome[T] {
	results := make([]outcome[T], n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			val, err := call(ctx, idx)
			results[idx] = outcome[T]{idx: idx, val: val, err: err}
		}(i)
	}
	wg.Wait()
	return results
}

// partition режет посты на куски по size элементов, сохраняя порядок.
func partition[T any](items []T, size int) [][]T {
	if size <= 0 || len(items) == 0 {
		return nil
	}
	var chunks [][]T
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}
