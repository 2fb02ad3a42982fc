package metrics

import (
	"sort"
	"strings"

	"li-insights/internal/domain"
)

const wordFrequencyLimit = 25

var stopwords = map[string]struct{}{}

func init() {
	list := []string{
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to",
		"for", "of", "with", "that", "this", "is", "are", "was", "were",
		"be", "been", "being", "have", "has", "had", "do", "does", "did",
		"will", "would", "could", "should", "may", "might", "i", "you",
		"he", "she", "it", "we", "they", "my", "your", "our", "their",
		"its", "me", "him", "her", "us", "them", "what", "how", "when",
		"where", "who", "which", "if", "as", "so", "by", "from", "up",
		"about", "into", "than", "then", "just", "more", "also", "can",
		"all", "not", "no", "there", "here", "get", "got", "like",
		"even", "out", "one", "now", "want", "need", "new", "make",
		"made", "know",
	}
	for _, w := range list {
		stopwords[w] = struct{}{}
	}
}

// ComputeWordFrequency считает частоту содержательных слов по всем
// постам без учёта регистра. Стоп-слова и слова короче трёх символов
// отбрасываются. Возвращаются 25 самых частых; при равной частоте
// раньше идёт слово, встретившееся в коллекции первым.
func ComputeWordFrequency(posts []domain.Post) []domain.WordCount {
	freq := map[string]int{}
	var order []string
	for _, p := range posts {
		for _, w := range contentWords(p.Text) {
			if _, seen := freq[w]; !seen {
				order = append(order, w)
			}
			freq[w]++
		}
	}
	return topWords(freq, order, wordFrequencyLimit)
}

// contentWords возвращает содержательные слова текста в порядке
// появления: нижний регистр, без пунктуации, без стоп-слов.
func contentWords(text string) []string {
	normalized := nonAlnumRe.ReplaceAllString(strings.ToLower(text), " ")
	var out []string
	for _, w := range splitWords(normalized) {
		if len(w) <= 2 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}

// topWords сортирует частоты по убыванию, стабильно относительно
// порядка первого появления, и берёт первые limit.
func topWords(freq map[string]int, order []string, limit int) []domain.WordCount {
	counts := make([]domain.WordCount, 0, len(order))
	for _, w := range order {
		counts = append(counts, domain.WordCount{Word: w, Count: freq[w]})
	}
	sort.SliceStable(counts, func(a, b int) bool { return counts[a].Count > counts[b].Count })
	if limit < len(counts) {
		counts = counts[:limit]
	}
	return counts
}
