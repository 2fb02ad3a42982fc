package insights

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"li-insights/internal/adapters/llm"
	"li-insights/internal/domain"
	"li-insights/internal/usecase/metrics"
)

const systemPrompt = "You are a senior LinkedIn content strategist. You answer with valid JSON only, no markdown and no commentary."

// Input — данные одного прогона, доступные всем видам инсайтов.
// Коллекция только читается и безопасна для конкурентного доступа.
type Input struct {
	Posts  []domain.Post
	Scored []domain.ScoredPost
}

// chunkedKind — вид инсайта, работающий через извлечение кандидатов
// по кускам и один консолидирующий вызов.
type chunkedKind struct {
	kind              domain.InsightKind
	chunkPrompt       func(chunk []domain.Post, offset int) string
	consolidatePrompt func(candidates []string, in Input) string
	apply             func(raw string, in Input, out *domain.AIInsights) error
	fallback          func(in Input, out *domain.AIInsights)
}

// wholeKind — вид инсайта с единственным вызовом по всей коллекции.
type wholeKind struct {
	kind     domain.InsightKind
	prompt   func(in Input) string
	apply    func(raw string, in Input, out *domain.AIInsights) error
	fallback func(in Input, out *domain.AIInsights)
}

var (
	urlRe        = regexp.MustCompile(`(?i)https?://\S+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// cleanForLLM убирает ссылки и схлопывает пробелы, чтобы не тратить
// токены на служебный текст.
func cleanForLLM(text string) string {
	cleaned := urlRe.ReplaceAllString(text, "")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(cleaned, " "))
}

// chunkContext собирает текстовый контекст куска. Индексы глобальные,
// чтобы назначения категорий ссылались на исходную коллекцию.
func chunkContext(chunk []domain.Post, offset int) string {
	var b strings.Builder
	for i, p := range chunk {
		fmt.Fprintf(&b, "--- Post %d (%s, %d likes, %d comments) ---\n%s\n\n",
			offset+i, p.Type, p.NumLikes, p.NumComments, cleanForLLM(p.Text))
	}
	return b.String()
}

// topContext строит JSON-таблицу лучших постов по возрастной оценке:
// зацепка, призыв и реакции каждого.
func topContext(in Input, limit int) string {
	sorted := make([]domain.ScoredPost, len(in.Scored))
	copy(sorted, in.Scored)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].AgeAdjustedScore > sorted[b].AgeAdjustedScore
	})
	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}

	type row struct {
		Index    int     `json:"index"`
		URL      string  `json:"url"`
		Hook     string  `json:"hook"`
		CTA      string  `json:"cta"`
		Likes    int     `json:"likes"`
		Comments int     `json:"comments"`
		Shares   int     `json:"shares"`
		Score    float64 `json:"score"`
	}
	rows := make([]row, 0, len(sorted))
	for _, sp := range sorted {
		rows = append(rows, row{
			Index:    sp.Index,
			URL:      sp.Post.URL,
			Hook:     metrics.ExtractHook(sp.Post.Text),
			CTA:      metrics.ExtractCTA(sp.Post.Text),
			Likes:    sp.Post.NumLikes,
			Comments: sp.Post.NumComments,
			Shares:   sp.Post.NumShares,
			Score:    sp.AgeAdjustedScore,
		})
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func normalizeLevel(raw string) domain.EngagementLevel {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "high":
		return domain.EngagementHigh
	case "low":
		return domain.EngagementLow
	default:
		return domain.EngagementMedium
	}
}

// chunkedKinds — три вида, проходящие через фазу кусков.
func chunkedKinds() []chunkedKind {
	return []chunkedKind{pillarsKind(), archetypesKind(), categoriesKind()}
}

// wholeKinds — четыре вида, работающие по всей коллекции сразу.
func wholeKinds() []wholeKind {
	return []wholeKind{executiveKind(), topWorstKind(), hookStrategyKind(), ctaStrategyKind()}
}

func pillarsKind() chunkedKind {
	return chunkedKind{
		kind: domain.InsightPillars,
		chunkPrompt: func(chunk []domain.Post, offset int) string {
			return fmt.Sprintf(`Analyze these %d LinkedIn posts and identify recurring content pillars (thematic topic buckets).
Weight your analysis toward posts with higher likes/comments.

Posts:
%s
Return ONLY a JSON object:
{"pillars": [{"name": "AI Automation", "description": "why this topic drives engagement"}, ...]}`,
				len(chunk), chunkContext(chunk, offset))
		},
		consolidatePrompt: func(candidates []string, in Input) string {
			return fmt.Sprintf(`Consolidate content-pillar candidates extracted from chunks of one LinkedIn profile (%d posts total).
Merge duplicates and synonyms into the strongest version. Return exactly 3-5 pillars.

Candidates:
%s

Return ONLY a JSON object:
{"pillars": [{"name": "...", "description": "...", "percentageOfPosts": 40, "engagementLevel": "high|medium|low"}, ...]}`,
				len(in.Posts), strings.Join(candidates, "\n"))
		},
		apply: func(raw string, _ Input, out *domain.AIInsights) error {
			var payload struct {
				Pillars []struct {
					Name              string  `json:"name"`
					Description       string  `json:"description"`
					PercentageOfPosts float64 `json:"percentageOfPosts"`
					EngagementLevel   string  `json:"engagementLevel"`
				} `json:"pillars"`
			}
			if err := llm.ExtractJSON(raw, &payload); err != nil {
				return err
			}
			if len(payload.Pillars) == 0 {
				return fmt.Errorf("модель не вернула ни одной колонны")
			}
			pillars := make([]domain.ContentPillar, 0, len(payload.Pillars))
			for _, p := range payload.Pillars {
				name := strings.TrimSpace(p.Name)
				if name == "" {
					continue
				}
				pillars = append(pillars, domain.ContentPillar{
					Name:              name,
					Description:       strings.TrimSpace(p.Description),
					PercentageOfPosts: p.PercentageOfPosts,
					EngagementLevel:   normalizeLevel(p.EngagementLevel),
				})
			}
			if len(pillars) == 0 {
				return fmt.Errorf("все колонны оказались пустыми")
			}
			out.Pillars = pillars
			return nil
		},
		fallback: func(_ Input, out *domain.AIInsights) {
			out.Pillars = fallbackPillars()
		},
	}
}

func fallbackPillars() []domain.ContentPillar {
	return []domain.ContentPillar{{
		Name:              "General",
		Description:       "Content analysis",
		PercentageOfPosts: 100,
		EngagementLevel:   domain.EngagementMedium,
	}}
}

func archetypesKind() chunkedKind {
	return chunkedKind{
		kind: domain.InsightArchetypes,
		chunkPrompt: func(chunk []domain.Post, offset int) string {
			return fmt.Sprintf(`Analyze these %d LinkedIn posts and identify recurring post archetypes (structural formats such as Listicle, Personal Story, Hot Take).

Posts:
%s
Return ONLY a JSON object:
{"archetypes": [{"name": "Listicle", "description": "why this format converts"}, ...]}`,
				len(chunk), chunkContext(chunk, offset))
		},
		consolidatePrompt: func(candidates []string, in Input) string {
			return fmt.Sprintf(`Consolidate post-archetype candidates extracted from chunks of one LinkedIn profile (%d posts total).
Merge duplicates. Return exactly 3-4 archetypes with an estimated post count each.

Candidates:
%s

Return ONLY a JSON object:
{"archetypes": [{"name": "...", "description": "...", "count": 12, "engagementLevel": "high|medium|low"}, ...]}`,
				len(in.Posts), strings.Join(candidates, "\n"))
		},
		apply: func(raw string, _ Input, out *domain.AIInsights) error {
			var payload struct {
				Archetypes []struct {
					Name            string `json:"name"`
					Description     string `json:"description"`
					Count           int    `json:"count"`
					EngagementLevel string `json:"engagementLevel"`
				} `json:"archetypes"`
			}
			if err := llm.ExtractJSON(raw, &payload); err != nil {
				return err
			}
			archetypes := make([]domain.PostArchetype, 0, len(payload.Archetypes))
			for _, a := range payload.Archetypes {
				name := strings.TrimSpace(a.Name)
				if name == "" {
					continue
				}
				archetypes = append(archetypes, domain.PostArchetype{
					Name:            name,
					Description:     strings.TrimSpace(a.Description),
					Count:           a.Count,
					EngagementLevel: normalizeLevel(a.EngagementLevel),
				})
			}
			if len(archetypes) == 0 {
				return fmt.Errorf("модель не вернула ни одного архетипа")
			}
			out.Archetypes = archetypes
			return nil
		},
		fallback: func(in Input, out *domain.AIInsights) {
			out.Archetypes = fallbackArchetypes(len(in.Posts))
		},
	}
}

func fallbackArchetypes(totalPosts int) []domain.PostArchetype {
	return []domain.PostArchetype{{
		Name:            "General",
		Description:     "Post analysis",
		Count:           totalPosts,
		EngagementLevel: domain.EngagementMedium,
	}}
}

func categoriesKind() chunkedKind {
	return chunkedKind{
		kind: domain.InsightCategories,
		chunkPrompt: func(chunk []domain.Post, offset int) string {
			return fmt.Sprintf(`Assign each of these %d LinkedIn posts to ONE short topical category.
Use the exact index numbers %d to %d shown below.

Posts:
%s
Return ONLY a JSON object:
{"assignments": [{"index": %d, "category": "AI Automation"}, ...]}`,
				len(chunk), offset, offset+len(chunk)-1, chunkContext(chunk, offset), offset)
		},
		consolidatePrompt: func(candidates []string, in Input) string {
			return fmt.Sprintf(`These post-category assignments were produced independently for chunks of one LinkedIn profile (%d posts, indexes 0 to %d).
Unify the category naming: merge synonyms and near-duplicates into one canonical name, keep every index.

Assignments:
%s

Return ONLY a JSON object with the full unified list:
{"assignments": [{"index": 0, "category": "..."}, ...]}`,
				len(in.Posts), len(in.Posts)-1, strings.Join(candidates, "\n"))
		},
		apply: func(raw string, in Input, out *domain.AIInsights) error {
			var payload struct {
				Assignments []struct {
					Index    int    `json:"index"`
					Category string `json:"category"`
				} `json:"assignments"`
			}
			if err := llm.ExtractJSON(raw, &payload); err != nil {
				return err
			}
			if len(payload.Assignments) == 0 {
				return fmt.Errorf("модель не вернула ни одного назначения")
			}
			byIndex := map[int]string{}
			for _, a := range payload.Assignments {
				category := strings.TrimSpace(a.Category)
				if a.Index < 0 || a.Index >= len(in.Posts) || category == "" {
					continue
				}
				byIndex[a.Index] = category
			}
			categories := make([]domain.PostCategory, len(in.Posts))
			for i := range in.Posts {
				category, ok := byIndex[i]
				if !ok {
					category = "General"
				}
				categories[i] = domain.PostCategory{Index: i, Category: category}
			}
			out.Categories = categories
			return nil
		},
		fallback: func(in Input, out *domain.AIInsights) {
			out.Categories = fallbackCategories(len(in.Posts))
		},
	}
}

func fallbackCategories(totalPosts int) []domain.PostCategory {
	categories := make([]domain.PostCategory, totalPosts)
	for i := range categories {
		categories[i] = domain.PostCategory{Index: i, Category: "General"}
	}
	return categories
}

func executiveKind() wholeKind {
	return wholeKind{
		kind: domain.InsightExecutiveSummary,
		prompt: func(in Input) string {
			return fmt.Sprintf(`You are consolidating a LinkedIn profile analysis (%d posts). Your tone is sharp, opinionated and ROI-focused.

Top performing posts (hook, CTA, reactions, age-adjusted score):
%s

Return ONLY a JSON object:
{"summary": "3-4 opinionated sentences: what this creator does that most people do not, the strategic moat, the quantified edge",
 "bigOpportunity": "2-3 sentences naming the single biggest untapped opportunity"}`,
				len(in.Posts), topContext(in, 40))
		},
		apply: func(raw string, _ Input, out *domain.AIInsights) error {
			var payload struct {
				Summary        string `json:"summary"`
				BigOpportunity string `json:"bigOpportunity"`
			}
			if err := llm.ExtractJSON(raw, &payload); err != nil {
				return err
			}
			if strings.TrimSpace(payload.Summary) == "" {
				return fmt.Errorf("модель вернула пустой вывод")
			}
			out.Executive = domain.ExecutiveSummary{
				Summary:        strings.TrimSpace(payload.Summary),
				BigOpportunity: strings.TrimSpace(payload.BigOpportunity),
			}
			return nil
		},
		fallback: func(_ Input, out *domain.AIInsights) {
			out.Executive = fallbackExecutive()
		},
	}
}

func fallbackExecutive() domain.ExecutiveSummary {
	return domain.ExecutiveSummary{Summary: "Analysis unavailable"}
}

func topWorstKind() wholeKind {
	return wholeKind{
		kind: domain.InsightTopWorst,
		prompt: func(in Input) string {
			top := metrics.TopPosts(in.Scored, 5)
			worst := metrics.WorstPosts(in.Scored, 5)
			return fmt.Sprintf(`Compare the best and worst performing posts of one LinkedIn profile.

Best posts:
%s
Worst posts:
%s
Return ONLY a JSON object:
{"whyTopWorks": "2-3 sentences", "whyWorstFlops": "2-3 sentences", "recommendations": ["...", "..."]}`,
				scoredContext(top), scoredContext(worst))
		},
		apply: func(raw string, _ Input, out *domain.AIInsights) error {
			var payload struct {
				WhyTopWorks     string   `json:"whyTopWorks"`
				WhyWorstFlops   string   `json:"whyWorstFlops"`
				Recommendations []string `json:"recommendations"`
			}
			if err := llm.ExtractJSON(raw, &payload); err != nil {
				return err
			}
			if strings.TrimSpace(payload.WhyTopWorks) == "" && strings.TrimSpace(payload.WhyWorstFlops) == "" {
				return fmt.Errorf("модель вернула пустой разбор")
			}
			out.TopWorst = domain.TopWorstInsight{
				WhyTopWorks:     strings.TrimSpace(payload.WhyTopWorks),
				WhyWorstFlops:   strings.TrimSpace(payload.WhyWorstFlops),
				Recommendations: payload.Recommendations,
			}
			return nil
		},
		fallback: func(_ Input, out *domain.AIInsights) {
			out.TopWorst = fallbackTopWorst()
		},
	}
}

func fallbackTopWorst() domain.TopWorstInsight {
	return domain.TopWorstInsight{
		WhyTopWorks:   "Analysis unavailable",
		WhyWorstFlops: "Analysis unavailable",
	}
}

func hookStrategyKind() wholeKind {
	return wholeKind{
		kind: domain.InsightHookStrategy,
		prompt: func(in Input) string {
			return fmt.Sprintf(`Synthesize the hook strategy of one LinkedIn profile (%d posts).

Hook and CTA data of the top posts:
%s

Return ONLY a JSON object:
{"formula": "one punchy sentence summarizing the hook formula",
 "patterns": [{"name": "Money Hook", "description": "why it stops the scroll", "engagementLevel": "high|medium|low"}, ...],
 "bestExamples": [{"text": "the hook text", "url": "https://...", "score": 3.2}, ...]}`,
				len(in.Posts), topContext(in, 40))
		},
		apply: func(raw string, _ Input, out *domain.AIInsights) error {
			strategy, err := parseStrategy(raw)
			if err != nil {
				return err
			}
			out.HookStrategy = strategy
			return nil
		},
		fallback: func(_ Input, out *domain.AIInsights) {
			out.HookStrategy = fallbackStrategy()
		},
	}
}

func ctaStrategyKind() wholeKind {
	return wholeKind{
		kind: domain.InsightCTAStrategy,
		prompt: func(in Input) string {
			return fmt.Sprintf(`Synthesize the call-to-action strategy of one LinkedIn profile (%d posts).

Hook and CTA data of the top posts:
%s

Return ONLY a JSON object:
{"formula": "one punchy sentence summarizing the CTA formula",
 "patterns": [{"name": "Comment-gated", "description": "why it drives algorithmic reach", "engagementLevel": "high|medium|low"}, ...],
 "bestExamples": [{"text": "the CTA text", "url": "https://...", "score": 2.8}, ...]}`,
				len(in.Posts), topContext(in, 40))
		},
		apply: func(raw string, _ Input, out *domain.AIInsights) error {
			strategy, err := parseStrategy(raw)
			if err != nil {
				return err
			}
			out.CTAStrategy = strategy
			return nil
		},
		fallback: func(_ Input, out *domain.AIInsights) {
			out.CTAStrategy = fallbackStrategy()
		},
	}
}

func fallbackStrategy() domain.Strategy {
	return domain.Strategy{Formula: "Analysis unavailable"}
}

func parseStrategy(raw string) (domain.Strategy, error) {
	var payload struct {
		Formula  string `json:"formula"`
		Patterns []struct {
			Name            string `json:"name"`
			Description     string `json:"description"`
			EngagementLevel string `json:"engagementLevel"`
		} `json:"patterns"`
		BestExamples []struct {
			Text  string  `json:"text"`
			URL   string  `json:"url"`
			Score float64 `json:"score"`
		} `json:"bestExamples"`
	}
	if err := llm.ExtractJSON(raw, &payload); err != nil {
		return domain.Strategy{}, err
	}
	if strings.TrimSpace(payload.Formula) == "" {
		return domain.Strategy{}, fmt.Errorf("модель вернула пустую формулу")
	}
	strategy := domain.Strategy{Formula: strings.TrimSpace(payload.Formula)}
	for _, p := range payload.Patterns {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		strategy.Patterns = append(strategy.Patterns, domain.StrategyPattern{
			Name:            name,
			Description:     strings.TrimSpace(p.Description),
			EngagementLevel: normalizeLevel(p.EngagementLevel),
		})
	}
	for _, e := range payload.BestExamples {
		text := strings.TrimSpace(e.Text)
		if text == "" {
			continue
		}
		strategy.BestExamples = append(strategy.BestExamples, domain.StrategyExample{
			Text:  text,
			URL:   strings.TrimSpace(e.URL),
			Score: e.Score,
		})
	}
	return strategy, nil
}

// scoredContext печатает посты с оценками для сравнительного промпта.
func scoredContext(scored []domain.ScoredPost) string {
	var b strings.Builder
	for _, sp := range scored {
		fmt.Fprintf(&b, "--- Post %d (score %.2f, %d likes, %d comments) ---\n%s\n\n",
			sp.Index, sp.EngagementScore, sp.Post.NumLikes, sp.Post.NumComments, cleanForLLM(sp.Post.Text))
	}
	return b.String()
}
