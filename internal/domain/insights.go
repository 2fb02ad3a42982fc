package domain

import "time"

// InsightKind — закрытый набор видов AI-инсайтов.
type InsightKind string

const (
	// InsightPillars контентные колонны профиля.
	InsightPillars InsightKind = "pillars"
	// InsightArchetypes архетипы постов.
	InsightArchetypes InsightKind = "archetypes"
	// InsightCategories категория для каждого поста.
	InsightCategories InsightKind = "categories"
	// InsightExecutiveSummary общий вывод по профилю.
	InsightExecutiveSummary InsightKind = "executive_summary"
	// InsightTopWorst разбор лучших и худших постов.
	InsightTopWorst InsightKind = "top_worst"
	// InsightHookStrategy стратегия зацепок.
	InsightHookStrategy InsightKind = "hook_strategy"
	// InsightCTAStrategy стратегия призывов к действию.
	InsightCTAStrategy InsightKind = "cta_strategy"
)

// InsightSource помечает происхождение значения инсайта.
type InsightSource string

const (
	// InsightFromAI значение получено от генеративной модели.
	InsightFromAI InsightSource = "ai"
	// InsightFallback генерация не удалась, подставлен плейсхолдер.
	InsightFallback InsightSource = "fallback"
	// InsightSkipped генерация не запускалась (деградированный режим).
	InsightSkipped InsightSource = "skipped"
)

// EngagementLevel — грубая оценка вовлечённости от модели.
type EngagementLevel string

const (
	// EngagementHigh высокая вовлечённость.
	EngagementHigh EngagementLevel = "high"
	// EngagementMedium средняя вовлечённость.
	EngagementMedium EngagementLevel = "medium"
	// EngagementLow низкая вовлечённость.
	EngagementLow EngagementLevel = "low"
)

// ContentPillar — повторяющаяся тематическая колонна контента.
type ContentPillar struct {
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	PercentageOfPosts float64         `json:"percentageOfPosts"`
	EngagementLevel   EngagementLevel `json:"engagementLevel"`
}

// PostArchetype — повторяющийся структурный шаблон поста.
type PostArchetype struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Count           int             `json:"count"`
	EngagementLevel EngagementLevel `json:"engagementLevel"`
}

// PostCategory — назначенная посту категория.
type PostCategory struct {
	Index    int    `json:"index"`
	Category string `json:"category"`
}

// StrategyPattern — именованный паттерн зацепки или призыва.
type StrategyPattern struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	EngagementLevel EngagementLevel `json:"engagementLevel"`
}

// StrategyExample — пример с привязкой к посту.
type StrategyExample struct {
	Text  string  `json:"text"`
	URL   string  `json:"url"`
	Score float64 `json:"score"`
}

// Strategy — формула с паттернами и лучшими примерами.
type Strategy struct {
	Formula      string            `json:"formula"`
	Patterns     []StrategyPattern `json:"patterns"`
	BestExamples []StrategyExample `json:"bestExamples"`
}

// ExecutiveSummary — итоговый вывод по профилю.
type ExecutiveSummary struct {
	Summary        string `json:"summary"`
	BigOpportunity string `json:"bigOpportunity"`
}

// TopWorstInsight — качественный разбор лучших и худших постов.
type TopWorstInsight struct {
	WhyTopWorks     string   `json:"whyTopWorks"`
	WhyWorstFlops   string   `json:"whyWorstFlops"`
	Recommendations []string `json:"recommendations"`
}

// InsightStatus фиксирует источник значения для одного вида инсайта.
type InsightStatus struct {
	Kind   InsightKind   `json:"kind"`
	Source InsightSource `json:"source"`
}

// AIInsights содержит по одному значению на каждый вид инсайта. Когда
// генерация вида не удалась или пропущена, поле заполнено плейсхолдером,
// а источник помечен в Statuses.
type AIInsights struct {
	Pillars      []ContentPillar  `json:"pillars"`
	Archetypes   []PostArchetype  `json:"archetypes"`
	Categories   []PostCategory   `json:"categories"`
	Executive    ExecutiveSummary `json:"executive"`
	TopWorst     TopWorstInsight  `json:"topWorst"`
	HookStrategy Strategy         `json:"hookStrategy"`
	CTAStrategy  Strategy         `json:"ctaStrategy"`
	Statuses     []InsightStatus  `json:"statuses"`
}

// SourceOf возвращает источник значения для вида инсайта.
func (a AIInsights) SourceOf(kind InsightKind) InsightSource {
	for _, st := range a.Statuses {
		if st.Kind == kind {
			return st.Source
		}
	}
	return InsightSkipped
}

// FullAnalysis — итоговый отчёт: детерминированные метрики плюс
// AI-инсайты. После сборки не изменяется.
type FullAnalysis struct {
	ProfileURL      string    `json:"profileUrl"`
	ProfileName     string    `json:"profileName"`
	ProfileHeadline string    `json:"profileHeadline"`
	AnalyzedAt      time.Time `json:"analyzedAt"`

	Cadence       CadenceMetrics     `json:"cadence"`
	Engagement    EngagementMetrics  `json:"engagement"`
	PostTypes     []PostTypeStats    `json:"postTypes"`
	Schedule      ScheduleMetrics    `json:"schedule"`
	ScoredPosts   []ScoredPost       `json:"scoredPosts"`
	TopPosts      []ScoredPost       `json:"topPosts"`
	WorstPosts    []ScoredPost       `json:"worstPosts"`
	TextPatterns  TextPatternMetrics `json:"textPatterns"`
	WordFrequency []WordCount        `json:"wordFrequency"`
	HookAnalysis  HookAnalysis       `json:"hookAnalysis"`
	CTAAnalysis   CTAAnalysis        `json:"ctaAnalysis"`

	Insights AIInsights `json:"insights"`
	Warnings []Warning  `json:"warnings"`
}

// PostDeconstruction — разбор одного поста: детерминированная часть
// всегда заполнена, AI-часть может отсутствовать.
type PostDeconstruction struct {
	PostURL        string            `json:"postUrl"`
	AuthorName     string            `json:"authorName"`
	AuthorHeadline string            `json:"authorHeadline"`
	AnalyzedAt     time.Time         `json:"analyzedAt"`
	Type           PostType          `json:"type"`
	Text           string            `json:"text"`
	NumLikes       int               `json:"numLikes"`
	NumComments    int               `json:"numComments"`
	NumShares      int               `json:"numShares"`
	Hook           string            `json:"hook"`
	HookType       HookType          `json:"hookType"`
	HookLength     int               `json:"hookLength"`
	CTA            string            `json:"cta"`
	CTAType        CTAType           `json:"ctaType"`
	AI             *DeconstructionAI `json:"ai,omitempty"`
}

// DeconstructionAI — AI-часть разбора одного поста.
type DeconstructionAI struct {
	WhyItWorked      string   `json:"whyItWorked"`
	ContentPillar    string   `json:"contentPillar"`
	Archetype        string   `json:"archetype"`
	HookFormula      string   `json:"hookFormula"`
	CTAFormula       string   `json:"ctaFormula"`
	ReplicationGuide []string `json:"replicationGuide"`
}
