package domain

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrEmptyInput возвращается, когда коллекция постов на входе пуста.
var ErrEmptyInput = errors.New("пустая коллекция постов")

// ErrAnalysisNotFound возвращается хранилищем, когда отчёт с таким id
// не найден.
var ErrAnalysisNotFound = errors.New("отчёт не найден")

// PostType описывает формат поста LinkedIn.
type PostType string

const (
	// PostTypeText текстовый пост без вложений.
	PostTypeText PostType = "text"
	// PostTypeImage пост с изображениями.
	PostTypeImage PostType = "image"
	// PostTypeVideo пост с видео.
	PostTypeVideo PostType = "video"
	// PostTypeDocument пост с документом-каруселью.
	PostTypeDocument PostType = "document"
	// PostTypeArticle пост со статьёй.
	PostTypeArticle PostType = "article"
	// PostTypePoll пост с опросом.
	PostTypePoll PostType = "poll"
)

// RawAuthor содержит метаданные автора из скрейпера.
type RawAuthor struct {
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Occupation string `json:"occupation,omitempty"`
}

// RawDocument описывает вложенный документ.
type RawDocument struct {
	CoverPages []string `json:"coverPages,omitempty"`
}

// RawPost представляет запись скрейпера как есть: любые поля могут
// отсутствовать или быть некорректными, неизвестные поля игнорируются.
type RawPost struct {
	Type              string          `json:"type,omitempty"`
	Text              string          `json:"text,omitempty"`
	NumLikes          int             `json:"numLikes,omitempty"`
	NumComments       int             `json:"numComments,omitempty"`
	NumShares         int             `json:"numShares,omitempty"`
	PostedAtTimestamp int64           `json:"postedAtTimestamp,omitempty"`
	PostedAtISO       string          `json:"postedAtISO,omitempty"`
	AuthorName        string          `json:"authorName,omitempty"`
	Author            *RawAuthor      `json:"author,omitempty"`
	Images            []string        `json:"images,omitempty"`
	Document          *RawDocument    `json:"document,omitempty"`
	Poll              json.RawMessage `json:"poll,omitempty"`
	URL               string          `json:"url,omitempty"`
	URN               string          `json:"urn,omitempty"`
}

// Post — нормализованный пост: обязательные поля заполнены, счётчики
// неотрицательны. Некорректные или будущие таймстемпы помечаются флагом
// TimestampValid, но пост остаётся в коллекции.
type Post struct {
	ID             string    `json:"id"`
	Type           PostType  `json:"type"`
	Text           string    `json:"text"`
	NumLikes       int       `json:"numLikes"`
	NumComments    int       `json:"numComments"`
	NumShares      int       `json:"numShares"`
	PublishedAt    time.Time `json:"publishedAt"`
	TimestampValid bool      `json:"timestampValid"`
	AuthorName     string    `json:"authorName"`
	AuthorHeadline string    `json:"authorHeadline"`
	URL            string    `json:"url"`
}

// WeightedEngagement возвращает взвешенную вовлечённость поста.
func (p Post) WeightedEngagement() float64 {
	return float64(p.NumLikes) + 2*float64(p.NumComments) + 3*float64(p.NumShares)
}

// ScoredPost — нормализованный пост с двумя производными оценками.
type ScoredPost struct {
	Index            int     `json:"index"`
	Post             Post    `json:"post"`
	EngagementScore  float64 `json:"engagementScore"`
	AgeAdjustedScore float64 `json:"ageAdjustedScore"`
	Rank             int     `json:"rank"`
	AgeAdjustedRank  int     `json:"ageAdjustedRank"`
}

// WarningKind классифицирует нефатальные проблемы прогона.
type WarningKind string

const (
	// WarnInvalidTimestamps часть постов без валидного времени публикации.
	WarnInvalidTimestamps WarningKind = "invalid_timestamps"
	// WarnTruncated коллекция усечена до лимита.
	WarnTruncated WarningKind = "truncated"
	// WarnGenerationFailure отдельный запрос генерации завершился ошибкой.
	WarnGenerationFailure WarningKind = "generation_failure"
	// WarnConsolidationFallback вид инсайта заменён плейсхолдером.
	WarnConsolidationFallback WarningKind = "consolidation_fallback"
	// WarnNotifyFailure уведомление о готовом отчёте не доставлено.
	WarnNotifyFailure WarningKind = "notify_failure"
)

// Warning — нефатальное предупреждение, прикладывается к результату.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Message string      `json:"message"`
}

// CadenceMetrics описывает частоту публикаций.
type CadenceMetrics struct {
	TotalPosts          int     `json:"totalPosts"`
	PeriodStart         string  `json:"periodStart"`
	PeriodEnd           string  `json:"periodEnd"`
	WeeksCovered        int     `json:"weeksCovered"`
	PostsPerWeek        float64 `json:"postsPerWeek"`
	AvgDaysBetweenPosts float64 `json:"avgDaysBetweenPosts"`
}

// EngagementMetrics агрегирует реакции по коллекции.
type EngagementMetrics struct {
	TotalReactions  int     `json:"totalReactions"`
	TotalComments   int     `json:"totalComments"`
	TotalReposts    int     `json:"totalReposts"`
	AvgReactions    float64 `json:"avgReactions"`
	AvgComments     float64 `json:"avgComments"`
	AvgReposts      float64 `json:"avgReposts"`
	MedianReactions float64 `json:"medianReactions"`
	MedianComments  float64 `json:"medianComments"`
}

// PostTypeStats — статистика по одному формату постов.
type PostTypeStats struct {
	Type         PostType `json:"type"`
	Count        int      `json:"count"`
	Percentage   float64  `json:"percentage"`
	AvgReactions float64  `json:"avgReactions"`
	AvgComments  float64  `json:"avgComments"`
}

// ScheduleMetrics — распределение публикаций по дням недели и часам.
type ScheduleMetrics struct {
	PostsByDay            map[string]int `json:"postsByDay"`
	PostsByHour           map[int]int    `json:"postsByHour"`
	BestDay               string         `json:"bestDay"`
	BestHour              int            `json:"bestHour"`
	HighestEngagementDay  string         `json:"highestEngagementDay"`
	HighestEngagementHour int            `json:"highestEngagementHour"`
}

// TextPatternMetrics — структурные паттерны текста постов.
type TextPatternMetrics struct {
	AvgWordCount       float64 `json:"avgWordCount"`
	AvgLineCount       float64 `json:"avgLineCount"`
	PostsWithCTA       int     `json:"postsWithCTA"`
	PostsWithQuestions int     `json:"postsWithQuestions"`
	PostsWithLists     int     `json:"postsWithLists"`
	PostsWithHook      int     `json:"postsWithHook"`
	CTAEngagementLift  float64 `json:"ctaEngagementLift"`
}

// HookType классифицирует зацепку поста.
type HookType string

const (
	// HookQuestion зацепка-вопрос.
	HookQuestion HookType = "Question"
	// HookNumberList зацепка со списком или числом.
	HookNumberList HookType = "Number/List"
	// HookStatement нейтральное утверждение.
	HookStatement HookType = "Statement"
	// HookStory личная история.
	HookStory HookType = "Story"
	// HookProvocative провокация или срочность.
	HookProvocative HookType = "Provocative"
)

// HookTypeBreakdown — распределение по одному типу зацепок.
type HookTypeBreakdown struct {
	Type         HookType `json:"type"`
	Count        int      `json:"count"`
	Percentage   float64  `json:"percentage"`
	AvgReactions float64  `json:"avgReactions"`
}

// WordCount — слово и его частота.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// HookAnalysis — детерминированный разбор зацепок.
type HookAnalysis struct {
	AvgHookLength float64             `json:"avgHookLength"`
	HookTypes     []HookTypeBreakdown `json:"hookTypes"`
	UrgencyRate   float64             `json:"urgencyRate"`
	TopFirstWords []WordCount         `json:"topFirstWords"`
	TopHookWords  []WordCount         `json:"topHookWords"`
}

// CTAType классифицирует призыв к действию.
type CTAType string

const (
	// CTACommentGated призыв оставить комментарий.
	CTACommentGated CTAType = "Comment-gated"
	// CTAFollow призыв подписаться.
	CTAFollow CTAType = "Follow"
	// CTADM призыв написать в личные сообщения.
	CTADM CTAType = "DM"
	// CTASaveShare призыв сохранить или поделиться.
	CTASaveShare CTAType = "Save/Share"
	// CTALink призыв перейти по ссылке.
	CTALink CTAType = "Link"
	// CTANone призыва нет.
	CTANone CTAType = "None"
)

// CTATypeBreakdown — распределение по одному типу призывов.
type CTATypeBreakdown struct {
	Type         CTAType `json:"type"`
	Count        int     `json:"count"`
	Percentage   float64 `json:"percentage"`
	AvgReactions float64 `json:"avgReactions"`
}

// CTAAnalysis — детерминированный разбор призывов к действию.
type CTAAnalysis struct {
	CTATypes       []CTATypeBreakdown `json:"ctaTypes"`
	TopActionWords []WordCount        `json:"topActionWords"`
	BestCTAType    CTAType            `json:"bestCTAType"`
	NoCTARate      float64            `json:"noCTARate"`
}
