package metrics

import (
	"math"
	"reflect"
	"testing"
	"time"

	"li-insights/internal/domain"
)

func post(likes, comments, shares int, publishedAt time.Time, text string) domain.Post {
	return domain.Post{
		Type:           domain.PostTypeText,
		Text:           text,
		NumLikes:       likes,
		NumComments:    comments,
		NumShares:      shares,
		PublishedAt:    publishedAt,
		TimestampValid: !publishedAt.IsZero(),
	}
}

func TestScoreAndRank_MedianNormalization(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	posts := []domain.Post{
		post(10, 5, 2, base, ""),  // взвешенная вовлечённость 26
		post(20, 0, 0, base, ""),  // 20
		post(4, 0, 0, base, ""),   // 4
	}

	scored := ScoreAndRank(posts)
	// Медиана (4, 20, 26) равна 20, поэтому 26/20 = 1.3.
	if math.Abs(scored[0].EngagementScore-1.3) > 1e-9 {
		t.Fatalf("ожидали оценку 1.3, получили %v", scored[0].EngagementScore)
	}
	if scored[0].Rank != 1 || scored[2].Rank != 3 {
		t.Fatalf("неверные ранги: %d и %d", scored[0].Rank, scored[2].Rank)
	}
}

func TestScoreAndRank_MedianDefaultsToOne(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	posts := []domain.Post{post(0, 0, 0, base, ""), post(0, 0, 0, base, "")}

	scored := ScoreAndRank(posts)
	for _, sp := range scored {
		if sp.EngagementScore != 0 {
			t.Fatalf("при нулевой вовлечённости ожидали 0, получили %v", sp.EngagementScore)
		}
	}
}

func TestScoreAndRank_AgeDecay(t *testing.T) {
	oldest := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	middle := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	newest := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	posts := []domain.Post{
		post(10, 0, 0, oldest, ""),
		post(10, 0, 0, middle, ""),
		post(10, 0, 0, newest, ""),
		{Text: "", NumLikes: 10, TimestampValid: false, Type: domain.PostTypeText},
	}

	scored := ScoreAndRank(posts)
	decay := func(i int) float64 { return scored[i].AgeAdjustedScore / scored[i].EngagementScore }

	if math.Abs(decay(0)-0.5) > 1e-9 {
		t.Fatalf("старейший пост должен получить коэффициент 0.5, получили %v", decay(0))
	}
	if math.Abs(decay(2)-1.0) > 1e-9 {
		t.Fatalf("новейший пост должен получить коэффициент 1.0, получили %v", decay(2))
	}
	if d := decay(1); d <= 0.5 || d >= 1.0 {
		t.Fatalf("промежуточный пост должен попасть в интервал (0.5, 1.0), получили %v", d)
	}
	if math.Abs(decay(3)-1.0) > 1e-9 {
		t.Fatalf("пост без валидного времени должен получить коэффициент 1.0, получили %v", decay(3))
	}
}

func TestScoreAndRank_SingleValidTimestamp(t *testing.T) {
	posts := []domain.Post{post(10, 0, 0, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), "")}
	scored := ScoreAndRank(posts)
	if scored[0].AgeAdjustedScore != scored[0].EngagementScore {
		t.Fatalf("единственный пост не должен получать возрастной штраф: %v", scored[0])
	}
}

func TestComputeAll_Deterministic(t *testing.T) {
	base := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	posts := []domain.Post{
		post(12, 3, 1, base, "Is remote work dead? Here's what I learned after 3 years..."),
		post(40, 10, 2, base.AddDate(0, 0, 3), "5 ways to grow on LinkedIn.\n\nFollow for more."),
		post(7, 1, 0, base.AddDate(0, 0, 9), "I quit my job and built a company.\n\nComment below if you agree"),
	}

	first := ComputeAll(posts)
	second := ComputeAll(posts)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("повторный прогон на том же входе дал другой результат")
	}
}

func TestExtractHook(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"Is remote work dead? Here's what I learned after 3 years...", "Is remote work dead?"},
		{"First line\nSecond line.", "First line"},
		{"No terminal punctuation at all", "No terminal punctuation at all"},
		{"", ""},
		{"Short. Long tail here.", "Short."},
	}
	for _, c := range cases {
		if got := ExtractHook(c.text); got != c.want {
			t.Errorf("ExtractHook(%q) = %q, ожидали %q", c.text, got, c.want)
		}
	}
}

func TestClassifyHookType(t *testing.T) {
	cases := []struct {
		hook string
		want domain.HookType
	}{
		{"Is remote work dead?", domain.HookQuestion},
		{"Why most founders fail.", domain.HookQuestion},
		{"What nobody tells you about burnout.", domain.HookQuestion},
		{"How I built my audience.", domain.HookQuestion},
		{"5 ways to grow on LinkedIn.", domain.HookNumberList},
		{"3. The third lesson", domain.HookNumberList},
		{"I quit my job and built a company.", domain.HookStory},
		{"Unpopular opinion: meetings are fine.", domain.HookProvocative},
		{"Stop doing this mistake.", domain.HookProvocative},
		{"Networking matters.", domain.HookStatement},
	}
	for _, c := range cases {
		if got := ClassifyHookType(c.hook); got != c.want {
			t.Errorf("ClassifyHookType(%q) = %q, ожидали %q", c.hook, got, c.want)
		}
	}
}

func TestExtractCTA(t *testing.T) {
	text := "Big idea up top.\n\nComment below if you agree"
	if got := ExtractCTA(text); got != "Comment below if you agree" {
		t.Fatalf("неверный призыв: %q", got)
	}
	// Последний абзац без лексемы действия призывом не считается.
	if got := ExtractCTA("Hook.\n\nJust a closing thought"); got != "" {
		t.Fatalf("ожидали пустой призыв, получили %q", got)
	}
	// Хвостовые хэштеги отбрасываются до поиска призыва.
	withTags := "Hook.\n\nFollow me for more\n\n#growth #linkedin"
	if got := ExtractCTA(withTags); got != "Follow me for more" {
		t.Fatalf("хэштеги должны отбрасываться, получили %q", got)
	}
}

func TestClassifyCTAType(t *testing.T) {
	cases := []struct {
		cta  string
		want domain.CTAType
	}{
		{"Comment below if you agree", domain.CTACommentGated},
		{"DM me for details", domain.CTADM},
		{"Follow for more", domain.CTAFollow},
		{"Save this for later", domain.CTASaveShare},
		{"Link in the first comment", domain.CTACommentGated}, // comment сильнее link
		{"Check the link", domain.CTALink},
		{"", domain.CTANone},
	}
	for _, c := range cases {
		if got := ClassifyCTAType(c.cta); got != c.want {
			t.Errorf("ClassifyCTAType(%q) = %q, ожидали %q", c.cta, got, c.want)
		}
	}
}

func TestComputeCadence(t *testing.T) {
	posts := []domain.Post{
		post(1, 0, 0, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), ""),
		post(1, 0, 0, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), ""),
		post(1, 0, 0, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), ""),
	}
	c := ComputeCadence(posts)
	if c.TotalPosts != 3 {
		t.Fatalf("неверное число постов: %d", c.TotalPosts)
	}
	if c.PeriodStart != "2024-01-01" || c.PeriodEnd != "2024-01-15" {
		t.Fatalf("неверный период: %s — %s", c.PeriodStart, c.PeriodEnd)
	}
	if c.WeeksCovered != 2 {
		t.Fatalf("ожидали 2 недели, получили %d", c.WeeksCovered)
	}
	if c.AvgDaysBetweenPosts != 7 {
		t.Fatalf("ожидали 7 дней между постами, получили %v", c.AvgDaysBetweenPosts)
	}
}

func TestComputeCadence_NoValidTimestamps(t *testing.T) {
	posts := []domain.Post{{Text: "a"}, {Text: "b"}}
	c := ComputeCadence(posts)
	if c.TotalPosts != 2 || c.WeeksCovered != 0 || c.PeriodStart != "" {
		t.Fatalf("без валидных таймстемпов период должен быть пуст: %+v", c)
	}
}

func TestComputeSchedule(t *testing.T) {
	posts := []domain.Post{
		post(100, 0, 0, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), ""),  // понедельник
		post(10, 0, 0, time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC), ""),   // понедельник
		post(500, 0, 0, time.Date(2024, 1, 3, 18, 0, 0, 0, time.UTC), ""), // среда
		{Text: "без времени"},
	}
	s := ComputeSchedule(posts)
	if s.BestDay != "Monday" {
		t.Fatalf("ожидали Monday, получили %s", s.BestDay)
	}
	if s.BestHour != 9 {
		t.Fatalf("ожидали 9, получили %d", s.BestHour)
	}
	if s.HighestEngagementDay != "Wednesday" {
		t.Fatalf("ожидали Wednesday, получили %s", s.HighestEngagementDay)
	}
	if s.HighestEngagementHour != 18 {
		t.Fatalf("ожидали 18, получили %d", s.HighestEngagementHour)
	}
	if s.PostsByDay["Monday"] != 2 {
		t.Fatalf("неверное распределение по дням: %+v", s.PostsByDay)
	}
}

func TestComputeWordFrequency(t *testing.T) {
	posts := []domain.Post{
		post(0, 0, 0, time.Time{}, "Growth growth GROWTH matters"),
		post(0, 0, 0, time.Time{}, "The and a with matters"),
	}
	freq := ComputeWordFrequency(posts)
	if len(freq) != 2 {
		t.Fatalf("ожидали два слова, получили %v", freq)
	}
	if freq[0].Word != "growth" || freq[0].Count != 3 {
		t.Fatalf("ожидали growth x3 первым, получили %+v", freq[0])
	}
	if freq[1].Word != "matters" || freq[1].Count != 2 {
		t.Fatalf("ожидали matters x2, получили %+v", freq[1])
	}
}

func TestComputePostTypes(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	posts := []domain.Post{
		{Type: domain.PostTypeText, NumLikes: 10, PublishedAt: base, TimestampValid: true},
		{Type: domain.PostTypeText, NumLikes: 20, PublishedAt: base, TimestampValid: true},
		{Type: domain.PostTypeImage, NumLikes: 5, PublishedAt: base, TimestampValid: true},
	}
	stats := ComputePostTypes(posts)
	if len(stats) != 2 || stats[0].Type != domain.PostTypeText {
		t.Fatalf("ожидали text первым: %+v", stats)
	}
	if stats[0].Count != 2 || stats[0].Percentage != 67 || stats[0].AvgReactions != 15 {
		t.Fatalf("неверная статистика text: %+v", stats[0])
	}
}

func TestTopWorstPosts(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	posts := []domain.Post{
		post(1, 0, 0, base, ""),
		post(100, 0, 0, base, ""),
		post(50, 0, 0, base, ""),
		post(2, 0, 0, base, ""),
	}
	scored := ScoreAndRank(posts)

	top := TopPosts(scored, 2)
	if len(top) != 2 || top[0].Index != 1 || top[1].Index != 2 {
		t.Fatalf("неверные лучшие посты: %+v", top)
	}
	worst := WorstPosts(scored, 2)
	if len(worst) != 2 || worst[1].Index != 0 {
		t.Fatalf("неверные худшие посты: %+v", worst)
	}
}

func TestComputeTextPatterns(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	posts := []domain.Post{
		post(10, 2, 0, base, "Is this a question?\n\nComment below if you agree"),
		post(2, 0, 0, base, "- first\n- second\nplain text"),
	}
	tp := ComputeTextPatterns(posts)
	if tp.PostsWithCTA != 1 {
		t.Fatalf("ожидали один пост с призывом, получили %d", tp.PostsWithCTA)
	}
	if tp.PostsWithQuestions != 1 {
		t.Fatalf("ожидали один пост с вопросом, получили %d", tp.PostsWithQuestions)
	}
	if tp.PostsWithLists != 1 {
		t.Fatalf("ожидали один пост со списком, получили %d", tp.PostsWithLists)
	}
	if tp.PostsWithHook != 2 {
		t.Fatalf("ожидали зацепку у обоих постов, получили %d", tp.PostsWithHook)
	}
	if tp.CTAEngagementLift <= 0 {
		t.Fatalf("пост с призывом вовлекает сильнее, lift должен быть положительным: %v", tp.CTAEngagementLift)
	}
}

func TestAnalyzeHooks(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	posts := []domain.Post{
		post(30, 0, 0, base, "Is remote work dead? More text."),
		post(10, 0, 0, base, "Is cold outreach dead? More text."),
		post(5, 0, 0, base, "Networking matters. More text."),
	}
	h := AnalyzeHooks(posts)
	if len(h.HookTypes) != 2 {
		t.Fatalf("ожидали два типа зацепок, получили %+v", h.HookTypes)
	}
	if h.HookTypes[0].Type != domain.HookQuestion || h.HookTypes[0].Count != 2 {
		t.Fatalf("ожидали Question x2 первым: %+v", h.HookTypes[0])
	}
	if h.HookTypes[0].AvgReactions != 20 {
		t.Fatalf("ожидали средние реакции 20, получили %v", h.HookTypes[0].AvgReactions)
	}
	if len(h.TopFirstWords) == 0 || h.TopFirstWords[0].Word != "is" {
		t.Fatalf("ожидали is самым частым первым словом: %+v", h.TopFirstWords)
	}
}

func TestAnalyzeCTAs(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	posts := []domain.Post{
		post(50, 0, 0, base, "Hook.\n\nComment below if you agree"),
		post(10, 0, 0, base, "Hook.\n\nFollow for more"),
		post(1, 0, 0, base, "Hook.\n\nNothing to ask"),
	}
	c := AnalyzeCTAs(posts)
	if c.BestCTAType != domain.CTACommentGated {
		t.Fatalf("ожидали Comment-gated лучшим типом, получили %s", c.BestCTAType)
	}
	if c.NoCTARate != 33 {
		t.Fatalf("ожидали 33%% постов без призыва, получили %v", c.NoCTARate)
	}
	if len(c.TopActionWords) == 0 || c.TopActionWords[0].Word != "comment" {
		t.Fatalf("ожидали comment среди слов действия: %+v", c.TopActionWords)
	}
}
