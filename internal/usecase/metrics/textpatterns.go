package metrics

import (
	"strings"

	"li-insights/internal/domain"
)

// ComputeTextPatterns считает структурные паттерны текста: длину,
// долю постов с призывом, вопросом, списком и зацепкой, а также
// прирост вовлечённости постов с призывом относительно остальных.
func ComputeTextPatterns(posts []domain.Post) domain.TextPatternMetrics {
	if len(posts) == 0 {
		return domain.TextPatternMetrics{}
	}

	var totalWords, totalLines int
	var withCTA, withQuestion, withList, withHook int
	var ctaEng, ctaCount, nonCTAEng, nonCTACount int

	for _, p := range posts {
		totalWords += len(splitWords(p.Text))
		totalLines += len(strings.Split(p.Text, "\n"))

		if ExtractCTA(p.Text) != "" {
			withCTA++
			ctaEng += p.NumLikes + p.NumComments
			ctaCount++
		} else {
			nonCTAEng += p.NumLikes + p.NumComments
			nonCTACount++
		}
		if questionRe.MatchString(p.Text) {
			withQuestion++
		}
		if listLineRe.MatchString(p.Text) {
			withList++
		}
		if ExtractHook(p.Text) != "" {
			withHook++
		}
	}

	avgCTAEng := 0.0
	if ctaCount > 0 {
		avgCTAEng = float64(ctaEng) / float64(ctaCount)
	}
	avgNonCTAEng := 0.0
	if nonCTACount > 0 {
		avgNonCTAEng = float64(nonCTAEng) / float64(nonCTACount)
	}
	lift := 0.0
	if avgNonCTAEng > 0 {
		lift = float64(roundInt((avgCTAEng - avgNonCTAEng) / avgNonCTAEng * 100))
	}

	count := float64(len(posts))
	return domain.TextPatternMetrics{
		AvgWordCount:       float64(roundInt(float64(totalWords) / count)),
		AvgLineCount:       float64(roundInt(float64(totalLines) / count)),
		PostsWithCTA:       withCTA,
		PostsWithQuestions: withQuestion,
		PostsWithLists:     withList,
		PostsWithHook:      withHook,
		CTAEngagementLift:  lift,
	}
}
