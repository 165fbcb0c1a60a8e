package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/readraise/insights/internal/model"
)

// Fixed confidence scores per recommendation type. Heuristic weights, not
// learned.
const (
	confidenceSimilar    = 0.85
	confidenceLevelMatch = 0.7
	confidenceAdjacent   = 0.6

	maxRecommendations = 3
)

// genreAdjacency maps each genre to its neighbours in preference order. Used
// to pick "similar" and "adjacent" recommendations relative to the user's
// top genre.
var genreAdjacency = map[string][]string{
	"adventure":       {"fantasy", "mystery", "travel"},
	"biography":       {"history", "memoir", "culture"},
	"culture":         {"travel", "history", "biography"},
	"fantasy":         {"adventure", "mythology", "science fiction"},
	"health":          {"science", "sports", "nature"},
	"history":         {"biography", "culture", "mythology"},
	"memoir":          {"biography", "culture", "travel"},
	"mystery":         {"adventure", "science fiction", "fantasy"},
	"mythology":       {"fantasy", "history", "culture"},
	"nature":          {"science", "travel", "health"},
	"science":         {"nature", "technology", "health"},
	"science fiction": {"fantasy", "technology", "mystery"},
	"sports":          {"health", "biography", "adventure"},
	"technology":      {"science", "science fiction", "mystery"},
	"travel":          {"culture", "nature", "adventure"},
}

// GenreScoreInput carries everything the scorer consumes for one user.
type GenreScoreInput struct {
	UserID    string
	CEFRLevel string
	Reads     []model.ArticleRead
	XPLogs    []model.XpLogEntry
	Catalog   []model.Article
}

// ScoreGenres ranks the user's genres by a weighted engagement score and
// derives up to three recommendations for unexplored genres. Zero reads
// yield empty lists with the timeframe still reported.
func ScoreGenres(in GenreScoreInput, now time.Time) model.GenreMetrics {
	out := model.GenreMetrics{
		UserID:          in.UserID,
		Timeframe:       model.Timeframe{From: now.AddDate(0, 0, -30), To: now},
		Genres:          []model.GenreEngagement{},
		Recommendations: []model.GenreRecommendation{},
		LevelHistogram:  map[string]int{},
		GeneratedAt:     now,
	}
	if len(in.Reads) == 0 {
		return out
	}

	cut7 := now.AddDate(0, 0, -7)
	cut30 := now.AddDate(0, 0, -30)

	type genreAccum struct {
		eng         model.GenreEngagement
		days        map[string]struct{}
		first, last time.Time
	}
	byGenre := map[string]*genreAccum{}
	for _, r := range in.Reads {
		if r.CreatedAt.After(now) {
			continue
		}
		g := byGenre[r.Genre]
		if g == nil {
			g = &genreAccum{
				eng:   model.GenreEngagement{Genre: r.Genre},
				days:  map[string]struct{}{},
				first: r.CreatedAt,
				last:  r.CreatedAt,
			}
			byGenre[r.Genre] = g
		}
		g.eng.TotalReads++
		if !r.CreatedAt.Before(cut30) {
			g.eng.Reads30d++
		}
		if !r.CreatedAt.Before(cut7) {
			g.eng.Reads7d++
		}
		if r.MCQCompleted || r.SAQCompleted || r.LAQCompleted {
			g.eng.QuizCompletions++
		}
		g.days[dayKey(r.CreatedAt)] = struct{}{}
		if r.CreatedAt.Before(g.first) {
			g.first = r.CreatedAt
		}
		if r.CreatedAt.After(g.last) {
			g.last = r.CreatedAt
		}
		out.LevelHistogram[r.CEFRLevel]++
	}

	xpAll, xp30 := attributeXPByArticle(in.XPLogs, in.Reads, cut30, now)
	for genre, g := range byGenre {
		g.eng.XPTotal = xpAll[genre]
		g.eng.XP30d = xp30[genre]
		g.eng.ActiveDays = len(g.days)
		span := daysBetween(g.first, g.last)
		if span < 1 {
			span = 1
		}
		g.eng.DailyActivityRate = float64(g.eng.ActiveDays) / float64(span)
		g.eng.Score = engagementScore(g.eng)
		out.Genres = append(out.Genres, g.eng)
	}
	sort.Slice(out.Genres, func(i, j int) bool {
		if out.Genres[i].Score != out.Genres[j].Score {
			return out.Genres[i].Score > out.Genres[j].Score
		}
		return out.Genres[i].Genre < out.Genres[j].Genre
	})

	out.Recommendations = recommendGenres(out.Genres, in.Catalog, in.CEFRLevel)
	return out
}

// engagementScore is the weighted blend behind the ranking: recency first
// (7-day reads at 3x), then volume, quizzes at 2x, and a small XP term.
func engagementScore(e model.GenreEngagement) float64 {
	return float64(e.Reads7d)*3 +
		float64(e.Reads30d) +
		float64(e.TotalReads) +
		float64(e.QuizCompletions)*2 +
		float64(e.XPTotal)/100
}

// attributeXPByArticle credits XP-log entries to genres via the article the
// user read (ActivityID -> ArticleID -> genre). The join is approximate: XP
// is not tied 1:1 to a genre upstream, so any log without a matching read is
// left unattributed. Kept behind this function so an exact-join schema can
// replace it without touching the scoring formula.
func attributeXPByArticle(logs []model.XpLogEntry, reads []model.ArticleRead, cut30, now time.Time) (all, last30 map[string]int) {
	genreByArticle := map[string]string{}
	for _, r := range reads {
		genreByArticle[r.ArticleID] = r.Genre
	}
	all = map[string]int{}
	last30 = map[string]int{}
	for _, e := range logs {
		if e.ActivityID == nil || e.CreatedAt.After(now) {
			continue
		}
		genre, ok := genreByArticle[*e.ActivityID]
		if !ok {
			continue
		}
		all[genre] += e.XPEarned
		if !e.CreatedAt.Before(cut30) {
			last30[genre] += e.XPEarned
		}
	}
	return all, last30
}

// recommendGenres fills up to three slots from unexplored catalog genres:
// one neighbour of the top genre, up to two level-appropriate genres, then
// one more neighbour if slots remain. Best-effort; fewer than three is fine.
func recommendGenres(ranked []model.GenreEngagement, catalog []model.Article, cefrLevel string) []model.GenreRecommendation {
	recs := []model.GenreRecommendation{}
	if len(ranked) == 0 {
		return recs
	}
	top := ranked[0].Genre

	explored := map[string]bool{}
	for _, g := range ranked {
		explored[g.Genre] = true
	}
	levelsByGenre := map[string]map[string]bool{}
	for _, a := range catalog {
		if levelsByGenre[a.Genre] == nil {
			levelsByGenre[a.Genre] = map[string]bool{}
		}
		levelsByGenre[a.Genre][a.CEFRLevel] = true
	}
	known := make([]string, 0, len(levelsByGenre))
	for g := range levelsByGenre {
		known = append(known, g)
	}
	sort.Strings(known)

	taken := map[string]bool{}
	add := func(genre, rationale, recType string, confidence float64) {
		recs = append(recs, model.GenreRecommendation{
			Genre:           genre,
			Rationale:       rationale,
			Confidence:      confidence,
			CEFRAppropriate: levelsByGenre[genre][cefrLevel],
			AdjacencyWeight: adjacencyWeight(top, genre),
			Type:            recType,
		})
		taken[genre] = true
	}

	// One unexplored neighbour of the top genre.
	for _, n := range genreAdjacency[top] {
		if !explored[n] && levelsByGenre[n] != nil {
			add(n, fmt.Sprintf("Similar to %s, your most-read genre", top), model.RecommendationSimilar, confidenceSimilar)
			break
		}
	}

	// Up to two unexplored genres with articles at the user's level.
	for _, g := range known {
		if len(recs) >= maxRecommendations {
			break
		}
		levelMatches := 0
		for _, r := range recs {
			if r.Type == model.RecommendationLevelMatch {
				levelMatches++
			}
		}
		if levelMatches >= 2 {
			break
		}
		if !explored[g] && !taken[g] && levelsByGenre[g][cefrLevel] {
			add(g, fmt.Sprintf("Has articles at your %s level", cefrLevel), model.RecommendationLevelMatch, confidenceLevelMatch)
		}
	}

	// One more unexplored neighbour if a slot remains.
	if len(recs) < maxRecommendations {
		for _, n := range genreAdjacency[top] {
			if !explored[n] && !taken[n] && levelsByGenre[n] != nil {
				add(n, fmt.Sprintf("Readers of %s often branch out here", top), model.RecommendationAdjacent, confidenceAdjacent)
				break
			}
		}
	}
	return recs
}

// adjacencyWeight decays with the neighbour's position in the top genre's
// adjacency list; 0 for non-neighbours.
func adjacencyWeight(top, genre string) float64 {
	for i, n := range genreAdjacency[top] {
		if n == genre {
			return 1 - 0.1*float64(i)
		}
	}
	return 0
}
