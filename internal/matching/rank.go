package matching

import "sort"

// Hit is the scoring part of a match result. Result types embed it so its
// fields flatten into their JSON and Rank can order them.
type Hit struct {
	ID              int64    `json:"id"`
	MatchedKeywords []string `json:"matched_keywords"`
	HitCount        int      `json:"hit_count"`
	Score           int      `json:"score"`
}

// RankKey lets a bare Hit, or any type embedding one, satisfy Ranked.
func (h Hit) RankKey() Hit { return h }

// Ranked is anything Rank can order by its embedded Hit.
type Ranked interface {
	RankKey() Hit
}

// Rank orders items in place by score, then hit count, then id, all
// descending, and returns the same slice.
func Rank[T Ranked](items []T) []T {
	sort.SliceStable(items, func(i, j int) bool {
		return Less(items[i].RankKey(), items[j].RankKey())
	})
	return items
}

// Less reports whether a sorts before b.
func Less(a, b Hit) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.HitCount != b.HitCount {
		return a.HitCount > b.HitCount
	}
	return a.ID > b.ID
}
