// AngelaMos | 2026
// entity.go

package progress

import (
	"time"
)

const (
	MaxGrowth     = 100
	GrowthPerDrop = 2
)

type Progress struct {
	UserID           string     `db:"user_id"`
	WaterDrops       int        `db:"water_drops"`
	CompletedLessons int        `db:"completed_lessons"`
	CurrentStreak    int        `db:"current_streak"`
	LastLessonOn     *time.Time `db:"last_lesson_on"`
	TotalTrees       int        `db:"total_trees"`
	PlantGrowth      int        `db:"plant_growth"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

type LeaderboardEntry struct {
	Rank       int     `db:"rank"        json:"rank"`
	UserID     string  `db:"user_id"     json:"userId"`
	Name       string  `db:"name"        json:"name"`
	Avatar     *string `db:"avatar"      json:"avatar,omitempty"`
	WaterDrops int     `db:"water_drops" json:"waterDrops"`
	TotalTrees int     `db:"total_trees" json:"totalTrees"`
}

// nextStreak applies the day-streak rule for a lesson completed on day.
func nextStreak(current int, last *time.Time, day time.Time) int {
	if last == nil {
		return 1
	}
	prev := truncateDay(*last)
	switch {
	case prev.Equal(day):
		if current < 1 {
			return 1
		}
		return current
	case prev.AddDate(0, 0, 1).Equal(day):
		return current + 1
	default:
		return 1
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
