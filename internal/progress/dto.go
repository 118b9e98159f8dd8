// AngelaMos | 2026
// dto.go

package progress

type WaterRequest struct {
	Amount int `json:"amount" validate:"required,gte=1,lte=20"`
}

type ProgressResponse struct {
	WaterDrops       int `json:"waterDrops"`
	CompletedLessons int `json:"completedLessons"`
	CurrentStreak    int `json:"currentStreak"`
	TotalTrees       int `json:"totalTrees"`
	PlantGrowthLevel int `json:"plantGrowthLevel"`
	Rank             int `json:"rank"`
}

type LeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
}

func ToProgressResponse(p *Progress, rank int) ProgressResponse {
	return ProgressResponse{
		WaterDrops:       p.WaterDrops,
		CompletedLessons: p.CompletedLessons,
		CurrentStreak:    p.CurrentStreak,
		TotalTrees:       p.TotalTrees,
		PlantGrowthLevel: p.PlantGrowth,
		Rank:             rank,
	}
}
