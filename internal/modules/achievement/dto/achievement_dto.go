package dto

// EvaluateQuery narrows an evaluation to one metric family. Empty evaluates
// everything.
type EvaluateQuery struct {
	Family string `form:"family" binding:"omitempty,oneof=songs packs collaborations imports engagement diversity workflow profile"`
}

type EvaluateResponse struct {
	NewAchievements []string `json:"new_achievements"`
}
