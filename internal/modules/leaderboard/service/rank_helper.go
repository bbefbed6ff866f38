package service

import (
	"math"

	"anoa.com/trackforge/pkg/dto"
)

// Rank thresholds on all-time achievement points. Ranks never demote.
const (
	PointsLegend    = 2500 // 🏆 Legend
	PointsVirtuoso  = 1200 // 🎖️ Virtuoso
	PointsVeteran   = 500  // ⭐ Veteran
	PointsRegular   = 150  // 🎸 Regular
	PointsCharter   = 30   // 🎵 Charter
	PointsNewcomer  = 0    // 🆕 Newcomer
	rankMaxLevelTag = "Max Level"
)

// Weekly activity thresholds on points earned in the last 7 days.
const (
	WeeklyOnFire   = 100 // 🔥 On Fire!
	WeeklyTrending = 50  // ⚡ Trending
	WeeklyActive   = 20  // 📈 Active
)

// GetGamificationStatus calculates the status from all-time points only.
func GetGamificationStatus(allTimePoints int) dto.GamificationStatus {
	return GetGamificationStatusWithWeekly(allTimePoints, 0)
}

// GetGamificationStatusWithWeekly calculates the rank from all-time points and
// the activity label from weekly points.
func GetGamificationStatusWithWeekly(allTimePoints, weeklyPoints int) dto.GamificationStatus {
	var status dto.GamificationStatus
	status.CurrentPoints = allTimePoints
	status.WeeklyPoints = weeklyPoints

	switch {
	case allTimePoints >= PointsLegend:
		status.RankName = "Legend"
		status.NextRank = rankMaxLevelTag
		status.TargetPoints = PointsLegend
		status.Progress = 100

	case allTimePoints >= PointsVirtuoso:
		status.RankName = "Virtuoso"
		status.NextRank = "Legend"
		status.TargetPoints = PointsLegend
		status.Progress = (float64(allTimePoints) / float64(PointsLegend)) * 100

	case allTimePoints >= PointsVeteran:
		status.RankName = "Veteran"
		status.NextRank = "Virtuoso"
		status.TargetPoints = PointsVirtuoso
		status.Progress = (float64(allTimePoints) / float64(PointsVirtuoso)) * 100

	case allTimePoints >= PointsRegular:
		status.RankName = "Regular"
		status.NextRank = "Veteran"
		status.TargetPoints = PointsVeteran
		status.Progress = (float64(allTimePoints) / float64(PointsVeteran)) * 100

	case allTimePoints >= PointsCharter:
		status.RankName = "Charter"
		status.NextRank = "Regular"
		status.TargetPoints = PointsRegular
		status.Progress = (float64(allTimePoints) / float64(PointsRegular)) * 100

	default:
		status.RankName = "Newcomer"
		status.NextRank = "Charter"
		status.TargetPoints = PointsCharter
		if allTimePoints > 0 {
			status.Progress = (float64(allTimePoints) / float64(PointsCharter)) * 100
		}
	}

	switch {
	case weeklyPoints >= WeeklyOnFire:
		status.WeeklyLabel = "🔥 On Fire!"
	case weeklyPoints >= WeeklyTrending:
		status.WeeklyLabel = "⚡ Trending"
	case weeklyPoints >= WeeklyActive:
		status.WeeklyLabel = "📈 Active"
	}

	// Round progress to 2 decimal places
	status.Progress = math.Round(status.Progress*100) / 100

	return status
}
