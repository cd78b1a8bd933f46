package service

const (
	levelTwoThreshold   = 45
	levelThreeThreshold = 100
)

// LevelForScore переводит сумму баллов в уровень 1-3
func LevelForScore(total int64) int {
	switch {
	case total >= levelThreeThreshold:
		return 3
	case total >= levelTwoThreshold:
		return 2
	default:
		return 1
	}
}
