package model

// DifficultyWindowEntry is a (timestamp, difficulty) pair of one block of a
// difficulty window
type DifficultyWindowEntry struct {
	TimeInMilliseconds int64
	Difficulty         uint64
}
