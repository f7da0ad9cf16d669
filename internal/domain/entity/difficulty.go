// Package entity contains the core business objects of the project.
package entity

// Difficulty represents the subjective difficulty rating of a route.
type Difficulty string

const (
	// DifficultyEasy indicates a route suitable for beginners.
	DifficultyEasy Difficulty = "easy"
	// DifficultyMedium indicates a route of moderate difficulty.
	DifficultyMedium Difficulty = "medium"
	// DifficultyHard indicates a demanding route.
	DifficultyHard Difficulty = "hard"
	// DifficultyExpert indicates a route for experienced users only.
	DifficultyExpert Difficulty = "expert"
)

// String returns the string representation of the Difficulty.
func (d Difficulty) String() string {
	return string(d)
}

// IsValid checks if the Difficulty is a valid value.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert:
		return true
	default:
		return false
	}
}
