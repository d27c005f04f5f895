package model

// RecommendationLevel marks how urgent a recommendation is.
type RecommendationLevel string

const (
	// LevelOK is a positive note about something that already works.
	LevelOK RecommendationLevel = "ok"
	// LevelWarn is a suggested improvement.
	LevelWarn RecommendationLevel = "warn"
	// LevelMissing means expected content was not found.
	LevelMissing RecommendationLevel = "missing"
)

// Recommendation is one piece of advice derived from the analysis.
type Recommendation struct {
	Level RecommendationLevel `json:"level"`
	Text  string              `json:"text"`
}

// Marker returns a short terminal prefix for the level.
func (r Recommendation) Marker() string {
	switch r.Level {
	case LevelOK:
		return "[ok]"
	case LevelMissing:
		return "[missing]"
	default:
		return "[warn]"
	}
}
