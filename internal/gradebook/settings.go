package gradebook

import "github.com/classtrack/gradebook-api/internal/models"

// DefaultSettings returns the standard grading policy for a class: a
// five-letter scale, the at-risk threshold and the recent-average window.
// Pure factory; callers that want different policy load it from storage.
func DefaultSettings(classID string) models.GradebookSettings {
	return models.GradebookSettings{
		ClassID:         classID,
		AtRiskThreshold: 60,
		RecentWindow:    3,
		Scale: models.GradingScale{
			ClassID: classID,
			Name:    "Standard",
			Ranges: []models.GradeRange{
				{Min: 90, Max: 100, Letter: "A", GPA: 4.0, Color: "#22c55e", Position: 0},
				{Min: 80, Max: 89, Letter: "B", GPA: 3.0, Color: "#84cc16", Position: 1},
				{Min: 70, Max: 79, Letter: "C", GPA: 2.0, Color: "#eab308", Position: 2},
				{Min: 60, Max: 69, Letter: "D", GPA: 1.0, Color: "#f97316", Position: 3},
				{Min: 0, Max: 59, Letter: "F", GPA: 0.0, Color: "#ef4444", Position: 4},
			},
		},
	}
}
