package summaries

import (
	"errors"
	"math"
	"time"

	"hrhub/internal/domain/people"
)

const ResourceSummaries = "review-summaries"

var ErrAlreadyAcknowledged = errors.New("review summary already acknowledged")

type SummaryQuestion struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Answers  []string `json:"answers"`
	Ratings  []int    `json:"ratings"`
}

type Summary struct {
	ID                       string            `json:"id"`
	SummaryQuestionnaire     []SummaryQuestion `json:"summaryQuestionnaire"`
	AveragePerformanceRating *float64          `json:"averagePerformanceRating"`
	IsAcknowledged           bool              `json:"isAcknowledged"`
	Reviewee                 people.User       `json:"reviewee"`
	CreatedAt                time.Time         `json:"createdAt"`
}

// AverageRating prefers the backend's figure and otherwise averages every rating in the
// questionnaire, rounded to two decimals. ok is false when there is nothing to average.
func (s Summary) AverageRating() (float64, bool) {
	if s.AveragePerformanceRating != nil {
		return *s.AveragePerformanceRating, true
	}
	var sum, n int
	for _, q := range s.SummaryQuestionnaire {
		for _, r := range q.Ratings {
			sum += r
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return math.Round(float64(sum)/float64(n)*100) / 100, true
}

// withAverage fills AveragePerformanceRating when the backend left it out.
func (s Summary) withAverage() Summary {
	if s.AveragePerformanceRating == nil {
		if avg, ok := s.AverageRating(); ok {
			s.AveragePerformanceRating = &avg
		}
	}
	return s
}
