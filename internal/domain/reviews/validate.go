package reviews

import (
	"slices"
	"strings"
	"time"

	"hrhub/internal/forms"
)

// ParseDueDate accepts RFC3339 or YYYY-MM-DD. A bare date means the end of that day in UTC.
func ParseDueDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	day, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(24*time.Hour - time.Second), nil
}

// Validate checks the form for its review type and returns the parsed due date.
func (in Input) Validate(now time.Time) (time.Time, error) {
	v := forms.NewValidator()
	v.Enum("reviewType", string(in.ReviewType), Types())
	v.Required("subject", in.Subject)
	v.Required("description", in.Description)

	due, err := ParseDueDate(in.DueDate)
	if err != nil {
		v.Add("dueDate", "must be a valid date in YYYY-MM-DD format")
	} else {
		v.FutureDate("dueDate", due, now)
	}

	switch in.ReviewType {
	case TypeManager:
		v.Required("revieweeId", in.RevieweeID)
	case TypePeer:
		v.Required("revieweeId", in.RevieweeID)
		nominees := compact(in.NomineeIDs)
		v.Check(len(nominees) > 0, "nomineeIds", "at least one nominee is required")
		v.Check(in.RevieweeID == "" || !slices.Contains(nominees, in.RevieweeID), "nomineeIds", "cannot include the reviewee")
	}
	return due, v.Err()
}

func (t ReviewType) Normalize() ReviewType {
	return ReviewType(strings.ToUpper(strings.TrimSpace(string(t))))
}

func (in Input) normalized() Input {
	in.ReviewType = in.ReviewType.Normalize()
	in.Subject = strings.TrimSpace(in.Subject)
	in.Description = strings.TrimSpace(in.Description)
	in.RevieweeID = strings.TrimSpace(in.RevieweeID)
	in.NomineeIDs = compact(in.NomineeIDs)
	return in
}

func (in QuestionnaireInput) Validate() error {
	v := forms.NewValidator()
	questions := compact(in.Questions)
	v.Check(len(questions) > 0, "questions", "at least one question is required")
	return v.Err()
}

func (in AnswerInput) Validate() error {
	v := forms.NewValidator()
	v.Check(len(compact(in.Answers)) > 0, "answers", "at least one answer is required")
	v.Range("ratings", in.Ratings, MinRating, MaxRating)
	return v.Err()
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value != "" && !slices.Contains(out, value) {
			out = append(out, value)
		}
	}
	return out
}
