package reviews

import (
	"time"

	"hrhub/internal/domain/people"
)

type Questionnaire struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Answers  []string `json:"answers"`
	Ratings  int      `json:"ratings"`
}

type Review struct {
	ID             string          `json:"id"`
	ReviewType     ReviewType      `json:"reviewType"`
	Subject        string          `json:"subject"`
	Description    string          `json:"description"`
	ProgressStatus string          `json:"progressStatus"`
	DueDate        time.Time       `json:"dueDate"`
	Questionnaires []Questionnaire `json:"questionnaires"`
	Reviewee       *people.User    `json:"reviewee,omitempty"`
	Reviewer       *people.User    `json:"reviewer,omitempty"`
}

// Input is the shared review form. Which fields are required depends on ReviewType.
type Input struct {
	ReviewType  ReviewType `json:"reviewType"`
	Subject     string     `json:"subject"`
	Description string     `json:"description"`
	DueDate     string     `json:"dueDate"`
	RevieweeID  string     `json:"revieweeId,omitempty"`
	NomineeIDs  []string   `json:"nomineeIds,omitempty"`
}

type createPayload struct {
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	RevieweeID  string    `json:"revieweeId,omitempty"`
	NomineeIDs  []string  `json:"nomineeIds,omitempty"`
}

type QuestionnaireInput struct {
	Questions []string `json:"questions"`
}

type questionnairePayload struct {
	ReviewID  string   `json:"reviewId"`
	Questions []string `json:"questions"`
}

type AnswerInput struct {
	Answers []string `json:"answers"`
	Ratings int      `json:"ratings"`
}

type statusPayload struct {
	ProgressStatus string `json:"progressStatus"`
}
