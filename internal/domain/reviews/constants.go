package reviews

import "errors"

const (
	ResourceReviews        = "reviews"
	ResourceQuestionnaires = "questionnaires"
)

type ReviewType string

const (
	TypeSelf    ReviewType = "SELF"
	TypePeer    ReviewType = "PEER"
	TypeManager ReviewType = "MANAGER"
)

const (
	StatusNotStarted = "NOT_STARTED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
)

const (
	MinRating = 0
	MaxRating = 5
)

// ListKind selects which review collection a list reads.
type ListKind string

const (
	ListAll     ListKind = "all"
	ListSelf    ListKind = "self"
	ListManager ListKind = "manager"
	ListPeer    ListKind = "peer"
)

var (
	ErrNoReviewInProgress = errors.New("no review in progress")
	ErrUnknownListKind    = errors.New("unknown review list")
)

var (
	reviewFields        = []string{"reviewType", "subject", "description", "dueDate", "revieweeId", "nomineeIds"}
	questionnaireFields = []string{"questions"}
	answerFields        = []string{"answers", "ratings"}
)

func Types() []string {
	return []string{string(TypeSelf), string(TypePeer), string(TypeManager)}
}

func Statuses() []string {
	return []string{StatusNotStarted, StatusInProgress, StatusCompleted}
}
