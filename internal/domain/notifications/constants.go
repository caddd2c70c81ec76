package notifications

const (
	TypeReviewAssigned     = "review_assigned"
	TypeReviewDue          = "review_due"
	TypeNominationReceived = "nomination_received"
	TypeNominationAnswered = "nomination_answered"
	TypeSummaryPublished   = "summary_published"
)

// toastTitles gives known message types a readable heading.
var toastTitles = map[string]string{
	TypeReviewAssigned:     "New review",
	TypeReviewDue:          "Review due soon",
	TypeNominationReceived: "Peer nomination",
	TypeNominationAnswered: "Nomination answered",
	TypeSummaryPublished:   "Review summary ready",
}

const maxPerPoll = 20
