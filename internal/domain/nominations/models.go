package nominations

import "hrhub/internal/domain/people"

type Nomination struct {
	ID               string      `json:"id"`
	Nominator        people.User `json:"nominator"`
	Nominee          people.User `json:"nominee"`
	Reviewee         people.User `json:"reviewee"`
	NominationStatus Status      `json:"nominationStatus"`
}

// Row is a nomination as a list shows it, with the actions it offers.
type Row struct {
	Nomination
	Actions []Action `json:"actions"`
}

func (n Nomination) Row() Row {
	actions := AvailableActions(n.NominationStatus)
	if actions == nil {
		actions = []Action{}
	}
	return Row{Nomination: n, Actions: actions}
}

type NominateInput struct {
	NomineeID  string `json:"nomineeId"`
	RevieweeID string `json:"revieweeId"`
	ReviewID   string `json:"reviewId,omitempty"`
}

type statusUpdate struct {
	NominationStatus Status `json:"nominationStatus"`
}
