package nominations

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const ResourceNominations = "nominations"

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusDeclined  Status = "DECLINED"
	StatusCompleted Status = "COMPLETED"
)

type Action string

const (
	ActionAccept   Action = "accept"
	ActionDecline  Action = "decline"
	ActionComplete Action = "complete"
)

var (
	ErrUnknownStatus     = errors.New("unknown nomination status")
	ErrUnknownAction     = errors.New("unknown nomination action")
	ErrInvalidTransition = errors.New("invalid nomination transition")
	ErrUnexpectedStatus  = errors.New("backend returned an unexpected nomination status")
)

type transitionKey struct {
	from   Status
	action Action
}

var transitions = map[transitionKey]Status{
	{StatusPending, ActionAccept}:    StatusAccepted,
	{StatusPending, ActionDecline}:   StatusDeclined,
	{StatusAccepted, ActionComplete}: StatusCompleted,
}

func Statuses() []Status {
	return []Status{StatusPending, StatusAccepted, StatusDeclined, StatusCompleted}
}

func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	switch s {
	case StatusPending, StatusAccepted, StatusDeclined, StatusCompleted:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func ParseAction(raw string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(raw)))
	switch a {
	case ActionAccept, ActionDecline, ActionComplete:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, raw)
}

// Transition applies action to from using the fixed table.
func Transition(from Status, action Action) (Status, error) {
	to, ok := transitions[transitionKey{from, action}]
	if !ok {
		return "", fmt.Errorf("%w: %s on %s", ErrInvalidTransition, action, from)
	}
	return to, nil
}

// AvailableActions lists what a viewer may do with a nomination. Completion is reported by
// the backend and never offered.
func AvailableActions(s Status) []Action {
	if s == StatusPending {
		return []Action{ActionAccept, ActionDecline}
	}
	return nil
}
