package reviews

import (
	"context"
	"fmt"

	"hrhub/internal/apiclient"
	"hrhub/internal/paginate"
)

type Store struct {
	API *apiclient.Client
}

func NewStore(api *apiclient.Client) *Store {
	return &Store{API: api}
}

func listRoute(kind ListKind) (string, error) {
	switch kind {
	case ListAll, "":
		return apiclient.RouteReviews, nil
	case ListSelf:
		return apiclient.RouteSelfReviews, nil
	case ListManager:
		return apiclient.RouteManagerReviews, nil
	case ListPeer:
		return apiclient.RoutePeerReviews, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownListKind, kind)
}

func createRoute(t ReviewType) (string, error) {
	switch t {
	case TypeSelf:
		return apiclient.RouteSelfReviews, nil
	case TypeManager:
		return apiclient.RouteManagerReviews, nil
	case TypePeer:
		return apiclient.RoutePeerReviews, nil
	}
	return "", fmt.Errorf("unknown review type %q", t)
}

func (s *Store) List(ctx context.Context, sess apiclient.Session, kind ListKind, q paginate.Query) (paginate.Page[Review], error) {
	route, err := listRoute(kind)
	if err != nil {
		return paginate.Page[Review]{}, err
	}
	return apiclient.List(ctx, s.API.As(sess), apiclient.Lister[Review]{
		Path:   route,
		Fields: func(r Review) []string { return []string{r.Subject, r.Description} },
		Status: func(r Review) string { return r.ProgressStatus },
	}, q)
}

func (s *Store) Get(ctx context.Context, sess apiclient.Session, id string) (Review, error) {
	var out Review
	err := s.API.As(sess).Get(ctx, apiclient.Path(apiclient.RouteReviews, id), nil, &out)
	return out, err
}

func (s *Store) Create(ctx context.Context, sess apiclient.Session, reviewType ReviewType, payload createPayload) (Review, error) {
	route, err := createRoute(reviewType)
	if err != nil {
		return Review{}, err
	}
	var out Review
	err = s.API.As(sess).Post(ctx, route, payload, &out)
	return out, err
}

func (s *Store) UpdateStatus(ctx context.Context, sess apiclient.Session, id, status string) (Review, error) {
	var out Review
	err := s.API.As(sess).Patch(ctx, apiclient.Path(apiclient.RouteReviews, id), statusPayload{ProgressStatus: status}, &out)
	return out, err
}

func (s *Store) AddQuestionnaires(ctx context.Context, sess apiclient.Session, reviewID string, questions []string) ([]Questionnaire, error) {
	var out []Questionnaire
	err := s.API.As(sess).Post(ctx, apiclient.RouteQuestionnaires, questionnairePayload{ReviewID: reviewID, Questions: questions}, &out)
	return out, err
}

func (s *Store) SubmitAnswers(ctx context.Context, sess apiclient.Session, questionnaireID string, in AnswerInput) (Questionnaire, error) {
	var out Questionnaire
	err := s.API.As(sess).Put(ctx, apiclient.Path(apiclient.RouteQuestionnaires, questionnaireID, "answers"), in, &out)
	return out, err
}
