package reviews

import (
	"context"

	"hrhub/internal/apiclient"
	"hrhub/internal/paginate"
)

type StoreAPI interface {
	List(ctx context.Context, sess apiclient.Session, kind ListKind, q paginate.Query) (paginate.Page[Review], error)
	Get(ctx context.Context, sess apiclient.Session, id string) (Review, error)
	Create(ctx context.Context, sess apiclient.Session, reviewType ReviewType, payload createPayload) (Review, error)
	UpdateStatus(ctx context.Context, sess apiclient.Session, id, status string) (Review, error)
	AddQuestionnaires(ctx context.Context, sess apiclient.Session, reviewID string, questions []string) ([]Questionnaire, error)
	SubmitAnswers(ctx context.Context, sess apiclient.Session, questionnaireID string, in AnswerInput) (Questionnaire, error)
}
