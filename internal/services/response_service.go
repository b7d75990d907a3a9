package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tacology/feedback/internal/models"
)

// SubmissionStore abstracts persistence for the survey submission workflow.
type SubmissionStore interface {
	UpsertCustomerByEmail(c *models.Customer) (*models.Customer, error)
	InsertResponse(r *models.SurveyResponse) error
	InsertAnswers(rows []*models.Answer) error
}

// SentimentClassifier rates free-text feedback; a nil score means no rating.
type SentimentClassifier interface {
	ClassifySentiment(ctx context.Context, text string) (*float64, error)
}

// NotificationDispatcher submits post-commit side effects. Implementations
// must never block the caller or surface failures to it.
type NotificationDispatcher interface {
	DispatchCoupon(email, name string, location models.Location)
	DispatchAlert(a AlertInput)
}

// AlertInput feeds the low-score alert message.
type AlertInput struct {
	Email           string
	Name            string
	Location        models.Location
	NPS             *float64
	Sentiment       *float64
	ImprovementText string
}

// SubmitAnswer is one inbound answer.
type SubmitAnswer struct {
	QuestionID  string   `json:"question_id"`
	ValueText   string   `json:"value_text,omitempty"`
	ValueNumber *float64 `json:"value_number,omitempty"`
}

// SubmitRequest is a full survey submission.
type SubmitRequest struct {
	Email           string          `json:"email,omitempty"`
	Name            string          `json:"name,omitempty"`
	Phone           string          `json:"phone,omitempty"`
	Location        models.Location `json:"location"`
	Answers         []SubmitAnswer  `json:"answers"`
	ImprovementText string          `json:"improvement_text,omitempty"`
}

type SubmitResult struct {
	ResponseID string `json:"responseId"`
}

// StartRequest opens a survey session: the customer identity is resolved
// idempotently by email before any answers exist.
type StartRequest struct {
	Email    string          `json:"email"`
	Name     string          `json:"name,omitempty"`
	Phone    string          `json:"phone,omitempty"`
	Location models.Location `json:"location"`
}

type StartResult struct {
	CustomerID string          `json:"customerId"`
	Email      string          `json:"email"`
	Name       string          `json:"name,omitempty"`
	Phone      string          `json:"phone,omitempty"`
	Location   models.Location `json:"location"`
}

type ResponseService struct {
	store      SubmissionStore
	classifier SentimentClassifier
	notifier   NotificationDispatcher
	log        *logrus.Logger
	now        func() time.Time
	newID      func() string
}

func NewResponseService(store SubmissionStore, classifier SentimentClassifier, notifier NotificationDispatcher, log *logrus.Logger) *ResponseService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ResponseService{
		store:      store,
		classifier: classifier,
		notifier:   notifier,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
	}
}

// Start upserts the customer by email so a later submit resolves to the
// same identity.
func (s *ResponseService) Start(req StartRequest) (*StartResult, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, NewValidationError("email", "a valid email is required")
	}
	if !req.Location.Valid() {
		return nil, NewValidationError("location", "must be brickell or wynwood")
	}
	customer, err := s.upsertCustomer(email, req.Name, req.Phone)
	if err != nil {
		return nil, err
	}
	return &StartResult{
		CustomerID: customer.ID,
		Email:      customer.Email,
		Name:       customer.Name,
		Phone:      customer.Phone,
		Location:   req.Location,
	}, nil
}

// Submit persists one completed survey. The submission is successful once
// the response and answers are durably stored; notification side effects are
// dispatched afterwards and never fail it.
func (s *ResponseService) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	if !req.Location.Valid() {
		return nil, NewValidationError("location", "must be brickell or wynwood")
	}
	if len(req.Answers) == 0 {
		return nil, NewValidationError("answers", "at least one answer is required")
	}
	for _, a := range req.Answers {
		if _, err := uuid.Parse(a.QuestionID); err != nil {
			return nil, NewValidationError("answers", "question_id must be a UUID")
		}
	}
	email := strings.TrimSpace(req.Email)
	if email != "" && !strings.Contains(email, "@") {
		return nil, NewValidationError("email", "must be a valid email")
	}

	var customerID string
	if email != "" {
		customer, err := s.upsertCustomer(email, req.Name, req.Phone)
		if err != nil {
			return nil, err
		}
		customerID = customer.ID
	}

	npsScore := firstNPSValue(req.Answers)
	var npsBucket string
	if npsScore != nil {
		npsBucket = models.NPSBucketOf(*npsScore)
	}

	// Sentiment enrichment is best effort: a classifier failure leaves the
	// score null rather than failing the submit.
	var sentiment *float64
	if s.classifier != nil {
		score, err := s.classifier.ClassifySentiment(ctx, req.ImprovementText)
		if err != nil {
			s.log.WithError(err).Warn("sentiment classification failed")
		} else {
			sentiment = score
		}
	}

	now := s.now()
	response := &models.SurveyResponse{
		ID:             s.newID(),
		CustomerID:     customerID,
		CustomerName:   strings.TrimSpace(req.Name),
		CustomerEmail:  email,
		Location:       req.Location,
		CreatedAt:      now,
		Completed:      true,
		NPSBucket:      npsBucket,
		SentimentScore: sentiment,
	}
	if err := s.store.InsertResponse(response); err != nil {
		return nil, err
	}

	rows := make([]*models.Answer, 0, len(req.Answers))
	for _, a := range req.Answers {
		rows = append(rows, &models.Answer{
			ID:          s.newID(),
			ResponseID:  response.ID,
			QuestionID:  a.QuestionID,
			ValueText:   a.ValueText,
			ValueNumber: a.ValueNumber,
			CreatedAt:   now,
		})
	}
	if err := s.store.InsertAnswers(rows); err != nil {
		return nil, err
	}

	s.dispatchNotifications(req, email, npsScore, sentiment)
	return &SubmitResult{ResponseID: response.ID}, nil
}

func (s *ResponseService) upsertCustomer(email, name, phone string) (*models.Customer, error) {
	now := s.now()
	return s.store.UpsertCustomerByEmail(&models.Customer{
		ID:        s.newID(),
		Name:      strings.TrimSpace(name),
		Email:     email,
		Phone:     strings.TrimSpace(phone),
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (s *ResponseService) dispatchNotifications(req SubmitRequest, email string, npsScore, sentiment *float64) {
	if s.notifier == nil {
		return
	}
	if email != "" {
		s.notifier.DispatchCoupon(email, req.Name, req.Location)
	}
	alert := (npsScore != nil && *npsScore <= 6) ||
		(sentiment != nil && *sentiment <= models.SentimentNegativeBelow)
	if alert {
		s.notifier.DispatchAlert(AlertInput{
			Email:           email,
			Name:            req.Name,
			Location:        req.Location,
			NPS:             npsScore,
			Sentiment:       sentiment,
			ImprovementText: req.ImprovementText,
		})
	}
}

// firstNPSValue picks the first numeric answer in [0,10]; the survey carries
// a single 0-10 recommendation question.
func firstNPSValue(answers []SubmitAnswer) *float64 {
	for _, a := range answers {
		if a.ValueNumber != nil && *a.ValueNumber >= 0 && *a.ValueNumber <= 10 {
			v := *a.ValueNumber
			return &v
		}
	}
	return nil
}
