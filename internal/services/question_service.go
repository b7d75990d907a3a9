package services

import (
	"strings"

	"github.com/google/uuid"

	"github.com/tacology/feedback/internal/models"
)

type QuestionStore interface {
	ListQuestions(activeOnly bool) ([]*models.Question, error)
	UpsertQuestionsByCode(qs []*models.Question) error
}

type QuestionService struct {
	store QuestionStore
	newID func() string
}

func NewQuestionService(store QuestionStore) *QuestionService {
	return &QuestionService{store: store, newID: uuid.NewString}
}

// List returns questions ordered by sort_order.
func (s *QuestionService) List(activeOnly bool) ([]*models.Question, error) {
	qs, err := s.store.ListQuestions(activeOnly)
	if err != nil {
		return nil, err
	}
	if qs == nil {
		qs = []*models.Question{}
	}
	return qs, nil
}

// QuestionInput is the admin survey-builder payload, upserted by code.
type QuestionInput struct {
	ID        string                 `json:"id,omitempty"`
	Code      string                 `json:"code"`
	Prompt    string                 `json:"prompt"`
	Type      models.QuestionType    `json:"question_type"`
	Options   models.QuestionOptions `json:"options"`
	SortOrder int                    `json:"sort_order"`
	IsActive  *bool                  `json:"is_active,omitempty"`
}

// BulkUpsert validates and saves a question set. Each question type has a
// fixed attribute set: single_choice requires a non-empty labels list, the
// other types must not carry one.
func (s *QuestionService) BulkUpsert(inputs []QuestionInput) error {
	if len(inputs) == 0 {
		return NewValidationError("questions", "required")
	}
	rows := make([]*models.Question, 0, len(inputs))
	for _, in := range inputs {
		if strings.TrimSpace(in.Code) == "" {
			return NewValidationError("code", "required")
		}
		if strings.TrimSpace(in.Prompt) == "" {
			return NewValidationError("prompt", "required")
		}
		if !in.Type.Valid() {
			return NewValidationError("question_type", "must be one of single_choice, scale_0_10, free_text")
		}
		switch in.Type {
		case models.QuestionSingleChoice:
			if len(in.Options.Labels) == 0 {
				return NewValidationError("options", "single_choice questions require labels")
			}
		default:
			if len(in.Options.Labels) > 0 {
				return NewValidationError("options", string(in.Type)+" questions carry no labels")
			}
		}
		q := &models.Question{
			ID:        in.ID,
			Code:      strings.TrimSpace(in.Code),
			Prompt:    strings.TrimSpace(in.Prompt),
			Type:      in.Type,
			Options:   in.Options,
			SortOrder: in.SortOrder,
			IsActive:  true,
		}
		if in.IsActive != nil {
			q.IsActive = *in.IsActive
		}
		if q.ID == "" {
			q.ID = s.newID()
		}
		rows = append(rows, q)
	}
	return s.store.UpsertQuestionsByCode(rows)
}
