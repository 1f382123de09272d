package assistant

import "github.com/workbridge/erp-backend-go/internal/pkg/validator"

type ChatRequest struct {
	Message string        `json:"message"`
	History []ChatMessage `json:"history,omitempty"`
}

func (r *ChatRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Message) {
		errs = append(errs, validator.ValidationError{
			Field:   "message",
			Message: "message is required",
		})
	}
	if len(r.Message) > 4000 {
		errs = append(errs, validator.ValidationError{
			Field:   "message",
			Message: "message must not exceed 4000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ChatResponse struct {
	Reply string `json:"reply"`
}
