package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"farmstore/internal/models"
	"farmstore/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// Notifier sends a plain text notification to the shop operators.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

type ContactInput struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// FormErrors maps a field name to its error messages.
type FormErrors map[string][]string

func (e FormErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	return "invalid fields: " + strings.Join(fields, ", ")
}

// SubmitResult is a stored contact message plus the outcome of the operator
// notification. A failed notification does not fail the submission.
type SubmitResult struct {
	Message   *models.ContactMessage
	NotifyErr error
}

type ContactService struct {
	repo     repositories.ContactRepository
	notifier Notifier
	validate *validator.Validate
}

// NewContactService creates a ContactService. notifier may be nil.
func NewContactService(repo repositories.ContactRepository, notifier Notifier) *ContactService {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &ContactService{repo: repo, notifier: notifier, validate: v}
}

// ErrNotifierDisabled is reported in SubmitResult when no notifier is configured.
var ErrNotifierDisabled = errors.New("contact notifications are disabled")

func (s *ContactService) Submit(ctx context.Context, in ContactInput) (*SubmitResult, error) {
	msg := &models.ContactMessage{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Phone:   strings.TrimSpace(in.Phone),
		Subject: strings.TrimSpace(in.Subject),
		Message: strings.TrimSpace(in.Message),
	}
	if err := s.validate.Struct(msg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, formErrors(verrs)
		}
		return nil, err
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}

	result := &SubmitResult{Message: msg}
	if s.notifier == nil {
		result.NotifyErr = ErrNotifierDisabled
		return result, nil
	}

	subject := msg.Subject
	if subject == "" {
		subject = "No subject"
	}
	body := fmt.Sprintf("Name: %s\nEmail: %s\nPhone: %s\n\nMessage:\n%s", msg.Name, msg.Email, msg.Phone, msg.Message)
	result.NotifyErr = s.notifier.Notify(ctx, "New contact: "+subject, body)
	return result, nil
}

func formErrors(verrs validator.ValidationErrors) FormErrors {
	out := FormErrors{}
	for _, fe := range verrs {
		var text string
		switch fe.Tag() {
		case "required":
			text = "This field is required."
		case "email":
			text = "Enter a valid email address."
		case "max":
			text = fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
		default:
			text = "Enter a valid value."
		}
		out[fe.Field()] = append(out[fe.Field()], text)
	}
	return out
}
