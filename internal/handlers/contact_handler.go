package handlers

import (
	"errors"

	"farmstore/internal/services"
	"farmstore/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ContactHandler accepts contact form submissions.
type ContactHandler struct {
	service *services.ContactService
	log     *zap.Logger
}

func NewContactHandler(service *services.ContactService, log *zap.Logger) *ContactHandler {
	return &ContactHandler{service: service, log: log}
}

func (h *ContactHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/contact", h.HandleSubmit)
	router.Post("/contact/submit", h.HandleSubmit)
}

type contactRequest struct {
	Name    string     `json:"name"`
	Email   string     `json:"email"`
	Phone   flexString `json:"phone"`
	Subject string     `json:"subject"`
	Message string     `json:"message"`
}

// HandleSubmit reads a JSON body and falls back to form fields when the body
// is not a usable JSON object.
func (h *ContactHandler) HandleSubmit(c *fiber.Ctx) error {
	log := logger.FromCtx(c, h.log)

	var req contactRequest
	if err := decodeJSON(c, &req); err != nil || req == (contactRequest{}) {
		if err != nil && len(c.Body()) > 0 {
			log.Debug("contact body is not JSON, reading form fields", zap.Error(err))
		}
		req = contactRequest{
			Name:    c.FormValue("name"),
			Email:   c.FormValue("email"),
			Phone:   flexString(c.FormValue("phone")),
			Subject: c.FormValue("subject"),
			Message: c.FormValue("message"),
		}
	}

	res, err := h.service.Submit(c.UserContext(), services.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone.String(),
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}

	switch {
	case res.NotifyErr == nil:
	case errors.Is(res.NotifyErr, services.ErrNotifierDisabled):
		log.Debug("contact notification skipped", zap.Uint("contact_id", res.Message.ID))
	default:
		log.Warn("contact notification failed", zap.Uint("contact_id", res.Message.ID), zap.Error(res.NotifyErr))
	}
	return c.JSON(fiber.Map{"ok": true, "id": res.Message.ID})
}
