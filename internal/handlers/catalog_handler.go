package handlers

import (
	"farmstore/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves the static storefront content.
type CatalogHandler struct {
	service *services.CatalogService
}

func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	for _, prefix := range []string{"", "/contact"} {
		router.Get(prefix+"/services", h.HandleServices)
		router.Get(prefix+"/gallery", h.HandleGallery)
		router.Get(prefix+"/process", h.HandleProcess)
	}
}

func (h *CatalogHandler) HandleServices(c *fiber.Ctx) error {
	return c.JSON(h.service.Services())
}

func (h *CatalogHandler) HandleGallery(c *fiber.Ctx) error {
	return c.JSON(h.service.Gallery())
}

func (h *CatalogHandler) HandleProcess(c *fiber.Ctx) error {
	return c.JSON(h.service.Process())
}
