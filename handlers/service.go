package handlers

import (
	"github.com/gofiber/fiber/v2"

	"styledecor-server/config"
)

func (h *Handler) GetServices(c *fiber.Ctx) error {
	return h.listServices(c, 0)
}

// GetHomeServices returns the first few services for the landing page.
func (h *Handler) GetHomeServices(c *fiber.Ctx) error {
	return h.listServices(c, config.HomeServicesLimit)
}

func (h *Handler) listServices(c *fiber.Ctx, limit int64) error {
	ctx, cancel := h.storageContext(c)
	defer cancel()

	services, err := h.services.ListServices(ctx, limit)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(services)
}

// GetService answers null when no service has the id.
func (h *Handler) GetService(c *fiber.Ctx) error {
	id, err := parseObjectId(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}

	ctx, cancel := h.storageContext(c)
	defer cancel()

	service, err := h.services.GetService(ctx, id)
	if err != nil {
		return h.fail(c, err)
	}
	if service == nil {
		return c.JSON(nil)
	}
	return c.JSON(service)
}
