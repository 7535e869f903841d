package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Pdv-api/internal/application/catalog"
	"github.com/jhoicas/Pdv-api/internal/application/dto"
	"github.com/jhoicas/Pdv-api/internal/domain/entity"
)

// LocationHandler maneja las peticiones HTTP de bodegas y sucursales (protegido).
type LocationHandler struct {
	uc *catalog.CatalogUseCase
}

// NewLocationHandler construye el handler.
func NewLocationHandler(uc *catalog.CatalogUseCase) *LocationHandler {
	return &LocationHandler{uc: uc}
}

// Create registra una bodega o sucursal.
// POST /api/locations
func (h *LocationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "cuerpo inválido"})
	}
	location, err := h.uc.CreateLocation(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toLocationResponse(location))
}

// List lista bodegas y sucursales.
// GET /api/locations
func (h *LocationHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "paginación inválida"})
	}
	page.DefaultPage()
	locations, err := h.uc.ListLocations(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]dto.LocationResponse, 0, len(locations))
	for _, l := range locations {
		resp = append(resp, toLocationResponse(l))
	}
	return c.JSON(resp)
}

func toLocationResponse(l *entity.Location) dto.LocationResponse {
	return dto.LocationResponse{
		ID:      l.ID,
		Code:    l.Code,
		Name:    l.Name,
		Type:    l.Type,
		Address: l.Address,
	}
}
