package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/moritahrk/tabememo/internal/dto"
	"github.com/moritahrk/tabememo/internal/middleware"
	"github.com/moritahrk/tabememo/internal/models"
	"github.com/moritahrk/tabememo/internal/services"
)

type RestaurantHandler struct {
	service *services.RestaurantService
	search  *services.SearchService
	suggest *services.SuggestService
}

func NewRestaurantHandler(service *services.RestaurantService, search *services.SearchService, suggest *services.SuggestService) *RestaurantHandler {
	return &RestaurantHandler{service: service, search: search, suggest: suggest}
}

func (h *RestaurantHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateRestaurantRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	rest, err := h.service.Create(c.Context(), userID, &req)
	if err != nil {
		return domainError(c, err, "Failed to create restaurant")
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewRestaurantResponse(rest, false))
}

func (h *RestaurantHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	rests, err := h.service.List(userID)
	if err != nil {
		return domainError(c, err, "Failed to fetch restaurants")
	}

	return c.JSON(dto.NewRestaurantListResponse(rests))
}

func (h *RestaurantHandler) listByStatus(c *fiber.Ctx, status models.RestaurantStatus) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	rests, err := h.service.ListByStatus(userID, status)
	if err != nil {
		return domainError(c, err, "Failed to fetch restaurants")
	}

	return c.JSON(dto.NewRestaurantListResponse(rests))
}

// WantList serves the candidates not yet visited.
func (h *RestaurantHandler) WantList(c *fiber.Ctx) error {
	return h.listByStatus(c, models.StatusWant)
}

// WentList serves the restaurants with at least one visit.
func (h *RestaurantHandler) WentList(c *fiber.Ctx) error {
	return h.listByStatus(c, models.StatusWent)
}

func (h *RestaurantHandler) Get(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	restaurantID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid restaurant ID")
	}

	rest, err := h.service.Get(userID, restaurantID)
	if err != nil {
		return domainError(c, err, "Failed to fetch restaurant")
	}

	return c.JSON(dto.NewRestaurantResponse(rest, true))
}

func (h *RestaurantHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	restaurantID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid restaurant ID")
	}

	if err := h.service.Delete(userID, restaurantID); err != nil {
		return domainError(c, err, "Failed to delete restaurant")
	}

	return c.JSON(fiber.Map{"message": "restaurant deleted"})
}

// Reset moves a restaurant back to the want list, deleting its whole visit
// history.
func (h *RestaurantHandler) Reset(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	restaurantID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid restaurant ID")
	}

	rest, err := h.service.Reset(userID, restaurantID)
	if err != nil {
		return domainError(c, err, "Failed to reset restaurant")
	}

	return c.JSON(dto.NewRestaurantResponse(rest, false))
}

// SearchForm serves the per-field suggestion lists the search form renders
// as datalists.
func (h *RestaurantHandler) SearchForm(c *fiber.Ctx) error {
	if _, err := middleware.UserID(c); err != nil {
		return unauthorized(c)
	}

	suggestions, err := h.suggest.All(c.Context())
	if err != nil {
		return domainError(c, err, "Failed to load suggestions")
	}

	return c.JSON(dto.SuggestionsResponse{
		Suggestions: suggestions,
		DayTokens:   models.DayTokens,
	})
}

func (h *RestaurantHandler) SearchResults(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	params := services.SearchParams{
		Genre:      c.Query("genre"),
		Area:       c.Query("area"),
		Companions: c.Query("companions"),
		Scene:      c.Query("scene"),
		Tag:        c.Query("tag"),
		Status:     c.Query("status"),
	}
	for _, day := range c.Context().QueryArgs().PeekMulti("holiday") {
		if len(day) > 0 {
			params.Holidays = append(params.Holidays, string(day))
		}
	}

	rests, err := h.search.Search(userID, params)
	if err != nil {
		return domainError(c, err, "Search failed")
	}

	return c.JSON(dto.NewRestaurantListResponse(rests))
}

// CreateTag registers a global label; repeated names return the existing
// tag.
func (h *RestaurantHandler) CreateTag(c *fiber.Ctx) error {
	if _, err := middleware.UserID(c); err != nil {
		return unauthorized(c)
	}

	var req dto.CreateTagRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Name == "" {
		return badRequest(c, "Tag name is required")
	}

	tag, err := h.suggest.CreateTag(c.Context(), req.Name, req.Category)
	if err != nil {
		return domainError(c, err, "Failed to create tag")
	}

	return c.Status(fiber.StatusCreated).JSON(tag)
}
