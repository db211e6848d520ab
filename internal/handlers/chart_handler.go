package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/moritahrk/tabememo/internal/charts"
	"github.com/moritahrk/tabememo/internal/middleware"
	"github.com/moritahrk/tabememo/internal/services"
)

const topGenreLimit = 3

// ChartHandler serves the aggregate graphs as PNG images. The chart routes
// sit behind optional auth: without a valid token the handler answers with a
// blank placeholder image instead of an error, so an <img> tag on a page
// that lost its session still renders.
type ChartHandler struct {
	stats *services.StatsService
}

func NewChartHandler(stats *services.StatsService) *ChartHandler {
	return &ChartHandler{stats: stats}
}

func (h *ChartHandler) sendPNG(c *fiber.Ctx, png []byte, err error) error {
	if err != nil {
		slog.Error("chart render failed", "error", err.Error(), "path", c.Path())
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

func (h *ChartHandler) placeholder(c *fiber.Ctx) error {
	png, err := charts.Placeholder()
	return h.sendPNG(c, png, err)
}

func (h *ChartHandler) Monthly(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return h.placeholder(c)
	}
	counts, err := h.stats.MonthlyVisitCounts(userID)
	if err != nil {
		return h.sendPNG(c, nil, err)
	}
	png, err := charts.Monthly(counts)
	return h.sendPNG(c, png, err)
}

func (h *ChartHandler) Genre(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return h.placeholder(c)
	}
	counts, err := h.stats.GenreVisitCounts(userID)
	if err != nil {
		return h.sendPNG(c, nil, err)
	}
	png, err := charts.Genre(counts, "ジャンル別訪問数")
	return h.sendPNG(c, png, err)
}

func (h *ChartHandler) GenreTop(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return h.placeholder(c)
	}
	counts, err := h.stats.TopGenres(userID, topGenreLimit)
	if err != nil {
		return h.sendPNG(c, nil, err)
	}
	png, err := charts.Genre(counts, "よく行くジャンル TOP3")
	return h.sendPNG(c, png, err)
}
