package handlers

import (
	"io"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/moritahrk/tabememo/internal/dto"
	"github.com/moritahrk/tabememo/internal/middleware"
	"github.com/moritahrk/tabememo/internal/services"
	"github.com/moritahrk/tabememo/internal/storage"
)

type VisitHandler struct {
	service *services.VisitService
}

func NewVisitHandler(service *services.VisitService) *VisitHandler {
	return &VisitHandler{service: service}
}

// parseVisitMultipart splits the visit form into its text fields and photo
// uploads. Photos arrive under the repeated "images" field.
func parseVisitMultipart(c *fiber.Ctx) (*dto.VisitForm, []storage.Upload, error) {
	form := &dto.VisitForm{
		Date:    c.FormValue("date"),
		Comment: c.FormValue("comment"),
		Feeling: c.FormValue("feeling"),
	}
	if raw := c.FormValue("rating"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "rating must be a number")
		}
		form.Rating = &n
	}

	mf, err := c.MultipartForm()
	if err != nil {
		// A plain urlencoded body carries no photos; that is fine.
		return form, nil, nil
	}

	var uploads []storage.Upload
	for _, fh := range mf.File["images"] {
		data, err := readUpload(fh)
		if err != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "could not read uploaded file")
		}
		uploads = append(uploads, storage.Upload{Filename: fh.Filename, Data: data})
	}
	return form, uploads, nil
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (h *VisitHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	restaurantID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid restaurant ID")
	}

	form, uploads, err := parseVisitMultipart(c)
	if err != nil {
		return err
	}

	visit, err := h.service.Create(userID, restaurantID, form, uploads)
	if err != nil {
		return domainError(c, err, "Failed to record visit")
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewVisitResponse(visit))
}

func (h *VisitHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	visitID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid visit ID")
	}

	form, uploads, err := parseVisitMultipart(c)
	if err != nil {
		return err
	}

	visit, err := h.service.Update(userID, visitID, form, uploads)
	if err != nil {
		return domainError(c, err, "Failed to update visit")
	}

	return c.JSON(dto.NewVisitResponse(visit))
}

func (h *VisitHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	visitID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid visit ID")
	}

	if err := h.service.Delete(userID, visitID); err != nil {
		return domainError(c, err, "Failed to delete visit")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *VisitHandler) DeleteImage(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	imageID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid image ID")
	}

	deleted, err := h.service.DeleteImage(userID, imageID)
	if err != nil {
		return domainError(c, err, "Failed to delete image")
	}
	return c.JSON(dto.DeleteImageResponse{Deleted: deleted})
}
