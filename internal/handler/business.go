package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/muhozi/WeConnect-2/internal/hashid"
	"github.com/muhozi/WeConnect-2/internal/middleware"
	"github.com/muhozi/WeConnect-2/internal/repository"
	"github.com/muhozi/WeConnect-2/internal/validation"
)

// BusinessHandler bundles dependencies for the business endpoints.
type BusinessHandler struct {
	Businesses *repository.BusinessRepo
	Reviews    *repository.ReviewRepo
	Hash       *hashid.Codec
	Rules      *validation.RuleSets
}

func NewBusinessHandler(b *repository.BusinessRepo, rev *repository.ReviewRepo, h *hashid.Codec, r *validation.RuleSets) *BusinessHandler {
	return &BusinessHandler{Businesses: b, Reviews: rev, Hash: h, Rules: r}
}

// businessPayload serializes a business for transmission. Internal ids
// are hashid-encoded on the way out; the raw integers never leave the
// service.
func businessPayload(codec *hashid.Codec, b *repository.Business) echo.Map {
	return echo.Map{
		"id":          codec.Encode(b.ID),
		"user_id":     codec.Encode(b.UserID),
		"name":        b.Name,
		"description": b.Description,
		"category":    b.Category,
		"country":     b.Country,
		"city":        b.City,
		"created_at":  b.CreatedAt,
	}
}

func businessListPayload(codec *hashid.Codec, items []*repository.Business) []echo.Map {
	out := make([]echo.Map, 0, len(items))
	for _, b := range items {
		out = append(out, businessPayload(codec, b))
	}
	return out
}

// notOwned is the response for a business that does not exist or belongs
// to another user. One message for both cases, so callers cannot probe
// which ids exist.
func notOwned(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{
		"status":  "error",
		"message": "This business doesn't exist or you don't have privileges to it",
	})
}

// Register handles POST /businesses and creates a business owned by the
// authenticated user.
func (h *BusinessHandler) Register(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"status": "error", "message": "Unauthorized"})
	}
	fields, err := bindFields(c)
	if err != nil {
		return invalidBody(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	errs, err := h.Rules.Business.Validate(ctx, fields)
	if err != nil {
		return serverError(c)
	}
	if errs != nil {
		return validationFailed(c, "Please provide required info", errs)
	}

	name := str(fields, "name")
	taken, err := h.Businesses.NameTakenByOwner(ctx, userID, name, 0)
	if err != nil {
		return serverError(c)
	}
	if taken {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"status":  "error",
			"message": "You have already a registered business with the same name",
		})
	}

	business := &repository.Business{
		UserID:      userID,
		Name:        name,
		Description: str(fields, "description"),
		Category:    str(fields, "category"), // optional, stored as sent
		Country:     str(fields, "country"),
		City:        str(fields, "city"),
	}
	if err := h.Businesses.Create(ctx, business); err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"status":  "ok",
		"message": "Your business has been successfully registered",
	})
}

// Update handles PUT /businesses/:id. Ownership is resolved before the
// payload is even validated, mirroring the delete path.
func (h *BusinessHandler) Update(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"status": "error", "message": "Unauthorized"})
	}
	id, err := h.Hash.Decode(c.Param("id"))
	if err != nil {
		return notOwned(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Businesses.GetByIDAndOwner(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrBusinessNotFound) {
			return notOwned(c)
		}
		return serverError(c)
	}

	fields, err := bindFields(c)
	if err != nil {
		return invalidBody(c)
	}
	errs, err := h.Rules.Business.Validate(ctx, fields)
	if err != nil {
		return serverError(c)
	}
	if errs != nil {
		return validationFailed(c, "Please provide required info", errs)
	}

	name := str(fields, "name")
	// Exclude the business's own row so keeping the name is not a clash.
	taken, err := h.Businesses.NameTakenByOwner(ctx, userID, name, id)
	if err != nil {
		return serverError(c)
	}
	if taken {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"status":  "error",
			"message": "You have already registered a business with same name",
		})
	}

	business := &repository.Business{
		ID:          id,
		UserID:      userID,
		Name:        name,
		Description: str(fields, "description"),
		Category:    str(fields, "category"),
		Country:     str(fields, "country"),
		City:        str(fields, "city"),
	}
	if err := h.Businesses.Update(ctx, business); err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusAccepted, echo.Map{
		"status":  "ok",
		"message": "Your business has been successfully updated",
	})
}

// Delete handles DELETE /businesses/:id. Reviews of the business are
// bulk-deleted first; a business never leaves orphan reviews behind.
func (h *BusinessHandler) Delete(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"status": "error", "message": "Unauthorized"})
	}
	id, err := h.Hash.Decode(c.Param("id"))
	if err != nil {
		return notOwned(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Businesses.GetByIDAndOwner(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrBusinessNotFound) {
			return notOwned(c)
		}
		return serverError(c)
	}

	if err := h.Reviews.DeleteByBusiness(ctx, id); err != nil {
		return serverError(c)
	}
	if err := h.Businesses.Delete(ctx, id); err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusAccepted, echo.Map{
		"status":  "ok",
		"message": "Your business has been successfully deleted",
	})
}

// AccountBusinesses handles GET /account/businesses and lists the
// caller's own businesses.
func (h *BusinessHandler) AccountBusinesses(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"status": "error", "message": "Unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Businesses.ListByOwner(ctx, userID)
	if err != nil {
		return serverError(c)
	}
	if len(items) == 0 {
		return c.JSON(http.StatusOK, echo.Map{
			"status":  "error",
			"message": "You don't have registered any business",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":     "ok",
		"message":    "You have businesses " + strconv.Itoa(len(items)) + " registered businesses",
		"businesses": businessListPayload(h.Hash, items),
	})
}

// List handles GET /businesses: the public directory with optional
// q/category/city/country filters, all case-insensitive, composed
// conjunctively.
func (h *BusinessHandler) List(c echo.Context) error {
	filter := repository.SearchFilter{
		Query:    c.QueryParam("q"),
		Category: c.QueryParam("category"),
		City:     c.QueryParam("city"),
		Country:  c.QueryParam("country"),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Businesses.Search(ctx, filter)
	if err != nil {
		return serverError(c)
	}
	if len(items) == 0 {
		return c.JSON(http.StatusOK, echo.Map{
			"status":  "error",
			"message": "No business found!",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":     "ok",
		"message":    "There are " + strconv.Itoa(len(items)) + " businesses found",
		"businesses": businessListPayload(h.Hash, items),
	})
}

// Get handles GET /businesses/:id. An undecodable external id behaves
// exactly like an unknown one.
func (h *BusinessHandler) Get(c echo.Context) error {
	id, err := h.Hash.Decode(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"status": "error", "message": "Business not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	business, err := h.Businesses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBusinessNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"status": "error", "message": "Business not found"})
		}
		return serverError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":   "ok",
		"message":  "Business found",
		"business": businessPayload(h.Hash, business),
	})
}
