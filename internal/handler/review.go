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
	"github.com/muhozi/WeConnect-2/internal/queue"
	"github.com/muhozi/WeConnect-2/internal/repository"
	"github.com/muhozi/WeConnect-2/internal/validation"
)

// ReviewPublisher emits a review.created event. Production wiring passes
// service.PublishReviewCreated; tests substitute a stub so no broker is
// involved.
type ReviewPublisher func(ctx context.Context, event queue.ReviewCreatedEvent) error

// ReviewHandler bundles dependencies for the review endpoints.
type ReviewHandler struct {
	Businesses *repository.BusinessRepo
	Reviews    *repository.ReviewRepo
	Hash       *hashid.Codec
	Rules      *validation.RuleSets
	Publish    ReviewPublisher
}

func NewReviewHandler(b *repository.BusinessRepo, rev *repository.ReviewRepo, h *hashid.Codec, r *validation.RuleSets, p ReviewPublisher) *ReviewHandler {
	return &ReviewHandler{Businesses: b, Reviews: rev, Hash: h, Rules: r, Publish: p}
}

func reviewPayload(codec *hashid.Codec, r *repository.Review) echo.Map {
	return echo.Map{
		"id":          codec.Encode(r.ID),
		"user_id":     codec.Encode(r.UserID),
		"description": r.Description,
		"created_at":  r.CreatedAt,
	}
}

func missingBusiness(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{
		"status":  "error",
		"message": "This business doesn't exist",
	})
}

// Add handles POST /businesses/:id/reviews. Any authenticated user may
// review any existing business, including their own.
func (h *ReviewHandler) Add(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"status": "error", "message": "Unauthorized"})
	}
	businessID, err := h.Hash.Decode(c.Param("id"))
	if err != nil {
		return missingBusiness(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	business, err := h.Businesses.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, repository.ErrBusinessNotFound) {
			return missingBusiness(c)
		}
		return serverError(c)
	}

	fields, err := bindFields(c)
	if err != nil {
		return invalidBody(c)
	}
	errs, err := h.Rules.Review.Validate(ctx, fields)
	if err != nil {
		return serverError(c)
	}
	if errs != nil {
		return validationFailed(c, "Please provide valid details", errs)
	}

	review := &repository.Review{
		BusinessID:  business.ID,
		UserID:      userID,
		Description: str(fields, "review"),
	}
	if err := h.Reviews.Create(ctx, review); err != nil {
		return serverError(c)
	}

	// Best effort, off the request path: a slow or blackholed broker must
	// not hold the response, so the publish runs on its own context.
	if h.Publish != nil {
		event := queue.ReviewCreatedEvent{
			ReviewID:     review.ID,
			BusinessID:   business.ID,
			BusinessName: business.Name,
			UserID:       userID,
			Review:       review.Description,
			CreatedAt:    time.Now().UTC().Format("2006-01-02 15:04:05"),
		}
		go func() {
			pctx, pcancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer pcancel()
			_ = h.Publish(pctx, event)
		}()
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"status":  "ok",
		"message": "Your review has been sent",
	})
}

// List handles GET /businesses/:id/reviews. A business with no reviews is
// a normal 200 with an empty list, not an error.
func (h *ReviewHandler) List(c echo.Context) error {
	businessID, err := h.Hash.Decode(c.Param("id"))
	if err != nil {
		return missingBusiness(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	business, err := h.Businesses.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, repository.ErrBusinessNotFound) {
			return missingBusiness(c)
		}
		return serverError(c)
	}

	reviews, err := h.Reviews.ListByBusiness(ctx, business.ID)
	if err != nil {
		return serverError(c)
	}
	if len(reviews) == 0 {
		return c.JSON(http.StatusOK, echo.Map{
			"status":   "ok",
			"message":  "No business review yet",
			"business": businessPayload(h.Hash, business),
			"reviews":  []echo.Map{},
		})
	}

	out := make([]echo.Map, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, reviewPayload(h.Hash, r))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":   "ok",
		"message":  strconv.Itoa(len(reviews)) + " reviews found",
		"business": businessPayload(h.Hash, business),
		"reviews":  out,
	})
}
