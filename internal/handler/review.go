package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/service"
)

type ReviewHandler struct {
	base
	Reviews *service.ReviewService
}

func NewReviewHandler(reviews *service.ReviewService, prod bool, log zerolog.Logger) *ReviewHandler {
	if reviews == nil {
		panic("nil review service passed to NewReviewHandler")
	}
	return &ReviewHandler{base: newBase(prod, log, "review-handler"), Reviews: reviews}
}

type reviewReq struct {
	MovieID string `json:"movieId" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
}

// Create handles POST /api/reviews and refreshes the movie's average.
func (h *ReviewHandler) Create(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return h.fail(c, err)
	}
	var req reviewReq
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	r, err := h.Reviews.Create(ctx, uid, req.MovieID, req.Rating, req.Comment)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, r)
}

// List handles GET /api/reviews/:movieId.
func (h *ReviewHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	reviews, err := h.Reviews.List(ctx, c.Param("movieId"))
	if err != nil {
		return h.fail(c, err)
	}
	if reviews == nil {
		reviews = []model.Review{}
	}
	return c.JSON(http.StatusOK, reviews)
}
