package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/service"
)

// MovieHandler serves the catalog. Reads are public, writes are admin only.
type MovieHandler struct {
	base
	Catalog *service.CatalogService
}

func NewMovieHandler(catalog *service.CatalogService, prod bool, log zerolog.Logger) *MovieHandler {
	if catalog == nil {
		panic("nil catalog passed to NewMovieHandler")
	}
	return &MovieHandler{base: newBase(prod, log, "movie-handler"), Catalog: catalog}
}

func (h *MovieHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	movies, err := h.Catalog.List(ctx)
	if err != nil {
		return h.fail(c, err)
	}
	if movies == nil {
		movies = []model.Movie{}
	}
	return c.JSON(http.StatusOK, movies)
}

func (h *MovieHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Catalog.Get(ctx, c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *MovieHandler) Create(c echo.Context) error {
	var in service.MovieInput
	if err := h.bind(c, &in); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Catalog.Create(ctx, in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *MovieHandler) Update(c echo.Context) error {
	var in service.MovieInput
	if err := h.bind(c, &in); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Catalog.Update(ctx, c.Param("id"), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *MovieHandler) Delete(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Catalog.Delete(ctx, c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Movie removed successfully"})
}
