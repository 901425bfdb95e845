package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-ticket-booking/internal/service"
)

type AdminHandler struct {
	base
	Admin *service.AdminService
}

func NewAdminHandler(admin *service.AdminService, prod bool, log zerolog.Logger) *AdminHandler {
	if admin == nil {
		panic("nil admin service passed to NewAdminHandler")
	}
	return &AdminHandler{base: newBase(prod, log, "admin-handler"), Admin: admin}
}

// Metrics returns dashboard counts and the five latest bookings.
func (h *AdminHandler) Metrics(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Admin.Metrics(ctx)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, m)
}
