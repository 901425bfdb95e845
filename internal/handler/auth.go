package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/service"
)

// AuthHandler exposes registration, login, token rotation and password
// reset.
type AuthHandler struct {
	base
	Auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService, prod bool, log zerolog.Logger) *AuthHandler {
	if auth == nil {
		panic("nil auth service passed to NewAuthHandler")
	}
	return &AuthHandler{base: newBase(prod, log, "auth-handler"), Auth: auth}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}
type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}
type logoutReq struct {
	RefreshToken string `json:"refresh_token"`
}
type forgotReq struct {
	Email string `json:"email" validate:"required,email"`
}
type resetReq struct {
	Password string `json:"password" validate:"required,min=6"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	IsAdmin bool   `json:"isAdmin"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

func toAuthResp(s service.Session) authResp {
	return authResp{
		User:    toUserPart(s.User),
		Access:  tokenPart{Token: s.Access.Token, Expires: s.Access.Exp},
		Refresh: tokenPart{Token: s.Refresh.Raw, Expires: s.Refresh.Exp}, // raw back to client
	}
}

func toUserPart(u model.User) userPart {
	return userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, IsAdmin: u.IsAdmin()}
}

// Register creates a customer account and signs it in.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Auth.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, toAuthResp(s))
}

// Login verifies credentials and returns a new pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, toAuthResp(s))
}

// Refresh rotates a refresh token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, toAuthResp(s))
}

// Logout revokes the given refresh token, or every session of the bearer
// when no token is sent.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req logoutReq
	if err := c.Bind(&req); err != nil {
		return h.fail(c, service.ErrInvalidInput)
	}
	var uid uint64
	if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		claims, err := h.Auth.ParseAccess(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			return h.fail(c, err)
		}
		uid = claims.UserID
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Auth.Logout(ctx, uid, req.RefreshToken); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Auth.Me(ctx, uid)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotReq
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Auth.ForgotPassword(ctx, req.Email); err != nil {
		return h.fail(c, err)
	}
	// same answer for unknown addresses
	return c.JSON(http.StatusOK, echo.Map{"message": "If the account exists, a reset link has been sent."})
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetReq
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Auth.ResetPassword(ctx, c.Param("token"), req.Password)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, toAuthResp(s))
}
