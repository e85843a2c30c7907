package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookly/internal/service"
)

type ReviewHandler struct {
	Svc *service.ReviewService
	MW  *AuthMiddleware
}

type reviewCreateRequest struct {
	Rating     int    `json:"rating" validate:"required,gte=1,lte=5"`
	ReviewText string `json:"review_text" validate:"required"`
}

func (h *ReviewHandler) Create(c echo.Context) error {
	bookUID, err := uuid.Parse(c.Param("book_uid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid book uid")
	}

	claims := ClaimsFrom(c)

	var req reviewCreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	review, err := h.Svc.Create(c.Request().Context(), claims.User.Email, bookUID, service.ReviewCreateInput{
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) Get(c echo.Context) error {
	uid, err := uuid.Parse(c.Param("uid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid review uid")
	}

	review, err := h.Svc.Get(c.Request().Context(), uid)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) ListByBook(c echo.Context) error {
	bookUID, err := uuid.Parse(c.Param("book_uid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid book uid")
	}

	reviews, err := h.Svc.ListByBook(c.Request().Context(), bookUID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) Delete(c echo.Context) error {
	uid, err := uuid.Parse(c.Param("uid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid review uid")
	}

	user, err := h.MW.CurrentUser(c)
	if err != nil {
		return err
	}

	if err := h.Svc.Delete(c.Request().Context(), user, uid); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
