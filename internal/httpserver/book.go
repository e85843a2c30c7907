package httpserver

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookly/internal/service"
	"github.com/Skotchmaster/bookly/internal/util"
)

type BookHandler struct {
	Svc *service.BookService
	MW  *AuthMiddleware
}

type bookCreateRequest struct {
	Title         string `json:"title" validate:"required"`
	Author        string `json:"author" validate:"required"`
	Publisher     string `json:"publisher"`
	PublishedDate string `json:"published_date" validate:"required,datetime=2006-01-02"`
	PageCount     int    `json:"page_count" validate:"gte=0"`
	Language      string `json:"language"`
}

type bookPatchRequest struct {
	Title         *string `json:"title"`
	Author        *string `json:"author"`
	Publisher     *string `json:"publisher"`
	PublishedDate *string `json:"published_date" validate:"omitempty,datetime=2006-01-02"`
	PageCount     *int    `json:"page_count" validate:"omitempty,gte=0"`
	Language      *string `json:"language"`
}

func (h *BookHandler) List(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	books, total, err := h.Svc.List(c.Request().Context(), offset, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": books,
		"meta": echo.Map{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *BookHandler) Get(c echo.Context) error {
	uid, err := uuid.Parse(c.Param("uid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid book uid")
	}

	book, err := h.Svc.Get(c.Request().Context(), uid)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, book)
}

func (h *BookHandler) Create(c echo.Context) error {
	user, err := h.MW.CurrentUser(c)
	if err != nil {
		return err
	}

	var req bookCreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	book, err := h.Svc.Create(c.Request().Context(), user.UID, service.BookCreateInput{
		Title:         req.Title,
		Author:        req.Author,
		Publisher:     req.Publisher,
		PublishedDate: req.PublishedDate,
		PageCount:     req.PageCount,
		Language:      req.Language,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, book)
}

func (h *BookHandler) Patch(c echo.Context) error {
	uid, err := uuid.Parse(c.Param("uid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid book uid")
	}

	user, err := h.MW.CurrentUser(c)
	if err != nil {
		return err
	}

	var req bookPatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	book, err := h.Svc.Patch(c.Request().Context(), user, uid, service.BookPatch{
		Title:         req.Title,
		Author:        req.Author,
		Publisher:     req.Publisher,
		PublishedDate: req.PublishedDate,
		PageCount:     req.PageCount,
		Language:      req.Language,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, book)
}

func (h *BookHandler) Delete(c echo.Context) error {
	uid, err := uuid.Parse(c.Param("uid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid book uid")
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

func (h *BookHandler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing query parameter q")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	total, books, err := h.Svc.Search(c.Request().Context(), q, from, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"total": total, "books": books})
}

func (h *BookHandler) UserBooks(c echo.Context) error {
	uid, err := uuid.Parse(c.Param("uid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user uid")
	}

	books, err := h.Svc.ListByUser(c.Request().Context(), uid)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, books)
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
