package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookly/internal/models"
)

type Deps struct {
	Auth    *AuthHandler
	Books   *BookHandler
	Reviews *ReviewHandler
	MW      *AuthMiddleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/signup", d.Auth.Signup)
	auth.GET("/verify/:token", d.Auth.Verify)
	auth.POST("/login", d.Auth.Login)
	auth.GET("/refresh_token", d.Auth.RefreshToken, d.MW.RequireToken(KindRefresh))
	auth.DELETE("/logout", d.Auth.Logout, d.MW.RequireToken(KindAccess))
	auth.GET("/me", d.Auth.Me, d.MW.RequireToken(KindAccess), d.MW.RequireRoles(models.RoleAdmin))
	auth.POST("/password-reset", d.Auth.PasswordReset)
	auth.POST("/confirm-reset-password/:token", d.Auth.ConfirmResetPassword)

	books := v1.Group("/books")
	books.GET("", d.Books.List)
	books.GET("/search", d.Books.Search)
	books.GET("/:uid", d.Books.Get)
	books.POST("", d.Books.Create, d.MW.RequireToken(KindAccess), d.MW.RequireVerified())
	books.PATCH("/:uid", d.Books.Patch, d.MW.RequireToken(KindAccess), d.MW.RequireVerified())
	books.DELETE("/:uid", d.Books.Delete, d.MW.RequireToken(KindAccess), d.MW.RequireVerified())

	v1.GET("/users/:uid/books", d.Books.UserBooks)

	reviews := v1.Group("/reviews")
	reviews.GET("/book/:book_uid", d.Reviews.ListByBook)
	reviews.GET("/:uid", d.Reviews.Get)
	reviews.POST("/book/:book_uid", d.Reviews.Create, d.MW.RequireToken(KindAccess), d.MW.RequireVerified())
	reviews.DELETE("/:uid", d.Reviews.Delete, d.MW.RequireToken(KindAccess))
}
