package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"clarity/internal/handler"
	"clarity/internal/service"
)

// Register wires routes and middleware. Every non-auth route resolves the
// bearer token to a user before its handler runs.
func Register(
	e *echo.Echo,
	authService service.AuthService,
	authHandler *handler.AuthHandler,
	transactionHandler *handler.TransactionHandler,
	dashboardHandler *handler.DashboardHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh", authHandler.Refresh)
	e.POST("/auth/logout", authHandler.Logout)

	// Secured routes: the JWT middleware validates the token and resolves
	// it to a user, which lands in the context under handler.CurrentUserKey.
	secured := e.Group("", echojwt.WithConfig(echojwt.Config{
		ContextKey:  handler.CurrentUserKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			return authService.Authenticate(c.Request().Context(), tokenString)
		},
	}))

	secured.GET("/auth/me", authHandler.Me)

	// Transaction routes
	secured.POST("/transactions", transactionHandler.Create)
	secured.GET("/transactions", transactionHandler.List)
	secured.GET("/transactions/:id", transactionHandler.Get)
	secured.PUT("/transactions/:id", transactionHandler.Update)
	secured.DELETE("/transactions/:id", transactionHandler.Delete)
	secured.GET("/categories", transactionHandler.Categories)

	// Dashboard routes
	secured.GET("/dashboard/stats", dashboardHandler.Stats)
	secured.GET("/dashboard/categories/:type", dashboardHandler.CategoryBreakdown)
	secured.GET("/dashboard/monthly", dashboardHandler.MonthlySummary)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
