package server

import (
	"checkout-core/internal/apperr"
	"checkout-core/internal/dto"
	"checkout-core/internal/handler"
	"checkout-core/internal/metrics"
	appmiddleware "checkout-core/internal/middleware"
	"checkout-core/internal/service"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo           *echo.Echo
	cartHandler    *handler.CartHandler
	paymentHandler *handler.PaymentHandler
}

func NewServer(
	cartService service.CartService,
	checkoutService service.CheckoutService,
	paymentService service.PaymentService,
	webhookService service.WebhookService,
	m *metrics.Metrics,
	jwtSecret string,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.HTTPErrorHandler = errorHandler

	s := &Server{
		echo:           e,
		cartHandler:    handler.NewCartHandler(cartService, checkoutService),
		paymentHandler: handler.NewPaymentHandler(paymentService, webhookService),
	}

	s.setupRoutes(m, jwtSecret)
	return s
}

func (s *Server) setupRoutes(m *metrics.Metrics, jwtSecret string) {
	s.echo.GET("/metrics", echo.WrapHandler(m.Handler()))

	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- provider webhooks (no buyer auth) --------
	api.POST("/webhooks/payments/:provider", s.paymentHandler.ProviderWebhook)

	authed := api.Group("", appmiddleware.AuthMiddleware(jwtSecret))

	// -------- cart & checkout --------
	authed.GET("/cart", s.cartHandler.GetCart)
	authed.POST("/cart/items", s.cartHandler.AddItem)
	authed.PUT("/cart/items/:cartItemID", s.cartHandler.UpdateItem)
	authed.DELETE("/cart/items/:cartItemID", s.cartHandler.RemoveItem)
	authed.POST("/cart/checkout", s.cartHandler.Checkout)
	authed.GET("/checkout/payment-methods", s.cartHandler.PaymentMethods)

	// -------- orders / payments --------
	authed.POST("/orders/:orderID/mark-paid", s.paymentHandler.MarkPaid, appmiddleware.RequireOwner)
	authed.GET("/orders/:orderID/amount-paid", s.paymentHandler.AmountPaid)
}

// errorHandler is the single boundary where errors become responses. Typed
// errors keep their code and status; everything else gets a correlation id
// and a generic body so internals never leak.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	if appErr, ok := apperr.As(err); ok {
		_ = c.JSON(appErr.HTTPStatus, dto.ErrorResponse{
			Code:    appErr.Code,
			Message: appErr.Message,
		})
		return
	}

	if httpErr, ok := err.(*echo.HTTPError); ok {
		_ = c.JSON(httpErr.Code, dto.ErrorResponse{
			Code:    apperr.CodeValidation,
			Message: http.StatusText(httpErr.Code),
		})
		return
	}

	correlationID := uuid.NewString()
	log.Printf("internal error [%s] %s %s: %v", correlationID, c.Request().Method, c.Request().URL.Path, err)
	_ = c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Code:          apperr.CodeInternal,
		Message:       "internal error",
		CorrelationID: correlationID,
	})
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
