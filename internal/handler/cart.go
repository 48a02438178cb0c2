package handler

import (
	"checkout-core/internal/apperr"
	"checkout-core/internal/dto"
	"checkout-core/internal/middleware"
	"checkout-core/internal/service"
	"net/http"

	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	cartService     service.CartService
	checkoutService service.CheckoutService
}

func NewCartHandler(cartService service.CartService, checkoutService service.CheckoutService) *CartHandler {
	return &CartHandler{
		cartService:     cartService,
		checkoutService: checkoutService,
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	cart, err := h.cartService.GetCart(ctx, middleware.StoreID(c), middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewCartResponse(cart))
}

func (h *CartHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.AddItemRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	cart, err := h.cartService.AddItem(ctx, middleware.StoreID(c), middleware.UserID(c), req.ItemID, req.Quantity)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewCartResponse(cart))
}

func (h *CartHandler) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	cartItemID := c.Param("cartItemID")

	var req dto.UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	cart, err := h.cartService.UpdateItem(ctx, middleware.StoreID(c), middleware.UserID(c), cartItemID, req.Quantity)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewCartResponse(cart))
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	cartItemID := c.Param("cartItemID")

	cart, err := h.cartService.RemoveItem(ctx, middleware.StoreID(c), middleware.UserID(c), cartItemID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewCartResponse(cart))
}

func (h *CartHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	resp, err := h.checkoutService.Checkout(ctx, middleware.StoreID(c), middleware.UserID(c), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) PaymentMethods(c echo.Context) error {
	ctx := c.Request().Context()

	methods, err := h.checkoutService.PaymentMethods(ctx, middleware.StoreID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, methods)
}
