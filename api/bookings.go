package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/travelbook/internal/dedup"
	"github.com/Domenick1991/travelbook/internal/payment"
	"github.com/Domenick1991/travelbook/internal/ratecache"
	"github.com/Domenick1991/travelbook/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.UseCase
}

func NewBookingHandler(service booking.UseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/:locator/cancellation", h.lookupCancellation)
	router.POST("/:locator/cancellation", h.confirmCancellation)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req booking.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Customer.FirstName == "" || req.Customer.LastName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer first and last name are required"})
		return
	}

	resp, err := h.service.Book(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusForBookingError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *BookingHandler) lookupCancellation(c *gin.Context) {
	lastName := c.Query("last_name")
	if lastName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "last_name is required"})
		return
	}

	quote, err := h.service.LookupCancellation(c.Request.Context(), c.Param("locator"), lastName)
	if err != nil {
		c.JSON(statusForCancellationError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, quote)
}

type confirmCancellationRequest struct {
	LastName string `json:"last_name"`
}

func (h *BookingHandler) confirmCancellation(c *gin.Context) {
	var req confirmCancellationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.LastName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "last_name is required"})
		return
	}

	result, err := h.service.ConfirmCancellation(c.Request.Context(), c.Param("locator"), req.LastName)
	if err != nil {
		c.JSON(statusForCancellationError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func statusForBookingError(err error) int {
	var (
		priceErr    *booking.PriceVerificationError
		payErr      *booking.PaymentError
		providerErr *booking.ProviderBookingError
	)
	switch {
	case errors.Is(err, dedup.ErrDuplicateBooking):
		return http.StatusConflict
	case errors.Is(err, booking.ErrNoProducts),
		errors.Is(err, booking.ErrEmptyActivityItems),
		errors.Is(err, booking.ErrMismatchedCurrencies):
		return http.StatusBadRequest
	case errors.Is(err, ratecache.ErrRateNotFound):
		return http.StatusGone
	case errors.As(err, &priceErr):
		return http.StatusConflict
	case errors.As(err, &payErr):
		if payErr.Code == payment.CodeProcessorError {
			return http.StatusBadGateway
		}
		return http.StatusPaymentRequired
	case errors.As(err, &providerErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func statusForCancellationError(err error) int {
	var cancelErr *booking.CancellationError
	if errors.As(err, &cancelErr) {
		if cancelErr.NotFound {
			return http.StatusNotFound
		}
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
