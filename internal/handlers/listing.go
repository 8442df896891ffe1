package handlers

import (
	"errors"
	"net/http"

	"github.com/dimitrije/listing-browser/internal/services"
	"github.com/dimitrije/listing-browser/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

type ListingHandler struct {
	store     ListingStoreInterface
	validator *services.ListingValidator
	logger    *zap.Logger
}

func NewListingHandler(store ListingStoreInterface, validator *services.ListingValidator, logger *zap.Logger) *ListingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListingHandler{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// List returns the current snapshot, filtered by the optional q parameter.
func (h *ListingHandler) List(c *drift.Context) {
	snap := h.store.Snapshot()
	query := c.QueryParam("q")
	listings := services.Filter(snap.Listings(), query)

	_ = c.JSON(http.StatusOK, dto.ListingsResponse{
		Status:   string(snap.Status()),
		Error:    snap.ErrorMessage(),
		Query:    query,
		Count:    len(listings),
		Listings: dto.NewListingResponses(listings),
	})
}

func (h *ListingHandler) Get(c *drift.Context) {
	listing, ok := h.store.GetByID(c.Param("id"))
	if !ok {
		c.NotFound(services.ErrListingNotFound.Error())
		return
	}

	_ = c.JSON(http.StatusOK, dto.NewListingResponse(listing))
}

func (h *ListingHandler) Create(c *drift.Context) {
	var req dto.CreateListingRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	form := req.ToForm()
	if errs := h.validator.Validate(form); errs.HasErrors() {
		_ = c.JSON(http.StatusUnprocessableEntity, dto.ValidationErrorResponse{
			Error:  "validation failed",
			Errors: errs,
		})
		return
	}

	listing, err := h.store.Create(c.Request.Context(), form.ToInput())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidationFailed):
			_ = c.JSON(http.StatusUnprocessableEntity, dto.ValidationErrorResponse{
				Error:  err.Error(),
				Errors: map[string]string{},
			})
		case errors.Is(err, services.ErrCreateFailed):
			c.BadGateway("Failed to create listing. Please try again.")
		case errors.Is(err, services.ErrFetchFailed):
			c.BadGateway(err.Error())
		default:
			h.logger.Error("unexpected create error", zap.Error(err))
			c.InternalServerError("failed to create listing")
		}
		return
	}

	resp := dto.CreateListingResponse{}
	if listing != nil {
		lr := dto.NewListingResponse(*listing)
		resp.ID = listing.ID
		resp.Listing = &lr
	}
	_ = c.JSON(http.StatusCreated, resp)
}

// Refresh reloads the collection from the source. A failed fetch is
// reported as 502 with the resulting snapshot state.
func (h *ListingHandler) Refresh(c *drift.Context) {
	err := h.store.Refresh(c.Request.Context())
	snap := h.store.Snapshot()

	resp := dto.RefreshResponse{
		Status:  string(snap.Status()),
		Error:   snap.ErrorMessage(),
		Count:   snap.Len(),
		Version: snap.Version(),
	}
	if err != nil {
		if resp.Error == "" {
			resp.Error = err.Error()
		}
		_ = c.JSON(http.StatusBadGateway, resp)
		return
	}
	_ = c.JSON(http.StatusOK, resp)
}
