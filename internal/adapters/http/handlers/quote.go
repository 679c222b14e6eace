package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-sync/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-sync/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-sync/internal/app"
)

// importFormField is the multipart field an import file is uploaded in.
const importFormField = "file"

// QuoteHandler handles quote-related HTTP endpoints.
type QuoteHandler struct {
	service *app.QuoteService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *app.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		service: service,
	}
}

// ListQuotes handles GET /api/v1/quotes
// Returns a page of the quotes matching the category filter.
//
// @Summary List quotes
// @Tags quotes
// @Produce json
// @Param category query string false "Category filter; defaults to the saved filter"
// @Param cursor query string false "Cursor from a previous page"
// @Param limit query int false "Page size (1-100)"
// @Success 200 {object} dto.PaginatedResponse[dto.QuoteResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/quotes [get]
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	var req dto.ListQuotesRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	ctx := c.Request.Context()

	// Cursors are bound to the filter actually applied, so resolve it here.
	filter := strings.TrimSpace(req.Category)
	if filter == "" {
		saved, err := h.service.SelectedFilter(ctx)
		if err != nil {
			dto.HandleError(c, err)
			return
		}

		filter = saved
	}

	offset, err := req.Offset(filter)
	if err != nil {
		dto.RespondWithErrorCode(c, dto.ErrorCodeBadRequest, err.Error())
		return
	}

	quotes, err := h.service.ListQuotes(ctx, filter)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Paginate(dto.NewQuoteResponses(quotes), offset, req.GetLimit(), filter))
}

// AddQuote handles POST /api/v1/quotes
// Stores a manually entered quote and returns it as saved.
//
// @Summary Add a quote
// @Tags quotes
// @Accept json
// @Produce json
// @Param body body dto.AddQuoteRequest true "Quote"
// @Success 201 {object} dto.QuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/quotes [post]
func (h *QuoteHandler) AddQuote(c *gin.Context) {
	var req dto.AddQuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	quote, err := h.service.AddQuote(c.Request.Context(), req.Text, req.Category)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewQuoteResponse(quote))
}

// GetRandomQuote handles GET /api/v1/quotes/random
// Returns a random quote and records it as the session's last viewed quote.
//
// @Summary Get a random quote
// @Tags quotes
// @Produce json
// @Param category query string false "Category filter; defaults to the saved filter"
// @Success 200 {object} dto.QuoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/quotes/random [get]
func (h *QuoteHandler) GetRandomQuote(c *gin.Context) {
	var req dto.RandomQuoteRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	quote, err := h.service.RandomQuote(c.Request.Context(), middleware.GetSessionID(c), req.Category)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(quote))
}

// ListCategories handles GET /api/v1/quotes/categories
//
// @Summary List categories
// @Tags quotes
// @Produce json
// @Success 200 {object} dto.CategoriesResponse
// @Router /api/v1/quotes/categories [get]
func (h *QuoteHandler) ListCategories(c *gin.Context) {
	ctx := c.Request.Context()

	selected, err := h.service.SelectedFilter(ctx)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CategoriesResponse{
		Categories: h.service.Categories(ctx),
		Selected:   selected,
	})
}

// ExportQuotes handles GET /api/v1/quotes/export
// Returns the collection as a downloadable JSON file.
//
// @Summary Export quotes
// @Tags quotes
// @Produce json
// @Success 200 {array} dto.QuoteResponse
// @Router /api/v1/quotes/export [get]
func (h *QuoteHandler) ExportQuotes(c *gin.Context) {
	data, err := h.service.Export(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+app.ExportFilename+`"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// ImportQuotes handles POST /api/v1/quotes/import
// Replaces the collection with an uploaded JSON array, sent either as the raw
// request body or as a multipart "file" field.
//
// @Summary Import quotes
// @Tags quotes
// @Accept json,mpfd
// @Produce json
// @Success 200 {object} app.ImportResult
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/quotes/import [post]
func (h *QuoteHandler) ImportQuotes(c *gin.Context) {
	data, err := readImport(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			dto.RespondWithErrorCode(c, dto.ErrorCodeBadRequest, "import file is too large")
			return
		}

		dto.RespondWithErrorCode(c, dto.ErrorCodeBadRequest, err.Error())

		return
	}

	result, err := h.service.Import(c.Request.Context(), data)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// readImport returns the import document from a multipart upload or the raw body.
func readImport(c *gin.Context) ([]byte, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return io.ReadAll(c.Request.Body)
	}

	header, err := c.FormFile(importFormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, errors.New(`multipart field "file" is required`)
		}

		return nil, err
	}

	return readFormFile(header)
}

func readFormFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}

// GetFilter handles GET /api/v1/filter
//
// @Summary Get the saved category filter
// @Tags filter
// @Produce json
// @Success 200 {object} dto.FilterResponse
// @Router /api/v1/filter [get]
func (h *QuoteHandler) GetFilter(c *gin.Context) {
	filter, err := h.service.SelectedFilter(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FilterResponse{Category: filter})
}

// PutFilter handles PUT /api/v1/filter
// A blank category selects every category.
//
// @Summary Save the category filter
// @Tags filter
// @Accept json
// @Produce json
// @Param body body dto.FilterRequest true "Filter"
// @Success 200 {object} dto.FilterResponse
// @Router /api/v1/filter [put]
func (h *QuoteHandler) PutFilter(c *gin.Context) {
	var req dto.FilterRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	filter, err := h.service.SetSelectedFilter(c.Request.Context(), req.Category)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FilterResponse{Category: filter})
}

// GetLastViewed handles GET /api/v1/session/last-viewed
//
// @Summary Get the session's last viewed quote
// @Tags session
// @Produce json
// @Success 200 {object} dto.LastViewedResponse
// @Router /api/v1/session/last-viewed [get]
func (h *QuoteHandler) GetLastViewed(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	text, err := h.service.LastViewed(c.Request.Context(), sessionID)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LastViewedResponse{SessionID: sessionID, Text: text})
}

// RegisterQuoteRoutes registers quote, filter and session routes on the given router group.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.ListQuotes)
	quotes.POST("", h.AddQuote)
	quotes.GET("/random", h.GetRandomQuote)
	quotes.GET("/categories", h.ListCategories)
	quotes.GET("/export", h.ExportQuotes)
	quotes.POST("/import", h.ImportQuotes)

	rg.GET("/filter", h.GetFilter)
	rg.PUT("/filter", h.PutFilter)

	rg.GET("/session/last-viewed", h.GetLastViewed)
}
