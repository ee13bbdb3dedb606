package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/dues_ledger/internal/core/ports/services"
	"github.com/SscSPs/dues_ledger/internal/dto"
	"github.com/SscSPs/dues_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler handles posting and reading ledger entries.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// registerLedgerRoutes registers the ledger routes and the per-member outstanding listing.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := &ledgerHandler{ledgerService: ledgerService}

	rg.GET("/members/:memberID/outstanding", h.listOutstanding) // Own or admin
	rg.GET("/categories", h.listCategories)

	ledger := rg.Group("/ledger")
	{
		ledger.GET("/entries", h.listEntries)
		ledger.GET("/entries/:entryID", h.getEntry)

		admin := ledger.Group("", middleware.RequireAdmin())
		admin.POST("/debts", h.postDebt)
		admin.POST("/payments", h.postPayment)
		admin.DELETE("/entries/:entryID", h.deleteEntry)
	}
}

// postDebt godoc
// @Summary Post a debt
// @Description Charges a member. The full amount starts outstanding.
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   debt body dto.PostDebtRequest true "Debt details"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} ErrorResponse "Invalid input or unknown member"
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Concurrent modification, retry"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /ledger/debts [post]
func (h *ledgerHandler) postDebt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PostDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for post debt request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	entry, err := h.ledgerService.PostDebt(c.Request.Context(), req, actorID)
	if err != nil {
		respondWithError(c, err, "Failed to post debt")
		return
	}
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry, time.Now()))
}

// postPayment godoc
// @Summary Post a payment
// @Description Records a payment and applies it to the member's outstanding debts oldest first.
// @Description Any amount left after every debt is paid is reported as surplus and not credited.
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   payment body dto.PostPaymentRequest true "Payment details"
// @Success 201 {object} dto.PaymentPostingResponse
// @Failure 400 {object} ErrorResponse "Invalid input or unknown member"
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Concurrent modification, retry"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /ledger/payments [post]
func (h *ledgerHandler) postPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PostPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for post payment request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	posting, err := h.ledgerService.PostPayment(c.Request.Context(), req, actorID)
	if err != nil {
		respondWithError(c, err, "Failed to post payment")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPaymentPostingResponse(posting, time.Now()))
}

// getEntry godoc
// @Summary Get a ledger entry
// @Tags ledger
// @Produce  json
// @Param   entryID path int true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /ledger/entries/{entryID} [get]
func (h *ledgerHandler) getEntry(c *gin.Context) {
	entryID, err := dto.ParseEntryID(c.Param("entryID"))
	if err != nil {
		respondWithError(c, err, "Invalid entry ID")
		return
	}

	entry, err := h.ledgerService.GetEntryByID(c.Request.Context(), entryID)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve entry")
		return
	}
	if _, ok := requireSelfOrAdmin(c, entry.MemberID); !ok {
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry, time.Now()))
}

// listEntries godoc
// @Summary List ledger entries
// @Description Lists entries newest first. Non-admin members only see their own entries.
// @Tags ledger
// @Produce  json
// @Param   memberID query string false "Member ID"
// @Param   category query string false "Category name"
// @Param   kind query string false "DEBT or PAYMENT"
// @Param   from query string false "Posted on or after (YYYY-MM-DD)"
// @Param   to query string false "Posted on or before (YYYY-MM-DD)"
// @Param   q query string false "Search member ID, member name or category"
// @Param   outstanding query bool false "Only debts with a remaining balance"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /ledger/entries [get]
func (h *ledgerHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	if !middleware.GetIsAdminFromContext(c) {
		params.MemberID = actorID
	}

	filter, err := params.ToFilter()
	if err != nil {
		respondWithError(c, err, "Invalid filter")
		return
	}
	entries, next, err := h.ledgerService.ListEntries(c.Request.Context(), filter, params.Limit, params.NextToken)
	if err != nil {
		respondWithError(c, err, "Failed to list entries")
		return
	}
	c.JSON(http.StatusOK, dto.ListEntriesResponse{
		Entries:   dto.ToEntryResponses(entries, time.Now()),
		NextToken: next,
	})
}

// listOutstanding godoc
// @Summary List a member's outstanding debts
// @Description Unpaid debts in the order payments are applied to them (oldest first).
// @Tags ledger
// @Produce  json
// @Param   memberID path string true "Member ID"
// @Success 200 {object} dto.ListOutstandingResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /members/{memberID}/outstanding [get]
func (h *ledgerHandler) listOutstanding(c *gin.Context) {
	memberID := c.Param("memberID")
	if _, ok := requireSelfOrAdmin(c, memberID); !ok {
		return
	}

	debts, err := h.ledgerService.ListOutstanding(c.Request.Context(), memberID)
	if err != nil {
		respondWithError(c, err, "Failed to list outstanding debts")
		return
	}
	c.JSON(http.StatusOK, dto.ListOutstandingResponse{
		MemberID: memberID,
		Debts:    dto.ToEntryResponses(debts, time.Now()),
	})
}

// deleteEntry godoc
// @Summary Delete a ledger entry
// @Description Removes an entry. Balances of other entries are left as they are.
// @Tags ledger
// @Param   entryID path int true "Entry ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /ledger/entries/{entryID} [delete]
func (h *ledgerHandler) deleteEntry(c *gin.Context) {
	entryID, err := dto.ParseEntryID(c.Param("entryID"))
	if err != nil {
		respondWithError(c, err, "Invalid entry ID")
		return
	}
	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	if err := h.ledgerService.DeleteEntry(c.Request.Context(), entryID, actorID); err != nil {
		respondWithError(c, err, "Failed to delete entry")
		return
	}
	c.Status(http.StatusNoContent)
}

// listCategories godoc
// @Summary List categories
// @Tags ledger
// @Produce  json
// @Success 200 {object} dto.ListCategoriesResponse
// @Security BearerAuth
// @Router /categories [get]
func (h *ledgerHandler) listCategories(c *gin.Context) {
	categories, err := h.ledgerService.ListCategories(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to list categories")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCategoriesResponse(categories))
}
