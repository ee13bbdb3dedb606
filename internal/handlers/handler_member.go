package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/dues_ledger/internal/core/ports/services"
	"github.com/SscSPs/dues_ledger/internal/dto"
	"github.com/SscSPs/dues_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// memberHandler handles HTTP requests related to members.
type memberHandler struct {
	memberService portssvc.MemberSvcFacade
}

// registerMemberRoutes registers all member-related routes.
func registerMemberRoutes(rg *gin.RouterGroup, memberService portssvc.MemberSvcFacade) {
	h := &memberHandler{memberService: memberService}

	members := rg.Group("/members")
	{
		members.GET("/:memberID", h.getMember) // Own or admin

		admin := members.Group("", middleware.RequireAdmin())
		admin.GET("", h.listMembers)
		admin.POST("", h.createMember)
		admin.PUT("/:memberID", h.updateMember)
		admin.DELETE("/:memberID", h.deleteMember)
	}
}

// createMember godoc
// @Summary Register a member
// @Description Registers a new member. Members without a password cannot log in.
// @Tags members
// @Accept  json
// @Produce  json
// @Param   member body dto.CreateMemberRequest true "Member details"
// @Success 201 {object} dto.MemberResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 403 {object} ErrorResponse "Admin privileges required"
// @Failure 409 {object} ErrorResponse "Member ID already registered"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /members [post]
func (h *memberHandler) createMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create member request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	member, err := h.memberService.CreateMember(c.Request.Context(), req, actorID)
	if err != nil {
		respondWithError(c, err, "Failed to create member")
		return
	}
	c.JSON(http.StatusCreated, dto.ToMemberResponse(member))
}

// getMember godoc
// @Summary Get a member
// @Description Retrieves a member. Members may read themselves; admins may read anyone.
// @Tags members
// @Produce  json
// @Param   memberID path string true "Member ID"
// @Success 200 {object} dto.MemberResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /members/{memberID} [get]
func (h *memberHandler) getMember(c *gin.Context) {
	memberID := c.Param("memberID")
	if _, ok := requireSelfOrAdmin(c, memberID); !ok {
		return
	}

	member, err := h.memberService.GetMemberByID(c.Request.Context(), memberID)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve member")
		return
	}
	c.JSON(http.StatusOK, dto.ToMemberResponse(member))
}

// listMembers godoc
// @Summary List members
// @Description Retrieves a page of members ordered by name.
// @Tags members
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListMembersResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /members [get]
func (h *memberHandler) listMembers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListMembersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListMembers", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	members, err := h.memberService.ListMembers(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		respondWithError(c, err, "Failed to list members")
		return
	}
	c.JSON(http.StatusOK, dto.ToListMembersResponse(members))
}

// updateMember godoc
// @Summary Update a member
// @Description Changes name, password or admin flag of a member.
// @Tags members
// @Accept  json
// @Produce  json
// @Param   memberID path string true "Member ID"
// @Param   member body dto.UpdateMemberRequest true "Fields to update"
// @Success 200 {object} dto.MemberResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /members/{memberID} [put]
func (h *memberHandler) updateMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	memberID := c.Param("memberID")
	var req dto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for update member request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	member, err := h.memberService.UpdateMember(c.Request.Context(), memberID, req, actorID)
	if err != nil {
		respondWithError(c, err, "Failed to update member")
		return
	}
	c.JSON(http.StatusOK, dto.ToMemberResponse(member))
}

// deleteMember godoc
// @Summary Delete a member
// @Description Deletes a member together with all of their ledger entries.
// @Tags members
// @Param   memberID path string true "Member ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /members/{memberID} [delete]
func (h *memberHandler) deleteMember(c *gin.Context) {
	memberID := c.Param("memberID")
	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	if err := h.memberService.DeleteMember(c.Request.Context(), memberID, actorID); err != nil {
		respondWithError(c, err, "Failed to delete member")
		return
	}
	c.Status(http.StatusNoContent)
}
