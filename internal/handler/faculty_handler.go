package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-sched/admin-api/internal/models"
	"github.com/campus-sched/admin-api/internal/service"
	appErrors "github.com/campus-sched/admin-api/pkg/errors"
	"github.com/campus-sched/admin-api/pkg/response"
)

type facultyService interface {
	List(ctx context.Context) ([]models.FacultyWithUser, error)
	Create(ctx context.Context, req service.CreateFacultyRequest) (*service.CreatedFaculty, error)
	Update(ctx context.Context, id string, req service.UpdateFacultyRequest) (*models.Faculty, error)
	Delete(ctx context.Context, id string) error
	Instructors(ctx context.Context) ([]models.Instructor, error)
}

// FacultyHandler handles faculty and instructor endpoints.
type FacultyHandler struct {
	service facultyService
}

// NewFacultyHandler constructs a faculty handler.
func NewFacultyHandler(svc facultyService) *FacultyHandler {
	return &FacultyHandler{service: svc}
}

// List godoc
// @Summary List faculty with account details
// @Tags Faculty
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/faculty [get]
func (h *FacultyHandler) List(c *gin.Context) {
	faculty, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, faculty)
}

// Create godoc
// @Summary Create faculty member with staff account
// @Tags Faculty
// @Accept json
// @Produce json
// @Param payload body service.CreateFacultyRequest true "Faculty payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/faculty [post]
func (h *FacultyHandler) Create(c *gin.Context) {
	var req service.CreateFacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// Update godoc
// @Summary Update faculty profile
// @Tags Faculty
// @Accept json
// @Produce json
// @Param id path string true "Faculty ID"
// @Param payload body service.UpdateFacultyRequest true "Faculty payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/faculty/{id} [put]
func (h *FacultyHandler) Update(c *gin.Context) {
	var req service.UpdateFacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	faculty, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, faculty)
}

// Delete godoc
// @Summary Delete faculty member and owning account
// @Tags Faculty
// @Produce json
// @Param id path string true "Faculty ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/faculty/{id} [delete]
func (h *FacultyHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "faculty deleted successfully")
}

// Instructors godoc
// @Summary List staff instructors
// @Tags Faculty
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/instructors [get]
func (h *FacultyHandler) Instructors(c *gin.Context) {
	instructors, err := h.service.Instructors(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instructors)
}
