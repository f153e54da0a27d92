package v1

import (
	"net/http"

	"go-jobboard-backend/internal/delivery/http/middleware"
	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ApplicationHandler struct {
	appUC domain.ApplicationUsecase
}

func NewApplicationHandler(protected *gin.RouterGroup, appUC domain.ApplicationUsecase) {
	handler := &ApplicationHandler{appUC: appUC}

	studentOnly := middleware.RequireRole(domain.RoleStudent)
	recruiterOnly := middleware.RequireRole(domain.RoleRecruiter)

	apps := protected.Group("/application")
	{
		// Student routes
		apps.POST("/apply/:id", studentOnly, handler.Apply)
		apps.GET("/get", handler.ListMine)

		// Recruiter routes
		apps.GET("/:id/applicants", recruiterOnly, handler.ListApplicants)
		apps.GET("/:id/applicants/export", recruiterOnly, handler.ExportApplicants)
		apps.POST("/status/:id/update", recruiterOnly, handler.UpdateStatus)
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Apply godoc
// @Summary      Apply to a job
// @Tags         application
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /application/apply/{id} [post]
// @Security     CookieAuth
func (h *ApplicationHandler) Apply(c *gin.Context) {
	job, err := h.appUC.Apply(c.Request.Context(), c.GetString(string(domain.KeyUserID)), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Job applied successfully.", response.Payload{"job": job})
}

// ListMyApplications godoc
// @Summary      My applications
// @Tags         application
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /application/get [get]
// @Security     CookieAuth
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	apps, err := h.appUC.ListForApplicant(c.Request.Context(), c.GetString(string(domain.KeyUserID)))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications fetched successfully.", response.Payload{"applications": apps})
}

// ListApplicants godoc
// @Summary      Applicants for a job
// @Tags         application
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /application/{id}/applicants [get]
// @Security     CookieAuth
func (h *ApplicationHandler) ListApplicants(c *gin.Context) {
	job, err := h.appUC.ListApplicants(c.Request.Context(), c.GetString(string(domain.KeyUserID)), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applicants fetched successfully.", response.Payload{"job": job})
}

// ExportApplicants godoc
// @Summary      Export applicants
// @Description  Download the applicants of a job as an Excel sheet
// @Tags         application
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id   path      string  true  "Job ID"
// @Success      200  {file}    file
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /application/{id}/applicants/export [get]
// @Security     CookieAuth
func (h *ApplicationHandler) ExportApplicants(c *gin.Context) {
	export, err := h.appUC.ExportApplicants(c.Request.Context(), c.GetString(string(domain.KeyUserID)), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, export.Data)
}

// UpdateStatus godoc
// @Summary      Update application status
// @Tags         application
// @Accept       json
// @Produce      json
// @Param        id      path      string               true  "Application ID"
// @Param        status  body      UpdateStatusRequest  true  "pending, accepted or rejected"
// @Success      200     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Router       /application/status/{id}/update [post]
// @Security     CookieAuth
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	app, err := h.appUC.UpdateStatus(c.Request.Context(), c.GetString(string(domain.KeyUserID)), c.Param("id"), req.Status)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Status updated successfully.", response.Payload{"application": app})
}
