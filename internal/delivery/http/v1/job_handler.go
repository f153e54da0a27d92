package v1

import (
	"net/http"
	"strconv"

	"go-jobboard-backend/internal/delivery/http/middleware"
	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobUC domain.JobUsecase
}

func NewJobHandler(public *gin.RouterGroup, protected *gin.RouterGroup, jobUC domain.JobUsecase) {
	handler := &JobHandler{jobUC: jobUC}

	// Browsing is public
	publicJobs := public.Group("/job")
	{
		publicJobs.GET("/get", handler.Search)
		publicJobs.GET("/get/:id", handler.GetByID)
	}

	recruiterJobs := protected.Group("/job", middleware.RequireRole(domain.RoleRecruiter))
	{
		recruiterJobs.POST("/create", handler.Create)
		recruiterJobs.GET("/admin", handler.ListMine)
	}
}

// CreateJob godoc
// @Summary      Post a job
// @Description  Create a job for a company the recruiter owns
// @Tags         job
// @Accept       json
// @Produce      json
// @Param        job  body      domain.CreateJobInput  true  "Job"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /job/create [post]
// @Security     CookieAuth
func (h *JobHandler) Create(c *gin.Context) {
	var req domain.CreateJobInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	job, err := h.jobUC.Create(c.Request.Context(), c.GetString(string(domain.KeyUserID)), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "New job created successfully.", response.Payload{"job": job})
}

// SearchJobs godoc
// @Summary      Search jobs
// @Description  Case-insensitive match on title or description, newest first
// @Tags         job
// @Produce      json
// @Param        keyword  query     string  false  "Keyword"
// @Param        page     query     int     false  "Page (default 1)"
// @Param        limit    query     int     false  "Page size (default 10, max 100)"
// @Success      200      {object}  response.Response
// @Router       /job/get [get]
func (h *JobHandler) Search(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(domain.DefaultPageSize)))

	jobs, pagination, err := h.jobUC.Search(c.Request.Context(), c.Query("keyword"), page, limit)
	if err != nil {
		c.Error(err)
		return
	}

	message := "Jobs fetched successfully."
	if len(jobs) == 0 {
		message = "No jobs found."
	}
	response.Success(c, http.StatusOK, message, response.Payload{
		"jobs":       jobs,
		"pagination": pagination,
	})
}

// GetJob godoc
// @Summary      Get a job
// @Description  Job with its company and applications
// @Tags         job
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /job/get/{id} [get]
func (h *JobHandler) GetByID(c *gin.Context) {
	job, err := h.jobUC.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job fetched successfully.", response.Payload{"job": job})
}

// ListMyJobs godoc
// @Summary      Jobs I posted
// @Tags         job
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /job/admin [get]
// @Security     CookieAuth
func (h *JobHandler) ListMine(c *gin.Context) {
	jobs, err := h.jobUC.ListByCreator(c.Request.Context(), c.GetString(string(domain.KeyUserID)))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Jobs fetched successfully.", response.Payload{"jobs": jobs})
}
