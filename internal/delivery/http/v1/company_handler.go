package v1

import (
	"net/http"
	"strings"

	"go-jobboard-backend/internal/delivery/http/middleware"
	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

type CompanyHandler struct {
	companyUC      domain.CompanyUsecase
	uploadLimiter  *security.UploadLimiter
	maxUploadBytes int64
}

func NewCompanyHandler(protected *gin.RouterGroup, companyUC domain.CompanyUsecase, uploadLimiter *security.UploadLimiter, maxUploadBytes int64) {
	handler := &CompanyHandler{
		companyUC:      companyUC,
		uploadLimiter:  uploadLimiter,
		maxUploadBytes: maxUploadBytes,
	}

	recruiterOnly := middleware.RequireRole(domain.RoleRecruiter)

	companies := protected.Group("/company")
	{
		companies.POST("/register", recruiterOnly, handler.Register)
		companies.GET("/get", handler.List)
		companies.GET("/get/:id", handler.GetByID)
		companies.PUT("/update/:id", recruiterOnly, handler.Update)
		companies.POST("/update/:id", recruiterOnly, handler.Update)
	}
}

type RegisterCompanyRequest struct {
	CompanyName string `json:"companyName"`
}

type UpdateCompanyRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	Website     *string `json:"website"`
}

// RegisterCompany godoc
// @Summary      Register a company
// @Tags         company
// @Accept       json
// @Produce      json
// @Param        company  body      RegisterCompanyRequest  true  "Company name"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /company/register [post]
// @Security     CookieAuth
func (h *CompanyHandler) Register(c *gin.Context) {
	var req RegisterCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	company, err := h.companyUC.Register(c.Request.Context(), c.GetString(string(domain.KeyUserID)), req.CompanyName)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Company registered successfully.", response.Payload{"company": company})
}

// ListCompanies godoc
// @Summary      List my companies
// @Tags         company
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /company/get [get]
// @Security     CookieAuth
func (h *CompanyHandler) List(c *gin.Context) {
	companies, err := h.companyUC.ListByOwner(c.Request.Context(), c.GetString(string(domain.KeyUserID)))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Companies fetched successfully.", response.Payload{"companies": companies})
}

// GetCompany godoc
// @Summary      Get a company
// @Tags         company
// @Produce      json
// @Param        id   path      string  true  "Company ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /company/get/{id} [get]
// @Security     CookieAuth
func (h *CompanyHandler) GetByID(c *gin.Context) {
	company, err := h.companyUC.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Company fetched successfully.", response.Payload{"company": company})
}

// UpdateCompany godoc
// @Summary      Update a company
// @Description  Accepts JSON, or multipart with an optional logo in "file"
// @Tags         company
// @Accept       json,mpfd
// @Produce      json
// @Param        id           path      string  true   "Company ID"
// @Param        name         formData  string  false  "Name"
// @Param        description  formData  string  false  "Description"
// @Param        location     formData  string  false  "Location"
// @Param        website      formData  string  false  "Website"
// @Param        file         formData  file    false  "Logo (jpg, png)"
// @Success      200          {object}  response.Response
// @Failure      400          {object}  response.Response
// @Failure      403          {object}  response.Response
// @Failure      404          {object}  response.Response
// @Router       /company/update/{id} [put]
// @Security     CookieAuth
func (h *CompanyHandler) Update(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	var input domain.UpdateCompanyInput
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var req UpdateCompanyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(apperror.BadRequest("Invalid request body"))
			return
		}
		input = domain.UpdateCompanyInput{
			Name:        req.Name,
			Description: req.Description,
			Location:    req.Location,
			Website:     req.Website,
		}
	} else {
		logo, err := formFile(c, "file", h.maxUploadBytes)
		if err != nil {
			c.Error(err)
			return
		}
		if logo != nil {
			if err := checkUploadQuota(c, h.uploadLimiter, userID); err != nil {
				c.Error(err)
				return
			}
		}
		input = domain.UpdateCompanyInput{
			Name:        optionalForm(c, "name"),
			Description: optionalForm(c, "description"),
			Location:    optionalForm(c, "location"),
			Website:     optionalForm(c, "website"),
			Logo:        logo,
		}
	}

	company, err := h.companyUC.Update(c.Request.Context(), userID, c.Param("id"), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Company information updated.", response.Payload{"company": company})
}
