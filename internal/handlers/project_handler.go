package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "grantledger/internal/errors"
	"grantledger/internal/services"
)

// ProjectHandler handles project-related requests.
type ProjectHandler struct {
	projectService services.ProjectServicer
	reportService  services.ReportServicer
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService services.ProjectServicer, reportService services.ReportServicer) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, reportService: reportService}
}

// ProjectRequest represents the payload for creating or replacing a project.
type ProjectRequest struct {
	ProjectName      string `json:"project_name" binding:"required,min=1,max=200"`
	OrganizationName string `json:"organization_name" binding:"max=200"`
	ProjectType      string `json:"project_type" binding:"max=100"`
	LeaderName       string `json:"leader_name" binding:"max=100"`
	TotalFunding     int64  `json:"total_funding" binding:"gte=0,lte=1000000000000000"`
	ProposalNumber   string `json:"proposal_number" binding:"max=100"`
	ProposalFile     string `json:"proposal_file" binding:"omitempty,spj_link"`
	ContractNumber   string `json:"contract_number" binding:"max=100"`
	ContractFile     string `json:"contract_file" binding:"omitempty,spj_link"`
	SKNumber         string `json:"sk_number" binding:"max=100"`
	SKFile           string `json:"sk_file" binding:"omitempty,spj_link"`
	SP2DNumber       string `json:"sp2d_number" binding:"max=100"`
	SP2DFile         string `json:"sp2d_file" binding:"omitempty,spj_link"`
}

func (r ProjectRequest) toInput() services.ProjectInput {
	return services.ProjectInput{
		ProjectName:      r.ProjectName,
		OrganizationName: r.OrganizationName,
		ProjectType:      r.ProjectType,
		LeaderName:       r.LeaderName,
		TotalFunding:     r.TotalFunding,
		ProposalNumber:   r.ProposalNumber,
		ProposalFile:     r.ProposalFile,
		ContractNumber:   r.ContractNumber,
		ContractFile:     r.ContractFile,
		SKNumber:         r.SKNumber,
		SKFile:           r.SKFile,
		SP2DNumber:       r.SP2DNumber,
		SP2DFile:         r.SP2DFile,
	}
}

// CreateProject handles the creation of a new project with its default RAB.
// @Summary     Create a project
// @Description Register a project and seed its default budget categories
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ProjectRequest true "Project details"
// @Success     201 {object} models.Project "Project created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), actor, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": project})
}

// GetProjects handles listing the projects visible to the caller.
// @Summary     List projects
// @Description Admins see every project; finance and verifier users see their own
// @Tags        projects
// @Produce     json
// @Security    BearerAuth
// @Param       search    query string false "Case-insensitive match on project or leader name"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Project] "Paginated projects"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects [get]
func (h *ProjectHandler) GetProjects(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	page, err := parsePage(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.projectService.ListProjects(actor, c.Query("search"), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProject handles retrieving a single project.
// @Summary     Get a project
// @Tags        projects
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Project ID"
// @Success     200 {object} models.Project "Project"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	project, err := h.projectService.GetProject(actor, projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// UpdateProject handles replacing a project's fields.
// @Summary     Update a project
// @Description Replace a project's fields; funding may not drop below the allocated RAB
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string         true "Project ID"
// @Param       request body ProjectRequest true "Project details"
// @Success     200 {object} models.Project "Project updated"
// @Failure     400 {object} ErrorResponse "Invalid input or funding below allocation"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), actor, projectID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// DeleteProject handles deleting a project and its RAB.
// @Summary     Delete a project
// @Description Delete a project that has no receipts
// @Tags        projects
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Project ID"
// @Success     200 {object} MessageResponse "Project deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Failure     409 {object} ErrorResponse "Project has receipts"
// @Router      /projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), actor, projectID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// GetProjectSummary handles the balance summary of a project.
// @Summary     Project summary
// @Description Funding, realization, RAB headroom and per-category balances
// @Tags        projects
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Project ID"
// @Success     200 {object} balance.ProjectSummary "Summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/summary [get]
func (h *ProjectHandler) GetProjectSummary(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.reportService.GetProjectSummary(actor, projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
