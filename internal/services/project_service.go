package services

import (
	"context"
	"strings"

	"grantledger/internal/bootstrap"
	apperrors "grantledger/internal/errors"
	"grantledger/internal/guard"
	"grantledger/internal/logger"
	"grantledger/internal/models"
	"grantledger/internal/pagination"
	"grantledger/internal/uuid"
)

// projectService handles project-related business logic.
type projectService struct {
	ledger *Ledger
}

// NewProjectService creates a new ProjectServicer.
func NewProjectService(l *Ledger) ProjectServicer {
	return &projectService{ledger: l}
}

func validateProjectInput(input ProjectInput) (ProjectInput, error) {
	input.ProjectName = strings.TrimSpace(input.ProjectName)
	input.LeaderName = strings.TrimSpace(input.LeaderName)
	if input.ProjectName == "" {
		return input, apperrors.WithMessage(apperrors.ErrInvalidInput, "project name is required")
	}
	if err := guard.CheckFunding(input.TotalFunding); err != nil {
		return input, err
	}
	return input, nil
}

func applyProjectInput(p *models.Project, input ProjectInput) {
	p.ProjectName = input.ProjectName
	p.OrganizationName = input.OrganizationName
	p.ProjectType = input.ProjectType
	p.LeaderName = input.LeaderName
	p.TotalFunding = input.TotalFunding
	p.ProposalNumber = input.ProposalNumber
	p.ProposalFile = input.ProposalFile
	p.ContractNumber = input.ContractNumber
	p.ContractFile = input.ContractFile
	p.SKNumber = input.SKNumber
	p.SKFile = input.SKFile
	p.SP2DNumber = input.SP2DNumber
	p.SP2DFile = input.SP2DFile
}

// CreateProject registers a project and seeds its default RAB.
func (s *projectService) CreateProject(ctx context.Context, actor models.User, input ProjectInput) (*models.Project, error) {
	if err := s.ledger.guard.Authorize(actor, guard.OpCreateProject, ""); err != nil {
		return nil, err
	}
	input, err := validateProjectInput(input)
	if err != nil {
		return nil, err
	}

	project := models.Project{ID: uuid.New(), CreatedAt: s.ledger.now()}
	applyProjectInput(&project, input)
	items := bootstrap.DefaultBudgetItems(project)

	err = s.ledger.write(ctx, "create_project", func() error {
		if err := s.ledger.store.InsertProject(project); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for _, item := range items {
			if err := s.ledger.store.InsertBudgetItem(item); err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("Project created",
		"project_id", project.ID,
		"total_funding", project.TotalFunding,
		"budget_items", len(items),
		"user_id", actor.ID,
	)
	return &project, nil
}

// GetProject returns a project visible to actor.
func (s *projectService) GetProject(actor models.User, projectID string) (*models.Project, error) {
	if err := s.ledger.guard.Authorize(actor, guard.OpViewProject, projectID); err != nil {
		return nil, err
	}
	var project models.Project
	err := s.ledger.read(func() error {
		var err error
		project, err = s.ledger.projectOf(projectID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// ListProjects returns the projects visible to actor whose name or leader
// contains search, case-insensitively. Scoped roles see only their own project.
func (s *projectService) ListProjects(actor models.User, search string, page pagination.PageRequest) (*pagination.PageResponse[models.Project], error) {
	if err := s.ledger.guard.Authorize(actor, guard.OpViewProject, ""); err != nil {
		return nil, err
	}
	all := guard.Can(actor.Role, guard.OpListAllProjects)
	needle := strings.ToLower(strings.TrimSpace(search))

	var matched []models.Project
	_ = s.ledger.read(func() error {
		for _, p := range s.ledger.store.Projects() {
			if !all && !actor.CanAccessProject(p.ID) {
				continue
			}
			if needle != "" &&
				!strings.Contains(strings.ToLower(p.ProjectName), needle) &&
				!strings.Contains(strings.ToLower(p.LeaderName), needle) {
				continue
			}
			matched = append(matched, p)
		}
		return nil
	})

	result := pagination.Slice(matched, page)
	return &result, nil
}

// UpdateProject replaces a project's editable fields. The new funding may
// not fall below the current RAB total.
func (s *projectService) UpdateProject(ctx context.Context, actor models.User, projectID string, input ProjectInput) (*models.Project, error) {
	if err := s.ledger.guard.Authorize(actor, guard.OpUpdateProject, projectID); err != nil {
		return nil, err
	}
	input, err := validateProjectInput(input)
	if err != nil {
		return nil, err
	}

	var project models.Project
	err = s.ledger.write(ctx, "update_project", func() error {
		current, err := s.ledger.projectOf(projectID)
		if err != nil {
			return err
		}
		if err := s.ledger.guard.CheckProjectFunding(projectID, input.TotalFunding); err != nil {
			return err
		}
		project = current
		applyProjectInput(&project, input)
		s.ledger.store.ReplaceProject(project)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("Project updated", "project_id", projectID, "total_funding", project.TotalFunding, "user_id", actor.ID)
	return &project, nil
}

// DeleteProject removes a project with no receipts, together with its RAB.
func (s *projectService) DeleteProject(ctx context.Context, actor models.User, projectID string) error {
	if err := s.ledger.guard.Authorize(actor, guard.OpDeleteProject, projectID); err != nil {
		return err
	}

	var removed int
	err := s.ledger.write(ctx, "delete_project", func() error {
		if err := s.ledger.guard.CheckDeleteProject(projectID); err != nil {
			return err
		}
		removed = s.ledger.store.DeleteBudgetItemsByProject(projectID)
		s.ledger.store.DeleteProject(projectID)
		return nil
	})
	if err != nil {
		return err
	}

	logger.Get().Infow("Project deleted", "project_id", projectID, "budget_items_removed", removed, "user_id", actor.ID)
	return nil
}
