package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/eventis/budget-api/internal/auth"
	"github.com/eventis/budget-api/internal/domain"
	"github.com/eventis/budget-api/internal/mapper"
	"github.com/eventis/budget-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProjectService handles business logic for projects
type ProjectService struct {
	projectRepo *repository.ProjectRepository
	logger      *zap.Logger
}

// NewProjectService creates a new ProjectService instance
func NewProjectService(projectRepo *repository.ProjectRepository, logger *zap.Logger) *ProjectService {
	return &ProjectService{projectRepo: projectRepo, logger: logger}
}

// Create creates a new project
func (s *ProjectService) Create(ctx context.Context, req *domain.CreateProjectRequest) (*domain.ProjectDTO, error) {
	project := &domain.Project{
		Name:        req.Name,
		ClientName:  req.ClientName,
		EventDate:   req.EventDate,
		Location:    req.Location,
		Notes:       req.Notes,
		TeamMembers: req.TeamMembers,
	}

	if userCtx, ok := auth.FromContext(ctx); ok {
		project.CreatedByID = userCtx.UserID
		project.CreatedByName = userCtx.DisplayName
		project.UpdatedByID = userCtx.UserID
		project.UpdatedByName = userCtx.DisplayName
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.Info("project created",
		zap.String("projectId", project.ID.String()),
		zap.String("name", project.Name))

	dto := mapper.ToProjectDTO(project)
	return &dto, nil
}

// GetByID returns a project with its budgets
func (s *ProjectService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProjectDTO, error) {
	project, err := s.projectRepo.GetWithBudgets(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	dto := mapper.ToProjectWithBudgetsDTO(project)
	return &dto, nil
}

// List returns all projects
func (s *ProjectService) List(ctx context.Context) ([]domain.ProjectDTO, error) {
	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	dtos := make([]domain.ProjectDTO, 0, len(projects))
	for i := range projects {
		dtos = append(dtos, mapper.ToProjectDTO(&projects[i]))
	}
	return dtos, nil
}

// Update applies a partial update to a project
func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateProjectRequest) (*domain.ProjectDTO, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.ClientName != nil {
		project.ClientName = *req.ClientName
	}
	if req.EventDate != nil {
		project.EventDate = req.EventDate
	}
	if req.Location != nil {
		project.Location = *req.Location
	}
	if req.Notes != nil {
		project.Notes = *req.Notes
	}
	if req.TeamMembers != nil {
		project.TeamMembers = req.TeamMembers
	}
	if userCtx, ok := auth.FromContext(ctx); ok {
		project.UpdatedByID = userCtx.UserID
		project.UpdatedByName = userCtx.DisplayName
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	dto := mapper.ToProjectDTO(project)
	return &dto, nil
}

// Delete removes a project that has no budgets left
func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	count, err := s.projectRepo.CountBudgets(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count budgets: %w", err)
	}
	if count > 0 {
		return ErrConflict
	}

	if err := s.projectRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.logger.Info("project deleted", zap.String("projectId", id.String()))
	return nil
}
