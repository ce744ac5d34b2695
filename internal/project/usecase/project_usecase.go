package usecase

import (
	"errors"

	authrepo "mutualtasks-backend/internal/auth/repository"
	"mutualtasks-backend/internal/project/domain"
	"mutualtasks-backend/internal/project/repository"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrNotMember       = errors.New("not a project participant")
)

// ProjectUsecase defines the interface for project business logic
type ProjectUsecase interface {
	CreateProject(creatorID, name, description string) (*domain.Project, error)
	GetProject(userID, projectID string) (*domain.Project, error)
	ListProjects(userID string) ([]*domain.Project, error)
	AddParticipant(actorID, projectID, email string) error
	RemoveParticipant(actorID, projectID, userID string) error
}

// projectUsecase implements ProjectUsecase interface
type projectUsecase struct {
	projectRepo repository.ProjectRepository
	userRepo    authrepo.UserRepository
}

// NewProjectUsecase creates a new instance of projectUsecase
func NewProjectUsecase(projectRepo repository.ProjectRepository, userRepo authrepo.UserRepository) ProjectUsecase {
	return &projectUsecase{
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

func (u *projectUsecase) CreateProject(creatorID, name, description string) (*domain.Project, error) {
	if name == "" {
		return nil, errors.New("name is required")
	}

	project := &domain.Project{
		Name:        name,
		Description: description,
		CreatorID:   creatorID,
	}
	if err := u.projectRepo.Create(project); err != nil {
		return nil, err
	}
	return project, nil
}

func (u *projectUsecase) GetProject(userID, projectID string) (*domain.Project, error) {
	project, err := u.projectRepo.FindByID(projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	member, err := u.projectRepo.IsParticipant(projectID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

func (u *projectUsecase) ListProjects(userID string) ([]*domain.Project, error) {
	return u.projectRepo.FindByUserID(userID)
}

// AddParticipant invites a user by email. Only current participants may
// invite.
func (u *projectUsecase) AddParticipant(actorID, projectID, email string) error {
	if _, err := u.GetProject(actorID, projectID); err != nil {
		return err
	}

	user, err := u.userRepo.FindByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New("no account with that email")
	}

	return u.projectRepo.AddParticipant(projectID, user.ID)
}

// RemoveParticipant soft-removes a member. Only the project creator may
// remove others; anyone may remove themselves.
func (u *projectUsecase) RemoveParticipant(actorID, projectID, userID string) error {
	project, err := u.projectRepo.FindByID(projectID)
	if err != nil {
		return err
	}
	if project == nil {
		return ErrProjectNotFound
	}
	if actorID != userID && project.CreatorID != actorID {
		return ErrNotMember
	}
	return u.projectRepo.RemoveParticipant(projectID, userID)
}
