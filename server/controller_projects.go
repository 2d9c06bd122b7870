package server

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/goliatone/go-uptask"
)

// ProjectPayload covers project create and update
type ProjectPayload struct {
	ProjectName string `form:"project_name" json:"project_name"`
	ClientName  string `form:"client_name" json:"client_name"`
	Description string `form:"description" json:"description"`
}

// Validate will validate the payload
func (r ProjectPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProjectName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.ClientName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Description, validation.Required),
	)
}

func (s *Server) CreateProject(c *fiber.Ctx) error {
	payload := new(ProjectPayload)
	if err := parseBody(c, payload); err != nil {
		return err
	}

	if err := payload.Validate(); err != nil {
		return validationError(err)
	}

	user := currentUser(c)
	project := &uptask.Project{
		ID:          uuid.New(),
		ProjectName: payload.ProjectName,
		ClientName:  payload.ClientName,
		Description: payload.Description,
		ManagerID:   user.ID,
	}

	created, err := s.repo.Projects().Create(c.UserContext(), project)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// ListProjects returns projects the user manages or collaborates on.
func (s *Server) ListProjects(c *fiber.Ctx) error {
	user := currentUser(c)

	projects, err := s.repo.Projects().ListForUser(c.UserContext(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(projects)
}

// GetProject returns the project detail to the manager and team members.
func (s *Server) GetProject(c *fiber.Ctx) error {
	user := currentUser(c)
	project := currentProject(c)

	if project.ManagerID != user.ID && !project.HasMember(user.ID) {
		return uptask.ErrNotProjectCollaborator
	}

	return c.JSON(project)
}

func (s *Server) UpdateProject(c *fiber.Ctx) error {
	payload := new(ProjectPayload)
	if err := parseBody(c, payload); err != nil {
		return err
	}

	if err := payload.Validate(); err != nil {
		return validationError(err)
	}

	project := currentProject(c)

	updated, err := s.repo.Projects().UpdateDetails(c.UserContext(), project.ID, payload.ProjectName, payload.ClientName, payload.Description)
	if err != nil {
		return err
	}

	return c.JSON(updated)
}

func (s *Server) DeleteProject(c *fiber.Ctx) error {
	project := currentProject(c)

	if err := s.repo.Projects().DeleteByID(c.UserContext(), project.ID); err != nil {
		return err
	}

	return c.SendString("project deleted")
}
