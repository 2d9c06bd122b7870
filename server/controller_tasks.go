package server

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/goliatone/go-uptask"
)

// TaskPayload covers task create and update
type TaskPayload struct {
	Name        string `form:"name" json:"name"`
	Description string `form:"description" json:"description"`
}

// Validate will validate the payload
func (r TaskPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Description, validation.Required),
	)
}

func (s *Server) CreateTask(c *fiber.Ctx) error {
	payload := new(TaskPayload)
	if err := parseBody(c, payload); err != nil {
		return err
	}

	if err := payload.Validate(); err != nil {
		return validationError(err)
	}

	project := currentProject(c)
	task := &uptask.Task{
		ID:          uuid.New(),
		ProjectID:   project.ID,
		Name:        payload.Name,
		Description: payload.Description,
		Status:      uptask.TaskStatusPending,
	}

	created, err := s.repo.Tasks().Create(c.UserContext(), task)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (s *Server) ListTasks(c *fiber.Ctx) error {
	project := currentProject(c)

	tasks, err := s.repo.Tasks().ListForProject(c.UserContext(), project.ID)
	if err != nil {
		return err
	}

	return c.JSON(tasks)
}

// GetTask returns the task with its status trail and notes.
func (s *Server) GetTask(c *fiber.Ctx) error {
	task := currentTask(c)

	detail, err := s.repo.Tasks().GetWithDetail(c.UserContext(), task.ID)
	if err != nil {
		return err
	}

	return c.JSON(detail)
}

func (s *Server) UpdateTask(c *fiber.Ctx) error {
	payload := new(TaskPayload)
	if err := parseBody(c, payload); err != nil {
		return err
	}

	if err := payload.Validate(); err != nil {
		return validationError(err)
	}

	task := currentTask(c)

	updated, err := s.repo.Tasks().UpdateDetails(c.UserContext(), task.ID, payload.Name, payload.Description)
	if err != nil {
		return err
	}

	return c.JSON(updated)
}

func (s *Server) DeleteTask(c *fiber.Ctx) error {
	task := currentTask(c)

	if err := s.repo.Tasks().DeleteByID(c.UserContext(), task.ID); err != nil {
		return err
	}

	return c.SendString("task deleted")
}

// TaskStatusPayload moves a task through the workflow
type TaskStatusPayload struct {
	Status string `form:"status" json:"status"`
}

// Validate will validate the payload
func (r TaskStatusPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, validation.In(uptask.TaskStatuses...)),
	)
}

// UpdateTaskStatus records who moved the task and when.
func (s *Server) UpdateTaskStatus(c *fiber.Ctx) error {
	payload := new(TaskStatusPayload)
	if err := parseBody(c, payload); err != nil {
		return err
	}

	if err := payload.Validate(); err != nil {
		return validationError(err)
	}

	user := currentUser(c)
	task := currentTask(c)

	updated, err := s.repo.Tasks().UpdateStatus(c.UserContext(), task.ID, user.ID, payload.Status)
	if err != nil {
		return err
	}

	return c.JSON(updated)
}
