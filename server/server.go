// Package server exposes the task management API over HTTP. Controllers
// bind and validate payloads, delegate to the domain layer, and let the
// single error handler translate failures into responses.
package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-uptask"
)

type Server struct {
	app      *fiber.App
	repo     uptask.RepositoryManager
	accounts *uptask.AccountManager
	tokens   uptask.TokenService
	logger   uptask.Logger
}

type Option func(*Server)

func WithLogger(logger uptask.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(repo uptask.RepositoryManager, accounts *uptask.AccountManager, tokens uptask.TokenService, opts ...Option) *Server {
	s := &Server{
		repo:     repo,
		accounts: accounts,
		tokens:   tokens,
		logger:   uptask.DefaultLogger(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	s.app = fiber.New(fiber.Config{
		AppName:      "uptask",
		ErrorHandler: s.errorHandler,
	})
	s.app.Use(cors.New())

	s.registerRoutes()

	return s
}

// App exposes the underlying fiber application, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) registerRoutes() {
	api := s.app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", s.Register)
	auth.Post("/confirm-account", s.ConfirmAccount)
	auth.Post("/login", s.Login)
	auth.Post("/request-code", s.RequestConfirmationCode)
	auth.Post("/forgot-password", s.ForgotPassword)
	auth.Post("/validate-token", s.ValidateResetToken)
	auth.Post("/update-password/:token", s.ResetPasswordWithToken)

	auth.Get("/user", s.Authenticate, s.CurrentUser)
	auth.Put("/profile", s.Authenticate, s.UpdateProfile)
	auth.Post("/update-password", s.Authenticate, s.ChangePassword)
	auth.Post("/check-password", s.Authenticate, s.CheckPassword)

	projects := api.Group("/projects", s.Authenticate)
	projects.Post("/", s.CreateProject)
	projects.Get("/", s.ListProjects)

	project := projects.Group("/:projectID", s.ProjectResolver)
	project.Get("/", s.GetProject)
	project.Put("/", s.ManagerOnly, s.UpdateProject)
	project.Delete("/", s.ManagerOnly, s.DeleteProject)

	project.Post("/tasks", s.ManagerOnly, s.CreateTask)
	project.Get("/tasks", s.ListTasks)

	task := project.Group("/tasks/:taskID", s.TaskResolver, s.TaskBelongsToProject)
	task.Get("/", s.GetTask)
	task.Put("/", s.ManagerOnly, s.UpdateTask)
	task.Delete("/", s.ManagerOnly, s.DeleteTask)
	task.Post("/status", s.UpdateTaskStatus)

	task.Post("/notes", s.CreateNote)
	task.Get("/notes", s.ListNotes)
	task.Delete("/notes/:noteID", s.DeleteNote)

	project.Post("/team/find", s.FindTeamMember)
	project.Get("/team", s.ListTeam)
	project.Post("/team", s.AddTeamMember)
	project.Delete("/team/:userID", s.RemoveTeamMember)
}

// errorHandler is the single translation point from domain errors to HTTP
// responses. Anything that is not a rich error is logged with its cause
// and surfaced as an opaque 500.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "there was an error").
			WithCode(errors.CodeInternal)
	}

	code := richErr.Code
	if code == 0 {
		code = errors.CodeInternal
	}

	if richErr.Category == errors.CategoryInternal || code >= fiber.StatusInternalServerError {
		s.logger.Error("request failed",
			"error", err,
			"category", richErr.Category,
			"path", c.OriginalURL(),
			"method", c.Method(),
		)
	}

	return c.Status(code).JSON(fiber.Map{
		"error": richErr.Message,
	})
}

func parseBody(c *fiber.Ctx, payload any) error {
	if err := c.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "failed to parse request body").
			WithCode(errors.CodeBadRequest)
	}
	return nil
}

func validationError(err error) error {
	return errors.Wrap(err, errors.CategoryValidation, err.Error()).
		WithCode(errors.CodeBadRequest)
}
