package server

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"

	"github.com/goliatone/go-uptask"
)

// NotePayload creates a note on a task
type NotePayload struct {
	Content string `form:"content" json:"content"`
}

// Validate will validate the payload
func (r NotePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Required),
	)
}

func (s *Server) CreateNote(c *fiber.Ctx) error {
	payload := new(NotePayload)
	if err := parseBody(c, payload); err != nil {
		return err
	}

	if err := payload.Validate(); err != nil {
		return validationError(err)
	}

	user := currentUser(c)
	task := currentTask(c)

	note := &uptask.Note{
		ID:      uuid.New(),
		TaskID:  task.ID,
		UserID:  user.ID,
		Content: payload.Content,
	}

	created, err := s.repo.Notes().Create(c.UserContext(), note)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (s *Server) ListNotes(c *fiber.Ctx) error {
	task := currentTask(c)

	notes, err := s.repo.Notes().ListForTask(c.UserContext(), task.ID)
	if err != nil {
		return err
	}

	return c.JSON(notes)
}

// DeleteNote removes a note. Only the author may do it.
func (s *Server) DeleteNote(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("noteID"))
	if err != nil {
		return uptask.ErrNoteNotFound
	}

	note, err := s.repo.Notes().GetByID(c.UserContext(), id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return uptask.ErrNoteNotFound
		}
		return err
	}

	user := currentUser(c)
	if note.UserID != user.ID {
		return uptask.ErrNotNoteAuthor
	}

	if err := s.repo.Notes().DeleteByID(c.UserContext(), note.ID); err != nil {
		return err
	}

	return c.SendString("note deleted")
}
