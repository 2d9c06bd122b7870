package server

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"

	"github.com/goliatone/go-uptask"
)

// FindTeamMember looks up a collaborator candidate by email. Only the
// public profile fields go back to the client.
func (s *Server) FindTeamMember(c *fiber.Ctx) error {
	payload := new(EmailPayload)
	if err := parseBody(c, payload); err != nil {
		return err
	}

	if err := payload.Validate(); err != nil {
		return validationError(err)
	}

	user, err := s.repo.Users().GetByEmail(c.UserContext(), payload.Email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return uptask.ErrMemberNotFound
		}
		return err
	}

	return c.JSON(fiber.Map{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}

func (s *Server) ListTeam(c *fiber.Ctx) error {
	project := currentProject(c)

	team, err := s.repo.TeamMembers().ListForProject(c.UserContext(), project.ID)
	if err != nil {
		return err
	}

	return c.JSON(team)
}

// TeamMemberPayload adds a collaborator by id
type TeamMemberPayload struct {
	UserID string `form:"user_id" json:"user_id"`
}

// Validate will validate the payload
func (r TeamMemberPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required, is.UUID),
	)
}

func (s *Server) AddTeamMember(c *fiber.Ctx) error {
	payload := new(TeamMemberPayload)
	if err := parseBody(c, payload); err != nil {
		return err
	}

	if err := payload.Validate(); err != nil {
		return validationError(err)
	}

	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		return uptask.ErrMemberNotFound
	}

	if _, err := s.repo.Users().GetByID(c.UserContext(), userID.String()); err != nil {
		if repository.IsRecordNotFound(err) {
			return uptask.ErrMemberNotFound
		}
		return err
	}

	project := currentProject(c)

	onTeam, err := s.repo.TeamMembers().IsMember(c.UserContext(), project.ID, userID)
	if err != nil {
		return err
	}
	if onTeam {
		return uptask.ErrAlreadyOnTeam
	}

	if _, err := s.repo.TeamMembers().Add(c.UserContext(), project.ID, userID); err != nil {
		return err
	}

	return c.SendString("member added to the team")
}

func (s *Server) RemoveTeamMember(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userID"))
	if err != nil {
		return uptask.ErrNotOnTeam
	}

	project := currentProject(c)

	onTeam, err := s.repo.TeamMembers().IsMember(c.UserContext(), project.ID, userID)
	if err != nil {
		return err
	}
	if !onTeam {
		return uptask.ErrNotOnTeam
	}

	if err := s.repo.TeamMembers().Remove(c.UserContext(), project.ID, userID); err != nil {
		return err
	}

	return c.SendString("member removed from the team")
}
