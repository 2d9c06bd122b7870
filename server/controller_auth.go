package server

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/gofiber/fiber/v2"
)

// RegisterPayload is the account creation payload
type RegisterPayload struct {
	Name            string `form:"name" json:"name"`
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"password_confirmation" json:"password_confirmation"`
}

// Validate will validate the payload
func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.By(validateStringEquals(r.Password)),
		),
	)
}

func (s *Server) Register(c *fiber.Ctx) error {
	payload := new(RegisterPayload)
	if err := parseBody(c, payload); err != nil {
		return err
	}

	if err := payload.Validate(); err != nil {
		return validationError(err)
	}

	if _, err := s.accounts.Register(c.UserContext(), payload.Name, payload.Email, payload.Password); err != nil {
		return err
	}

	return c.SendString("account created, check your email to confirm it")
}

// TokenPayload carries a confirmation or reset code
type TokenPayload struct {
	Token string `form:"token" json:"token"`
}

func (r TokenPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required, validation.Length(6, 6), is.Digit),
	)
}

func (s *Server) ConfirmAccount(c *fiber.Ctx) error {
	payload := new(TokenPayload)
	if err := parseBody(c, payload); err != nil {
		return err
	}

	if err := payload.Validate(); err != nil {
		return validationError(err)
	}

	if err := s.accounts.ConfirmAccount(c.UserContext(), payload.Token); err != nil {
		return err
	}

	return c.SendString("account confirmed")
}

// LoginPayload is the credentials payload
type LoginPayload struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// Login answers with the raw session token on success.
func (s *Server) Login(c *fiber.Ctx) error {
	payload := new(LoginPayload)
	if err := parseBody(c, payload); err != nil {
		return err
	}

	if err := payload.Validate(); err != nil {
		return validationError(err)
	}

	token, err := s.accounts.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return err
	}

	return c.SendString(token)
}

// EmailPayload identifies an account by address
type EmailPayload struct {
	Email string `form:"email" json:"email"`
}

func (r EmailPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

func (s *Server) RequestConfirmationCode(c *fiber.Ctx) error {
	payload := new(EmailPayload)
	if err := parseBody(c, payload); err != nil {
		return err
	}

	if err := payload.Validate(); err != nil {
		return validationError(err)
	}

	if err := s.accounts.ResendConfirmation(c.UserContext(), payload.Email); err != nil {
		return err
	}

	return c.SendString("a new code was sent to your email")
}

func (s *Server) ForgotPassword(c *fiber.Ctx) error {
	payload := new(EmailPayload)
	if err := parseBody(c, payload); err != nil {
		return err
	}

	if err := payload.Validate(); err != nil {
		return validationError(err)
	}

	if err := s.accounts.ForgotPassword(c.UserContext(), payload.Email); err != nil {
		return err
	}

	return c.SendString("check your email for instructions")
}

func (s *Server) ValidateResetToken(c *fiber.Ctx) error {
	payload := new(TokenPayload)
	if err := parseBody(c, payload); err != nil {
		return err
	}

	if err := payload.Validate(); err != nil {
		return validationError(err)
	}

	if err := s.accounts.ValidateResetToken(c.UserContext(), payload.Token); err != nil {
		return err
	}

	return c.SendString("valid token, set your new password")
}

// PasswordPayload carries a new password plus its confirmation
type PasswordPayload struct {
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"password_confirmation" json:"password_confirmation"`
}

func (r PasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.By(validateStringEquals(r.Password)),
		),
	)
}

func (s *Server) ResetPasswordWithToken(c *fiber.Ctx) error {
	payload := new(PasswordPayload)
	if err := parseBody(c, payload); err != nil {
		return err
	}

	if err := payload.Validate(); err != nil {
		return validationError(err)
	}

	if err := s.accounts.ResetPassword(c.UserContext(), c.Params("token"), payload.Password); err != nil {
		return err
	}

	return c.SendString("password updated")
}

// CurrentUser echoes the session owner's profile.
func (s *Server) CurrentUser(c *fiber.Ctx) error {
	return c.JSON(currentUser(c))
}

// ProfilePayload updates name and email
type ProfilePayload struct {
	Name  string `form:"name" json:"name"`
	Email string `form:"email" json:"email"`
}

func (r ProfilePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	payload := new(ProfilePayload)
	if err := parseBody(c, payload); err != nil {
		return err
	}

	if err := payload.Validate(); err != nil {
		return validationError(err)
	}

	if _, err := s.accounts.UpdateProfile(c.UserContext(), currentUser(c), payload.Name, payload.Email); err != nil {
		return err
	}

	return c.SendString("profile updated")
}

// ChangePasswordPayload rotates the password of a live session
type ChangePasswordPayload struct {
	CurrentPassword string `form:"current_password" json:"current_password"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"password_confirmation" json:"password_confirmation"`
}

func (r ChangePasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CurrentPassword, validation.Required),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.By(validateStringEquals(r.Password)),
		),
	)
}

func (s *Server) ChangePassword(c *fiber.Ctx) error {
	payload := new(ChangePasswordPayload)
	if err := parseBody(c, payload); err != nil {
		return err
	}

	if err := payload.Validate(); err != nil {
		return validationError(err)
	}

	if err := s.accounts.ChangePassword(c.UserContext(), currentUser(c), payload.CurrentPassword, payload.Password); err != nil {
		return err
	}

	return c.SendString("password updated")
}

// CheckPasswordPayload re-verifies the session owner's password
type CheckPasswordPayload struct {
	Password string `form:"password" json:"password"`
}

func (r CheckPasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required),
	)
}

func (s *Server) CheckPassword(c *fiber.Ctx) error {
	payload := new(CheckPasswordPayload)
	if err := parseBody(c, payload); err != nil {
		return err
	}

	if err := payload.Validate(); err != nil {
		return validationError(err)
	}

	if err := s.accounts.CheckPassword(c.UserContext(), currentUser(c), payload.Password); err != nil {
		return err
	}

	return c.SendString("password is correct")
}

func validateStringEquals(expected string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != expected {
			return validation.NewError("validation_match", "passwords do not match")
		}
		return nil
	}
}
