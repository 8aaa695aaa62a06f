package dialog

import (
	"context"
	"errors"

	"github.com/PabloGalante/timetable-bot/internal/app/render"
	"github.com/PabloGalante/timetable-bot/internal/domain"
	"github.com/PabloGalante/timetable-bot/internal/observability"
)

// Authenticator is the credential check behind the admin login dialog.
type Authenticator interface {
	IsAdmin(ctx context.Context, chatID domain.ChatID) (bool, error)
	Login(ctx context.Context, p domain.Profile, username, password string) (*domain.User, string, error)
}

// LoginController asks for the admin username and password.
type LoginController struct {
	auth Authenticator
}

func NewLoginController(auth Authenticator) *LoginController {
	return &LoginController{auth: auth}
}

func (c *LoginController) ID() DialogID {
	return DialogAdminLogin
}

func (c *LoginController) Enter(ctx context.Context, in domain.Inbound, sess *Session) (Result, error) {
	isAdmin, err := c.auth.IsAdmin(ctx, in.ChatID)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("failed to check admin rights", "error", err)
		return exit(text(msgStoreFailure, render.MainMenu())), nil
	}
	if isAdmin {
		return exit(text("Welcome to the admin panel!", render.AdminMenu())), nil
	}

	sess.Login = &LoginFlow{Step: LoginStepUsername}
	return stay(text("Enter the administrator username:", render.CancelOnly())), nil
}

func (c *LoginController) Handle(ctx context.Context, in domain.Inbound, sess *Session) (Result, error) {
	flow := sess.Login
	if flow == nil {
		return Result{}, unknownStep(c.ID(), "none")
	}

	it := Normalize(in)
	switch it.Kind {
	case IntentCancel:
		return exit(text("Login cancelled.", render.MainMenu())), nil
	case IntentBack:
		if flow.Step == LoginStepUsername {
			return exit(text("Login cancelled.", render.MainMenu())), nil
		}
		sess.Login = &LoginFlow{Step: LoginStepUsername}
		return stay(text("Enter the administrator username:", render.CancelOnly())), nil
	}

	switch flow.Step {
	case LoginStepUsername:
		if it.Text == "" {
			return stay(text("The username cannot be empty.", render.CancelOnly())), nil
		}
		flow.Username = it.Text
		flow.Step = LoginStepPassword
		prompt := text("Enter the password:", render.CancelOnly())
		prompt.Secret = true
		return stay(prompt), nil

	case LoginStepPassword:
		return c.login(ctx, in, sess, it.Text), nil
	}

	return Result{}, unknownStep(c.ID(), flow.Step)
}

func (c *LoginController) login(ctx context.Context, in domain.Inbound, sess *Session, password string) Result {
	log := observability.LoggerFromContext(ctx)

	_, token, err := c.auth.Login(ctx, in.Profile, sess.Login.Username, password)
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		log.Warn("admin login failed", "username", sess.Login.Username)
		sess.Login = &LoginFlow{Step: LoginStepUsername}
		return stay(text("Invalid username or password. Enter the username again:", render.CancelOnly()))
	case err != nil:
		log.Error("admin login failed", "error", err)
		return exit(text("Failed to log in. Please try again later.", render.MainMenu()))
	}

	log.Info("admin logged in")
	return exit(
		text("You are logged in as administrator.", render.AdminMenu()),
		markdown("Admin API token:\n`"+token+"`", nil),
	)
}
