package auth

import (
	"context"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// RegisterUserMessage carries a registration request through a command bus.
type RegisterUserMessage struct {
	Email          string `json:"email"`
	Username       string `json:"username"`
	Name           string `json:"name"`
	ProfilePicture string `json:"pfp"`
	Password       string `json:"password"`

	// OnResult receives the issued token and user when registration
	// succeeds.
	OnResult func(*AuthResult)
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// RegisterUserHandler executes RegisterUserMessage against a Manager.
type RegisterUserHandler struct {
	manager *Manager
}

func NewRegisterUserHandler(manager *Manager) *RegisterUserHandler {
	return &RegisterUserHandler{manager: manager}
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) error {
	res, err := h.manager.Register(ctx, Credentials{
		Email:          event.Email,
		Username:       getUsername(event.Username, event.Email),
		Name:           event.Name,
		ProfilePicture: event.ProfilePicture,
		Password:       event.Password,
	})
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "user registration failed")
	}

	if event.OnResult != nil {
		event.OnResult(res)
	}

	return nil
}

func getUsername(username, email string) string {
	if username != "" {
		return username
	}

	if strings.Contains(email, "@") {
		username = strings.Split(email, "@")[0]
	}

	return username
}
