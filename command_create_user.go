package useradmin

import (
	"context"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type CreateUserMessage struct {
	Email      string    `json:"email"`
	Fullname   string    `json:"fullname"`
	RoleID     uuid.UUID `json:"role_id"`
	Status     string    `json:"status"`
	UseHashid  bool
	OnResponse func(resp *CreateUserResponse)
}

func (e CreateUserMessage) Type() string { return "user.create" }

type CreateUserResponse struct {
	User      *User
	ResetLink string
	Success   bool
}

// CreateUserHandler provisions a new account. The user starts without a
// password; instead they get an opaque reset token and an invitation email
// with a link to set their first password.
type CreateUserHandler struct {
	repo       RepositoryManager
	mailer     Mailer
	logger     Logger
	clientHost string
}

func NewCreateUserHandler(repo RepositoryManager, mailer Mailer, clientHost string) *CreateUserHandler {
	return &CreateUserHandler{
		repo:       repo,
		mailer:     mailer,
		logger:     defLogger{},
		clientHost: strings.TrimRight(clientHost, "/"),
	}
}

func (h *CreateUserHandler) WithLogger(logger Logger) *CreateUserHandler {
	h.logger = logger
	return h
}

func (h *CreateUserHandler) Execute(ctx context.Context, event CreateUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user creation",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *CreateUserHandler) execute(ctx context.Context, event CreateUserMessage) error {
	user := &User{}
	resp := &CreateUserResponse{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		taken, err := h.repo.Users().EmailTaken(ctx, event.Email, uuid.Nil)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check email uniqueness")
		}
		if taken {
			return ErrEmailTaken
		}

		exists, err := h.repo.Roles().Exists(ctx, event.RoleID)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check role")
		}
		if !exists {
			return ErrUnknownRole
		}

		now := time.Now()
		user.Email = strings.TrimSpace(event.Email)
		user.Fullname = event.Fullname
		user.RoleID = event.RoleID
		user.Status = event.Status
		user.ResetToken = uuid.NewString()
		user.ResetRequestedAt = &now

		if event.UseHashid {
			if id, err := hashid.NewUUID(user.Email); err == nil {
				user.ID = id
			}
		}

		if user, err = h.repo.Users().CreateTx(ctx, tx, user); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "user creation transaction failed")
	}

	resp.User = user
	resp.ResetLink = h.resetLink(user.ResetToken)
	resp.Success = true

	go func() {
		c, cancel := context.WithTimeout(context.Background(), time.Second*30)
		defer cancel()
		if err := h.mailer.SendInvitation(c, user.Email, user.Fullname, resp.ResetLink); err != nil {
			h.logger.Error("invitation email to %s: %v", user.Email, err)
		}
	}()

	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}

func (h *CreateUserHandler) resetLink(token string) string {
	return fmt.Sprintf("%s/change-password/%s", h.clientHost, token)
}
