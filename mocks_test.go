package useradmin_test

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-repository-bun"
	useradmin "github.com/goliatone/go-useradmin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

// MockUsers implements useradmin.Users. The embedded Repository satisfies the
// generic surface; only the methods exercised by tests are mocked.
type MockUsers struct {
	repository.Repository[*useradmin.User]
	mock.Mock
}

func (m *MockUsers) GetByEmail(ctx context.Context, email string, criteria ...repository.SelectCriteria) (*useradmin.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*useradmin.User), args.Error(1)
}

func (m *MockUsers) GetByEmailTx(ctx context.Context, tx bun.IDB, email string, criteria ...repository.SelectCriteria) (*useradmin.User, error) {
	args := m.Called(ctx, tx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*useradmin.User), args.Error(1)
}

func (m *MockUsers) GetByResetToken(ctx context.Context, token string) (*useradmin.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*useradmin.User), args.Error(1)
}

func (m *MockUsers) GetByResetTokenTx(ctx context.Context, tx bun.IDB, token string) (*useradmin.User, error) {
	args := m.Called(ctx, tx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*useradmin.User), args.Error(1)
}

func (m *MockUsers) GetWithRole(ctx context.Context, id uuid.UUID) (*useradmin.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*useradmin.User), args.Error(1)
}

func (m *MockUsers) EmailTaken(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUsers) List(ctx context.Context, params useradmin.ListUsersParams) ([]*useradmin.User, int, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*useradmin.User), args.Int(1), args.Error(2)
}

func (m *MockUsers) Create(ctx context.Context, record *useradmin.User, criteria ...repository.InsertCriteria) (*useradmin.User, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*useradmin.User), args.Error(1)
}

// CreateTx echoes the record back when no explicit return value is set,
// mirroring how the real repository returns the inserted row.
func (m *MockUsers) CreateTx(ctx context.Context, tx bun.IDB, record *useradmin.User, criteria ...repository.InsertCriteria) (*useradmin.User, error) {
	args := m.Called(ctx, tx, record)
	if args.Get(0) == nil {
		return record, args.Error(1)
	}
	return args.Get(0).(*useradmin.User), args.Error(1)
}

func (m *MockUsers) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) (*useradmin.User, error) {
	args := m.Called(ctx, id, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*useradmin.User), args.Error(1)
}

func (m *MockUsers) UpdatePasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) (*useradmin.User, error) {
	args := m.Called(ctx, tx, id, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*useradmin.User), args.Error(1)
}

func (m *MockUsers) ConsumeResetToken(ctx context.Context, id uuid.UUID, passwordHash string) (*useradmin.User, error) {
	args := m.Called(ctx, id, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*useradmin.User), args.Error(1)
}

func (m *MockUsers) ConsumeResetTokenTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) (*useradmin.User, error) {
	args := m.Called(ctx, tx, id, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*useradmin.User), args.Error(1)
}

func (m *MockUsers) DeleteByID(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUsers) DeleteByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

// MockRoles implements useradmin.Roles
type MockRoles struct {
	repository.Repository[*useradmin.Role]
	mock.Mock
}

func (m *MockRoles) GetByTitle(ctx context.Context, title string) (*useradmin.Role, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*useradmin.Role), args.Error(1)
}

func (m *MockRoles) List(ctx context.Context) ([]*useradmin.Role, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*useradmin.Role), args.Error(1)
}

func (m *MockRoles) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockRepositoryManager implements useradmin.RepositoryManager. RunInTx runs
// the callback directly with a zero transaction; the mocked repositories do
// not touch it.
type MockRepositoryManager struct {
	users *MockUsers
	roles *MockRoles
}

func NewMockRepositoryManager() *MockRepositoryManager {
	return &MockRepositoryManager{
		users: &MockUsers{},
		roles: &MockRoles{},
	}
}

func (m *MockRepositoryManager) Users() useradmin.Users { return m.users }
func (m *MockRepositoryManager) Roles() useradmin.Roles { return m.roles }
func (m *MockRepositoryManager) Validate() error        { return nil }
func (m *MockRepositoryManager) MustValidate()          {}

func (m *MockRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	return f(ctx, bun.Tx{})
}

// MockMailer records invitations
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendInvitation(ctx context.Context, to, fullname, link string) error {
	args := m.Called(ctx, to, fullname, link)
	return args.Error(0)
}
