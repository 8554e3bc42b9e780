package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sahidx/saroyar-sub004/internal/models"
	"github.com/sahidx/saroyar-sub004/internal/service"
)

type fakeUsers struct {
	got service.CreateUserRequest
}

func (f *fakeUsers) CreateUser(ctx context.Context, req service.CreateUserRequest) (*models.User, error) {
	f.got = req
	return &models.User{ID: "u1", Email: req.Email, Role: req.Role}, nil
}

func newCLI(users *fakeUsers, migrated *bool) *commandLine {
	return &commandLine{
		migrate: func(ctx context.Context) error { *migrated = true; return nil },
		users:   users,
		logger:  zap.NewNop(),
	}
}

func TestRunPrintsHelpWithoutCommand(t *testing.T) {
	var migrated bool
	err := newCLI(&fakeUsers{}, &migrated).run(context.Background(), []string{"admin"})
	assert.True(t, errors.Is(err, errHelp))

	err = newCLI(&fakeUsers{}, &migrated).run(context.Background(), []string{"admin", "unknown"})
	assert.True(t, errors.Is(err, errHelp))
}

func TestRunMigrate(t *testing.T) {
	var migrated bool
	require.NoError(t, newCLI(&fakeUsers{}, &migrated).run(context.Background(), []string{"admin", "migrate"}))
	assert.True(t, migrated)
}

func TestRunAddUser(t *testing.T) {
	original := readPasswordFunc
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("s3cret-pass"), nil }
	defer func() { readPasswordFunc = original }()

	users := &fakeUsers{}
	var migrated bool
	err := newCLI(users, &migrated).run(context.Background(),
		[]string{"admin", "adduser", "-email", "t@example.com", "-name", "Teacher", "-role", "TEACHER"})
	require.NoError(t, err)
	assert.Equal(t, "s3cret-pass", users.got.Password)
	assert.Equal(t, models.RoleTeacher, users.got.Role)
	assert.Nil(t, users.got.StudentID)

	err = newCLI(users, &migrated).run(context.Background(), []string{"admin", "adduser", "-email", "x@example.com"})
	assert.True(t, errors.Is(err, errHelp))
}
