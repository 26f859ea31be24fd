package service_test

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/limbo/habitgrid/internal/cache"
	errorvalues "github.com/limbo/habitgrid/internal/error_values"
	"github.com/limbo/habitgrid/internal/repository"
	"github.com/limbo/habitgrid/internal/repository/mocks"
	"github.com/limbo/habitgrid/internal/service"
	"github.com/limbo/habitgrid/pkg/entity"
	"github.com/pressly/goose"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
)

func TestRegister(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUsersRepositoryI(ctrl)
	us := service.NewUserService(repo)
	testCases := []struct {
		Desc         string
		Error        error
		Req          service.RegisterRequest
		MockPrepFunc func()
	}{
		{
			Desc:  "success",
			Error: nil,
			Req:   service.RegisterRequest{Name: "walter", Password: "password123"},
			MockPrepFunc: func() {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *entity.User) error {
					assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")))
					return nil
				})
				repo.EXPECT().FindByName(gomock.Any(), "walter").Return(&entity.User{ID: uuid.New(), Name: "walter"}, nil)
			},
		},
		{
			Desc:         "error short password",
			Error:        errorvalues.ErrValidation,
			Req:          service.RegisterRequest{Name: "walter", Password: "short"},
			MockPrepFunc: func() {},
		},
		{
			Desc:         "error name starts with digit",
			Error:        errorvalues.ErrValidation,
			Req:          service.RegisterRequest{Name: "1walter", Password: "password123"},
			MockPrepFunc: func() {},
		},
		{
			Desc:         "error name over 100 characters",
			Error:        errorvalues.ErrValidation,
			Req:          service.RegisterRequest{Name: strings.Repeat("w", 101), Password: "password123"},
			MockPrepFunc: func() {},
		},
		{
			Desc:  "error user exists",
			Error: errorvalues.ErrUserExists,
			Req:   service.RegisterRequest{Name: "walter", Password: "password123"},
			MockPrepFunc: func() {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errorvalues.ErrUserExists)
			},
		},
	}
	ctx := context.Background()
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			user, err := us.Register(ctx, &tc.Req)
			assert.ErrorIs(t, err, tc.Error)
			if tc.Error == nil {
				assert.Equal(t, tc.Req.Name, user.Name)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUsersRepositoryI(ctrl)
	us := service.NewUserService(repo)
	hash, err := service.Hash("password123")
	require.NoError(t, err)
	user := &entity.User{ID: uuid.New(), Name: "walter", PasswordHash: hash}
	testCases := []struct {
		Desc         string
		Error        error
		Password     string
		MockPrepFunc func()
	}{
		{
			Desc:     "success",
			Password: "password123",
			MockPrepFunc: func() {
				repo.EXPECT().FindByName(gomock.Any(), "walter").Return(user, nil)
			},
		},
		{
			Desc:     "error wrong password",
			Error:    errorvalues.ErrWrongCredentials,
			Password: "password124",
			MockPrepFunc: func() {
				repo.EXPECT().FindByName(gomock.Any(), "walter").Return(user, nil)
			},
		},
		{
			Desc:     "error unknown user",
			Error:    errorvalues.ErrWrongCredentials,
			Password: "password123",
			MockPrepFunc: func() {
				repo.EXPECT().FindByName(gomock.Any(), "walter").Return(nil, errorvalues.ErrUserNotFound)
			},
		},
	}
	ctx := context.Background()
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			res, err := us.Login(ctx, "walter", tc.Password)
			assert.ErrorIs(t, err, tc.Error)
			if tc.Error == nil {
				assert.Equal(t, user.ID, res.ID)
			}
		})
	}
}

func TestChangePassword(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUsersRepositoryI(ctrl)
	us := service.NewUserService(repo)
	hash, err := service.Hash("password123")
	require.NoError(t, err)
	uid := uuid.New()
	testCases := []struct {
		Desc         string
		Error        error
		Req          service.ChangePasswordRequest
		MockPrepFunc func()
	}{
		{
			Desc: "success",
			Req:  service.ChangePasswordRequest{OldPassword: "password123", NewPassword: "password456"},
			MockPrepFunc: func() {
				repo.EXPECT().FindByID(gomock.Any(), uid).Return(&entity.User{ID: uid, Name: "walter", PasswordHash: hash}, nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *entity.User) error {
					assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password456")))
					return nil
				})
			},
		},
		{
			Desc:  "error wrong old password",
			Error: errorvalues.ErrWrongCredentials,
			Req:   service.ChangePasswordRequest{OldPassword: "password000", NewPassword: "password456"},
			MockPrepFunc: func() {
				repo.EXPECT().FindByID(gomock.Any(), uid).Return(&entity.User{ID: uid, Name: "walter", PasswordHash: hash}, nil)
			},
		},
		{
			Desc:         "error new password too short",
			Error:        errorvalues.ErrValidation,
			Req:          service.ChangePasswordRequest{OldPassword: "password123", NewPassword: "short"},
			MockPrepFunc: func() {},
		},
		{
			Desc:  "error user not found",
			Error: errorvalues.ErrUserNotFound,
			Req:   service.ChangePasswordRequest{OldPassword: "password123", NewPassword: "password456"},
			MockPrepFunc: func() {
				repo.EXPECT().FindByID(gomock.Any(), uid).Return(nil, errorvalues.ErrUserNotFound)
			},
		},
	}
	ctx := context.Background()
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			err := us.ChangePassword(ctx, uid, &tc.Req)
			assert.ErrorIs(t, err, tc.Error)
		})
	}
}

func TestDeleteAccount(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUsersRepositoryI(ctrl)
	mirror := cache.NewMirror(0)
	us := service.NewUserService(repo).WithMirror(mirror)
	hash, err := service.Hash("password123")
	require.NoError(t, err)
	uid := uuid.New()
	user := &entity.User{ID: uid, Name: "walter", PasswordHash: hash}
	ctx := context.Background()

	t.Run("wrong password", func(t *testing.T) {
		repo.EXPECT().FindByID(gomock.Any(), uid).Return(user, nil)
		assert.ErrorIs(t, us.DeleteAccount(ctx, uid, "password000"), errorvalues.ErrWrongCredentials)
	})
	t.Run("deleted and mirror dropped", func(t *testing.T) {
		mirror.Put(uid, []entity.Habit{{ID: uuid.New(), UserID: uid}}, nil)
		repo.EXPECT().FindByID(gomock.Any(), uid).Return(user, nil)
		repo.EXPECT().Delete(gomock.Any(), uid).Return(nil)
		assert.NoError(t, us.DeleteAccount(ctx, uid, "password123"))
		_, ok := mirror.Get(uid)
		assert.False(t, ok)
	})
	t.Run("store error", func(t *testing.T) {
		repo.EXPECT().FindByID(gomock.Any(), uid).Return(user, nil)
		repo.EXPECT().Delete(gomock.Any(), uid).Return(errors.New("db error"))
		err := us.DeleteAccount(ctx, uid, "password123")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
}

func TestUserServiceIntegrational(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	pool, err := repository.Connect(context.Background(), setupTestDB(t))
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	us := service.NewUserService(repository.NewUsersRepo(pool))
	ctx := context.Background()
	username := "test_user"
	password := "test_password"
	var user *entity.User
	t.Run("registered user", func(t *testing.T) {
		user, err = us.Register(ctx, &service.RegisterRequest{
			Name:     username,
			Password: password,
		})
		require.NoError(t, err)
		assert.Equal(t, username, user.Name)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)))
	})
	t.Run("error registering already existed user", func(t *testing.T) {
		_, err := us.Register(ctx, &service.RegisterRequest{
			Name:     username,
			Password: password,
		})
		assert.ErrorIs(t, err, errorvalues.ErrUserExists)
	})
	t.Run("login", func(t *testing.T) {
		res, err := us.Login(ctx, username, password)
		assert.NoError(t, err)
		assert.Equal(t, user.ID, res.ID)
	})
	t.Run("password changed", func(t *testing.T) {
		err := us.ChangePassword(ctx, user.ID, &service.ChangePasswordRequest{
			OldPassword: password,
			NewPassword: "new_password",
		})
		require.NoError(t, err)
		_, err = us.Login(ctx, username, password)
		assert.ErrorIs(t, err, errorvalues.ErrWrongCredentials)
		_, err = us.Login(ctx, username, "new_password")
		assert.NoError(t, err)
	})
	t.Run("deleted", func(t *testing.T) {
		assert.NoError(t, us.DeleteAccount(ctx, user.ID, "new_password"))
		_, err := us.GetByID(ctx, user.ID)
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
}

type testPGConfig struct {
	connStr string
}

func (cfg *testPGConfig) ConnString() string {
	return cfg.connStr
}

func setupTestDB(t *testing.T) *testPGConfig {
	container, err := postgres.Run(context.Background(), "postgres:17",
		postgres.WithUsername("test_user"),
		postgres.WithDatabase("habitgrid"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatal("error running test container: " + err.Error())
	}
	t.Cleanup(func() {
		container.Terminate(context.Background())
	})
	connStr, err := container.ConnectionString(context.Background(), "sslmode=disable")
	if err != nil {
		t.Fatal(err)
	}
	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	if err = goose.Up(conn, "../../migrations"); err != nil {
		t.Fatal(err)
	}
	return &testPGConfig{
		connStr: connStr,
	}
}
