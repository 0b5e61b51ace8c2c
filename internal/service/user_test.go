package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shopapi/internal/auth"
	"shopapi/internal/model"
	"shopapi/internal/repository"
	repoMocks "shopapi/internal/repository/mocks"
)

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		in         RegisterInput
		setupMocks func(mRepo *repoMocks.MockUserRepository)
		wantErr    error
		wantErrMsg string
	}{
		{
			name: "happy path",
			in:   RegisterInput{Name: " Ada ", Email: "Ada@Example.COM", Password: "secret"},
			setupMocks: func(mRepo *repoMocks.MockUserRepository) {
				mRepo.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
					return u.ID != "" && u.Name == "Ada" && u.Email == "ada@example.com" &&
						!u.IsAdmin && auth.CheckPassword(u.PasswordHash, "secret")
				})).Return(&model.User{ID: "u1", Name: "Ada", Email: "ada@example.com"}, nil)
			},
		},
		{
			name: "duplicate email",
			in:   RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret"},
			setupMocks: func(mRepo *repoMocks.MockUserRepository) {
				mRepo.On("Create", ctx, mock.Anything).Return(nil, repository.ErrDuplicate)
			},
			wantErr: ErrEmailTaken,
		},
		{
			name:       "empty password",
			in:         RegisterInput{Name: "Ada", Email: "ada@example.com"},
			setupMocks: func(mRepo *repoMocks.MockUserRepository) {},
			wantErrMsg: "hash password",
		},
		{
			name:       "password over bcrypt byte limit",
			in:         RegisterInput{Name: "Ada", Email: "ada@example.com", Password: strings.Repeat("س", 40)},
			setupMocks: func(mRepo *repoMocks.MockUserRepository) {},
			wantErr:    ErrPasswordTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockUserRepository)
			svc := NewUserService(mRepo)
			tt.setupMocks(mRepo)

			got, err := svc.Register(ctx, tt.in)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantErrMsg != "":
				assert.ErrorContains(t, err, tt.wantErrMsg)
			default:
				require.NoError(t, err)
				assert.Equal(t, "u1", got.ID)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := auth.HashPassword("secret")
	require.NoError(t, err)
	stored := &model.User{ID: "u1", Email: "ada@example.com", PasswordHash: hash}

	tests := []struct {
		name       string
		email      string
		password   string
		setupMocks func(mRepo *repoMocks.MockUserRepository)
		wantErr    error
	}{
		{
			name:     "happy path normalizes email",
			email:    " ADA@example.com",
			password: "secret",
			setupMocks: func(mRepo *repoMocks.MockUserRepository) {
				mRepo.On("FindByEmail", ctx, "ada@example.com").Return(stored, nil)
			},
		},
		{
			name:     "wrong password",
			email:    "ada@example.com",
			password: "nope",
			setupMocks: func(mRepo *repoMocks.MockUserRepository) {
				mRepo.On("FindByEmail", ctx, "ada@example.com").Return(stored, nil)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "who@example.com",
			password: "secret",
			setupMocks: func(mRepo *repoMocks.MockUserRepository) {
				mRepo.On("FindByEmail", ctx, "who@example.com").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockUserRepository)
			svc := NewUserService(mRepo)
			tt.setupMocks(mRepo)

			got, err := svc.Login(ctx, tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "u1", got.ID)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps empty fields and rehashes password", func(t *testing.T) {
		mRepo := new(repoMocks.MockUserRepository)
		svc := NewUserService(mRepo)

		mRepo.On("FindByID", ctx, "u1").
			Return(&model.User{ID: "u1", Name: "Ada", Email: "ada@example.com", PasswordHash: "old"}, nil)
		mRepo.On("Update", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.Name == "Ada" && u.Email == "lovelace@example.com" && auth.CheckPassword(u.PasswordHash, "new-secret")
		})).Return(&model.User{ID: "u1", Name: "Ada", Email: "lovelace@example.com"}, nil)

		got, err := svc.UpdateProfile(ctx, "u1", ProfileInput{Email: "Lovelace@example.com", Password: "new-secret"})
		require.NoError(t, err)
		assert.Equal(t, "lovelace@example.com", got.Email)
		mRepo.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mRepo := new(repoMocks.MockUserRepository)
		svc := NewUserService(mRepo)

		mRepo.On("FindByID", ctx, "u1").Return(&model.User{ID: "u1", Name: "Ada", Email: "ada@example.com"}, nil)
		mRepo.On("Update", ctx, mock.Anything).Return(nil, repository.ErrDuplicate)

		_, err := svc.UpdateProfile(ctx, "u1", ProfileInput{Email: "taken@example.com"})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("missing user", func(t *testing.T) {
		mRepo := new(repoMocks.MockUserRepository)
		svc := NewUserService(mRepo)

		mRepo.On("FindByID", ctx, "u1").Return(nil, sql.ErrNoRows)

		_, err := svc.UpdateProfile(ctx, "u1", ProfileInput{Name: "x"})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("password over bcrypt byte limit", func(t *testing.T) {
		mRepo := new(repoMocks.MockUserRepository)
		svc := NewUserService(mRepo)

		mRepo.On("FindByID", ctx, "u1").Return(&model.User{ID: "u1", Name: "Ada"}, nil)

		_, err := svc.UpdateProfile(ctx, "u1", ProfileInput{Password: strings.Repeat("س", 40)})
		assert.ErrorIs(t, err, ErrPasswordTooLong)
		mRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockUserRepository)
	svc := NewUserService(mRepo)

	mRepo.On("FindByID", ctx, "u2").Return(&model.User{ID: "u2", Name: "Bob", Email: "bob@example.com", IsAdmin: true}, nil)
	mRepo.On("Update", ctx, mock.MatchedBy(func(u *model.User) bool {
		return u.Name == "Robert" && u.Email == "bob@example.com" && !u.IsAdmin
	})).Return(&model.User{ID: "u2", Name: "Robert", Email: "bob@example.com"}, nil)

	got, err := svc.Update(ctx, "u2", AdminUpdateInput{Name: "Robert"})
	require.NoError(t, err)
	assert.False(t, got.IsAdmin)
	mRepo.AssertExpectations(t)
}

func TestUserService_List(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockUserRepository)
	svc := NewUserService(mRepo)

	mRepo.On("List", ctx, repository.PageQuery{Limit: 20, Offset: 0}).
		Return(&repository.PageResult[model.User]{Items: []model.User{{ID: "u1"}}, Total: 1}, nil)

	res, err := svc.List(ctx, 0, -5)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Len(t, res.Items, 1)
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		setupMocks func(mRepo *repoMocks.MockUserRepository)
		wantErr    error
		wantErrMsg string
	}{
		{
			name: "happy path",
			id:   "u2",
			setupMocks: func(mRepo *repoMocks.MockUserRepository) {
				mRepo.On("FindByID", ctx, "u2").Return(&model.User{ID: "u2"}, nil)
				mRepo.On("Delete", ctx, "u2").Return(nil)
			},
		},
		{
			name: "admin cannot be deleted",
			id:   "u1",
			setupMocks: func(mRepo *repoMocks.MockUserRepository) {
				mRepo.On("FindByID", ctx, "u1").Return(&model.User{ID: "u1", IsAdmin: true}, nil)
			},
			wantErr: ErrAdminDelete,
		},
		{
			name: "not found",
			id:   "u3",
			setupMocks: func(mRepo *repoMocks.MockUserRepository) {
				mRepo.On("FindByID", ctx, "u3").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrUserNotFound,
		},
		{
			name:       "empty id",
			id:         "",
			setupMocks: func(mRepo *repoMocks.MockUserRepository) {},
			wantErr:    ErrIDRequired,
		},
		{
			name: "demoted admin still owns products",
			id:   "u4",
			setupMocks: func(mRepo *repoMocks.MockUserRepository) {
				mRepo.On("FindByID", ctx, "u4").Return(&model.User{ID: "u4"}, nil)
				mRepo.On("Delete", ctx, "u4").Return(repository.ErrReferenced)
			},
			wantErr: ErrUserOwnsProducts,
		},
		{
			name: "repository error",
			id:   "u2",
			setupMocks: func(mRepo *repoMocks.MockUserRepository) {
				mRepo.On("FindByID", ctx, "u2").Return(&model.User{ID: "u2"}, nil)
				mRepo.On("Delete", ctx, "u2").Return(errors.New("db fail"))
			},
			wantErrMsg: "db fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockUserRepository)
			svc := NewUserService(mRepo)
			tt.setupMocks(mRepo)

			err := svc.Delete(ctx, tt.id)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantErrMsg != "":
				assert.EqualError(t, err, tt.wantErrMsg)
			default:
				assert.NoError(t, err)
			}
			mRepo.AssertExpectations(t)
		})
	}
}
