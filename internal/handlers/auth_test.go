package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"missingpet-backend/internal/models"
	"missingpet-backend/internal/repository"
	"missingpet-backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserRepo struct {
	users map[string]*models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[string]*models.User{}}
}

func (f *stubUserRepo) Create(_ context.Context, user *models.User) error {
	u := *user
	f.users[user.ID] = &u
	return nil
}

func (f *stubUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, fmt.Errorf("user %w", repository.ErrNotFound)
}

func (f *stubUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, fmt.Errorf("user %w", repository.ErrNotFound)
}

func (f *stubUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(context.Background(), email)
	return err == nil, nil
}

func (f *stubUserRepo) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	u, ok := f.users[userID]
	if !ok {
		return fmt.Errorf("user %w", repository.ErrNotFound)
	}
	u.PasswordHash = passwordHash
	return nil
}

type stubCodeRepo struct {
	codes []*models.PasswordResetCode
}

func (f *stubCodeRepo) Create(_ context.Context, code *models.PasswordResetCode) error {
	c := *code
	f.codes = append(f.codes, &c)
	return nil
}

func (f *stubCodeRepo) GetByUserID(_ context.Context, userID string) (*models.PasswordResetCode, error) {
	for _, c := range f.codes {
		if c.UserID == userID {
			out := *c
			return &out, nil
		}
	}
	return nil, fmt.Errorf("reset code %w", repository.ErrNotFound)
}

func (f *stubCodeRepo) DeleteByUserID(_ context.Context, userID string) error {
	kept := f.codes[:0]
	for _, c := range f.codes {
		if c.UserID != userID {
			kept = append(kept, c)
		}
	}
	f.codes = kept
	return nil
}

type stubMailer struct {
	codes []int64
}

func (f *stubMailer) SendResetCode(_ context.Context, _, _ string, code int64) error {
	f.codes = append(f.codes, code)
	return nil
}

func newAuthFixture() (*stubUserRepo, *stubMailer, *UserHandler, *AuthHandler) {
	users := newStubUserRepo()
	mailer := &stubMailer{}
	userService := services.NewUserService(users, "test-secret", time.Hour)
	resetService := services.NewResetService(&stubCodeRepo{}, users, mailer, 6, 3600)
	return users, mailer, NewUserHandler(userService), NewAuthHandler(userService, resetService)
}

func postJSON(t *testing.T, handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestRegister_CreatedResponse(t *testing.T) {
	_, _, userHandler, _ := newAuthFixture()

	rec := postJSON(t, userHandler.Register, "/users",
		`{"email":"alice@example.com","nickname":"alice","password":"password123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body UserInfoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.ID)
	assert.Equal(t, "alice@example.com", body.Email)
	assert.Equal(t, "alice", body.Nickname)

	// the hash never leaks into the response
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRegister_ValidationFields(t *testing.T) {
	_, _, userHandler, _ := newAuthFixture()

	rec := postJSON(t, userHandler.Register, "/users", `{"email":"","nickname":"","password":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Fields, "email")
	assert.Contains(t, body.Fields, "nickname")
	assert.Contains(t, body.Fields, "password")
}

func TestRegister_DuplicateEmailConflict(t *testing.T) {
	_, _, userHandler, _ := newAuthFixture()

	first := postJSON(t, userHandler.Register, "/users",
		`{"email":"alice@example.com","nickname":"alice","password":"password123"}`)
	require.Equal(t, http.StatusCreated, first.Code)

	second := postJSON(t, userHandler.Register, "/users",
		`{"email":"alice@example.com","nickname":"alice2","password":"password456"}`)
	assert.Equal(t, http.StatusConflict, second.Code)
}

func TestLogin_SuccessAndFailure(t *testing.T) {
	_, _, userHandler, authHandler := newAuthFixture()

	rec := postJSON(t, userHandler.Register, "/users",
		`{"email":"alice@example.com","nickname":"alice","password":"password123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	ok := postJSON(t, authHandler.Login, "/auth/login",
		`{"email":"alice@example.com","password":"password123"}`)
	require.Equal(t, http.StatusOK, ok.Code)

	var body LoginResponse
	require.NoError(t, json.Unmarshal(ok.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Token)

	bad := postJSON(t, authHandler.Login, "/auth/login",
		`{"email":"alice@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, bad.Code)
}

func TestPasswordReset_AlwaysNoContent(t *testing.T) {
	_, mailer, userHandler, authHandler := newAuthFixture()

	rec := postJSON(t, userHandler.Register, "/users",
		`{"email":"alice@example.com","nickname":"alice","password":"password123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	known := postJSON(t, authHandler.PasswordReset, "/auth/password-reset",
		`{"email":"alice@example.com"}`)
	assert.Equal(t, http.StatusNoContent, known.Code)
	assert.Len(t, mailer.codes, 1)

	// unknown emails get the same answer and no mail
	unknown := postJSON(t, authHandler.PasswordReset, "/auth/password-reset",
		`{"email":"nobody@example.com"}`)
	assert.Equal(t, http.StatusNoContent, unknown.Code)
	assert.Len(t, mailer.codes, 1)
}

func TestPasswordResetConfirm_FullFlow(t *testing.T) {
	_, mailer, userHandler, authHandler := newAuthFixture()

	rec := postJSON(t, userHandler.Register, "/users",
		`{"email":"alice@example.com","nickname":"alice","password":"password123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	reset := postJSON(t, authHandler.PasswordReset, "/auth/password-reset",
		`{"email":"alice@example.com"}`)
	require.Equal(t, http.StatusNoContent, reset.Code)
	require.Len(t, mailer.codes, 1)

	confirm := postJSON(t, authHandler.PasswordResetConfirm, "/auth/password-reset/confirm",
		fmt.Sprintf(`{"email":"alice@example.com","code":%d,"new_password":"fresh password"}`, mailer.codes[0]))
	require.Equal(t, http.StatusNoContent, confirm.Code)

	// old password no longer works, the new one does
	old := postJSON(t, authHandler.Login, "/auth/login",
		`{"email":"alice@example.com","password":"password123"}`)
	assert.Equal(t, http.StatusUnauthorized, old.Code)

	fresh := postJSON(t, authHandler.Login, "/auth/login",
		`{"email":"alice@example.com","password":"fresh password"}`)
	assert.Equal(t, http.StatusOK, fresh.Code)
}

func TestPasswordResetConfirm_WrongCodeSameSignal(t *testing.T) {
	_, mailer, userHandler, authHandler := newAuthFixture()

	rec := postJSON(t, userHandler.Register, "/users",
		`{"email":"alice@example.com","nickname":"alice","password":"password123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	reset := postJSON(t, authHandler.PasswordReset, "/auth/password-reset",
		`{"email":"alice@example.com"}`)
	require.Equal(t, http.StatusNoContent, reset.Code)

	wrongCode := postJSON(t, authHandler.PasswordResetConfirm, "/auth/password-reset/confirm",
		fmt.Sprintf(`{"email":"alice@example.com","code":%d,"new_password":"fresh password"}`, mailer.codes[0]+1))
	unknownUser := postJSON(t, authHandler.PasswordResetConfirm, "/auth/password-reset/confirm",
		`{"email":"nobody@example.com","code":123456,"new_password":"fresh password"}`)

	// wrong code and unknown account are indistinguishable to the caller
	assert.Equal(t, http.StatusBadRequest, wrongCode.Code)
	assert.Equal(t, http.StatusBadRequest, unknownUser.Code)
	assert.Equal(t, wrongCode.Body.String(), unknownUser.Body.String())
}
