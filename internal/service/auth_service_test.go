package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai_authoring_backend/internal/gateway"
	"ai_authoring_backend/internal/model"
	"ai_authoring_backend/internal/session"
	"ai_authoring_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rejectingBackend 登录总是失败
type rejectingBackend struct {
	*gateway.Simulation
}

func (rejectingBackend) Login(context.Context, model.LoginCredentials) (*model.LoginUser, error) {
	return nil, util.ErrLoginFailed
}

func TestLoginStoresUserAndCodes(t *testing.T) {
	store := session.NewMemoryStore()
	sess := session.NewContext("auth-1", store)
	svc := NewAuthService(gateway.NewSimulation(0))

	user, err := svc.Login(context.Background(), sess, model.LoginCredentials{
		Email: "author@example.com", Password: "secret", AppCode: "QG",
	})
	require.NoError(t, err)

	stored, ok := sess.User(context.Background())
	require.True(t, ok)
	assert.Equal(t, user.UserCode, stored.UserCode)
	assert.JSONEq(t, string(user.Raw), string(stored.Raw))

	id := sess.Identity(context.Background())
	assert.Equal(t, user.UserCode, id.UserCode)
	assert.Equal(t, "Exc195", id.OrgCode)
	assert.Equal(t, "QG", id.AppCode)

	current, _ := svc.CurrentUser(context.Background(), sess)
	require.NotNil(t, current)
	assert.Equal(t, user.UserCode, current.UserCode)
}

func TestLoginFailureWritesNothing(t *testing.T) {
	store := session.NewMemoryStore()
	sess := session.NewContext("auth-2", store)
	svc := NewAuthService(rejectingBackend{gateway.NewSimulation(0)})

	_, err := svc.Login(context.Background(), sess, model.LoginCredentials{Email: "a@b.c", Password: "wrong"})
	assert.ErrorIs(t, err, util.ErrLoginFailed)
	assert.Zero(t, store.Len("auth-2"))

	_, err = svc.Login(context.Background(), sess, model.LoginCredentials{Email: "a@b.c"})
	assert.ErrorIs(t, err, util.ErrValidation)
	assert.Zero(t, store.Len("auth-2"))

	user, id := svc.CurrentUser(context.Background(), sess)
	assert.Nil(t, user)
	assert.Equal(t, session.DefaultUserCode, id.UserCode)
}

func TestLogoutDropsPages(t *testing.T) {
	quiz := NewQuizService(newTestSimulator())
	store := session.NewMemoryStore()
	sess := session.NewContext("auth-3", store)
	svc := NewAuthService(gateway.NewSimulation(0), quiz.Pages())

	_, err := svc.Login(context.Background(), sess, model.LoginCredentials{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	_, err = quiz.Generate(context.Background(), sess, quizRequest("1", "A"))
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), sess))
	assert.Zero(t, store.Len("auth-3"))
	assert.Nil(t, quiz.Current(sess).Result)
}

func TestRegisterFillsCreatorFromSession(t *testing.T) {
	sess := newTestSession("auth-4")
	svc := NewAuthService(gateway.NewSimulation(0))

	_, err := svc.Register(context.Background(), sess, model.RegisterPayload{Name: "x"})
	assert.ErrorIs(t, err, util.ErrValidation)

	res, err := svc.Register(context.Background(), sess, model.RegisterPayload{
		Name: "New Author", Email: "new@example.com", Mobile: "9999999999",
		Organization: "School", Password: "secret1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Status)
}

func TestLoginDefaultsAppCode(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"S001","data":[{"usercode":"U1","orgcode":"O1","custcode":"C1"}]}`))
	}))
	defer srv.Close()

	sess := session.NewContext("auth-app", session.NewMemoryStore())
	svc := NewAuthService(gateway.NewClientWithHTTP(srv.URL, srv.Client()))

	_, err := svc.Login(context.Background(), sess, model.LoginCredentials{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"a@b.c","password":"pw","appcode":"IG"}`, string(body))
	assert.Equal(t, session.DefaultAppCode, sess.AppCode(context.Background()))
}
