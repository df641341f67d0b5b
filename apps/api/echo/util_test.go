package echoapi_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	echoapi "github.com/campushq/clubhub/apps/api/echo"
	"github.com/campushq/clubhub/core"
	"github.com/campushq/clubhub/core/club"
	"github.com/campushq/clubhub/core/membership"
	"github.com/campushq/clubhub/core/user"
	emailsvc "github.com/campushq/clubhub/services/email"
	inmemdb "github.com/campushq/clubhub/storage/database/inmem"
	testutil "github.com/campushq/clubhub/tests"
)

type testApp struct {
	server     echoapi.Server
	usrRepo    user.Repository
	clubRepo   club.Repository
	memberRepo membership.Repository
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func setup(t *testing.T) *testApp {
	t.Helper()
	testutil.SetupConfig(t)

	db, err := inmemdb.Open()
	require.NoError(t, err)

	usrRepo := inmemdb.NewUserRepository(db)
	clubRepo := inmemdb.NewClubRepository(db)
	memberRepo := inmemdb.NewMembershipRepository(db)

	mailSvc := emailsvc.NewConsoleServiceMock()
	server := echoapi.NewServer(&echoapi.Options{
		DisableReqLogs: true,
		Logger:         nopLogger{},
		UserSvc:        user.NewService(usrRepo, mailSvc),
		ClubSvc:        club.NewService(clubRepo),
		MembershipSvc:  membership.NewService(memberRepo),
	})

	return &testApp{
		server:     server,
		usrRepo:    usrRepo,
		clubRepo:   clubRepo,
		memberRepo: memberRepo,
	}
}

// envelope mirrors the API's uniform response shape.
type envelope struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
	Data       json.RawMessage   `json:"data"`
	Pagination *core.Pages       `json:"pagination"`
	Errors     map[string]string `json:"errors"`
}

func (app *testApp) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.server.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env),
			"response is not an envelope: %s", rec.Body.String())
	}
	return rec, env
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := echoapi.GenerateToken(echoapi.GetUserClaims(usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func decodeData(t *testing.T, env envelope, into interface{}) {
	t.Helper()
	require.NotNil(t, env.Data)
	require.NoError(t, json.Unmarshal(env.Data, into))
}

func strPtr(s string) *string { return &s }
