package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/shule/apps/api/echo"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
	"github.com/trezcool/shule/tests"
)

var errMissingToken = core.Result{Error: "missing or malformed jwt"}

type app struct {
	*testutil.Env
	srv *echoapi.Server
}

func setup(t *testing.T) *app {
	env := testutil.NewEnv(t)
	srv := echoapi.NewServer(env.Conf, env.Logger, env.Translator, echoapi.Services{
		User:         env.Users,
		AcademicYear: env.Years,
		Subject:      env.Subjects,
		Teacher:      env.Teachers,
		Student:      env.Students,
		Class:        env.Classes,
		Schedule:     env.Schedules,
		Attendance:   env.Attendances,
		Grade:        env.Grades,
	})
	return &app{Env: env, srv: srv}
}

func (a *app) serve(req *http.Request, rec *httptest.ResponseRecorder) {
	a.srv.ServeHTTP(rec, req)
}

func (a *app) token(t *testing.T, usr user.User) string {
	tokens := echoapi.NewTokens(a.Conf.SecretKey, a.Conf.Server.JWTExpirationDelta, a.Conf.AppName)
	token, err := tokens.Sign(echoapi.IdentityOf(usr))
	require.NoError(t, err, "token()")
	return token
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

// envelope is core.Result with its data left raw.
type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func ok(t *testing.T, data interface{}) []byte {
	return marchallObj(t, core.OK(data))
}

func fail(t *testing.T, msg string) []byte {
	return marchallObj(t, core.Result{Error: msg})
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data), string(env.Data))
	}
	return env
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, a *app, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			a.serve(req, rec)
			checkCodeAndData(t, tt, rec)
		})
	}
}
