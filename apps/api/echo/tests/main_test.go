package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/assignment"
	"github.com/trezcool/darasa/core/submission"
	"github.com/trezcool/darasa/core/user"
	emailsvc "github.com/trezcool/darasa/services/email"
	inmemdb "github.com/trezcool/darasa/storage/database/inmem"
)

var (
	conf = &core.Config{
		TestMode:         true,
		AppName:          "Darasa",
		SecretKey:        "secret",
		FrontendBaseURL:  "https://darasa.test",
		DefaultFromEmail: "noreply@darasa.test",
		Server: core.ServerConfig{
			JWTExpirationDelta: 24 * time.Hour,
		},
	}

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

type testEnv struct {
	app Server

	usrRepo    user.Repository
	assignRepo assignment.Repository
	subRepo    submission.Repository

	usrSvc    *user.Service
	assignSvc *assignment.Service
	subSvc    *submission.Service
}

// setup wires a Server onto fresh in-memory repositories.
func setup(t *testing.T) *testEnv {
	t.Helper()

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open(): %v", err)
	}
	env := &testEnv{
		usrRepo:    inmemdb.NewUserRepository(db),
		assignRepo: inmemdb.NewAssignmentRepository(db),
		subRepo:    inmemdb.NewSubmissionRepository(db),
	}

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	env.usrSvc = user.NewService(conf, env.usrRepo, mailSvc)
	env.assignSvc = assignment.NewService(env.assignRepo, env.usrSvc)
	env.subSvc = submission.NewService(env.subRepo, env.assignSvc)

	validate := validator.New()
	translator := newTranslator(t)
	core.InitValidators(validate, translator)
	user.RegisterValidators(validate, translator)

	env.app = NewServer(ServerDeps{
		Conf:          conf,
		Logger:        nopLogger{},
		Validate:      validate,
		Translator:    translator,
		UserSvc:       env.usrSvc,
		AssignmentSvc: env.assignSvc,
		SubmissionSvc: env.subSvc,
	})
	return env
}

func newTranslator(t *testing.T) ut.Translator {
	t.Helper()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, found := uni.GetTranslator("en")
	if !found {
		t.Fatal("en translator not found")
	}
	return translator
}

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
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

func getToken(t *testing.T, usr user.User) string {
	claims := GetUserClaims(usr, conf)
	token, err := GenerateToken(claims, conf)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
