package echoapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/watas/apps/api/echo"
	"github.com/trezcool/watas/core"
	"github.com/trezcool/watas/core/admin"
	"github.com/trezcool/watas/core/analytics"
	"github.com/trezcool/watas/core/assignment"
	"github.com/trezcool/watas/core/course"
	"github.com/trezcool/watas/core/group"
	"github.com/trezcool/watas/core/identity"
	"github.com/trezcool/watas/core/payment"
	"github.com/trezcool/watas/core/profile"
	"github.com/trezcool/watas/core/settings"
	"github.com/trezcool/watas/core/support"
	"github.com/trezcool/watas/core/tutor"
	emailsvc "github.com/trezcool/watas/services/email"
	inmemdb "github.com/trezcool/watas/storage/database/inmem"
)

const (
	adminPassword = "s3cret"
	studentToken  = "student-token"
)

var (
	student = identity.Identity{ID: "6f1c2a9e-3b7d-4c55-9a2e-0d4b8f1e7c31", Email: "kofi@st.knust.edu.gh"}

	errUnauthorized = httpErr{Error: "Unauthorized"}
)

type (
	httpErr struct {
		Error string `json:"error"`
	}

	httpTest struct {
		name     string
		method   string
		path     string
		body     []byte
		token    string
		admin    bool
		wantCode int
		wantData []byte
	}

	fakeVerifier map[string]identity.Identity

	fakeCompleter struct {
		configured bool
		content    string
		usage      *tutor.Usage
		err        error
		requests   []tutor.CompletionRequest
	}

	fakeGateway struct {
		configured bool
		tx         payment.Transaction
		err        error
		inits      []payment.InitRequest
	}
)

func (v fakeVerifier) Verify(_ context.Context, token string) (identity.Identity, error) {
	if id, ok := v[token]; ok {
		return id, nil
	}
	return identity.Identity{}, identity.ErrInvalidToken
}

func (c *fakeCompleter) Configured() bool { return c.configured }

func (c *fakeCompleter) Complete(_ context.Context, req tutor.CompletionRequest) (tutor.Completion, error) {
	c.requests = append(c.requests, req)
	if c.err != nil {
		return tutor.Completion{}, c.err
	}
	return tutor.Completion{Content: c.content, Usage: c.usage}, nil
}

func (g *fakeGateway) Configured() bool { return g.configured }

func (g *fakeGateway) Initialize(_ context.Context, req payment.InitRequest) (payment.InitResult, error) {
	g.inits = append(g.inits, req)
	if g.err != nil {
		return payment.InitResult{}, g.err
	}
	return payment.InitResult{AuthorizationURL: "https://checkout.paystack.test/abc", Reference: req.Reference}, nil
}

func (g *fakeGateway) Verify(_ context.Context, reference string) (payment.Transaction, error) {
	if g.err != nil {
		return payment.Transaction{}, g.err
	}
	tx := g.tx
	tx.Reference = reference
	return tx, nil
}

// testEnv is a server over in-memory storage with fake upstreams.
type testEnv struct {
	server      *echoapi.Server
	conf        *core.Config
	mailSvc     *emailsvc.ConsoleServiceMock
	llm         *fakeCompleter
	gateway     *fakeGateway
	profileRepo profile.Repository
	courses     course.Service
	groups      group.Service
	assigns     assignment.Service
	profiles    profile.Service
	supports    support.Service
	analytics   analytics.Service
	settings    settings.Service
}

// newTestEnv builds the test server; overrides adjust its options before it is created.
func newTestEnv(t *testing.T, overrides ...func(*echoapi.Options)) *testEnv {
	t.Helper()

	conf := &core.Config{
		AppName:      "WATAs",
		Env:          "TEST",
		TestMode:     true,
		AppURL:       "https://watas.test",
		SupportEmail: "support@watas.test",
		Auth:         core.AuthConfig{AdminPassword: adminPassword},
		Paystack:     core.PaystackConfig{ProAmount: "5000"},
	}
	logger := core.NopLogger()
	translator := core.NewTranslator()
	validate := validator.New()
	echoapi.InitValidators(validate, translator)

	db := inmemdb.Open()
	profileRepo := inmemdb.NewProfileRepository(db)
	courseRepo := inmemdb.NewCourseRepository(db)

	env := &testEnv{
		conf:        conf,
		mailSvc:     emailsvc.NewConsoleServiceMock(conf),
		llm:         &fakeCompleter{configured: true, content: "Start with the base case."},
		gateway:     &fakeGateway{configured: true},
		profileRepo: profileRepo,
	}
	env.courses = course.NewService(courseRepo)
	env.groups = group.NewService(inmemdb.NewGroupRepository(db))
	env.assigns = assignment.NewService(
		inmemdb.NewAssignmentRepository(db),
		inmemdb.NewCompletionRepository(db),
		courseRepo,
		env.groups,
	)
	env.profiles = profile.NewService(profileRepo, nil, logger)
	env.supports = support.NewService(conf, inmemdb.NewSupportRepository(db), env.mailSvc)
	env.analytics = analytics.NewService(inmemdb.NewVisitRepository(db), inmemdb.NewUsageRepository(db), profileRepo)
	env.settings = settings.NewService(conf, inmemdb.NewSettingRepository(db), logger)

	opts := echoapi.Options{
		Conf:           conf,
		Logger:         logger,
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
		Sessions:       admin.NewSessions(conf.Auth),
		Verifier:       fakeVerifier{studentToken: student},
		CourseSvc:      env.courses,
		GroupSvc:       env.groups,
		AssignmentSvc:  env.assigns,
		ProfileSvc:     env.profiles,
		SupportSvc:     env.supports,
		AnalyticsSvc:   env.analytics,
		SettingsSvc:    env.settings,
		TutorSvc:       tutor.NewService(env.llm, env.settings, env.analytics, logger),
		PaymentSvc:     payment.NewService(conf, env.gateway, env.profiles, logger),
	}
	for _, override := range overrides {
		override(&opts)
	}
	env.server = echoapi.NewServer(opts)
	return env
}

// adminCookie logs in & returns the session cookie.
func (env *testEnv) adminCookie(t *testing.T) *http.Cookie {
	t.Helper()
	req, rec := newRequest(http.MethodPost, "/api/admin/session", marchallObj(t, map[string]string{"password": adminPassword}))
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, c := range rec.Result().Cookies() {
		if c.Name == admin.CookieName {
			return c
		}
	}
	t.Fatalf("adminCookie(): no %s cookie set", admin.CookieName)
	return nil
}

// serve runs tt against the server and returns the recorder.
func (env *testEnv) serve(t *testing.T, tt httpTest) *httptest.ResponseRecorder {
	t.Helper()
	method := tt.method
	if method == "" {
		method = http.MethodGet
	}
	req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
	if tt.admin {
		req.AddCookie(env.adminCookie(t))
	}
	env.server.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) run(t *testing.T, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.serve(t, tt)
			checkCodeAndData(t, tt, rec)
		})
	}
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

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	wantCode := tt.wantCode
	if wantCode == 0 {
		wantCode = http.StatusOK
	}
	assert.Equal(t, wantCode, rec.Code, rec.Body.String())
	if tt.wantData != nil {
		assert.JSONEq(t, string(tt.wantData), rec.Body.String())
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}
