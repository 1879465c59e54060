package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

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
)

type (
	Options struct {
		Conf           *core.Config
		Logger         core.Logger
		Validate       *validator.Validate
		Translator     ut.Translator
		DisableReqLogs bool

		Sessions *admin.Sessions
		Verifier identity.Verifier

		CourseSvc     course.Service
		GroupSvc      group.Service
		AssignmentSvc assignment.Service
		ProfileSvc    profile.Service
		SupportSvc    support.Service
		AnalyticsSvc  analytics.Service
		SettingsSvc   settings.Service
		TutorSvc      tutor.Service
		PaymentSvc    payment.Service
	}

	Server struct {
		opts     Options
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = core.NopLogger()
	}
	s := &Server{
		opts:     opts,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.opts.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.Server.ReadTimeout = conf.Server.ReadTimeout
	s.app.Server.WriteTimeout = conf.Server.WriteTimeout

	s.app.GET("/", s.home)

	g := s.app.Group("/api")
	authed := identityMiddleware(s.opts.Verifier, true)
	maybeAuthed := identityMiddleware(s.opts.Verifier, false)
	isAdmin := adminMiddleware(s.opts.Sessions)

	registerAdminSessionAPI(g, isAdmin, conf, s.opts.Sessions)
	registerCourseAPI(g, isAdmin, s.opts.CourseSvc, s.opts.Validate)
	registerGroupAPI(g, isAdmin, s.opts.GroupSvc, s.opts.Validate)
	registerAssignmentAPI(g, authed, isAdmin, s.opts.AssignmentSvc, s.opts.Validate)
	registerProfileAPI(g, authed, isAdmin, s.opts.ProfileSvc, s.opts.Validate)
	registerSupportAPI(g, isAdmin, s.opts.SupportSvc, s.opts.Validate)
	registerAnalyticsAPI(g, isAdmin, s.opts.AnalyticsSvc, s.opts.Validate)
	registerSettingsAPI(g, isAdmin, s.opts.SettingsSvc, s.opts.Validate, s.opts.Logger)
	registerTutorAPI(g, maybeAuthed, isAdmin, s.opts.TutorSvc, s.opts.Validate, s.opts.Logger)
	registerPaymentAPI(g, authed, s.opts.PaymentSvc, s.opts.Logger)
	registerSolutionAPI(g, authed, s.opts.Validate)
}

// Start listens on the configured address. Listener failures are sent to Errors.
func (s *Server) Start() {
	if err := s.app.Start(s.opts.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error            { return s.errors }
func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.opts.Conf.AppName+" API!")
}
