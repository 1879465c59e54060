package dig_container

import (
	"context"
	"log"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

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
	authsvc "github.com/trezcool/watas/services/auth"
	emailsvc "github.com/trezcool/watas/services/email"
	llmsvc "github.com/trezcool/watas/services/llm"
	logsvc "github.com/trezcool/watas/services/logger"
	paystacksvc "github.com/trezcool/watas/services/paystack"
	"github.com/trezcool/watas/storage/database"
	inmemdb "github.com/trezcool/watas/storage/database/inmem"
	sqlxrepos "github.com/trezcool/watas/storage/database/sqlx"
)

// Storage is every repository, backed by Postgres or, without DATABASE_URL, by process memory.
type Storage struct {
	dig.Out

	DB          core.DB // nil when in memory
	Courses     course.Repository
	Groups      group.Repository
	Assignments assignment.Repository
	Completions assignment.CompletionRepository
	Profiles    profile.Repository
	Names       analytics.NameResolver
	Support     support.Repository
	Visits      analytics.VisitRepository
	Usage       analytics.UsageRepository
	Settings    settings.Repository
}

type ServerParams struct {
	dig.In

	Conf       *core.Config
	Logger     core.Logger
	Validate   *validator.Validate
	Translator ut.Translator
	Sessions   *admin.Sessions
	Verifier   identity.Verifier

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

func newLogger(conf *core.Config) (core.Logger, error) {
	logger, err := logsvc.NewRollbarLogger(conf)
	if err != nil {
		return nil, errors.Wrap(err, "building logger")
	}
	return logger, nil
}

func newStorage(conf *core.Config, logger core.Logger) (Storage, error) {
	if conf.Database.URL == "" {
		logger.Warn("DATABASE_URL not configured: using in-memory storage")
		db := inmemdb.Open()
		profiles := inmemdb.NewProfileRepository(db)
		return Storage{
			Courses:     inmemdb.NewCourseRepository(db),
			Groups:      inmemdb.NewGroupRepository(db),
			Assignments: inmemdb.NewAssignmentRepository(db),
			Completions: inmemdb.NewCompletionRepository(db),
			Profiles:    profiles,
			Names:       profiles,
			Support:     inmemdb.NewSupportRepository(db),
			Visits:      inmemdb.NewVisitRepository(db),
			Usage:       inmemdb.NewUsageRepository(db),
			Settings:    inmemdb.NewSettingRepository(db),
		}, nil
	}

	db, err := database.Open(conf)
	if err != nil {
		return Storage{}, err
	}
	if err = database.Ping(context.Background(), db); err != nil {
		return Storage{}, err
	}
	if err = database.Migrate(db, "up"); err != nil {
		return Storage{}, err
	}

	profiles := sqlxrepos.NewProfileRepository(db)
	return Storage{
		DB:          db,
		Courses:     sqlxrepos.NewCourseRepository(db),
		Groups:      sqlxrepos.NewGroupRepository(db),
		Assignments: sqlxrepos.NewAssignmentRepository(db),
		Completions: sqlxrepos.NewCompletionRepository(db),
		Profiles:    profiles,
		Names:       profiles,
		Support:     sqlxrepos.NewSupportRepository(db),
		Visits:      sqlxrepos.NewVisitRepository(db),
		Usage:       sqlxrepos.NewUsageRepository(db),
		Settings:    sqlxrepos.NewSettingRepository(db),
	}, nil
}

func newValidate(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	echoapi.InitValidators(validate, translator)
	return validate
}

func newSessions(conf *core.Config) *admin.Sessions { return admin.NewSessions(conf.Auth) }

func newGoTrueClient(conf *core.Config) *authsvc.GoTrueClient { return authsvc.NewGoTrueClient(conf.Auth) }

// newVerifier is nil without auth config, so bearer routes answer 503.
func newVerifier(conf *core.Config, gotrue *authsvc.GoTrueClient) identity.Verifier {
	return authsvc.NewVerifier(conf.Auth.JWTSecret, gotrue)
}

func newEmailDirectory(gotrue *authsvc.GoTrueClient) profile.EmailDirectory {
	return gotrue
}

func newCompleter(conf *core.Config) tutor.Completer { return llmsvc.NewOpenAIClient(conf.AI) }

func newGateway(conf *core.Config) payment.Gateway { return paystacksvc.NewClient(conf.Paystack) }

func newProSetter(svc profile.Service) payment.ProSetter { return svc }

func newServer(p ServerParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.Options{
		Conf:          p.Conf,
		Logger:        p.Logger,
		Validate:      p.Validate,
		Translator:    p.Translator,
		Sessions:      p.Sessions,
		Verifier:      p.Verifier,
		CourseSvc:     p.CourseSvc,
		GroupSvc:      p.GroupSvc,
		AssignmentSvc: p.AssignmentSvc,
		ProfileSvc:    p.ProfileSvc,
		SupportSvc:    p.SupportSvc,
		AnalyticsSvc:  p.AnalyticsSvc,
		SettingsSvc:   p.SettingsSvc,
		TutorSvc:      p.TutorSvc,
		PaymentSvc:    p.PaymentSvc,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	// ambient
	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidate))
	must(c.Provide(emailsvc.NewService))

	// storage
	must(c.Provide(newStorage))

	// upstreams
	must(c.Provide(newSessions))
	must(c.Provide(newGoTrueClient))
	must(c.Provide(newVerifier))
	must(c.Provide(newEmailDirectory))
	must(c.Provide(newCompleter))
	must(c.Provide(newGateway))

	// domain services
	must(c.Provide(course.NewService))
	must(c.Provide(group.NewService))
	must(c.Provide(assignment.NewService))
	must(c.Provide(profile.NewService))
	must(c.Provide(newProSetter))
	must(c.Provide(support.NewService))
	must(c.Provide(analytics.NewService))
	must(c.Provide(settings.NewService))
	must(c.Provide(tutor.NewService))
	must(c.Provide(payment.NewService))

	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
