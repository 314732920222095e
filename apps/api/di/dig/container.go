package dig_container

import (
	"context"
	"fmt"
	"log"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"
	"go.uber.org/zap"

	echoapi "github.com/yashshrivastavagit/Aumryx-Teach/apps/api/echo"
	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/analytics"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/assignment"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/attendance"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/auth"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/class"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/community"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/enrollment"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/note"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/notification"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/rating"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/verification"
	emailsvc "github.com/yashshrivastavagit/Aumryx-Teach/services/email"
	logsvc "github.com/yashshrivastavagit/Aumryx-Teach/services/logger"
	"github.com/yashshrivastavagit/Aumryx-Teach/storage/database"
	"github.com/yashshrivastavagit/Aumryx-Teach/storage/database/docrepos"
	"github.com/yashshrivastavagit/Aumryx-Teach/storage/database/inmem"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

func newLogger(conf *core.Config, zl *zap.Logger) core.Logger {
	return logsvc.NewRollbarLogger(zl.Named("api"), conf)
}

func newDBLogger(conf *core.Config, zl *zap.Logger) core.Logger {
	return logsvc.NewRollbarLogger(zl.Named("db"), conf)
}

func newStore(conf *core.Config, loggerParam DBLoggerParam) database.Store {
	setUp := func() (database.Store, error) {
		ctx, cancel := context.WithTimeout(context.Background(), conf.Database.Timeout)
		defer cancel()

		var store database.Store
		switch conf.Database.Driver {
		case core.DBDriverMemory:
			store = inmem.New()
		case core.DBDriverMongo:
			var err error
			if store, err = database.Open(ctx, conf); err != nil {
				return nil, err
			}
		default:
			return nil, errors.Errorf("unknown database driver %q", conf.Database.Driver)
		}

		if err := store.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		return store, nil
	}

	store, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return store
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug || conf.SendgridApiKey == "" {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate
}

func newHasher() auth.Hasher {
	return auth.NewBcryptHasher()
}

type ServerParams struct {
	dig.In

	Conf       *core.Config
	Logger     core.Logger
	Validate   *validator.Validate
	Translator ut.Translator

	UserSvc         user.Service
	Gate            verification.Gate
	ClassSvc        class.Service
	EnrollmentSvc   enrollment.Service
	RatingSvc       rating.Service
	NoteSvc         note.Service
	AssignmentSvc   assignment.Service
	CommunitySvc    community.Service
	AttendanceSvc   attendance.Service
	NotificationSvc notification.Service
	AnalyticsSvc    analytics.Service
}

func newServer(p ServerParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:            p.Conf,
		Logger:          p.Logger,
		Validate:        p.Validate,
		Translator:      p.Translator,
		UserSvc:         p.UserSvc,
		Gate:            p.Gate,
		ClassSvc:        p.ClassSvc,
		EnrollmentSvc:   p.EnrollmentSvc,
		RatingSvc:       p.RatingSvc,
		NoteSvc:         p.NoteSvc,
		AssignmentSvc:   p.AssignmentSvc,
		CommunitySvc:    p.CommunitySvc,
		AttendanceSvc:   p.AttendanceSvc,
		NotificationSvc: p.NotificationSvc,
		AnalyticsSvc:    p.AnalyticsSvc,
	})
}

// New returns a new dependency injection dig.Container.
// conf is optional and defaults to core.NewConfig().
func New(conf ...*core.Config) *dig.Container {
	c := dig.New()

	if len(conf) > 0 {
		must(c.Provide(func() *core.Config { return conf[0] }))
	} else {
		must(c.Provide(core.NewConfig))
	}
	must(c.Provide(logsvc.NewZapLogger))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStore))
	must(c.Provide(newEmailService))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))

	// repositories
	must(c.Provide(docrepos.NewUserRepository, dig.As(new(user.Repository), new(verification.Repository))))
	must(c.Provide(docrepos.NewClassRepository, dig.As(new(class.Repository))))
	must(c.Provide(docrepos.NewEnrollmentRepository, dig.As(new(enrollment.Repository))))
	must(c.Provide(docrepos.NewRatingRepository, dig.As(new(rating.Repository))))
	must(c.Provide(docrepos.NewNoteRepository, dig.As(new(note.Repository))))
	must(c.Provide(docrepos.NewAssignmentRepository, dig.As(new(assignment.Repository))))
	must(c.Provide(docrepos.NewCommunityRepository, dig.As(new(community.Repository))))
	must(c.Provide(docrepos.NewAttendanceRepository, dig.As(new(attendance.Repository))))
	must(c.Provide(docrepos.NewNotificationRepository, dig.As(new(notification.Repository))))
	must(c.Provide(docrepos.NewAnalyticsRepository, dig.As(new(analytics.Repository))))

	// services
	must(c.Provide(newHasher))
	must(c.Provide(auth.NewTokenCodec))
	must(c.Provide(user.NewService))
	must(c.Provide(verification.NewGate))
	must(c.Provide(notification.NewService))
	must(c.Provide(class.NewService))
	must(c.Provide(enrollment.NewService))
	must(c.Provide(rating.NewService))
	must(c.Provide(note.NewService))
	must(c.Provide(assignment.NewService))
	must(c.Provide(community.NewService))
	must(c.Provide(attendance.NewService))
	must(c.Provide(analytics.NewService))

	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
