package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/analytics"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/assignment"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/attendance"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/class"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/community"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/enrollment"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/note"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/notification"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/rating"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/verification"
)

type (
	ServerDeps struct {
		Conf           *core.Config
		Logger         core.Logger
		Validate       *validator.Validate
		Translator     ut.Translator
		DisableReqLogs bool

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

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf
	s.app.HideBanner = true
	s.app.Debug = conf.Debug
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.New().String() },
	}))
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     conf.Server.CORSAllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		// credentialed requests need explicit origins
		AllowCredentials: !conf.Server.AllowsAnyOrigin(),
	}))

	s.app.GET("/", s.home)

	g := s.app.Group("/api")
	g.GET("", s.home)
	authed := authMiddleware(s.deps.UserSvc)
	privileged := privilegedMiddleware(s.deps.UserSvc.Privileges())
	b := binder{validate: s.deps.Validate}

	registerAuthAPI(g, authed, b, s.deps.UserSvc)
	registerAdminAPI(g, authed, privileged, s.deps.Gate)
	registerUserAPI(g, authed, b, s.deps.UserSvc)
	registerClassAPI(g, authed, b, s.deps.ClassSvc)
	registerEnrollmentAPI(g, authed, b, s.deps.EnrollmentSvc)
	registerRatingAPI(g, authed, b, s.deps.RatingSvc)
	registerNoteAPI(g, authed, b, s.deps.NoteSvc)
	registerAssignmentAPI(g, authed, b, s.deps.AssignmentSvc)
	registerCommunityAPI(g, authed, b, s.deps.CommunitySvc)
	registerAttendanceAPI(g, authed, b, s.deps.AttendanceSvc)
	registerNotificationAPI(g, authed, s.deps.NotificationSvc)
	registerAnalyticsAPI(g, authed, s.deps.AnalyticsSvc)
}

// Start serves requests until Shutdown; any other failure is sent to Errors.
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{
		"message": s.deps.Conf.AppName + " API is running",
		"version": s.deps.Conf.Build,
	})
}
