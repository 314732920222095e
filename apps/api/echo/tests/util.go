package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	. "github.com/yashshrivastavagit/Aumryx-Teach/apps/api/echo"
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
	"github.com/yashshrivastavagit/Aumryx-Teach/services/email"
	"github.com/yashshrivastavagit/Aumryx-Teach/storage/database/docrepos"
	"github.com/yashshrivastavagit/Aumryx-Teach/tests"
)

var (
	conf      *core.Config
	usrRepo   user.Repository
	classRepo class.Repository
	usrSvc    user.Service

	errMissingToken = httpErr{Error: "Not authenticated"}
)

func setup(t *testing.T, configure ...func(*core.Config)) *Server {
	conf = core.NewTestConfig()
	for _, fn := range configure {
		fn(conf)
	}
	logger := testutil.NewLogger()

	// set up DB & repos
	store := testutil.NewStore(t)
	users := docrepos.NewUserRepository(store)
	classes := docrepos.NewClassRepository(store)
	usrRepo, classRepo = users, classes

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	notifSvc := notification.NewService(docrepos.NewNotificationRepository(store))
	usrSvc = user.NewServiceMock(conf, users)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// set up server
	return NewServer(ServerDeps{
		Conf:           conf,
		Logger:         logger,
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,

		UserSvc:         usrSvc,
		Gate:            verification.NewGate(users, notifSvc, mailSvc, logger),
		ClassSvc:        class.NewService(classes),
		EnrollmentSvc:   enrollment.NewService(docrepos.NewEnrollmentRepository(store), notifSvc, mailSvc, logger),
		RatingSvc:       rating.NewService(docrepos.NewRatingRepository(store)),
		NoteSvc:         note.NewService(docrepos.NewNoteRepository(store), notifSvc, logger),
		AssignmentSvc:   assignment.NewService(docrepos.NewAssignmentRepository(store), notifSvc, logger),
		CommunitySvc:    community.NewService(docrepos.NewCommunityRepository(store)),
		AttendanceSvc:   attendance.NewService(docrepos.NewAttendanceRepository(store)),
		NotificationSvc: notifSvc,
		AnalyticsSvc:    analytics.NewService(conf, docrepos.NewAnalyticsRepository(store)),
	})
}

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
	codec, err := auth.NewTokenCodec(conf)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	token, err := codec.Issue(usr.ID.Hex(), usr.Role.String())
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func unmarchall(t *testing.T, rec *httptest.ResponseRecorder, obj interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), obj); err != nil {
		t.Fatalf("unmarchall(%s) failed: %v", rec.Body.String(), err)
	}
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
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, srv *Server, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
			srv.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
