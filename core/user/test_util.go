package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/auth"
)

// NewServiceMock returns a Service with the cheapest bcrypt cost, for tests.
// nowFunc is optional and defaults to time.Now in UTC.
func NewServiceMock(conf *core.Config, repo Repository, nowFunc ...func() time.Time) Service {
	codec, err := auth.NewTokenCodec(conf)
	if err != nil {
		panic(err)
	}
	svc := NewService(conf, repo, auth.NewBcryptHasher(bcrypt.MinCost), codec).(*service)
	if len(nowFunc) > 0 {
		svc.nowFunc = nowFunc[0]
	}
	return svc
}
