package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
)

func newTestCodec(t *testing.T) *jwtCodec {
	codec, err := NewTokenCodec(core.NewTestConfig())
	require.NoError(t, err)
	return codec.(*jwtCodec)
}

func TestNewTokenCodec(t *testing.T) {
	tests := []struct {
		name    string
		alg     string
		secret  string
		wantErr bool
	}{
		{name: "HS256", alg: "HS256", secret: "s"},
		{name: "HS512", alg: "HS512", secret: "s"},
		{name: "RS256 unsupported", alg: "RS256", secret: "s", wantErr: true},
		{name: "unknown alg", alg: "lol", secret: "s", wantErr: true},
		{name: "empty secret", alg: "HS256", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := core.NewTestConfig()
			conf.JWT.Algorithm = tt.alg
			conf.JWT.SecretKey = tt.secret
			_, err := NewTokenCodec(conf)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewTokenCodec() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTokenCodec_IssueDecode(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Issue("507f1f77bcf86cd799439011", "teacher")
	require.NoError(t, err)

	data, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "507f1f77bcf86cd799439011", data.Subject)
	assert.Equal(t, "teacher", data.UserType)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), data.ExpiresAt, time.Minute)
}

func TestTokenCodec_Decode(t *testing.T) {
	codec := newTestCodec(t)
	valid, err := codec.Issue("507f1f77bcf86cd799439011", "student")
	require.NoError(t, err)

	// issued 8 days ago: expired a day ago
	codec.nowFunc = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }
	expired, err := codec.Issue("507f1f77bcf86cd799439011", "student")
	require.NoError(t, err)
	codec.nowFunc = time.Now // reset

	otherConf := core.NewTestConfig()
	otherConf.JWT.SecretKey = "another secret"
	otherCodec, err := NewTokenCodec(otherConf)
	require.NoError(t, err)
	foreign, err := otherCodec.Issue("507f1f77bcf86cd799439011", "student")
	require.NoError(t, err)

	hs512Conf := core.NewTestConfig()
	hs512Conf.JWT.Algorithm = "HS512"
	hs512Codec, err := NewTokenCodec(hs512Conf)
	require.NoError(t, err)
	otherAlg, err := hs512Codec.Issue("507f1f77bcf86cd799439011", "student")
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()},
		UserType:       "student",
	}).SignedString(codec.key)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		StandardClaims: jwt.StandardClaims{Subject: "507f1f77bcf86cd799439011"},
		UserType:       "student",
	}).SignedString(codec.key)
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "valid token", token: valid},
		{name: "empty token", token: "", wantErr: ErrInvalidToken},
		{name: "garbage", token: "lmao.lol.mdr", wantErr: ErrInvalidToken},
		{name: "tampered payload", token: tampered, wantErr: ErrInvalidToken},
		{name: "expired token", token: expired, wantErr: ErrInvalidToken},
		{name: "foreign signature", token: foreign, wantErr: ErrInvalidToken},
		{name: "other algorithm", token: otherAlg, wantErr: ErrInvalidToken},
		{name: "no subject", token: noSubject, wantErr: ErrInvalidToken},
		{name: "no expiry", token: noExpiry, wantErr: ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := codec.Decode(tt.token)
			if err != tt.wantErr {
				t.Errorf("Decode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && data != (TokenData{}) {
				t.Errorf("Decode() returned partial data %+v with error", data)
			}
		})
	}
}

func TestTokenCodec_expiresAfterValidityWindow(t *testing.T) {
	codec := newTestCodec(t)
	token, err := codec.Issue("507f1f77bcf86cd799439011", "teacher")
	require.NoError(t, err)

	codec.nowFunc = func() time.Time { return time.Now().Add(6 * 24 * time.Hour) }
	_, err = codec.Decode(token)
	assert.NoError(t, err, "token must still be valid within 7 days")

	codec.nowFunc = func() time.Time { return time.Now().Add(7*24*time.Hour + time.Minute) }
	_, err = codec.Decode(token)
	assert.Equal(t, ErrInvalidToken, err)
}
