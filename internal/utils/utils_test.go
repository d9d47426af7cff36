package utils

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("s3cret", 7, "customer", 60)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.Exp, 5*time.Second)

	c, err := ParseAccessToken("s3cret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, Claims{UserID: 7, Role: "customer"}, c)
}

func TestParseAccessTokenRejectsWrongSecretAndExpired(t *testing.T) {
	tok, err := NewAccessToken("s3cret", 7, "admin", 60)
	require.NoError(t, err)
	_, err = ParseAccessToken("other", tok.Token)
	assert.Error(t, err)

	expired, err := NewAccessToken("s3cret", 7, "admin", -5)
	require.NoError(t, err)
	_, err = ParseAccessToken("s3cret", expired.Token)
	assert.Error(t, err)
}

func TestParseAccessTokenAcceptsNumericUserID(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 12,
		"role":    "admin",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	c, err := ParseAccessToken("s3cret", raw)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), c.UserID)
	assert.Equal(t, "admin", c.Role)
}

func TestParseAccessTokenRejectsOtherAlgorithms(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "7",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	_, err = ParseAccessToken("s3cret", raw)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "hunter2"))
	assert.False(t, VerifyPassword(hash, "hunter3"))

	_, err = HashPassword("", bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestToUint64(t *testing.T) {
	for _, v := range []any{uint64(5), 5, int64(5), float64(5), "5", json.Number("5")} {
		n, ok := ToUint64(v)
		assert.True(t, ok, "%T", v)
		assert.Equal(t, uint64(5), n)
	}
	for _, v := range []any{nil, -1, 1.5, "abc", true} {
		_, ok := ToUint64(v)
		assert.False(t, ok, "%v", v)
	}
}

func TestNewLoggerFormats(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger("debug", "json", &buf)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	log.WithField("booking_id", 41).Info("booking created")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "booking created", entry["msg"])
	assert.Equal(t, float64(41), entry["booking_id"])

	assert.Equal(t, logrus.InfoLevel, NewLogger("loud", "text", &buf).GetLevel())
}
