package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/custdir/pkg/httpcontext"
)

const testSecret = "till-secret"

func sign(t *testing.T, claims OperatorClaims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func call(header string) (*fasthttp.RequestCtx, string) {
	var seen string
	handler := JWTAuth(testSecret, "custdir", nil)(func(ctx *fasthttp.RequestCtx) {
		seen, _ = ctx.UserValue(httpcontext.OperatorUserValue).(string)
		ctx.SetStatusCode(fasthttp.StatusOK)
	})

	ctx := &fasthttp.RequestCtx{}
	if header != "" {
		ctx.Request.Header.Set("Authorization", header)
	}
	handler(ctx)
	return ctx, seen
}

func TestJWTAuth(t *testing.T) {
	valid := OperatorClaims{
		Operator: "till-3",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "custdir",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	t.Run("accepts valid token and exposes operator", func(t *testing.T) {
		ctx, operator := call("Bearer " + sign(t, valid, testSecret))
		assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
		assert.Equal(t, "till-3", operator)
	})

	t.Run("falls back to subject", func(t *testing.T) {
		claims := valid
		claims.Operator = ""
		claims.Subject = "backoffice"
		_, operator := call(sign(t, claims, testSecret))
		assert.Equal(t, "backoffice", operator)
	})

	rejected := map[string]string{
		"missing header": "",
		"wrong secret":   "Bearer " + sign(t, valid, "other"),
		"garbage":        "Bearer not-a-token",
	}
	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	rejected["expired"] = "Bearer " + sign(t, expired, testSecret)
	foreign := valid
	foreign.Issuer = "elsewhere"
	rejected["foreign issuer"] = "Bearer " + sign(t, foreign, testSecret)

	for name, header := range rejected {
		t.Run(name, func(t *testing.T) {
			ctx, _ := call(header)
			assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
			assert.Contains(t, string(ctx.Response.Body()), "UNAUTHORIZED")
		})
	}
}
