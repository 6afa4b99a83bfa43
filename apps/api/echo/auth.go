package echoapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/user"
)

const (
	tokenCookie        = "token"
	contextIdentityKey = "identity"
	contextTokenErrKey = "tokenError"
)

var errInvalidToken = echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")

type (
	// Identity is who a session token speaks for.
	Identity struct {
		UserID   string    `json:"user_id"`
		Username string    `json:"username"`
		Role     user.Role `json:"role"`
	}

	Signer interface {
		Sign(id Identity) (string, error)
	}

	Verifier interface {
		Verify(token string) (Identity, error)
	}

	// Claims represents the authorization claims transmitted via a JWT.
	Claims struct {
		jwt.StandardClaims
		Username string    `json:"username"`
		Role     user.Role `json:"role"`
	}

	// Tokens signs and verifies HS256 session tokens.
	Tokens struct {
		key    []byte
		ttl    time.Duration
		issuer string
	}
)

var (
	_ Signer   = (*Tokens)(nil)
	_ Verifier = (*Tokens)(nil)
)

func NewTokens(secretKey string, ttl time.Duration, issuer string) *Tokens {
	return &Tokens{key: []byte(secretKey), ttl: ttl, issuer: issuer}
}

func IdentityOf(usr user.User) Identity {
	return Identity{UserID: usr.ID, Username: usr.Username, Role: usr.Role}
}

func (t *Tokens) Sign(id Identity) (string, error) {
	now := time.Now()
	claims := Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    t.issuer,
			Subject:   id.UserID,
			ExpiresAt: now.Add(t.ttl).Unix(),
			IssuedAt:  now.Unix(),
		},
		Username: id.Username,
		Role:     id.Role,
	}
	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func (t *Tokens) Verify(token string) (Identity, error) {
	claims := new(Claims)
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (interface{}, error) {
		if tok.Method != jwt.SigningMethodHS256 {
			return nil, errors.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.key, nil
	})
	if err != nil || !parsed.Valid {
		return Identity{}, errInvalidToken
	}
	if claims.Subject == "" || !claims.Role.IsValid() {
		return Identity{}, errInvalidToken
	}
	return Identity{UserID: claims.Subject, Username: claims.Username, Role: claims.Role}, nil
}

// tokenFromRequest looks for a bearer token first, then for the session cookie.
func tokenFromRequest(ctx echo.Context) string {
	auth := ctx.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(auth[len("Bearer "):])
	}
	if c, err := ctx.Cookie(tokenCookie); err == nil {
		return c.Value
	}
	return ""
}

// identifyMiddleware stores the Identity of any valid token in the context. It never rejects a request.
func identifyMiddleware(verifier Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if tok := tokenFromRequest(ctx); tok != "" {
				if id, err := verifier.Verify(tok); err == nil {
					ctx.Set(contextIdentityKey, id)
				} else {
					ctx.Set(contextTokenErrKey, err)
				}
			}
			return next(ctx)
		}
	}
}

// authMiddleware rejects requests carrying no valid token.
func authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if _, ok := getContextIdentity(ctx); ok {
			return next(ctx)
		}
		if err, ok := ctx.Get(contextTokenErrKey).(error); ok {
			return err
		}
		return middleware.ErrJWTMissing
	}
}

func getContextIdentity(ctx echo.Context) (Identity, bool) {
	id, ok := ctx.Get(contextIdentityKey).(Identity)
	return id, ok
}

func sessionCookie(token string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func clearedSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     tokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
