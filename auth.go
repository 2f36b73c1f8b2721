package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

const (
	tokenCookie = "token"
	claimsKey   = "claims"
)

type JWTClaims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.StandardClaims
}

// Authenticator issues and checks the signed token carried in the auth cookie.
type Authenticator struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthenticator(secret string, ttl time.Duration) *Authenticator {
	return &Authenticator{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (a *Authenticator) Issue(email, name string) (string, error) {
	now := a.now()
	claims := JWTClaims{
		Email: email,
		Name:  name,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(a.ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

func (a *Authenticator) Verify(tokenStr string) (*JWTClaims, error) {
	if tokenStr == "" {
		return nil, ErrUnauthenticated
	}
	claims := &JWTClaims{}
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}, SkipClaimsValidation: true}
	token, err := parser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	// Expiry is checked against our clock so it can be driven in tests.
	now := a.now().Unix()
	if !claims.VerifyExpiresAt(now, true) {
		return nil, fmt.Errorf("%w: token expired", ErrInvalidToken)
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: missing email claim", ErrInvalidToken)
	}
	return claims, nil
}

// Authorize allows the caller only when the identity the request is scoped
// to is exactly the caller's own.
func Authorize(claims *JWTClaims, owner string) error {
	if claims == nil || claims.Email != owner {
		return ErrForbidden
	}
	return nil
}

func tokenFromRequest(c *gin.Context) string {
	if tok, err := c.Cookie(tokenCookie); err == nil && tok != "" {
		return tok
	}
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return h[7:]
	}
	return ""
}

// Middleware rejects the request with 401 before any handler runs unless a
// valid token is present, and stores the claims for the handler.
func (a *Authenticator) Middleware(c *gin.Context) {
	claims, err := a.Verify(tokenFromRequest(c))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}
	c.Set(claimsKey, claims)
	c.Next()
}

func callerClaims(c *gin.Context) *JWTClaims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*JWTClaims)
	return claims
}

// requireOwner answers 403 and returns false when owner is not the caller.
func requireOwner(c *gin.Context, owner string) bool {
	if err := Authorize(callerClaims(c), owner); err != nil {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden"})
		return false
	}
	return true
}

// ----- Token routes -----

func (s *server) issueToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	tokenStr, err := s.auth.Issue(req.Email, req.Name)
	if err != nil {
		respondError(c, "issueToken", err, nil, "Failed to issue token")
		return
	}
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(tokenCookie, tokenStr, int(s.auth.ttl.Seconds()), "/", "", true, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *server) revokeToken(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(tokenCookie, "", -1, "/", "", true, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
