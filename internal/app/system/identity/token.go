package identity

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/fleetcheckr/internal/app/system/normalize"
	"github.com/dalemusser/fleetcheckr/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken indicates the session token failed verification.
var ErrInvalidToken = errors.New("identity: invalid session token")

// Claims are the fields read from the provider's session token.
type Claims struct {
	OrgID    string `json:"org_id,omitempty"`
	OrgRole  string `json:"org_role,omitempty"`
	Email    string `json:"email,omitempty"`
	Metadata struct {
		Role string `json:"role,omitempty"`
	} `json:"metadata"`
	jwt.RegisteredClaims
}

// Verifier checks session tokens issued by the provider. Tokens are
// RS256 when the configured key is a PEM public key, HS256 otherwise.
type Verifier struct {
	key     any
	methods []string
	issuer  string
}

// NewVerifier parses key and returns a Verifier. An empty issuer skips the
// issuer check.
func NewVerifier(key, issuer string) (*Verifier, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errors.New("identity: verification key is empty")
	}
	v := &Verifier{issuer: issuer}
	if strings.HasPrefix(key, "-----BEGIN") {
		pub, err := jwt.ParseRSAPublicKeyFromPEM([]byte(key))
		if err != nil {
			return nil, fmt.Errorf("identity: parse public key: %w", err)
		}
		v.key = pub
		v.methods = []string{jwt.SigningMethodRS256.Alg()}
		return v, nil
	}
	v.key = []byte(key)
	v.methods = []string{jwt.SigningMethodHS256.Alg()}
	return v, nil
}

// Verify validates token and maps its claims to an Identity.
func (v *Verifier) Verify(token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, ErrInvalidToken
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods(v.methods),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(5 * time.Second),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := v.key.(*rsa.PublicKey); ok {
			if _, rsaOK := t.Method.(*jwt.SigningMethodRSA); !rsaOK {
				return nil, ErrInvalidToken
			}
		}
		return v.key, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || strings.TrimSpace(claims.Subject) == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{
		UserID:       claims.Subject,
		OrgID:        claims.OrgID,
		OrgRole:      normalize.Role(claims.OrgRole),
		IsSuperAdmin: claims.Metadata.Role == models.RoleSuperAdmin,
		Email:        normalize.Email(claims.Email),
	}, nil
}
