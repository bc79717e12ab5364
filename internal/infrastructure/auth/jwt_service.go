package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/KEBA-mall/sto-backend/domain"
)

// JWTServiceImpl implements domain.TokenService. Session tokens and
// phone-verification tokens share the signing key but carry a purpose claim
// that Validate checks, so one can never stand in for the other.
type JWTServiceImpl struct {
	secretKey       []byte
	issuer          string
	sessionTTL      time.Duration
	verificationTTL time.Duration
	clock           domain.Clock
}

// NewJWTService creates a new JWT service
func NewJWTService(secretKey, issuer string, sessionTTL, verificationTTL time.Duration, clock domain.Clock) domain.TokenService {
	return &JWTServiceImpl{
		secretKey:       []byte(secretKey),
		issuer:          issuer,
		sessionTTL:      sessionTTL,
		verificationTTL: verificationTTL,
		clock:           clock,
	}
}

// generateJTI creates a unique JWT ID
func (j *JWTServiceImpl) generateJTI() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// IssueSession implements domain.TokenService
func (j *JWTServiceImpl) IssueSession(accountID uint, phone domain.PhoneNumber, role, sessionID string) (string, error) {
	now := j.clock.Now()
	claims := jwt.MapClaims{
		"account_id":   accountID,
		"phone_number": phone.String(),
		"role":         role,
		"session_id":   sessionID,
		"purpose":      domain.PurposeSession,
		"iss":          j.issuer,
		"iat":          now.Unix(),
		"exp":          now.Add(j.sessionTTL).Unix(),
		"jti":          j.generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

// IssueVerification implements domain.TokenService. The resulting token
// proves the phone number passed SMS confirmation recently; it is only
// accepted where PurposePhoneVerification is expected.
func (j *JWTServiceImpl) IssueVerification(phone domain.PhoneNumber) (string, error) {
	now := j.clock.Now()
	claims := jwt.MapClaims{
		"phone_number": phone.String(),
		"purpose":      domain.PurposePhoneVerification,
		"iss":          j.issuer,
		"iat":          now.Unix(),
		"exp":          now.Add(j.verificationTTL).Unix(),
		"jti":          j.generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

// Validate implements domain.TokenService. Expiry is surfaced as
// ErrTokenExpired; every other failure collapses to ErrTokenInvalid so
// callers cannot distinguish why a token was rejected.
func (j *JWTServiceImpl) Validate(tokenString, expectedPurpose string) (*domain.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrTokenInvalid
		}
		return j.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	if !token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}

	purpose, ok := claims["purpose"].(string)
	if !ok || (expectedPurpose != "" && purpose != expectedPurpose) {
		return nil, domain.ErrTokenInvalid
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	if time.Unix(int64(exp), 0).Before(j.clock.Now()) {
		return nil, domain.ErrTokenExpired
	}

	tokenClaims := &domain.TokenClaims{
		Purpose:   purpose,
		ExpiresAt: int64(exp),
	}

	if iat, ok := claims["iat"].(float64); ok {
		tokenClaims.IssuedAt = int64(iat)
	}
	if accountID, ok := claims["account_id"].(float64); ok {
		tokenClaims.AccountID = uint(accountID)
	}
	if phone, ok := claims["phone_number"].(string); ok {
		tokenClaims.PhoneNumber = phone
	}
	if role, ok := claims["role"].(string); ok {
		tokenClaims.Role = role
	}
	if sessionID, ok := claims["session_id"].(string); ok {
		tokenClaims.SessionID = sessionID
	}

	return tokenClaims, nil
}
