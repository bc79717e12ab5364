package domain

import "time"

// Account roles
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
	RoleSeller   = "seller"
)

// KYC statuses
const (
	KYCPending  = "pending"
	KYCVerified = "verified"
	KYCRejected = "rejected"
)

// Token purposes. A token minted for one purpose must never validate for
// another.
const (
	PurposeSession           = "session"
	PurposePhoneVerification = "phone_verification"
)

// Account represents a registered user keyed by phone number
type Account struct {
	ID           uint
	PhoneNumber  string
	PasswordHash string
	DisplayName  string
	Role         string
	KYCStatus    string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// VerificationRecord is an outstanding SMS code bound to a phone number.
// At most one unconfirmed, unexpired record may exist per phone at a time.
type VerificationRecord struct {
	ID          uint
	PhoneNumber string
	Code        string
	ExpiresAt   time.Time
	Attempts    int
	Confirmed   bool
	CreatedAt   time.Time
}

// IsExpired reports whether the code's validity window has passed.
func (v *VerificationRecord) IsExpired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}

// AttemptsExhausted reports whether the record has hit the attempt cap.
func (v *VerificationRecord) AttemptsExhausted(max int) bool {
	return v.Attempts >= max
}

// Session represents an active login session
type Session struct {
	ID        string
	AccountID uint
	ExpiresAt time.Time
	CreatedAt time.Time
}

// AuthResult represents authentication outcome
type AuthResult struct {
	Account     *Account
	AccessToken string
	SessionID   string
	ExpiresIn   int64
}

// TokenClaims represents the verified claim set of a signed token
type TokenClaims struct {
	AccountID   uint   `json:"account_id"`
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role"`
	Purpose     string `json:"purpose"`
	SessionID   string `json:"session_id,omitempty"`
	IssuedAt    int64  `json:"iat"`
	ExpiresAt   int64  `json:"exp"`
}
