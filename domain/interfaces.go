package domain

import (
	"context"
	"time"
)

// AccountRepository defines account data access operations
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	FindByPhone(ctx context.Context, phone PhoneNumber) (*Account, error)
	FindByID(ctx context.Context, id uint) (*Account, error)
	Update(ctx context.Context, account *Account) error
	ListByKYCStatus(ctx context.Context, status string) ([]Account, error)
}

// VerificationRepository defines verification record data access operations
type VerificationRepository interface {
	Save(ctx context.Context, record *VerificationRecord) error
	FindLatestUnconfirmed(ctx context.Context, phone PhoneNumber) (*VerificationRecord, error)
	DeleteAllFor(ctx context.Context, phone PhoneNumber) error
	Delete(ctx context.Context, record *VerificationRecord) error
	// IncrementAttempts bumps the attempt counter only when the stored value
	// still equals expected, so concurrent confirms cannot lose an increment.
	IncrementAttempts(ctx context.Context, record *VerificationRecord, expected int) error
}

// SessionRepository defines session data access operations
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByID(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}

// SmsSender dispatches a text message to a phone number
type SmsSender interface {
	SendSMS(to, message string) error
}

// Clock supplies the current time; injected so expiry logic is testable
type Clock interface {
	Now() time.Time
}

// PhoneLocker serializes verification operations per phone number
type PhoneLocker interface {
	Lock(ctx context.Context, phone PhoneNumber) (func(), error)
}

// PasswordService defines password hashing operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService defines signed token operations
type TokenService interface {
	IssueSession(accountID uint, phone PhoneNumber, role, sessionID string) (string, error)
	IssueVerification(phone PhoneNumber) (string, error)
	Validate(token, expectedPurpose string) (*TokenClaims, error)
}

// VerificationService manages the SMS code lifecycle per phone number
type VerificationService interface {
	Issue(ctx context.Context, phone PhoneNumber) (*VerificationRecord, error)
	Confirm(ctx context.Context, phone PhoneNumber, code string) (string, error)
}

// AuthService defines the user-facing authentication operations
type AuthService interface {
	RequestCode(ctx context.Context, rawPhone string) (string, error)
	ConfirmCode(ctx context.Context, rawPhone, code string) (string, error)
	Register(ctx context.Context, rawPhone, password, displayName, verificationToken string) (*AuthResult, error)
	Login(ctx context.Context, rawPhone, password string) (*AuthResult, error)
	CurrentUser(ctx context.Context, token string) (*Account, error)
	Logout(ctx context.Context, sessionID string) error
}

// PolicyService defines authorization policy operations
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
