package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/KEBA-mall/sto-backend/domain"
)

// AccountRepositoryImpl implements domain.AccountRepository using GORM
type AccountRepositoryImpl struct {
	db *gorm.DB
}

// DBAccount represents the database model for Account (with GORM tags)
type DBAccount struct {
	ID           uint           `gorm:"primaryKey"`
	PhoneNumber  string         `gorm:"uniqueIndex;size:11"`
	PasswordHash string         `gorm:"column:password;size:255"`
	DisplayName  string         `gorm:"size:100"`
	Role         string         `gorm:"index;size:20"`
	KYCStatus    string         `gorm:"column:kyc_status;index;size:20"`
	IsActive     bool           `gorm:"index"`
	CreatedAt    time.Time      `gorm:"index"`
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBAccount) TableName() string {
	return "accounts"
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) domain.AccountRepository {
	return &AccountRepositoryImpl{db: db}
}

// Create implements domain.AccountRepository. The unique index on
// phone_number backs the one-account-per-phone invariant; a duplicate
// insert maps to ErrPhoneAlreadyRegistered.
func (r *AccountRepositoryImpl) Create(ctx context.Context, account *domain.Account) error {
	dbAccount := r.domainToDB(account)
	if err := r.db.WithContext(ctx).Create(dbAccount).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrPhoneAlreadyRegistered
		}
		return err
	}
	account.ID = dbAccount.ID
	account.CreatedAt = dbAccount.CreatedAt
	account.UpdatedAt = dbAccount.UpdatedAt
	return nil
}

// FindByPhone implements domain.AccountRepository
func (r *AccountRepositoryImpl) FindByPhone(ctx context.Context, phone domain.PhoneNumber) (*domain.Account, error) {
	var dbAccount DBAccount
	err := r.db.WithContext(ctx).Where("phone_number = ?", phone.String()).First(&dbAccount).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbAccount), nil
}

// FindByID implements domain.AccountRepository
func (r *AccountRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Account, error) {
	var dbAccount DBAccount
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbAccount).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbAccount), nil
}

// Update implements domain.AccountRepository
func (r *AccountRepositoryImpl) Update(ctx context.Context, account *domain.Account) error {
	dbAccount := r.domainToDB(account)
	return r.db.WithContext(ctx).Save(dbAccount).Error
}

// ListByKYCStatus implements domain.AccountRepository
func (r *AccountRepositoryImpl) ListByKYCStatus(ctx context.Context, status string) ([]domain.Account, error) {
	var dbAccounts []DBAccount
	err := r.db.WithContext(ctx).
		Where("kyc_status = ?", status).
		Order("created_at asc").
		Find(&dbAccounts).Error
	if err != nil {
		return nil, err
	}

	accounts := make([]domain.Account, 0, len(dbAccounts))
	for i := range dbAccounts {
		accounts = append(accounts, *r.dbToDomain(&dbAccounts[i]))
	}
	return accounts, nil
}

// domainToDB converts domain account to database account
func (r *AccountRepositoryImpl) domainToDB(account *domain.Account) *DBAccount {
	return &DBAccount{
		ID:           account.ID,
		PhoneNumber:  account.PhoneNumber,
		PasswordHash: account.PasswordHash,
		DisplayName:  account.DisplayName,
		Role:         account.Role,
		KYCStatus:    account.KYCStatus,
		IsActive:     account.IsActive,
	}
}

// dbToDomain converts database account to domain account
func (r *AccountRepositoryImpl) dbToDomain(dbAccount *DBAccount) *domain.Account {
	return &domain.Account{
		ID:           dbAccount.ID,
		PhoneNumber:  dbAccount.PhoneNumber,
		PasswordHash: dbAccount.PasswordHash,
		DisplayName:  dbAccount.DisplayName,
		Role:         dbAccount.Role,
		KYCStatus:    dbAccount.KYCStatus,
		IsActive:     dbAccount.IsActive,
		CreatedAt:    dbAccount.CreatedAt,
		UpdatedAt:    dbAccount.UpdatedAt,
	}
}
