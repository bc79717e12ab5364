package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/KEBA-mall/sto-backend/domain"
)

// VerificationRepositoryImpl implements domain.VerificationRepository using GORM
type VerificationRepositoryImpl struct {
	db *gorm.DB
}

// DBVerification represents the database model for VerificationRecord
type DBVerification struct {
	ID          uint      `gorm:"primaryKey"`
	PhoneNumber string    `gorm:"index;size:11"`
	Code        string    `gorm:"size:6"`
	ExpiresAt   time.Time
	Attempts    int
	Confirmed   bool
	CreatedAt   time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBVerification) TableName() string {
	return "sms_verifications"
}

// NewVerificationRepository creates a new verification repository
func NewVerificationRepository(db *gorm.DB) domain.VerificationRepository {
	return &VerificationRepositoryImpl{db: db}
}

// Save implements domain.VerificationRepository
func (r *VerificationRepositoryImpl) Save(ctx context.Context, record *domain.VerificationRecord) error {
	dbRecord := r.domainToDB(record)
	if err := r.db.WithContext(ctx).Save(dbRecord).Error; err != nil {
		return err
	}
	record.ID = dbRecord.ID
	record.CreatedAt = dbRecord.CreatedAt
	return nil
}

// FindLatestUnconfirmed implements domain.VerificationRepository. When
// multiple unconfirmed records exist the most recently created one wins.
func (r *VerificationRepositoryImpl) FindLatestUnconfirmed(ctx context.Context, phone domain.PhoneNumber) (*domain.VerificationRecord, error) {
	var dbRecord DBVerification
	err := r.db.WithContext(ctx).
		Where("phone_number = ? AND confirmed = ?", phone.String(), false).
		Order("created_at desc").
		First(&dbRecord).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoActiveCode
		}
		return nil, err
	}
	return r.dbToDomain(&dbRecord), nil
}

// DeleteAllFor implements domain.VerificationRepository
func (r *VerificationRepositoryImpl) DeleteAllFor(ctx context.Context, phone domain.PhoneNumber) error {
	return r.db.WithContext(ctx).
		Where("phone_number = ?", phone.String()).
		Delete(&DBVerification{}).Error
}

// Delete implements domain.VerificationRepository
func (r *VerificationRepositoryImpl) Delete(ctx context.Context, record *domain.VerificationRecord) error {
	return r.db.WithContext(ctx).Delete(&DBVerification{}, record.ID).Error
}

// IncrementAttempts implements domain.VerificationRepository. The update is
// conditional on the expected counter value so two concurrent confirms can
// never collapse into a single increment.
func (r *VerificationRepositoryImpl) IncrementAttempts(ctx context.Context, record *domain.VerificationRecord, expected int) error {
	result := r.db.WithContext(ctx).
		Model(&DBVerification{}).
		Where("id = ? AND attempts = ?", record.ID, expected).
		Update("attempts", expected+1)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("attempts counter for record %d moved concurrently", record.ID)
	}
	record.Attempts = expected + 1
	return nil
}

// domainToDB converts domain record to database record
func (r *VerificationRepositoryImpl) domainToDB(record *domain.VerificationRecord) *DBVerification {
	return &DBVerification{
		ID:          record.ID,
		PhoneNumber: record.PhoneNumber,
		Code:        record.Code,
		ExpiresAt:   record.ExpiresAt,
		Attempts:    record.Attempts,
		Confirmed:   record.Confirmed,
		CreatedAt:   record.CreatedAt,
	}
}

// dbToDomain converts database record to domain record
func (r *VerificationRepositoryImpl) dbToDomain(dbRecord *DBVerification) *domain.VerificationRecord {
	return &domain.VerificationRecord{
		ID:          dbRecord.ID,
		PhoneNumber: dbRecord.PhoneNumber,
		Code:        dbRecord.Code,
		ExpiresAt:   dbRecord.ExpiresAt,
		Attempts:    dbRecord.Attempts,
		Confirmed:   dbRecord.Confirmed,
		CreatedAt:   dbRecord.CreatedAt,
	}
}
