package repository

import (
	"context"
	"errors"
	"time"

	"github.com/aromakopi/pos-backend/internal/models"
	"github.com/aromakopi/pos-backend/internal/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) withProfiles(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("CustomerProfile").
		Preload("KasirProfile").
		Preload("AdminProfile")
}

// GetUserByEmail looks up any user, active or not. Returns nil, nil when
// nobody has that email.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetActiveUserByEmail loads an active user with all profile records.
func (r *UserRepository) GetActiveUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.withProfiles(ctx).Where("email = ? AND is_active = ?", email, true).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetActiveUserByID loads an active user with all profile records.
func (r *UserRepository) GetActiveUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.withProfiles(ctx).Where("id = ? AND is_active = ?", id, true).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByID loads a user regardless of status, with profiles.
func (r *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.withProfiles(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetUsersByRole lists users of one role, newest first.
func (r *UserRepository) GetUsersByRole(ctx context.Context, role models.Role) ([]*models.User, error) {
	var users []*models.User
	err := r.withProfiles(ctx).
		Where("role = ?", role).
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

// CountByRole counts users of a role, active or not.
func (r *UserRepository) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

// GetCustomerByMemberID finds the customer holding a member id.
func (r *UserRepository) GetCustomerByMemberID(ctx context.Context, memberID string) (*models.User, error) {
	var profile models.CustomerProfile
	err := r.db.WithContext(ctx).Where("member_id = ?", memberID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.GetUserByID(ctx, profile.UserID)
}

// maxProfileInsertAttempts bounds how often a customer profile insert is
// retried after losing a member id to a concurrent registration.
const maxProfileInsertAttempts = 5

// CreateCustomer inserts a CUSTOMER user and its profile in one
// transaction. The member id is allocated inside the transaction; when a
// concurrent registration claims the same id first, the profile insert is
// rolled back to a savepoint and a fresh id is drawn. A duplicate key error
// from this method therefore always concerns the user row.
func (r *UserRepository) CreateCustomer(ctx context.Context, user *models.User, loyaltyPoints int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			return err
		}

		for attempt := 1; ; attempt++ {
			memberID, err := utils.GenerateMemberID(time.Now(), func(candidate string) (bool, error) {
				return memberIDExists(tx, candidate)
			})
			if err != nil {
				return err
			}

			profile := &models.CustomerProfile{
				UserID:        user.ID,
				LoyaltyPoints: loyaltyPoints,
				MemberID:      memberID,
			}
			// Nested transaction = savepoint, so a failed insert leaves the
			// outer transaction usable.
			err = tx.Transaction(func(sp *gorm.DB) error {
				return sp.Create(profile).Error
			})
			if err == nil {
				user.CustomerProfile = profile
				return nil
			}
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return err
			}
			if attempt >= maxProfileInsertAttempts {
				return utils.ErrMemberIDExhausted
			}
		}
	})
}

// CreateKasir inserts a KASIR user and its profile in one transaction.
func (r *UserRepository) CreateKasir(ctx context.Context, user *models.User, profile *models.KasirProfile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			return err
		}
		profile.UserID = user.ID
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		user.KasirProfile = profile
		return nil
	})
}

// CreateAdmin inserts an ADMIN user and its profile in one transaction.
func (r *UserRepository) CreateAdmin(ctx context.Context, user *models.User, profile *models.AdminProfile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			return err
		}
		profile.UserID = user.ID
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		user.AdminProfile = profile
		return nil
	})
}

// UpdateUser applies column updates to the user row.
func (r *UserRepository) UpdateUser(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
}

// UpdateKasir updates the user row and the kasir profile together.
func (r *UserRepository) UpdateKasir(ctx context.Context, id uuid.UUID, userFields, profileFields map[string]any) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(userFields) > 0 {
			if err := tx.Model(&models.User{}).Where("id = ?", id).Updates(userFields).Error; err != nil {
				return err
			}
		}
		if len(profileFields) > 0 {
			if err := tx.Model(&models.KasirProfile{}).Where("user_id = ?", id).Updates(profileFields).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteKasir removes the kasir profile and then the user.
func (r *UserRepository) DeleteKasir(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.KasirProfile{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND role = ?", id, models.RoleKasir).Delete(&models.User{}).Error
	})
}

func memberIDExists(tx *gorm.DB, memberID string) (bool, error) {
	var count int64
	err := tx.Model(&models.CustomerProfile{}).Where("member_id = ?", memberID).Count(&count).Error
	return count > 0, err
}
