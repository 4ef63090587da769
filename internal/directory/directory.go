// Package directory provides read-only lookups of assets and users.
// These are external collaborators of the maintenance core; only the
// fields the core needs are modeled here.
package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/qiro-dev/facility-maintenance/pkg/errs"
)

// Asset is a facility asset reference row.
type Asset struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	CompanyID    uint      `json:"company_id" gorm:"not null;index"`
	Name         string    `json:"name" gorm:"size:200;not null"`
	Location     string    `json:"location" gorm:"size:200"`
	SafetyTagged bool      `json:"safety_tagged" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Asset) TableName() string {
	return "facility_assets"
}

// User is a user reference row.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CompanyID uint      `json:"company_id" gorm:"not null;index"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	Role      string    `json:"role" gorm:"size:50;default:'technician'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// AssetDirectory resolves asset ids to asset info.
type AssetDirectory interface {
	Get(ctx context.Context, companyID, assetID uint) (*Asset, error)
}

// UserDirectory resolves user ids to user info.
type UserDirectory interface {
	Get(ctx context.Context, companyID, userID uint) (*User, error)
}

// GormAssetDirectory is the database-backed asset lookup.
type GormAssetDirectory struct {
	db *gorm.DB
}

func NewGormAssetDirectory(db *gorm.DB) *GormAssetDirectory {
	return &GormAssetDirectory{db: db}
}

func (d *GormAssetDirectory) AutoMigrate() error {
	return d.db.AutoMigrate(&Asset{})
}

func (d *GormAssetDirectory) Get(ctx context.Context, companyID, assetID uint) (*Asset, error) {
	var asset Asset
	err := d.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&asset, assetID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: asset %d", errs.ErrNotFound, assetID)
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// GormUserDirectory is the database-backed user lookup.
type GormUserDirectory struct {
	db *gorm.DB
}

func NewGormUserDirectory(db *gorm.DB) *GormUserDirectory {
	return &GormUserDirectory{db: db}
}

func (d *GormUserDirectory) AutoMigrate() error {
	return d.db.AutoMigrate(&User{})
}

func (d *GormUserDirectory) Get(ctx context.Context, companyID, userID uint) (*User, error) {
	var user User
	err := d.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %d", errs.ErrNotFound, userID)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
