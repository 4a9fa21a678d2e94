package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category struct {
	Model
	Name        string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string     `gorm:"type:varchar(255)" json:"description"`
	Icon        string     `gorm:"type:varchar(100)" json:"icon"`
	IsActive    bool       `gorm:"not null" json:"isActive"`
	CreatedByID *uuid.UUID `gorm:"type:uuid" json:"createdById"`
}

type Menu struct {
	Model
	Name              string          `gorm:"type:varchar(100);not null" json:"name"`
	ImageURL          string          `gorm:"type:varchar(500)" json:"imageUrl"`
	CategoryID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"categoryId"`
	Category          *Category       `gorm:"constraint:OnDelete:RESTRICT" json:"category,omitempty"`
	Stock             int             `gorm:"not null" json:"stock"`
	ProductionCapital decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"productionCapital"`
	SellingPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"sellingPrice"`
	Profit            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"profit"`
	IsActive          bool            `gorm:"not null" json:"isActive"`
}

// ApplyProfit derives the margin from the two prices.
func (m *Menu) ApplyProfit() {
	m.Profit = m.SellingPrice.Sub(m.ProductionCapital)
}

type TableStatus string

const (
	TableAvailable   TableStatus = "AVAILABLE"
	TableOccupied    TableStatus = "OCCUPIED"
	TableReserved    TableStatus = "RESERVED"
	TableMaintenance TableStatus = "MAINTENANCE"
)

type TableLocation string

const (
	LocationIndoor  TableLocation = "INDOOR"
	LocationOutdoor TableLocation = "OUTDOOR"
)

type Table struct {
	Model
	Number        int           `gorm:"uniqueIndex;not null" json:"number"`
	Capacity      int           `gorm:"not null" json:"capacity"`
	Status        TableStatus   `gorm:"type:varchar(20);not null" json:"status"`
	Location      TableLocation `gorm:"type:varchar(20);not null" json:"location"`
	CurrentGuests int           `gorm:"not null;default:0" json:"currentGuests"`
	ReservedBy    *string       `gorm:"type:varchar(100)" json:"reservedBy"`
	ReservedTime  *string       `gorm:"type:varchar(50)" json:"reservedTime"`
}

func (Table) TableName() string {
	return "cafe_tables"
}

type RewardType string

const (
	RewardTypeReward  RewardType = "REWARD"
	RewardTypeVoucher RewardType = "VOUCHER"
)

type Reward struct {
	Model
	Title       string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"title"`
	Description string     `gorm:"type:varchar(500)" json:"description"`
	Type        RewardType `gorm:"type:varchar(20);not null" json:"type"`
	Conditions  string     `gorm:"type:varchar(500)" json:"conditions"`
	Points      *int       `json:"points"`
	Code        *string    `gorm:"type:varchar(50)" json:"code"`
	ExpiryDate  *time.Time `json:"expiryDate"`
	IsActive    bool       `gorm:"not null" json:"isActive"`
	CreatedByID *uuid.UUID `gorm:"type:uuid" json:"createdById"`
}
