package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns a UUID when the database doesn't
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Project represents the event project a budget belongs to
type Project struct {
	BaseModel
	Name          string         `gorm:"type:varchar(255);not null;index"`
	ClientName    string         `gorm:"type:varchar(255);column:client_name"`
	EventDate     *time.Time     `gorm:"type:date;column:event_date"`
	Location      string         `gorm:"type:varchar(255)"`
	Notes         string         `gorm:"type:text"`
	TeamMembers   pq.StringArray `gorm:"type:text[];column:team_members"`
	CreatedByID   string         `gorm:"type:varchar(100);column:created_by_id"`
	CreatedByName string         `gorm:"type:varchar(200);column:created_by_name"`
	UpdatedByID   string         `gorm:"type:varchar(100);column:updated_by_id"`
	UpdatedByName string         `gorm:"type:varchar(200);column:updated_by_name"`
	Budgets       []Budget       `gorm:"foreignKey:ProjectID"`
}

// BudgetStatus represents the internal workflow status of a budget
type BudgetStatus string

const (
	BudgetStatusDraft    BudgetStatus = "draft"
	BudgetStatusSent     BudgetStatus = "sent"
	BudgetStatusApproved BudgetStatus = "approved"
	BudgetStatusRejected BudgetStatus = "rejected"
)

// IsValid checks if the BudgetStatus is a valid enum value
func (s BudgetStatus) IsValid() bool {
	switch s {
	case BudgetStatusDraft, BudgetStatusSent, BudgetStatusApproved, BudgetStatusRejected:
		return true
	}
	return false
}

// ApprovalStatus represents the client-facing approval state of a budget.
// This is an independent axis from BudgetStatus.
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

// IsTerminal reports whether no further client transition is possible
func (s ApprovalStatus) IsTerminal() bool {
	return s == ApprovalStatusApproved || s == ApprovalStatusRejected
}

// MeasurementUnit represents the unit of a budget item's measurement field
type MeasurementUnit string

const (
	UnitNone        MeasurementUnit = ""
	UnitMeter       MeasurementUnit = "m"
	UnitSquareMeter MeasurementUnit = "m2"
	UnitCubicMeter  MeasurementUnit = "m3"
)

// IsValid checks if the MeasurementUnit is a valid enum value
func (u MeasurementUnit) IsValid() bool {
	switch u {
	case UnitNone, UnitMeter, UnitSquareMeter, UnitCubicMeter:
		return true
	}
	return false
}

// Budget represents a quotation composed of priced line items.
// It carries two independent status axes: the internal workflow status and the
// client-facing approval status reached through the public token link.
type Budget struct {
	BaseModel
	Name              string             `gorm:"type:varchar(255);not null;index"`
	ProjectID         uuid.UUID          `gorm:"type:uuid;not null;index;column:project_id"`
	Project           *Project           `gorm:"foreignKey:ProjectID"`
	Status            BudgetStatus       `gorm:"type:varchar(20);not null;default:'draft';index"`
	ApprovalStatus    ApprovalStatus     `gorm:"type:varchar(20);not null;default:'pending';index;column:approval_status"`
	ApprovalToken     string             `gorm:"type:varchar(64);not null;uniqueIndex;column:approval_token"`
	ApprovedAt        *time.Time         `gorm:"column:approved_at"`
	ClientNotes       string             `gorm:"type:text;column:client_notes"`
	FreightCost       *decimal.Decimal   `gorm:"type:decimal(10,2);column:freight_cost"`
	FreightUrgencyID  *uuid.UUID         `gorm:"type:uuid;column:freight_urgency_id"`
	FreightUrgency    *UrgencyMultiplier `gorm:"foreignKey:FreightUrgencyID"`
	FreightDistanceKm *decimal.Decimal   `gorm:"type:decimal(8,2);column:freight_distance_km"`
	CreatedByID       string             `gorm:"type:varchar(100);column:created_by_id"`
	CreatedByName     string             `gorm:"type:varchar(200);column:created_by_name"`
	UpdatedByID       string             `gorm:"type:varchar(100);column:updated_by_id"`
	UpdatedByName     string             `gorm:"type:varchar(200);column:updated_by_name"`
	Items             []BudgetItem       `gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE"`
	DeletedAt         gorm.DeletedAt     `gorm:"index"`
}

// IsEditable reports whether internal staff may still modify the budget and its
// item set. Editability ends as soon as the client decides.
func (b *Budget) IsEditable() bool {
	return b.ApprovalStatus == ApprovalStatusPending
}

// TotalValue sums total_price over all items
func (b *Budget) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, item := range b.Items {
		total = total.Add(item.TotalPrice)
	}
	return total
}

// ApprovedValue sums total_price over approved items only
func (b *Budget) ApprovedValue() decimal.Decimal {
	total := decimal.Zero
	for _, item := range b.Items {
		if item.IsApproved {
			total = total.Add(item.TotalPrice)
		}
	}
	return total
}

// TotalWithFreight returns total value plus the persisted freight cost, if any
func (b *Budget) TotalWithFreight() decimal.Decimal {
	total := b.TotalValue()
	if b.FreightCost != nil {
		total = total.Add(*b.FreightCost)
	}
	return total
}

// TotalWeight sums weight × quantity over items with a weight set (kg)
func (b *Budget) TotalWeight() decimal.Decimal {
	total := decimal.Zero
	for _, item := range b.Items {
		if item.Weight != nil {
			total = total.Add(item.Weight.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
	}
	return total
}

// TotalVolume sums measurement × quantity over items measured in m³
func (b *Budget) TotalVolume() decimal.Decimal {
	total := decimal.Zero
	for _, item := range b.Items {
		if item.Measurement != nil && item.MeasurementUnit == UnitCubicMeter {
			total = total.Add(item.Measurement.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
	}
	return total
}

// DisplayTotal returns the total matching the budget's terminal state: the
// approved subset once the client approved, the full total otherwise.
func (b *Budget) DisplayTotal() decimal.Decimal {
	if b.ApprovalStatus == ApprovalStatusApproved {
		return b.ApprovedValue()
	}
	return b.TotalValue()
}

// BudgetItem represents a priced line item in a budget
type BudgetItem struct {
	BaseModel
	BudgetID        uuid.UUID        `gorm:"type:uuid;not null;index;column:budget_id"`
	Budget          *Budget          `gorm:"foreignKey:BudgetID"`
	Name            string           `gorm:"type:varchar(255);not null"`
	Description     string           `gorm:"type:text"`
	Quantity        int              `gorm:"not null;default:1"`
	UnitPrice       decimal.Decimal  `gorm:"type:decimal(10,2);not null;column:unit_price"`
	TotalPrice      decimal.Decimal  `gorm:"type:decimal(10,2);not null;column:total_price"`
	Length          *decimal.Decimal `gorm:"type:decimal(10,3)"`
	Width           *decimal.Decimal `gorm:"type:decimal(10,3)"`
	Height          *decimal.Decimal `gorm:"type:decimal(10,3)"`
	Measurement     *decimal.Decimal `gorm:"type:decimal(10,3)"`
	MeasurementUnit MeasurementUnit  `gorm:"type:varchar(5);column:measurement_unit"`
	Weight          *decimal.Decimal `gorm:"type:decimal(10,3)"`
	IsApproved      bool             `gorm:"not null;default:true;column:is_approved"`
	DisplayOrder    int              `gorm:"not null;default:0;column:display_order"`
}

// Recalculate refreshes the derived fields. Total price always follows
// quantity × unit price, and once all three dimensions exist the measurement
// becomes their product in m³, overriding whatever was entered manually.
func (i *BudgetItem) Recalculate() {
	i.TotalPrice = i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity))).Round(2)

	if i.Length != nil && i.Width != nil && i.Height != nil {
		volume := i.Length.Mul(*i.Width).Mul(*i.Height).Round(3)
		i.Measurement = &volume
		i.MeasurementUnit = UnitCubicMeter
	}
}

// BeforeSave recomputes derived fields on every write
func (i *BudgetItem) BeforeSave(tx *gorm.DB) error {
	i.Recalculate()
	return nil
}

// CalculationMode controls how weight and volume costs are combined
type CalculationMode string

const (
	CalcModeMax    CalculationMode = "max"
	CalcModeSum    CalculationMode = "sum"
	CalcModeWeight CalculationMode = "weight"
	CalcModeVolume CalculationMode = "volume"
)

// IsValid checks if the CalculationMode is a valid enum value
func (m CalculationMode) IsValid() bool {
	switch m {
	case CalcModeMax, CalcModeSum, CalcModeWeight, CalcModeVolume:
		return true
	}
	return false
}

// FreightSettingsID is the fixed primary key of the singleton settings row
const FreightSettingsID uint = 1

// FreightSettings holds the global freight configuration. At most one row
// exists; use the repository accessor rather than creating instances directly.
type FreightSettings struct {
	ID                  uint            `gorm:"primaryKey"`
	FixedDeliveryFee    decimal.Decimal `gorm:"type:decimal(10,2);not null;column:fixed_delivery_fee"`
	PercentageOnTotal   decimal.Decimal `gorm:"type:decimal(5,2);not null;column:percentage_on_total"`
	DistanceRateEnabled bool            `gorm:"not null;default:false;column:distance_rate_enabled"`
	DistanceRatePerKm   decimal.Decimal `gorm:"type:decimal(8,2);not null;column:distance_rate_per_km"`
	CalculationMode     CalculationMode `gorm:"type:varchar(10);not null;default:'max';column:calculation_mode"`
	UpdatedAt           time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// DefaultFreightSettings returns the settings row created on first access:
// everything zeroed, distance pricing off, max combination mode
func DefaultFreightSettings() FreightSettings {
	return FreightSettings{
		ID:              FreightSettingsID,
		CalculationMode: CalcModeMax,
	}
}

// RateType represents how a pricing band charges
type RateType string

const (
	// RateTypeFixed charges the band rate regardless of position in the band
	RateTypeFixed RateType = "fixed"
	// RateTypePerUnit charges rate × units above the band minimum
	// (1000 kg per unit for weight bands, 1 m³ for volume bands)
	RateTypePerUnit RateType = "per_unit"
)

// IsValid checks if the RateType is a valid enum value
func (r RateType) IsValid() bool {
	return r == RateTypeFixed || r == RateTypePerUnit
}

// WeightRange is a pricing band for shipment weight (kg)
type WeightRange struct {
	BaseModel
	Label        string           `gorm:"type:varchar(100);not null"`
	MinWeight    decimal.Decimal  `gorm:"type:decimal(10,3);not null;column:min_weight"`
	MaxWeight    *decimal.Decimal `gorm:"type:decimal(10,3);column:max_weight"`
	Rate         decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	RateType     RateType         `gorm:"type:varchar(10);not null;default:'fixed';column:rate_type"`
	DisplayOrder int              `gorm:"not null;default:0;column:display_order"`
}

// VolumeRange is a pricing band for shipment volume (m³)
type VolumeRange struct {
	BaseModel
	Label        string           `gorm:"type:varchar(100);not null"`
	MinVolume    decimal.Decimal  `gorm:"type:decimal(10,3);not null;column:min_volume"`
	MaxVolume    *decimal.Decimal `gorm:"type:decimal(10,3);column:max_volume"`
	Rate         decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	RateType     RateType         `gorm:"type:varchar(10);not null;default:'fixed';column:rate_type"`
	DisplayOrder int              `gorm:"not null;default:0;column:display_order"`
}

// UrgencyMultiplier is a named surcharge applied to the freight subtotal
type UrgencyMultiplier struct {
	BaseModel
	Label       string          `gorm:"type:varchar(80);not null"`
	Description string          `gorm:"type:varchar(200)"`
	Multiplier  decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	IsDefault   bool            `gorm:"not null;default:false;column:is_default"`
}

// ExecutionStatus represents the execution state of a service order
type ExecutionStatus string

const (
	ExecutionStatusPending    ExecutionStatus = "pending"
	ExecutionStatusInProgress ExecutionStatus = "in_progress"
	ExecutionStatusCompleted  ExecutionStatus = "completed"
	ExecutionStatusCancelled  ExecutionStatus = "cancelled"
)

// IsValid checks if the ExecutionStatus is a valid enum value
func (s ExecutionStatus) IsValid() bool {
	switch s {
	case ExecutionStatusPending, ExecutionStatusInProgress, ExecutionStatusCompleted, ExecutionStatusCancelled:
		return true
	}
	return false
}

// ServiceOrder is the work-tracking record spawned from a budget.
// One per budget, enforced by the unique index on budget_id.
type ServiceOrder struct {
	BaseModel
	BudgetID      uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex;column:budget_id"`
	Budget        *Budget            `gorm:"foreignKey:BudgetID"`
	ProjectID     uuid.UUID          `gorm:"type:uuid;not null;index;column:project_id"`
	Project       *Project           `gorm:"foreignKey:ProjectID"`
	Status        ExecutionStatus    `gorm:"type:varchar(15);not null;default:'pending'"`
	CreatedByID   string             `gorm:"type:varchar(100);column:created_by_id"`
	CreatedByName string             `gorm:"type:varchar(200);column:created_by_name"`
	UpdatedByID   string             `gorm:"type:varchar(100);column:updated_by_id"`
	UpdatedByName string             `gorm:"type:varchar(200);column:updated_by_name"`
	Items         []ServiceOrderItem `gorm:"foreignKey:ServiceOrderID;constraint:OnDelete:CASCADE"`
}

// ServiceOrderItem is a single execution task broken out of a budget item
type ServiceOrderItem struct {
	BaseModel
	ServiceOrderID uuid.UUID       `gorm:"type:uuid;not null;index;column:service_order_id"`
	Name           string          `gorm:"type:varchar(255);not null"`
	Description    string          `gorm:"type:text"`
	Quantity       int             `gorm:"not null;default:1"`
	Status         ExecutionStatus `gorm:"type:varchar(15);not null;default:'pending';column:execution_status"`
}
