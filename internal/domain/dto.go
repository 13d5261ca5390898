package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DTOs for API responses

type ProjectDTO struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	ClientName  string     `json:"clientName,omitempty"`
	EventDate   *string    `json:"eventDate,omitempty"` // ISO 8601 date
	Location    string     `json:"location,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	TeamMembers []string   `json:"teamMembers,omitempty"`
	BudgetCount int        `json:"budgetCount"`
	Budgets     []BudgetDTO `json:"budgets,omitempty"`
	CreatedAt   string     `json:"createdAt"` // ISO 8601
	UpdatedAt   string     `json:"updatedAt"` // ISO 8601
}

type BudgetDTO struct {
	ID                uuid.UUID       `json:"id"`
	ProjectID         uuid.UUID       `json:"projectId"`
	ProjectName       string          `json:"projectName,omitempty"`
	Name              string          `json:"name"`
	Status            BudgetStatus    `json:"status"`
	ApprovalStatus    ApprovalStatus  `json:"approvalStatus"`
	ApprovedAt        *string         `json:"approvedAt,omitempty"` // ISO 8601
	ClientNotes       string          `json:"clientNotes,omitempty"`
	TotalValue        decimal.Decimal `json:"totalValue"`
	ApprovedValue     decimal.Decimal `json:"approvedValue"`
	FreightCost       *decimal.Decimal `json:"freightCost,omitempty"`
	TotalWithFreight  decimal.Decimal `json:"totalWithFreight"`
	TotalWeight       decimal.Decimal `json:"totalWeight"`
	TotalVolume       decimal.Decimal `json:"totalVolume"`
	FreightUrgencyID  *uuid.UUID      `json:"freightUrgencyId,omitempty"`
	FreightDistanceKm *decimal.Decimal `json:"freightDistanceKm,omitempty"`
	Items             []BudgetItemDTO `json:"items,omitempty"`
	CreatedAt         string          `json:"createdAt"` // ISO 8601
	UpdatedAt         string          `json:"updatedAt"` // ISO 8601
}

// BudgetWithLinkDTO is the internal view that also exposes the public
// approval link. The bare token never appears in list responses.
type BudgetWithLinkDTO struct {
	BudgetDTO
	ApprovalToken string `json:"approvalToken"`
}

type BudgetItemDTO struct {
	ID              uuid.UUID        `json:"id"`
	BudgetID        uuid.UUID        `json:"budgetId"`
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	Quantity        int              `json:"quantity"`
	UnitPrice       decimal.Decimal  `json:"unitPrice"`
	TotalPrice      decimal.Decimal  `json:"totalPrice"`
	Length          *decimal.Decimal `json:"length,omitempty"`
	Width           *decimal.Decimal `json:"width,omitempty"`
	Height          *decimal.Decimal `json:"height,omitempty"`
	Measurement     *decimal.Decimal `json:"measurement,omitempty"`
	MeasurementUnit MeasurementUnit  `json:"measurementUnit,omitempty"`
	Weight          *decimal.Decimal `json:"weight,omitempty"`
	IsApproved      bool             `json:"isApproved"`
	DisplayOrder    int              `json:"displayOrder"`
}

// PublicApprovalDTO is the client-facing budget view served on the token link.
// It carries no internal identifiers beyond what the page needs to render.
type PublicApprovalDTO struct {
	BudgetName       string           `json:"budgetName"`
	ProjectName      string           `json:"projectName"`
	ClientName       string           `json:"clientName,omitempty"`
	EventDate        *string          `json:"eventDate,omitempty"`
	ApprovalStatus   ApprovalStatus   `json:"approvalStatus"`
	ApprovedAt       *string          `json:"approvedAt,omitempty"`
	ClientNotes      string           `json:"clientNotes,omitempty"`
	Editable         bool             `json:"editable"`
	Items            []BudgetItemDTO  `json:"items"`
	TotalValue       decimal.Decimal  `json:"totalValue"`
	DisplayTotal     decimal.Decimal  `json:"displayTotal"`
	FreightCost      *decimal.Decimal `json:"freightCost,omitempty"`
	TotalWithFreight decimal.Decimal  `json:"totalWithFreight"`
}

// BudgetDocumentDTO is the render-ready export of a budget for downstream
// document generation. Once a budget is terminal the item list narrows to
// whichever subset matches the recorded decision.
type BudgetDocumentDTO struct {
	BudgetName     string          `json:"budgetName"`
	ProjectName    string          `json:"projectName"`
	ClientName     string          `json:"clientName,omitempty"`
	EventDate      *string         `json:"eventDate,omitempty"`
	ApprovalStatus ApprovalStatus  `json:"approvalStatus"`
	ApprovedAt     *string         `json:"approvedAt,omitempty"`
	ClientNotes    string          `json:"clientNotes,omitempty"`
	Items          []BudgetItemDTO `json:"items"`
	Total          decimal.Decimal `json:"total"`
	GeneratedAt    string          `json:"generatedAt"`
}

// ApprovalResultDTO is returned after a decision is recorded
type ApprovalResultDTO struct {
	ApprovalStatus ApprovalStatus  `json:"approvalStatus"`
	ApprovedAt     *string         `json:"approvedAt,omitempty"`
	ApprovedValue  decimal.Decimal `json:"approvedValue"`
	ServiceOrderID *uuid.UUID      `json:"serviceOrderId,omitempty"`
}

type FreightSettingsDTO struct {
	FixedDeliveryFee    decimal.Decimal `json:"fixedDeliveryFee"`
	PercentageOnTotal   decimal.Decimal `json:"percentageOnTotal"`
	DistanceRateEnabled bool            `json:"distanceRateEnabled"`
	DistanceRatePerKm   decimal.Decimal `json:"distanceRatePerKm"`
	CalculationMode     CalculationMode `json:"calculationMode"`
	UpdatedAt           string          `json:"updatedAt"` // ISO 8601
}

type RangeDTO struct {
	ID           uuid.UUID        `json:"id"`
	Label        string           `json:"label"`
	Min          decimal.Decimal  `json:"min"`
	Max          *decimal.Decimal `json:"max,omitempty"`
	Rate         decimal.Decimal  `json:"rate"`
	RateType     RateType         `json:"rateType"`
	DisplayOrder int              `json:"displayOrder"`
}

// RangeTableDTO bundles a range table with its configuration warnings
type RangeTableDTO struct {
	Ranges   []RangeDTO `json:"ranges"`
	Warnings []string   `json:"warnings,omitempty"`
}

type UrgencyMultiplierDTO struct {
	ID          uuid.UUID       `json:"id"`
	Label       string          `json:"label"`
	Description string          `json:"description,omitempty"`
	Multiplier  decimal.Decimal `json:"multiplier"`
	IsDefault   bool            `json:"isDefault"`
}

// FreightBreakdownDTO exposes every intermediate of a freight computation
type FreightBreakdownDTO struct {
	WeightTotal       decimal.Decimal `json:"weightTotal"`
	VolumeTotal       decimal.Decimal `json:"volumeTotal"`
	WeightCost        decimal.Decimal `json:"weightCost"`
	VolumeCost        decimal.Decimal `json:"volumeCost"`
	CalculationMode   CalculationMode `json:"calculationMode"`
	BaseFreight       decimal.Decimal `json:"baseFreight"`
	FixedFee          decimal.Decimal `json:"fixedFee"`
	PercentageCost    decimal.Decimal `json:"percentageCost"`
	DistanceCost      decimal.Decimal `json:"distanceCost"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	UrgencyLabel      string          `json:"urgencyLabel"`
	UrgencyMultiplier decimal.Decimal `json:"urgencyMultiplier"`
	FreightTotal      decimal.Decimal `json:"freightTotal"`
}

type ServiceOrderDTO struct {
	ID        uuid.UUID             `json:"id"`
	BudgetID  uuid.UUID             `json:"budgetId"`
	ProjectID uuid.UUID             `json:"projectId"`
	Status    ExecutionStatus       `json:"status"`
	Items     []ServiceOrderItemDTO `json:"items,omitempty"`
	CreatedAt string                `json:"createdAt"` // ISO 8601
	UpdatedAt string                `json:"updatedAt"` // ISO 8601
}

type ServiceOrderItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Quantity    int             `json:"quantity"`
	Status      ExecutionStatus `json:"status"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// Request DTOs
// Decimal amounts are validated for sign and scale in the service layer;
// validator tags cover presence, length and enum membership.

type CreateProjectRequest struct {
	Name        string     `json:"name" validate:"required,max=200"`
	ClientName  string     `json:"clientName,omitempty" validate:"omitempty,max=200"`
	EventDate   *time.Time `json:"eventDate,omitempty"`
	Location    string     `json:"location,omitempty" validate:"omitempty,max=300"`
	Notes       string     `json:"notes,omitempty"`
	TeamMembers []string   `json:"teamMembers,omitempty"`
}

type UpdateProjectRequest struct {
	Name        *string    `json:"name,omitempty" validate:"omitempty,max=200"`
	ClientName  *string    `json:"clientName,omitempty" validate:"omitempty,max=200"`
	EventDate   *time.Time `json:"eventDate,omitempty"`
	Location    *string    `json:"location,omitempty" validate:"omitempty,max=300"`
	Notes       *string    `json:"notes,omitempty"`
	TeamMembers []string   `json:"teamMembers,omitempty"`
}

type CreateBudgetRequest struct {
	ProjectID uuid.UUID                 `json:"projectId" validate:"required"`
	Name      string                    `json:"name" validate:"required,max=200"`
	Items     []CreateBudgetItemRequest `json:"items" validate:"required,min=1,dive"`
}

type UpdateBudgetRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,max=200"`
	// Items, when present, replaces the full item collection
	Items []UpsertBudgetItemRequest `json:"items,omitempty" validate:"omitempty,dive"`
}

type CreateBudgetItemRequest struct {
	Name            string           `json:"name" validate:"required,max=200"`
	Description     string           `json:"description,omitempty"`
	Quantity        int              `json:"quantity" validate:"required,min=1"`
	UnitPrice       decimal.Decimal  `json:"unitPrice"`
	Length          *decimal.Decimal `json:"length,omitempty"`
	Width           *decimal.Decimal `json:"width,omitempty"`
	Height          *decimal.Decimal `json:"height,omitempty"`
	Measurement     *decimal.Decimal `json:"measurement,omitempty"`
	MeasurementUnit MeasurementUnit  `json:"measurementUnit,omitempty" validate:"omitempty,oneof=m m2 m3"`
	Weight          *decimal.Decimal `json:"weight,omitempty"`
	DisplayOrder    int              `json:"displayOrder,omitempty"`
}

// UpsertBudgetItemRequest carries an optional ID: present means update the
// existing row, absent means create. Rows omitted from a replacement set are
// deleted.
type UpsertBudgetItemRequest struct {
	ID *uuid.UUID `json:"id,omitempty"`
	CreateBudgetItemRequest
}

type UpdateBudgetItemRequest struct {
	Name            *string          `json:"name,omitempty" validate:"omitempty,max=200"`
	Description     *string          `json:"description,omitempty"`
	Quantity        *int             `json:"quantity,omitempty" validate:"omitempty,min=1"`
	UnitPrice       *decimal.Decimal `json:"unitPrice,omitempty"`
	Length          *decimal.Decimal `json:"length,omitempty"`
	Width           *decimal.Decimal `json:"width,omitempty"`
	Height          *decimal.Decimal `json:"height,omitempty"`
	Measurement     *decimal.Decimal `json:"measurement,omitempty"`
	MeasurementUnit *MeasurementUnit `json:"measurementUnit,omitempty" validate:"omitempty,oneof=m m2 m3"`
	Weight          *decimal.Decimal `json:"weight,omitempty"`
	DisplayOrder    *int             `json:"displayOrder,omitempty"`
}

// ApprovalDecisionRequest is what the client submits from the public link.
// ApprovedItemIDs only matters for an approval; IDs listed stay approved,
// everything else on the budget is marked excluded.
type ApprovalDecisionRequest struct {
	Decision        ApprovalStatus `json:"decision" validate:"required,oneof=approved rejected"`
	ApprovedItemIDs []uuid.UUID    `json:"approvedItemIds,omitempty"`
	ClientNotes     string         `json:"clientNotes,omitempty" validate:"omitempty,max=2000"`
}

type CalculateFreightRequest struct {
	UrgencyID  *uuid.UUID       `json:"urgencyId,omitempty"`
	DistanceKm *decimal.Decimal `json:"distanceKm,omitempty"`
	Persist    bool             `json:"persist,omitempty"`
}

// FreightPreviewRow is one hypothetical line in a what-if computation
type FreightPreviewRow struct {
	Quantity        int              `json:"quantity" validate:"required,min=1"`
	Weight          *decimal.Decimal `json:"weight,omitempty"`
	Length          *decimal.Decimal `json:"length,omitempty"`
	Width           *decimal.Decimal `json:"width,omitempty"`
	Height          *decimal.Decimal `json:"height,omitempty"`
	Measurement     *decimal.Decimal `json:"measurement,omitempty"`
	MeasurementUnit MeasurementUnit  `json:"measurementUnit,omitempty" validate:"omitempty,oneof=m m2 m3"`
	UnitPrice       *decimal.Decimal `json:"unitPrice,omitempty"`
}

type FreightPreviewRequest struct {
	Rows []FreightPreviewRow `json:"rows" validate:"required,min=1,dive"`
	// RunningTotal is the client's not-yet-persisted budget total, used for
	// the percentage component; when absent it is derived from row prices
	RunningTotal *decimal.Decimal `json:"runningTotal,omitempty"`
	UrgencyID    *uuid.UUID       `json:"urgencyId,omitempty"`
	DistanceKm   *decimal.Decimal `json:"distanceKm,omitempty"`
}

type UpdateFreightSettingsRequest struct {
	FixedDeliveryFee    *decimal.Decimal `json:"fixedDeliveryFee,omitempty"`
	PercentageOnTotal   *decimal.Decimal `json:"percentageOnTotal,omitempty"`
	DistanceRateEnabled *bool            `json:"distanceRateEnabled,omitempty"`
	DistanceRatePerKm   *decimal.Decimal `json:"distanceRatePerKm,omitempty"`
	CalculationMode     *CalculationMode `json:"calculationMode,omitempty" validate:"omitempty,oneof=max sum weight volume"`
}

type CreateRangeRequest struct {
	Label        string           `json:"label" validate:"required,max=100"`
	Min          decimal.Decimal  `json:"min"`
	Max          *decimal.Decimal `json:"max,omitempty"`
	Rate         decimal.Decimal  `json:"rate"`
	RateType     RateType         `json:"rateType" validate:"required,oneof=fixed per_unit"`
	DisplayOrder int              `json:"displayOrder,omitempty"`
}

type UpdateRangeRequest struct {
	Label        *string          `json:"label,omitempty" validate:"omitempty,max=100"`
	Min          *decimal.Decimal `json:"min,omitempty"`
	Max          *decimal.Decimal `json:"max,omitempty"`
	Rate         *decimal.Decimal `json:"rate,omitempty"`
	RateType     *RateType        `json:"rateType,omitempty" validate:"omitempty,oneof=fixed per_unit"`
	DisplayOrder *int             `json:"displayOrder,omitempty"`
}

type CreateUrgencyRequest struct {
	Label       string          `json:"label" validate:"required,max=100"`
	Description string          `json:"description,omitempty" validate:"omitempty,max=500"`
	Multiplier  decimal.Decimal `json:"multiplier"`
	IsDefault   bool            `json:"isDefault,omitempty"`
}

type UpdateUrgencyRequest struct {
	Label       *string          `json:"label,omitempty" validate:"omitempty,max=100"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=500"`
	Multiplier  *decimal.Decimal `json:"multiplier,omitempty"`
	IsDefault   *bool            `json:"isDefault,omitempty"`
}

type UpdateServiceOrderStatusRequest struct {
	Status ExecutionStatus `json:"status" validate:"required,oneof=pending in_progress completed cancelled"`
}

type UpdateServiceOrderItemStatusRequest struct {
	Status ExecutionStatus `json:"status" validate:"required,oneof=pending in_progress completed cancelled"`
}
