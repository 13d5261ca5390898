package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrProjectNotFound is returned when a project is not found
	ErrProjectNotFound = errors.New("project not found")

	// ErrBudgetNotFound is returned when a budget is not found
	ErrBudgetNotFound = errors.New("budget not found")

	// ErrBudgetItemNotFound is returned when a budget item is not found
	ErrBudgetItemNotFound = errors.New("budget item not found")

	// ErrBudgetNotEditable is returned when mutating a budget that left draft
	ErrBudgetNotEditable = errors.New("budget is no longer editable")

	// ErrBudgetNeedsItem is returned when removing the last item of a budget
	ErrBudgetNeedsItem = errors.New("budget must keep at least one item")

	// ErrBudgetAlreadyProcessed is returned when deciding a budget that
	// already carries a terminal approval state
	ErrBudgetAlreadyProcessed = errors.New("budget already processed")

	// ErrBudgetNotSendable is returned when sending a budget without items
	ErrBudgetNotSendable = errors.New("budget has no items to send")

	// ErrInvalidDecision is returned for a decision outside approved/rejected
	ErrInvalidDecision = errors.New("invalid approval decision")

	// ErrApprovedItemsRequired is returned when an approval excludes every item
	ErrApprovedItemsRequired = errors.New("approval must keep at least one item")

	// ErrSettingsExist is returned when creating freight settings a second time
	ErrSettingsExist = errors.New("freight settings already exist; edit the existing configuration instead")

	// ErrUrgencyNotFound is returned when an urgency multiplier is not found
	ErrUrgencyNotFound = errors.New("urgency multiplier not found")

	// ErrRangeNotFound is returned when a pricing band is not found
	ErrRangeNotFound = errors.New("pricing range not found")

	// ErrServiceOrderNotFound is returned when a service order is not found
	ErrServiceOrderNotFound = errors.New("service order not found")

	// ErrNegativeAmount is returned when a monetary or dimensional input is negative
	ErrNegativeAmount = errors.New("amount must not be negative")

	// ErrInvalidRange is returned when a band's max is not above its min
	ErrInvalidRange = errors.New("range max must be greater than min")
)
