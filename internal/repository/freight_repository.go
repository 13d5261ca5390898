package repository

import (
	"context"
	"errors"

	"github.com/eventis/budget-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FreightRepository handles database operations for freight configuration:
// the settings singleton, both range tables and urgency multipliers
type FreightRepository struct {
	db *gorm.DB
}

// NewFreightRepository creates a new FreightRepository instance
func NewFreightRepository(db *gorm.DB) *FreightRepository {
	return &FreightRepository{db: db}
}

// GetOrCreateSettings returns the settings row, creating it with defaults on
// first access. The row always has the fixed singleton ID.
func (r *FreightRepository) GetOrCreateSettings(ctx context.Context) (*domain.FreightSettings, error) {
	var settings domain.FreightSettings
	err := r.db.WithContext(ctx).Where("id = ?", domain.FreightSettingsID).First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	settings = domain.DefaultFreightSettings()
	if err := r.db.WithContext(ctx).Create(&settings).Error; err != nil {
		// Lost the race to another request; the row exists now
		var existing domain.FreightSettings
		if ferr := r.db.WithContext(ctx).Where("id = ?", domain.FreightSettingsID).First(&existing).Error; ferr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings saves the settings singleton
func (r *FreightRepository) UpdateSettings(ctx context.Context, settings *domain.FreightSettings) error {
	settings.ID = domain.FreightSettingsID
	return r.db.WithContext(ctx).Save(settings).Error
}

// ListWeightRanges returns the weight table in lookup order
func (r *FreightRepository) ListWeightRanges(ctx context.Context) ([]domain.WeightRange, error) {
	var ranges []domain.WeightRange
	err := r.db.WithContext(ctx).
		Order("display_order ASC, min_weight ASC").
		Find(&ranges).Error
	return ranges, err
}

// ListVolumeRanges returns the volume table in lookup order
func (r *FreightRepository) ListVolumeRanges(ctx context.Context) ([]domain.VolumeRange, error) {
	var ranges []domain.VolumeRange
	err := r.db.WithContext(ctx).
		Order("display_order ASC, min_volume ASC").
		Find(&ranges).Error
	return ranges, err
}

// CreateWeightRange inserts a weight band
func (r *FreightRepository) CreateWeightRange(ctx context.Context, band *domain.WeightRange) error {
	return r.db.WithContext(ctx).Create(band).Error
}

// GetWeightRange retrieves a weight band by ID
func (r *FreightRepository) GetWeightRange(ctx context.Context, id uuid.UUID) (*domain.WeightRange, error) {
	var band domain.WeightRange
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&band).Error; err != nil {
		return nil, err
	}
	return &band, nil
}

// UpdateWeightRange saves a weight band
func (r *FreightRepository) UpdateWeightRange(ctx context.Context, band *domain.WeightRange) error {
	return r.db.WithContext(ctx).Save(band).Error
}

// DeleteWeightRange removes a weight band
func (r *FreightRepository) DeleteWeightRange(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.WeightRange{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateVolumeRange inserts a volume band
func (r *FreightRepository) CreateVolumeRange(ctx context.Context, band *domain.VolumeRange) error {
	return r.db.WithContext(ctx).Create(band).Error
}

// GetVolumeRange retrieves a volume band by ID
func (r *FreightRepository) GetVolumeRange(ctx context.Context, id uuid.UUID) (*domain.VolumeRange, error) {
	var band domain.VolumeRange
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&band).Error; err != nil {
		return nil, err
	}
	return &band, nil
}

// UpdateVolumeRange saves a volume band
func (r *FreightRepository) UpdateVolumeRange(ctx context.Context, band *domain.VolumeRange) error {
	return r.db.WithContext(ctx).Save(band).Error
}

// DeleteVolumeRange removes a volume band
func (r *FreightRepository) DeleteVolumeRange(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.VolumeRange{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListUrgencies returns all urgency multipliers, default first
func (r *FreightRepository) ListUrgencies(ctx context.Context) ([]domain.UrgencyMultiplier, error) {
	var urgencies []domain.UrgencyMultiplier
	err := r.db.WithContext(ctx).
		Order("is_default DESC, label ASC").
		Find(&urgencies).Error
	return urgencies, err
}

// GetUrgency retrieves an urgency multiplier by ID
func (r *FreightRepository) GetUrgency(ctx context.Context, id uuid.UUID) (*domain.UrgencyMultiplier, error) {
	var urgency domain.UrgencyMultiplier
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&urgency).Error; err != nil {
		return nil, err
	}
	return &urgency, nil
}

// GetDefaultUrgency returns the multiplier flagged as default, or
// gorm.ErrRecordNotFound when none is configured
func (r *FreightRepository) GetDefaultUrgency(ctx context.Context) (*domain.UrgencyMultiplier, error) {
	var urgency domain.UrgencyMultiplier
	if err := r.db.WithContext(ctx).Where("is_default = ?", true).First(&urgency).Error; err != nil {
		return nil, err
	}
	return &urgency, nil
}

// CreateUrgency inserts an urgency multiplier, clearing any previous default
// when the new one is flagged
func (r *FreightRepository) CreateUrgency(ctx context.Context, urgency *domain.UrgencyMultiplier) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if urgency.IsDefault {
			if err := tx.Model(&domain.UrgencyMultiplier{}).
				Where("is_default = ?", true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(urgency).Error
	})
}

// UpdateUrgency saves an urgency multiplier with the same single-default rule
func (r *FreightRepository) UpdateUrgency(ctx context.Context, urgency *domain.UrgencyMultiplier) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if urgency.IsDefault {
			if err := tx.Model(&domain.UrgencyMultiplier{}).
				Where("is_default = ? AND id <> ?", true, urgency.ID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Save(urgency).Error
	})
}

// DeleteUrgency removes an urgency multiplier
func (r *FreightRepository) DeleteUrgency(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.UrgencyMultiplier{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetDefaultUrgency makes the given multiplier the sole default
func (r *FreightRepository) SetDefaultUrgency(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.UrgencyMultiplier{}).
			Where("is_default = ?", true).
			Update("is_default", false).Error; err != nil {
			return err
		}
		result := tx.Model(&domain.UrgencyMultiplier{}).
			Where("id = ?", id).
			Update("is_default", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
