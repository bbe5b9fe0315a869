package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/entries-go/internal/domain/entry"
)

// GormEntryRepository implements EntryRepository using GORM
type GormEntryRepository struct {
	db *gorm.DB
}

// NewGormEntryRepository creates a new GORM entry repository
func NewGormEntryRepository(db *gorm.DB) *GormEntryRepository {
	return &GormEntryRepository{db: db}
}

// Create persists a new entry
func (r *GormEntryRepository) Create(ctx context.Context, e *entry.Entry) error {
	model := entryToModel(e)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to create entry: %w", result.Error)
	}

	return nil
}

// FindByID retrieves an entry by its ID
func (r *GormEntryRepository) FindByID(ctx context.Context, id entry.EntryID) (*entry.Entry, error) {
	var model EntryModel
	result := r.db.WithContext(ctx).
		Where("id = ?", id.String()).
		First(&model)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, entry.ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to find entry: %w", result.Error)
	}

	return modelToEntry(&model)
}

// List retrieves entries newest first
func (r *GormEntryRepository) List(ctx context.Context, opts entry.ListOptions) ([]*entry.Entry, error) {
	query := r.db.WithContext(ctx)

	if opts.ID != nil {
		query = query.Where("id = ?", opts.ID.String())
	}

	query = query.Order("date DESC").Order("id ASC")

	// Apply pagination
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	var models []EntryModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	// Convert models to domain entities
	entries := make([]*entry.Entry, len(models))
	for i := range models {
		e, err := modelToEntry(&models[i])
		if err != nil {
			return nil, fmt.Errorf("failed to convert entry model: %w", err)
		}
		entries[i] = e
	}

	return entries, nil
}

// Update overwrites all mutable columns of an entry
func (r *GormEntryRepository) Update(ctx context.Context, e *entry.Entry) (int64, error) {
	model := entryToModel(e)

	result := r.db.WithContext(ctx).
		Model(&EntryModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"title":       model.Title,
			"amount":      model.Amount,
			"description": model.Description,
			"date":        model.Date,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update entry: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// Delete removes an entry
func (r *GormEntryRepository) Delete(ctx context.Context, id entry.EntryID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ?", id.String()).
		Delete(&EntryModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete entry: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// modelToEntry converts database model to domain entity
func modelToEntry(model *EntryModel) (*entry.Entry, error) {
	id, err := entry.ParseEntryID(model.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid entry ID in database: %w", err)
	}

	description := ""
	if model.Description != nil {
		description = *model.Description
	}

	return entry.ReconstructEntry(id, model.Title, model.Amount, description, model.Date), nil
}

// entryToModel converts domain entity to database model
func entryToModel(e *entry.Entry) *EntryModel {
	var description *string
	if d := e.Description(); d != "" {
		description = &d
	}

	return &EntryModel{
		ID:          e.ID().String(),
		Title:       e.Title(),
		Amount:      e.Amount(),
		Description: description,
		Date:        e.Date().UTC(),
	}
}
