package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pharmaline/pos-api/internal/domain/entity"
	"github.com/pharmaline/pos-api/internal/domain/repository"
	"github.com/pharmaline/pos-api/pkg/apperror"
)

// StoreService handles store profile and settings
type StoreService struct {
	storeRepo repository.StoreRepository
}

// NewStoreService creates a new store service
func NewStoreService(storeRepo repository.StoreRepository) *StoreService {
	return &StoreService{storeRepo: storeRepo}
}

// GetStore retrieves a store by ID
func (s *StoreService) GetStore(ctx context.Context, id uuid.UUID) (*entity.Store, error) {
	store, err := s.storeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, apperror.NewNotFoundError("Store")
	}
	return store, nil
}

// UpdateSettingsInput represents the settings fields that can change
type UpdateSettingsInput struct {
	Address       *string
	Phone         *string
	TaxID         *string
	Currency      *string
	Timezone      *string
	ReceiptFooter *string
}

// UpdateSettings merges the given fields into the store's settings
func (s *StoreService) UpdateSettings(ctx context.Context, id uuid.UUID, input *UpdateSettingsInput) (*entity.Store, error) {
	store, err := s.storeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, apperror.NewNotFoundError("Store")
	}

	settings := store.Settings
	if input.Address != nil {
		settings.Address = *input.Address
	}
	if input.Phone != nil {
		settings.Phone = *input.Phone
	}
	if input.TaxID != nil {
		settings.TaxID = *input.TaxID
	}
	if input.Currency != nil {
		settings.Currency = *input.Currency
	}
	if input.Timezone != nil {
		settings.Timezone = *input.Timezone
	}
	if input.ReceiptFooter != nil {
		settings.ReceiptFooter = *input.ReceiptFooter
	}

	if err := s.storeRepo.UpdateSettings(ctx, id, settings); err != nil {
		return nil, err
	}
	store.Settings = settings
	return store, nil
}
