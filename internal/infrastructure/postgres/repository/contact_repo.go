package repository

import (
	"context"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultContactRepository struct {
	DB *gorm.DB
}

func NewDefaultContactRepository(db *gorm.DB) *DefaultContactRepository {
	return &DefaultContactRepository{DB: db}
}

func (r *DefaultContactRepository) GetCustomerContact(ctx context.Context, customerID string) (*domain.Contact, error) {
	var m models.CustomerModel
	if err := r.DB.WithContext(ctx).First(&m, "id = ?", customerID).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, storeErr("get customer", err)
	}
	return mappers.ToDomainContact(m.ID, m.Name, m.WhatsappNumber), nil
}

func (r *DefaultContactRepository) GetSpecialistContact(ctx context.Context, specialistID string) (*domain.Contact, error) {
	var m models.SpecialistModel
	if err := r.DB.WithContext(ctx).First(&m, "id = ?", specialistID).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrSpecialistNotFound
		}
		return nil, storeErr("get specialist", err)
	}
	return mappers.ToDomainContact(m.ID, m.Name, m.WhatsappNumber), nil
}
