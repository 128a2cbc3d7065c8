// internal/services/contact_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/procurex/orders-backend/internal/models"
	"github.com/procurex/orders-backend/internal/utils"
)

// maxContactsPerUser caps the address book size.
const maxContactsPerUser = 5

type ContactService struct {
	db *gorm.DB
}

type ContactRequest struct {
	City      string `json:"city" validate:"required,max=50"`
	Street    string `json:"street" validate:"required,max=100"`
	House     string `json:"house" validate:"max=15"`
	Structure string `json:"structure" validate:"max=15"`
	Building  string `json:"building" validate:"max=15"`
	Apartment string `json:"apartment" validate:"max=15"`
	Phone     string `json:"phone" validate:"required,max=20"`
}

func NewContactService(db *gorm.DB) *ContactService {
	return &ContactService{db: db}
}

func (s *ContactService) ListContacts(userID uuid.UUID) ([]models.Contact, error) {
	var contacts []models.Contact
	if err := s.db.
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return contacts, nil
}

func (s *ContactService) CreateContact(userID uuid.UUID, req *ContactRequest) (*models.Contact, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var count int64
	if err := s.db.Model(&models.Contact{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count >= maxContactsPerUser {
		return nil, fmt.Errorf("contact limit of %d reached: %w", maxContactsPerUser, ErrConflict)
	}

	contact := &models.Contact{
		UserID:    userID,
		City:      req.City,
		Street:    req.Street,
		House:     req.House,
		Structure: req.Structure,
		Building:  req.Building,
		Apartment: req.Apartment,
		Phone:     req.Phone,
	}
	if err := s.db.Create(contact).Error; err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return contact, nil
}

func (s *ContactService) UpdateContact(userID, contactID uuid.UUID, req *ContactRequest) (*models.Contact, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	contact, err := s.findOwnedContact(userID, contactID)
	if err != nil {
		return nil, err
	}

	contact.City = req.City
	contact.Street = req.Street
	contact.House = req.House
	contact.Structure = req.Structure
	contact.Building = req.Building
	contact.Apartment = req.Apartment
	contact.Phone = req.Phone

	if err := s.db.Save(contact).Error; err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}
	return contact, nil
}

func (s *ContactService) DeleteContact(userID, contactID uuid.UUID) error {
	contact, err := s.findOwnedContact(userID, contactID)
	if err != nil {
		return err
	}
	return s.db.Delete(contact).Error
}

func (s *ContactService) findOwnedContact(userID, contactID uuid.UUID) (*models.Contact, error) {
	var contact models.Contact
	err := s.db.Where("id = ? AND user_id = ?", contactID, userID).First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("contact: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &contact, nil
}
