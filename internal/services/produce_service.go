// internal/services/produce_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/agritrace/agritrace-backend/internal/config"
	"github.com/agritrace/agritrace-backend/internal/database"
	"github.com/agritrace/agritrace-backend/internal/models"
	"github.com/agritrace/agritrace-backend/internal/utils"
)

// ProduceService is the produce ledger: registration, ownership queries and
// the transfer operation. Every mutation runs inside a database transaction,
// so a record, its owner, its price and its provenance log can never drift
// apart.
type ProduceService struct {
	db  *gorm.DB
	cfg *config.Config
}

type RegisterProduceRequest struct {
	ProduceType string              `json:"produce_type" validate:"required,min=2,max=100"`
	Quality     models.QualityGrade `json:"quality" validate:"required,quality"`
	Price       float64             `json:"price" validate:"required,gt=0"`
}

type TransferRequest struct {
	ToParticipantID uuid.UUID `json:"to_participant_id" validate:"required"`
	NewPrice        float64   `json:"new_price" validate:"required,gt=0"`
	Details         string    `json:"details" validate:"required,min=1,max=1000"`
}

func NewProduceService(db *gorm.DB, cfg *config.Config) *ProduceService {
	return &ProduceService{
		db:  db,
		cfg: cfg,
	}
}

// RegisterProduce creates a new produce record owned by its producer and
// writes the genesis provenance entry in the same transaction. Only farmers
// may register produce; the origin location is taken from the farmer's
// registered origin, never from the request.
func (s *ProduceService) RegisterProduce(producerID uuid.UUID, req *RegisterProduceRequest) (*models.ProduceRecord, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var producer models.Participant
	if err := s.db.First(&producer, "id = ?", producerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if producer.Role != models.RoleFarmer {
		return nil, ErrNotFarmer
	}

	origin := ""
	if producer.Origin != nil {
		origin = *producer.Origin
	}

	record := &models.ProduceRecord{
		ProducerID:     producer.ID,
		ProduceType:    req.ProduceType,
		OriginLocation: origin,
		Quality:        req.Quality,
		Price:          req.Price,
		CurrentOwnerID: producer.ID,
		RegisteredAt:   time.Now(),
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("failed to create produce record: %w", err)
		}

		genesis := &models.Transfer{
			ProduceID:       record.ID,
			Timestamp:       record.RegisteredAt,
			ToParticipantID: producer.ID,
			Price:           req.Price,
			Details:         models.GenesisDetails,
		}
		if err := tx.Create(genesis).Error; err != nil {
			return fmt.Errorf("failed to create genesis entry: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetProduce(record.ID)
}

// ListOwnedBy returns every record currently owned by the given participant,
// in registration order. An unknown id yields an empty slice, not an error.
func (s *ProduceService) ListOwnedBy(ownerID uuid.UUID) ([]models.ProduceRecord, error) {
	var records []models.ProduceRecord
	err := s.withHistory(s.db).
		Where("current_owner_id = ?", ownerID).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return records, nil
}

// TransferOwnership moves a record to a new owner at a new price and appends
// a provenance entry. The three mutations commit together or not at all.
// Only the current owner may transfer, and with chain-order enforcement on,
// the recipient's role must be the successor of the current owner's role.
func (s *ProduceService) TransferOwnership(produceID uint64, fromParticipantID uuid.UUID, req *TransferRequest) (*models.ProduceRecord, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		// Lock the row so a concurrent transfer by the same owner blocks here
		// and re-reads the new owner instead of passing a stale check.
		var record models.ProduceRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&record, "id = ?", produceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProduceNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if record.CurrentOwnerID != fromParticipantID {
			return ErrNotCurrentOwner
		}

		var recipient models.Participant
		if err := tx.First(&recipient, "id = ?", req.ToParticipantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParticipantNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if s.cfg.Ledger.EnforceChainOrder {
			var owner models.Participant
			if err := tx.First(&owner, "id = ?", record.CurrentOwnerID).Error; err != nil {
				return fmt.Errorf("database error: %w", err)
			}
			next, ok := owner.Role.Successor()
			if !ok || recipient.Role != next {
				return ErrInvalidRecipientRole
			}
		}

		entry := &models.Transfer{
			ProduceID:         record.ID,
			Timestamp:         time.Now(),
			FromParticipantID: &fromParticipantID,
			ToParticipantID:   recipient.ID,
			Price:             req.NewPrice,
			Details:           req.Details,
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to append provenance entry: %w", err)
		}

		updates := map[string]interface{}{
			"current_owner_id": recipient.ID,
			"price":            req.NewPrice,
		}
		if err := tx.Model(&record).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update ownership: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetProduce(produceID)
}

// GetProduce returns one record with its full provenance history.
func (s *ProduceService) GetProduce(id uint64) (*models.ProduceRecord, error) {
	var record models.ProduceRecord
	err := s.withHistory(s.db).
		Preload("Producer").
		Preload("CurrentOwner").
		First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProduceNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &record, nil
}

// GetHistory returns the provenance log of one record, oldest first.
func (s *ProduceService) GetHistory(id uint64) ([]models.Transfer, error) {
	var count int64
	if err := s.db.Model(&models.ProduceRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count == 0 {
		return nil, ErrProduceNotFound
	}

	var history []models.Transfer
	if err := s.db.Where("produce_id = ?", id).Order("id ASC").Find(&history).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return history, nil
}

// ListProduce is the paginated catalog across all owners, used by the
// traceability views.
func (s *ProduceService) ListProduce(params utils.PaginationParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.ProduceRecord{})

	if params.Search != "" {
		query = query.Where("produce_type LIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	var records []models.ProduceRecord
	query = utils.ApplySort(query, params, []string{"id", "produce_type", "price", "registered_at"})
	query = utils.ApplyPagination(query, params)
	if err := query.Preload("CurrentOwner").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	result := utils.CreatePaginationResult(records, total, params)
	return &result, nil
}

func (s *ProduceService) withHistory(db *gorm.DB) *gorm.DB {
	return db.Preload("History", func(db *gorm.DB) *gorm.DB {
		return db.Order("transfers.id ASC")
	})
}
