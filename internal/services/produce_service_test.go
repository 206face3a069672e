// internal/services/produce_service_test.go
package services

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/agritrace/agritrace-backend/internal/models"
	"github.com/agritrace/agritrace-backend/internal/utils"
)

type ProduceServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *ProduceService

	farmer      *models.Participant
	distributor *models.Participant
	retailer    *models.Participant
}

func (s *ProduceServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	cfg := newTestConfig()
	s.service = NewProduceService(s.db, cfg)

	identity := NewIdentityService(s.db, cfg)
	s.farmer = s.register(identity, models.RoleFarmer, "Asha", "111", "Nashik")
	s.distributor = s.register(identity, models.RoleDistributor, "Dinesh", "222", "")
	s.retailer = s.register(identity, models.RoleRetailer, "Rekha", "333", "")
}

func (s *ProduceServiceTestSuite) register(identity *IdentityService, role models.Role, name, phone, origin string) *models.Participant {
	resp, err := identity.Register(&RegisterRequest{
		Role:   role,
		Name:   name,
		Phone:  phone,
		Origin: origin,
	})
	s.Require().NoError(err)
	return resp.Participant
}

func (s *ProduceServiceTestSuite) registerTomatoes() *models.ProduceRecord {
	record, err := s.service.RegisterProduce(s.farmer.ID, &RegisterProduceRequest{
		ProduceType: "Tomatoes",
		Quality:     models.QualityGradeA,
		Price:       10,
	})
	s.Require().NoError(err)
	return record
}

func (s *ProduceServiceTestSuite) TestRegisterProduceWritesGenesisEntry() {
	record := s.registerTomatoes()

	s.Equal(s.farmer.ID, record.ProducerID)
	s.Equal(s.farmer.ID, record.CurrentOwnerID)
	s.Equal("Tomatoes", record.ProduceType)
	s.Equal("Nashik", record.OriginLocation)
	s.Equal(10.0, record.Price)

	s.Require().Len(record.History, 1)
	genesis := record.History[0]
	s.Nil(genesis.FromParticipantID)
	s.Equal(s.farmer.ID, genesis.ToParticipantID)
	s.Equal(10.0, genesis.Price)
	s.Equal(models.GenesisDetails, genesis.Details)
}

func (s *ProduceServiceTestSuite) TestRegisterProduceAssignsIncreasingIDs() {
	first := s.registerTomatoes()
	second, err := s.service.RegisterProduce(s.farmer.ID, &RegisterProduceRequest{
		ProduceType: "Onions",
		Quality:     models.QualityStandard,
		Price:       4,
	})
	s.Require().NoError(err)
	s.Greater(second.ID, first.ID)
}

func (s *ProduceServiceTestSuite) TestRegisterProduceRejectsNonFarmers() {
	_, err := s.service.RegisterProduce(s.distributor.ID, &RegisterProduceRequest{
		ProduceType: "Tomatoes",
		Quality:     models.QualityGradeA,
		Price:       10,
	})
	s.Require().Error(err)
	s.True(errors.Is(err, ErrNotFarmer))
}

func (s *ProduceServiceTestSuite) TestRegisterProduceRejectsUnknownProducer() {
	_, err := s.service.RegisterProduce(uuid.New(), &RegisterProduceRequest{
		ProduceType: "Tomatoes",
		Quality:     models.QualityGradeA,
		Price:       10,
	})
	s.Require().Error(err)
	s.True(errors.Is(err, ErrParticipantNotFound))
}

func (s *ProduceServiceTestSuite) TestRegisterProduceRejectsNonPositivePrice() {
	_, err := s.service.RegisterProduce(s.farmer.ID, &RegisterProduceRequest{
		ProduceType: "Tomatoes",
		Quality:     models.QualityGradeA,
		Price:       0,
	})
	s.Require().Error(err)
	var validationErrs validator.ValidationErrors
	s.True(errors.As(err, &validationErrs))

	// Nothing was written
	var count int64
	s.Require().NoError(s.db.Model(&models.ProduceRecord{}).Count(&count).Error)
	s.Zero(count)
}

func (s *ProduceServiceTestSuite) TestTransferOwnership() {
	record := s.registerTomatoes()

	transferred, err := s.service.TransferOwnership(record.ID, s.farmer.ID, &TransferRequest{
		ToParticipantID: s.distributor.ID,
		NewPrice:        12,
		Details:         "Picked up at farm gate",
	})
	s.Require().NoError(err)

	s.Equal(s.distributor.ID, transferred.CurrentOwnerID)
	s.Equal(12.0, transferred.Price)
	s.Equal(s.farmer.ID, transferred.ProducerID)
	s.Equal("Nashik", transferred.OriginLocation)

	s.Require().Len(transferred.History, 2)
	entry := transferred.History[1]
	s.Require().NotNil(entry.FromParticipantID)
	s.Equal(s.farmer.ID, *entry.FromParticipantID)
	s.Equal(s.distributor.ID, entry.ToParticipantID)
	s.Equal(12.0, entry.Price)
	s.Equal("Picked up at farm gate", entry.Details)
}

func (s *ProduceServiceTestSuite) TestTransferByPreviousOwnerFails() {
	record := s.registerTomatoes()

	_, err := s.service.TransferOwnership(record.ID, s.farmer.ID, &TransferRequest{
		ToParticipantID: s.distributor.ID,
		NewPrice:        12,
		Details:         "Picked up at farm gate",
	})
	s.Require().NoError(err)

	// The farmer no longer owns the record; a second transfer must fail
	// and leave the ledger untouched.
	_, err = s.service.TransferOwnership(record.ID, s.farmer.ID, &TransferRequest{
		ToParticipantID: s.retailer.ID,
		NewPrice:        20,
		Details:         "Attempted double spend",
	})
	s.Require().Error(err)
	s.True(errors.Is(err, ErrNotCurrentOwner))

	current, err := s.service.GetProduce(record.ID)
	s.Require().NoError(err)
	s.Equal(s.distributor.ID, current.CurrentOwnerID)
	s.Equal(12.0, current.Price)
	s.Len(current.History, 2)
}

func (s *ProduceServiceTestSuite) TestStaleOwnerCannotForkProvenance() {
	record := s.registerTomatoes()

	_, err := s.service.TransferOwnership(record.ID, s.farmer.ID, &TransferRequest{
		ToParticipantID: s.distributor.ID,
		NewPrice:        12,
		Details:         "Picked up at farm gate",
	})
	s.Require().NoError(err)

	// A second transfer issued with the farmer's stale view of ownership must
	// not append a second entry originating from the farmer.
	_, err = s.service.TransferOwnership(record.ID, s.farmer.ID, &TransferRequest{
		ToParticipantID: s.retailer.ID,
		NewPrice:        14,
		Details:         "Stale handoff",
	})
	s.Require().Error(err)
	s.True(errors.Is(err, ErrNotCurrentOwner))

	history, err := s.service.GetHistory(record.ID)
	s.Require().NoError(err)
	fromFarmer := 0
	for _, entry := range history {
		if entry.FromParticipantID != nil && *entry.FromParticipantID == s.farmer.ID {
			fromFarmer++
		}
	}
	s.Equal(1, fromFarmer)

	current, err := s.service.GetProduce(record.ID)
	s.Require().NoError(err)
	s.Equal(s.distributor.ID, current.CurrentOwnerID)
}

func (s *ProduceServiceTestSuite) TestTransferToUnknownParticipantFails() {
	record := s.registerTomatoes()

	_, err := s.service.TransferOwnership(record.ID, s.farmer.ID, &TransferRequest{
		ToParticipantID: uuid.New(),
		NewPrice:        12,
		Details:         "Picked up at farm gate",
	})
	s.Require().Error(err)
	s.True(errors.Is(err, ErrParticipantNotFound))

	history, err := s.service.GetHistory(record.ID)
	s.Require().NoError(err)
	s.Len(history, 1)
}

func (s *ProduceServiceTestSuite) TestTransferUnknownProduceFails() {
	_, err := s.service.TransferOwnership(9999, s.farmer.ID, &TransferRequest{
		ToParticipantID: s.distributor.ID,
		NewPrice:        12,
		Details:         "Picked up at farm gate",
	})
	s.Require().Error(err)
	s.True(errors.Is(err, ErrProduceNotFound))
}

func (s *ProduceServiceTestSuite) TestTransferEnforcesChainOrder() {
	record := s.registerTomatoes()

	// A farmer cannot skip the distributor stage
	_, err := s.service.TransferOwnership(record.ID, s.farmer.ID, &TransferRequest{
		ToParticipantID: s.retailer.ID,
		NewPrice:        12,
		Details:         "Direct to store",
	})
	s.Require().Error(err)
	s.True(errors.Is(err, ErrInvalidRecipientRole))

	current, err := s.service.GetProduce(record.ID)
	s.Require().NoError(err)
	s.Equal(s.farmer.ID, current.CurrentOwnerID)
	s.Len(current.History, 1)
}

func (s *ProduceServiceTestSuite) TestRetailerIsEndOfChain() {
	record := s.registerTomatoes()

	_, err := s.service.TransferOwnership(record.ID, s.farmer.ID, &TransferRequest{
		ToParticipantID: s.distributor.ID,
		NewPrice:        12,
		Details:         "Picked up at farm gate",
	})
	s.Require().NoError(err)
	_, err = s.service.TransferOwnership(record.ID, s.distributor.ID, &TransferRequest{
		ToParticipantID: s.retailer.ID,
		NewPrice:        15,
		Details:         "Delivered to store",
	})
	s.Require().NoError(err)

	_, err = s.service.TransferOwnership(record.ID, s.retailer.ID, &TransferRequest{
		ToParticipantID: s.distributor.ID,
		NewPrice:        8,
		Details:         "Return shipment",
	})
	s.Require().Error(err)
	s.True(errors.Is(err, ErrInvalidRecipientRole))
}

func (s *ProduceServiceTestSuite) TestChainOrderCanBeDisabled() {
	cfg := newTestConfig()
	cfg.Ledger.EnforceChainOrder = false
	service := NewProduceService(s.db, cfg)

	record := s.registerTomatoes()

	transferred, err := service.TransferOwnership(record.ID, s.farmer.ID, &TransferRequest{
		ToParticipantID: s.retailer.ID,
		NewPrice:        14,
		Details:         "Direct to store",
	})
	s.Require().NoError(err)
	s.Equal(s.retailer.ID, transferred.CurrentOwnerID)
}

func (s *ProduceServiceTestSuite) TestTransferValidationLeavesLedgerUnchanged() {
	record := s.registerTomatoes()

	_, err := s.service.TransferOwnership(record.ID, s.farmer.ID, &TransferRequest{
		ToParticipantID: s.distributor.ID,
		NewPrice:        12,
		Details:         "",
	})
	s.Require().Error(err)
	var validationErrs validator.ValidationErrors
	s.True(errors.As(err, &validationErrs))

	current, err := s.service.GetProduce(record.ID)
	s.Require().NoError(err)
	s.Equal(s.farmer.ID, current.CurrentOwnerID)
	s.Equal(10.0, current.Price)
	s.Len(current.History, 1)
}

func (s *ProduceServiceTestSuite) TestListOwnedBy() {
	first := s.registerTomatoes()
	second, err := s.service.RegisterProduce(s.farmer.ID, &RegisterProduceRequest{
		ProduceType: "Onions",
		Quality:     models.QualityStandard,
		Price:       4,
	})
	s.Require().NoError(err)

	_, err = s.service.TransferOwnership(first.ID, s.farmer.ID, &TransferRequest{
		ToParticipantID: s.distributor.ID,
		NewPrice:        12,
		Details:         "Picked up at farm gate",
	})
	s.Require().NoError(err)

	farmerOwned, err := s.service.ListOwnedBy(s.farmer.ID)
	s.Require().NoError(err)
	s.Require().Len(farmerOwned, 1)
	s.Equal(second.ID, farmerOwned[0].ID)

	distributorOwned, err := s.service.ListOwnedBy(s.distributor.ID)
	s.Require().NoError(err)
	s.Require().Len(distributorOwned, 1)
	s.Equal(first.ID, distributorOwned[0].ID)

	unknownOwned, err := s.service.ListOwnedBy(uuid.New())
	s.Require().NoError(err)
	s.Empty(unknownOwned)
}

func (s *ProduceServiceTestSuite) TestGetHistoryOrderedOldestFirst() {
	record := s.registerTomatoes()

	_, err := s.service.TransferOwnership(record.ID, s.farmer.ID, &TransferRequest{
		ToParticipantID: s.distributor.ID,
		NewPrice:        12,
		Details:         "Picked up at farm gate",
	})
	s.Require().NoError(err)
	_, err = s.service.TransferOwnership(record.ID, s.distributor.ID, &TransferRequest{
		ToParticipantID: s.retailer.ID,
		NewPrice:        15,
		Details:         "Delivered to store",
	})
	s.Require().NoError(err)

	history, err := s.service.GetHistory(record.ID)
	s.Require().NoError(err)
	s.Require().Len(history, 3)
	s.Equal(models.GenesisDetails, history[0].Details)
	s.Equal("Picked up at farm gate", history[1].Details)
	s.Equal("Delivered to store", history[2].Details)
	s.Equal(s.retailer.ID, history[2].ToParticipantID)
}

func (s *ProduceServiceTestSuite) TestGetHistoryUnknownProduce() {
	_, err := s.service.GetHistory(9999)
	s.Require().Error(err)
	s.True(errors.Is(err, ErrProduceNotFound))
}

func (s *ProduceServiceTestSuite) TestListProduceSearchAndPagination() {
	s.registerTomatoes()
	_, err := s.service.RegisterProduce(s.farmer.ID, &RegisterProduceRequest{
		ProduceType: "Onions",
		Quality:     models.QualityStandard,
		Price:       4,
	})
	s.Require().NoError(err)

	result, err := s.service.ListProduce(utils.PaginationParams{
		Page: 1, Limit: 10, Sort: "id", Order: "asc", Search: "Toma",
	})
	s.Require().NoError(err)
	s.Equal(int64(1), result.Total)

	records, ok := result.Data.([]models.ProduceRecord)
	s.Require().True(ok)
	s.Require().Len(records, 1)
	s.Equal("Tomatoes", records[0].ProduceType)
}

func TestProduceServiceSuite(t *testing.T) {
	suite.Run(t, new(ProduceServiceTestSuite))
}
