// internal/services/identity_service_test.go
package services

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/agritrace/agritrace-backend/internal/models"
)

type IdentityServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *IdentityService
}

func (s *IdentityServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.service = NewIdentityService(s.db, newTestConfig())
}

func (s *IdentityServiceTestSuite) TestRegisterAndAuthenticateRoundTrip() {
	resp, err := s.service.Register(&RegisterRequest{
		Role:   models.RoleFarmer,
		Name:   "Asha",
		Phone:  "111",
		Origin: "Nashik",
	})
	s.Require().NoError(err)
	s.Require().NotNil(resp.Participant)
	s.NotEmpty(resp.AccessToken)
	s.NotEmpty(resp.RefreshToken)
	s.Equal("Bearer", resp.TokenType)
	s.Require().NotNil(resp.Participant.Origin)
	s.Equal("Nashik", *resp.Participant.Origin)

	authed, err := s.service.Authenticate(&LoginRequest{Phone: "111", Role: models.RoleFarmer})
	s.Require().NoError(err)
	s.Equal(resp.Participant.ID, authed.Participant.ID)
	s.Equal(resp.Participant.Name, authed.Participant.Name)
}

func (s *IdentityServiceTestSuite) TestDuplicatePhoneAcrossRoles() {
	_, err := s.service.Register(&RegisterRequest{
		Role: models.RoleDistributor, Name: "Dinesh", Phone: "555",
	})
	s.Require().NoError(err)

	// Same phone under a different role is still a conflict
	_, err = s.service.Register(&RegisterRequest{
		Role: models.RoleRetailer, Name: "Rekha", Phone: "555",
	})
	s.Require().Error(err)
	s.True(errors.Is(err, ErrDuplicatePhone))
}

func (s *IdentityServiceTestSuite) TestDuplicatePhoneDetectedByConstraint() {
	// Insert the competing row directly, as a concurrent registration would,
	// so the duplicate is only visible to the unique index.
	existing := &models.Participant{
		Role: models.RoleFarmer, Name: "Asha", Phone: "666",
	}
	s.Require().NoError(s.db.Create(existing).Error)

	_, err := s.service.Register(&RegisterRequest{
		Role: models.RoleDistributor, Name: "Dinesh", Phone: "666",
	})
	s.Require().Error(err)
	s.True(errors.Is(err, ErrDuplicatePhone))
}

func (s *IdentityServiceTestSuite) TestAuthenticateIsScopedToRole() {
	_, err := s.service.Register(&RegisterRequest{
		Role: models.RoleFarmer, Name: "Asha", Phone: "111", Origin: "Nashik",
	})
	s.Require().NoError(err)

	// Right phone, wrong role: identity is the phone+role pair
	_, err = s.service.Authenticate(&LoginRequest{Phone: "111", Role: models.RoleDistributor})
	s.Require().Error(err)
	s.True(errors.Is(err, ErrParticipantNotFound))
}

func (s *IdentityServiceTestSuite) TestOriginRequiredOnlyForFarmers() {
	_, err := s.service.Register(&RegisterRequest{
		Role: models.RoleFarmer, Name: "Asha", Phone: "111",
	})
	s.Require().Error(err)
	var validationErrs validator.ValidationErrors
	s.True(errors.As(err, &validationErrs))

	resp, err := s.service.Register(&RegisterRequest{
		Role: models.RoleDistributor, Name: "Dinesh", Phone: "222",
	})
	s.Require().NoError(err)
	s.Nil(resp.Participant.Origin)
}

func (s *IdentityServiceTestSuite) TestRegisterRejectsInvalidRole() {
	_, err := s.service.Register(&RegisterRequest{
		Role: models.Role("wholesaler"), Name: "Nobody", Phone: "333",
	})
	s.Require().Error(err)
	var validationErrs validator.ValidationErrors
	s.True(errors.As(err, &validationErrs))
}

func (s *IdentityServiceTestSuite) TestListByRole() {
	_, err := s.service.Register(&RegisterRequest{
		Role: models.RoleFarmer, Name: "Asha", Phone: "111", Origin: "Nashik",
	})
	s.Require().NoError(err)
	_, err = s.service.Register(&RegisterRequest{
		Role: models.RoleDistributor, Name: "Dinesh", Phone: "222",
	})
	s.Require().NoError(err)
	_, err = s.service.Register(&RegisterRequest{
		Role: models.RoleDistributor, Name: "Deepa", Phone: "333",
	})
	s.Require().NoError(err)

	distributors, err := s.service.ListByRole(models.RoleDistributor)
	s.Require().NoError(err)
	s.Len(distributors, 2)
	s.Equal("Dinesh", distributors[0].Name)
	s.Equal("Deepa", distributors[1].Name)

	retailers, err := s.service.ListByRole(models.RoleRetailer)
	s.Require().NoError(err)
	s.Empty(retailers)
}

func (s *IdentityServiceTestSuite) TestRefreshSession() {
	resp, err := s.service.Register(&RegisterRequest{
		Role: models.RoleRetailer, Name: "Rekha", Phone: "444",
	})
	s.Require().NoError(err)

	refreshed, err := s.service.RefreshSession(resp.RefreshToken)
	s.Require().NoError(err)
	s.Equal(resp.Participant.ID, refreshed.Participant.ID)
	s.NotEmpty(refreshed.AccessToken)
}

func TestIdentityServiceSuite(t *testing.T) {
	suite.Run(t, new(IdentityServiceTestSuite))
}
