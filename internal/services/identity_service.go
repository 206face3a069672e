// internal/services/identity_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agritrace/agritrace-backend/internal/config"
	"github.com/agritrace/agritrace-backend/internal/models"
	"github.com/agritrace/agritrace-backend/internal/utils"
)

// IdentityService owns participant registration and phone+role authentication.
// There is no password: the original system identifies callers by the
// phone+role pair alone, and the session is the issued bearer token.
type IdentityService struct {
	db  *gorm.DB
	cfg *config.Config
}

type RegisterRequest struct {
	Role  models.Role `json:"role" validate:"required,role"`
	Name  string      `json:"name" validate:"required,min=2,max=100"`
	Phone string      `json:"phone" validate:"required,phone"`
	// Origin is the farm location; required for farmers, ignored for everyone else.
	Origin string `json:"origin,omitempty" validate:"required_if=Role farmer,omitempty,max=255"`
}

type LoginRequest struct {
	Phone string      `json:"phone" validate:"required,phone"`
	Role  models.Role `json:"role" validate:"required,role"`
}

type AuthResponse struct {
	Participant  *models.Participant `json:"participant"`
	AccessToken  string              `json:"access_token"`
	RefreshToken string              `json:"refresh_token"`
	TokenType    string              `json:"token_type"`
	ExpiresIn    int                 `json:"expires_in"` // in seconds
}

func NewIdentityService(db *gorm.DB, cfg *config.Config) *IdentityService {
	return &IdentityService{
		db:  db,
		cfg: cfg,
	}
}

// Register creates a participant and opens a session for it. The phone number
// must be unique across all roles.
func (s *IdentityService) Register(req *RegisterRequest) (*AuthResponse, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	participant := &models.Participant{
		Role:  req.Role,
		Name:  req.Name,
		Phone: req.Phone,
	}
	if req.Role == models.RoleFarmer {
		origin := req.Origin
		participant.Origin = &origin
	}

	// Uniqueness is keyed on the phone alone, not phone+role. The unique
	// index is the authority, so concurrent registrations of the same phone
	// also surface as a duplicate instead of a constraint error.
	if err := s.db.Create(participant).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicatePhone
		}
		return nil, fmt.Errorf("failed to create participant: %w", err)
	}

	return s.issueSession(participant)
}

// Authenticate looks a participant up by phone AND role. A phone registered
// under a different role does not match; identity is scoped to the pair.
func (s *IdentityService) Authenticate(req *LoginRequest) (*AuthResponse, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var participant models.Participant
	if err := s.db.Where("phone = ? AND role = ?", req.Phone, req.Role).First(&participant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return s.issueSession(&participant)
}

// RefreshSession exchanges a valid refresh token for a new token pair.
func (s *IdentityService) RefreshSession(refreshToken string) (*AuthResponse, error) {
	participantIDStr, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	participantID, err := uuid.Parse(participantIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid participant ID in token: %w", err)
	}

	participant, err := s.GetParticipant(participantID)
	if err != nil {
		return nil, err
	}

	return s.issueSession(participant)
}

func (s *IdentityService) GetParticipant(id uuid.UUID) (*models.Participant, error) {
	var participant models.Participant
	if err := s.db.First(&participant, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &participant, nil
}

// ListByRole returns all participants holding the given role, oldest first.
// The transfer form uses this to offer the recipients of the next stage.
func (s *IdentityService) ListByRole(role models.Role) ([]models.Participant, error) {
	var participants []models.Participant
	if err := s.db.Where("role = ?", role).Order("created_at ASC").Find(&participants).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return participants, nil
}

func (s *IdentityService) issueSession(participant *models.Participant) (*AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(
		participant.ID,
		participant.Name,
		string(participant.Role),
		s.cfg.JWT.AccessTokenTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(participant.ID, s.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		Participant:  participant,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.cfg.JWT.AccessTokenTTL * 3600, // Convert hours to seconds
	}, nil
}
