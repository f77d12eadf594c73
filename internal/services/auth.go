package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dcodingdev/gearguard/internal/dto"
	"github.com/dcodingdev/gearguard/internal/entities"
	"github.com/dcodingdev/gearguard/internal/repositories"
	"github.com/dcodingdev/gearguard/pkg/constants"
	apperrors "github.com/dcodingdev/gearguard/pkg/errors"
	"github.com/dcodingdev/gearguard/pkg/service"
	"github.com/dcodingdev/gearguard/pkg/utils"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, data dto.LoginDTO) (*dto.AuthResponseDTO, error)
	Register(ctx context.Context, data dto.RegisterDTO) (*dto.AuthResponseDTO, error)
	Me(ctx context.Context) (*dto.UserPublicDTO, error)
	GetTokenTTL() time.Duration
}

type AuthService struct {
	userRepo   repositories.UserRepositoryInterface
	jwtService service.JWTService
	clock      func() time.Time
	logger     *zap.Logger
}

func NewAuthService(userRepo repositories.UserRepositoryInterface, jwtService service.JWTService, logger *zap.Logger) AuthServiceInterface {
	return &AuthService{userRepo: userRepo, jwtService: jwtService, clock: time.Now, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, data dto.LoginDTO) (*dto.AuthResponseDTO, error) {
	user, err := s.userRepo.FindByEmail(ctx, data.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Debug("login for unknown email", zap.String("email", data.Email))
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := utils.ComparePasswords(user.Password, data.Password); err != nil {
		s.logger.Debug("login with wrong password", zap.String("user_id", user.ID))
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}
	return s.issue(user)
}

// Register creates an active technician account and signs it in.
func (s *AuthService) Register(ctx context.Context, data dto.RegisterDTO) (*dto.AuthResponseDTO, error) {
	hash, err := utils.HashPassword(data.Password)
	if err != nil {
		return nil, err
	}
	now := s.clock().UTC()
	user := &entities.User{
		ID:        utils.NewID(),
		Email:     strings.ToLower(strings.TrimSpace(data.Email)),
		Name:      data.Name,
		Password:  hash,
		Role:      constants.RoleTechnician,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.userRepo.FindByEmail(ctx, user.Email); err == nil {
		return nil, apperrors.ErrAlreadyExists
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, nil, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return s.issue(user)
}

func (s *AuthService) Me(ctx context.Context) (*dto.UserPublicDTO, error) {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, nil, actor.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	res := ToUserPublicDTO(user)
	return &res, nil
}

func (s *AuthService) GetTokenTTL() time.Duration {
	return s.jwtService.GetAccessTokenTTL()
}

func (s *AuthService) issue(user *entities.User) (*dto.AuthResponseDTO, error) {
	token, err := s.jwtService.GenerateToken(ActorFromUser(user))
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponseDTO{AccessToken: token, User: ToUserPublicDTO(user)}, nil
}

// ActorFromUser is the identity carried in tokens issued for user.
func ActorFromUser(user *entities.User) dto.Actor {
	return dto.Actor{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
		TeamID: user.TeamID,
	}
}
