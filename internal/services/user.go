package services

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/dcodingdev/gearguard/internal/authz"
	"github.com/dcodingdev/gearguard/internal/dto"
	"github.com/dcodingdev/gearguard/internal/entities"
	"github.com/dcodingdev/gearguard/internal/repositories"
	"github.com/dcodingdev/gearguard/pkg/constants"
	apperrors "github.com/dcodingdev/gearguard/pkg/errors"
	"github.com/dcodingdev/gearguard/pkg/types"
	"github.com/dcodingdev/gearguard/pkg/utils"
)

type UserServiceInterface interface {
	GetUsers(ctx context.Context, filter types.Filter) ([]dto.UserPublicDTO, uint64, error)
	FindUser(ctx context.Context, id string) (*dto.UserPublicDTO, error)
	CreateUser(ctx context.Context, data dto.CreateUserDTO) (*dto.UserPublicDTO, error)
	UpdateUser(ctx context.Context, id string, data dto.UpdateUserDTO) (*dto.UserPublicDTO, error)
	DeleteUser(ctx context.Context, id string) error
}

type UserService struct {
	txManager repositories.TxManagerInterface
	userRepo  repositories.UserRepositoryInterface
	activity  ActivityLoggerInterface
	clock     func() time.Time
	logger    *zap.Logger
}

func NewUserService(
	txManager repositories.TxManagerInterface,
	userRepo repositories.UserRepositoryInterface,
	activity ActivityLoggerInterface,
	logger *zap.Logger,
) UserServiceInterface {
	return &UserService{txManager: txManager, userRepo: userRepo, activity: activity, clock: time.Now, logger: logger}
}

func ToUserPublicDTO(u *entities.User) dto.UserPublicDTO {
	return dto.UserPublicDTO{
		ID:     u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   u.Role,
		TeamID: u.TeamID,
		Avatar: u.Avatar,
	}
}

func (s *UserService) GetUsers(ctx context.Context, filter types.Filter) ([]dto.UserPublicDTO, uint64, error) {
	if _, err := actorWith(ctx, authz.UsersView); err != nil {
		return nil, 0, err
	}
	users, total, err := s.userRepo.GetAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.UserPublicDTO, 0, len(users))
	for i := range users {
		out = append(out, ToUserPublicDTO(&users[i]))
	}
	return out, total, nil
}

// FindUser is allowed for the user themself and for roles that may view users.
func (s *UserService) FindUser(ctx context.Context, id string) (*dto.UserPublicDTO, error) {
	if _, err := selfOr(ctx, id, authz.UsersView); err != nil {
		return nil, err
	}
	u, err := s.userRepo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	res := ToUserPublicDTO(u)
	return &res, nil
}

func (s *UserService) CreateUser(ctx context.Context, data dto.CreateUserDTO) (*dto.UserPublicDTO, error) {
	actor, err := actorWith(ctx, authz.UsersCreate)
	if err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(data.Password)
	if err != nil {
		return nil, err
	}
	now := s.clock().UTC()
	u := entities.User{
		ID:        utils.NewID(),
		Email:     strings.ToLower(strings.TrimSpace(data.Email)),
		Name:      data.Name,
		Password:  hash,
		Role:      data.Role,
		TeamID:    data.TeamID.Ptr(),
		Avatar:    data.Avatar.Ptr(),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.userRepo.Create(ctx, tx, &u); err != nil {
			return err
		}
		return s.activity.Append(ctx, tx,
			activityEntry(actor, constants.ActivityTypeUser, constants.ActionCreate, u.ID, u.Name, nil))
	})
	if err != nil {
		return nil, err
	}
	res := ToUserPublicDTO(&u)
	return &res, nil
}

// UpdateUser: users may edit their own name, email, password and avatar.
// Role, team and activation changes need the manage permission.
func (s *UserService) UpdateUser(ctx context.Context, id string, data dto.UpdateUserDTO) (*dto.UserPublicDTO, error) {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	self := actor.UserID == id
	if !authz.Can(actor, authz.UsersManage) && !(self && data.OnlySelfEditable()) {
		return nil, apperrors.ErrForbidden
	}

	var u *entities.User
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		u, err = s.userRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if data.Name != nil {
			u.Name = *data.Name
		}
		if data.Email != nil {
			u.Email = strings.ToLower(strings.TrimSpace(*data.Email))
		}
		if data.Password != nil {
			hash, err := utils.HashPassword(*data.Password)
			if err != nil {
				return err
			}
			u.Password = hash
		}
		if data.Role != nil {
			u.Role = *data.Role
		}
		if data.TeamID != nil {
			u.TeamID = optional(*data.TeamID)
		}
		if data.Avatar != nil {
			u.Avatar = optional(*data.Avatar)
		}
		if data.IsActive != nil {
			u.IsActive = *data.IsActive
		}
		u.UpdatedAt = s.clock().UTC()

		if err := s.userRepo.Update(ctx, tx, u); err != nil {
			return err
		}
		return s.activity.Append(ctx, tx,
			activityEntry(actor, constants.ActivityTypeUser, constants.ActionUpdate, u.ID, u.Name, nil))
	})
	if err != nil {
		return nil, err
	}
	res := ToUserPublicDTO(u)
	return &res, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	actor, err := selfOr(ctx, id, authz.UsersManage)
	if err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		u, err := s.userRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.userRepo.Delete(ctx, tx, id); err != nil {
			return err
		}
		return s.activity.Append(ctx, tx,
			activityEntry(actor, constants.ActivityTypeUser, constants.ActionDelete, id, u.Name, nil))
	})
}

func selfOr(ctx context.Context, userID, permission string) (dto.Actor, error) {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return dto.Actor{}, err
	}
	if actor.UserID != userID && !authz.Can(actor, permission) {
		return dto.Actor{}, apperrors.ErrForbidden
	}
	return actor, nil
}
