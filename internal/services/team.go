package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/dcodingdev/gearguard/internal/authz"
	"github.com/dcodingdev/gearguard/internal/dto"
	"github.com/dcodingdev/gearguard/internal/entities"
	"github.com/dcodingdev/gearguard/internal/repositories"
	"github.com/dcodingdev/gearguard/pkg/constants"
	"github.com/dcodingdev/gearguard/pkg/types"
	"github.com/dcodingdev/gearguard/pkg/utils"
)

type TeamServiceInterface interface {
	GetTeams(ctx context.Context, filter types.Filter) ([]entities.MaintenanceTeam, uint64, error)
	FindTeam(ctx context.Context, id string) (*entities.MaintenanceTeam, error)
	CreateTeam(ctx context.Context, data dto.CreateTeamDTO) (*entities.MaintenanceTeam, error)
	UpdateTeam(ctx context.Context, id string, data dto.UpdateTeamDTO) (*entities.MaintenanceTeam, error)
	DeleteTeam(ctx context.Context, id string) error
	AddMember(ctx context.Context, teamID string, data dto.AddTeamMemberDTO) (*entities.MaintenanceTeam, error)
	RemoveMember(ctx context.Context, teamID, memberID string) (*entities.MaintenanceTeam, error)
}

type TeamService struct {
	txManager repositories.TxManagerInterface
	teamRepo  repositories.TeamRepositoryInterface
	activity  ActivityLoggerInterface
	clock     func() time.Time
	logger    *zap.Logger
}

func NewTeamService(
	txManager repositories.TxManagerInterface,
	teamRepo repositories.TeamRepositoryInterface,
	activity ActivityLoggerInterface,
	logger *zap.Logger,
) TeamServiceInterface {
	return &TeamService{txManager: txManager, teamRepo: teamRepo, activity: activity, clock: time.Now, logger: logger}
}

func (s *TeamService) GetTeams(ctx context.Context, filter types.Filter) ([]entities.MaintenanceTeam, uint64, error) {
	if _, err := actorWith(ctx, authz.TeamsView); err != nil {
		return nil, 0, err
	}
	return s.teamRepo.GetAll(ctx, filter)
}

func (s *TeamService) FindTeam(ctx context.Context, id string) (*entities.MaintenanceTeam, error) {
	if _, err := actorWith(ctx, authz.TeamsView); err != nil {
		return nil, err
	}
	return s.teamRepo.FindByID(ctx, nil, id)
}

func (s *TeamService) CreateTeam(ctx context.Context, data dto.CreateTeamDTO) (*entities.MaintenanceTeam, error) {
	actor, err := actorWith(ctx, authz.TeamsManage)
	if err != nil {
		return nil, err
	}
	now := s.clock().UTC()
	team := entities.MaintenanceTeam{
		ID:             utils.NewID(),
		Name:           data.Name,
		Specialization: data.Specialization,
		Description:    data.Description.Ptr(),
		Members:        []entities.TeamMember{},
	}
	team.CreatedAt, team.UpdatedAt = &now, &now

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.teamRepo.Create(ctx, tx, &team); err != nil {
			return err
		}
		return s.activity.Append(ctx, tx,
			activityEntry(actor, constants.ActivityTypeTeam, constants.ActionCreate, team.ID, team.Name, nil))
	})
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *TeamService) UpdateTeam(ctx context.Context, id string, data dto.UpdateTeamDTO) (*entities.MaintenanceTeam, error) {
	actor, err := actorWith(ctx, authz.TeamsManage)
	if err != nil {
		return nil, err
	}

	var team *entities.MaintenanceTeam
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		team, err = s.teamRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if data.Name != nil {
			team.Name = *data.Name
		}
		if data.Specialization != nil {
			team.Specialization = *data.Specialization
		}
		if data.Description != nil {
			team.Description = optional(*data.Description)
		}
		now := s.clock().UTC()
		team.UpdatedAt = &now

		if err := s.teamRepo.Update(ctx, tx, team); err != nil {
			return err
		}
		return s.activity.Append(ctx, tx,
			activityEntry(actor, constants.ActivityTypeTeam, constants.ActionUpdate, team.ID, team.Name, nil))
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

func (s *TeamService) DeleteTeam(ctx context.Context, id string) error {
	actor, err := actorWith(ctx, authz.TeamsDelete)
	if err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		team, err := s.teamRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.teamRepo.Delete(ctx, tx, id); err != nil {
			return err
		}
		return s.activity.Append(ctx, tx,
			activityEntry(actor, constants.ActivityTypeTeam, constants.ActionDelete, id, team.Name, nil))
	})
}

func (s *TeamService) AddMember(ctx context.Context, teamID string, data dto.AddTeamMemberDTO) (*entities.MaintenanceTeam, error) {
	actor, err := actorWith(ctx, authz.TeamsManageMembers)
	if err != nil {
		return nil, err
	}

	var team *entities.MaintenanceTeam
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.teamRepo.FindByID(ctx, tx, teamID)
		if err != nil {
			return err
		}
		member := entities.TeamMember{
			ID:          utils.NewID(),
			TeamID:      teamID,
			UserID:      data.UserID,
			Name:        data.Name,
			Email:       data.Email,
			Phone:       data.Phone.Ptr(),
			Role:        data.Role,
			IsAvailable: data.IsAvailable == nil || *data.IsAvailable,
		}
		if err := s.teamRepo.AddMember(ctx, tx, &member); err != nil {
			return err
		}
		details := "Member added: " + member.Name
		if err := s.activity.Append(ctx, tx,
			activityEntry(actor, constants.ActivityTypeTeam, constants.ActionUpdate, teamID, current.Name, &details)); err != nil {
			return err
		}
		team, err = s.teamRepo.FindByID(ctx, tx, teamID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

func (s *TeamService) RemoveMember(ctx context.Context, teamID, memberID string) (*entities.MaintenanceTeam, error) {
	actor, err := actorWith(ctx, authz.TeamsManageMembers)
	if err != nil {
		return nil, err
	}

	var team *entities.MaintenanceTeam
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.teamRepo.FindByID(ctx, tx, teamID)
		if err != nil {
			return err
		}
		if err := s.teamRepo.RemoveMember(ctx, tx, teamID, memberID); err != nil {
			return err
		}
		var removed string
		for _, m := range current.Members {
			if m.ID == memberID {
				removed = m.Name
			}
		}
		details := "Member removed: " + removed
		if err := s.activity.Append(ctx, tx,
			activityEntry(actor, constants.ActivityTypeTeam, constants.ActionUpdate, teamID, current.Name, &details)); err != nil {
			return err
		}
		team, err = s.teamRepo.FindByID(ctx, tx, teamID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

// actorWith resolves the actor and checks one permission.
func actorWith(ctx context.Context, permission string) (dto.Actor, error) {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return dto.Actor{}, err
	}
	if err := authz.Require(actor, permission); err != nil {
		return dto.Actor{}, err
	}
	return actor, nil
}
