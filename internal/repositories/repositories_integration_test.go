package repositories

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/dcodingdev/gearguard/internal/entities"
	"github.com/dcodingdev/gearguard/pkg/constants"
	"github.com/dcodingdev/gearguard/pkg/database/postgresql"
	apperrors "github.com/dcodingdev/gearguard/pkg/errors"
	"github.com/dcodingdev/gearguard/pkg/types"
	"github.com/dcodingdev/gearguard/pkg/utils"
)

type storeSuite struct {
	suite.Suite
	pool      *pgxpool.Pool
	requests  RequestRepositoryInterface
	equipment EquipmentRepositoryInterface
	teams     TeamRepositoryInterface
	activity  ActivityLogRepositoryInterface
	tx        TxManagerInterface
}

func TestStoreSuite(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	suite.Run(t, &storeSuite{})
}

func (s *storeSuite) SetupSuite() {
	ctx := context.Background()
	logger := zap.NewNop()

	pool, err := postgresql.ConnectDB(ctx, os.Getenv("TEST_DATABASE_URL"), logger)
	s.Require().NoError(err)
	s.pool = pool

	m, err := postgresql.NewMigrator(pool)
	s.Require().NoError(err)
	s.Require().NoError(m.Up(ctx))

	s.requests = NewRequestRepository(pool, logger)
	s.equipment = NewEquipmentRepository(pool, logger)
	s.teams = NewTeamRepository(pool, logger)
	s.activity = NewActivityLogRepository(pool, logger)
	s.tx = NewTxManager(pool)
}

func (s *storeSuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(),
		"TRUNCATE activity_log, maintenance_requests, equipment, team_members, maintenance_teams, users")
	s.Require().NoError(err)
}

func (s *storeSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *storeSuite) newEquipment(id string) *entities.Equipment {
	now := time.Now().UTC()
	e := &entities.Equipment{
		ID:                id,
		Name:              "CNC Machine " + id,
		SerialNumber:      "SN-" + id,
		Category:          constants.CategoryMachine,
		Department:        "production",
		MaintenanceTeamID: "team-1",
		PurchaseDate:      now.AddDate(-1, 0, 0),
		Location:          "Floor A",
		Status:            constants.EquipmentStatusOperational,
	}
	e.CreatedAt, e.UpdatedAt = &now, &now
	s.Require().NoError(s.equipment.Create(context.Background(), nil, e))
	return e
}

func (s *storeSuite) newRequest(id, equipmentID, status string) *entities.MaintenanceRequest {
	now := time.Now().UTC()
	r := &entities.MaintenanceRequest{
		ID:            id,
		Subject:       "Request " + id,
		Description:   "Check",
		Type:          constants.RequestTypeCorrective,
		Priority:      constants.PriorityHigh,
		EquipmentID:   equipmentID,
		TeamID:        "team-1",
		Status:        status,
		ScheduledDate: now,
		CreatedBy:     "user-1",
	}
	r.CreatedAt, r.UpdatedAt = &now, &now
	s.Require().NoError(s.requests.Create(context.Background(), nil, r))
	return r
}

func (s *storeSuite) TestFindMissingReturnsNotFound() {
	_, err := s.requests.FindByID(context.Background(), nil, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *storeSuite) TestMarkScrappedIsConditional() {
	ctx := context.Background()
	e := s.newEquipment("eq-1")

	changed, err := s.equipment.MarkScrapped(ctx, nil, e.ID, "first", time.Now())
	s.Require().NoError(err)
	s.True(changed)

	changed, err = s.equipment.MarkScrapped(ctx, nil, e.ID, "second", time.Now())
	s.Require().NoError(err)
	s.False(changed)

	got, err := s.equipment.FindByID(ctx, nil, e.ID)
	s.Require().NoError(err)
	s.True(got.IsScraped)
	s.Equal("first", utils.SafeDeref(got.ScrapReason))
}

func (s *storeSuite) TestCancelOpenForEquipmentGuardsStatus() {
	ctx := context.Background()
	e := s.newEquipment("eq-2")
	s.newRequest("r-trigger", e.ID, constants.RequestStatusScrap)
	s.newRequest("r-new", e.ID, constants.RequestStatusNew)
	s.newRequest("r-progress", e.ID, constants.RequestStatusInProgress)
	s.newRequest("r-done", e.ID, constants.RequestStatusRepaired)

	ids, err := s.requests.CancelOpenForEquipment(ctx, nil, e.ID, "r-trigger", time.Now())
	s.Require().NoError(err)
	s.ElementsMatch([]string{"r-new", "r-progress"}, ids)

	ids, err = s.requests.CancelOpenForEquipment(ctx, nil, e.ID, "r-trigger", time.Now())
	s.Require().NoError(err)
	s.Empty(ids)

	done, err := s.requests.FindByID(ctx, nil, "r-done")
	s.Require().NoError(err)
	s.Equal(constants.RequestStatusRepaired, done.Status)
}

func (s *storeSuite) TestFindForUpdateInsideTransaction() {
	ctx := context.Background()
	e := s.newEquipment("eq-3")
	s.newRequest("r-lock", e.ID, constants.RequestStatusNew)

	err := s.tx.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.requests.FindForUpdate(ctx, tx, "r-lock")
		if err != nil {
			return err
		}
		req.Status = constants.RequestStatusInProgress
		return s.requests.Update(ctx, tx, req)
	})
	s.Require().NoError(err)

	got, err := s.requests.FindByID(ctx, nil, "r-lock")
	s.Require().NoError(err)
	s.Equal(constants.RequestStatusInProgress, got.Status)
}

func (s *storeSuite) TestEquipmentLockHoldsOffScrap() {
	ctx := context.Background()
	e := s.newEquipment("eq-5")

	scrapped := make(chan error, 1)
	err := s.tx.RunInTransaction(ctx, func(tx pgx.Tx) error {
		locked, err := s.equipment.FindForUpdate(ctx, tx, e.ID)
		if err != nil {
			return err
		}
		go func() {
			_, err := s.equipment.MarkScrapped(ctx, nil, e.ID, "motor burnt out", time.Now())
			scrapped <- err
		}()

		select {
		case err := <-scrapped:
			s.Failf("scrap ran under the row lock", "err: %v", err)
			scrapped <- err
		case <-time.After(200 * time.Millisecond):
		}

		locked.Location = "Building B"
		return s.equipment.Update(ctx, tx, locked)
	})
	s.Require().NoError(err)
	s.Require().NoError(<-scrapped)

	got, err := s.equipment.FindByID(ctx, nil, e.ID)
	s.Require().NoError(err)
	s.Equal(constants.EquipmentStatusScrapped, got.Status)
	s.True(got.IsScraped)
	s.Equal("Building B", got.Location)
}

func (s *storeSuite) TestListFiltersByStatus() {
	e := s.newEquipment("eq-4")
	s.newRequest("r-a", e.ID, constants.RequestStatusNew)
	s.newRequest("r-b", e.ID, constants.RequestStatusInProgress)
	s.newRequest("r-c", e.ID, constants.RequestStatusRepaired)

	list, total, err := s.requests.GetAll(context.Background(), types.Filter{
		Filter: map[string]interface{}{"status": "new,in_progress"},
		Limit:  10, Page: 1, WithPagination: true,
	})
	s.Require().NoError(err)
	s.EqualValues(2, total)
	s.Len(list, 2)
}

func (s *storeSuite) TestTeamMembersKeepInsertionOrder() {
	ctx := context.Background()
	now := time.Now()
	team := &entities.MaintenanceTeam{ID: "team-x", Name: "Mechanics", Specialization: "Machines"}
	team.CreatedAt, team.UpdatedAt = &now, &now
	s.Require().NoError(s.teams.Create(ctx, nil, team))

	for _, id := range []string{"m-2", "m-1", "m-3"} {
		s.Require().NoError(s.teams.AddMember(ctx, nil, &entities.TeamMember{
			ID: id, TeamID: team.ID, UserID: "u-" + id, Name: id, Email: id + "@example.com",
			Role: constants.MemberRoleTechnician, IsAvailable: true,
		}))
	}

	got, err := s.teams.FindByID(ctx, nil, team.ID)
	s.Require().NoError(err)
	require.Len(s.T(), got.Members, 3)
	s.Equal("m-2", got.Members[0].ID)
	s.Equal("m-3", got.Members[2].ID)
}

func (s *storeSuite) TestActivityRecentNewestFirst() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)
	for i, id := range []string{"a-1", "a-2", "a-3"} {
		s.Require().NoError(s.activity.Append(ctx, nil, &entities.ActivityLog{
			ID: id, Type: constants.ActivityTypeRequest, Action: constants.ActionCreate,
			EntityID: "r", EntityName: "r", UserID: "u", UserName: "u",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	entries, err := s.activity.Recent(ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal("a-3", entries[0].ID)
	s.Equal("a-2", entries[1].ID)
}
