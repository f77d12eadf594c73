package repositories

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/dcodingdev/gearguard/internal/entities"
	db "github.com/dcodingdev/gearguard/internal/infrastructure/bd"
	"github.com/dcodingdev/gearguard/pkg/types"
)

const (
	teamTable    = "maintenance_teams"
	memberTable  = "team_members"
	teamFields   = "id, name, specialization, description, created_at, updated_at"
	memberFields = "id, team_id, user_id, name, email, phone, role, is_available, position"
)

var teamListSpec = db.ListSpec{
	Filters: map[string]string{
		"id":             "id",
		"specialization": "specialization",
	},
	Sort: map[string]string{
		"name":       "name",
		"created_at": "created_at",
	},
	SearchCols:  []string{"name", "specialization"},
	DefaultSort: "name ASC",
}

type TeamRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id string) (*entities.MaintenanceTeam, error)
	GetAll(ctx context.Context, filter types.Filter) ([]entities.MaintenanceTeam, uint64, error)
	Create(ctx context.Context, tx pgx.Tx, team *entities.MaintenanceTeam) error
	Update(ctx context.Context, tx pgx.Tx, team *entities.MaintenanceTeam) error
	Delete(ctx context.Context, tx pgx.Tx, id string) error
	// AddMember appends the member after the current last position.
	AddMember(ctx context.Context, tx pgx.Tx, member *entities.TeamMember) error
	RemoveMember(ctx context.Context, tx pgx.Tx, teamID, memberID string) error
}

type teamRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewTeamRepository(storage *pgxpool.Pool, logger *zap.Logger) TeamRepositoryInterface {
	return &teamRepository{storage: storage, logger: logger}
}

func scanTeam(row pgx.Row) (*entities.MaintenanceTeam, error) {
	var t entities.MaintenanceTeam
	if err := row.Scan(&t.ID, &t.Name, &t.Specialization, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Members = []entities.TeamMember{}
	return &t, nil
}

func (r *teamRepository) membersOf(ctx context.Context, q Querier, teamIDs []string) (map[string][]entities.TeamMember, error) {
	out := make(map[string][]entities.TeamMember, len(teamIDs))
	if len(teamIDs) == 0 {
		return out, nil
	}
	query, args, err := db.Psql.Select(memberFields).From(memberTable).
		Where(sq.Eq{"team_id": teamIDs}).
		OrderBy("team_id", "position ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var m entities.TeamMember
		if err := rows.Scan(&m.ID, &m.TeamID, &m.UserID, &m.Name, &m.Email, &m.Phone, &m.Role, &m.IsAvailable, &m.Position); err != nil {
			return nil, err
		}
		out[m.TeamID] = append(out[m.TeamID], m)
	}
	return out, rows.Err()
}

func (r *teamRepository) FindByID(ctx context.Context, tx pgx.Tx, id string) (*entities.MaintenanceTeam, error) {
	q := querierFor(r.storage, tx)
	query, args, err := db.Psql.Select(teamFields).From(teamTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, wrapErr("build find team", err)
	}
	team, err := scanTeam(q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, wrapErr("find team", err)
	}
	members, err := r.membersOf(ctx, q, []string{id})
	if err != nil {
		return nil, wrapErr("find team members", err)
	}
	if m, ok := members[id]; ok {
		team.Members = m
	}
	return team, nil
}

func (r *teamRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.MaintenanceTeam, uint64, error) {
	countQuery, countArgs, err := db.ApplyFilters(db.Psql.Select("COUNT(*)").From(teamTable), filter, teamListSpec).ToSql()
	if err != nil {
		return nil, 0, wrapErr("build count teams", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, wrapErr("count teams", err)
	}
	if total == 0 {
		return []entities.MaintenanceTeam{}, 0, nil
	}

	query, args, err := db.ApplyListParams(db.Psql.Select(teamFields).From(teamTable), filter, teamListSpec).ToSql()
	if err != nil {
		return nil, 0, wrapErr("build list teams", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, wrapErr("list teams", err)
	}
	teams := make([]entities.MaintenanceTeam, 0)
	ids := make([]string, 0)
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			rows.Close()
			return nil, 0, wrapErr("scan team", err)
		}
		teams = append(teams, *t)
		ids = append(ids, t.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, wrapErr("list teams", err)
	}

	members, err := r.membersOf(ctx, r.storage, ids)
	if err != nil {
		return nil, 0, wrapErr("list team members", err)
	}
	for i := range teams {
		if m, ok := members[teams[i].ID]; ok {
			teams[i].Members = m
		}
	}
	return teams, total, nil
}

func (r *teamRepository) Create(ctx context.Context, tx pgx.Tx, team *entities.MaintenanceTeam) error {
	query, args, err := db.Psql.Insert(teamTable).
		Columns("id", "name", "specialization", "description", "created_at", "updated_at").
		Values(team.ID, team.Name, team.Specialization, team.Description, team.CreatedAt, team.UpdatedAt).
		ToSql()
	if err != nil {
		return wrapErr("build insert team", err)
	}
	_, err = querierFor(r.storage, tx).Exec(ctx, query, args...)
	return wrapErr("insert team", err)
}

func (r *teamRepository) Update(ctx context.Context, tx pgx.Tx, team *entities.MaintenanceTeam) error {
	query, args, err := db.Psql.Update(teamTable).
		Set("name", team.Name).
		Set("specialization", team.Specialization).
		Set("description", team.Description).
		Set("updated_at", team.UpdatedAt).
		Where(sq.Eq{"id": team.ID}).
		ToSql()
	if err != nil {
		return wrapErr("build update team", err)
	}
	tag, err := querierFor(r.storage, tx).Exec(ctx, query, args...)
	if err != nil {
		return wrapErr("update team", err)
	}
	return expectAffected(tag)
}

// Delete removes the team and its member rows.
func (r *teamRepository) Delete(ctx context.Context, tx pgx.Tx, id string) error {
	q := querierFor(r.storage, tx)
	query, args, err := db.Psql.Delete(memberTable).Where(sq.Eq{"team_id": id}).ToSql()
	if err != nil {
		return wrapErr("build delete team members", err)
	}
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return wrapErr("delete team members", err)
	}

	query, args, err = db.Psql.Delete(teamTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return wrapErr("build delete team", err)
	}
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return wrapErr("delete team", err)
	}
	return expectAffected(tag)
}

func (r *teamRepository) AddMember(ctx context.Context, tx pgx.Tx, m *entities.TeamMember) error {
	q := querierFor(r.storage, tx)
	posQuery, posArgs, err := db.Psql.Select("COALESCE(MAX(position), 0) + 1").From(memberTable).
		Where(sq.Eq{"team_id": m.TeamID}).ToSql()
	if err != nil {
		return wrapErr("build member position", err)
	}
	if err := q.QueryRow(ctx, posQuery, posArgs...).Scan(&m.Position); err != nil {
		return wrapErr("member position", err)
	}

	query, args, err := db.Psql.Insert(memberTable).
		Columns("id", "team_id", "user_id", "name", "email", "phone", "role", "is_available", "position").
		Values(m.ID, m.TeamID, m.UserID, m.Name, m.Email, m.Phone, m.Role, m.IsAvailable, m.Position).
		ToSql()
	if err != nil {
		return wrapErr("build insert member", err)
	}
	_, err = q.Exec(ctx, query, args...)
	return wrapErr("insert member", err)
}

func (r *teamRepository) RemoveMember(ctx context.Context, tx pgx.Tx, teamID, memberID string) error {
	query, args, err := db.Psql.Delete(memberTable).Where(sq.Eq{"id": memberID, "team_id": teamID}).ToSql()
	if err != nil {
		return wrapErr("build delete member", err)
	}
	tag, err := querierFor(r.storage, tx).Exec(ctx, query, args...)
	if err != nil {
		return wrapErr("delete member", err)
	}
	return expectAffected(tag)
}
