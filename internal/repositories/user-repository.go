package repositories

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/dcodingdev/gearguard/internal/entities"
	db "github.com/dcodingdev/gearguard/internal/infrastructure/bd"
	"github.com/dcodingdev/gearguard/pkg/types"
)

const (
	userTable  = "users"
	userFields = "id, email, name, password, role, team_id, avatar, is_active, created_at, updated_at"
)

var userListSpec = db.ListSpec{
	Filters: map[string]string{
		"id":        "id",
		"role":      "role",
		"team_id":   "team_id",
		"is_active": "is_active",
	},
	Sort: map[string]string{
		"name":       "name",
		"email":      "email",
		"created_at": "created_at",
	},
	SearchCols:  []string{"name", "email"},
	DefaultSort: "name ASC",
}

type UserRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id string) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	GetAll(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error)
	Create(ctx context.Context, tx pgx.Tx, user *entities.User) error
	Update(ctx context.Context, tx pgx.Tx, user *entities.User) error
	Delete(ctx context.Context, tx pgx.Tx, id string) error
}

type userRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &userRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Password, &u.Role, &u.TeamID, &u.Avatar, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) FindByID(ctx context.Context, tx pgx.Tx, id string) (*entities.User, error) {
	query, args, err := db.Psql.Select(userFields).From(userTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, wrapErr("build find user", err)
	}
	u, err := scanUser(querierFor(r.storage, tx).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, wrapErr("find user", err)
	}
	return u, nil
}

// FindByEmail matches case-insensitively.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	query, args, err := db.Psql.Select(userFields).From(userTable).
		Where(sq.Eq{"LOWER(email)": strings.ToLower(strings.TrimSpace(email))}).
		ToSql()
	if err != nil {
		return nil, wrapErr("build find user by email", err)
	}
	u, err := scanUser(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, wrapErr("find user by email", err)
	}
	return u, nil
}

func (r *userRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	countQuery, countArgs, err := db.ApplyFilters(db.Psql.Select("COUNT(*)").From(userTable), filter, userListSpec).ToSql()
	if err != nil {
		return nil, 0, wrapErr("build count users", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, wrapErr("count users", err)
	}
	if total == 0 {
		return []entities.User{}, 0, nil
	}

	query, args, err := db.ApplyListParams(db.Psql.Select(userFields).From(userTable), filter, userListSpec).ToSql()
	if err != nil {
		return nil, 0, wrapErr("build list users", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, wrapErr("list users", err)
	}
	defer rows.Close()

	users := make([]entities.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, wrapErr("scan user", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapErr("list users", err)
	}
	return users, total, nil
}

func (r *userRepository) Create(ctx context.Context, tx pgx.Tx, u *entities.User) error {
	query, args, err := db.Psql.Insert(userTable).
		Columns("id", "email", "name", "password", "role", "team_id", "avatar", "is_active", "created_at", "updated_at").
		Values(u.ID, u.Email, u.Name, u.Password, u.Role, u.TeamID, u.Avatar, u.IsActive, u.CreatedAt, u.UpdatedAt).
		ToSql()
	if err != nil {
		return wrapErr("build insert user", err)
	}
	_, err = querierFor(r.storage, tx).Exec(ctx, query, args...)
	return wrapErr("insert user", err)
}

func (r *userRepository) Update(ctx context.Context, tx pgx.Tx, u *entities.User) error {
	query, args, err := db.Psql.Update(userTable).
		SetMap(map[string]interface{}{
			"email":      u.Email,
			"name":       u.Name,
			"password":   u.Password,
			"role":       u.Role,
			"team_id":    u.TeamID,
			"avatar":     u.Avatar,
			"is_active":  u.IsActive,
			"updated_at": u.UpdatedAt,
		}).
		Where(sq.Eq{"id": u.ID}).
		ToSql()
	if err != nil {
		return wrapErr("build update user", err)
	}
	tag, err := querierFor(r.storage, tx).Exec(ctx, query, args...)
	if err != nil {
		return wrapErr("update user", err)
	}
	return expectAffected(tag)
}

func (r *userRepository) Delete(ctx context.Context, tx pgx.Tx, id string) error {
	query, args, err := db.Psql.Delete(userTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return wrapErr("build delete user", err)
	}
	tag, err := querierFor(r.storage, tx).Exec(ctx, query, args...)
	if err != nil {
		return wrapErr("delete user", err)
	}
	return expectAffected(tag)
}
