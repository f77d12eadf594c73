package seeders

import (
	"context"
	"fmt"
	"log"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	db "github.com/dcodingdev/gearguard/internal/infrastructure/bd"
	"github.com/dcodingdev/gearguard/pkg/utils"
)

// SeedDemo writes the demo users, teams, equipment and requests in one
// transaction. Rows that already exist are left untouched.
func SeedDemo(ctx context.Context, pool *pgxpool.Pool) error {
	log.Println("▶️  Seeding demo data...")
	now := time.Now().UTC()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	steps := []struct {
		name string
		run  func(context.Context, pgx.Tx, time.Time) error
	}{
		{"users", seedUsers},
		{"teams", seedTeams},
		{"equipment", seedEquipment},
		{"requests", seedRequests},
	}
	for _, step := range steps {
		if err := step.run(ctx, tx, now); err != nil {
			return fmt.Errorf("seed %s: %w", step.name, err)
		}
		log.Printf("  - %s done", step.name)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit seed transaction: %w", err)
	}
	log.Println("✅ Demo data ready")
	return nil
}

func exec(ctx context.Context, tx pgx.Tx, b sq.InsertBuilder) error {
	sql, args, err := b.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, sql, args...)
	return err
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func seedUsers(ctx context.Context, tx pgx.Tx, now time.Time) error {
	for _, u := range usersData {
		hash, err := utils.HashPassword(u.Password)
		if err != nil {
			return err
		}
		err = exec(ctx, tx, db.Psql.Insert("users").
			Columns("id", "email", "name", "password", "role", "team_id", "is_active", "created_at", "updated_at").
			Values(u.ID, u.Email, u.Name, hash, u.Role, nullable(u.TeamID), true, now, now))
		if err != nil {
			return fmt.Errorf("user %s: %w", u.Email, err)
		}
	}
	return nil
}

func seedTeams(ctx context.Context, tx pgx.Tx, now time.Time) error {
	for _, t := range teamsData {
		err := exec(ctx, tx, db.Psql.Insert("maintenance_teams").
			Columns("id", "name", "specialization", "description", "created_at", "updated_at").
			Values(t.ID, t.Name, t.Specialization, nullable(t.Description), now, now))
		if err != nil {
			return fmt.Errorf("team %s: %w", t.ID, err)
		}
		for i, m := range t.Members {
			err := exec(ctx, tx, db.Psql.Insert("team_members").
				Columns("id", "team_id", "user_id", "name", "email", "role", "is_available", "position").
				Values(fmt.Sprintf("%s-member-%d", t.ID, i+1), t.ID, m.UserID, m.Name, m.Email, m.Role, true, i+1))
			if err != nil {
				return fmt.Errorf("team %s member %s: %w", t.ID, m.UserID, err)
			}
		}
	}
	return nil
}

func seedEquipment(ctx context.Context, tx pgx.Tx, now time.Time) error {
	for _, e := range equipmentData {
		purchase, err := time.Parse("2006-01-02", e.Purchase)
		if err != nil {
			return err
		}
		var warranty *time.Time
		if e.Warranty != "" {
			w, err := time.Parse("2006-01-02", e.Warranty)
			if err != nil {
				return err
			}
			warranty = &w
		}
		err = exec(ctx, tx, db.Psql.Insert("equipment").
			Columns("id", "name", "serial_number", "category", "department",
				"assigned_employee_id", "assigned_employee_name", "maintenance_team_id", "default_technician_id",
				"purchase_date", "warranty_expiry", "location", "status", "notes", "is_scraped", "created_at", "updated_at").
			Values(e.ID, e.Name, e.Serial, e.Category, e.Department,
				nullable(e.EmployeeID), nullable(e.EmployeeName), e.TeamID, nullable(e.TechnicianID),
				purchase, warranty, e.Location, e.Status, nullable(e.Notes), false, now, now))
		if err != nil {
			return fmt.Errorf("equipment %s: %w", e.Serial, err)
		}
	}
	return nil
}

func seedRequests(ctx context.Context, tx pgx.Tx, now time.Time) error {
	for _, r := range requestsData {
		var completed *time.Time
		var duration *float64
		if r.Completed {
			completed = &now
			d := r.Duration
			duration = &d
		}
		err := exec(ctx, tx, db.Psql.Insert("maintenance_requests").
			Columns("id", "subject", "description", "type", "priority", "equipment_id", "team_id",
				"assigned_technician_id", "status", "scheduled_date", "completed_date", "duration",
				"created_by", "created_at", "updated_at").
			Values(r.ID, r.Subject, r.Description, r.Type, r.Priority, r.EquipmentID, r.TeamID,
				nullable(r.TechnicianID), r.Status, now.Add(r.Scheduled), completed, duration,
				r.CreatedBy, now.Add(r.Created), now))
		if err != nil {
			return fmt.Errorf("request %s: %w", r.ID, err)
		}
	}
	return nil
}
