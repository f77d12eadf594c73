package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/dcodingdev/gearguard/internal/core/workflow"
	"github.com/dcodingdev/gearguard/internal/dto"
	"github.com/dcodingdev/gearguard/internal/entities"
	"github.com/dcodingdev/gearguard/pkg/constants"
	apperrors "github.com/dcodingdev/gearguard/pkg/errors"
	"github.com/dcodingdev/gearguard/pkg/types"
	"github.com/dcodingdev/gearguard/pkg/utils"
)

var fixedNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func strPtr(s string) *string { return &s }

func adminCtx() context.Context {
	return utils.WithActor(context.Background(), dto.Actor{UserID: "user-1", Name: "John Admin", Role: constants.RoleAdmin})
}

func managerCtx() context.Context {
	return utils.WithActor(context.Background(), dto.Actor{UserID: "user-2", Name: "Sarah Manager", Role: constants.RoleManager})
}

func technicianCtx(teamID *string) context.Context {
	return utils.WithActor(context.Background(), dto.Actor{UserID: "user-3", Name: "Mike Technician", Role: constants.RoleTechnician, TeamID: teamID})
}

// memStore backs the in-memory repositories. The tx argument is ignored;
// serialization comes from fakeTxManager. Equipment row locks taken by
// FindForUpdate are held until the surrounding transaction ends.
type memStore struct {
	mu        sync.Mutex
	requests  map[string]entities.MaintenanceRequest
	equipment map[string]entities.Equipment
	eqLocks   map[string]chan struct{}

	// onLockWait runs when a write has to wait for an equipment row lock.
	onLockWait func(id string)

	markCalls    int
	failFindEq   error
	failMark     error
	failCancel   error
	failUpdateRq error
}

func newMemStore() *memStore {
	return &memStore{
		requests:  map[string]entities.MaintenanceRequest{},
		equipment: map[string]entities.Equipment{},
		eqLocks:   map[string]chan struct{}{},
	}
}

func (s *memStore) lockEquipment(id string) {
	for {
		s.mu.Lock()
		held, ok := s.eqLocks[id]
		if !ok {
			s.eqLocks[id] = make(chan struct{})
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()
		<-held
	}
}

// waitEquipment blocks while a transaction holds the row lock on id.
func (s *memStore) waitEquipment(id string) {
	for {
		s.mu.Lock()
		held, ok := s.eqLocks[id]
		hook := s.onLockWait
		s.mu.Unlock()
		if !ok {
			return
		}
		if hook != nil {
			hook(id)
		}
		<-held
	}
}

func (s *memStore) releaseLocks() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, held := range s.eqLocks {
		close(held)
		delete(s.eqLocks, id)
	}
}

func (s *memStore) putRequest(r entities.MaintenanceRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[r.ID] = r.Clone()
}

func (s *memStore) putEquipment(e entities.Equipment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.equipment[e.ID] = e
}

func (s *memStore) request(id string) entities.MaintenanceRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[id].Clone()
}

func (s *memStore) equipmentByID(id string) entities.Equipment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.equipment[id]
}

type fakeTxManager struct {
	mu    sync.Mutex
	store *memStore
}

func (m *fakeTxManager) RunInTransaction(_ context.Context, fn func(tx pgx.Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.store != nil {
		defer m.store.releaseLocks()
	}
	return fn(nil)
}

type memRequestRepo struct{ s *memStore }

func (r *memRequestRepo) FindByID(_ context.Context, _ pgx.Tx, id string) (*entities.MaintenanceRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	c := req.Clone()
	return &c, nil
}

func (r *memRequestRepo) FindForUpdate(ctx context.Context, tx pgx.Tx, id string) (*entities.MaintenanceRequest, error) {
	return r.FindByID(ctx, tx, id)
}

func (r *memRequestRepo) GetAll(_ context.Context, filter types.Filter) ([]entities.MaintenanceRequest, uint64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []entities.MaintenanceRequest{}
	for _, req := range r.s.requests {
		if team, ok := filter.Filter["team_id"]; ok && team != req.TeamID {
			continue
		}
		out = append(out, req.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, uint64(len(out)), nil
}

func (r *memRequestRepo) FindByEquipment(_ context.Context, equipmentID string) ([]entities.MaintenanceRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entities.MaintenanceRequest
	for _, req := range r.s.requests {
		if req.EquipmentID == equipmentID {
			out = append(out, req.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRequestRepo) Create(_ context.Context, _ pgx.Tx, req *entities.MaintenanceRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.requests[req.ID]; ok {
		return apperrors.ErrAlreadyExists
	}
	r.s.requests[req.ID] = req.Clone()
	return nil
}

func (r *memRequestRepo) Update(_ context.Context, _ pgx.Tx, req *entities.MaintenanceRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failUpdateRq != nil {
		return r.s.failUpdateRq
	}
	if _, ok := r.s.requests[req.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.s.requests[req.ID] = req.Clone()
	return nil
}

func (r *memRequestRepo) Delete(_ context.Context, _ pgx.Tx, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.requests[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.s.requests, id)
	return nil
}

func (r *memRequestRepo) CancelOpenForEquipment(_ context.Context, _ pgx.Tx, equipmentID, excludeID string, now time.Time) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failCancel != nil {
		return nil, r.s.failCancel
	}
	ids := []string{}
	for id, req := range r.s.requests {
		if req.EquipmentID != equipmentID || id == excludeID || !constants.IsOpenStatus(req.Status) {
			continue
		}
		req.Status = constants.RequestStatusCancelled
		stamp := now
		req.UpdatedAt = &stamp
		r.s.requests[id] = req
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *memRequestRepo) FindScrappedEquipmentWithOpenRequests(_ context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := map[string]bool{}
	var ids []string
	for _, req := range r.s.requests {
		eq, ok := r.s.equipment[req.EquipmentID]
		if !ok || eq.Status != constants.EquipmentStatusScrapped || !constants.IsOpenStatus(req.Status) || seen[eq.ID] {
			continue
		}
		seen[eq.ID] = true
		ids = append(ids, eq.ID)
	}
	sort.Strings(ids)
	return ids, nil
}

type memEquipmentRepo struct{ s *memStore }

func (r *memEquipmentRepo) FindByID(_ context.Context, _ pgx.Tx, id string) (*entities.Equipment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failFindEq != nil {
		return nil, r.s.failFindEq
	}
	e, ok := r.s.equipment[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &e, nil
}

func (r *memEquipmentRepo) FindForUpdate(ctx context.Context, tx pgx.Tx, id string) (*entities.Equipment, error) {
	r.s.lockEquipment(id)
	return r.FindByID(ctx, tx, id)
}

func (r *memEquipmentRepo) GetAll(_ context.Context, _ types.Filter) ([]entities.Equipment, uint64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []entities.Equipment{}
	for _, e := range r.s.equipment {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, uint64(len(out)), nil
}

func (r *memEquipmentRepo) Create(_ context.Context, _ pgx.Tx, e *entities.Equipment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.equipment {
		if existing.SerialNumber == e.SerialNumber {
			return apperrors.ErrAlreadyExists
		}
	}
	r.s.equipment[e.ID] = *e
	return nil
}

func (r *memEquipmentRepo) Update(_ context.Context, _ pgx.Tx, e *entities.Equipment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.equipment[e.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.s.equipment[e.ID] = *e
	return nil
}

func (r *memEquipmentRepo) Delete(_ context.Context, _ pgx.Tx, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.equipment[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.s.equipment, id)
	return nil
}

func (r *memEquipmentRepo) MarkScrapped(_ context.Context, _ pgx.Tx, id, reason string, now time.Time) (bool, error) {
	r.s.waitEquipment(id)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.markCalls++
	if r.s.failMark != nil {
		return false, r.s.failMark
	}
	e, ok := r.s.equipment[id]
	if !ok || e.Status == constants.EquipmentStatusScrapped {
		return false, nil
	}
	e.Status = constants.EquipmentStatusScrapped
	e.IsScraped = true
	e.ScrapReason = &reason
	stamp := now
	e.UpdatedAt = &stamp
	r.s.equipment[id] = e
	return true, nil
}

// mockActivity is a testify mock for ActivityLoggerInterface.
type mockActivity struct {
	mock.Mock
}

func newMockActivity() *mockActivity {
	m := &mockActivity{}
	m.On("Append", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return m
}

func (m *mockActivity) Append(ctx context.Context, tx pgx.Tx, entry entities.ActivityLog) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *mockActivity) Recent(ctx context.Context, limit int) ([]entities.ActivityLog, error) {
	args := m.Called(ctx, limit)
	logs, _ := args.Get(0).([]entities.ActivityLog)
	return logs, args.Error(1)
}

// entries returns the appended log entries in call order.
func (m *mockActivity) entries() []entities.ActivityLog {
	var out []entities.ActivityLog
	for _, call := range m.Calls {
		if call.Method == "Append" {
			out = append(out, call.Arguments.Get(2).(entities.ActivityLog))
		}
	}
	return out
}

type spyCascade struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (s *spyCascade) Execute(_ context.Context, d workflow.ScrapCascade) (CascadeOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, d.RequestID)
	return CascadeOutcome{}, s.err
}

func (s *spyCascade) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func newCascade(store *memStore, activity ActivityLoggerInterface) *ScrapCascadeService {
	c := NewScrapCascadeService(&memEquipmentRepo{store}, &memRequestRepo{store}, activity, nil, nil, zap.NewNop()).(*ScrapCascadeService)
	c.clock = fixedClock
	return c
}

func operationalEquipment(id string) entities.Equipment {
	return entities.Equipment{
		ID:                id,
		Name:              "CNC Machine A1",
		SerialNumber:      "SN-" + id,
		Category:          constants.CategoryMachine,
		Department:        "production",
		MaintenanceTeamID: "team-1",
		PurchaseDate:      fixedNow.AddDate(-2, 0, 0),
		Location:          "Building A",
		Status:            constants.EquipmentStatusOperational,
	}
}

func openRequest(id, equipmentID, status string) entities.MaintenanceRequest {
	return entities.MaintenanceRequest{
		ID:            id,
		Subject:       "Request " + id,
		Description:   "Work on " + equipmentID,
		Type:          constants.RequestTypeCorrective,
		Priority:      constants.PriorityMedium,
		EquipmentID:   equipmentID,
		TeamID:        "team-1",
		Status:        status,
		ScheduledDate: fixedNow,
		CreatedBy:     "user-2",
	}
}

var mockAny = mock.Anything
