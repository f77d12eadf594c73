package services

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dcodingdev/gearguard/internal/dto"
	"github.com/dcodingdev/gearguard/pkg/constants"
	apperrors "github.com/dcodingdev/gearguard/pkg/errors"
	"github.com/dcodingdev/gearguard/pkg/types"
	"github.com/dcodingdev/gearguard/pkg/validation"
)

type requestHarness struct {
	store    *memStore
	activity *mockActivity
	cascade  ScrapCascadeServiceInterface
	svc      *RequestService
}

func newRequestHarness(t *testing.T, cascade ScrapCascadeServiceInterface) *requestHarness {
	t.Helper()
	h := &requestHarness{store: cascadeFixture(), activity: newMockActivity()}
	if cascade == nil {
		cascade = newCascade(h.store, h.activity)
	}
	h.cascade = cascade
	h.svc = NewRequestService(&fakeTxManager{}, &memRequestRepo{h.store}, h.activity, cascade, validation.New(), nil, zap.NewNop()).(*RequestService)
	h.svc.clock = fixedClock
	return h
}

func TestUpdateRequest_TechnicianMovesOwnTeamRequest(t *testing.T) {
	h := newRequestHarness(t, &spyCascade{})

	updated, err := h.svc.UpdateRequest(technicianCtx(strPtr("team-1")), "sib-new", dto.UpdateRequestDTO{
		Status:  strPtr(constants.RequestStatusInProgress),
		Subject: strPtr("renamed by technician"),
		Notes:   strPtr("parts ordered"),
	})
	require.NoError(t, err)

	assert.Equal(t, constants.RequestStatusInProgress, updated.Status)
	assert.Equal(t, "Request sib-new", updated.Subject, "subject is outside the technician's writable fields")
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "parts ordered", *updated.Notes)
	require.NotNil(t, updated.UpdatedAt)
	assert.Equal(t, fixedNow, *updated.UpdatedAt)

	entries := h.activity.entries()
	require.Len(t, entries, 1)
	assert.Equal(t, constants.ActionStatusChange, entries[0].Action)
	require.NotNil(t, entries[0].Details)
	assert.Equal(t, "Status changed from new to in_progress", *entries[0].Details)
}

func TestUpdateRequest_TechnicianOtherTeamIsForbidden(t *testing.T) {
	h := newRequestHarness(t, &spyCascade{})

	_, err := h.svc.UpdateRequest(technicianCtx(strPtr("team-9")), "sib-new", dto.UpdateRequestDTO{
		Status: strPtr(constants.RequestStatusInProgress),
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Equal(t, constants.RequestStatusNew, h.store.request("sib-new").Status)
	assert.Empty(t, h.activity.entries())
}

func TestUpdateRequest_RepairedNeedsDuration(t *testing.T) {
	h := newRequestHarness(t, &spyCascade{})

	_, err := h.svc.UpdateRequest(managerCtx(), "sib-wip", dto.UpdateRequestDTO{
		Status: strPtr(constants.RequestStatusRepaired),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.Equal(t, "Please record the Hours Spent (Duration) before completing the request.", apperrors.UserMessage(err))
	assert.Equal(t, constants.RequestStatusInProgress, h.store.request("sib-wip").Status)
	assert.Empty(t, h.activity.entries())

	hours := 2.5
	updated, err := h.svc.UpdateRequest(managerCtx(), "sib-wip", dto.UpdateRequestDTO{
		Status:   strPtr(constants.RequestStatusRepaired),
		Duration: &hours,
	})
	require.NoError(t, err)
	assert.Equal(t, constants.RequestStatusRepaired, updated.Status)
	assert.Equal(t, 2.5, *updated.Duration)
}

func TestUpdateRequest_RejectsUnknownStatus(t *testing.T) {
	h := newRequestHarness(t, &spyCascade{})

	_, err := h.svc.UpdateRequest(adminCtx(), "sib-new", dto.UpdateRequestDTO{Status: strPtr("archived")})
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))
	assert.Equal(t, constants.RequestStatusNew, h.store.request("sib-new").Status)
}

func TestUpdateRequest_EnteringScrapRunsCascade(t *testing.T) {
	h := newRequestHarness(t, nil)

	updated, err := h.svc.UpdateRequest(managerCtx(), "sib-new", dto.UpdateRequestDTO{
		Status: strPtr(constants.RequestStatusScrap),
	})
	require.NoError(t, err)
	assert.Equal(t, constants.RequestStatusScrap, updated.Status)

	assert.Equal(t, constants.EquipmentStatusScrapped, h.store.equipmentByID("equip-1").Status)
	assert.Equal(t, constants.RequestStatusScrap, h.store.request("sib-new").Status)
	assert.Equal(t, constants.RequestStatusCancelled, h.store.request("sib-wip").Status)
	assert.Equal(t, constants.RequestStatusRepaired, h.store.request("done").Status)
	assert.Equal(t, constants.RequestStatusNew, h.store.request("other").Status)

	// status change of the request, then the equipment entry from the cascade
	entries := h.activity.entries()
	require.Len(t, entries, 2)
	assert.Equal(t, constants.ActivityTypeRequest, entries[0].Type)
	assert.Equal(t, constants.ActivityTypeEquipment, entries[1].Type)
}

func TestUpdateRequest_StayingInScrapDoesNotCascade(t *testing.T) {
	spy := &spyCascade{}
	h := newRequestHarness(t, spy)

	_, err := h.svc.UpdateRequest(managerCtx(), "trigger", dto.UpdateRequestDTO{
		Status: strPtr(constants.RequestStatusScrap),
		Notes:  strPtr("confirmed by vendor"),
	})
	require.NoError(t, err)
	assert.Zero(t, spy.count())

	entries := h.activity.entries()
	require.Len(t, entries, 1)
	assert.Equal(t, constants.ActionUpdate, entries[0].Action)
}

func TestUpdateRequest_CascadeFailureKeepsCommittedUpdate(t *testing.T) {
	h := newRequestHarness(t, nil)
	h.store.failCancel = errors.New("connection reset")

	updated, err := h.svc.UpdateRequest(managerCtx(), "sib-new", dto.UpdateRequestDTO{
		Status: strPtr(constants.RequestStatusScrap),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrStorage)
	require.NotNil(t, updated)
	assert.Equal(t, constants.RequestStatusScrap, h.store.request("sib-new").Status)
	assert.Equal(t, constants.EquipmentStatusScrapped, h.store.equipmentByID("equip-1").Status)
	assert.Equal(t, constants.RequestStatusInProgress, h.store.request("sib-wip").Status)
}

func TestUpdateRequest_ConcurrentWritesAreSerialized(t *testing.T) {
	h := newRequestHarness(t, &spyCascade{})
	const writers = 12

	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := h.svc.UpdateRequest(managerCtx(), "sib-new", dto.UpdateRequestDTO{
				Notes: strPtr(fmt.Sprintf("note %d", i)),
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	assert.Len(t, h.activity.entries(), writers)
	require.NotNil(t, h.store.request("sib-new").Notes)
	assert.Contains(t, *h.store.request("sib-new").Notes, "note ")
}

func TestUpdateRequest_Unauthenticated(t *testing.T) {
	h := newRequestHarness(t, &spyCascade{})
	_, err := h.svc.UpdateRequest(t.Context(), "sib-new", dto.UpdateRequestDTO{})
	assert.ErrorIs(t, err, apperrors.ErrActorNotFoundInContext)
}

func TestCreateRequest(t *testing.T) {
	base := dto.CreateRequestDTO{
		Subject:       "Replace belt",
		Description:   "Conveyor belt is worn",
		Type:          constants.RequestTypePreventive,
		Priority:      constants.PriorityLow,
		EquipmentID:   "equip-2",
		TeamID:        "team-1",
		ScheduledDate: fixedNow,
	}

	t.Run("defaults to new and records the creator", func(t *testing.T) {
		h := newRequestHarness(t, &spyCascade{})
		created, err := h.svc.CreateRequest(managerCtx(), base)
		require.NoError(t, err)
		assert.Equal(t, constants.RequestStatusNew, created.Status)
		assert.Equal(t, "user-2", created.CreatedBy)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, created.Subject, h.store.request(created.ID).Subject)
		assert.Len(t, h.activity.entries(), 1)
	})

	t.Run("technicians cannot create", func(t *testing.T) {
		h := newRequestHarness(t, &spyCascade{})
		_, err := h.svc.CreateRequest(technicianCtx(strPtr("team-1")), base)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("repaired without duration is rejected", func(t *testing.T) {
		h := newRequestHarness(t, &spyCascade{})
		d := base
		d.Status = constants.RequestStatusRepaired
		_, err := h.svc.CreateRequest(adminCtx(), d)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
		assert.Empty(t, h.activity.entries())
	})

	t.Run("created in scrap runs the cascade", func(t *testing.T) {
		h := newRequestHarness(t, nil)
		d := base
		d.Status = constants.RequestStatusScrap
		created, err := h.svc.CreateRequest(adminCtx(), d)
		require.NoError(t, err)
		assert.Equal(t, constants.EquipmentStatusScrapped, h.store.equipmentByID("equip-2").Status)
		assert.Equal(t, constants.RequestStatusCancelled, h.store.request("other").Status)
		assert.Equal(t, constants.RequestStatusScrap, h.store.request(created.ID).Status)
	})
}

func TestGetRequests_Scope(t *testing.T) {
	h := newRequestHarness(t, &spyCascade{})
	r := openRequest("team2-req", "equip-2", constants.RequestStatusNew)
	r.TeamID = "team-2"
	h.store.putRequest(r)

	all, total, err := h.svc.GetRequests(managerCtx(), types.Filter{})
	require.NoError(t, err)
	assert.EqualValues(t, 6, total)
	assert.Len(t, all, 6)

	own, _, err := h.svc.GetRequests(technicianCtx(strPtr("team-2")), types.Filter{})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "team2-req", own[0].ID)

	none, total, err := h.svc.GetRequests(technicianCtx(nil), types.Filter{})
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.Zero(t, total)
}

func TestFindRequest_TechnicianScope(t *testing.T) {
	h := newRequestHarness(t, &spyCascade{})

	_, err := h.svc.FindRequest(technicianCtx(strPtr("team-1")), "sib-new")
	assert.NoError(t, err)

	_, err = h.svc.FindRequest(technicianCtx(strPtr("team-2")), "sib-new")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = h.svc.FindRequest(adminCtx(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteRequest(t *testing.T) {
	h := newRequestHarness(t, &spyCascade{})

	err := h.svc.DeleteRequest(technicianCtx(strPtr("team-1")), "sib-new")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	require.NoError(t, h.svc.DeleteRequest(adminCtx(), "sib-new"))
	_, err = h.svc.FindRequest(adminCtx(), "sib-new")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	entries := h.activity.entries()
	require.Len(t, entries, 1)
	assert.Equal(t, constants.ActionDelete, entries[0].Action)
	assert.Equal(t, "Request sib-new", entries[0].EntityName)
}
