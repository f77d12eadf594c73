package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcodingdev/gearguard/internal/core/workflow"
	"github.com/dcodingdev/gearguard/internal/dto"
	"github.com/dcodingdev/gearguard/pkg/constants"
	apperrors "github.com/dcodingdev/gearguard/pkg/errors"
)

func cascadeFixture() *memStore {
	store := newMemStore()
	store.putEquipment(operationalEquipment("equip-1"))
	store.putEquipment(operationalEquipment("equip-2"))

	store.putRequest(openRequest("trigger", "equip-1", constants.RequestStatusScrap))
	store.putRequest(openRequest("sib-new", "equip-1", constants.RequestStatusNew))
	store.putRequest(openRequest("sib-wip", "equip-1", constants.RequestStatusInProgress))
	store.putRequest(openRequest("done", "equip-1", constants.RequestStatusRepaired))
	store.putRequest(openRequest("other", "equip-2", constants.RequestStatusNew))
	return store
}

var managerActor = dto.Actor{UserID: "user-2", Name: "Sarah Manager", Role: constants.RoleManager}

func scrapDirective() workflow.ScrapCascade {
	return workflow.ScrapCascade{EquipmentID: "equip-1", RequestID: "trigger", Subject: "Motor burnt out", Actor: managerActor}
}

func TestScrapCascade_ScrapsEquipmentAndCancelsSiblings(t *testing.T) {
	store := cascadeFixture()
	activity := newMockActivity()

	out, err := newCascade(store, activity).Execute(adminCtx(), scrapDirective())
	require.NoError(t, err)

	assert.True(t, out.EquipmentFound)
	assert.True(t, out.EquipmentScrapped)
	assert.True(t, out.Logged)
	assert.Equal(t, []string{"sib-new", "sib-wip"}, out.CancelledRequestIDs)

	eq := store.equipmentByID("equip-1")
	assert.Equal(t, constants.EquipmentStatusScrapped, eq.Status)
	assert.True(t, eq.IsScraped)
	require.NotNil(t, eq.ScrapReason)
	assert.Equal(t, "Scrapped via maintenance request: Motor burnt out", *eq.ScrapReason)

	assert.Equal(t, constants.RequestStatusCancelled, store.request("sib-new").Status)
	assert.Equal(t, constants.RequestStatusCancelled, store.request("sib-wip").Status)
	assert.Equal(t, constants.RequestStatusScrap, store.request("trigger").Status)
	assert.Equal(t, constants.RequestStatusRepaired, store.request("done").Status)
	assert.Equal(t, constants.RequestStatusNew, store.request("other").Status)
	assert.Equal(t, constants.EquipmentStatusOperational, store.equipmentByID("equip-2").Status)

	entries := activity.entries()
	require.Len(t, entries, 1)
	assert.Equal(t, constants.ActivityTypeEquipment, entries[0].Type)
	assert.Equal(t, constants.ActionStatusChange, entries[0].Action)
	assert.Equal(t, "equip-1", entries[0].EntityID)
	assert.Equal(t, "CNC Machine A1", entries[0].EntityName)
	assert.Equal(t, managerActor.UserID, entries[0].UserID)
	require.NotNil(t, entries[0].Details)
	assert.Equal(t, ScrapLogDetails("Motor burnt out"), *entries[0].Details)
}

func TestScrapCascade_AlreadyScrappedEquipmentStillCancelsAndLogs(t *testing.T) {
	store := cascadeFixture()
	eq := store.equipmentByID("equip-1")
	eq.Status = constants.EquipmentStatusScrapped
	eq.IsScraped = true
	store.putEquipment(eq)
	activity := newMockActivity()

	out, err := newCascade(store, activity).Execute(adminCtx(), scrapDirective())
	require.NoError(t, err)

	assert.False(t, out.EquipmentScrapped)
	assert.Zero(t, store.markCalls)
	assert.Equal(t, []string{"sib-new", "sib-wip"}, out.CancelledRequestIDs)
	assert.Len(t, activity.entries(), 1)
}

func TestScrapCascade_MissingEquipment(t *testing.T) {
	store := newMemStore()
	store.putRequest(openRequest("trigger", "ghost", constants.RequestStatusScrap))
	store.putRequest(openRequest("sib", "ghost", constants.RequestStatusNew))
	activity := newMockActivity()

	d := scrapDirective()
	d.EquipmentID = "ghost"
	out, err := newCascade(store, activity).Execute(adminCtx(), d)
	require.NoError(t, err)

	assert.False(t, out.EquipmentFound)
	assert.False(t, out.Logged)
	assert.Equal(t, []string{"sib"}, out.CancelledRequestIDs)
	assert.Equal(t, constants.RequestStatusCancelled, store.request("sib").Status)
	assert.Empty(t, activity.entries())
}

func TestScrapCascade_RunningTwiceCancelsNothingNew(t *testing.T) {
	store := cascadeFixture()
	cascade := newCascade(store, newMockActivity())

	_, err := cascade.Execute(adminCtx(), scrapDirective())
	require.NoError(t, err)
	out, err := cascade.Execute(adminCtx(), scrapDirective())
	require.NoError(t, err)

	assert.Empty(t, out.CancelledRequestIDs)
	assert.False(t, out.EquipmentScrapped)
}

func TestScrapCascade_FailureKeepsEarlierSteps(t *testing.T) {
	store := cascadeFixture()
	store.failCancel = errors.New("connection reset")
	activity := newMockActivity()

	out, err := newCascade(store, activity).Execute(adminCtx(), scrapDirective())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrStorage))

	assert.True(t, out.EquipmentScrapped)
	assert.Equal(t, constants.EquipmentStatusScrapped, store.equipmentByID("equip-1").Status)
	assert.Equal(t, constants.RequestStatusNew, store.request("sib-new").Status)
	assert.Empty(t, activity.entries())
}

func TestScrapCascade_LookupFailure(t *testing.T) {
	store := cascadeFixture()
	store.failFindEq = errors.New("timeout")

	_, err := newCascade(store, newMockActivity()).Execute(adminCtx(), scrapDirective())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrStorage))
	assert.Equal(t, constants.RequestStatusNew, store.request("sib-new").Status)
}

func TestScrapCascade_LogFailureIsStorageError(t *testing.T) {
	store := cascadeFixture()
	activity := &mockActivity{}
	activity.On("Append", mockAny, mockAny, mockAny).Return(errors.New("disk full"))

	out, err := newCascade(store, activity).Execute(adminCtx(), scrapDirective())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrStorage))
	assert.False(t, out.Logged)
	assert.Equal(t, []string{"sib-new", "sib-wip"}, out.CancelledRequestIDs)
}
