package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dcodingdev/gearguard/pkg/constants"
)

func TestReconciler_FinishesInterruptedCascade(t *testing.T) {
	store := cascadeFixture()
	eq := store.equipmentByID("equip-1")
	eq.Status = constants.EquipmentStatusScrapped
	eq.IsScraped = true
	store.putEquipment(eq)
	activity := newMockActivity()

	r := NewReconciler(&memRequestRepo{store}, activity, nil, zap.NewNop()).(*Reconciler)
	r.clock = fixedClock

	report, err := r.Run(t.Context())
	require.NoError(t, err)
	assert.Equal(t, ReconcileReport{Equipment: 1, Cancelled: 2}, report)

	assert.Equal(t, constants.RequestStatusCancelled, store.request("sib-new").Status)
	assert.Equal(t, constants.RequestStatusCancelled, store.request("sib-wip").Status)
	assert.Equal(t, constants.RequestStatusScrap, store.request("trigger").Status)
	assert.Equal(t, constants.RequestStatusNew, store.request("other").Status)

	entries := activity.entries()
	require.Len(t, entries, 1)
	assert.Equal(t, SystemActor.UserID, entries[0].UserID)
	assert.Equal(t, "equip-1", entries[0].EntityID)

	again, err := r.Run(t.Context())
	require.NoError(t, err)
	assert.Zero(t, again.Cancelled)
	assert.Len(t, activity.entries(), 1)
}

func TestReconciler_NothingToDo(t *testing.T) {
	store := cascadeFixture()
	activity := newMockActivity()

	report, err := NewReconciler(&memRequestRepo{store}, activity, nil, zap.NewNop()).Run(t.Context())
	require.NoError(t, err)
	assert.Zero(t, report.Equipment)
	assert.Empty(t, activity.entries())
}
