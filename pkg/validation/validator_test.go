package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/dcodingdev/gearguard/internal/dto"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateRequest() dto.CreateRequestDTO {
	return dto.CreateRequestDTO{
		Subject:       "Hydraulic leak",
		Description:   "Oil pooling under press #2",
		Type:          "corrective",
		Priority:      "high",
		EquipmentID:   "equip-1",
		TeamID:        "team-1",
		ScheduledDate: time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestCreateRequestValidation(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(validCreateRequest()))

	bad := validCreateRequest()
	bad.Priority = "urgent"
	bad.Notes = null.StringFrom(string(make([]byte, 1001)))
	err := v.Validate(bad)
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := map[string]string{}
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	assert.Equal(t, "request_priority", fields["priority"])
	assert.Equal(t, "max", fields["notes"])
}

func TestNullFieldsAreOptional(t *testing.T) {
	v := New()

	req := validCreateRequest()
	req.Duration = null.Float64{}
	assert.NoError(t, v.Validate(req))

	req.Duration = null.Float64From(-1)
	assert.Error(t, v.Validate(req), "negative duration must be rejected")
}

func TestUpdateRequestValidation(t *testing.T) {
	v := New()

	status := "repaired"
	assert.NoError(t, v.Validate(dto.UpdateRequestDTO{Status: &status}))

	bogus := "done"
	assert.Error(t, v.Validate(dto.UpdateRequestDTO{Status: &bogus}))

	empty := ""
	assert.Error(t, v.Validate(dto.UpdateRequestDTO{Subject: &empty}), "subject cannot be blanked")
}
