package validation

import (
	"github.com/dcodingdev/gearguard/pkg/constants"

	"github.com/go-playground/validator/v10"
)

// enumRules maps a struct tag to the set of values it accepts.
var enumRules = map[string][]string{
	"request_status":     constants.RequestStatuses,
	"request_type":       constants.RequestTypes,
	"request_priority":   constants.Priorities,
	"equipment_status":   constants.EquipmentStatuses,
	"equipment_category": constants.EquipmentCategories,
	"department":         constants.Departments,
	"user_role":          constants.Roles,
	"member_role":        constants.MemberRoles,
}

// registerRules registers the tags used in DTO struct tags.
func registerRules(v *validator.Validate) error {
	for tag, allowed := range enumRules {
		if err := v.RegisterValidation(tag, oneOf(allowed)); err != nil {
			return err
		}
	}
	return nil
}

func oneOf(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return constants.Contains(allowed, fl.Field().String())
	}
}
