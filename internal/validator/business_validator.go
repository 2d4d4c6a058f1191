package validator

import (
	"github.com/go-playground/validator/v10"

	"github.com/campuskit/enrollment-service/internal/models"
)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	if err := bv.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateUserCreate validates signup business rules.
func (bv *BusinessValidator) ValidateUserCreate(req *UserCreateRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateUserUpdate validates profile update business rules.
func (bv *BusinessValidator) ValidateUserUpdate(req *UserUpdateRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateLogin validates login business rules.
func (bv *BusinessValidator) ValidateLogin(req *LoginRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateCourseCreate validates course creation business rules.
func (bv *BusinessValidator) ValidateCourseCreate(req *CourseCreateRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateCourseUpdate validates course update business rules.
func (bv *BusinessValidator) ValidateCourseUpdate(req *CourseUpdateRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateEnrollmentCreate validates enrollment creation business rules.
func (bv *BusinessValidator) ValidateEnrollmentCreate(req *EnrollmentCreateRequest) ValidationErrors {
	return bv.Validate(req)
}

func (bv *BusinessValidator) registerBusinessRules() {
	// user_role restricts role values to the known set.
	bv.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.ValidRole(models.UserRole(fl.Field().String()))
	})

	// class_code enforces the 1..15 range.
	bv.validate.RegisterValidation("class_code", func(fl validator.FieldLevel) bool {
		code := fl.Field().Int()
		return code >= models.MinClassCode && code <= models.MaxClassCode
	})
}
