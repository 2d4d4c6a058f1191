package validator

// Validator bundles struct validation and business rule validation behind
// one handle that gets injected into services and handlers.
type Validator struct {
	business *BusinessValidator
}

func New() *Validator {
	return &Validator{
		business: NewBusinessValidator(),
	}
}

func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.business
}

// Validate validates any tagged struct.
func (v *Validator) Validate(s interface{}) ValidationErrors {
	return v.business.Validate(s)
}
