package httperr

import "errors"

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// Error codes shared across the payment and booking flows. The split between
// CodeProviderUnavailable (retryable) and CodeProviderCredentials (fix the
// account settings first) is part of the API contract.
const (
	CodeProviderUnavailable = "provider_unavailable"
	CodeProviderCredentials = "provider_credentials"
	CodeSlotTaken           = "slot_taken"
	CodeInvalidState        = "invalid_state"
	CodeNotFound            = "not_found"
)

func IsTransient(err error) bool {
	return IsBusiness(err, CodeProviderUnavailable)
}

func IsConfiguration(err error) bool {
	return IsBusiness(err, CodeProviderCredentials)
}

func IsConflict(err error) bool {
	return IsBusiness(err, CodeSlotTaken)
}
