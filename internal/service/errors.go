package service

import (
	"errors"
	"fmt"

	"go-parts-inventory/pkg/validator"
)

// Client errors. Handlers answer these with 400 unless noted.
var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrInvalidNXID       = errors.New("invalid part ID")
	ErrDuplicateNXID     = errors.New("part ID already exists")
	ErrPartNotFound      = errors.New("part not found")
	ErrRecordNotFound    = errors.New("record not found")
	ErrAssetNotFound     = errors.New("asset not found")
	ErrOwnerRequired     = errors.New("owner not present in request")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrMismatchedNXID    = errors.New("mismatched nxids")
	ErrInvalidKey        = errors.New("invalid key")
	ErrEmailExists       = errors.New("email already exists")
)

// ErrForbidden is answered with 403.
var ErrForbidden = errors.New("you cannot view another user's inventory")

// Auth errors, answered with 401.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user account is inactive")
)

// ErrUserNotFound is a client error when it names a checkout target and an
// auth error when it names the caller.
var ErrUserNotFound = errors.New("user not found")

// Chain integrity errors. These indicate corrupted history and are server
// errors.
var (
	ErrChainCycle  = errors.New("part record history contains a cycle")
	ErrChainBroken = errors.New("part record history references a missing record")
)

// validationError turns validator output into an ErrInvalidRequest.
func validationError(errs []*validator.ErrorResponse) error {
	first := errs[0]
	return fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrInvalidRequest, first.FailedField, first.Tag)
}

func validate(req interface{}) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return validationError(errs)
	}
	return nil
}

// IsClientError reports whether err was caused by the request rather than the
// server.
func IsClientError(err error) bool {
	for _, target := range []error{
		ErrInvalidRequest, ErrInvalidNXID, ErrDuplicateNXID, ErrPartNotFound,
		ErrRecordNotFound, ErrAssetNotFound, ErrOwnerRequired, ErrInsufficientStock,
		ErrMismatchedNXID, ErrInvalidKey, ErrEmailExists, ErrForbidden,
		ErrInvalidCredentials, ErrUserInactive, ErrUserNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
