package errorvalues

import "errors"

var (
	ErrUserExists       = errors.New("such user already exists")
	ErrUserNotFound     = errors.New("user doesn't exists")
	ErrWrongCredentials = errors.New("wrong name or password")
	ErrInvalidToken     = errors.New("invalid token")
	ErrUnauthenticated  = errors.New("no authenticated user")
	ErrValidation       = errors.New("validation failed")
)

var (
	ErrHabitNotFound = errors.New("habit doesn't exist")
	ErrOwnerNotFound = errors.New("habit owner doesn't exist")
	ErrWrongOwner    = errors.New("habit belongs to another user")
	ErrHabitExists   = errors.New("habit with such id already exists")
)

var (
	ErrEntryExists   = errors.New("entry for this date already exists")
	ErrEntryNotFound = errors.New("entry doesn't exist")
	ErrFutureDate    = errors.New("date is in the future")
	ErrInvalidDate   = errors.New("invalid date key")
)

var (
	ErrInvalidImport  = errors.New("invalid import document")
	ErrBackupDisabled = errors.New("backup storage is not configured")
)
