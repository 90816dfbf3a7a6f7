package services

import "errors"

var (
	// ErrEmailTaken is returned when a registration or profile update
	// would reuse an email held by another account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers both unknown email and wrong password
	// so login failures cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrWrongPassword is returned by the password-change flow when the
	// current-password proof fails.
	ErrWrongPassword = errors.New("current password incorrect")
)
