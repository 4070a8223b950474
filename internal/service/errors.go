package service

import "errors"

var (
	ErrInvalidPasscode  = errors.New("Invalid passcode")
	ErrPasscodeNotFound = errors.New("Passcode not found")
)
