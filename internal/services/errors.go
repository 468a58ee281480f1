package services

import (
	"errors"

	"smsportal/internal/repositories"
)

var (
	ErrDuplicateEmail        = repositories.ErrDuplicateEmail
	ErrNotFound              = repositories.ErrNotFound
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrAccountNotActive      = errors.New("account not active")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrMissingPhoneNumber    = errors.New("account has no phone number")
	ErrInvalidPhoneNumber    = errors.New("invalid phone number")
	ErrDispatchFailed        = errors.New("dispatch failed")
	ErrEmptyPassword         = errors.New("password is required")
	ErrCannotRejectSelf      = errors.New("cannot reject own account")
	ErrNoRecipients          = errors.New("no recipients")
)
