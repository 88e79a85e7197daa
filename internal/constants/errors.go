package constants

import "errors"

// Configuration errors.
var (
	ErrNoCredentials      = errors.New("no credentials configured, use 'ghapi login' first")
	ErrUnknownConfigKey   = errors.New("unknown configuration key")
	ErrUsernameRequired   = errors.New("username is required for basic authentication")
	ErrTokenOrBasicNeeded = errors.New("provide --token or --basic")
)

// Argument errors.
var (
	ErrUnknownResourceType = errors.New("unknown resource type")
	ErrInvalidKeyValue     = errors.New("invalid key=value pair")
	ErrNothingToUpdate     = errors.New("no fields to update, use --set field=value")
	ErrInvalidOutputFormat = errors.New("invalid output format")
)
