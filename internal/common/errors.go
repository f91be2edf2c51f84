// Package common holds the sentinel errors shared by the service and
// HTTP layers. Handlers match on these to pick a response code.
package common

import "errors"

var (
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrUserNotFound            = errors.New("user not found")
	ErrPlanNotFound            = errors.New("plan not found")
	ErrPlanInactive            = errors.New("plan is not active")
	ErrRequestNotFound         = errors.New("request not found")
	ErrRequestAlreadyProcessed = errors.New("request already processed")
	ErrCommissionNotFound      = errors.New("commission not found")
	ErrCommissionNotHeld       = errors.New("commission already processed")
	ErrInvalidReferralCode     = errors.New("invalid referral code")
	ErrSelfReferral            = errors.New("cannot refer yourself")
	ErrInvalidAmount           = errors.New("amount must be positive")
	ErrInvalidCredentials      = errors.New("invalid login credentials")
	ErrAccountBlocked          = errors.New("account is blocked")
	ErrEmailTaken              = errors.New("email already registered")
	ErrUsernameTaken           = errors.New("username already taken")
)
