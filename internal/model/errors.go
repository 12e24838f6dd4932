package model

import "errors"

var (
	ErrOverdraftExceeded       = errors.New("posting exceeds the account overdraft limit")
	ErrAccountInactive         = errors.New("bank account is inactive")
	ErrInvalidStatusTransition = errors.New("status transition not allowed")
	ErrTransactionLocked       = errors.New("only unreconciled transactions can be changed")
	ErrPaymentNotFound         = errors.New("payment not found for tenant")
	ErrScheduleNotActive       = errors.New("schedule is not active")
	ErrLineClosed              = errors.New("schedule line is already settled")
	ErrAmountExceedsRemaining  = errors.New("amount exceeds the remaining amount")
)
