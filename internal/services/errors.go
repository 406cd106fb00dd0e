package services

import "errors"

var (
	ErrOrderNotFound            = errors.New("order not found")
	ErrNotificationNotFound     = errors.New("notification not found")
	ErrForbidden                = errors.New("forbidden")
	ErrInvalidTransition        = errors.New("invalid status transition")
	ErrNotCancellable           = errors.New("only pending orders can be cancelled")
	ErrStatusConflict           = errors.New("order status changed concurrently")
	ErrPaymentReferenceRequired = errors.New("payment reference is required")
	ErrPaymentNotCompleted      = errors.New("payment not completed")
	ErrPaymentAmountMismatch    = errors.New("paid amount does not match order total")
	ErrPaymentCurrencyMismatch  = errors.New("paid currency does not match order currency")
	ErrPaymentReferenceUsed     = errors.New("payment reference already used for another order")
)
