package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the actor lacks permission for the operation.
var ErrForbidden = errors.New("operation not permitted")

// ErrConflict indicates that the operation conflicts with the current state of the resource.
var ErrConflict = errors.New("operation conflicts with resource state")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrWalletNotFound indicates that the referenced wallet does not exist.
var ErrWalletNotFound = errors.New("wallet not found")

// ErrInsufficientFunds indicates that a debit would drive the wallet balance
// negative. No transaction is appended when this is returned.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrAlreadyPurchased indicates an active purchase already exists for the (student, course) pair.
var ErrAlreadyPurchased = errors.New("course already purchased")

// ErrAlreadyRefunded indicates a refund transaction already references this purchase.
var ErrAlreadyRefunded = errors.New("purchase already refunded")

// ErrCodeNotFound indicates that no recharge code matches the supplied string.
var ErrCodeNotFound = errors.New("recharge code not found")

// ErrCodeAlreadyUsed indicates that the recharge code has already been redeemed.
var ErrCodeAlreadyUsed = errors.New("recharge code already used")

// ErrConcurrencyConflict indicates lock or transaction contention; the
// operation can be retried a bounded number of times.
var ErrConcurrencyConflict = errors.New("concurrent modification conflict")

// ErrAuditWriteFailed indicates the business operation committed but the audit
// trail entry could not be written. The operation must still be reported as
// succeeded; the discrepancy is logged for reconciliation.
var ErrAuditWriteFailed = errors.New("audit log write failed")
