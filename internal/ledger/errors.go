package ledger

import "errors"

var (
	// ErrMissingID indicates a source record without an id.
	ErrMissingID = errors.New("ledger: transaction id is required")
	// ErrMissingDate indicates a source record without a date.
	ErrMissingDate = errors.New("ledger: transaction date is required")
	// ErrNegativeAmount indicates a document total below zero.
	ErrNegativeAmount = errors.New("ledger: document amount must not be negative")
	// ErrVoucherSign indicates a receipt with a negative amount or a payment with a positive one.
	ErrVoucherSign = errors.New("ledger: voucher amount sign does not match its type")
	// ErrWrongDocumentKind indicates a document wrapped in the wrong effect variant.
	ErrWrongDocumentKind = errors.New("ledger: document kind does not match effect")
	// ErrUnknownPartyKind indicates a party effect without customer/supplier kind.
	ErrUnknownPartyKind = errors.New("ledger: unknown party kind")
	// ErrUnknownNoteDirection indicates a note whose type cannot be determined.
	ErrUnknownNoteDirection = errors.New("ledger: cannot determine note direction")
	// ErrControlLineMissing indicates a note without a line on the control account.
	ErrControlLineMissing = errors.New("ledger: note has no line on the control account")
	// ErrNoteDirectionMismatch indicates the textual note type disagrees with its lines.
	ErrNoteDirectionMismatch = errors.New("ledger: note type disagrees with control account line")
	// ErrUnsupportedEffect indicates an Effect variant Normalize does not know.
	ErrUnsupportedEffect = errors.New("ledger: unsupported effect")
	// ErrDuplicateTransaction indicates an id already present in the state.
	ErrDuplicateTransaction = errors.New("ledger: duplicate transaction id")
	// ErrTransactionNotFound indicates an id missing from the state.
	ErrTransactionNotFound = errors.New("ledger: transaction not found")
	// ErrAlreadyArchived indicates archiving an archived transaction.
	ErrAlreadyArchived = errors.New("ledger: transaction already archived")
)
