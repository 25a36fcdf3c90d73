package models

import "time"

// Transfer represents a creation-fee payment instruction handed to the payment sink.
type Transfer struct {
	// ID is the unique identifier for the transfer (UUID format).
	ID string `json:"id"`

	// Amount is the fee charged, in the registry's fee unit.
	Amount uint64 `json:"amount"`

	// From is the payer (the group creator).
	From Principal `json:"from"`

	// To is the payee (the configured authority contract).
	To Principal `json:"to"`

	// Refunds is the ID of the transfer this entry reverses. Empty for fee charges.
	Refunds string `json:"refunds,omitempty"`

	// RecordedAt is the wall-clock time the ledger accepted the transfer.
	RecordedAt time.Time `json:"recorded_at"`
}
