package domain

import "time"

// Payment types recorded by collection agents on a ledger case.
const (
	PaymentNone    = ""
	PaymentTotal   = "Total"
	PaymentPartial = "Parcial"
)

// LedgerRecord is one purchase/debt case from the master ledger table.
// An identifier (customer) may own zero, one, or many records; dedup is
// the responder resolver's job, never the repository's.
//
// The ledger is written continuously by external agents and bots; this
// service only ever reads it.
type LedgerRecord struct {
	Identifier      int64  `json:"identifier" db:"identifier"`
	DisplayName     string `json:"display_name" db:"display_name"`
	Phone           string `json:"phone" db:"phone"`
	ConversationRef int64  `json:"conversation_ref" db:"conversation_ref"`

	AmountPastDue            float64 `json:"amount_past_due" db:"amount_past_due"`
	AmountNotYetDue          float64 `json:"amount_not_yet_due" db:"amount_not_yet_due"`
	RemainingPastDueAfterPartial float64 `json:"remaining_past_due_after_partial" db:"remaining_past_due"`

	// DaysPastDue is signed: negative means the case is not yet due.
	DaysPastDue int `json:"days_past_due" db:"days_past_due"`

	ReceiptSent       bool   `json:"receipt_sent" db:"receipt_sent"`
	ClaimsAlreadyPaid bool   `json:"claims_already_paid" db:"claims_already_paid"`
	CallAgain         bool   `json:"call_again" db:"call_again"`
	PaymentType       string `json:"payment_type" db:"payment_type"`

	CommitmentDate *time.Time `json:"commitment_date" db:"commitment_date"`
	StateTag       string     `json:"state_tag" db:"state_tag"`
}

// HasConversation reports whether the case ever reached the chat platform.
// NULL and 0 both mean "no conversation"; the repository scans NULL as 0 so
// a single zero check covers both.
//
// This is the authoritative "responded" predicate. Every responded/not
// responded count in the system must trace back to it (via the classifier);
// re-deriving it ad hoc at a call site is a defect.
func (r LedgerRecord) HasConversation() bool { return r.ConversationRef != 0 }
