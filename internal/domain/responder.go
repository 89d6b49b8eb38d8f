package domain

// ResponderProfile is the single deduplicated ledger case selected for one
// responding identifier within one campaign, tagged with the debt that is
// relevant for that campaign's stage.
type ResponderProfile struct {
	Record        LedgerRecord `json:"record"`
	RelevantDebt  float64      `json:"relevant_debt"`
	PaymentStatus string       `json:"payment_status"`
}

// Payment status labels attached to responder profiles.
const (
	StatusUnderReview   = "under_review"    // receipt sent, pending verification
	StatusPaidTotal     = "paid_total"      // full payment recorded
	StatusPaidPartial   = "paid_partial"    // partial payment, remainder open
	StatusNoDebt        = "no_debt"         // relevant balance already at zero
	StatusPending       = "pending"         // open balance, no payment yet
)

// CampaignAnalysis is the per-campaign responder rollup consumed by the
// recommendation engine and the dashboard. All rates are percentages in
// [0, 100]; debt amounts are in account currency.
type CampaignAnalysis struct {
	Campaign        string  `json:"campaign"`
	TotalResponders int     `json:"total_responders"`

	EffectiveResponseRate float64 `json:"effectiveResponseRate"`
	AlreadyPaidRate       float64 `json:"alreadyPaidRate"`
	PartialPaymentRate    float64 `json:"partialPaymentRate"`
	NoDebtAnymoreRate     float64 `json:"noDebtAnymoreRate"`
	SentReceiptRate       float64 `json:"sentReceiptRate"`
	AgendoCompromisoRate  float64 `json:"agendoCompromisoRate"`
	TotalPendingDebt      float64 `json:"totalPendingDebt"`
	AverageDaysPastDue    float64 `json:"averageDaysPastDue"`
}

// Recommendation is the send/no-send verdict for one campaign, with the
// metrics the decision table actually looked at.
type Recommendation struct {
	Decision string           `json:"decision"` // "YES" or "NO"
	Reason   string           `json:"reason"`
	Metrics  CampaignAnalysis `json:"metrics"`
}

const (
	DecisionYes = "YES"
	DecisionNo  = "NO"
)
