package domain

import "time"

// CategoryKind enumerates the collection-campaign categories. The kind is
// assigned once when a campaign source is registered in configuration;
// nothing downstream re-parses display names.
type CategoryKind string

const (
	CategoryNegativeDays      CategoryKind = "negative_days"
	CategoryPositiveDays      CategoryKind = "positive_days"
	CategoryZeroDays          CategoryKind = "zero_days"
	CategoryPaymentCommitment CategoryKind = "payment_commitment"
	CategoryReactivation      CategoryKind = "reactivation"
	CategoryOther             CategoryKind = "other"
)

// Category tags a campaign with its collection stage. Days is only
// meaningful for the day-count kinds and carries the sign of the stage:
// -5 for a "five days before due" campaign, +3 for "three days overdue".
type Category struct {
	Kind CategoryKind `json:"kind" yaml:"kind"`
	Days int          `json:"days,omitempty" yaml:"days,omitempty"`
}

// HasExpectedDays reports whether the category pins responders to an exact
// days-past-due value (the day-count kinds do, commitment/reactivation don't).
func (c Category) HasExpectedDays() bool {
	switch c.Kind {
	case CategoryNegativeDays, CategoryPositiveDays, CategoryZeroDays:
		return true
	}
	return false
}

// ExpectedDays returns the signed days-past-due the campaign targets.
// Zero-days campaigns target exactly 0; callers must gate on
// HasExpectedDays first.
func (c Category) ExpectedDays() int {
	if c.Kind == CategoryZeroDays {
		return 0
	}
	return c.Days
}

// CampaignSendRecord is one send-batch event row from a campaign's source
// table: written by the upstream send job, read-only here.
type CampaignSendRecord struct {
	Date        time.Time `json:"date" db:"send_date"`
	SentCount   int       `json:"sent_count" db:"sent_count"`
	Identifiers []string  `json:"identifiers" db:"identifiers"`
}

// CampaignMetrics holds the reconciled engagement numbers for one campaign
// (or for the global union when Campaign is empty).
//
// Invariant: Responded + NotResponded == UniqueIdentifiers, always. The
// reconciler asserts it; a violation is a logic bug, not bad data.
type CampaignMetrics struct {
	Campaign          string  `json:"campaign,omitempty"`
	Sent              int     `json:"sent"`
	Cost              float64 `json:"cost"`
	UniqueIdentifiers int     `json:"unique_identifiers"`
	Responded         int     `json:"responded"`
	NotResponded      int     `json:"not_responded"`
}

// ResponseRate returns responded as a percentage of unique identifiers,
// or 0 for an empty campaign.
func (m CampaignMetrics) ResponseRate() float64 {
	if m.UniqueIdentifiers == 0 {
		return 0
	}
	return float64(m.Responded) / float64(m.UniqueIdentifiers) * 100
}
