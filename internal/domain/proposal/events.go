package proposal

import (
	"time"

	"weekstay/internal/domain/listings"
	"weekstay/internal/domain/shared/money"
)

type ProposalSubmitted struct {
	ProposalID ProposalID
	ListingID  listings.ListingID
	GuestID    string
	Terms      ReservationTerms
	Quoted     money.Money
	At         time.Time
}

func (e ProposalSubmitted) EventName() string     { return "proposal.submitted" }
func (e ProposalSubmitted) AggregateID() string   { return string(e.ProposalID) }
func (e ProposalSubmitted) OccurredAt() time.Time { return e.At }

type ApplicationRequested struct {
	ProposalID ProposalID
	At         time.Time
}

func (e ApplicationRequested) EventName() string     { return "proposal.application_requested" }
func (e ApplicationRequested) AggregateID() string   { return string(e.ProposalID) }
func (e ApplicationRequested) OccurredAt() time.Time { return e.At }

type ReviewStarted struct {
	ProposalID ProposalID
	At         time.Time
}

func (e ReviewStarted) EventName() string     { return "proposal.review_started" }
func (e ReviewStarted) AggregateID() string   { return string(e.ProposalID) }
func (e ReviewStarted) OccurredAt() time.Time { return e.At }

type ProposalCountered struct {
	ProposalID ProposalID
	Terms      ReservationTerms
	At         time.Time
}

func (e ProposalCountered) EventName() string     { return "proposal.countered" }
func (e ProposalCountered) AggregateID() string   { return string(e.ProposalID) }
func (e ProposalCountered) OccurredAt() time.Time { return e.At }

type ProposalAccepted struct {
	ProposalID ProposalID
	Terms      ReservationTerms
	At         time.Time
}

func (e ProposalAccepted) EventName() string     { return "proposal.accepted" }
func (e ProposalAccepted) AggregateID() string   { return string(e.ProposalID) }
func (e ProposalAccepted) OccurredAt() time.Time { return e.At }

type LeaseSent struct {
	ProposalID ProposalID
	At         time.Time
}

func (e LeaseSent) EventName() string     { return "proposal.lease_sent" }
func (e LeaseSent) AggregateID() string   { return string(e.ProposalID) }
func (e LeaseSent) OccurredAt() time.Time { return e.At }

type LeaseActivated struct {
	ProposalID ProposalID
	Terms      ReservationTerms
	At         time.Time
}

func (e LeaseActivated) EventName() string     { return "proposal.lease_activated" }
func (e LeaseActivated) AggregateID() string   { return string(e.ProposalID) }
func (e LeaseActivated) OccurredAt() time.Time { return e.At }

// ProposalClosed covers the three terminal failure statuses; the status field
// tells rejection apart from guest and platform cancellation.
type ProposalClosed struct {
	ProposalID ProposalID
	Status     Status
	Reason     string
	At         time.Time
}

func (e ProposalClosed) EventName() string     { return "proposal.closed" }
func (e ProposalClosed) AggregateID() string   { return string(e.ProposalID) }
func (e ProposalClosed) OccurredAt() time.Time { return e.At }
