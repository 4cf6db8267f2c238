package travel

import (
	"github.com/samber/lo"

	"travelagent/entity"
)

type LegOutcome string

const (
	LegSucceeded   LegOutcome = "success"
	LegRejected    LegOutcome = "rejected"
	LegRemoteError LegOutcome = "remote_error"
)

type LegResult struct {
	Kind      entity.LegKind
	BookingID int64
	Outcome   LegOutcome
}

// Ledger holds the legs confirmed so far in one attempt, in completion order.
// Undo always walks it backwards.
type Ledger struct {
	results []LegResult
}

func (l *Ledger) Record(result LegResult) {
	l.results = append(l.results, result)
}

func (l *Ledger) Completed() []LegResult {
	return append([]LegResult(nil), l.results...)
}

// Unwind returns the completed legs most recent first and empties the ledger.
func (l *Ledger) Unwind() []LegResult {
	results := lo.Reverse(l.results)
	l.results = nil

	return results
}

func (l *Ledger) BookingID(kind entity.LegKind) (int64, bool) {
	result, ok := lo.Find(l.results, func(r LegResult) bool {
		return r.Kind == kind
	})

	return result.BookingID, ok
}

func (l *Ledger) Len() int {
	return len(l.results)
}

// ledgerFor rebuilds the ledger of a stored travel booking, so that
// cancelling it undoes the legs in the same order as a failed attempt would.
func ledgerFor(booking entity.TravelBooking, legs []LegDefinition) *Ledger {
	ledger := &Ledger{}
	for _, leg := range legs {
		ledger.Record(LegResult{
			Kind:      leg.Kind,
			BookingID: booking.LegBookingID(leg.Kind),
			Outcome:   LegSucceeded,
		})
	}

	return ledger
}
