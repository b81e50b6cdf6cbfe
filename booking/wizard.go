package booking

import (
	"errors"

	"railbook/models"
	"railbook/schedule"
)

// The booking wizard is modeled as a state value plus a transition
// function rather than state objects. All business validation stays in
// the ledger and the search; the wizard only sequences them and decides
// where error recovery returns to.

type Step string

const (
	StepIdle      Step = "idle"
	StepCriteria  Step = "entering_criteria"
	StepResults   Step = "showing_results"
	StepTravelers Step = "entering_travelers"
	StepConfirmed Step = "confirmed"
	StepError     Step = "error"
)

// WizardState carries everything the flow has collected so far.
type WizardState struct {
	Step      Step
	Options   schedule.SearchOptions
	Results   []*models.Itinerary
	Selected  *models.Itinerary
	Travelers []models.TravelerRequest
	Trip      *models.Trip

	// Set while Step == StepError; Resume names the step to return to
	// once the error is acknowledged.
	Err    error
	Resume Step
}

// Event is one user or system input to the wizard.
type Event interface{ isWizardEvent() }

type EventStart struct{}

type EventSearch struct{ Options schedule.SearchOptions }

type EventSelect struct{ Choice int } // 1-indexed as presented

type EventBook struct{ Travelers []models.TravelerRequest }

type EventAcknowledge struct{}

type EventReset struct{}

func (EventStart) isWizardEvent()       {}
func (EventSearch) isWizardEvent()      {}
func (EventSelect) isWizardEvent()      {}
func (EventBook) isWizardEvent()        {}
func (EventAcknowledge) isWizardEvent() {}
func (EventReset) isWizardEvent()       {}

// Wizard holds the collaborators the transitions call into.
type Wizard struct {
	Index  *schedule.Index
	Ledger *Ledger
}

// Next applies one event to the current state and returns the next
// state. Unexpected events leave the state unchanged.
func (w *Wizard) Next(s WizardState, ev Event) WizardState {
	switch ev := ev.(type) {
	case EventReset:
		return WizardState{Step: StepIdle}

	case EventStart:
		if s.Step == StepIdle {
			return WizardState{Step: StepCriteria}
		}

	case EventSearch:
		if s.Step == StepCriteria {
			results := w.Index.Search(ev.Options)
			if len(results) == 0 {
				return failed(s, errors.New("no connections found for the given criteria"), StepCriteria)
			}
			return WizardState{Step: StepResults, Options: ev.Options, Results: results}
		}

	case EventSelect:
		if s.Step == StepResults {
			if ev.Choice < 1 || ev.Choice > len(s.Results) {
				return failed(s, errors.New("selection out of range"), StepResults)
			}
			next := s
			next.Step = StepTravelers
			next.Selected = s.Results[ev.Choice-1]
			return next
		}

	case EventBook:
		if s.Step == StepTravelers {
			trip, err := w.Ledger.Book(s.Selected, ev.Travelers)
			if err != nil {
				// Business errors return to traveler entry; storage
				// faults restart the flow since retrying blindly is
				// not allowed.
				resume := StepTravelers
				if !IsBusinessError(err) {
					resume = StepIdle
				}
				return failed(s, err, resume)
			}
			next := s
			next.Step = StepConfirmed
			next.Travelers = ev.Travelers
			next.Trip = trip
			return next
		}

	case EventAcknowledge:
		if s.Step == StepError {
			next := s
			next.Step = s.Resume
			next.Err = nil
			next.Resume = ""
			return next
		}
	}

	return s
}

func failed(s WizardState, err error, resume Step) WizardState {
	next := s
	next.Step = StepError
	next.Err = err
	next.Resume = resume
	return next
}
