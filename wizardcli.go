package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"railbook/booking"
	"railbook/models"
	"railbook/schedule"
)

// runWizard drives the booking state machine from an interactive
// prompt. All business validation happens inside the ledger; this loop
// only collects input and renders the current state.
func runWizard(idx *schedule.Index, ledger *booking.Ledger, policy schedule.LayoverPolicy, in io.Reader, out io.Writer) error {
	wizard := &booking.Wizard{Index: idx, Ledger: ledger}
	scanner := bufio.NewScanner(in)

	state := wizard.Next(booking.WizardState{Step: booking.StepIdle}, booking.EventStart{})

	for {
		switch state.Step {
		case booking.StepCriteria:
			fmt.Fprintln(out, schedule.PolicyDescription(policy))
			opts := schedule.DefaultSearchOptions()
			opts.Policy = policy
			opts.From = prompt(out, scanner, "From city: ")
			opts.To = prompt(out, scanner, "To city: ")
			if stops, err := strconv.Atoi(prompt(out, scanner, "Max stops [0-2, default 2]: ")); err == nil && stops >= 0 && stops <= 2 {
				opts.MaxStops = stops
			}
			state = wizard.Next(state, booking.EventSearch{Options: opts})

		case booking.StepResults:
			fmt.Fprintf(out, "Found %d connections:\n", len(state.Results))
			for i, it := range state.Results {
				fmt.Fprintf(out, "  %d) %s  (%d min, %.2f EUR second class)\n",
					i+1, it.Summary(), it.TotalTravelMinutes(), it.Fare("second"))
			}
			choice, err := strconv.Atoi(prompt(out, scanner, "Select connection: "))
			if err != nil {
				choice = 0
			}
			state = wizard.Next(state, booking.EventSelect{Choice: choice})

		case booking.StepTravelers:
			travelers, err := collectTravelers(out, scanner)
			if err != nil {
				return err
			}
			state = wizard.Next(state, booking.EventBook{Travelers: travelers})

		case booking.StepConfirmed:
			trip := state.Trip
			fmt.Fprintf(out, "Booked! Trip %d, %d traveler(s).\n", trip.TripID, trip.TotalTravelers())
			for _, res := range trip.Reservations {
				fmt.Fprintf(out, "  ticket %d: %s\n", res.Ticket.TicketID, res.Client.FullName())
			}
			return nil

		case booking.StepError:
			fmt.Fprintf(out, "Error: %v\n", state.Err)
			if state.Resume == booking.StepIdle {
				// Storage fault: do not retry blindly.
				return state.Err
			}
			state = wizard.Next(state, booking.EventAcknowledge{})

		default:
			return fmt.Errorf("wizard reached unexpected step %q", state.Step)
		}
	}
}

func collectTravelers(out io.Writer, scanner *bufio.Scanner) ([]models.TravelerRequest, error) {
	count, err := strconv.Atoi(prompt(out, scanner, "Number of travelers: "))
	if err != nil || count < 1 {
		count = 1
	}

	travelers := make([]models.TravelerRequest, 0, count)
	for i := 0; i < count; i++ {
		fmt.Fprintf(out, "Traveler %d\n", i+1)
		t := models.TravelerRequest{
			FirstName: prompt(out, scanner, "  First name: "),
			LastName:  prompt(out, scanner, "  Last name: "),
			IDNumber:  prompt(out, scanner, "  ID number: "),
		}
		if age, err := strconv.Atoi(prompt(out, scanner, "  Age: ")); err == nil {
			t.Age = age
		}
		travelers = append(travelers, t)
	}
	return travelers, nil
}

func prompt(out io.Writer, scanner *bufio.Scanner, label string) string {
	fmt.Fprint(out, label)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}
