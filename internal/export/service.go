// Package export writes a trip's ledger back out in shareable formats.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tripsplit/internal/ledger"
	"github.com/MrJamesThe3rd/tripsplit/internal/settlement"
	"github.com/MrJamesThe3rd/tripsplit/internal/trip"
)

// header matches the English spreadsheet profile, so an exported file can be
// imported again as-is.
var header = []string{"Date", "Description", "Amount", "Currency", "Paid by", "Split among"}

type Expenses interface {
	ListExpenses(ctx context.Context, actorID, tripID uuid.UUID) ([]ledger.Expense, error)
	Settle(ctx context.Context, actorID, tripID uuid.UUID) (settlement.Result, error)
}

type Participants interface {
	Participants(ctx context.Context, tripID uuid.UUID) ([]*trip.Participant, error)
}

type Service struct {
	expenses     Expenses
	participants Participants
}

func NewService(expenses Expenses, participants Participants) *Service {
	return &Service{expenses: expenses, participants: participants}
}

// WriteCSV writes every expense of the trip as one spreadsheet row.
func (s *Service) WriteCSV(ctx context.Context, actorID, tripID uuid.UUID, w io.Writer) error {
	expenses, err := s.expenses.ListExpenses(ctx, actorID, tripID)
	if err != nil {
		return err
	}

	names, err := s.names(ctx, tripID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, e := range expenses {
		paidBy := ""
		if e.PaidBy != nil {
			paidBy = names[*e.PaidBy]
		}

		among := make([]string, len(e.Shares))
		for i, sh := range e.Shares {
			among[i] = names[sh.ParticipantID]
		}

		record := []string{
			e.ExpenseDate.Format("2006-01-02"),
			e.Description,
			e.Amount.StringFixed(2),
			string(e.Currency),
			paidBy,
			strings.Join(among, ", "),
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing expense %s: %w", e.ID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

func (s *Service) names(ctx context.Context, tripID uuid.UUID) (map[uuid.UUID]string, error) {
	ps, err := s.participants.Participants(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("listing participants: %w", err)
	}

	names := make(map[uuid.UUID]string, len(ps))
	for _, p := range ps {
		names[p.ID] = p.Name
	}

	return names, nil
}

// Summary renders the suggested transfers as a plain-text message that can be
// pasted into a group chat.
func (s *Service) Summary(ctx context.Context, actorID, tripID uuid.UUID) (string, error) {
	res, err := s.expenses.Settle(ctx, actorID, tripID)
	if err != nil {
		return "", err
	}

	return FormatSummary(res), nil
}

func FormatSummary(res settlement.Result) string {
	if len(res.Transfers) == 0 {
		return "Everyone is settled up.\n"
	}

	var sb strings.Builder

	for _, cur := range res.Currencies {
		wrote := false

		for _, t := range res.Transfers {
			if t.Currency != cur {
				continue
			}

			if !wrote {
				fmt.Fprintf(&sb, "%s\n", cur)

				wrote = true
			}

			fmt.Fprintf(&sb, "* %s → %s: %s %s\n", t.FromName, t.ToName, t.Amount.StringFixed(2), t.Currency)
		}
	}

	return sb.String()
}
