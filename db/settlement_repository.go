package db

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"league/codes"
	"league/entities"
	"league/message/command"
	"league/message/event"
	"league/message/outbox"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// SettlementRepository turns a successful processor charge into issued
// tickets and ledger moves. One transaction covers the idempotency record,
// cart verification, stock, credits and the outgoing events; promoter
// payouts are published as commands and executed after commit.
type SettlementRepository struct {
	conn     *DB
	codes    *codes.Generator
	accounts AccountRepository
}

func NewSettlementRepository(db *DB, codesGen *codes.Generator, accounts AccountRepository) SettlementRepository {
	return SettlementRepository{
		conn:     db,
		codes:    codesGen,
		accounts: accounts,
	}
}

func (r SettlementRepository) Settle(ctx context.Context, s entities.Settlement) error {
	return updateInTx(ctx, r.conn.Conn, sql.LevelReadCommitted, func(ctx context.Context, tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO processed_payment_events (processor_event_id) VALUES ($1)",
			s.ProcessorEventID,
		)
		if isErrorUniqueViolation(err) {
			return entities.ErrDuplicateWebhookEvent
		}
		if err != nil {
			return fmt.Errorf("could not record webhook event: %w", err)
		}

		if !strings.EqualFold(s.Currency, entities.DefaultCurrency) {
			return fmt.Errorf("unexpected currency %q: %w", s.Currency, entities.ErrCartMismatch)
		}

		cart, err := entities.ParseCart(s.CartPayload)
		if err != nil {
			return fmt.Errorf("%v: %w", err, entities.ErrCartMismatch)
		}

		// The payment-intent flow credits the buyer behind the customer
		// id; a direct charge was paid by the promoter's connected
		// account and the tickets are issued unclaimed.
		var payer entities.Account
		if s.Flow == entities.FlowDirectCharge {
			payer, err = r.accounts.GetByProcessorAccountID(ctx, s.DestinationID)
			if err != nil {
				return fmt.Errorf("unknown processor account %q: %w", s.DestinationID, entities.ErrCartMismatch)
			}
		} else {
			payer, err = r.accounts.GetByProcessorCustomerID(ctx, s.CustomerID)
			if err != nil {
				return fmt.Errorf("unknown processor customer %q: %w", s.CustomerID, entities.ErrCartMismatch)
			}
		}

		types := map[string]entities.TicketType{}
		events := map[int64]entities.Event{}
		prices := map[string]decimal.Decimal{}
		for _, slug := range cartSlugs(cart) {
			tt, err := lockTicketTypeTx(ctx, tx, slug)
			if err == sql.ErrNoRows {
				return fmt.Errorf("unknown ticket type %q: %w", slug, entities.ErrCartMismatch)
			}
			if err != nil {
				return fmt.Errorf("could not lock ticket type: %w", err)
			}
			types[slug] = tt
			prices[slug] = tt.Price

			if _, ok := events[tt.EventID]; !ok {
				ev, err := eventByIDTx(ctx, tx, tt.EventID)
				if err != nil {
					return err
				}
				events[tt.EventID] = ev
			}
		}

		total, err := cart.Total(prices)
		if err != nil {
			return err
		}
		if err := cart.ValidateReportedTotal(total, s.AmountMinor); err != nil {
			return err
		}

		accountIDs := []int64{payer.ID}
		for _, ev := range events {
			accountIDs = append(accountIDs, ev.PromoterID)
		}
		if err := r.accounts.LockTx(ctx, tx, accountIDs); err != nil {
			return err
		}

		// The payer's balance absorbs the charge first so the per-line
		// debits below can never push it negative.
		if err := r.accounts.CreditTx(ctx, tx, payer.ID, total); err != nil {
			return err
		}

		pub, err := outbox.NewPublisherForDb(ctx, tx)
		if err != nil {
			return err
		}
		eventBus := event.NewBus(pub)
		commandBus := command.NewBus(pub)

		promoterTotals := map[int64]decimal.Decimal{}
		ticketCount := 0

		for _, line := range cart.Lines {
			tt := types[line.TicketTypeSlug]
			ev := events[tt.EventID]

			if err := decrementStockTx(ctx, tx, tt, line.Quantity); err != nil {
				return err
			}

			lineTotal := tt.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			if err := r.accounts.DebitTx(ctx, tx, payer.ID, lineTotal); err != nil {
				return err
			}
			if s.Flow == entities.FlowPaymentIntent {
				if err := r.accounts.CreditTx(ctx, tx, ev.PromoterID, lineTotal); err != nil {
					return err
				}
				promoterTotals[ev.PromoterID] = promoterTotals[ev.PromoterID].Add(lineTotal)
			}

			var voteID *int64
			voteSlug := line.Vote
			if voteSlug != nil {
				tally, err := tallyBySlugTx(ctx, tx, *voteSlug)
				if err != nil || tally.EventID != ev.ID {
					// A bad pre-vote doesn't hold the money back. The
					// ticket is issued without it and can vote later.
					log.FromContext(ctx).
						WithField("vote", *voteSlug).
						WithField("charge_id", s.ChargeID).
						Warn("Ignoring invalid pre-vote in cart")
					voteSlug = nil
				} else {
					voteID = &tally.ID
				}
			}

			params := issueParams{
				ownerID:    &payer.ID,
				ownerEmail: payer.Email,
				voteID:     voteID,
				voteSlug:   voteSlug,
				chargeID:   s.ChargeID,
			}
			if s.Flow == entities.FlowDirectCharge {
				params.ownerID = nil
				params.ownerEmail = ""
			}

			for i := 0; i < line.Quantity; i++ {
				_, issued, err := issueTicketTx(ctx, tx, r.codes, tt, ev, params)
				if err != nil {
					return err
				}
				if err := eventBus.Publish(ctx, issued); err != nil {
					return err
				}
				ticketCount++
			}
		}

		err = eventBus.Publish(ctx, entities.PaymentRecorded{
			Header:           entities.NewEventHeaderWithIdempotencyKey(s.ProcessorEventID),
			ProcessorEventID: s.ProcessorEventID,
			ChargeID:         s.ChargeID,
			Flow:             s.Flow,
			BuyerAccountID:   payer.ID,
			Amount:           entities.MoneyFromMinorUnits(s.AmountMinor),
			TicketCount:      ticketCount,
		})
		if err != nil {
			return err
		}

		if s.Flow != entities.FlowPaymentIntent {
			return nil
		}

		for _, promoterID := range sortedKeys(promoterTotals) {
			promoter, err := r.accounts.GetByID(ctx, promoterID)
			if err != nil {
				return err
			}
			if promoter.ProcessorAccountID == nil {
				log.FromContext(ctx).
					WithField("promoter_id", promoterID).
					Warn("Promoter has no connected processor account, keeping funds internal")
				continue
			}

			share := promoterTotals[promoterID].Mul(entities.PromoterShare).Round(2)
			err = commandBus.Send(ctx, entities.TransferFunds{
				Header:             entities.NewEventHeaderWithIdempotencyKey(fmt.Sprintf("%s-%d", s.ChargeID, promoterID)),
				ChargeID:           s.ChargeID,
				PromoterAccountID:  promoterID,
				ProcessorAccountID: *promoter.ProcessorAccountID,
				Amount:             entities.NewMoney(share),
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
}

func cartSlugs(cart entities.Cart) []string {
	seen := map[string]struct{}{}
	var slugs []string
	for _, line := range cart.Lines {
		if _, ok := seen[line.TicketTypeSlug]; ok {
			continue
		}
		seen[line.TicketTypeSlug] = struct{}{}
		slugs = append(slugs, line.TicketTypeSlug)
	}
	sort.Strings(slugs)

	return slugs
}

func sortedKeys(m map[int64]decimal.Decimal) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return keys
}
