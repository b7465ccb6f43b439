package db

import (
	"context"
	"database/sql"
	"fmt"

	"league/codes"
	"league/entities"
	"league/message/event"
	"league/message/outbox"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type AccountRepository struct {
	conn  *DB
	codes *codes.Generator
}

func NewAccountRepository(db *DB, codesGen *codes.Generator) AccountRepository {
	return AccountRepository{
		conn:  db,
		codes: codesGen,
	}
}

type CreateAccount struct {
	Email       string
	Name        string
	Password    string
	Description string
	IsArtist    bool
	IsPromoter  bool

	ProcessorCustomerID *string
	ProcessorAccountID  *string
}

// Create registers an account and publishes AccountRegistered through the
// outbox in the same transaction.
func (r AccountRepository) Create(ctx context.Context, in CreateAccount) (entities.Account, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return entities.Account{}, fmt.Errorf("could not hash password: %w", err)
	}

	account := entities.Account{
		Email:               in.Email,
		Name:                in.Name,
		PasswordHash:        string(passwordHash),
		Credit:              decimal.Zero,
		Description:         in.Description,
		IsArtist:            in.IsArtist,
		IsPromoter:          in.IsPromoter,
		ProcessorCustomerID: in.ProcessorCustomerID,
		ProcessorAccountID:  in.ProcessorAccountID,
	}

	err = updateInTx(ctx, r.conn.Conn, sql.LevelReadCommitted, func(ctx context.Context, tx *sqlx.Tx) error {
		row := tx.QueryRowxContext(ctx, `
			INSERT INTO accounts
				(email, name, password_hash, description, is_artist, is_promoter, processor_customer_id, processor_account_id)
			VALUES
				($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, created_at`,
			account.Email, account.Name, account.PasswordHash, account.Description,
			account.IsArtist, account.IsPromoter, account.ProcessorCustomerID, account.ProcessorAccountID,
		)
		if err := row.Scan(&account.ID, &account.CreatedAt); err != nil {
			if isErrorUniqueViolation(err) {
				return entities.ErrAccountExists
			}
			return fmt.Errorf("could not insert account: %w", err)
		}

		pub, err := outbox.NewPublisherForDb(ctx, tx)
		if err != nil {
			return err
		}

		return event.NewBus(pub).Publish(ctx, entities.AccountRegistered{
			Header:     entities.NewEventHeader(),
			AccountID:  account.ID,
			Email:      account.Email,
			Name:       account.Name,
			IsArtist:   account.IsArtist,
			IsPromoter: account.IsPromoter,
		})
	})
	if err != nil {
		return entities.Account{}, err
	}

	return account, nil
}

// CreateInvited registers a placeholder account for an email that has no
// account yet and mails it a one-time password. If the account already
// exists it is returned as-is with no OTP.
func (r AccountRepository) CreateInvited(ctx context.Context, email string, eventSlug string) (entities.Account, error) {
	var account entities.Account

	err := updateInTx(ctx, r.conn.Conn, sql.LevelReadCommitted, func(ctx context.Context, tx *sqlx.Tx) error {
		row := tx.QueryRowxContext(ctx, `
			INSERT INTO accounts (email, is_artist)
			VALUES ($1, TRUE)
			ON CONFLICT (email) DO NOTHING
			RETURNING id, created_at`,
			email,
		)

		err := row.Scan(&account.ID, &account.CreatedAt)
		if err == sql.ErrNoRows {
			return tx.GetContext(ctx, &account, "SELECT * FROM accounts WHERE email = $1", email)
		}
		if err != nil {
			return fmt.Errorf("could not insert invited account: %w", err)
		}
		account.Email = email
		account.IsArtist = true

		otp, err := r.codes.OTP(account.ID)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO account_secrets (account_id, otp)
			VALUES ($1, $2)`,
			account.ID, otp,
		)
		if err != nil {
			return fmt.Errorf("could not store one-time password: %w", err)
		}

		pub, err := outbox.NewPublisherForDb(ctx, tx)
		if err != nil {
			return err
		}

		return event.NewBus(pub).Publish(ctx, entities.AccountInvited{
			Header:    entities.NewEventHeader(),
			AccountID: account.ID,
			Email:     email,
			OTP:       otp,
			EventSlug: eventSlug,
		})
	})
	if err != nil {
		return entities.Account{}, err
	}

	return account, nil
}

func (r AccountRepository) GetByID(ctx context.Context, id int64) (entities.Account, error) {
	var account entities.Account
	err := r.conn.Conn.GetContext(ctx, &account, "SELECT * FROM accounts WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return entities.Account{}, entities.ErrAccountNotFound
	}
	if err != nil {
		return entities.Account{}, fmt.Errorf("could not get account %d: %w", id, err)
	}

	return account, nil
}

func (r AccountRepository) GetByEmail(ctx context.Context, email string) (entities.Account, error) {
	var account entities.Account
	err := r.conn.Conn.GetContext(ctx, &account, "SELECT * FROM accounts WHERE email = $1", email)
	if err == sql.ErrNoRows {
		return entities.Account{}, entities.ErrAccountNotFound
	}
	if err != nil {
		return entities.Account{}, fmt.Errorf("could not get account by email: %w", err)
	}

	return account, nil
}

// GetByProcessorCustomerID resolves the buyer account behind a processor
// charge. Settlement depends on this mapping being present.
func (r AccountRepository) GetByProcessorCustomerID(ctx context.Context, customerID string) (entities.Account, error) {
	var account entities.Account
	err := r.conn.Conn.GetContext(ctx, &account, "SELECT * FROM accounts WHERE processor_customer_id = $1", customerID)
	if err == sql.ErrNoRows {
		return entities.Account{}, entities.ErrAccountNotFound
	}
	if err != nil {
		return entities.Account{}, fmt.Errorf("could not get account by processor customer: %w", err)
	}

	return account, nil
}

// GetByProcessorAccountID resolves the promoter behind a direct charge.
func (r AccountRepository) GetByProcessorAccountID(ctx context.Context, accountID string) (entities.Account, error) {
	var account entities.Account
	err := r.conn.Conn.GetContext(ctx, &account, "SELECT * FROM accounts WHERE processor_account_id = $1", accountID)
	if err == sql.ErrNoRows {
		return entities.Account{}, entities.ErrAccountNotFound
	}
	if err != nil {
		return entities.Account{}, fmt.Errorf("could not get account by processor account: %w", err)
	}

	return account, nil
}

func (r AccountRepository) Authenticate(ctx context.Context, email, password string) (entities.Account, error) {
	account, err := r.GetByEmail(ctx, email)
	if err != nil {
		return entities.Account{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return entities.Account{}, entities.ErrAccountNotFound
	}

	return account, nil
}

// SetCredit overwrites an account's balance. Operator action, not part of
// any settlement path.
func (r AccountRepository) SetCredit(ctx context.Context, accountID int64, credit decimal.Decimal) error {
	res, err := r.conn.Conn.ExecContext(ctx, "UPDATE accounts SET credit = $1 WHERE id = $2", credit, accountID)
	if err != nil {
		return fmt.Errorf("could not set credit: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entities.ErrAccountNotFound
	}

	return nil
}

func (r AccountRepository) VerifyPromoter(ctx context.Context, accountID int64) error {
	return updateInTx(ctx, r.conn.Conn, sql.LevelReadCommitted, func(ctx context.Context, tx *sqlx.Tx) error {
		var account entities.Account
		err := tx.GetContext(ctx, &account, `
			UPDATE accounts SET is_verified = TRUE
			WHERE id = $1 AND is_promoter
			RETURNING *`,
			accountID,
		)
		if err == sql.ErrNoRows {
			return entities.ErrAccountNotFound
		}
		if err != nil {
			return fmt.Errorf("could not verify promoter: %w", err)
		}

		pub, err := outbox.NewPublisherForDb(ctx, tx)
		if err != nil {
			return err
		}

		return event.NewBus(pub).Publish(ctx, entities.PromoterVerified{
			Header:    entities.NewEventHeader(),
			AccountID: account.ID,
			Email:     account.Email,
			Name:      account.Name,
		})
	})
}

// LockTx takes row locks on the given accounts in ascending id order, so
// concurrent settlements touching the same accounts cannot deadlock. The ids
// may repeat (a promoter paying for their own event appears twice); an id
// with no matching row fails the transaction.
func (r AccountRepository) LockTx(ctx context.Context, tx *sqlx.Tx, ids []int64) error {
	distinct := map[int64]struct{}{}
	for _, id := range ids {
		distinct[id] = struct{}{}
	}

	var locked []int64
	err := tx.SelectContext(ctx, &locked, "SELECT id FROM accounts WHERE id = ANY($1) ORDER BY id FOR UPDATE", pq.Array(ids))
	if err != nil {
		return fmt.Errorf("could not lock accounts: %w", err)
	}
	if len(locked) != len(distinct) {
		return fmt.Errorf("locked %d of %d accounts: %w", len(locked), len(distinct), entities.ErrAccountNotFound)
	}

	return nil
}

func (r AccountRepository) CreditTx(ctx context.Context, tx *sqlx.Tx, accountID int64, amount decimal.Decimal) error {
	_, err := tx.ExecContext(ctx, "UPDATE accounts SET credit = credit + $1 WHERE id = $2", amount, accountID)
	if err != nil {
		return fmt.Errorf("could not credit account %d: %w", accountID, err)
	}

	return nil
}

// DebitTx fails with ErrInsufficientCredit instead of letting the balance go
// negative. Callers must hold the account lock.
func (r AccountRepository) DebitTx(ctx context.Context, tx *sqlx.Tx, accountID int64, amount decimal.Decimal) error {
	res, err := tx.ExecContext(ctx, "UPDATE accounts SET credit = credit - $1 WHERE id = $2 AND credit >= $1", amount, accountID)
	if err != nil {
		return fmt.Errorf("could not debit account %d: %w", accountID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entities.ErrInsufficientCredit
	}

	return nil
}
