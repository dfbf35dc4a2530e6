package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/hisab-books/ledger_backend/internal/apperrors"
	"github.com/hisab-books/ledger_backend/internal/core/domain"
	portsrepo "github.com/hisab-books/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxLedgerRepository answers the aggregate queries cached balances derive
// from. It reads with the pool directly; the reconciliation transactions in
// the payment and account repositories are the only writers.
type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerReader {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerReader = (*PgxLedgerRepository)(nil)

func (r *PgxLedgerRepository) FetchPartyLedger(ctx context.Context, partyID string) (*domain.PartyLedger, error) {
	return r.fetchPartyLedger(ctx, partyID, "")
}

func (r *PgxLedgerRepository) FetchPartyLedgerExcludingPayment(ctx context.Context, partyID string, paymentID string) (*domain.PartyLedger, error) {
	return r.fetchPartyLedger(ctx, partyID, paymentID)
}

// fetchPartyLedger assembles the party aggregates. A non-empty excludePaymentID
// removes that payment from the payment sums and credits its live allocations
// back onto the invoice balances, yielding the ledger as if the payment had
// never been recorded.
func (r *PgxLedgerRepository) fetchPartyLedger(ctx context.Context, partyID string, excludePaymentID string) (*domain.PartyLedger, error) {
	ledger := &domain.PartyLedger{PartyID: partyID}

	err := r.Pool.QueryRow(ctx, `SELECT opening_balance FROM parties WHERE party_id = $1;`, partyID).
		Scan(&ledger.OpeningBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: party %s", apperrors.ErrNotFound, partyID)
		}
		return nil, fmt.Errorf("failed to fetch opening balance for party %s: %w", partyID, err)
	}

	ledger.OutstandingSales, err = r.outstandingInvoiceSum(ctx, partyID, domain.SalesInvoice, excludePaymentID)
	if err != nil {
		return nil, err
	}
	ledger.OutstandingPurchases, err = r.outstandingInvoiceSum(ctx, partyID, domain.PurchaseInvoice, excludePaymentID)
	if err != nil {
		return nil, err
	}
	ledger.PaymentsIn, err = r.unallocatedPaymentSum(ctx, partyID, domain.PaymentIn, excludePaymentID)
	if err != nil {
		return nil, err
	}
	ledger.PaymentsOut, err = r.unallocatedPaymentSum(ctx, partyID, domain.PaymentOut, excludePaymentID)
	if err != nil {
		return nil, err
	}
	return ledger, nil
}

// outstandingInvoiceSum totals the unpaid balances of a party's live invoices
// of one kind. When excluding a payment, the balance that payment's live
// allocations consumed is added back per invoice.
func (r *PgxLedgerRepository) outstandingInvoiceSum(ctx context.Context, partyID string, kind domain.InvoiceKind, excludePaymentID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	var err error
	if excludePaymentID == "" {
		query := `
			SELECT COALESCE(SUM(balance_amount), 0)
			FROM invoices
			WHERE party_id = $1 AND kind = $2 AND is_deleted = FALSE AND is_cancelled = FALSE;`
		err = r.Pool.QueryRow(ctx, query, partyID, string(kind)).Scan(&sum)
	} else {
		query := `
			SELECT COALESCE(SUM(i.balance_amount + COALESCE(x.restored, 0)), 0)
			FROM invoices i
			LEFT JOIN (
				SELECT invoice_id, SUM(amount) AS restored
				FROM payment_allocations
				WHERE payment_id = $3 AND is_deleted = FALSE
				GROUP BY invoice_id
			) x ON x.invoice_id = i.invoice_id
			WHERE i.party_id = $1 AND i.kind = $2 AND i.is_deleted = FALSE AND i.is_cancelled = FALSE;`
		err = r.Pool.QueryRow(ctx, query, partyID, string(kind), excludePaymentID).Scan(&sum)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum outstanding %s invoices for party %s: %w", kind, partyID, err)
	}
	return sum, nil
}

// unallocatedPaymentSum totals the unallocated portion of a party's live
// payments in one direction. The allocated portion already shows in the
// ledger as reduced invoice balances, so only the remainder moves the
// balance here.
func (r *PgxLedgerRepository) unallocatedPaymentSum(ctx context.Context, partyID string, paymentType domain.PaymentType, excludePaymentID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(p.amount - COALESCE(a.allocated, 0)), 0)
		FROM payments p
		LEFT JOIN (
			SELECT payment_id, SUM(amount) AS allocated
			FROM payment_allocations
			WHERE is_deleted = FALSE
			GROUP BY payment_id
		) a ON a.payment_id = p.payment_id
		WHERE p.party_id = $1 AND p.payment_type = $2 AND p.is_deleted = FALSE`
	args := []interface{}{partyID, string(paymentType)}
	if excludePaymentID != "" {
		query += ` AND p.payment_id <> $3`
		args = append(args, excludePaymentID)
	}
	query += `;`

	var sum decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum %s payments for party %s: %w", paymentType, partyID, err)
	}
	return sum, nil
}

func (r *PgxLedgerRepository) FetchAccountLedger(ctx context.Context, accountID string) (*domain.AccountLedger, error) {
	return r.fetchAccountLedger(ctx, accountID, ``, "")
}

func (r *PgxLedgerRepository) FetchAccountLedgerExcludingPayment(ctx context.Context, accountID string, paymentID string) (*domain.AccountLedger, error) {
	// payment_id is NULL on manual adjustments; those rows always count.
	return r.fetchAccountLedger(ctx, accountID, ` AND (payment_id IS NULL OR payment_id <> $2)`, paymentID)
}

func (r *PgxLedgerRepository) FetchAccountLedgerExcludingTransaction(ctx context.Context, accountID string, transactionID string) (*domain.AccountLedger, error) {
	return r.fetchAccountLedger(ctx, accountID, ` AND transaction_id <> $2`, transactionID)
}

func (r *PgxLedgerRepository) fetchAccountLedger(ctx context.Context, accountID string, excludeClause string, excludeID string) (*domain.AccountLedger, error) {
	ledger := &domain.AccountLedger{AccountID: accountID}

	err := r.Pool.QueryRow(ctx, `SELECT opening_balance FROM accounts WHERE account_id = $1;`, accountID).
		Scan(&ledger.OpeningBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to fetch opening balance for account %s: %w", accountID, err)
	}

	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM account_transactions
		WHERE account_id = $1 AND is_deleted = FALSE` + excludeClause + `;`
	args := []interface{}{accountID}
	if excludeID != "" {
		args = append(args, excludeID)
	}
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&ledger.SignedTotal); err != nil {
		return nil, fmt.Errorf("failed to sum transactions for account %s: %w", accountID, err)
	}
	return ledger, nil
}
