package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/hisab-books/ledger_backend/internal/core/domain"
	portsrepo "github.com/hisab-books/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// reportingRepository answers read-only dashboard queries off the cached
// balances. It never writes.
type reportingRepository struct {
	BaseRepository
}

func newReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

func (r *reportingRepository) FetchReceivablesPayables(ctx context.Context) (*domain.ReceivablesPayables, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN current_balance > 0 THEN current_balance ELSE 0 END), 0) AS total_receivable,
			COALESCE(SUM(CASE WHEN current_balance < 0 THEN -current_balance ELSE 0 END), 0) AS total_payable,
			COUNT(*) FILTER (WHERE current_balance > 0) AS receivable_count,
			COUNT(*) FILTER (WHERE current_balance < 0) AS payable_count
		FROM parties
		WHERE is_deleted = FALSE;`

	var result domain.ReceivablesPayables
	err := r.Pool.QueryRow(ctx, query).Scan(
		&result.TotalReceivable, &result.TotalPayable,
		&result.ReceivableCount, &result.PayableCount,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying receivables and payables: %w", err)
	}
	return &result, nil
}

func (r *reportingRepository) ListOverdueParties(ctx context.Context, asOf time.Time) ([]domain.OverdueParty, error) {
	query := `
		SELECT
			p.party_id,
			p.name,
			p.current_balance,
			p.min_due_days,
			MIN(i.invoice_date) AS oldest_unpaid_date,
			COALESCE(SUM(i.balance_amount), 0) AS outstanding_amount
		FROM parties p
		JOIN invoices i ON i.party_id = p.party_id
		WHERE p.is_deleted = FALSE
			AND i.kind = 'SALES'
			AND i.is_deleted = FALSE
			AND i.is_cancelled = FALSE
			AND i.balance_amount > 0
		GROUP BY p.party_id, p.name, p.current_balance, p.min_due_days
		HAVING MIN(i.invoice_date) < $1 - (p.min_due_days * INTERVAL '1 day')
		ORDER BY MIN(i.invoice_date) ASC;`

	rows, err := r.Pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("error querying overdue parties: %w", err)
	}
	defer rows.Close()

	var result []domain.OverdueParty
	for rows.Next() {
		var p domain.OverdueParty
		err := rows.Scan(
			&p.PartyID, &p.Name, &p.CurrentBalance, &p.MinDueDays,
			&p.OldestUnpaidDate, &p.OutstandingAmount,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning overdue party row: %w", err)
		}
		p.DaysSinceOldest = int(asOf.Sub(p.OldestUnpaidDate).Hours() / 24)
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating overdue party rows: %w", err)
	}

	if len(result) == 0 {
		return []domain.OverdueParty{}, nil
	}
	return result, nil
}

func (r *reportingRepository) FetchAccountsSummary(ctx context.Context) (*domain.AccountsSummary, error) {
	query := `
		SELECT account_type, COALESCE(SUM(current_balance), 0), COUNT(*)
		FROM accounts
		WHERE is_deleted = FALSE
		GROUP BY account_type;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying accounts summary: %w", err)
	}
	defer rows.Close()

	result := &domain.AccountsSummary{}
	for rows.Next() {
		var accountType string
		var total decimal.Decimal
		var count int
		if err := rows.Scan(&accountType, &total, &count); err != nil {
			return nil, fmt.Errorf("error scanning accounts summary row: %w", err)
		}
		switch domain.AccountType(accountType) {
		case domain.Cash:
			result.CashTotal = total
		case domain.Bank:
			result.BankTotal = total
		}
		result.AccountCount += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts summary rows: %w", err)
	}
	return result, nil
}
