package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/period"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type requestRepositoryImpl struct {
	db *database.DB
}

func NewRequestRepository(db *database.DB) request.Repository {
	return &requestRepositoryImpl{db: db}
}

const requestColumns = `id, employee_id, requester_id, kind, status, reason, payload, requested_at,
	responded_by, responded_at, remarks, schedule_built_at, created_at, updated_at`

// marshalPayload encodes the variant matching the request kind.
func marshalPayload(r request.Request) ([]byte, error) {
	p, err := r.Payload()
	if err != nil {
		return nil, err
	}
	return json.Marshal(p)
}

func unmarshalPayload(r *request.Request, raw []byte) error {
	switch r.Kind {
	case request.KindLeave:
		r.Leave = &request.Leave{}
		return json.Unmarshal(raw, r.Leave)
	case request.KindPermission:
		r.Permission = &request.Permission{}
		return json.Unmarshal(raw, r.Permission)
	case request.KindLoan:
		r.Loan = &request.Loan{}
		return json.Unmarshal(raw, r.Loan)
	case request.KindSalaryAdvance:
		r.SalaryAdvance = &request.SalaryAdvance{}
		return json.Unmarshal(raw, r.SalaryAdvance)
	}
	return request.ErrInvalidKind
}

func scanRequest(row pgx.Row) (request.Request, error) {
	var r request.Request
	var payload []byte
	err := row.Scan(
		&r.ID,
		&r.EmployeeID,
		&r.RequesterID,
		&r.Kind,
		&r.Status,
		&r.Reason,
		&payload,
		&r.RequestedAt,
		&r.RespondedBy,
		&r.RespondedAt,
		&r.Remarks,
		&r.ScheduleBuiltAt,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return request.Request{}, err
	}
	if err := unmarshalPayload(&r, payload); err != nil {
		return request.Request{}, fmt.Errorf("failed to decode %s payload: %w", r.Kind, err)
	}
	return r, nil
}

// Create implements request.Repository.
func (r *requestRepositoryImpl) Create(ctx context.Context, req request.Request) (request.Request, error) {
	q := GetQuerier(ctx, r.db)

	payload, err := marshalPayload(req)
	if err != nil {
		return request.Request{}, err
	}

	query := `
		INSERT INTO requests (
			id, employee_id, requester_id, kind, status, reason, payload,
			requested_at, responded_by, responded_at, remarks,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11,
			$8, $8
		)
		RETURNING ` + requestColumns

	created, err := scanRequest(q.QueryRow(ctx, query,
		req.ID,
		req.EmployeeID,
		req.RequesterID,
		req.Kind,
		req.Status,
		req.Reason,
		payload,
		req.RequestedAt,
		req.RespondedBy,
		req.RespondedAt,
		req.Remarks,
	))
	if err != nil {
		return request.Request{}, fmt.Errorf("failed to create request: %w", err)
	}
	return created, nil
}

// GetByID implements request.Repository.
func (r *requestRepositoryImpl) GetByID(ctx context.Context, id string) (request.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + requestColumns + ` FROM requests WHERE id::text = $1`
	req, err := scanRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return request.Request{}, request.ErrRequestNotFound
		}
		return request.Request{}, fmt.Errorf("failed to get request: %w", err)
	}
	return req, nil
}

// ListByEmployee implements request.Repository.
func (r *requestRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, filter request.ListFilter) ([]request.Request, error) {
	q := GetQuerier(ctx, r.db)

	where := []string{"employee_id::text = $1"}
	args := []interface{}{employeeID}
	if filter.Kind != nil {
		args = append(args, *filter.Kind)
		where = append(where, fmt.Sprintf("kind = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM requests
		WHERE %s
		ORDER BY requested_at DESC, id DESC
	`, requestColumns, strings.Join(where, " AND "))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	out := []request.Request{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// Resolve implements request.Repository. The status predicate in the WHERE
// clause makes the transition a single conditional write.
func (r *requestRepositoryImpl) Resolve(ctx context.Context, res request.Resolution) (request.Request, error) {
	q := GetQuerier(ctx, r.db)

	var payload []byte
	var err error
	switch {
	case res.Leave != nil:
		payload, err = json.Marshal(res.Leave)
	case res.Loan != nil:
		payload, err = json.Marshal(res.Loan)
	}
	if err != nil {
		return request.Request{}, fmt.Errorf("failed to encode payload: %w", err)
	}

	query := `
		UPDATE requests
		SET status = $2,
			responded_by = $3,
			responded_at = $4,
			remarks = $5,
			payload = COALESCE($6::jsonb, payload),
			updated_at = $4
		WHERE id::text = $1 AND status = 'pending'
		RETURNING ` + requestColumns

	updated, err := scanRequest(q.QueryRow(ctx, query,
		res.RequestID,
		res.Status,
		res.RespondedBy,
		res.RespondedAt,
		res.Remarks,
		payload,
	))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return request.Request{}, fmt.Errorf("failed to resolve request: %w", err)
	}

	// No row matched: either the request is gone or another responder won.
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM requests WHERE id::text = $1)`, res.RequestID).Scan(&exists); err != nil {
		return request.Request{}, fmt.Errorf("failed to check request: %w", err)
	}
	if !exists {
		return request.Request{}, request.ErrRequestNotFound
	}
	return request.Request{}, request.ErrAlreadyResolved
}

// SumApprovedAdvances implements request.Repository.
func (r *requestRepositoryImpl) SumApprovedAdvances(ctx context.Context, employeeID string, p period.Period) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM((payload->>'amount')::numeric), 0)
		FROM requests
		WHERE employee_id::text = $1
			AND kind = 'salary_advance'
			AND status = 'approved'
			AND payload->>'period' = $2
	`
	var sum decimal.Decimal
	if err := q.QueryRow(ctx, query, employeeID, p.String()).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum salary advances: %w", err)
	}
	return sum, nil
}

// SumLossOfPay implements request.Repository.
func (r *requestRepositoryImpl) SumLossOfPay(ctx context.Context, employeeID string, p period.Period) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	// start_date is stored as RFC 3339, so its first seven characters are the period.
	query := `
		SELECT COALESCE(SUM((payload->>'loss_of_pay')::numeric), 0)
		FROM requests
		WHERE employee_id::text = $1
			AND kind = 'leave'
			AND status <> 'pending'
			AND left(payload->>'start_date', 7) = $2
	`
	var sum decimal.Decimal
	if err := q.QueryRow(ctx, query, employeeID, p.String()).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum loss of pay: %w", err)
	}
	return sum, nil
}
