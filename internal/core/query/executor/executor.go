// Package executor implements query execution.
//
// Execution is asynchronous with respect to the caller: Submit hands the
// query to the pool on its own goroutine and returns a Pending that the
// caller waits on. The template and parameters reach the driver exactly as
// the builder produced them.
package executor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/satishbabariya/safequery/internal/adapters/database"
	"github.com/satishbabariya/safequery/internal/core/query/domain"
	"github.com/satishbabariya/safequery/internal/debug"
)

// ErrNilQuery is returned when Submit receives a nil query.
var ErrNilQuery = errors.New("executor: nil query")

// Querier is the slice of the connection pool the executor needs.
type Querier interface {
	Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// State is the lifecycle position of a submitted query.
type State int32

const (
	// Idle means the query has not been sent.
	Idle State = iota
	// Sent means the store call is in flight.
	Sent
	// Fulfilled means a ResultSet was produced.
	Fulfilled
	// Failed means the store call failed.
	Failed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Sent:
		return "sent"
	case Fulfilled:
		return "fulfilled"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Option configures a QueryExecutor.
type Option func(*QueryExecutor)

// WithCancelPropagation passes the submitting context through to the store
// call, so an abandoned caller cancels the in-flight query. By default the
// store call is detached from caller cancellation.
func WithCancelPropagation() Option {
	return func(e *QueryExecutor) {
		e.propagateCancel = true
	}
}

// WithTimeout bounds every store call, independent of the caller.
func WithTimeout(d time.Duration) Option {
	return func(e *QueryExecutor) {
		e.timeout = d
	}
}

// QueryExecutor sends validated queries to a pool.
type QueryExecutor struct {
	db              Querier
	dialect         database.Dialect
	propagateCancel bool
	timeout         time.Duration
}

// NewQueryExecutor creates a new query executor.
func NewQueryExecutor(db Querier, dialect database.Dialect, opts ...Option) *QueryExecutor {
	e := &QueryExecutor{
		db:      db,
		dialect: dialect,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Pending is a submitted query whose result has not necessarily arrived.
type Pending struct {
	state atomic.Int32
	done  chan struct{}

	// written once by the store goroutine before done is closed
	result *domain.ResultSet
	err    error
}

// State reports where the query is in its lifecycle.
func (p *Pending) State() State {
	return State(p.state.Load())
}

// Wait suspends until the store responds or ctx ends. The outcome is
// recorded once and returned again on later calls. When ctx ends first the
// store call keeps running unless cancellation propagation was enabled.
func (p *Pending) Wait(ctx context.Context) (*domain.ResultSet, error) {
	select {
	case <-p.done:
		return p.result, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Submit validates q, marks it consumed and sends it to the store without
// blocking. A query built for another placeholder style, or one already
// submitted, is rejected before any I/O.
func (e *QueryExecutor) Submit(ctx context.Context, q *domain.Query) (*Pending, error) {
	if e.db == nil {
		return nil, fmt.Errorf("database adapter not initialized")
	}
	if q == nil {
		return nil, ErrNilQuery
	}
	if q.Style() != e.dialect.Placeholder {
		return nil, &domain.MalformedQueryError{
			Template: q.Template(),
			Params:   len(q.Params()),
			Cause: fmt.Errorf("query uses %s placeholders, %s expects %s",
				q.Style(), e.dialect.Name, e.dialect.Placeholder),
		}
	}
	if !q.Consume() {
		return nil, domain.ErrQueryConsumed
	}

	runCtx := ctx
	if !e.propagateCancel {
		runCtx = context.WithoutCancel(ctx)
	}

	p := &Pending{done: make(chan struct{})}
	p.state.Store(int32(Sent))

	go e.run(runCtx, q, p)
	return p, nil
}

// Execute submits q and waits for its result.
func (e *QueryExecutor) Execute(ctx context.Context, q *domain.Query) (*domain.ResultSet, error) {
	p, err := e.Submit(ctx, q)
	if err != nil {
		return nil, err
	}
	return p.Wait(ctx)
}

func (e *QueryExecutor) run(ctx context.Context, q *domain.Query, p *Pending) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	rs, err := e.query(ctx, q)
	elapsed := time.Since(start)

	if err != nil {
		p.state.Store(int32(Failed))
		debug.Debug("query failed",
			"dialect", e.dialect.Name,
			"template", q.Template(),
			"duration", elapsed,
			"error", err)
	} else {
		p.state.Store(int32(Fulfilled))
		debug.Debug("query fulfilled",
			"dialect", e.dialect.Name,
			"template", q.Template(),
			"rows", rs.Len(),
			"duration", elapsed)
	}

	p.result, p.err = rs, err
	close(p.done)
}

func (e *QueryExecutor) query(ctx context.Context, q *domain.Query) (*domain.ResultSet, error) {
	rows, err := e.db.Query(ctx, q.Template(), q.Params()...)
	if err != nil {
		return nil, e.wrap(q, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, e.wrap(q, fmt.Errorf("failed to get columns: %w", err))
	}

	results := []domain.Row{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, e.wrap(q, fmt.Errorf("failed to scan row: %w", err))
		}

		row := make(domain.Row, len(columns))
		for i, col := range columns {
			// Convert []byte to string for text columns
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, e.wrap(q, fmt.Errorf("error iterating rows: %w", err))
	}

	return domain.NewResultSet(columns, results), nil
}

func (e *QueryExecutor) wrap(q *domain.Query, err error) error {
	c := e.dialect.Classify(err)
	return &domain.QueryExecutionError{
		Kind:       c.Kind,
		Code:       c.Code,
		Diagnostic: c.Diagnostic,
		Template:   q.Template(),
		Cause:      err,
	}
}
