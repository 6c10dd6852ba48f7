//nolint:whitespace // can't make both editor and linter happy
package fakedb

import (
	"context"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mpapenbr/f1-pitstrategy-go/pkg/repository"
)

// Querier replays canned rows and records executed statements. Repository
// tests use it in place of a pgxpool.Pool.
type Querier struct {
	Rows     [][]any           // result rows served by Query and QueryRow
	Tag      pgconn.CommandTag // returned by Exec
	ExecErr  error
	QueryErr error

	ExecSQL  []string
	ExecArgs [][]any
}

var _ repository.Querier = (*Querier)(nil)

func (q *Querier) Exec(
	ctx context.Context,
	sql string,
	args ...interface{},
) (pgconn.CommandTag, error) {
	q.ExecSQL = append(q.ExecSQL, sql)
	q.ExecArgs = append(q.ExecArgs, args)
	return q.Tag, q.ExecErr
}

func (q *Querier) Query(
	ctx context.Context,
	sql string,
	args ...interface{},
) (pgx.Rows, error) {
	if q.QueryErr != nil {
		return nil, q.QueryErr
	}
	return &rows{data: q.Rows, idx: -1}, nil
}

func (q *Querier) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	if len(q.Rows) == 0 {
		return row{err: pgx.ErrNoRows}
	}
	return row{vals: q.Rows[0]}
}

type row struct {
	vals []any
	err  error
}

func (r row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(dest, r.vals)
}

type rows struct {
	data [][]any
	idx  int
}

func (r *rows) Next() bool {
	r.idx++
	return r.idx < len(r.data)
}

func (r *rows) Scan(dest ...any) error {
	return assign(dest, r.data[r.idx])
}

func (r *rows) Close()                                       {}
func (r *rows) Err() error                                   { return nil }
func (r *rows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *rows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *rows) Values() ([]any, error)                       { return r.data[r.idx], nil }
func (r *rows) RawValues() [][]byte                          { return nil }
func (r *rows) Conn() *pgx.Conn                              { return nil }

// assign copies one canned row into the scan destinations. A nil value
// leaves the destination at its zero value, matching a SQL null.
func assign(dest, vals []any) error {
	if len(dest) != len(vals) {
		return fmt.Errorf("scan: %d destinations, %d values", len(dest), len(vals))
	}
	for i := range dest {
		dv := reflect.ValueOf(dest[i]).Elem()
		if vals[i] == nil {
			dv.Set(reflect.Zero(dv.Type()))
			continue
		}
		sv := reflect.ValueOf(vals[i])
		if !sv.Type().AssignableTo(dv.Type()) {
			return fmt.Errorf("scan: cannot assign %s to %s", sv.Type(), dv.Type())
		}
		dv.Set(sv)
	}
	return nil
}
