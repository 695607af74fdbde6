package sqlxrepos

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/onnetwireless/dashboard/core"
)

const uniqueViolation = "23505"

// getExec returns the service's executor (a transaction) when given, the repository's otherwise.
func getExec(repoExec core.DBExecutor, svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 && svcExec[0] != nil {
		return svcExec[0]
	}
	return repoExec
}

// trapNoRowsErr maps psql "no rows" err to notFound
func trapNoRowsErr(err error, notFound error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

func isUniqueViolation(err error, constraint string) bool {
	pqErr, ok := errors.Cause(err).(*pq.Error)
	return ok && pqErr.Code == uniqueViolation && (constraint == "" || pqErr.Constraint == constraint)
}

func utcPtr(t null.Time) *time.Time {
	if !t.Valid {
		return nil
	}
	utc := t.Time.UTC()
	return &utc
}

// where accumulates AND-ed conditions written with `?` placeholders.
type where struct {
	clauses []string
	args    []interface{}
	err     error
}

func (w *where) add(clause string, args ...interface{}) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
}

// in adds a `column IN (...)` condition.
func (w *where) in(column string, values []string) {
	if len(values) == 0 {
		return
	}
	clause, args, err := sqlx.In(column+" IN (?)", values)
	if err != nil {
		w.err = err
		return
	}
	w.add(clause, args...)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// search adds a case-insensitive substring match on any of the columns. term is matched literally.
func (w *where) search(term string, columns ...string) {
	if term == "" {
		return
	}
	val := "%" + likeEscaper.Replace(term) + "%"
	ors := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, col := range columns {
		ors = append(ors, col+` ILIKE ? ESCAPE '\'`)
		args = append(args, val)
	}
	w.add("("+strings.Join(ors, " OR ")+")", args...)
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func orderBy(ordering []core.DBOrdering) string {
	if len(ordering) == 0 {
		return ""
	}
	orderList := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		orderList = append(orderList, ord.String())
	}
	return " ORDER BY " + strings.Join(orderList, ", ")
}

func paginate(page *core.Pagination) string {
	if page == nil || page.Limit() == 0 {
		return ""
	}
	return " LIMIT " + strconv.Itoa(page.Limit()) + " OFFSET " + strconv.Itoa(page.Offset())
}

// selectPage runs the count query and the paginated select sharing the same WHERE clause.
func selectPage(ctx context.Context, exec core.DBExecutor, dest, countDest interface{}, selectQ, countQ string, w *where, ordering []core.DBOrdering, page *core.Pagination) error {
	if w.err != nil {
		return w.err
	}
	cond := w.String()
	if err := sqlx.GetContext(ctx, exec, countDest, exec.Rebind(countQ+cond), w.args...); err != nil {
		return errors.Wrap(err, "counting rows")
	}
	q := exec.Rebind(selectQ + cond + orderBy(ordering) + paginate(page))
	if err := sqlx.SelectContext(ctx, exec, dest, q, w.args...); err != nil {
		return errors.Wrap(err, "selecting rows")
	}
	return nil
}

// validIDs drops the ids that are not UUIDs; postgres rejects them instead of matching nothing.
func validIDs(ids []string) []string {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	return valid
}
