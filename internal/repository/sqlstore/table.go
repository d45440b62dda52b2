package sqlstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"github.com/jwalitptl/hospital-admin/internal/model"
	"github.com/jwalitptl/hospital-admin/internal/schema"
	apperrors "github.com/jwalitptl/hospital-admin/pkg/errors"
	"github.com/jwalitptl/hospital-admin/pkg/validator"
)

const (
	opList   = "list"
	opSearch = "search"
	opExists = "exists"
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

type tableRepository struct {
	store  *Store
	entity *schema.Entity

	selectAll string
	insert    string
	update    string
	delete    string
	exists    string
}

func newTableRepository(s *Store, e *schema.Entity) *tableRepository {
	cols := lo.Map(e.Columns(), func(c schema.Column, _ int) string { return c.Name() })
	key := e.Key().Name()
	holders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	sets := lo.Map(cols, func(c string, _ int) string { return c + " = ?" })

	d := s.dialect
	return &tableRepository{
		store:     s,
		entity:    e,
		selectAll: fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), e.Table),
		insert:    d.Rebind(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", e.Table, strings.Join(cols, ", "), holders)),
		update:    d.Rebind(fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", e.Table, strings.Join(sets, ", "), key)),
		delete:    d.Rebind(fmt.Sprintf("DELETE FROM %s WHERE %s = ?", e.Table, key)),
		exists:    d.Rebind(fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = ?", e.Table, key)),
	}
}

func (r *tableRepository) Entity() *schema.Entity {
	return r.entity
}

func (r *tableRepository) List(ctx context.Context) (rows []model.Row, err error) {
	defer r.observe(opList, time.Now(), &err)

	rows, err = r.query(ctx, r.selectAll)
	if err != nil {
		return nil, storeError(r.entity, opList, err)
	}
	return rows, nil
}

// Search returns the rows whose column contains term. LIKE wildcards in term
// match literally.
func (r *tableRepository) Search(ctx context.Context, column schema.Column, term string) (rows []model.Row, err error) {
	defer r.observe(opSearch, time.Now(), &err)

	if !r.entity.Owns(column) {
		return nil, apperrors.BadRequest(fmt.Sprintf("%s has no column %s", r.entity.Name, column.Name()), nil)
	}

	query := r.store.dialect.Rebind(fmt.Sprintf("%s WHERE CAST(%s AS %s) LIKE ? ESCAPE '!'",
		r.selectAll, column.Name(), r.store.dialect.TextType))

	rows, err = r.query(ctx, query, "%"+escapeLike(term)+"%")
	if err != nil {
		return nil, storeError(r.entity, opSearch, err)
	}
	return rows, nil
}

func (r *tableRepository) Exists(ctx context.Context, key string) (ok bool, err error) {
	defer r.observe(opExists, time.Now(), &err)

	arg, err := bindValue(r.entity.Key(), key)
	if err != nil {
		return false, err
	}

	var n int
	if err = r.store.db.GetContext(ctx, &n, r.exists, arg); err != nil {
		return false, storeError(r.entity, opExists, err)
	}
	return n > 0, nil
}

func (r *tableRepository) Create(ctx context.Context, row model.Row) (err error) {
	defer r.observe(opCreate, time.Now(), &err)

	args, err := r.bindRow(row)
	if err != nil {
		return err
	}

	err = r.store.inTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, r.insert, args...)
		return err
	})
	if err != nil {
		return storeError(r.entity, opCreate, err)
	}
	return nil
}

func (r *tableRepository) Update(ctx context.Context, oldKey string, row model.Row) (err error) {
	defer r.observe(opUpdate, time.Now(), &err)

	args, err := r.bindRow(row)
	if err != nil {
		return err
	}
	keyArg, err := bindValue(r.entity.Key(), oldKey)
	if err != nil {
		return err
	}
	args = append(args, keyArg)

	err = r.store.inTx(ctx, func(tx *sqlx.Tx) error {
		return execOne(ctx, tx, r.entity, oldKey, r.update, args...)
	})
	if err != nil {
		return storeError(r.entity, opUpdate, err)
	}
	return nil
}

func (r *tableRepository) Delete(ctx context.Context, key string) (err error) {
	defer r.observe(opDelete, time.Now(), &err)

	arg, err := bindValue(r.entity.Key(), key)
	if err != nil {
		return err
	}

	err = r.store.inTx(ctx, func(tx *sqlx.Tx) error {
		return execOne(ctx, tx, r.entity, key, r.delete, arg)
	})
	if err != nil {
		return storeError(r.entity, opDelete, err)
	}
	return nil
}

// execOne runs a statement that must touch exactly the row under key.
func execOne(ctx context.Context, tx *sqlx.Tx, e *schema.Entity, key, query string, args ...interface{}) error {
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.NotFound(fmt.Sprintf("%s %s", e.Name, key), nil)
	}
	return nil
}

func (r *tableRepository) query(ctx context.Context, query string, args ...interface{}) ([]model.Row, error) {
	rows, err := r.store.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := r.entity.Columns()
	out := []model.Row{}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, err
		}
		row := make(model.Row, len(cols))
		for i, c := range cols {
			row[i] = formatValue(c.Field().Kind, values[i])
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *tableRepository) bindRow(row model.Row) ([]interface{}, error) {
	cols := r.entity.Columns()
	if len(row) != len(cols) {
		return nil, apperrors.BadRequest(
			fmt.Sprintf("%s expects %d values, got %d", r.entity.Name, len(cols), len(row)), nil)
	}
	args := make([]interface{}, len(cols))
	for i, c := range cols {
		arg, err := bindValue(c, row[i])
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}
	return args, nil
}

func (r *tableRepository) observe(op string, start time.Time, err *error) {
	r.store.metrics.ObserveStore(r.entity.Name, op, start, *err)
	if *err != nil {
		return
	}
	r.store.logger.Debug("store operation", "entity", r.entity.Name, "operation", op,
		"elapsed", time.Since(start).String())
}

func bindValue(c schema.Column, value string) (interface{}, error) {
	if c.Field().Kind != schema.KindInt {
		return value, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return nil, apperrors.BadRequest(fmt.Sprintf("%s must be a valid number", c.Field().Label), err)
	}
	return n, nil
}

func formatValue(kind schema.Kind, v interface{}) string {
	var s string
	switch x := v.(type) {
	case nil:
		return ""
	case time.Time:
		if kind == schema.KindTime {
			return x.Format(validator.TimeLayout)
		}
		return x.Format(validator.DateLayout)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case []byte:
		s = string(x)
	case string:
		s = x
	default:
		s = fmt.Sprint(x)
	}

	switch kind {
	case schema.KindTime:
		// HH:MM:SS from mysql and postgres
		if len(s) > 5 && s[2] == ':' {
			return s[:5]
		}
	case schema.KindDate:
		if len(s) > 10 && s[4] == '-' {
			return s[:10]
		}
	}
	return s
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
