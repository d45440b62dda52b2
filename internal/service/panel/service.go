package panel

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/jwalitptl/hospital-admin/internal/model"
	"github.com/jwalitptl/hospital-admin/internal/repository"
	"github.com/jwalitptl/hospital-admin/internal/schema"
	apperrors "github.com/jwalitptl/hospital-admin/pkg/errors"
	"github.com/jwalitptl/hospital-admin/pkg/logger"
)

// Recorder is told about every committed mutation.
type Recorder interface {
	Record(ctx context.Context, entity *schema.Entity, action, key, oldKey string) model.AuditEvent
}

// Service validates input and runs the CRUD and search operations for one
// entity. It holds no UI state.
type Service struct {
	entity *schema.Entity
	repo   repository.TableRepository
	tables repository.Tables
	audit  Recorder
	logger *logger.Logger
}

func NewService(tables repository.Tables, entity *schema.Entity, audit Recorder, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		entity: entity,
		repo:   tables.Table(entity),
		tables: tables,
		audit:  audit,
		logger: log.With("entity", entity.Name),
	}
}

// NewServices builds one service per entity, keyed by slug.
func NewServices(tables repository.Tables, audit Recorder, log *logger.Logger) map[string]*Service {
	return lo.SliceToMap(schema.All(), func(e *schema.Entity) (string, *Service) {
		return e.Slug, NewService(tables, e, audit, log)
	})
}

func (s *Service) Entity() *schema.Entity {
	return s.entity
}

// Validate checks every field and returns the canonical row. All failing
// fields are reported together.
func (s *Service) Validate(form model.Row) (model.Row, error) {
	fields := s.entity.Fields()
	if len(form) != len(fields) {
		return nil, apperrors.BadRequest(
			fmt.Sprintf("%s form has %d fields, got %d", s.entity.Name, len(fields), len(form)), nil)
	}

	row := make(model.Row, len(fields))
	var problems []string
	for i, f := range fields {
		raw := form[i]
		if strings.TrimSpace(raw) == "" {
			if f.Required {
				problems = append(problems, f.Label+" is required")
			}
			continue
		}
		canonical, err := f.Rule(raw, f.Label)
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}
		row[i] = canonical
	}

	if len(problems) > 0 {
		return nil, apperrors.Validation(problems)
	}
	return row, nil
}

// FormFromFields maps column names (any case) to a form in column order.
// Missing columns are left blank.
func (s *Service) FormFromFields(fields map[string]string) (model.Row, error) {
	form := make(model.Row, len(s.entity.Columns()))
	for name, value := range fields {
		col, ok := s.entity.Lookup(name)
		if !ok {
			return nil, apperrors.BadRequest(fmt.Sprintf("%s has no column %s", s.entity.Name, name), nil)
		}
		form[col.Index()] = value
	}
	return form, nil
}

// FieldsFromRow is the inverse of FormFromFields.
func (s *Service) FieldsFromRow(row model.Row) map[string]string {
	out := make(map[string]string, len(row))
	for i, c := range s.entity.Columns() {
		if i < len(row) {
			out[c.Name()] = row[i]
		}
	}
	return out
}

func (s *Service) List(ctx context.Context) ([]model.Row, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Warn(err, "list failed")
		return nil, err
	}
	return rows, nil
}

// Search filters rows by a column chosen by name. Both column and term are
// required.
func (s *Service) Search(ctx context.Context, column, term string) ([]model.Row, error) {
	if strings.TrimSpace(column) == "" || strings.TrimSpace(term) == "" {
		return nil, apperrors.BadRequest("Please select search field and enter search value", nil)
	}
	col, ok := s.entity.Lookup(strings.TrimSpace(column))
	if !ok {
		return nil, apperrors.BadRequest(fmt.Sprintf("%s has no column %s", s.entity.Name, column), nil)
	}

	rows, err := s.repo.Search(ctx, col, term)
	if err != nil {
		s.logger.Warn(err, "search failed", "column", col.Name())
		return nil, err
	}
	return rows, nil
}

// Create validates form, checks the key is free and every referenced row
// exists, then inserts. It returns the stored row.
func (s *Service) Create(ctx context.Context, form model.Row) (model.Row, error) {
	row, err := s.Validate(form)
	if err != nil {
		return nil, err
	}

	if err := s.checkKeyFree(ctx, row.Key()); err != nil {
		return nil, s.fail("create", err)
	}
	if err := s.checkReferences(ctx, row); err != nil {
		return nil, s.fail("create", err)
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, s.fail("create", err)
	}

	s.record(ctx, model.AuditActionCreate, row.Key(), "")
	return row, nil
}

// Update rewrites the row stored under oldKey. The form may carry a new key.
func (s *Service) Update(ctx context.Context, oldKey string, form model.Row) (model.Row, error) {
	row, err := s.Validate(form)
	if err != nil {
		return nil, err
	}

	if row.Key() != strings.TrimSpace(oldKey) {
		if err := s.checkKeyFree(ctx, row.Key()); err != nil {
			return nil, s.fail("update", err)
		}
	}
	if err := s.checkReferences(ctx, row); err != nil {
		return nil, s.fail("update", err)
	}
	if err := s.repo.Update(ctx, oldKey, row); err != nil {
		return nil, s.fail("update", err)
	}

	s.record(ctx, model.AuditActionUpdate, row.Key(), oldKey)
	return row, nil
}

func (s *Service) Delete(ctx context.Context, key string) error {
	if err := s.repo.Delete(ctx, key); err != nil {
		return s.fail("delete", err)
	}
	s.record(ctx, model.AuditActionDelete, key, key)
	return nil
}

func (s *Service) checkKeyFree(ctx context.Context, key string) error {
	taken, err := s.repo.Exists(ctx, key)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.Duplicate(s.entity.Key().Field().Label, nil)
	}
	return nil
}

func (s *Service) checkReferences(ctx context.Context, row model.Row) error {
	for _, ref := range s.entity.References() {
		col := s.entity.MustColumn(ref.Column)
		found, err := s.tables.Table(ref.Target).Exists(ctx, row[col.Index()])
		if err != nil {
			return err
		}
		if !found {
			return apperrors.NotFound(col.Field().Label, nil)
		}
	}
	return nil
}

func (s *Service) fail(op string, err error) error {
	s.logger.Warn(err, op+" failed", "operation", op, "code", int(apperrors.CodeOf(err)))
	return err
}

func (s *Service) record(ctx context.Context, action, key, oldKey string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, s.entity, action, key, oldKey)
}
