package panel

import (
	"context"
	"fmt"

	"github.com/jwalitptl/hospital-admin/internal/model"
	"github.com/jwalitptl/hospital-admin/internal/schema"
	apperrors "github.com/jwalitptl/hospital-admin/pkg/errors"
)

type State int

const (
	// Browsing: the table is shown and the form holds the selected row, if any.
	Browsing State = iota
	// Editing: the form holds user input.
	Editing
)

func (s State) String() string {
	if s == Editing {
		return "editing"
	}
	return "browsing"
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Panel is the form, table and search state for one entity.
type Panel struct {
	svc      *Service
	state    State
	form     model.Row
	rows     []model.Row
	selected int
}

func New(svc *Service) *Panel {
	return &Panel{
		svc:      svc,
		form:     make(model.Row, len(svc.Entity().Columns())),
		rows:     []model.Row{},
		selected: -1,
	}
}

func (p *Panel) Entity() *schema.Entity {
	return p.svc.Entity()
}

func (p *Panel) State() State {
	return p.state
}

func (p *Panel) Form() model.Row {
	return p.form.Clone()
}

func (p *Panel) Rows() []model.Row {
	out := make([]model.Row, len(p.rows))
	copy(out, p.rows)
	return out
}

// Selected returns the selected table row.
func (p *Panel) Selected() (model.Row, bool) {
	if p.selected < 0 {
		return nil, false
	}
	return p.rows[p.selected].Clone(), true
}

// Set writes one form field by column name.
func (p *Panel) Set(column, value string) error {
	col, ok := p.Entity().Lookup(column)
	if !ok {
		return apperrors.BadRequest(fmt.Sprintf("%s has no column %s", p.Entity().Name, column), nil)
	}
	p.form[col.Index()] = value
	p.state = Editing
	return nil
}

// Select copies table row i into the form as is.
func (p *Panel) Select(i int) error {
	if i < 0 || i >= len(p.rows) {
		return apperrors.BadRequest(fmt.Sprintf("no row %d", i+1), nil)
	}
	p.selected = i
	p.form = p.rows[i].Clone()
	p.state = Browsing
	return nil
}

// Add inserts the form as a new row, then clears the form and reloads.
func (p *Panel) Add(ctx context.Context) error {
	if _, err := p.svc.Create(ctx, p.form); err != nil {
		return err
	}
	p.Clear()
	return p.ViewAll(ctx)
}

// Update rewrites the selected row from the form and reloads.
func (p *Panel) Update(ctx context.Context) error {
	sel, ok := p.Selected()
	if !ok {
		return apperrors.NoSelection(p.noSelection("update"))
	}
	if _, err := p.svc.Update(ctx, sel.Key(), p.form); err != nil {
		return err
	}
	p.state = Browsing
	return p.ViewAll(ctx)
}

// Delete removes the selected row after confirmation. Declining is not an
// error and changes nothing.
func (p *Panel) Delete(ctx context.Context, confirm Confirmer) (bool, error) {
	sel, ok := p.Selected()
	if !ok {
		return false, apperrors.NoSelection(p.noSelection("delete"))
	}
	prompt := fmt.Sprintf("Are you sure you want to delete this %s?", p.Entity().Noun)
	if confirm == nil || !confirm.Confirm(prompt) {
		return false, nil
	}
	if err := p.svc.Delete(ctx, sel.Key()); err != nil {
		return false, err
	}

	p.rows = append(p.rows[:p.selected:p.selected], p.rows[p.selected+1:]...)
	p.selected = -1
	p.Clear()
	return true, nil
}

// Clear empties the form. The selection is kept.
func (p *Panel) Clear() {
	p.form = make(model.Row, len(p.Entity().Columns()))
	p.state = Browsing
}

// ViewAll replaces the table with every stored row.
func (p *Panel) ViewAll(ctx context.Context) error {
	rows, err := p.svc.List(ctx)
	if err != nil {
		return err
	}
	p.load(rows)
	return nil
}

// Search replaces the table with the rows whose column contains term.
func (p *Panel) Search(ctx context.Context, column, term string) error {
	rows, err := p.svc.Search(ctx, column, term)
	if err != nil {
		return err
	}
	p.load(rows)
	return nil
}

func (p *Panel) load(rows []model.Row) {
	p.rows = rows
	p.selected = -1
}

func (p *Panel) noSelection(action string) string {
	return fmt.Sprintf("Please select %s %s to %s", p.Entity().Article(), p.Entity().Noun, action)
}
