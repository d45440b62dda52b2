// Package shell is the interactive console front end. It shows the dashboard
// and lets the operator switch between the entity panels.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode"

	"github.com/samber/lo"

	"github.com/jwalitptl/hospital-admin/internal/schema"
	"github.com/jwalitptl/hospital-admin/internal/service/dashboard"
	"github.com/jwalitptl/hospital-admin/internal/service/panel"
	apperrors "github.com/jwalitptl/hospital-admin/pkg/errors"
	"github.com/jwalitptl/hospital-admin/pkg/logger"
)

const Title = "Hospital Management System"

var errQuit = errors.New("quit")

type Shell struct {
	in        *bufio.Scanner
	out       io.Writer
	panels    map[string]*panel.Panel
	current   *panel.Panel
	dashboard *dashboard.Service
	logger    *logger.Logger
}

// New builds one panel per service. services is keyed by entity slug.
func New(in io.Reader, out io.Writer, services map[string]*panel.Service, dash *dashboard.Service, log *logger.Logger) *Shell {
	if log == nil {
		log = logger.Nop()
	}
	return &Shell{
		in:  bufio.NewScanner(in),
		out: out,
		panels: lo.MapValues(services, func(svc *panel.Service, _ string) *panel.Panel {
			return panel.New(svc)
		}),
		dashboard: dash,
		logger:    log,
	}
}

// Run reads commands until quit is confirmed or input ends.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintf(s.out, "%s\n\n", Title)
	s.showDashboard(ctx)
	fmt.Fprintln(s.out, `Type "help" for commands.`)

	for {
		fmt.Fprintf(s.out, "%s> ", s.prompt())
		line, ok := s.readLine()
		if !ok {
			fmt.Fprintln(s.out)
			return s.in.Err()
		}
		if err := s.Exec(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// Exec runs one command line. It returns errQuit once quit is confirmed;
// every other failure is printed.
func (s *Shell) Exec(ctx context.Context, line string) error {
	cmd, rest := cut(line)
	cmd = strings.ToLower(cmd)

	switch cmd {
	case "":
		return nil
	case "help", "?":
		s.showHelp()
		return nil
	case "dashboard", "home":
		s.current = nil
		s.showDashboard(ctx)
		return nil
	case "open":
		s.open(ctx, rest)
		return nil
	case "quit", "exit":
		if s.confirm("Do you want to quit?") {
			return errQuit
		}
		return nil
	}

	if _, ok := s.panels[cmd]; ok && rest == "" {
		s.open(ctx, cmd)
		return nil
	}

	p := s.current
	if p == nil {
		s.fail(apperrors.BadRequest(fmt.Sprintf("Unknown command %q. Open a panel first, e.g. \"open patients\"", cmd), nil))
		return nil
	}

	switch cmd {
	case "list":
		if err := p.ViewAll(ctx); err != nil {
			s.fail(err)
			return nil
		}
		s.showTable(p)
	case "search":
		column, term := cut(rest)
		if err := p.Search(ctx, column, term); err != nil {
			s.fail(err)
			return nil
		}
		s.showTable(p)
	case "select":
		n, err := strconv.Atoi(strings.TrimSpace(rest))
		if err != nil {
			s.fail(apperrors.BadRequest("select needs a row number", nil))
			return nil
		}
		if err := p.Select(n - 1); err != nil {
			s.fail(err)
			return nil
		}
		s.showForm(p)
	case "set":
		column, value := cut(rest)
		if err := p.Set(column, value); err != nil {
			s.fail(err)
		}
	case "form":
		s.showForm(p)
	case "columns":
		s.showColumns(p.Entity())
	case "clear":
		p.Clear()
		s.showForm(p)
	case "add":
		if err := p.Add(ctx); err != nil {
			s.fail(err)
			return nil
		}
		s.succeed(fmt.Sprintf("%s added successfully!", p.Entity().Name))
		s.showTable(p)
	case "update":
		if err := p.Update(ctx); err != nil {
			s.fail(err)
			return nil
		}
		s.succeed(fmt.Sprintf("%s updated successfully!", p.Entity().Name))
		s.showTable(p)
	case "delete":
		deleted, err := p.Delete(ctx, panel.ConfirmFunc(s.confirm))
		if err != nil {
			s.fail(err)
			return nil
		}
		if deleted {
			s.succeed(fmt.Sprintf("%s deleted successfully!", p.Entity().Name))
			s.showTable(p)
		}
	default:
		s.fail(apperrors.BadRequest(fmt.Sprintf("Unknown command %q", cmd), nil))
	}
	return nil
}

func (s *Shell) open(ctx context.Context, slug string) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	p, ok := s.panels[slug]
	if !ok {
		s.fail(apperrors.BadRequest(fmt.Sprintf("No panel %q. Panels: %s", slug, strings.Join(s.slugs(), ", ")), nil))
		return
	}
	s.current = p
	fmt.Fprintf(s.out, "== %s Management ==\n", p.Entity().Name)
	if err := p.ViewAll(ctx); err != nil {
		s.fail(err)
		return
	}
	s.showTable(p)
}

func (s *Shell) prompt() string {
	if s.current == nil {
		return "dashboard"
	}
	return s.current.Entity().Slug
}

func (s *Shell) slugs() []string {
	return lo.FilterMap(schema.All(), func(e *schema.Entity, _ int) (string, bool) {
		_, ok := s.panels[e.Slug]
		return e.Slug, ok
	})
}

func (s *Shell) readLine() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return s.in.Text(), true
}

// confirm asks a [y/N] question. Anything but y or yes declines.
func (s *Shell) confirm(prompt string) bool {
	fmt.Fprintf(s.out, "%s [y/N] ", prompt)
	answer, ok := s.readLine()
	if !ok {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func (s *Shell) succeed(msg string) {
	fmt.Fprintf(s.out, "Success: %s\n", msg)
}

func (s *Shell) fail(err error) {
	s.logger.Debug("command failed", "error", err.Error())
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code == apperrors.ErrValidation {
		fmt.Fprintln(s.out, "Validation errors:")
		for _, d := range appErr.Details {
			fmt.Fprintf(s.out, "  %s\n", d)
		}
		return
	}
	fmt.Fprintf(s.out, "Error: %s\n", err)
}

func (s *Shell) showDashboard(ctx context.Context) {
	if s.dashboard == nil {
		return
	}
	stats, err := s.dashboard.Stats(ctx)

	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Dashboard")
	fmt.Fprintf(tw, "Total Patients\t%d\n", stats.Patients)
	fmt.Fprintf(tw, "Total Doctors\t%d\n", stats.Doctors)
	fmt.Fprintf(tw, "Total Departments\t%d\n", stats.Departments)
	fmt.Fprintf(tw, "Today's Appointments\t%d\n", stats.AppointmentsToday)
	tw.Flush()

	if err != nil {
		fmt.Fprintf(s.out, "Error: Failed to fetch dashboard stats: %s\n", err)
	}
	fmt.Fprintln(s.out)
}

func (s *Shell) showTable(p *panel.Panel) {
	rows := p.Rows()
	if len(rows) == 0 {
		fmt.Fprintf(s.out, "No %s rows.\n", p.Entity().Noun)
		return
	}

	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	header := append([]string{"#"}, lo.Map(p.Entity().Columns(), func(c schema.Column, _ int) string {
		return c.Name()
	})...)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for i, row := range rows {
		fmt.Fprintf(tw, "%d\t%s\n", i+1, strings.Join(row, "\t"))
	}
	tw.Flush()
}

func (s *Shell) showForm(p *panel.Panel) {
	form := p.Form()
	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s form (%s)\n", p.Entity().Name, p.State())
	for i, f := range p.Entity().Fields() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Name, f.Label+marker(f), form[i])
	}
	tw.Flush()
}

func (s *Shell) showColumns(e *schema.Entity) {
	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	for _, f := range e.Fields() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Name, f.Label, lo.Ternary(f.Required, "required", "optional"))
	}
	tw.Flush()
}

func (s *Shell) showHelp() {
	fmt.Fprintf(s.out, `Global commands:
  dashboard               show the dashboard
  open <panel>            switch panel (%s); the panel name alone also works
  help                    this text
  quit                    leave the program
Panel commands:
  list                    show every row
  search <COLUMN> <text>  show rows whose COLUMN contains text
  select <row#>           load a row into the form
  set <COLUMN> <value>    fill one form field
  form                    show the form
  columns                 show the form fields
  add                     add the form as a new row
  update                  save the form over the selected row
  delete                  delete the selected row
  clear                   empty the form
`, strings.Join(s.slugs(), ", "))
}

func marker(f schema.Field) string {
	if f.Required {
		return " *"
	}
	return ""
}

// cut splits off the first word. The remainder keeps its inner spacing.
func cut(s string) (string, string) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}
