// Package wizard collects run parameters interactively.
package wizard

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spboyer/siteselect/internal/dataset"
	"github.com/spboyer/siteselect/internal/models"
	"golang.org/x/term"
)

// RunParams holds the values collected by the run form.
type RunParams struct {
	Criteria string
	Budget   int
}

// RunParamsWizard shows a huh form pre-populated with initial and returns
// the chosen criteria and budget.
func RunParamsWizard(in io.Reader, out io.Writer, initial RunParams) (*RunParams, error) {
	samples, err := dataset.List()
	if err != nil {
		return nil, err
	}

	criteria := initial.Criteria
	budgetRaw := ""
	if initial.Budget > 0 {
		budgetRaw = strconv.Itoa(initial.Budget)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Criteria").
				Description("Which dataset to optimize").
				Options(CriteriaOptions(samples)...).
				Value(&criteria),
			huh.NewInput().
				Title("Budget").
				Description("Total budget in dollars").
				Placeholder("100000").
				Value(&budgetRaw).
				Validate(func(s string) error {
					_, err := ParseBudget(s)
					return err
				}),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	budget, err := ParseBudget(budgetRaw)
	if err != nil {
		return nil, err
	}
	return &RunParams{Criteria: criteria, Budget: budget}, nil
}

// CriteriaOptions lists samples as select options, labelled for display.
func CriteriaOptions(samples []dataset.Sample) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(samples))
	for _, s := range samples {
		opts = append(opts, huh.NewOption(s.Label, s.Criteria))
	}
	return opts
}

var errInvalidBudget = fmt.Errorf("%w: please enter a valid budget amount", models.ErrInvalidInput)

// ParseBudget accepts a positive whole dollar amount, tolerating "$" and
// thousands separators.
func ParseBudget(s string) (int, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", "_", "").Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return 0, errInvalidBudget
	}
	v, err := strconv.Atoi(cleaned)
	if err != nil || v <= 0 {
		return 0, errInvalidBudget
	}
	return v, nil
}
