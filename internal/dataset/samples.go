package dataset

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"github.com/spboyer/siteselect/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed samples.yaml
var samplesYAML []byte

// Sample is a named candidate table the CLI and web page can optimize.
type Sample struct {
	Criteria string `yaml:"criteria" json:"criteria"`
	Label    string `yaml:"label" json:"label"`
	// ServerCriteria, when set, is sent instead of the candidate table: the
	// solver optimizes its own copy of this dataset.
	ServerCriteria string             `yaml:"server_criteria,omitempty" json:"server_criteria,omitempty"`
	Candidates     []models.Candidate `yaml:"candidates" json:"candidates"`
}

// Mode reports which request shape this sample uses.
func (s Sample) Mode() models.Mode {
	if s.ServerCriteria != "" {
		return models.ModeDataset
	}
	return models.ModeGeneric
}

// Instance builds a problem instance from the sample's table.
func (s Sample) Instance(budget float64) (*models.ProblemInstance, error) {
	return models.NewProblemInstance(s.Criteria, s.Candidates, budget)
}

var (
	loadOnce sync.Once
	samples  []Sample
	loadErr  error
)

func load() ([]Sample, error) {
	loadOnce.Do(func() {
		var doc struct {
			Datasets []Sample `yaml:"datasets"`
		}
		if err := yaml.Unmarshal(samplesYAML, &doc); err != nil {
			loadErr = fmt.Errorf("parsing embedded samples: %w", err)
			return
		}
		samples = doc.Datasets
	})
	return samples, loadErr
}

// List returns all built-in samples sorted by criteria.
func List() ([]Sample, error) {
	all, err := load()
	if err != nil {
		return nil, err
	}
	out := make([]Sample, len(all))
	copy(out, all)
	sort.Slice(out, func(i, j int) bool { return out[i].Criteria < out[j].Criteria })
	return out, nil
}

// Lookup returns the sample for criteria.
func Lookup(criteria string) (Sample, error) {
	all, err := load()
	if err != nil {
		return Sample{}, err
	}
	for _, s := range all {
		if s.Criteria == criteria {
			return s, nil
		}
	}
	return Sample{}, fmt.Errorf("%w: unknown criteria %q", models.ErrInvalidInput, criteria)
}
