package report

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/bibmerge/internal/bib"
	"github.com/lehigh-university-libraries/bibmerge/internal/match"
)

// RunConfig captures the configuration a merge ran with, recorded at
// the top of the summary file.
type RunConfig struct {
	FirstFile  string  `yaml:"first_file"`
	SecondFile string  `yaml:"second_file"`
	Mode       string  `yaml:"mode"`
	Preference string  `yaml:"preference"`
	Threshold  float64 `yaml:"threshold"`
	DryRun     bool    `yaml:"dry_run"`
	Timestamp  string  `yaml:"timestamp"`
}

// DecisionRecord is one decision in serializable form.
type DecisionRecord struct {
	FirstKey  string  `yaml:"first_key,omitempty"`
	SecondKey string  `yaml:"second_key,omitempty"`
	MergedKey string  `yaml:"merged_key,omitempty"`
	Score     float64 `yaml:"score"`
	Reason    string  `yaml:"reason,omitempty"`
	Origin    string  `yaml:"origin,omitempty"`
}

// Summary is the machine-readable record of a merge run.
type Summary struct {
	Config          RunConfig        `yaml:"config"`
	Matched         int              `yaml:"matched"`
	UnmatchedFirst  int              `yaml:"unmatched_first"`
	UnmatchedSecond int              `yaml:"unmatched_second"`
	OutputEntries   int              `yaml:"output_entries"`
	Decisions       []DecisionRecord `yaml:"decisions"`
}

// BuildSummary converts a decision sequence and its merge result into
// a Summary. As in Describe, merged[i] corresponds to decisions[i].
func BuildSummary(config RunConfig, decisions []match.Decision, merged bib.Collection) Summary {
	if config.Timestamp == "" {
		config.Timestamp = time.Now().Format("2006-01-02_15-04-05")
	}

	summary := Summary{
		Config:        config,
		OutputEntries: len(merged),
		Decisions:     make([]DecisionRecord, 0, len(decisions)),
	}

	for i, d := range decisions {
		record := DecisionRecord{Score: d.Score}
		if d.Matched() {
			summary.Matched++
			record.FirstKey = d.First.Key
			record.SecondKey = d.Second.Key
			record.MergedKey = merged[i].Key
			record.Reason = string(d.Reason)
		} else {
			record.Origin = string(d.Origin)
			switch d.Origin {
			case match.OriginFirst:
				summary.UnmatchedFirst++
				record.FirstKey = d.Entry().Key
			case match.OriginSecond:
				summary.UnmatchedSecond++
				record.SecondKey = d.Entry().Key
			}
		}
		summary.Decisions = append(summary.Decisions, record)
	}

	return summary
}

// SaveYAML writes the summary to the given path.
func (s Summary) SaveYAML(path string) error {
	data, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write summary file: %w", err)
	}

	return nil
}
