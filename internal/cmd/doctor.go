package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evbook/evbook/internal/health"
)

// doctorReport is the outcome of all checks.
type doctorReport struct {
	Overall health.Status    `json:"overall" yaml:"overall"`
	Checks  []*health.Result `json:"checks" yaml:"checks"`
}

// Table implements ux.Tabular
func (r doctorReport) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(r.Checks)+1)
	for _, c := range r.Checks {
		rows = append(rows, []string{c.Name, c.Status.String(), c.Message, details(c.Details)})
	}
	rows = append(rows, []string{"overall", r.Overall.String(), "", ""})
	return []string{"Check", "Status", "Message", "Details"}, rows
}

func details(d map[string]string) string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+d[k])
	}
	return strings.Join(parts, " ")
}

func newDoctorCmd(cc *CommandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the API connection and the saved session",
		Long: `Run diagnostics: whether the reservation API answers, whether the saved
session can be read, and how long the session token stays valid.

Exits non-zero when a check is unhealthy.`,
		Annotations: public(),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := health.NewManager()
			if cc.Config.API.Timeout > 0 {
				m.WithTimeout(cc.Config.API.Timeout)
			}
			m.AddChecker(health.NewAPIChecker(cc.Client))
			m.AddChecker(health.NewStorageChecker(cc.backend, cc.Config.Storage.Driver))
			m.AddChecker(health.NewTokenChecker(cc.Store))

			results := m.Check(contextOf(cmd))
			report := doctorReport{Overall: health.OverallStatus(results), Checks: results}
			if err := cc.Output(report); err != nil {
				return err
			}
			if report.Overall == health.StatusUnhealthy {
				return fmt.Errorf("doctor: one or more checks are unhealthy")
			}
			return nil
		},
	}
}
