package check

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mpapenbr/racemetrics/pkg/cmd/common"
	"github.com/mpapenbr/racemetrics/pkg/compliance"
	"github.com/mpapenbr/racemetrics/pkg/config"
	"github.com/mpapenbr/racemetrics/pkg/model"
)

// ErrNotCompliant is returned if at least one rule is violated.
var ErrNotCompliant = errors.New("car is not compliant")

func NewCheckCmd() *cobra.Command {
	var rulebook string
	cmd := &cobra.Command{
		Use:   "check specs.yml",
		Short: "checks a car spec file against a compliance rulebook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			specs, err := readSpecs(args[0])
			if err != nil {
				return err
			}
			reg, err := common.LoadRulebooks()
			if err != nil {
				return err
			}
			if rulebook == "" {
				rulebook = config.DefaultRulebook
			}
			return runCheck(cmd.OutOrStdout(), reg, rulebook, specs)
		},
	}
	cmd.Flags().StringVar(&rulebook, "rulebook", "", "rulebook to check against")
	cmd.Flags().StringVar(&config.RulebookFile,
		"rulebook-file",
		"",
		"yaml file with additional compliance rulebooks")
	return cmd
}

func readSpecs(file string) (*model.CarSpecs, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	var specs model.CarSpecs
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", file, err)
	}
	return &specs, nil
}

//nolint:whitespace // editor/linter issue
func runCheck(
	w io.Writer, reg *compliance.Registry, rulebook string, specs *model.CarSpecs,
) error {
	if rulebook == "" {
		rulebook = compliance.SixShooter
	}
	book, err := reg.Get(rulebook)
	if err != nil {
		return err
	}
	report, err := book.Check(specs)
	if err != nil {
		return err
	}
	printReport(w, report)
	if !report.Compliant {
		return ErrNotCompliant
	}
	return nil
}

func printReport(w io.Writer, report *compliance.Report) {
	fmt.Fprintf(w, "Rulebook: %s\n", report.Rulebook)
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Rule", "Value", "Limit", "Result"})
	table.SetAutoWrapText(false)
	for i := range report.Checks {
		c := &report.Checks[i]
		value := "-"
		if c.Value != nil {
			value = strconv.FormatFloat(*c.Value, 'f', -1, 64)
		}
		result := "PASS"
		switch {
		case c.Skipped:
			result = "SKIPPED"
		case !c.Passes:
			result = "FAIL"
		}
		table.Append([]string{
			c.Label,
			value,
			fmt.Sprintf("%s %g %s", c.Bound, c.Limit, c.Unit),
			result,
		})
	}
	table.Render()
	if report.Compliant {
		fmt.Fprintln(w, "Compliant")
		return
	}
	fmt.Fprintln(w, "Violations:")
	for _, v := range report.Violations {
		fmt.Fprintf(w, "  - %s\n", v)
	}
}
