package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/campuswell/backend/internal/scoring"
	"github.com/spf13/cobra"
)

var (
	bankFile       string
	answersFile    string
	scoreSelection string
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Inspect the question bank",
}

var bankListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories and question counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bank, err := loadBank()
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "CATEGORY\tTITLE\tQUESTIONS\tREVERSED")
		for _, name := range bank.Names() {
			c, _ := bank.Category(name)
			reversed := 0
			for _, q := range c.Questions {
				if q.Direction == scoring.Reverse {
					reversed++
				}
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", c.Name, c.Title, len(c.Questions), reversed)
		}
		fmt.Fprintf(tw, "%s\t\t%d\t\n", scoring.Overall, len(bank.Questions(scoring.Overall)))
		return tw.Flush()
	},
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a JSON answers file offline",
	Long: `Reads {"<category>": ["Often", null, ...], ...} and prints the risk
percentage and level for each selected category plus overall.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bank, err := loadBank()
		if err != nil {
			return err
		}
		var in io.Reader = cmd.InOrStdin()
		if answersFile != "" && answersFile != "-" {
			f, err := os.Open(answersFile)
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		var responses scoring.Responses
		if err := json.NewDecoder(in).Decode(&responses); err != nil {
			return fmt.Errorf("decode answers: %w", err)
		}
		selected, err := selection(bank, responses)
		if err != nil {
			return err
		}
		return printScores(cmd.OutOrStdout(), scoring.ScoreResponses(append(selected, scoring.Overall), onlySelected(responses, selected), bank, nil))
	},
}

// onlySelected drops answers for unselected categories so that overall is
// computed the same way the server computes it.
func onlySelected(r scoring.Responses, selected []string) scoring.Responses {
	out := make(scoring.Responses, len(selected))
	for _, c := range selected {
		if as, ok := r[c]; ok {
			out[c] = as
		}
	}
	return out
}

func init() {
	rootCmd.PersistentFlags().StringVar(&bankFile, "bank", "", "YAML question bank (defaults to the embedded bank)")
	scoreCmd.Flags().StringVarP(&answersFile, "file", "f", "-", "answers JSON file, - for stdin")
	scoreCmd.Flags().StringVarP(&scoreSelection, "categories", "c", "", "comma-separated categories (defaults to those answered)")
	bankCmd.AddCommand(bankListCmd)
}

func loadBank() (*scoring.Bank, error) {
	if bankFile == "" {
		return scoring.DefaultBank(), nil
	}
	data, err := os.ReadFile(bankFile)
	if err != nil {
		return nil, err
	}
	return scoring.LoadBank(data)
}

// selection resolves --categories, or every declared category present in
// the answers file, in bank order.
func selection(bank *scoring.Bank, r scoring.Responses) ([]string, error) {
	var out []string
	if scoreSelection == "" {
		for _, name := range bank.Names() {
			if _, ok := r[name]; ok {
				out = append(out, name)
			}
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("answers file has no known categories")
		}
		return out, nil
	}
	for _, c := range strings.Split(scoreSelection, ",") {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if !bank.Has(c) {
			return nil, fmt.Errorf("unknown category %q", c)
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no categories selected")
	}
	return out, nil
}

func printScores(w io.Writer, scores []scoring.CategoryScore) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tSCORE\tLEVEL\tANSWERED")
	for _, s := range scores {
		risk := scoring.ClassifyRisk(s.Percentage)
		fmt.Fprintf(tw, "%s\t%d%%\t%s\t%d\n", s.Category, s.Percentage, risk.Level, s.AnsweredCount)
	}
	return tw.Flush()
}
