package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"shiftdesk-be/pkg/intent"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type classifyOptions struct {
	locale    string
	tablePath string
	threshold float64
	maxLen    int
	maxDist   int
}

type classifyLine struct {
	Input  string        `json:"input"`
	Result intent.Result `json:"result"`
}

func newClassifyCmd() *cobra.Command {
	opts := classifyOptions{}
	defaults := intent.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "classify [text...]",
		Short: "Classify text, or stdin lines when no text is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			matcher, err := opts.matcher()
			if err != nil {
				return err
			}
			if len(args) > 0 {
				return writeResult(cmd.OutOrStdout(), matcher, strings.Join(args, " "))
			}
			return classifyLines(cmd.InOrStdin(), cmd.OutOrStdout(), matcher)
		},
	}

	cmd.Flags().StringVarP(&opts.locale, "locale", "l", intent.LocaleMulti, "Built-in locale (en, it, multi)")
	cmd.Flags().StringVarP(&opts.tablePath, "table", "t", "", "YAML phrase table; overrides --locale")
	cmd.Flags().Float64Var(&opts.threshold, "threshold", defaults.SimilarityThreshold, "Similarity threshold")
	cmd.Flags().IntVar(&opts.maxLen, "short-len", defaults.ShortPhraseMaxLen, "Max length for the short-phrase rescue")
	cmd.Flags().IntVar(&opts.maxDist, "short-dist", defaults.ShortPhraseMaxDistance, "Max distance for the short-phrase rescue")
	return cmd
}

func (o classifyOptions) matcher() (*intent.Matcher, error) {
	cfg := intent.Config{
		SimilarityThreshold:    o.threshold,
		ShortPhraseMaxLen:      o.maxLen,
		ShortPhraseMaxDistance: o.maxDist,
	}

	if o.tablePath != "" {
		table, err := intent.LoadTable(o.tablePath)
		if err != nil {
			return nil, err
		}
		return intent.New(table, cfg)
	}

	table, ok := builtinTable(o.locale)
	if !ok {
		return nil, fmt.Errorf("unknown locale %q", o.locale)
	}
	return intent.New(table, cfg)
}

func builtinTable(locale string) (*intent.PhraseTable, bool) {
	for _, t := range intent.BuiltinTables() {
		if t.Locale == locale {
			return t, true
		}
	}
	return nil, false
}

func classifyLines(in io.Reader, out io.Writer, matcher *intent.Matcher) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := writeResult(out, matcher, line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func writeResult(out io.Writer, matcher *intent.Matcher, input string) error {
	data, err := json.Marshal(classifyLine{Input: input, Result: matcher.Classify(input)})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func newTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List built-in locales with phrase counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, t := range intent.BuiltinTables() {
				counts := make([]string, 0, len(intent.ActionOrder))
				for _, action := range intent.ActionOrder {
					counts = append(counts, fmt.Sprintf("%s=%d", action, len(t.Phrases[action])))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-6s %s rules=%d\n", t.Locale, strings.Join(counts, " "), len(t.Rules))
			}
			return nil
		},
	}
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <locale>",
		Short: "Print a built-in table as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, ok := builtinTable(args[0])
			if !ok {
				return fmt.Errorf("unknown locale %q", args[0])
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(table)
		},
	}
}
