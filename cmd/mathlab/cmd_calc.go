package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mathlab/cmd/mathlab/ui"
	"mathlab/internal/analysis"
	"mathlab/internal/calc"
	"mathlab/internal/classify"
	"mathlab/internal/logging"
	"mathlab/internal/numfmt"
	"mathlab/internal/store"
)

// errEmptyExpression mirrors the calculator card's prompt for blank input.
var errEmptyExpression = errors.New("Type an expression first.")

var calcCmd = &cobra.Command{
	Use:   "calc [expression...]",
	Short: "Evaluate an arithmetic expression",
	Long: `Evaluates + - * / and parentheses with the usual precedence.
Arguments are joined with spaces, so quoting is optional.`,
	Example: `  mathlab calc 2+3*4
  mathlab calc "(1 + 2) / 4"
  mathlab calc -- -2+5`,
	RunE: runCalc,
}

var classifyCmd = &cobra.Command{
	Use:   "classify [text...]",
	Short: "Classify free-text math input",
	Long: `Tags the input as Function, Equation, System of equations, Inequality,
Derivative, Integral or Other. Pass - to read the input from stdin.`,
	Example: `  mathlab classify "x^2-5x+6=0"
  printf 'x+1=3\nx-2=0\n' | mathlab classify -`,
	RunE: runClassify,
}

var analyzeFormat string

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text...]",
	Short: "Analyze a function, equation, system or other math input",
	Long: `Classifies the input and, for linear and quadratic polynomials, reports
domain, range, derivative, symmetry, roots, vertex, intersections and a
graph expression. Pass - to read the input from stdin, which lets a system
span several lines.`,
	Example: `  mathlab analyze "f(x)=x^2-4x+3"
  mathlab analyze --format json "x^2-5x+6=0"
  printf 'x+1=3\nx-2=0\n' | mathlab analyze -`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "md", "Output format: md or json")
}

// readInput joins args, or reads stdin when the only argument is "-".
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return strings.TrimRight(string(data), "\n"), nil
	}
	return joinArgs(args), nil
}

func runCalc(cmd *cobra.Command, args []string) error {
	expr := strings.TrimSpace(joinArgs(args))
	if expr == "" {
		return errEmptyExpression
	}

	timer := logging.StartTimer(logs.For(logging.CategoryCalc), "evaluate")
	v, err := calc.Evaluate(expr)
	timer.Stop()
	if err != nil {
		record(cmd, store.Entry{Kind: store.KindCalc, Input: expr, Output: err.Error(), IsError: true})
		if kind, ok := calc.KindOf(err); ok {
			logs.For(logging.CategoryCalc).Debug("evaluation failed", zap.Stringer("kind", kind))
		}
		return err
	}

	display := numfmt.Format(v)
	record(cmd, store.Entry{Kind: store.KindCalc, Input: expr, Output: display})
	fmt.Fprintln(cmd.OutOrStdout(), styles.Result.Render("Result: "+display))
	return nil
}

func runClassify(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	kind, rule := classify.New(nil).Explain(text)
	logs.For(logging.CategoryClassify).Debug("classified", zap.Stringer("type", kind), zap.String("rule", rule))
	record(cmd, store.Entry{Kind: store.KindClassify, Input: text, Output: kind.String()})

	out := styles.Result.Render(kind.String())
	if verbose && rule != "" {
		out += " " + styles.Muted.Render("("+rule+")")
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	engine := analysis.NewEngine(logs.For(logging.CategoryAnalysis))
	result := engine.Analyze(text)
	record(cmd, store.Entry{Kind: store.KindAnalyze, Input: text, Output: result.ChatSummary})

	out := cmd.OutOrStdout()
	switch strings.ToLower(analyzeFormat) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "md", "markdown":
		fmt.Fprint(out, ui.NewMarkdown(styles.Theme, 80).Render(result.Markdown()))
		return nil
	default:
		return fmt.Errorf("unknown format %q (want md or json)", analyzeFormat)
	}
}
