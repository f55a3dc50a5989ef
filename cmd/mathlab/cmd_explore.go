package main

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"mathlab/internal/explore"
	"mathlab/internal/session"
	"mathlab/internal/store"
)

var quadraticCmd = &cobra.Command{
	Use:   "quadratic a b c",
	Short: "Solve a·x²+bx+c = 0",
	Long: `Reports the discriminant, the real roots and the vertex of the parabola.
Put -- before the coefficients when the first one is negative.`,
	Example: `  mathlab quadratic 1 -3 2
  mathlab quadratic -- -1 2 -1`,
	Args: cobra.ExactArgs(3),
	RunE: runQuadratic,
}

var fibStep int

var fibCmd = &cobra.Command{
	Use:   "fib [n]",
	Short: "Generate the Fibonacci sequence and its ratios",
	Long: `Generates n terms starting 0, 1 (default from config). Playback starts with
the first two terms visible; --step reveals that many more, otherwise every
term is shown.`,
	Example: `  mathlab fib 10
  mathlab fib 12 --step 3`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFib,
}

var (
	explainQuadratic []float64
	explainFib       int
	explainStep      int
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Explain a quadratic and a Fibonacci result in plain words",
	Example: `  mathlab explain --quadratic 1,-3,2
  mathlab explain --fib 8 --step 4`,
	Args: cobra.NoArgs,
	RunE: runExplain,
}

func init() {
	fibCmd.Flags().IntVar(&fibStep, "step", 0, "Reveal this many terms after the first two")

	explainCmd.Flags().Float64SliceVar(&explainQuadratic, "quadratic", nil, "Coefficients a,b,c to solve first")
	explainCmd.Flags().IntVar(&explainFib, "fib", 0, "Number of Fibonacci terms to generate first")
	explainCmd.Flags().IntVar(&explainStep, "step", 0, "Fibonacci terms to reveal after the first two")
}

// parseCoefficient reads one coefficient. Unparseable text becomes NaN so the
// solver reports it the way the card does.
func parseCoefficient(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func runQuadratic(cmd *cobra.Command, args []string) error {
	a, b, c := parseCoefficient(args[0]), parseCoefficient(args[1]), parseCoefficient(args[2])
	input := joinArgs(args)

	report, err := explore.SolveQuadratic(a, b, c)
	if err != nil {
		record(cmd, store.Entry{Kind: store.KindQuadratic, Input: input, Output: err.Error(), IsError: true})
		return err
	}

	summary := report.Summary()
	record(cmd, store.Entry{Kind: store.KindQuadratic, Input: input, Output: summary})
	fmt.Fprintln(cmd.OutOrStdout(), styles.Result.Render(summary))
	direction := "downward"
	if report.OpensUpward() {
		direction = "upward"
	}
	fmt.Fprintln(cmd.OutOrStdout(), styles.Muted.Render("The parabola opens "+direction+"."))
	return nil
}

func runFib(cmd *cobra.Command, args []string) error {
	n := cfg.Explore.FibDefaultTerms
	if len(args) == 1 {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return &explore.TermRangeError{N: -1, Max: cfg.Explore.FibMaxTerms}
		}
		n = v
	}

	p, err := explore.NewPlayer(n, cfg.Explore.FibMaxTerms)
	if err != nil {
		record(cmd, store.Entry{Kind: store.KindFibonacci, Input: strconv.Itoa(n), Output: err.Error(), IsError: true})
		return err
	}

	steps := p.Len()
	if cmd.Flags().Changed("step") {
		steps = fibStep
	}
	for i := 0; i < steps; i++ {
		if _, done := p.Next(); done {
			break
		}
	}

	record(cmd, store.Entry{Kind: store.KindFibonacci, Input: strconv.Itoa(n), Output: p.String()})
	fmt.Fprintln(cmd.OutOrStdout(), styles.Result.Render(p.String()))
	fmt.Fprintln(cmd.OutOrStdout(), styles.Muted.Render(p.Progress()))
	return nil
}

func runExplain(cmd *cobra.Command, args []string) error {
	sess := session.New()

	if len(explainQuadratic) > 0 {
		if len(explainQuadratic) != 3 {
			return fmt.Errorf("--quadratic takes three coefficients a,b,c, got %d", len(explainQuadratic))
		}
		if _, err := sess.SolveQuadratic(explainQuadratic[0], explainQuadratic[1], explainQuadratic[2]); err != nil {
			return err
		}
	}

	if explainFib > 0 {
		if _, err := sess.StartFibonacci(explainFib, cfg.Explore.FibMaxTerms); err != nil {
			return err
		}
		for i := 0; i < explainStep; i++ {
			if f, _, _ := sess.StepFibonacci(); f.Last() {
				break
			}
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), styles.Body.Render(sess.Explain()))
	return nil
}
