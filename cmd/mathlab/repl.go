package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"mathlab/cmd/mathlab/ui"
	"mathlab/internal/analysis"
	"mathlab/internal/calc"
	"mathlab/internal/logging"
	"mathlab/internal/numfmt"
	"mathlab/internal/session"
	"mathlab/internal/store"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive math lab",
	Long: `Type any math input to analyze it. Slash commands drive the calculator and
the cards:

  /calc <expr>   evaluate arithmetic
  /quad a b c    solve a quadratic
  /fib [n]       generate a Fibonacci sequence
  /next          reveal the next term
  /play, /stop   auto-play the sequence
  /explain       explain the latest results
  /clear         clear the screen
  /quit          exit`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

const replHelp = "Type math to analyze it, e.g. `f(x)=x^2-4x+3` or `x^2-5x+6=0`.\n\n" +
	"- `/calc <expr>` evaluate arithmetic\n" +
	"- `/quad a b c` solve a quadratic\n" +
	"- `/fib [n]`, `/next`, `/play`, `/stop`, `/reset` Fibonacci playback\n" +
	"- `/explain` explain the latest results\n" +
	"- `/clear`, `/quit`\n"

// outputKind selects how a REPL answer is styled.
type outputKind int

const (
	outputResult outputKind = iota
	outputMarkdown
	outputBody
	outputWarn
	outputDanger
)

type replEntry struct {
	input  string
	output string
	kind   outputKind
	// live entries are rewritten in place by auto-play ticks.
	live bool
}

// playTickMsg advances auto-play. Ticks from an older /play are ignored.
type playTickMsg struct{ gen int }

// replModel is the bubbletea model of the interactive math lab.
type replModel struct {
	input    textinput.Model
	viewport viewport.Model
	styles   ui.Styles
	markdown *ui.Markdown

	engine   *analysis.Engine
	session  *session.Session
	record   func(store.Entry)
	maxTerms int
	defTerms int
	interval time.Duration

	entries []replEntry
	playing bool
	playGen int
	width   int
	height  int
	ready   bool
}

func newReplModel(styles ui.Styles, engine *analysis.Engine, maxTerms, defTerms int, interval time.Duration, rec func(store.Entry)) replModel {
	ti := textinput.New()
	ti.Placeholder = "f(x)=x^2-4x+3, /calc 2+3*4, /fib 10 ... (Enter to run, Ctrl+C to exit)"
	ti.Focus()
	ti.Prompt = "│ "
	ti.CharLimit = 1024
	ti.Width = 80
	ti.PromptStyle = styles.Prompt
	ti.TextStyle = styles.UserInput

	if rec == nil {
		rec = func(store.Entry) {}
	}
	if engine == nil {
		engine = analysis.NewEngine(nil)
	}

	return replModel{
		input:    ti,
		viewport: viewport.New(80, 20),
		styles:   styles,
		markdown: ui.NewMarkdown(styles.Theme, 80),
		engine:   engine,
		session:  session.New(),
		record:   rec,
		maxTerms: maxTerms,
		defTerms: defTerms,
		interval: interval,
	}
}

func (m replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			line := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			var cmd tea.Cmd
			m, cmd = m.handleLine(line)
			m.refresh()
			return m, cmd
		}
		m.input, tiCmd = m.input.Update(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 2
		footerHeight := 1
		inputHeight := 3
		m.viewport.Width = msg.Width - 2
		m.viewport.Height = msg.Height - headerHeight - footerHeight - inputHeight
		m.input.Width = msg.Width - 6
		m.markdown = ui.NewMarkdown(m.styles.Theme, msg.Width-8)
		m.ready = true
		m.refresh()

	case playTickMsg:
		if !m.playing || msg.gen != m.playGen {
			return m, nil
		}
		frame, _, ok := m.session.StepFibonacci()
		if !ok {
			m.playing = false
			return m, nil
		}
		m.showFibonacci("", true)
		if frame.Last() {
			m.playing = false
			m.refresh()
			return m, nil
		}
		m.refresh()
		return m, m.tick()
	}

	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

func (m replModel) tick() tea.Cmd {
	gen := m.playGen
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return playTickMsg{gen: gen} })
}

// handleLine runs one line of input. It is the whole behavior of the REPL;
// Update only routes keys to it.
func (m replModel) handleLine(line string) (replModel, tea.Cmd) {
	if line == "" {
		return m, nil
	}
	if !strings.HasPrefix(line, "/") {
		result := m.engine.Analyze(line)
		m.record(store.Entry{Kind: store.KindAnalyze, Input: line, Output: result.ChatSummary})
		m.add(line, result.Markdown(), outputMarkdown)
		return m, nil
	}

	name, rest, _ := strings.Cut(line[1:], " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(name) {
	case "quit", "exit", "q":
		return m, tea.Quit

	case "help", "h", "?":
		m.add(line, replHelp, outputMarkdown)

	case "clear":
		m.entries = nil

	case "calc":
		m.calc(line, rest)

	case "quad", "quadratic":
		m.quadratic(line, rest)

	case "fib":
		m.playing = false
		m.playGen++
		n := m.defTerms
		if rest != "" {
			v, err := strconv.Atoi(rest)
			if err != nil {
				v = -1
			}
			n = v
		}
		if _, err := m.session.StartFibonacci(n, m.maxTerms); err != nil {
			m.add(line, err.Error(), outputDanger)
			return m, nil
		}
		m.showFibonacci(line, false)
		text, _ := m.session.Fibonacci()
		m.record(store.Entry{Kind: store.KindFibonacci, Input: strconv.Itoa(n), Output: text})

	case "next":
		if _, _, ok := m.session.StepFibonacci(); !ok {
			m.add(line, "Press Generate to start.", outputWarn)
			return m, nil
		}
		m.showFibonacci(line, false)

	case "play":
		if _, ok := m.session.Fibonacci(); !ok {
			m.add(line, "Press Generate to start.", outputWarn)
			return m, nil
		}
		m.playing = true
		m.playGen++
		m.showFibonacci(line, true)
		return m, m.tick()

	case "stop":
		m.playing = false
		m.playGen++

	case "reset":
		m.playing = false
		m.playGen++
		m.session.ResetFibonacci()
		m.add(line, "Fibonacci reset.", outputBody)

	case "explain":
		m.add(line, m.session.Explain(), outputBody)

	default:
		m.add(line, fmt.Sprintf("Unknown command /%s. Type /help.", name), outputWarn)
	}
	return m, nil
}

func (m *replModel) calc(line, expr string) {
	if expr == "" {
		m.add(line, errEmptyExpression.Error(), outputDanger)
		return
	}
	v, err := calc.Evaluate(expr)
	if err != nil {
		m.record(store.Entry{Kind: store.KindCalc, Input: expr, Output: err.Error(), IsError: true})
		m.add(line, err.Error(), outputDanger)
		return
	}
	display := numfmt.Format(v)
	m.record(store.Entry{Kind: store.KindCalc, Input: expr, Output: display})
	m.add(line, "Result: "+display, outputResult)
}

func (m *replModel) quadratic(line, rest string) {
	fields := strings.Fields(rest)
	if len(fields) != 3 {
		m.add(line, "Usage: /quad a b c", outputWarn)
		return
	}
	report, err := m.session.SolveQuadratic(parseCoefficient(fields[0]), parseCoefficient(fields[1]), parseCoefficient(fields[2]))
	if err != nil {
		m.record(store.Entry{Kind: store.KindQuadratic, Input: rest, Output: err.Error(), IsError: true})
		m.add(line, err.Error(), outputDanger)
		return
	}
	m.record(store.Entry{Kind: store.KindQuadratic, Input: rest, Output: report.Summary()})
	m.add(line, report.Summary(), outputResult)
}

// showFibonacci prints the playback state. A tick (live, no input line)
// rewrites the current live entry instead of appending.
func (m *replModel) showFibonacci(line string, live bool) {
	text, ok := m.session.Fibonacci()
	if !ok {
		return
	}
	f, _ := m.session.FibonacciFrame()
	out := text + "\n" + f.Progress
	if n := len(m.entries); n > 0 && m.entries[n-1].live {
		if live && line == "" {
			m.entries[n-1].output = out
			return
		}
		m.entries[n-1].live = false
	}
	m.entries = append(m.entries, replEntry{input: line, output: out, kind: outputResult, live: live})
}

func (m *replModel) add(input, output string, kind outputKind) {
	m.entries = append(m.entries, replEntry{input: input, output: output, kind: kind})
}

func (m *replModel) refresh() {
	m.viewport.SetContent(m.renderEntries())
	m.viewport.GotoBottom()
}

func (m replModel) renderEntries() string {
	var sb strings.Builder
	for _, e := range m.entries {
		if e.input != "" {
			sb.WriteString(m.styles.Prompt.Render("›") + " " + m.styles.UserInput.Render(e.input) + "\n")
		}
		switch e.kind {
		case outputMarkdown:
			sb.WriteString(m.markdown.Render(e.output))
		case outputResult:
			sb.WriteString(m.styles.Card.Render(m.styles.Result.Render(e.output)) + "\n")
		case outputWarn:
			sb.WriteString(m.styles.Card.Render(m.styles.Warn.Render(e.output)) + "\n")
		case outputDanger:
			sb.WriteString(m.styles.Card.Render(m.styles.Danger.Render(e.output)) + "\n")
		default:
			sb.WriteString(m.styles.Card.Render(m.styles.Body.Render(e.output)) + "\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m replModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.styles.Header.Render("mathlab") + " " + m.styles.Muted.Render(m.styles.Theme.Name+" theme")
	status := "Enter to run · /help for commands · Ctrl+C to exit"
	if m.playing {
		status = "Auto-playing Fibonacci · /stop to pause"
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		m.styles.RenderDivider(m.width),
		m.viewport.View(),
		m.styles.Input.Render(m.input.View()),
		m.styles.Footer.Render(status),
	)
}

func runRepl(cmd *cobra.Command, args []string) error {
	// Log lines on stderr would tear the alternate screen.
	if !verbose {
		logs.Atom.SetLevel(zapcore.ErrorLevel)
	}

	h, err := openHistory()
	if err != nil {
		return err
	}
	defer h.Close()
	ctx := commandContext(cmd)
	rec := func(e store.Entry) {
		if _, err := h.Record(ctx, e); err != nil {
			logger.Warn("failed to record history", zap.Error(err))
		}
	}

	m := newReplModel(styles,
		analysis.NewEngine(logs.For(logging.CategoryAnalysis)),
		cfg.Explore.FibMaxTerms, cfg.Explore.FibDefaultTerms, cfg.GetAutoPlayInterval(), rec)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
