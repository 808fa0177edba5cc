package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/msaflow/pkg/assign"
	"github.com/matzehuels/msaflow/pkg/pipeline"
)

const (
	progressWidth = 40
	historyRows   = 8
)

var (
	styleBarFull  = lipgloss.NewStyle().Foreground(colorCyan)
	styleBarEmpty = lipgloss.NewStyle().Foreground(colorDim)
)

// iterationMsg carries the statistics of one finished iteration.
type iterationMsg assign.IterationStats

// doneMsg is sent once the pipeline returns.
type doneMsg struct {
	result *pipeline.Result
	err    error
}

// ProgressModel is the bubbletea model for `run --tui`: a progress bar and
// the most recent iterations with their UE and AEC.
type ProgressModel struct {
	Name       string
	Iterations int
	Current    int
	Routes     int
	History    []assign.IterationStats
	Result     *pipeline.Result
	Err        error
	Aborted    bool

	start  time.Time
	cancel context.CancelFunc
}

// NewProgressModel creates a model for a run of n iterations. cancel is
// called when the user quits early.
func NewProgressModel(name string, n int, cancel context.CancelFunc) ProgressModel {
	return ProgressModel{Name: name, Iterations: n, start: time.Now(), cancel: cancel}
}

func (m ProgressModel) Init() tea.Cmd {
	return nil
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Aborted = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case iterationMsg:
		st := assign.IterationStats(msg)
		m.Current = st.Iteration
		m.Routes = st.Routes
		m.History = append(m.History, st)
		if len(m.History) > historyRows {
			m.History = m.History[len(m.History)-historyRows:]
		}
	case doneMsg:
		m.Result, m.Err = msg.result, msg.err
		if m.Err == nil && m.Result != nil {
			m.Current = m.Iterations
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m ProgressModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Assigning " + m.Name))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("q quit"))
	b.WriteString("\n\n")

	b.WriteString(progressBar(m.Current, m.Iterations, progressWidth))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d/%d  %d routes  %s",
		m.Current, m.Iterations, m.Routes, time.Since(m.start).Round(time.Millisecond))))
	b.WriteString("\n\n")

	if len(m.History) > 0 {
		rows := make([][]string, len(m.History))
		for i, st := range m.History {
			rows[i] = []string{
				fmt.Sprintf("%d", st.Iteration),
				fmt.Sprintf("%.4f", st.Phi),
				fmt.Sprintf("%d", st.NewRoutes),
				fmt.Sprintf("%.2f", st.UE),
				fmt.Sprintf("%.6f", st.AEC),
			}
		}
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
			Headers("Iter", "Phi", "New", "UE", "AEC").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == -1 {
					return styleTableHeader.Padding(0, 1)
				}
				return lipgloss.NewStyle().Padding(0, 1)
			})
		b.WriteString(t.Render())
		b.WriteString("\n")
	}
	return b.String()
}

// progressBar renders done/total as a bar of the given width.
func progressBar(done, total, width int) string {
	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	filled = min(max(filled, 0), width)
	return styleBarFull.Render(strings.Repeat("█", filled)) +
		styleBarEmpty.Render(strings.Repeat("░", width-filled))
}

// runWithTUI runs the pipeline on a goroutine while a bubbletea program
// shows its progress on stderr. Tracing is forced on so each iteration
// carries UE and AEC.
func runWithTUI(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts.Trace = true
	iterations := opts.Iterations
	if iterations == 0 {
		iterations = pipeline.DefaultIterations
	}

	p := tea.NewProgram(NewProgressModel(opts.Name, iterations, cancel), tea.WithOutput(os.Stderr))
	opts.OnIteration = func(st assign.IterationStats) {
		p.Send(iterationMsg(st))
	}
	go func() {
		res, err := runner.Execute(ctx, opts)
		p.Send(doneMsg{result: res, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("progress view: %w", err)
	}
	m := final.(ProgressModel)
	if m.Aborted {
		return nil, context.Canceled
	}
	return m.Result, m.Err
}
