// Package tui renders the practice session as a Bubble Tea program.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/rhythmiz/internal/catalog"
	"github.com/abhisek/rhythmiz/internal/drill"
)

// EngineEventMsg wraps an engine event for the Bubble Tea update loop.
type EngineEventMsg struct {
	Event drill.Event
}

// tickFadeMsg clears the beat flash shortly after a tick.
type tickFadeMsg struct{}

// Model is the root Bubble Tea model for one practice session.
type Model struct {
	engine *drill.Engine

	width  int
	height int

	question *drill.QuestionState
	cursor   int
	verdict  *drill.Verdict
	target   []catalog.DurationKind
	reward   int
	stats    drill.SessionStats
	tempo    int
	advisory string
	stalled  bool
	mastered string
	beatOn   bool

	tempoInput  textinput.Model
	tempoEntry  bool
	quitConfirm bool
}

// NewModel creates the session model around a constructed engine.
func NewModel(engine *drill.Engine) Model {
	ti := textinput.New()
	ti.Placeholder = "BPM"
	ti.CharLimit = 3

	return Model{
		engine:     engine,
		tempo:      engine.Tempo(),
		tempoInput: ti,
	}
}

func (m Model) Init() tea.Cmd {
	return func() tea.Msg {
		if err := m.engine.NextQuestion(context.Background()); err != nil && !errors.Is(err, drill.ErrStalled) {
			return EngineEventMsg{Event: drill.Stalled{}}
		}
		return nil
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case EngineEventMsg:
		return m.handleEngineEvent(msg.Event)

	case tickFadeMsg:
		m.beatOn = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.tempoEntry {
		var cmd tea.Cmd
		m.tempoInput, cmd = m.tempoInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleEngineEvent(ev drill.Event) (tea.Model, tea.Cmd) {
	switch ev := ev.(type) {
	case drill.QuestionShown:
		m.question = m.engine.Question()
		m.cursor = 0
		m.verdict = nil
		m.target = nil
		m.advisory = ""
		m.stalled = false
		m.mastered = ""

	case drill.AnswerEvaluated:
		v := ev.Verdict
		m.verdict = &v
		m.reward = ev.Reward
		m.stats = ev.Stats
		m.question = m.engine.Question()

	case drill.Mastered:
		m.mastered = ev.ItemID

	case drill.MixupsDetected:
		m.advisory = "This pattern keeps tripping you up. It will come around more often."

	case drill.Stalled:
		m.stalled = true
		m.question = nil

	case drill.TempoChanged:
		m.tempo = ev.Tempo

	case drill.TickPlayed:
		m.beatOn = true
		return m, tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg {
			return tickFadeMsg{}
		})
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.quitConfirm {
		switch key {
		case "y", "Y", "enter":
			m.engine.Close()
			return m, tea.Quit
		default:
			m.quitConfirm = false
			return m, nil
		}
	}

	if m.tempoEntry {
		switch key {
		case "enter":
			if bpm, err := strconv.Atoi(m.tempoInput.Value()); err == nil {
				m.engine.SetTempo(bpm)
			}
			m.tempoEntry = false
			m.tempoInput.SetValue("")
			return m, nil
		case "esc":
			m.tempoEntry = false
			m.tempoInput.SetValue("")
			return m, nil
		default:
			var cmd tea.Cmd
			m.tempoInput, cmd = m.tempoInput.Update(msg)
			return m, cmd
		}
	}

	switch key {
	case "ctrl+c", "q":
		m.quitConfirm = true
		return m, nil

	case "t":
		m.tempoEntry = true
		return m, m.tempoInput.Focus()

	case "p":
		if err := m.engine.Play(); errors.Is(err, drill.ErrPlaybackUnavailable) {
			m.advisory = "Playback is not available right now."
		}
		return m, nil

	case "n":
		return m, m.nextQuestionCmd()

	case "1", "2", "3":
		return m.fillSlot(key), nil

	case "left":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "right":
		if m.question != nil && m.cursor < len(m.question.Slots)-1 {
			m.cursor++
		}
		return m, nil

	case "backspace":
		if m.question == nil {
			return m, nil
		}
		if err := m.engine.ClearSlot(m.cursor); err == nil {
			m.question = m.engine.Question()
			if m.cursor > 0 {
				m.cursor--
			}
		}
		return m, nil

	case "h":
		if m.question == nil {
			return m, nil
		}
		if kind, err := m.engine.Hint(m.cursor); err == nil {
			m.advisory = fmt.Sprintf("Slot %d is a %s (reward halved).", m.cursor+1, kind.DisplayName())
			m.question = m.engine.Question()
		}
		return m, nil

	case "enter":
		return m.checkAnswer()
	}
	return m, nil
}

func (m Model) fillSlot(key string) Model {
	if m.question == nil {
		return m
	}
	kinds := map[string]catalog.DurationKind{
		"1": catalog.Quarter,
		"2": catalog.Eighth,
		"3": catalog.Sixteenth,
	}
	if err := m.engine.FillSlot(m.cursor, kinds[key]); err != nil {
		return m
	}
	m.question = m.engine.Question()
	if m.cursor < len(m.question.Slots)-1 {
		m.cursor++
	}
	m.advisory = ""
	return m
}

func (m Model) checkAnswer() (tea.Model, tea.Cmd) {
	res, err := m.engine.CheckAnswer(context.Background())
	switch {
	case errors.Is(err, drill.ErrIncompleteAnswer):
		m.advisory = "Fill every slot before checking."
		return m, nil
	case err != nil:
		return m, nil
	}
	m.target = res.Target
	return m, nil
}

func (m Model) nextQuestionCmd() tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		if err := engine.NextQuestion(context.Background()); err != nil && !errors.Is(err, drill.ErrStalled) {
			return nil
		}
		return nil
	}
}
