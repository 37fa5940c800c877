package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"polingo/internal/audio"
	"polingo/internal/models"
	"polingo/internal/trainer"
)

var (
	styleTitle     = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleCorrect   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleIncorrect = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleMissing   = lipgloss.NewStyle().Background(lipgloss.Color("9")).Foreground(lipgloss.Color("0"))
	styleSubtle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleError     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleInfo      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	stylePrompt    = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	styleOption    = lipgloss.NewStyle().PaddingLeft(2)
)

// refreshMsg asks the view to re-read the controller snapshot. It is sent
// from the controller's change callback and from finished commands.
type refreshMsg struct{}

// RefreshMsg is the message external callers (the controller change hook)
// send through the program to trigger a redraw.
func RefreshMsg() tea.Msg { return refreshMsg{} }

type recordingStoppedMsg struct {
	audio    []byte
	filename string
	err      error
}

// Model is the terminal view over the practice controller.
type Model struct {
	ctrl      *trainer.Controller
	recorder  audio.Recorder
	input     textinput.Model
	recording bool
	width     int
}

// New creates the TUI model. The recorder may be nil, which disables
// pronunciation capture.
func New(ctrl *trainer.Controller, recorder audio.Recorder) Model {
	ti := textinput.New()
	ti.Placeholder = "answer"
	ti.CharLimit = 120
	ti.Width = 40
	return Model{ctrl: ctrl, recorder: recorder, input: ti}
}

func (m Model) Init() tea.Cmd {
	return func() tea.Msg {
		m.ctrl.Bootstrap(context.Background())
		return refreshMsg{}
	}
}

func (m Model) enterCmd(mode trainer.Mode) tea.Cmd {
	return func() tea.Msg {
		m.ctrl.Enter(context.Background(), mode)
		return refreshMsg{}
	}
}

func (m Model) submitCmd(text string) tea.Cmd {
	return func() tea.Msg {
		m.ctrl.SubmitAnswer(context.Background(), text)
		return refreshMsg{}
	}
}

func (m Model) skipCmd() tea.Cmd {
	return func() tea.Msg {
		m.ctrl.Skip(context.Background())
		return refreshMsg{}
	}
}

func (m Model) addVocabularyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		m.ctrl.AddVocabulary(context.Background(), text)
		return refreshMsg{}
	}
}

func (m Model) answerConjugationCmd(option string) tea.Cmd {
	return func() tea.Msg {
		m.ctrl.AnswerConjugation(context.Background(), option)
		return refreshMsg{}
	}
}

func (m Model) skipConjugationCmd() tea.Cmd {
	return func() tea.Msg {
		m.ctrl.SkipConjugation(context.Background())
		return refreshMsg{}
	}
}

func (m Model) setLanguageCmd(ls models.LanguageSet) tea.Cmd {
	return func() tea.Msg {
		m.ctrl.SetLanguage(context.Background(), ls)
		return refreshMsg{}
	}
}

func (m Model) stopRecordingCmd() tea.Cmd {
	return func() tea.Msg {
		data, filename, err := m.recorder.Stop()
		return recordingStoppedMsg{audio: data, filename: filename, err: err}
	}
}

func (m Model) submitPronunciationCmd(data []byte, filename string) tea.Cmd {
	return func() tea.Msg {
		m.ctrl.SubmitPronunciation(context.Background(), data, filename)
		return refreshMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case refreshMsg:
		return m, nil

	case recordingStoppedMsg:
		m.recording = false
		if msg.err != nil {
			return m, nil
		}
		return m, m.submitPronunciationCmd(msg.audio, msg.filename)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.ctrl.Snapshot()

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.input.SetValue("")
		m.input.Blur()
		return m, m.enterCmd(trainer.ModeIdle)
	}

	switch snap.Mode {
	case trainer.ModeIdle:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "t":
			m.focusInput()
			return m, m.enterCmd(trainer.ModeTranslate)
		case "w":
			m.focusInput()
			return m, m.enterCmd(trainer.ModeWrite)
		case "p":
			return m, m.enterCmd(trainer.ModePronounce)
		case "c":
			return m, m.enterCmd(trainer.ModeConjugate)
		case "a":
			m.focusInput()
			return m, m.enterCmd(trainer.ModeAddVocabulary)
		case "e":
			return m, m.setLanguageCmd(models.LanguageSetEnglish)
		case "u":
			return m, m.setLanguageCmd(models.LanguageSetUkrainian)
		}
		return m, nil

	case trainer.ModeTranslate, trainer.ModeWrite:
		switch msg.String() {
		case "enter":
			text := m.input.Value()
			m.input.SetValue("")
			return m, m.submitCmd(text)
		case "ctrl+s":
			m.input.SetValue("")
			return m, m.skipCmd()
		}

	case trainer.ModeAddVocabulary:
		if msg.String() == "enter" {
			text := m.input.Value()
			m.input.SetValue("")
			return m, m.addVocabularyCmd(text)
		}

	case trainer.ModePronounce:
		switch msg.String() {
		case "r":
			if m.recorder == nil {
				return m, nil
			}
			if m.recording {
				return m, m.stopRecordingCmd()
			}
			if err := m.recorder.Start(context.Background()); err == nil {
				m.recording = true
			}
			return m, nil
		case "ctrl+s":
			return m, m.skipCmd()
		}
		return m, nil

	case trainer.ModeConjugate:
		if snap.Question != nil {
			switch msg.String() {
			case "1", "2", "3", "4":
				idx := int(msg.String()[0] - '1')
				if idx < len(snap.Question.Options) {
					return m, m.answerConjugationCmd(snap.Question.Options[idx])
				}
			case "ctrl+s":
				return m, m.skipConjugationCmd()
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) focusInput() {
	m.input.SetValue("")
	m.input.Focus()
}

func (m Model) View() string {
	snap := m.ctrl.Snapshot()

	var b strings.Builder
	b.WriteString(styleTitle.Render("Polingo"))
	b.WriteString(styleSubtle.Render(fmt.Sprintf("  [%s · %s]", snap.Mode, snap.LanguageSet)))
	b.WriteString("\n\n")

	switch snap.Mode {
	case trainer.ModeIdle:
		b.WriteString(m.viewHome(snap))
	case trainer.ModeAddVocabulary:
		b.WriteString(m.viewAddVocabulary(snap))
	case trainer.ModeTranslate, trainer.ModeWrite:
		b.WriteString(m.viewWordPractice(snap))
	case trainer.ModePronounce:
		b.WriteString(m.viewPronounce(snap))
	case trainer.ModeConjugate:
		b.WriteString(m.viewConjugate(snap))
	}

	if snap.Status != nil {
		b.WriteString("\n")
		if snap.Status.Severity == trainer.SeverityError {
			b.WriteString(styleError.Render(snap.Status.Message))
		} else {
			b.WriteString(styleInfo.Render(snap.Status.Message))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewHome(snap trainer.Snapshot) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Pool: %d words  ·  Today %.1f%%  ·  Overall %.1f%%  ·  Dictionary %d\n\n",
		len(snap.Pool), snap.Stats.TodayPercentage, snap.Stats.OverallPercentage, snap.Stats.AvailableWords))
	b.WriteString("  t  translate    Polish → " + string(snap.LanguageSet) + "\n")
	b.WriteString("  w  write        " + string(snap.LanguageSet) + " → Polish\n")
	b.WriteString("  p  pronounce    speak the Polish word\n")
	b.WriteString("  c  conjugate    pick the verb ending\n")
	b.WriteString("  a  add words\n")
	b.WriteString("  e/u  switch language set   q  quit\n")
	return b.String()
}

func (m Model) viewAddVocabulary(snap trainer.Snapshot) string {
	var b strings.Builder
	b.WriteString("Enter words (comma-separated, any language):\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n" + styleSubtle.Render("enter to add · esc for home"))
	return b.String()
}

func (m Model) viewWordPractice(snap trainer.Snapshot) string {
	var b strings.Builder

	if snap.Current == nil {
		b.WriteString("No words in your pool yet. Add some first.\n")
		return b.String()
	}

	prompt := snap.Current.Polish
	if snap.Mode == trainer.ModeWrite {
		prompt = snap.Current.Translation(snap.LanguageSet)
	}
	b.WriteString(stylePrompt.Render(prompt))
	b.WriteString(styleSubtle.Render(fmt.Sprintf("   (%d/%d)", snap.Cursor+1, len(snap.Pool))))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if fb := snap.WordFeedback; fb != nil {
		b.WriteString("\n" + renderFeedback(fb) + "\n")
	}
	b.WriteString("\n" + styleSubtle.Render("enter to answer · ctrl+s to skip · esc for home"))
	return b.String()
}

func (m Model) viewPronounce(snap trainer.Snapshot) string {
	var b strings.Builder

	if snap.Current == nil {
		b.WriteString("No words in your pool yet. Add some first.\n")
		return b.String()
	}

	b.WriteString("Say: " + stylePrompt.Render(snap.Current.Polish))
	b.WriteString(styleSubtle.Render(fmt.Sprintf("   (%d/%d)", snap.Cursor+1, len(snap.Pool))))
	b.WriteString("\n\n")
	if m.recording {
		b.WriteString(styleIncorrect.Render("● recording") + "  press r to stop\n")
	} else {
		b.WriteString("press r to record\n")
	}

	if fb := snap.PronunciationFeedback; fb != nil {
		b.WriteString("\n")
		if fb.Skipped {
			b.WriteString(styleSubtle.Render("Skipped. The word was: ") + fb.CorrectAnswer)
		} else if fb.Correct {
			b.WriteString(styleCorrect.Render("Correct!"))
		} else {
			b.WriteString(styleIncorrect.Render("Not quite."))
		}
		if fb.Transcribed != "" {
			b.WriteString(styleSubtle.Render("  heard: ") + fb.Transcribed)
		}
		if fb.Message != "" {
			b.WriteString("\n" + fb.Message)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n" + styleSubtle.Render("ctrl+s to skip · esc for home"))
	return b.String()
}

func (m Model) viewConjugate(snap trainer.Snapshot) string {
	var b strings.Builder

	if snap.Question == nil {
		b.WriteString("Loading question...\n")
		return b.String()
	}

	q := snap.Question
	translation := q.English
	if snap.LanguageSet == models.LanguageSetUkrainian {
		translation = q.Ukrainian
	}
	b.WriteString(stylePrompt.Render(q.Infinitive) + styleSubtle.Render("  ("+translation+")") + "\n")
	b.WriteString(fmt.Sprintf("\n%s ___?\n\n", strings.ReplaceAll(string(q.Pronoun), "_", "/")))
	for i, opt := range q.Options {
		b.WriteString(styleOption.Render(fmt.Sprintf("%d. %s", i+1, opt)) + "\n")
	}

	if fb := snap.ConjugationFeedback; fb != nil {
		b.WriteString("\n")
		if fb.Skipped {
			b.WriteString(styleSubtle.Render("Skipped. Correct: ") + fb.CorrectAnswer)
		} else if fb.Correct {
			b.WriteString(styleCorrect.Render("Correct!"))
		} else {
			b.WriteString(styleIncorrect.Render("Wrong.") + " Correct: " + fb.CorrectAnswer)
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\nToday %.1f%% · Overall %.1f%% · Verbs %d\n",
		snap.VerbStats.TodayPercentage, snap.VerbStats.OverallPercentage, snap.VerbStats.AvailableVerbs))
	b.WriteString(styleSubtle.Render("1-4 to answer · ctrl+s to skip · esc for home"))
	return b.String()
}

// renderFeedback renders the word-practice feedback block, including the
// character diff for incorrect written answers. Skipped feedback never
// shows a diff.
func renderFeedback(fb *trainer.Feedback) string {
	var b strings.Builder
	switch {
	case fb.Skipped:
		b.WriteString(styleSubtle.Render("Skipped. Correct: ") + fb.CorrectAnswer)
	case fb.Correct:
		b.WriteString(styleCorrect.Render("Correct! ") + fb.CorrectAnswer)
	default:
		b.WriteString(styleIncorrect.Render("Incorrect. ") + "Correct: " + fb.CorrectAnswer)
		if len(fb.Diff) > 0 {
			b.WriteString("\n  ")
			b.WriteString(renderDiff(fb.Diff))
		}
	}
	if len(fb.Alternatives) > 0 {
		b.WriteString(styleSubtle.Render("\n  also accepted: " + strings.Join(fb.Alternatives, ", ")))
	}
	return b.String()
}

func renderDiff(diff []trainer.DiffChar) string {
	var b strings.Builder
	for _, d := range diff {
		switch d.State {
		case trainer.DiffCorrect:
			b.WriteString(styleCorrect.Render(string(d.Char)))
		case trainer.DiffIncorrect:
			b.WriteString(styleIncorrect.Render(string(d.Char)))
		case trainer.DiffMissing:
			b.WriteString(styleMissing.Render(string(d.Char)))
		}
	}
	return b.String()
}
