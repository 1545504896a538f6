package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"parley/command"
	"parley/config"
	"parley/log"
	"parley/session"
	"parley/transcript"
)

type tickMsg time.Time

type uiMode int

const (
	modeLive uiMode = iota
	modeScroll
	modeBackground
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	promptStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	translationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("109")).Italic(true)
	moreStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("178"))
)

type tuiModel struct {
	sess *session.Session
	cfg  config.Config
	win  *transcript.Window

	mode   uiMode
	input  string
	status string
	width  int
	height int
}

func NewTUIProgram(sess *session.Session, cfg config.Config) *tea.Program {
	m := tuiModel{
		sess: sess,
		cfg:  cfg,
		win:  transcript.NewWindow(cfg.UI.PageSize),
	}
	return tea.NewProgram(m, tea.WithAltScreen())
}

func tuiTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Init() tea.Cmd {
	return tuiTick()
}

func newAssembler(snap session.Snapshot) *transcript.Assembler {
	return &transcript.Assembler{
		Target: snap.Target,
		Label: func(id int) string {
			if l, ok := snap.Labels[id]; ok {
				return l
			}
			return fmt.Sprintf("Speaker %d", id)
		},
	}
}

// plainLines flattens the finalized transcript for scrollback.
func plainLines(snap session.Snapshot) []string {
	segs := newAssembler(snap).Assemble(snap.Tokens)
	if len(segs) == 0 {
		return nil
	}
	return strings.Split(transcript.PlainText(segs), "\n")
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		if m.mode == modeScroll {
			m.win.SetTotal(len(plainLines(m.sess.Snapshot())))
		}
		return m, tuiTick()

	case tea.KeyMsg:
		if m.mode == modeScroll {
			return m.updateScroll(msg)
		}
		return m.updateInput(msg)
	}
	return m, nil
}

func (m tuiModel) updateScroll(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.win.ScrollUp(1)
	case "down", "j":
		m.win.ScrollDown(1)
	case "pgup", "b":
		m.win.ScrollUp(m.win.PageSize)
	case "pgdown", "f", " ":
		m.win.ScrollDown(m.win.PageSize)
	case "g", "home":
		m.win.ToTop()
	case "G", "end":
		m.win.ToBottom()
	case "q", "esc", "enter":
		m.mode = modeLive
		m.status = ""
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m tuiModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		return m.execute()
	case "backspace":
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.input += string(msg.Runes)
		} else if msg.Type == tea.KeySpace {
			m.input += " "
		}
	}
	return m, nil
}

func (m tuiModel) execute() (tea.Model, tea.Cmd) {
	line := m.input
	m.input = ""

	cmd, ok := command.Parse(line)
	if !ok {
		if strings.TrimSpace(line) != "" {
			m.status = "commands: /save /v /b /fg /q"
		}
		return m, nil
	}

	switch cmd.Type {
	case command.Unknown:
		m.status = fmt.Sprintf("unknown command %q (try /save /v /b /fg /q)", cmd.Raw)
	case command.Background:
		m.mode = modeBackground
		m.status = ""
	case command.Foreground:
		m.mode = modeLive
		m.status = ""
	case command.Scroll:
		snap := m.sess.Snapshot()
		lines := plainLines(snap)
		if err := m.win.Enter(len(lines), len(snap.Tokens)); err != nil {
			m.status = "no transcript yet"
		} else {
			m.mode = modeScroll
		}
	case command.Save:
		path, err := saveSegment(m.sess)
		if err != nil {
			log.Errorf("segment save failed: %v", err)
			m.status = "save failed: " + err.Error()
		} else {
			m.status = "saved " + path
		}
	case command.Quit:
		return m, tea.Quit
	}
	return m, nil
}

// styledParagraphs renders assembled segments for the live view: one
// paragraph per speaker turn, translations on indented follow-on lines.
func styledParagraphs(segs []transcript.Segment, target string) []string {
	var lines []string
	var cur strings.Builder
	endLine := func() {
		if cur.Len() > 0 {
			lines = append(lines, cur.String())
			cur.Reset()
		}
	}
	newParagraph := func() {
		endLine()
		if len(lines) > 0 {
			lines = append(lines, "")
		}
	}

	for _, seg := range segs {
		switch seg.Kind {
		case transcript.KindSpeakerLabel:
			newParagraph()
			emoji, color := "", "15"
			if seg.Speaker != nil {
				emoji, color = config.SpeakerStyle(*seg.Speaker)
			}
			style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
			if emoji != "" {
				cur.WriteString(emoji + " ")
			}
			cur.WriteString(style.Render(seg.Text+":") + " ")
		case transcript.KindOriginal:
			if seg.Language != "" && seg.Language != target {
				cur.WriteString(config.LanguageFlag(seg.Language) + " ")
			}
			if seg.IsFinal {
				style := lipgloss.NewStyle().Foreground(lipgloss.Color(config.LanguageColor(seg.Language)))
				cur.WriteString(style.Render(seg.Text))
			} else {
				cur.WriteString(pendingStyle.Render(seg.Text))
			}
		case transcript.KindTranslation:
			endLine()
			line := "  ↳ " + seg.Text
			if seg.IsFinal {
				lines = append(lines, translationStyle.Render(line))
			} else {
				lines = append(lines, pendingStyle.Render(line))
			}
		}
	}
	endLine()
	return lines
}

func (m tuiModel) View() string {
	switch m.mode {
	case modeScroll:
		return m.viewScroll()
	case modeBackground:
		return m.viewBackground()
	default:
		return m.viewLive()
	}
}

func (m tuiModel) viewLive() string {
	snap := m.sess.Snapshot()
	all := append(append([]session.Token{}, snap.Tokens...), snap.Pending...)
	segs := newAssembler(snap).Assemble(all)
	lines := styledParagraphs(segs, snap.Target)

	var b strings.Builder
	b.WriteString(titleStyle.Render("parley — "+m.sess.Name) + "\n\n")

	limit := m.cfg.UI.LiveLines
	if m.height > 6 && m.height-6 < limit {
		limit = m.height - 6
	}
	if hidden := len(lines) - limit; hidden > 0 {
		b.WriteString(moreStyle.Render(fmt.Sprintf("↑ %d more (/v to scroll)", hidden)) + "\n")
		lines = lines[len(lines)-limit:]
	}
	for _, line := range lines {
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + promptStyle.Render("> ") + m.input + "\n")
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func (m tuiModel) viewScroll() string {
	lines := plainLines(m.sess.Snapshot())
	m.win.SetTotal(len(lines))

	var b strings.Builder
	for _, line := range m.win.Visible(lines) {
		b.WriteString(line + "\n")
	}
	start, end := m.win.Range()
	b.WriteString("\n" + statusStyle.Render(fmt.Sprintf(
		"lines %d-%d of %d  (↑/↓ scroll, g/G top/bottom, q back)",
		start, end, m.win.TotalLines)) + "\n")
	return b.String()
}

func (m tuiModel) viewBackground() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("parley — "+m.sess.Name) + " " +
		statusStyle.Render("(background)") + "\n\n")
	b.WriteString(fmt.Sprintf("tokens: %d   segments: %d\n\n",
		m.sess.TokenCount(), m.sess.SegmentCount()))
	b.WriteString(statusStyle.Render("recording continues; /fg to return") + "\n\n")
	b.WriteString(promptStyle.Render("> ") + m.input + "\n")
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status) + "\n")
	}
	return b.String()
}

// saveSegment renders the plain transcript with the labels current at save
// time and writes the segment artifacts.
func saveSegment(sess *session.Session) (string, error) {
	snap := sess.Snapshot()
	asm := newAssembler(snap)
	path, err := sess.SaveSegment(func(toks []session.Token) string {
		return transcript.PlainText(asm.Assemble(toks))
	})
	if err != nil {
		return "", err
	}
	log.SegmentSaved(path, len(snap.Tokens))
	return path, nil
}
