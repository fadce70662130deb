package ui

import (
	"context"
	"errors"
	"fmt"
	"pocketblog/controllers"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Focus is the part of the screen that receives keys.
type Focus int

const (
	FocusPosts Focus = iota
	FocusTitle
	FocusText
)

// LoadedMsg is sent once the stored posts have been applied to the screen.
type LoadedMsg struct {
	Status controllers.Status
}

// ChangedMsg tells the model the screen changed outside of Update, for example
// when a background save failed.
type ChangedMsg struct{}

type resetMsg struct{ err error }

const resetTimeout = 10 * time.Second

// Model renders a controllers.Screen and turns keys into screen events.
type Model struct {
	screen *controllers.Screen
	title  textinput.Model
	text   textarea.Model
	focus  Focus
	width  int
	notice string
}

func New(screen *controllers.Screen) Model {
	ti := textinput.New()
	ti.Placeholder = "Title"
	ti.Prompt = ""
	ti.CharLimit = 200

	ta := textarea.New()
	ta.Placeholder = "Write something..."
	ta.ShowLineNumbers = false
	ta.SetHeight(4)
	ta.SetWidth(60)

	return Model{
		screen: screen,
		title:  ti,
		text:   ta,
	}
}

func (m Model) Init() tea.Cmd {
	return waitForLoad(m.screen.Mount(context.Background()))
}

func waitForLoad(task *controllers.Task[controllers.Status]) tea.Cmd {
	return func() tea.Msg {
		status, _ := task.Wait(context.Background())
		return LoadedMsg{Status: status}
	}
}

func (m Model) resetStore() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), resetTimeout)
		defer cancel()
		return resetMsg{err: m.screen.ResetStore(ctx)}
	}
}

func (m Model) Focus() Focus { return m.focus }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if w := msg.Width - 4; w > 20 {
			m.text.SetWidth(w)
			m.title.Width = w
		}
		return m, nil

	case LoadedMsg:
		if msg.Status == controllers.StatusCorrupt {
			m.notice = "Stored posts could not be read. Press ctrl+r to start over with an empty blog."
		}
		return m, nil

	case ChangedMsg:
		return m, nil

	case resetMsg:
		if msg.err != nil {
			m.notice = "Reset failed: " + msg.err.Error()
		} else {
			m.notice = "Store reset."
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab":
		return m.setFocus((m.focus + 1) % 3)
	case "shift+tab":
		return m.setFocus((m.focus + 2) % 3)
	case "ctrl+t":
		m.screen.ToggleTheme()
		return m, nil
	case "ctrl+s":
		return m.submit()
	case "ctrl+r":
		if m.screen.Snapshot().Status != controllers.StatusCorrupt {
			return m, nil
		}
		return m, m.resetStore()
	}

	if m.focus == FocusPosts {
		switch key := msg.String(); key {
		case "left", "h", "pgup":
			m.screen.PreviousPage()
		case "right", "l", "pgdown":
			m.screen.NextPage()
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			n, _ := strconv.Atoi(key)
			m.screen.GoToPage(n)
		}
		return m, nil
	}

	return m.updateFocused(msg)
}

func (m Model) setFocus(f Focus) (tea.Model, tea.Cmd) {
	m.focus = f
	m.title.Blur()
	m.text.Blur()
	switch f {
	case FocusTitle:
		return m, m.title.Focus()
	case FocusText:
		return m, m.text.Focus()
	}
	return m, nil
}

// updateFocused forwards msg to the focused field and mirrors its value into
// the screen.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case FocusTitle:
		m.title, cmd = m.title.Update(msg)
		m.screen.SetTitle(m.title.Value())
	case FocusText:
		m.text, cmd = m.text.Update(msg)
		m.screen.SetText(m.text.Value())
	}
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	m.screen.SetTitle(m.title.Value())
	m.screen.SetText(m.text.Value())

	accepted, err := m.screen.SubmitForm()
	switch {
	case errors.Is(err, controllers.ErrNotReady):
		m.notice = "Still loading posts, try again in a moment."
		return m, nil
	case errors.Is(err, controllers.ErrStoreCorrupt):
		m.notice = "Posting is disabled until the store is reset (ctrl+r)."
		return m, nil
	case err != nil:
		m.notice = err.Error()
		return m, nil
	case !accepted:
		m.notice = "A post needs both a title and some text."
		return m, nil
	}

	m.notice = ""
	m.title.Reset()
	m.text.Reset()
	return m.setFocus(FocusPosts)
}

func (m Model) View() string {
	v := m.screen.Snapshot()
	s := NewStyles(ThemeFor(v.Theme))

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
		s.Header.Render(v.SiteName), "  ", s.Toggle.Render(v.ThemeToggle)))
	b.WriteString("\n")
	b.WriteString(s.Welcome.Render(v.Welcome))
	b.WriteString("\n")

	switch v.Status {
	case controllers.StatusLoading:
		b.WriteString(s.Label.Render("Loading posts..."))
		b.WriteString("\n")
	case controllers.StatusCorrupt:
		b.WriteString(s.Error.Render("Stored posts are unreadable: " + v.Error))
		b.WriteString("\n")
	default:
		b.WriteString(m.renderPosts(v, s))
	}

	b.WriteString(m.renderForm(v, s))

	if v.SaveError != "" {
		b.WriteString(s.Error.Render("Last save failed: " + v.SaveError))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(s.Notice.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(s.Help.Render(m.help(v)))

	return s.App.Render(b.String())
}

func (m Model) renderPosts(v controllers.View, s Styles) string {
	var b strings.Builder
	if len(v.Posts) == 0 {
		b.WriteString(s.Label.Render("No posts yet."))
		b.WriteString("\n\n")
		return b.String()
	}

	for _, p := range v.Posts {
		card := lipgloss.JoinVertical(lipgloss.Left,
			s.Title.Render(p.Title),
			s.Date.Render("Date: "+p.Date),
			s.Body.Render(p.Text),
		)
		b.WriteString(s.Card.Render(card))
		b.WriteString("\n")
	}

	pages := make([]string, 0, len(v.Page.Numbers)+2)
	prev := s.Page.Render("<")
	if !v.Page.HasPrevious {
		prev = s.Disabled.Render(" < ")
	}
	pages = append(pages, prev)
	for _, n := range v.Page.Numbers {
		if n == v.Page.Current {
			pages = append(pages, s.Current.Render(strconv.Itoa(n)))
		} else {
			pages = append(pages, s.Page.Render(strconv.Itoa(n)))
		}
	}
	next := s.Page.Render(">")
	if !v.Page.HasNext {
		next = s.Disabled.Render(" > ")
	}
	pages = append(pages, next)

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, pages...))
	b.WriteString("\n\n")
	return b.String()
}

func (m Model) renderForm(v controllers.View, s Styles) string {
	label := func(name string, f Focus) string {
		if m.focus == f {
			return s.Focused.Render("> " + name)
		}
		return s.Label.Render("  " + name)
	}

	var b strings.Builder
	b.WriteString(label("Title", FocusTitle))
	b.WriteString("\n")
	b.WriteString(m.title.View())
	b.WriteString("\n")
	b.WriteString(label("Text", FocusText))
	b.WriteString("\n")
	b.WriteString(m.text.View())
	b.WriteString("\n")
	if v.Status != controllers.StatusReady {
		b.WriteString(s.Disabled.Render("Post (unavailable)"))
	} else {
		b.WriteString(s.Label.Render("Post with ctrl+s"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) help(v controllers.View) string {
	parts := []string{"tab focus", "ctrl+s post", "ctrl+t " + strings.ToLower(v.ThemeToggle)}
	if m.focus == FocusPosts && v.Page.Total > 1 {
		parts = append(parts, "←/→ page", fmt.Sprintf("1-%d jump", min(v.Page.Total, 9)))
	}
	if v.Status == controllers.StatusCorrupt {
		parts = append(parts, "ctrl+r reset store")
	}
	parts = append(parts, "esc quit")
	return strings.Join(parts, " • ")
}
