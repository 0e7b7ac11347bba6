package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/backoffice/internal/authz"
	"github.com/felixgeelhaar/backoffice/internal/events"
)

const navBuffer = 8

// navItem is one entry of the navigation menu.
type navItem struct {
	view authz.View
}

func (i navItem) Title() string       { return i.view.Title() }
func (i navItem) Description() string { return "/" + string(i.view) }
func (i navItem) FilterValue() string { return string(i.view) }

// navigationMsg delivers a bus navigation into the Bubble Tea loop.
type navigationMsg events.Navigation

// Shell is the interactive back-office shell. Every view change goes through
// the guard, and the menu is rebuilt from the role the guard resolved.
type Shell struct {
	guard    *authz.Guard
	logout   func()
	keys     KeyMap
	styles   Styles
	help     help.Model
	list     list.Model
	nav      chan events.Navigation
	done     chan struct{}
	unsub    func()
	closed   sync.Once
	current  authz.View
	role     authz.Role
	notice   string
	ended    bool
	quitting bool
}

// ShellOption configures a Shell.
type ShellOption func(*Shell)

// WithNavigationBus makes the shell follow navigations published on bus.
// A navigation to the login view ends the shell.
func WithNavigationBus(bus *events.Bus) ShellOption {
	return func(s *Shell) {
		if bus == nil {
			return
		}
		nav := make(chan events.Navigation, navBuffer)
		done := make(chan struct{})
		s.nav, s.done = nav, done
		s.unsub = bus.Subscribe(func(n events.Navigation) {
			select {
			case <-done:
			case nav <- n:
			default:
			}
		})
	}
}

// WithLogout sets the action bound to the logout key.
func WithLogout(fn func()) ShellOption {
	return func(s *Shell) {
		s.logout = fn
	}
}

// WithStyles overrides the default styles.
func WithStyles(st Styles) ShellOption {
	return func(s *Shell) {
		s.styles = st
	}
}

// NewShell creates a shell opened on start. An empty start opens the
// dashboard, which the guard redirects to the role's home when needed.
func NewShell(guard *authz.Guard, start authz.View, opts ...ShellOption) *Shell {
	delegate := list.NewDefaultDelegate()
	l := list.New(nil, delegate, 32, 20)
	l.Title = "Navigation"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)

	s := &Shell{
		guard:  guard,
		keys:   DefaultKeyMap,
		styles: DefaultStyles(),
		help:   help.New(),
		list:   l,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.list.Styles.Title = s.styles.Title

	if start == "" {
		start = authz.ViewDashboard
	}
	s.navigate(start)
	s.notice = ""
	return s
}

// Init implements tea.Model.
func (s *Shell) Init() tea.Cmd {
	if s.ended {
		return tea.Quit
	}
	return s.waitForNavigation()
}

// Update implements tea.Model.
func (s *Shell) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.list.SetSize(msg.Width/3, msg.Height-4)
		return s, nil

	case navigationMsg:
		if cmd := s.navigate(msg.View); cmd != nil {
			return s, cmd
		}
		return s, s.waitForNavigation()

	case tea.KeyMsg:
		if s.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, s.keys.Quit):
			s.quitting = true
			return s, tea.Quit
		case key.Matches(msg, s.keys.Logout):
			if s.logout != nil {
				s.logout()
			}
			return s, s.navigate(s.current)
		case key.Matches(msg, s.keys.Open):
			item, ok := s.list.SelectedItem().(navItem)
			if !ok {
				return s, nil
			}
			return s, s.navigate(item.view)
		}
	}

	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

// navigate asks the guard about v and applies its decision.
func (s *Shell) navigate(v authz.View) tea.Cmd {
	d := s.guard.Check(v)
	if d.Outcome == authz.RedirectToLogin || d.Target == authz.ViewLogin {
		s.ended = true
		s.current = authz.ViewLogin
		s.role = ""
		s.list.SetItems(nil)
		return tea.Quit
	}

	s.current = d.Target
	if d.Outcome == authz.RedirectToDefault {
		s.notice = fmt.Sprintf("%s is not available to your role", v.Title())
	} else {
		s.notice = ""
	}
	if d.Role != s.role || len(s.list.Items()) == 0 {
		s.role = d.Role
		s.rebuild()
	}
	s.selectView(s.current)
	return nil
}

func (s *Shell) rebuild() {
	var items []list.Item
	if s.role.Valid() {
		for _, v := range authz.ProfileFor(s.role).Navigation {
			items = append(items, navItem{view: v})
		}
	}
	s.list.SetItems(items)
}

func (s *Shell) selectView(v authz.View) {
	for i, item := range s.list.Items() {
		if it, ok := item.(navItem); ok && it.view == v {
			s.list.Select(i)
			return
		}
	}
}

func (s *Shell) waitForNavigation() tea.Cmd {
	if s.nav == nil {
		return nil
	}
	ch, done := s.nav, s.done
	return func() tea.Msg {
		select {
		case n := <-ch:
			return navigationMsg(n)
		case <-done:
			return nil
		}
	}
}

// View implements tea.Model.
func (s *Shell) View() string {
	if s.quitting || s.ended {
		return ""
	}

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		s.styles.Title.Render("Back Office"),
		" ",
		s.styles.Role.Render(s.role.Label()),
	)

	var body strings.Builder
	body.WriteString(s.styles.Title.Render(s.current.Title()))
	body.WriteString("\n")
	body.WriteString(s.styles.Muted.Render("/" + string(s.current)))
	if s.notice != "" {
		body.WriteString("\n\n")
		body.WriteString(s.styles.Notice.Render(s.notice))
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		s.styles.Menu.Render(s.list.View()),
		s.styles.Pane.Render(body.String()),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		main,
		s.styles.Help.Render(s.help.View(s.keys)),
	)
}

// Current returns the view being rendered.
func (s *Shell) Current() authz.View { return s.current }

// Role returns the role the menu was built for.
func (s *Shell) Role() authz.Role { return s.role }

// Notice returns the redirect notice, if any.
func (s *Shell) Notice() string { return s.notice }

// Ended reports whether the session is gone and the shell handed back to login.
func (s *Shell) Ended() bool { return s.ended }

// Menu returns the views currently offered in the navigation menu.
func (s *Shell) Menu() []authz.View {
	items := s.list.Items()
	views := make([]authz.View, 0, len(items))
	for _, item := range items {
		if it, ok := item.(navItem); ok {
			views = append(views, it.view)
		}
	}
	return views
}

// Close stops following the navigation bus and releases a pending wait
// for the next navigation. It is safe to call more than once.
func (s *Shell) Close() {
	s.closed.Do(func() {
		if s.unsub != nil {
			s.unsub()
		}
		if s.done != nil {
			close(s.done)
		}
	})
}

// RunShell runs s until the user quits, the session ends or ctx is done.
func RunShell(ctx context.Context, s *Shell) error {
	defer s.Close()
	p := tea.NewProgram(s, tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("shell failed: %w", err)
	}
	return nil
}
