package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/lvasseur/ondine/internal/config"
	"github.com/lvasseur/ondine/internal/errmsg"
	"github.com/lvasseur/ondine/internal/logging"
	"github.com/lvasseur/ondine/internal/mediatype"
	"github.com/lvasseur/ondine/internal/metadata"
	"github.com/lvasseur/ondine/internal/queue"
	"github.com/lvasseur/ondine/internal/tags"
)

var (
	playerBarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
	currentStyle = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

type keyMap struct {
	Next  key.Binding
	First key.Binding
	Quit  key.Binding
}

var keys = keyMap{
	Next: key.NewBinding(
		key.WithKeys("n", "right"),
		key.WithHelp("n", "next"),
	),
	First: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "first"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// metadataUpdatedMsg is sent when the resolver's update signal fires; the
// view re-polls Get on receipt.
type metadataUpdatedMsg struct{}

type model struct {
	queue    *queue.Queue
	resolver *metadata.Resolver
	sub      *metadata.Subscription
	log      *zap.Logger

	width  int
	height int
	status string
}

func initialModel() (model, error) {
	cfg, err := config.Load()
	if err != nil {
		return model{}, fmt.Errorf("%s", errmsg.Format(errmsg.OpConfigLoad, err))
	}

	logPath := cfg.LogFile
	if logPath == "" {
		logPath = config.DefaultLogPath()
	}
	log, err := logging.Open(logPath)
	if err != nil {
		// Run without a log rather than refusing to start
		log = zap.NewNop()
	}

	locations := os.Args[1:]
	if len(locations) == 0 {
		start := cfg.DefaultFolder
		if start == "" {
			start, err = os.Getwd()
			if err != nil {
				return model{}, err
			}
		}
		locations = []string{start}
	}

	opts := queue.Options{
		Types:      append(mediatype.ParseTypes(cfg.MediaTypes), mediatype.Folder),
		MoveCursor: true,
		Recurse:    cfg.Recursive,
	}

	fsys := afero.NewOsFs()
	q := queue.New()
	for _, loc := range locations {
		q.Ingest(fsys, loc, opts, log)
	}

	m := model{queue: q, log: log}
	m.loadCurrent()
	return m, nil
}

// loadCurrent discards the previous resolver and builds one for the item
// under the cursor.
func (m *model) loadCurrent() {
	if m.resolver != nil {
		m.resolver.Close()
		m.resolver = nil
		m.sub = nil
	}

	current := m.queue.Current()
	if current == nil {
		return
	}

	records, err := tags.Records(current.Path)
	if err != nil {
		m.log.Warn("cannot read metadata records",
			zap.String("path", current.Path), zap.Error(err))
		m.status = errmsg.FormatWith(errmsg.OpMetadataRead, current.Path, err)
		records = nil
	}
	m.resolver = metadata.New(records, m.log)
	m.sub = m.resolver.Subscribe()
}

func waitForUpdate(sub *metadata.Subscription) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-sub.Updated:
			return metadataUpdatedMsg{}
		case <-sub.Done:
			return nil
		}
	}
}

func (m model) Init() tea.Cmd {
	if m.sub != nil {
		return waitForUpdate(m.sub)
	}
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case metadataUpdatedMsg:
		if m.sub != nil {
			return m, waitForUpdate(m.sub)
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			if m.resolver != nil {
				m.resolver.Close()
			}
			_ = m.log.Sync()
			return m, tea.Quit

		case key.Matches(msg, keys.Next):
			m.status = ""
			if next := m.queue.Advance(); next != nil {
				m.loadCurrent()
				return m, m.Init()
			}

		case key.Matches(msg, keys.First):
			m.status = ""
			if first := m.queue.JumpTo(0); first != nil {
				m.loadCurrent()
				return m, m.Init()
			}
		}
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	items := m.queue.Items()
	if len(items) == 0 {
		b.WriteString(dimStyle.Render("Queue is empty - pass a file or folder"))
		b.WriteString("\n")
	}

	cursor := m.queue.Cursor()
	for i, item := range items {
		line := fmt.Sprintf("  %s  %s",
			item.Path, dimStyle.Render(humanize.IBytes(uint64(item.Size))))
		if i == cursor || (cursor == -1 && i == 0) {
			line = currentStyle.Render("▶ " + item.Path)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(m.nowPlayingBar())

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(m.status))
	}

	return b.String()
}

// nowPlayingBar renders resolved metadata for the current item, polling the
// resolver. Fields still searching render as an ellipsis and fill in when
// the update signal triggers a repaint.
func (m model) nowPlayingBar() string {
	current := m.queue.Current()
	if current == nil || m.resolver == nil {
		return ""
	}

	title := pollString(m.resolver, metadata.Title, filepath.Base(current.Path))
	artist := pollString(m.resolver, metadata.Artist, "")
	album := pollString(m.resolver, metadata.Album, "")

	content := title
	if artist != "" {
		content = artist + " - " + content
	}
	if album != "" {
		content += dimStyle.Render("  (" + album + ")")
	}

	innerWidth := m.width - 2
	if innerWidth < 0 {
		innerWidth = 0
	}
	return playerBarStyle.Width(innerWidth).Render(" " + content)
}

// pollString is the non-blocking Get with a fallback while searching or on
// a miss.
func pollString(r *metadata.Resolver, k metadata.Key[string], fallback string) string {
	res := metadata.Get(r, k)
	if res.IsSearching() {
		return "…"
	}
	if v, ok := res.Value(); ok {
		return v
	}
	return fallback
}

func main() {
	m, err := initialModel()
	if err != nil {
		fmt.Printf("Error initializing: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
