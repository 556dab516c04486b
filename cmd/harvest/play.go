package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"harvest/internal/catalog"
	cl "harvest/internal/cli"
	"harvest/internal/game"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func newPlayCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play at the interactive table",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			countries, err := client.Countries(ctx)
			if err != nil {
				return err
			}

			m := newPlayModel(client, countries)
			if ref, err := cl.LoadGameRef(); err == nil {
				if st, err := client.GameState(ctx, ref.GameID); err == nil {
					m.gameID = ref.GameID
					m.game = st
					m.phase = phaseInvest
					m.input.Placeholder = "Investment percent (0-100)"
				}
			}

			p := tea.NewProgram(m, tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}

type playPhase int

const (
	phasePickCountry playPhase = iota
	phasePickCrop
	phaseInvest
	phaseWaiting
	phaseGameOver
	phaseFailed
)

var (
	playTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true)

	playHelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	playYouStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5FFF87")).
			Bold(true)

	playRivalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC"))

	playBustStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F")).
			Strikethrough(true)

	playOutcomeStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1)
)

type playModel struct {
	client    *cl.Client
	countries []catalog.Country

	phase   playPhase
	input   textinput.Model
	country catalog.Country
	crop    catalog.Crop
	gameID  string
	game    *game.State
	outcome string
	err     error
}

func newPlayModel(client *cl.Client, countries []catalog.Country) playModel {
	ti := textinput.New()
	ti.Placeholder = "Country number"
	ti.Focus()
	ti.CharLimit = 8
	ti.Width = 30

	return playModel{
		client:    client,
		countries: countries,
		phase:     phasePickCountry,
		input:     ti,
	}
}

func (m playModel) Init() tea.Cmd {
	return textinput.Blink
}

type gameCreatedMsg struct {
	id    string
	state *game.State
	err   error
}

type roundResolvedMsg struct {
	state *game.State
	err   error
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}
		if m.phase == phaseGameOver || m.phase == phaseFailed {
			if msg.String() == "q" {
				return m, tea.Quit
			}
			return m, nil
		}

	case gameCreatedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.phase = phaseFailed
			return m, nil
		}
		m.gameID = msg.id
		m.game = msg.state
		m.phase = phaseInvest
		m.outcome = ""
		m.input.Placeholder = "Investment percent (0-100)"
		m.input.Reset()
		_ = cl.SaveGameRef(cl.GameRef{GameID: msg.id, Country: m.country.Name, Crop: m.crop.Name})
		return m, nil

	case roundResolvedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.phase = phaseFailed
			return m, nil
		}
		m.game = msg.state
		if n := len(msg.state.RollHistory); n > 0 {
			last := msg.state.RollHistory[n-1]
			m.outcome = fmt.Sprintf("Season %d roll: %d + %d. %s", last.Season, last.Roll.First, last.Roll.Second, last.Outcome)
		}
		if msg.state.GameOver {
			m.phase = phaseGameOver
			_ = cl.ClearGameRef()
		} else {
			m.phase = phaseInvest
			m.input.Reset()
		}
		return m, nil
	}

	if m.phase == phasePickCountry || m.phase == phasePickCrop || m.phase == phaseInvest {
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m playModel) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return m, nil
	}

	switch m.phase {
	case phasePickCountry:
		if n < 1 || n > len(m.countries) {
			return m, nil
		}
		m.country = m.countries[n-1]
		m.phase = phasePickCrop
		m.input.Placeholder = "Crop number"
		m.input.Reset()
		return m, nil

	case phasePickCrop:
		if n < 1 || n > len(m.country.Crops) {
			return m, nil
		}
		m.crop = m.country.Crops[n-1]
		m.phase = phaseWaiting
		return m, m.createGame()

	case phaseInvest:
		if n < game.MinPercent || n > game.MaxPercent {
			return m, nil
		}
		m.phase = phaseWaiting
		return m, m.invest(n)
	}
	return m, nil
}

func (m playModel) createGame() tea.Cmd {
	country, crop := m.country.Name, m.crop.Name
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		out, err := m.client.CreateGame(ctx, country, crop)
		return gameCreatedMsg{id: out.ID, state: out.State, err: err}
	}
}

func (m playModel) invest(pct int) tea.Cmd {
	id := m.gameID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		st, err := m.client.SubmitInvestment(ctx, id, pct)
		return roundResolvedMsg{state: st, err: err}
	}
}

func (m playModel) View() string {
	var s string

	switch m.phase {
	case phasePickCountry:
		var b strings.Builder
		b.WriteString(playTitleStyle.Render("Pick your country") + "\n\n")
		for i, c := range m.countries {
			fmt.Fprintf(&b, "  %2d. %s\n", i+1, c.Name)
		}
		b.WriteString("\n" + m.input.View())
		s = b.String()

	case phasePickCrop:
		var b strings.Builder
		b.WriteString(playTitleStyle.Render("Crops grown in "+m.country.Name) + "\n\n")
		for i, c := range m.country.Crops {
			fmt.Fprintf(&b, "  %2d. %s\n", i+1, c.Name)
		}
		b.WriteString("\n" + m.input.View())
		s = b.String()

	case phaseWaiting:
		s = "\n  Working the fields...\n"

	case phaseInvest:
		s = m.renderTable() + "\n" + m.input.View()

	case phaseGameOver:
		s = m.renderTable() + "\n" + m.renderWinner() + "\n\n" + playHelpStyle.Render("Press q to leave the table.")

	case phaseFailed:
		s = fmt.Sprintf("\n  Error: %v\n\n%s", m.err, playHelpStyle.Render("Press q to quit."))
	}

	return "\n" + s + "\n\n" + playHelpStyle.Render("Esc to quit.") + "\n"
}

func (m playModel) renderTable() string {
	if m.game == nil {
		return ""
	}
	st := m.game
	var b strings.Builder
	b.WriteString(playTitleStyle.Render(fmt.Sprintf("Season %d of %d", st.CurrentSeason, game.MaxSeasons)) + "\n\n")
	for _, p := range st.Players {
		line := fmt.Sprintf("  %-9s  $%-8s  %s (%s)", p.Name(), comma(p.Money), p.Country, p.SelectedCrop)
		switch {
		case p.IsBankrupt:
			b.WriteString(playBustStyle.Render(line) + "\n")
		case p.IsAI:
			b.WriteString(playRivalStyle.Render(line) + "\n")
		default:
			b.WriteString(playYouStyle.Render(line) + "\n")
		}
	}
	if m.outcome != "" {
		b.WriteString("\n" + playOutcomeStyle.Render(m.outcome) + "\n")
	}
	return b.String()
}

func (m playModel) renderWinner() string {
	st := m.game
	if st == nil || st.Winner == nil {
		return ""
	}
	w := st.Winner
	line := fmt.Sprintf("%s wins with $%s (%s)", w.Name(), comma(w.Money), st.WinReason)
	if w.IsAI {
		return playRivalStyle.Render(line)
	}
	return playYouStyle.Render(line)
}
