package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/wasteland/pkg/entitlement"
	"github.com/jwebster45206/wasteland/pkg/survival"
)

const PlaceHolderText = "rest, explore, use 2, craft, buy starter_pack... (/help)"

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	state        survival.View
	lines        []survival.Entry
	logViewport  viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	loading      bool

	// Quit confirmation state
	showQuitModal bool
}

type actionDoneMsg struct {
	response *GameResponse
	err      error
}

type purchaseDoneMsg struct {
	response *PurchaseResponse
	err      error
}

type commandKind int

const (
	commandAction commandKind = iota
	commandBuy
	commandReset
)

// command is one parsed line of player input.
type command struct {
	kind    commandKind
	action  ActionRequest
	product string
}

var errUsage = errors.New("unknown command, type /help")

var (
	logPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingBottom(1).
			PaddingLeft(2).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")). // amber
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("130")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true).
			Align(lipgloss.Center)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client, game *GameResponse) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	logVp := viewport.New(50, 20)
	logVp.MouseWheelEnabled = true

	ui := ConsoleUI{
		config:       cfg,
		client:       client,
		textarea:     ta,
		logViewport:  logVp,
		metaViewport: viewport.New(20, 20),
	}
	if game != nil {
		ui.state = game.State
		ui.lines = append(ui.lines, game.Messages...)
	}
	return ui
}

// parseCommand turns a line of input into an API call.
func parseCommand(input string) (command, error) {
	fields := strings.Fields(strings.TrimSpace(input))
	if len(fields) == 0 {
		return command{}, errUsage
	}
	verb := strings.ToLower(fields[0])
	arg := strings.Join(fields[1:], " ")

	switch verb {
	case "rest", "sleep":
		return command{action: ActionRequest{Action: "rest"}}, nil
	case "explore", "go":
		return command{action: ActionRequest{Action: "explore"}}, nil
	case "resolve", "face", "continue":
		return command{action: ActionRequest{Action: "resolve"}}, nil
	case "bunker", "search":
		return command{action: ActionRequest{Action: "bunker"}}, nil
	case "companion", "pet":
		return command{action: ActionRequest{Action: "companion"}}, nil
	case "upgrade":
		return command{action: ActionRequest{Action: "upgrade"}}, nil
	case "craft":
		return command{action: ActionRequest{Action: "craft"}}, nil
	case "radiation", "geiger":
		return command{action: ActionRequest{Action: "radiation"}}, nil
	case "use":
		if arg == "" {
			return command{}, errors.New("usage: use <slot number | item name>")
		}
		if n, err := strconv.Atoi(arg); err == nil {
			return command{action: ActionRequest{Action: "use", Index: &n}}, nil
		}
		return command{action: ActionRequest{Action: "use", Item: arg}}, nil
	case "redeem":
		if arg == "" {
			return command{}, errors.New("usage: redeem <code>")
		}
		return command{action: ActionRequest{Action: "redeem", Code: arg}}, nil
	case "buy":
		if arg == "" {
			return command{}, errors.New("usage: buy <" + productIDs() + ">")
		}
		return command{kind: commandBuy, product: strings.ToLower(arg)}, nil
	case "reset":
		return command{kind: commandReset}, nil
	default:
		return command{}, errUsage
	}
}

func productIDs() string {
	var ids []string
	for _, p := range entitlement.Catalog() {
		ids = append(ids, p.ID)
	}
	return strings.Join(ids, " | ")
}

func entryStyle(s survival.Severity) lipgloss.Style {
	switch s {
	case survival.SeveritySuccess:
		return successStyle
	case survival.SeverityWarning:
		return warningStyle
	case survival.SeverityDanger:
		return dangerStyle
	default:
		return normalStyle
	}
}

// formatEntry wraps one log line to width and colours it by severity.
func formatEntry(e survival.Entry, width int) string {
	if width < 10 {
		width = 10
	}
	return entryStyle(e.Severity).Render(wordwrap.String(e.Message, width))
}

func (m *ConsoleUI) writeLog() {
	width := m.logViewport.Width - 4

	var content strings.Builder
	content.WriteString(titleStyle.Render("☢ WASTELAND") + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(width, 1))) + "\n\n")
	for _, line := range m.lines {
		content.WriteString(formatEntry(line, width) + "\n")
	}
	if m.loading {
		content.WriteString(promptStyle.Render("...") + "\n")
	}

	m.logViewport.SetContent(content.String())
	m.logViewport.GotoBottom()
}

func bar(value, width int) string {
	filled := value * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func writeMetadata(v survival.View) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("SURVIVOR") + "\n\n")
	content.WriteString(fmt.Sprintf("%s\nDay %d · %s\n\n", v.PlayerName, v.Day, v.Mode))

	content.WriteString(fmt.Sprintf("HP  %s %3d\n", bar(v.Vitals.Health, 10), v.Vitals.Health))
	content.WriteString(fmt.Sprintf("FOD %s %3d\n", bar(v.Vitals.Food, 10), v.Vitals.Food))
	content.WriteString(fmt.Sprintf("H2O %s %3d\n", bar(v.Vitals.Water, 10), v.Vitals.Water))
	content.WriteString(fmt.Sprintf("RAD %s %3d\n", bar(v.Vitals.Radiation, 10), v.Vitals.Radiation))
	content.WriteString(fmt.Sprintf("Weather: %s\n\n", v.Weather))

	if v.Disease != nil {
		content.WriteString(dangerStyle.Render("Disease: "+v.Disease.Label) + "\n\n")
	}

	content.WriteString("Inventory:\n")
	if len(v.Inventory) == 0 {
		content.WriteString("  empty\n")
	}
	for _, item := range v.Inventory {
		line := fmt.Sprintf("%2d %s", item.Index, item.Name)
		if item.Durability != nil {
			line += fmt.Sprintf(" (%d%%)", *item.Durability)
		}
		content.WriteString(line + "\n")
	}

	if v.Mission != nil {
		content.WriteString(fmt.Sprintf("\nMission: %s\n  %d/%d\n", v.Mission.Description, v.Mission.Progress, v.Mission.Required))
	}
	if v.Companion != nil {
		content.WriteString(fmt.Sprintf("\nCompanion: %s\n  HP %d/%d\n", v.Companion.Name, v.Companion.Health, v.Companion.MaxHealth))
	}
	if v.PendingEncounter != "" {
		content.WriteString(warningStyle.Render("\nEncounter: "+string(v.PendingEncounter)) + "\n")
	}
	return content.String()
}

func writeStats(v survival.View) []survival.Entry {
	lines := []survival.Entry{
		{Message: "📊 Statistics", Severity: survival.SeverityNormal},
		{Message: fmt.Sprintf("Days alive: %d", v.Statistics.DaysAlive)},
		{Message: fmt.Sprintf("Creatures killed: %d", v.Statistics.CreaturesKilled)},
		{Message: fmt.Sprintf("Raiders defeated: %d", v.Statistics.RaidersDefeated)},
		{Message: fmt.Sprintf("Items crafted: %d", v.Statistics.ItemsCrafted)},
		{Message: fmt.Sprintf("Missions completed: %d", v.Statistics.MissionsCompleted)},
		{Message: fmt.Sprintf("Base: reinforcement %d, workshop %d, medical bay %d, solar %d",
			v.Upgrades.Reinforcement, v.Upgrades.Workshop, v.Upgrades.MedicalBay, v.Upgrades.SolarPanels)},
	}
	if len(v.Achievements) > 0 {
		achievements := append([]string(nil), v.Achievements...)
		sort.Strings(achievements)
		lines = append(lines, survival.Entry{Message: "Achievements: " + strings.Join(achievements, ", "), Severity: survival.SeveritySuccess})
	}
	if len(v.Entitlements) > 0 {
		lines = append(lines, survival.Entry{Message: "Owned: " + strings.Join(v.Entitlements, ", "), Severity: survival.SeveritySuccess})
	}
	return lines
}

func (m ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m *ConsoleUI) resize() {
	logWidth := int(float64(m.width)*0.68) - 2
	metaWidth := m.width - logWidth - 4

	m.logViewport.Width = logWidth - 2
	m.logViewport.Height = m.height - 6
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 2
	m.textarea.SetWidth(logWidth - 4)
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.logViewport, vpCmd = m.logViewport.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		m.writeLog()
		m.metaViewport.SetContent(writeMetadata(m.state))

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, "/") {
				return m.handleSlash(input)
			}

			m.lines = append(m.lines, survival.Entry{Message: "> " + input})
			cmd, err := parseCommand(input)
			if err != nil {
				m.lines = append(m.lines, survival.Entry{Message: err.Error(), Severity: survival.SeverityWarning})
				m.writeLog()
				return m, nil
			}
			m.loading = true
			m.writeLog()
			return m, m.run(cmd)
		}

	case actionDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.lines = append(m.lines, survival.Entry{Message: "Error: " + msg.err.Error(), Severity: survival.SeverityDanger})
		} else {
			m.state = msg.response.State
			m.lines = append(m.lines, msg.response.Messages...)
			m.lines = append(m.lines, resultLines(msg.response)...)
			m.metaViewport.SetContent(writeMetadata(m.state))
		}
		m.writeLog()
		return m, nil

	case purchaseDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.lines = append(m.lines, survival.Entry{Message: "Error: " + msg.err.Error(), Severity: survival.SeverityDanger})
			m.writeLog()
			return m, nil
		}
		m.lines = append(m.lines, purchaseLine(msg.response))
		m.writeLog()
		return m, m.refresh()
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.logViewport, vpCmd = m.logViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

// resultLines renders hints that the engine log does not already carry.
func resultLines(resp *GameResponse) []survival.Entry {
	if resp.State.PendingEncounter != "" {
		return []survival.Entry{{Message: "Type 'resolve' to face it.", Severity: survival.SeverityNormal}}
	}
	var level struct {
		Level string `json:"level"`
	}
	if len(resp.Result) > 0 && json.Unmarshal(resp.Result, &level) == nil && level.Level != "" {
		return []survival.Entry{{Message: fmt.Sprintf("☢️ Radiation: %s (%d)", level.Level, resp.State.Vitals.Radiation), Severity: survival.SeverityWarning}}
	}
	return nil
}

func purchaseLine(resp *PurchaseResponse) survival.Entry {
	switch resp.Status {
	case entitlement.StatusGranted:
		return survival.Entry{Message: "💳 Purchase complete: " + resp.Product, Severity: survival.SeveritySuccess}
	case entitlement.StatusAlreadyOwned:
		return survival.Entry{Message: "You already own " + resp.Product + ".", Severity: survival.SeverityNormal}
	default:
		return survival.Entry{Message: "Purchase failed: " + resp.Reason, Severity: survival.SeverityDanger}
	}
}

func (m ConsoleUI) run(c command) tea.Cmd {
	uid := m.state.PlayerUID
	return func() tea.Msg {
		switch c.kind {
		case commandBuy:
			resp, err := purchase(m.client, m.config.APIBaseURL, uid, c.product)
			return purchaseDoneMsg{resp, err}
		case commandReset:
			resp, err := resetGame(m.client, m.config.APIBaseURL, uid)
			return actionDoneMsg{resp, err}
		default:
			resp, err := sendAction(m.client, m.config.APIBaseURL, uid, c.action)
			return actionDoneMsg{resp, err}
		}
	}
}

func (m ConsoleUI) refresh() tea.Cmd {
	uid := m.state.PlayerUID
	return func() tea.Msg {
		resp, err := getGame(m.client, m.config.APIBaseURL, uid)
		return actionDoneMsg{resp, err}
	}
}

func (m ConsoleUI) handleSlash(input string) (tea.Model, tea.Cmd) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "/help":
		for _, line := range strings.Split(helpText, "\n") {
			m.lines = append(m.lines, survival.Entry{Message: line})
		}
	case "/stats":
		m.lines = append(m.lines, writeStats(m.state)...)
	case "/copyid":
		if err := clipboard.WriteAll(m.state.PlayerUID); err != nil {
			m.lines = append(m.lines, survival.Entry{Message: "Clipboard unavailable: " + m.state.PlayerUID, Severity: survival.SeverityWarning})
		} else {
			m.lines = append(m.lines, survival.Entry{Message: "📋 Player ID copied to clipboard.", Severity: survival.SeveritySuccess})
		}
	case "/quit":
		m.showQuitModal = true
	default:
		m.lines = append(m.lines, survival.Entry{Message: errUsage.Error(), Severity: survival.SeverityWarning})
	}
	m.writeLog()
	return m, nil
}

var helpText = `Commands:
  rest               sleep through the night
  explore            venture into the wasteland
  resolve            face the pending encounter
  bunker             search the bunker
  use <n|name>       use an inventory item
  companion          ask your companion for help
  upgrade            improve the bunker
  craft              craft from materials
  radiation          read the Geiger counter
  redeem <code>      redeem a gift code
  buy <item>         ` + productIDs() + `
  reset              start over
  /stats /copyid /help /quit`

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Leave the Wasteland?"))
	content.WriteString("\n\n")
	content.WriteString("Your progress is saved after every action.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	logWidth := int(float64(m.width)*0.68) - 2
	metaWidth := m.width - logWidth - 4

	logPanel := logPanelStyle.Width(logWidth).Height(m.height - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.logViewport.View(),
			separatorStyle.Render(strings.Repeat("─", max(logWidth-4, 1))),
			userStyle.Render(m.textarea.View()),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, logPanel, metaPanel)
}
