package tray

import (
	"log"

	"github.com/getlantern/systray"
	"github.com/pkg/browser"

	"github.com/ducpham-dev/xpilot/internal/app"
	"github.com/ducpham-dev/xpilot/internal/config"
	"github.com/ducpham-dev/xpilot/internal/events"
	"github.com/ducpham-dev/xpilot/internal/types"
)

// accountMenu is the per-account submenu with its control items.
type accountMenu struct {
	account types.Account
	status  *systray.MenuItem
	start   *systray.MenuItem
	pause   *systray.MenuItem
	resume  *systray.MenuItem
	stop    *systray.MenuItem
	modes   map[types.Mode]*systray.MenuItem
}

// OnReady returns a systray onReady callback that sets up the menu.
func OnReady(a *app.App) func() {
	return func() {
		systray.SetTitle("xpilot")
		systray.SetTooltip("xpilot - X account automation")

		accounts, err := a.Accounts()
		if err != nil {
			log.Printf("Failed to list accounts: %v", err)
		}
		if len(accounts) == 0 {
			noAccounts := systray.AddMenuItem("No accounts configured", "Add accounts via the CLI")
			noAccounts.Disable()
		}

		menus := make([]*accountMenu, 0, len(accounts))
		for _, acct := range accounts {
			root := systray.AddMenuItem(acct.Name, "Account "+acct.Username)
			m := &accountMenu{
				account: acct,
				status:  root.AddSubMenuItem("○ idle", "Session status"),
				start:   root.AddSubMenuItem("Start", "Start this account"),
				pause:   root.AddSubMenuItem("Pause", "Pause after the current pass"),
				resume:  root.AddSubMenuItem("Resume", "Resume a paused session"),
				stop:    root.AddSubMenuItem("Stop", "Stop this account"),
			}
			m.status.Disable()

			modeRoot := root.AddSubMenuItem("Mode", "Which page this account scans")
			m.modes = map[types.Mode]*systray.MenuItem{
				types.ModeFeed:     modeRoot.AddSubMenuItem("Feed", "Scan the home timeline"),
				types.ModeUser:     modeRoot.AddSubMenuItem("User", "Scan the target user's profile"),
				types.ModeComments: modeRoot.AddSubMenuItem("Comments", "Reply to commenters on own posts"),
				types.ModeTrending: modeRoot.AddSubMenuItem("Trending", "Search the configured keyword"),
			}
			menus = append(menus, m)
			go m.handleClicks(a)
		}

		systray.AddSeparator()
		mViewLogs := systray.AddMenuItem("Export Logs", "Write logs to a file and open it")
		mEditConfig := systray.AddMenuItem("Edit Config", "Open config file in editor")
		systray.AddSeparator()
		mQuit := systray.AddMenuItem("Quit", "Exit xpilot")

		// Status lines refresh on every event.
		a.Reporter().Subscribe(&statusUpdater{app: a, menus: menus})

		go func() {
			for {
				select {
				case <-mViewLogs.ClickedCh:
					path, err := a.ExportLogs()
					if err != nil {
						log.Printf("Failed to export logs: %v", err)
						continue
					}
					if err := browser.OpenFile(path); err != nil {
						log.Printf("Failed to open log export: %v", err)
					}

				case <-mEditConfig.ClickedCh:
					path, err := config.ConfigPath()
					if err != nil {
						log.Printf("Failed to get config path: %v", err)
						continue
					}
					if err := browser.OpenFile(path); err != nil {
						log.Printf("Failed to open config file: %v", err)
					}

				case <-mQuit.ClickedCh:
					systray.Quit()
				}
			}
		}()
	}
}

// handleClicks drives one account's submenu.
func (m *accountMenu) handleClicks(a *app.App) {
	id := m.account.ProfileID
	for {
		select {
		case <-m.start.ClickedCh:
			go func() {
				if err := a.StartSession(id); err != nil {
					log.Printf("Start %s: %v", m.account.Name, err)
				}
				m.refresh(a)
			}()

		case <-m.pause.ClickedCh:
			a.PauseSession(id)
			m.refresh(a)

		case <-m.resume.ClickedCh:
			a.ResumeSession(id)
			m.refresh(a)

		case <-m.stop.ClickedCh:
			go func() {
				a.StopSession(id)
				m.refresh(a)
			}()

		case <-m.modes[types.ModeFeed].ClickedCh:
			m.setMode(a, types.ModeFeed)
		case <-m.modes[types.ModeUser].ClickedCh:
			m.setMode(a, types.ModeUser)
		case <-m.modes[types.ModeComments].ClickedCh:
			m.setMode(a, types.ModeComments)
		case <-m.modes[types.ModeTrending].ClickedCh:
			m.setMode(a, types.ModeTrending)
		}
	}
}

func (m *accountMenu) setMode(a *app.App, mode types.Mode) {
	if err := a.SetMode(m.account.ProfileID, mode); err != nil {
		log.Printf("Set mode for %s: %v", m.account.Name, err)
	}
}

func (m *accountMenu) refresh(a *app.App) {
	state := a.SessionState(m.account.ProfileID)
	marker := "○"
	switch state.String() {
	case "scanning", "logged in":
		marker = "●"
	case "paused":
		marker = "◐"
	}
	m.status.SetTitle(marker + " " + state.String())
}

// statusUpdater keeps submenu status lines current as sessions log activity.
type statusUpdater struct {
	app   *app.App
	menus []*accountMenu
}

func (u *statusUpdater) HandleLog(e events.LogEvent) {
	for _, m := range u.menus {
		if m.account.ProfileID == e.Account {
			m.refresh(u.app)
		}
	}
}

func (u *statusUpdater) HandleOutcome(o types.Outcome) {
	for _, m := range u.menus {
		if m.account.ProfileID == o.ProfileID {
			m.refresh(u.app)
		}
	}
}

// OnExit is the systray onExit callback.
func OnExit(a *app.App) func() {
	return func() {
		log.Println("xpilot shutting down...")
		a.Shutdown()
	}
}
