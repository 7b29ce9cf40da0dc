package server

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"

	"github.com/renato0307/idevman/internal/logging"
	"github.com/renato0307/idevman/internal/ui"
)

const sessionEventBuffer = 128

// sessionModel wraps the dashboard to release the bus subscription when the session ends
type sessionModel struct {
	*ui.Dashboard
	sessionID   string
	startTime   time.Time
	unsubscribe func()
}

func (s *sessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.QuitMsg); ok {
		s.end()
	}

	_, cmd := s.Dashboard.Update(msg)
	return s, cmd
}

func (s *sessionModel) end() {
	s.unsubscribe()
	logging.Logger.Info("SSH session ended",
		"session_id", s.sessionID,
		"duration", time.Since(s.startTime).String())
}

// teaHandler creates a dashboard for each SSH session
func (s *Server) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sess.Pty()
	sessionID := fmt.Sprintf("%s@%s", sess.User(), sess.RemoteAddr().String())

	logging.Logger.Info("New SSH session",
		"session_id", sessionID,
		"user", sess.User(),
		"remote_addr", sess.RemoteAddr().String(),
		"term", pty.Term,
		"window", fmt.Sprintf("%dx%d", pty.Window.Width, pty.Window.Height))

	events, unsubscribe := s.bus.Subscribe(sessionEventBuffer)

	// Dropped connections never deliver a QuitMsg
	go func() {
		<-sess.Context().Done()
		unsubscribe()
	}()

	model := &sessionModel{
		Dashboard:   ui.NewDashboard(s.controller, events, false), // SSH mode never uses dev mode
		sessionID:   sessionID,
		startTime:   time.Now(),
		unsubscribe: unsubscribe,
	}

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}
