// Command chatkit is a terminal client for the realtime-chat server. It
// plays the role the browser page plays for the web client: it supplies
// the rendering surfaces, the persisted state file, and the injected
// identity the chatkit core consumes.
package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/nduong18/chatkit-go/chatkit"
	"github.com/nduong18/chatkit-go/chatkit/rest"
	"github.com/nduong18/chatkit-go/chatkit/socket"
	"github.com/nduong18/chatkit-go/cmd/chatkit/statefile"
	"github.com/nduong18/chatkit-go/cmd/chatkit/ui"
)

var rootCmd = &cobra.Command{
	Use:          "chatkit",
	Short:        "Terminal client for the realtime-chat server",
	RunE:         runClient,
	SilenceUsage: true,
}

var (
	flagServerURL string
	flagAPIURL    string
	flagUser      string
	flagRoom      string
	flagOpen      string
	flagStateFile string
	flagLogFile   string
	flagDebug     bool
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagServerURL, "server", "", "websocket URL of the chat server (default ws://localhost:5000/ws)")
	flags.StringVar(&flagAPIURL, "api", "", "HTTP base URL of the chat server (default http://localhost:5000)")
	flags.StringVar(&flagUser, "user", "", "username to join as (enables auto-join)")
	flags.StringVar(&flagRoom, "room", "", "room override (private chats)")
	flags.StringVar(&flagOpen, "open", "", "deep link to open, e.g. \"/?room=pm%3A1%3A2&partner=bob\"")
	flags.StringVar(&flagStateFile, "state-file", "", "path of the persisted UI state file")
	flags.StringVar(&flagLogFile, "log-file", "", "write logs to this file (default: discard)")
	flags.BoolVar(&flagDebug, "debug", false, "log at debug level")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("chatkit exited")
	}
}

type cliConfig struct {
	ServerURL string `env:"CHATKIT_SERVER_URL" envDefault:"ws://localhost:5000/ws"`
	APIURL    string `env:"CHATKIT_API_URL" envDefault:"http://localhost:5000"`
	User      string `env:"CHATKIT_USER"`
	Room      string `env:"CHATKIT_ROOM"`
	StateFile string `env:"CHATKIT_STATE_FILE"`
	LogFile   string `env:"CHATKIT_LOG_FILE"`
	Debug     bool   `env:"CHATKIT_DEBUG"`
}

// loadConfig reads the environment and overlays any flags that were set.
func loadConfig() (cliConfig, error) {
	var cfg cliConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if flagServerURL != "" {
		cfg.ServerURL = flagServerURL
	}
	if flagAPIURL != "" {
		cfg.APIURL = flagAPIURL
	}
	if flagUser != "" {
		cfg.User = flagUser
	}
	if flagRoom != "" {
		cfg.Room = flagRoom
	}
	if flagStateFile != "" {
		cfg.StateFile = flagStateFile
	}
	if cfg.StateFile == "" {
		cfg.StateFile = statefile.DefaultPath()
	}
	if flagLogFile != "" {
		cfg.LogFile = flagLogFile
	}
	if flagDebug {
		cfg.Debug = true
	}
	return cfg, nil
}

func runClient(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	page := chatkit.PageConfig{CurrentUser: cfg.User, Room: cfg.Room}
	if flagOpen != "" {
		room, partner, err := parseDeepLink(flagOpen)
		if err != nil {
			return err
		}
		page.Room = room
		page.Partner = partner
	}

	// one jar for the whole process so the server session survives
	// navigation between conversations
	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	httpClient := &http.Client{Timeout: 15 * time.Second, Jar: jar}

	for {
		nav, err := runSession(cmd.Context(), cfg, page, httpClient, logger)
		if err != nil {
			return err
		}
		if nav == nil {
			return nil
		}
		logger.Info().Str("room", nav.Room).Str("partner", nav.Partner).Msg("navigating")
		page.Room = nav.Room
		page.Partner = nav.Partner
	}
}

// runSession builds one full client lifetime and runs it until quit or
// navigation. Selecting a friend is a full navigation: everything is torn
// down and rebuilt with the new page overrides.
func runSession(ctx context.Context, cfg cliConfig, page chatkit.PageConfig, httpClient *http.Client, logger zerolog.Logger) (*ui.NavTarget, error) {
	store := statefile.Open(cfg.StateFile)

	restc := rest.NewClient(cfg.APIURL)
	restc.SetHTTPClient(httpClient)

	sockCfg := socket.DefaultConfig()
	sockCfg.URL = cfg.ServerURL
	sock := socket.New(sockCfg, logger)

	ckCfg := chatkit.DefaultConfig()
	ckCfg.Page = page
	client := chatkit.NewClient(ckCfg)
	client.SetLogger(logger)
	client.SetSocket(sock)
	client.SetStore(store)
	client.SetFriends(restc)

	p := tea.NewProgram(ui.New(client, page), tea.WithAltScreen())
	bridge := ui.NewBridge(p)
	client.SetMessageView(bridge)
	client.SetSidebarView(bridge)
	client.SetCollapseViews(bridge, nil)
	client.Start()

	go func() {
		if err := sock.Connect(ctx); err != nil {
			p.Send(ui.ConnectFailedMsg{Err: err})
		}
	}()

	final, err := p.Run()
	_ = sock.Close()
	if err != nil {
		return nil, err
	}
	model, ok := final.(ui.Model)
	if !ok {
		return nil, nil
	}
	return model.Nav(), nil
}

// parseDeepLink decodes the /?room=<room>&partner=<username> form the
// sidebar produces.
func parseDeepLink(link string) (room, partner string, err error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", "", fmt.Errorf("parse deep link: %w", err)
	}
	q := u.Query()
	return q.Get("room"), q.Get("partner"), nil
}

func newLogger(cfg cliConfig) (zerolog.Logger, func(), error) {
	if cfg.LogFile == "" {
		return zerolog.Nop(), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("open log file: %w", err)
	}
	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(f).Level(level).With().Timestamp().Logger()
	return logger, func() { _ = f.Close() }, nil
}
