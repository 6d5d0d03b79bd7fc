package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/evbook/evbook/internal/apiclient"
	"github.com/evbook/evbook/internal/config"
	"github.com/evbook/evbook/internal/log"
	"github.com/evbook/evbook/internal/session"
	"github.com/evbook/evbook/internal/storage"
	"github.com/evbook/evbook/internal/ux"
	"github.com/evbook/evbook/internal/version"
)

// CommandContext holds the state of one CLI invocation. Every NewRootCmd
// call gets its own, so commands never share flag values through globals.
type CommandContext struct {
	// Flags that are not configuration keys
	ConfigPath string
	Format     string
	NoColor    bool

	Out io.Writer
	Err io.Writer

	Viper  *viper.Viper
	Config *config.Config
	Logger *log.Logger

	// Set by connect for commands that talk to the API
	Store  *session.Store
	Client *apiclient.Client

	backend storage.Backend
	nav     *cliNavigator
}

// NewCommandContext creates a context writing to out and errOut.
func NewCommandContext(out, errOut io.Writer) *CommandContext {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &CommandContext{
		Out:   out,
		Err:   errOut,
		Viper: config.New(),
		nav:   &cliNavigator{},
	}
}

// loadConfig reads configuration and builds the logger.
func (cc *CommandContext) loadConfig() error {
	if cc.Config != nil {
		return nil
	}
	cfg, err := config.Load(cc.Viper, cc.ConfigPath)
	if err != nil {
		return err
	}
	cc.Config = cfg

	info := version.GetInfo()
	cc.Logger = log.New(log.Config{
		Level:   log.ParseLevel(cfg.Log.Level),
		Format:  log.ParseFormat(cfg.Log.Format),
		Writer:  cc.Err,
		Service: "evbook",
		Version: info.Version,
	})
	return nil
}

// connect opens session storage and wires the API client to the store.
func (cc *CommandContext) connect(ctx context.Context) error {
	if cc.Store != nil {
		return nil
	}

	backend, err := storage.Open(ctx, storage.Options{
		Driver: cc.Config.Storage.Driver,
		Path:   cc.Config.Storage.Path,
	})
	if err != nil {
		return err
	}
	cc.backend = backend

	client := apiclient.New(cc.Config.API.URL,
		apiclient.WithTimeout(cc.Config.API.Timeout),
		apiclient.WithLogger(cc.Logger),
		apiclient.WithUserAgent(version.GetInfo().UserAgent()),
		apiclient.WithTokenSource(apiclient.TokenSourceFunc(func(ctx context.Context) (string, error) {
			return cc.Store.Token(ctx)
		})),
	)
	store := session.NewStore(backend, client,
		session.WithLogger(cc.Logger),
		session.WithNavigator(cc.nav),
	)
	client.SetUnauthorizedHandler(store.Expire)

	cc.Client = client
	cc.Store = store
	return nil
}

// Close releases session storage.
func (cc *CommandContext) Close() error {
	if cc.backend == nil {
		return nil
	}
	err := cc.backend.Close()
	cc.backend = nil
	return err
}

// Output writes data with the selected formatter.
func (cc *CommandContext) Output(data any) error {
	p, err := ux.NewPrinter(cc.Out, cc.Format, cc.NoColor)
	if err != nil {
		return err
	}
	return p.Print(data)
}

func (cc *CommandContext) machine() bool {
	f, err := ux.ParseFormat(cc.Format)
	return err == nil && f.Machine()
}

// Println writes a plain line. It is suppressed for machine formats so
// their output stays parseable.
func (cc *CommandContext) Println(a ...any) {
	if !cc.machine() {
		fmt.Fprintln(cc.Out, a...)
	}
}

// Notice writes a line to the error stream.
func (cc *CommandContext) Notice(format string, args ...any) {
	fmt.Fprintf(cc.Err, format+"\n", args...)
}

// cliNavigator records expiry so the failing command can report it.
type cliNavigator struct {
	expired bool
}

func (n *cliNavigator) Reset() {}

func (n *cliNavigator) RedirectToLogin() { n.expired = true }

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
