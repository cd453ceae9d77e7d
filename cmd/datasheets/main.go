// Command datasheets is a terminal client for the datasheet backend. It shares
// the web frontend's session rules: the token is kept in the configured store,
// a 401 clears it, and protected routes require a login.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http/cookiejar"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/net/publicsuffix"

	"github.com/interview-ai/datasheet-ui/config"
	"github.com/interview-ai/datasheet-ui/internal/api"
	"github.com/interview-ai/datasheet-ui/internal/bootstrap"
)

type commandFn func(cc *commandContext, args []string) error

type command struct {
	name        string
	usage       string
	description string
	run         commandFn
}

// globalOptions are parsed before the command name.
type globalOptions struct {
	APIURL  string
	Store   string
	Profile string
	JSON    bool
	Filter  string
	Verbose bool
}

// commandContext carries everything a command needs.
type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Opts   globalOptions
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Store bootstrap.SessionStore
	API   *api.Service
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code) //nolint:forbidigo // CLI must propagate command status to the shell
}

// run parses args, executes one command and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, rest, err := parseGlobalFlags(args)
	if errors.Is(err, pflag.ErrHelp) {
		printUsage(stdout)
		return 0
	}
	if err != nil {
		_ = writef(stderr, "%v\n", err)
		return 2
	}
	if len(rest) == 0 {
		printUsage(stderr)
		return 2
	}

	cmd, ok := commands()[rest[0]]
	if !ok {
		_ = writef(stderr, "unknown command %q\n\n", rest[0])
		printUsage(stderr)
		return 2
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		_ = writef(stderr, "load config: %v\n", err)
		return 1
	}
	if err := applyOverrides(&cfg, opts); err != nil {
		_ = writef(stderr, "%v\n", err)
		return 2
	}

	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := bootstrap.InitTextLoggerTo(stderr, level)

	cc := &commandContext{
		Ctx:    ctx,
		Logger: logger,
		Config: cfg,
		Opts:   opts,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	closeStore, err := cc.connect()
	if err != nil {
		_ = writef(stderr, "%v\n", err)
		return 1
	}
	defer func() {
		if cerr := closeStore(); cerr != nil {
			logger.Warn("close token store failed", "error", cerr)
		}
	}()

	if err := cmd.run(cc, rest[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		_ = writef(stderr, "%s: %s\n", cmd.name, describeError(err))
		var uerr *usageError
		if errors.As(err, &uerr) {
			_ = writef(stderr, "usage: datasheets %s %s\n", cmd.name, cmd.usage)
			return 2
		}
		return 1
	}
	return 0
}

func parseGlobalFlags(args []string) (globalOptions, []string, error) {
	var opts globalOptions
	fs := pflag.NewFlagSet("datasheets", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SetInterspersed(false)
	fs.StringVar(&opts.APIURL, "api-url", "", "backend base URL (overrides API_URL)")
	fs.StringVar(&opts.Store, "store", "", "token store: file, redis or memory (overrides SESSION_STORE)")
	fs.StringVar(&opts.Profile, "profile", "", "session profile (overrides SESSION_PROFILE)")
	fs.BoolVar(&opts.JSON, "json", false, "print raw JSON results")
	fs.StringVar(&opts.Filter, "filter", "", "JMESPath expression applied to the JSON result")
	fs.BoolVarP(&opts.Verbose, "verbose", "v", false, "log requests to stderr")

	if err := fs.Parse(args); err != nil {
		return opts, nil, err
	}
	return opts, fs.Args(), nil
}

func applyOverrides(cfg *config.AppConfig, opts globalOptions) error {
	if opts.APIURL != "" {
		cfg.API.BaseURL = opts.APIURL
	}
	if opts.Store != "" {
		var kind config.StoreKind
		if err := kind.UnmarshalText([]byte(opts.Store)); err != nil {
			return err
		}
		cfg.Session.Store = kind
	}
	if opts.Profile != "" {
		cfg.Session.Profile = opts.Profile
	}
	cfg.API.Sanitize()
	cfg.Session.Sanitize()
	return nil
}

// connect opens the token store and builds the API service on top of it.
func (cc *commandContext) connect() (func() error, error) {
	store, closeFn, err := bootstrap.NewTokenStore(cc.Ctx, bootstrap.TokenStoreConfig{
		Session: cc.Config.Session,
		Redis:   cc.Config.Redis,
		Logger:  cc.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("token store: %w", err)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		_ = closeFn()
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	sink, closeSink := bootstrap.NewMetricsSink(cc.Ctx, cc.Config.Metrics, cc.Logger)
	closeAll := func() error { return errors.Join(closeSink(), closeFn()) }

	svc, err := bootstrap.NewAPIService(bootstrap.APIServiceConfig{
		API:        cc.Config.API,
		HTTPClient: bootstrap.NewBackendHTTPClient(cc.Config.API, sink, jar),
		Store:      store,
		Navigator:  newTerminalNavigator(cc.Stderr),
		Logger:     cc.Logger,
	})
	if err != nil {
		_ = closeAll()
		return nil, fmt.Errorf("api client: %w", err)
	}

	cc.Store = store
	cc.API = svc
	return closeAll, nil
}

func printUsage(w io.Writer) {
	_ = writef(w, "Usage: datasheets [global flags] <command> [flags]\n\n")
	_ = writef(w, "Global flags:\n")
	_ = writef(w, "  --api-url URL     backend base URL\n")
	_ = writef(w, "  --store KIND      token store: file, redis or memory\n")
	_ = writef(w, "  --profile NAME    session profile\n")
	_ = writef(w, "  --json            print raw JSON results\n")
	_ = writef(w, "  --filter EXPR     JMESPath expression applied to the JSON result\n")
	_ = writef(w, "  -v, --verbose     log requests to stderr\n\n")
	_ = writef(w, "Commands:\n")

	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := cmds[name]
		_ = writef(w, "  %-34s %s\n", strings.TrimSpace(c.name+" "+c.usage), c.description)
	}
}
