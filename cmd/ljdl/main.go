package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/ljdl"
	"github.com/fwojciec/ljdl/htmltomarkdown"
	ljhttp "github.com/fwojciec/ljdl/http"
	ljslog "github.com/fwojciec/ljdl/slog"
	"github.com/fwojciec/ljdl/sqlite"
	"github.com/lmittmann/tint"
	"github.com/subosito/gotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// A missing .env file is fine; LJDL_* variables may come from the environment.
	_ = gotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Default database path, used unless --db or LJDL_DB is set.
	DBPath string

	// SQLite database backing the download archive.
	DB *sqlite.DB

	// Transport replaces the HTTP round tripper. Used by end-to-end tests.
	Transport http.RoundTripper
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("ljdl"),
		kong.Description("Download posts and images from LiveJournal."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
		kong.Vars{"db": m.DBPath},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'ljdl --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = newLogger(stderr, cli.Verbose)

	// Open the archive only for commands that use it
	command := kongCtx.Command()
	if strings.HasPrefix(command, "archive") || (strings.HasPrefix(command, "get") && !cli.Get.NoArchive) {
		if err := os.MkdirAll(filepath.Dir(cli.DB), 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
		m.DB = sqlite.NewDB(cli.DB)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set LJDL_DB or --db to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
		}
		defer m.Close()

		deps.Archive = sqlite.NewArchiveService(m.DB)
	}

	// Wire the HTTP stack for commands that fetch
	if strings.HasPrefix(command, "get") || strings.HasPrefix(command, "dump") {
		opts := []ljhttp.Option{
			ljhttp.WithTimeout(cli.Timeout),
			ljhttp.WithRateLimit(cli.Rate),
		}
		if cli.UserAgent != "" {
			opts = append(opts, ljhttp.WithUserAgent(cli.UserAgent))
		}
		if m.Transport != nil {
			opts = append(opts, ljhttp.WithTransport(m.Transport))
		}
		client := ljhttp.NewClient(opts...)

		deps.Fetcher = ljslog.NewLoggingFetcher(client, deps.Logger)
		deps.Files = ljslog.NewLoggingFileFetcher(client, deps.Logger)
		deps.Converter = htmltomarkdown.NewConverter()
	}

	return kongCtx.Run(deps)
}

// newLogger returns a console logger writing to w.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	_, isFile := w.(*os.File)
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    !isFile,
	}))
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "archive.db"
	}
	return filepath.Join(home, ".ljdl", "archive.db")
}

// errorf prints a user-facing error and returns it.
func errorf(deps *Dependencies, err error) error {
	fmt.Fprintf(deps.Stderr, "error: %s\n", ljdl.ErrorMessage(err))
	return err
}
