package repobundle

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/google/wire"
	"github.com/hayeah/goo"
	"github.com/jmoiron/sqlx"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/hayeah/repobundle/bundle"
	"github.com/hayeah/repobundle/content"
	"github.com/hayeah/repobundle/github"
	"github.com/hayeah/repobundle/ignore"
	"github.com/hayeah/repobundle/internal/metrics"
	"github.com/hayeah/repobundle/localrepo"
	"github.com/hayeah/repobundle/repotree"
	"github.com/hayeah/repobundle/selection"
)

func ProvideConfig() (*Config, error) {
	cfg, err := goo.ParseConfig[Config]("")
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func ProvideGooConfig(cfg *Config) (*goo.Config, error) {
	return &cfg.Config, nil
}

// ProvideArgs parses cli args
func ProvideArgs() (*Args, error) {
	return goo.ParseArgs[Args]()
}

// ProvideBundleStore creates a new BundleStore instance
func ProvideBundleStore(db *sqlx.DB, logger *slog.Logger) *BundleStore {
	return &BundleStore{
		DB:     db,
		Logger: logger,
	}
}

// collect all the necessary providers
var Wires = wire.NewSet(
	goo.Wires,
	// provide the base config for goo library
	ProvideGooConfig,

	// app specific providers
	ProvideConfig,
	ProvideArgs,
	ProvideBundleStore,

	// provide a goo.Runner interface for Main function, by using interface binding
	wire.Struct(new(App), "*"),
	wire.Bind(new(goo.Runner), new(*App)),
)

type Config struct {
	goo.Config
	GitHub GitHubConfig
	Bundle BundleConfig
}

// GitHubConfig carries the API credential and endpoint. The token's
// lifecycle is the caller's: loaded here at startup, passed to the client
// explicitly.
type GitHubConfig struct {
	Token   string
	BaseURL string
}

// BundleConfig tunes generation defaults.
type BundleConfig struct {
	Concurrency  int
	DatabasePath string
}

type GenCmd struct {
	Owner string `arg:"--owner" help:"Repository owner"`
	Repo  string `arg:"--repo" help:"Repository name"`
	Ref   string `arg:"--ref" default:"main" help:"Branch, tag, or commit"`
	Path  string `arg:"--path" help:"Restrict to a subdirectory of the repository"`
	Dir   string `arg:"--dir" help:"Bundle a local checkout instead of a remote repository"`

	Select      string `arg:"-s,--select" help:"Selection patterns, one per line (fuzzy, /regex, glob, =exact, !negation)"`
	All         bool   `arg:"--all" help:"Select every file, bypassing the default text-file heuristic"`
	Concurrency int    `arg:"-c,--concurrency" help:"Max in-flight content fetches (default from config)"`

	Output         string `arg:"-o,--output" help:"Output file path (default: stdout)"`
	Save           bool   `arg:"--save" help:"Record the generated bundle in the history database"`
	TokenEstimator string `arg:"--token-estimator" default:"simple" help:"Token counter: simple or tiktoken"`
}

type ShowCmd struct {
	ID int64 `arg:"positional" help:"Bundle ID to print"`
}

type ListCmd struct{}

type Args struct {
	Gen  *GenCmd  `arg:"subcommand:gen" help:"Generate a bundle from a repository"`
	Show *ShowCmd `arg:"subcommand:show" help:"Print a saved bundle by ID"`
	List *ListCmd `arg:"subcommand:list" help:"List saved bundles"`
}

type App struct {
	Args   *Args
	Config *Config
	Logger *slog.Logger
	DB     *sqlx.DB
	Store  *BundleStore
}

// InitApp constructs the application without wire, in the style of the
// generated injector: parse config and args, then assemble dependencies by
// hand.
func InitApp() (*App, error) {
	cfg, err := ProvideConfig()
	if err != nil {
		return nil, err
	}

	args, err := ProvideArgs()
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	dbPath := cfg.Bundle.DatabasePath
	if dbPath == "" {
		dbPath = "repobundle.db"
	}
	db, err := sqlx.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", dbPath, err)
	}

	return &App{
		Args:   args,
		Config: cfg,
		Logger: logger,
		DB:     db,
		Store:  ProvideBundleStore(db, logger),
	}, nil
}

func (app *App) Run() error {
	if err := app.Store.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	args := app.Args
	switch {
	case args.Gen != nil:
		return app.handleGenCommand(args.Gen)
	case args.Show != nil:
		return app.handleShowCommand(args.Show.ID)
	case args.List != nil:
		return app.handleListCommand()
	default:
		return fmt.Errorf("no subcommand specified, use 'gen', 'show', or 'list'")
	}
}

// listClient is the repository surface gen needs: a flat listing plus
// per-blob content retrieval.
type listClient interface {
	content.Client
	listEntries(ctx context.Context, cmd *GenCmd) ([]repotree.Entry, error)
}

type githubSource struct{ *github.Client }

func (s githubSource) listEntries(ctx context.Context, cmd *GenCmd) ([]repotree.Entry, error) {
	return s.ListEntries(ctx, cmd.Owner, cmd.Repo, cmd.Ref, cmd.Path)
}

type localSource struct{ *localrepo.Client }

func (s localSource) listEntries(ctx context.Context, cmd *GenCmd) ([]repotree.Entry, error) {
	return s.ListEntries(ctx, cmd.Path)
}

func (app *App) sourceFor(cmd *GenCmd) (listClient, string, error) {
	if cmd.Dir != "" {
		client, err := localrepo.NewClient(cmd.Dir)
		if err != nil {
			return nil, "", err
		}
		return localSource{client}, cmd.Dir, nil
	}

	if cmd.Owner == "" || cmd.Repo == "" {
		return nil, "", fmt.Errorf("either --dir or both --owner and --repo are required")
	}

	client := github.NewClient(app.Config.GitHub.Token, app.Logger)
	if app.Config.GitHub.BaseURL != "" {
		client.BaseURL = app.Config.GitHub.BaseURL
	}
	label := fmt.Sprintf("%s/%s@%s", cmd.Owner, cmd.Repo, cmd.Ref)
	return githubSource{client}, label, nil
}

func (app *App) handleGenCommand(cmd *GenCmd) error {
	ctx := context.Background()

	source, label, err := app.sourceFor(cmd)
	if err != nil {
		return err
	}

	entries, err := source.listEntries(ctx, cmd)
	if err != nil {
		return err
	}
	root := repotree.BuildTree(entries)

	state, err := app.buildSelection(ctx, source, root, cmd)
	if err != nil {
		return err
	}

	leaves := state.SelectedLeaves(root)
	app.Logger.Info("selection ready", "repo", label, "selected", len(leaves))

	concurrency := cmd.Concurrency
	if concurrency == 0 {
		concurrency = app.Config.Bundle.Concurrency
	}
	fetcher := &content.Fetcher{Client: source, Limit: concurrency, Logger: app.Logger}
	results, err := fetcher.FetchAll(ctx, leaves)
	if err != nil {
		return err
	}

	for _, failure := range content.Failures(results) {
		app.Logger.Warn("skipping failed file", "path", failure.Path, "error", failure.Err)
	}

	counter, err := counterFor(cmd.TokenEstimator)
	if err != nil {
		return err
	}
	m := metrics.NewOutputMetrics(counter, runtime.NumCPU())

	structure := repotree.Render(root)
	m.Add("tree", "index", []byte(structure))

	assembler := &bundle.Assembler{Metrics: m}
	out, err := assembler.Assemble(label, structure, content.Records(results))
	if err != nil {
		return err
	}

	if err := app.writeOutput(cmd.Output, out); err != nil {
		return err
	}

	m.Wait()
	app.printTokenBreakdown(m)

	if cmd.Save {
		files := m.SumBy("file")
		id, err := app.Store.SaveBundle(&Bundle{
			Label:   label,
			Files:   len(content.Records(results)),
			Bytes:   len(out),
			Tokens:  files.Tokens,
			Content: out,
		})
		if err != nil {
			return err
		}
		app.Logger.Info("bundle saved", "id", id)
	}

	return nil
}

// buildSelection derives the initial selection: --all selects everything,
// --select applies matchers, and the default is the text-file heuristic
// filtered through the repository's own .gitignore when one exists.
func (app *App) buildSelection(ctx context.Context, source listClient, root *repotree.Node, cmd *GenCmd) (selection.State, error) {
	state := selection.NewState()

	switch {
	case cmd.All:
		state.SelectAll(root)
	case cmd.Select != "":
		matchers, err := selection.ParseMatchers(cmd.Select)
		if err != nil {
			return nil, err
		}
		if err := state.SelectMatch(root, matchers); err != nil {
			return nil, err
		}
	default:
		var ignorer selection.Ignorer
		if node := repotree.Find(root, ".gitignore"); node != nil && !node.IsDir() {
			data, _, err := source.FetchContent(ctx, node.Ref)
			if err != nil {
				app.Logger.Warn("could not fetch .gitignore, selecting without it", "error", err)
			} else {
				ignorer = ignore.NewIgnoreFromContent(string(data))
			}
		}
		state = selection.DefaultState(root, ignorer)
	}

	return state, nil
}

func (app *App) handleShowCommand(id int64) error {
	b, err := app.Store.GetBundle(id)
	if err != nil {
		return err
	}
	_, err = io.WriteString(os.Stdout, b.Content)
	return err
}

func (app *App) handleListCommand() error {
	bundles, err := app.Store.ListBundles()
	if err != nil {
		return err
	}

	for _, b := range bundles {
		fmt.Printf("%d\t%s\t%d files\t%d bytes\t%s\n",
			b.ID, b.Label, b.Files, b.Bytes, b.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func (app *App) writeOutput(path, out string) error {
	if path == "" {
		_, err := io.WriteString(os.Stdout, out)
		return err
	}
	return os.WriteFile(path, []byte(out), 0o644)
}

func (app *App) printTokenBreakdown(m *metrics.OutputMetrics) {
	var sb strings.Builder

	files := m.SumBy("file")
	tree := m.SumBy("tree")

	fmt.Fprintf(&sb, "tree index: %d tokens\n", tree.Tokens)
	for _, row := range m.Breakdown("file") {
		fmt.Fprintf(&sb, "%8d  %s\n", row.Item.Tokens, row.Key)
	}
	fmt.Fprintf(&sb, "total: %d tokens, %d bytes, %d lines\n",
		files.Tokens+tree.Tokens, files.Bytes+tree.Bytes, files.Lines+tree.Lines)

	fmt.Fprint(os.Stderr, sb.String())
}

func counterFor(name string) (metrics.Counter, error) {
	switch name {
	case "tiktoken":
		c, err := metrics.NewTiktokenCounter("gpt-3.5-turbo")
		if err != nil {
			return &metrics.SimpleCounter{}, nil
		}
		return c, nil
	case "", "simple":
		return &metrics.SimpleCounter{}, nil
	default:
		return nil, fmt.Errorf("unknown token estimator: %s", name)
	}
}
