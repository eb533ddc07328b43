// Package main provides the CLI entrypoint for wordsprint.
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/wordsprint/internal/clock"
	"github.com/verte-zerg/wordsprint/internal/config"
	"github.com/verte-zerg/wordsprint/internal/generator"
	"github.com/verte-zerg/wordsprint/internal/model"
	"github.com/verte-zerg/wordsprint/internal/session"
	"github.com/verte-zerg/wordsprint/internal/stats"
	"github.com/verte-zerg/wordsprint/internal/store"
	"github.com/verte-zerg/wordsprint/internal/tui"
	"github.com/verte-zerg/wordsprint/internal/wordlist"
	"github.com/verte-zerg/wordsprint/internal/wordstore"
)

const (
	defaultLang  = wordlist.DefaultLang
	defaultWords = 50
	defaultCaps  = 0.0
	defaultPunct = 0.0
)

const defaultPunctSet = ".,!?;:"

var (
	practiceLang     string
	practiceWords    int
	practiceWordList string
	practiceSeed     int64
	practiceCaps     float64
	practicePunct    float64
	practicePunctSet string

	importLang string

	scoreTarget   string
	scoreInput    string
	scoreDuration time.Duration

	sampleCount int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wordsprint",
		Short:         "Terminal typing speed test",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&practiceLang, "lang", defaultLang, "language code")
	rootCmd.PersistentFlags().StringVar(&practiceWordList, "wordlist", "", "word list file (one word per line)")
	rootCmd.PersistentFlags().Int64Var(&practiceSeed, "seed", 0, "random seed (0 picks one)")
	rootCmd.Flags().IntVar(&practiceWords, "words", defaultWords, "words per passage")
	rootCmd.Flags().Float64Var(&practiceCaps, "caps", defaultCaps, "probability of capitalized first letter (0-1)")
	rootCmd.Flags().Float64Var(&practicePunct, "punct", defaultPunct, "punctuation probability per word (0-1)")
	rootCmd.Flags().StringVar(&practicePunctSet, "punct-set", defaultPunctSet, "punctuation set")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newWordsCmd())
	rootCmd.AddCommand(newScoreCmd())

	return rootCmd
}

func loadPracticeConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "lang", &practiceLang, fileCfg.Practice.Lang)
	applyIntConfig(cmd, "words", &practiceWords, fileCfg.Practice.Words)
	applyStringConfig(cmd, "wordlist", &practiceWordList, fileCfg.Practice.WordList)
	applyInt64Config(cmd, "seed", &practiceSeed, fileCfg.Practice.Seed)
	applyFloatConfig(cmd, "caps", &practiceCaps, fileCfg.Practice.CapsPct)
	applyFloatConfig(cmd, "punct", &practicePunct, fileCfg.Practice.PunctPct)
	applyStringConfig(cmd, "punct-set", &practicePunctSet, fileCfg.Practice.PunctSet)

	cfg := model.Config{
		Lang:     strings.ToLower(strings.TrimSpace(practiceLang)),
		Words:    practiceWords,
		WordList: practiceWordList,
		Seed:     practiceSeed,
		CapsPct:  practiceCaps,
		PunctPct: practicePunct,
		PunctSet: practicePunctSet,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadPracticeConfig(cmd)
	if err != nil {
		return err
	}
	rnd := newRand(cfg.Seed)
	vocab, err := loadVocabulary(cmd.Context(), cfg, rnd)
	if err != nil {
		return err
	}

	gen := generator.New(rnd)
	m := tui.NewModel(cfg, vocab, gen, []rune(cfg.PunctSet), clock.System{})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// loadVocabulary builds the word store from, in order of preference, an
// explicit word list file, the catalog entry for the language, or the
// embedded default list.
func loadVocabulary(ctx context.Context, cfg model.Config, rnd *rand.Rand) (*wordstore.Store, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	vocab := wordstore.New(rnd)
	if cfg.WordList != "" {
		words, err := wordlist.LoadWords(cfg.WordList)
		if err != nil {
			return nil, wordListLoadError(cfg.Lang, cfg.WordList, err)
		}
		wordlist.Fill(vocab, words)
		return vocab, nil
	}

	words, err := loadCatalogWords(ctx, cfg.Lang)
	switch {
	case err == nil:
		wordlist.Fill(vocab, words)
		return vocab, nil
	case !errors.Is(err, store.ErrNotFound):
		logErrf("failed to read word list catalog: %v\n", err)
	}
	if cfg.Lang != wordlist.DefaultLang {
		return nil, wordListLoadError(cfg.Lang, config.DefaultDBPath(), err)
	}
	wordlist.Fill(vocab, wordlist.Default())
	return vocab, nil
}

func loadCatalogWords(ctx context.Context, lang string) ([]string, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	return st.LoadWords(ctx, lang)
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List imported word list languages",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	langs, err := st.ListLangs(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list languages: %w", err)
	}
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "%s\t%s\t%s\n", wordlist.DefaultLang, "built-in", "default"); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	for _, info := range langs {
		if _, err := fmt.Fprintf(out, "%s\t%d words\t%s (%s)\n", info.Lang, info.Words, info.Source, info.ImportedAt.Local().Format("2006-01-02")); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a word list into the catalog",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
	cmd.Flags().StringVar(&importLang, "as", "", "language code to store the list under (default: --lang)")
	return cmd
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	lang := importLang
	if lang == "" {
		lang = practiceLang
	}
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return fmt.Errorf("--as must not be empty")
	}
	words, err := wordlist.LoadWords(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	kept := wordlist.Filter(words, wordlist.FilterForLang(lang))
	if dropped := len(words) - len(kept); dropped > 0 {
		logErrf("Skipped %d words rejected by the %s filter\n", dropped, lang)
	}
	if len(kept) == 0 {
		return fmt.Errorf("no usable words in %s", args[0])
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	n, err := st.ImportWords(cmd.Context(), lang, filepath.Base(args[0]), kept)
	if err != nil {
		return fmt.Errorf("failed to import word list: %w", err)
	}
	logErrf("Imported %d words for %s\n", n, lang)
	return nil
}

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score typed text against a passage",
		Args:  cobra.NoArgs,
		RunE:  runScoreCmd,
	}
	cmd.Flags().StringVar(&scoreTarget, "target", "", "target passage")
	cmd.Flags().StringVar(&scoreInput, "input", "", "typed text")
	cmd.Flags().DurationVar(&scoreDuration, "duration", time.Minute, "time taken to type the input")
	return cmd
}

func runScoreCmd(cmd *cobra.Command, _ []string) error {
	if strings.TrimSpace(scoreTarget) == "" {
		return fmt.Errorf("--target must not be empty")
	}
	if scoreDuration < 0 {
		return fmt.Errorf("--duration must be >= 0")
	}
	res := scoreInputText(scoreTarget, scoreInput, scoreDuration)
	out := cmd.OutOrStdout()
	return stats.RenderResult(out, res, nil, stats.TerminalWidth(out))
}

func scoreInputText(target, input string, took time.Duration) session.Result {
	clk := clock.NewManual(time.Unix(0, 0))
	s := session.New(strings.Fields(target), clk)
	s.Start()
	clk.Advance(took)
	s.End()
	return s.Result(input)
}

func newWordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "words",
		Short: "Query the vocabulary",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "has <word>...",
		Short: "Check whether words are in the vocabulary",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runWordsHasCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "prefix <prefix>",
		Short: "List words starting with a prefix",
		Args:  cobra.ExactArgs(1),
		RunE:  runWordsPrefixCmd,
	})
	sample := &cobra.Command{
		Use:   "sample",
		Short: "Print randomly sampled words",
		Args:  cobra.NoArgs,
		RunE:  runWordsSampleCmd,
	}
	sample.Flags().IntVarP(&sampleCount, "count", "n", 10, "number of words")
	cmd.AddCommand(sample)
	cmd.AddCommand(&cobra.Command{
		Use:   "count",
		Short: "Print the vocabulary size",
		Args:  cobra.NoArgs,
		RunE:  runWordsCountCmd,
	})
	return cmd
}

func vocabularyFor(cmd *cobra.Command) (*wordstore.Store, error) {
	cfg := model.Config{
		Lang:     strings.ToLower(strings.TrimSpace(practiceLang)),
		WordList: practiceWordList,
		Seed:     practiceSeed,
	}
	return loadVocabulary(cmd.Context(), cfg, newRand(cfg.Seed))
}

func runWordsHasCmd(cmd *cobra.Command, args []string) error {
	vocab, err := vocabularyFor(cmd)
	if err != nil {
		return err
	}
	missing := 0
	for _, w := range args {
		found := vocab.Contains(w)
		if !found {
			missing++
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%t\n", w, found); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if missing > 0 {
		return fmt.Errorf("%d of %d words not in vocabulary", missing, len(args))
	}
	return nil
}

func runWordsPrefixCmd(cmd *cobra.Command, args []string) error {
	vocab, err := vocabularyFor(cmd)
	if err != nil {
		return err
	}
	for _, w := range vocab.WordsWithPrefix(args[0]) {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), w); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func runWordsSampleCmd(cmd *cobra.Command, _ []string) error {
	vocab, err := vocabularyFor(cmd)
	if err != nil {
		return err
	}
	words, err := vocab.RandomWords(sampleCount)
	if err != nil {
		return fmt.Errorf("--count: %w", err)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(words, " ")); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runWordsCountCmd(cmd *cobra.Command, _ []string) error {
	vocab, err := vocabularyFor(cmd)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), vocab.Size()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# wordsprint configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# lang = %q            # Language code (catalog list or built-in "en")
# words = %d              # Words per passage
# wordlist = ""           # Word list file; overrides lang
# seed = 0                # Random seed (0 picks one per run)
# caps = %.2f           # Probability of capitalized first letter (0-1)
# punct = %.2f          # Punctuation probability per word (0-1)
# punct-set = %q    # Punctuation set
`,
		defaultLang,
		defaultWords,
		defaultCaps,
		defaultPunct,
		defaultPunctSet,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.Lang == "" && cfg.WordList == "" {
		return fmt.Errorf("--lang must not be empty")
	}
	if cfg.CapsPct < 0 || cfg.CapsPct > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if cfg.PunctPct < 0 || cfg.PunctPct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if cfg.PunctPct > 0 && cfg.PunctSet == "" {
		return fmt.Errorf("--punct-set must not be empty")
	}
	return nil
}

func wordListLoadError(lang, path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load word list: %v", err),
		fmt.Sprintf("looked in: %s", path),
		fmt.Sprintf("language %q not found", lang),
		"Run: wordsprint langs",
		fmt.Sprintf("Import: wordsprint import --as %s <file>", lang),
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
