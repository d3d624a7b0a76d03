package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avdeev/ideaforge/internal/agent"
	"github.com/avdeev/ideaforge/internal/catalog"
	"github.com/avdeev/ideaforge/internal/config"
	"github.com/avdeev/ideaforge/internal/generate"
	"github.com/avdeev/ideaforge/internal/onboarding"
	"github.com/avdeev/ideaforge/internal/pipeline"
	"github.com/avdeev/ideaforge/internal/present"
	"github.com/avdeev/ideaforge/internal/profile"
	"github.com/avdeev/ideaforge/internal/ranking"
	"github.com/avdeev/ideaforge/internal/storage"
	"github.com/avdeev/ideaforge/internal/trends"
)

// app bundles the pipeline dependencies assembled from configuration.
type app struct {
	cfg       config.Config
	store     *storage.Store // nil when the database could not be opened
	generator *generate.Generator
	ranker    *ranking.Ranker
	presenter *present.Presenter
	trends    *trends.Client // nil when disabled
	logger    *slog.Logger
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			printWarning("closing storage: %v", err)
		}
	}
}

func buildApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logLevel := slog.LevelInfo
	if strings.EqualFold(cfg.Log.Level, "debug") {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	a := &app{cfg: cfg, ranker: ranking.New(), presenter: present.New(), logger: logger}

	// A broken database never blocks a recommendation run; history is
	// simply not recorded.
	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		printWarning("session history unavailable: %v", err)
	} else {
		a.store = store
	}

	if cfg.Trends.Enabled {
		a.trends = trends.NewClient()
	}

	var author generate.IdeaAuthor
	if cfg.Generate.UseLLM {
		if cfg.LLM.APIKey == "" {
			a.close()
			return nil, fmt.Errorf("llm.api_key is required when generate.use_llm is enabled (set IDEAFORGE_LLM_API_KEY)")
		}
		engine := agent.NewClientWithBaseURL(cfg.LLM.APIKey, cfg.LLM.BaseURL)
		var trendSource agent.TrendSource
		if a.trends != nil {
			trendSource = a.trends
		}
		author = agent.NewAuthor(engine, cfg.LLM.Model, trendSource)
	}
	a.generator = generate.New(author)

	return a, nil
}

// --- run ---

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the interactive recommendation session",
	Long: `Run the interactive recommendation session.

Ava asks ten onboarding questions ("skip" skips one, "back" returns to the
previous one, "quit" ends the session), then the pipeline builds your
profile, generates candidate projects, ranks them, and prints the top
recommendations. Results are also written to the output directory as JSON
and CSV.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		domain, _ := cmd.Flags().GetString("domain")
		if domain != "" && !catalog.Has(domain) {
			return fmt.Errorf("unknown domain %q (valid: %s)", domain, strings.Join(catalog.Domains(), ", "))
		}

		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		runner := onboarding.NewRunner(os.Stdin, os.Stdout, agent.Onboarder.Name)

		opts := []pipeline.Option{
			pipeline.WithFeedback(),
			pipeline.WithArtifacts(a.cfg.Output.Dir),
		}
		if domain != "" {
			opts = append(opts, pipeline.WithDomainFilter(domain))
		}
		coord := pipeline.New(runner, a.generator, a.ranker, a.presenter, storeOrNil(a.store), a.logger, opts...)

		result := coord.Run(cmd.Context())
		if errors.Is(result.Err, onboarding.ErrQuit) {
			fmt.Println("Goodbye! Come back when you want project ideas.")
			return nil
		}
		if result.Err != nil {
			return result.Err
		}

		fmt.Println(result.Presentation.Text)
		printSuccess("Session %s complete — results saved to %s", result.SessionID, a.cfg.Output.Dir)
		return nil
	},
}

// --- recommend ---

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Non-interactive recommendations from an answers file",
	Long: `Non-interactive recommendations from an answers file.

The file is a JSON object mapping question keys to raw answers:

  {"name": "Dana", "experience_level": "3 years, intermediate",
   "programming_languages": "Python - advanced, Go - beginner",
   "interests": "AI, web"}

Keys: name, current_role, experience_level, programming_languages,
interests, career_goals, time_commitment, project_preferences,
technologies_to_learn, budget_constraints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		answersPath, _ := cmd.Flags().GetString("answers")
		domain, _ := cmd.Flags().GetString("domain")
		asJSON, _ := cmd.Flags().GetBool("json")

		if domain != "" && !catalog.Has(domain) {
			return fmt.Errorf("unknown domain %q (valid: %s)", domain, strings.Join(catalog.Domains(), ", "))
		}
		if answersPath == "" {
			return fmt.Errorf("--answers is required")
		}

		data, err := os.ReadFile(answersPath)
		if err != nil {
			return fmt.Errorf("reading answers: %w", err)
		}
		var answers map[string]string
		if err := json.Unmarshal(data, &answers); err != nil {
			return fmt.Errorf("parsing answers: %w", err)
		}

		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		opts := []pipeline.Option{pipeline.WithArtifacts(a.cfg.Output.Dir)}
		if domain != "" {
			opts = append(opts, pipeline.WithDomainFilter(domain))
		}
		coord := pipeline.New(nil, a.generator, a.ranker, a.presenter, storeOrNil(a.store), a.logger, opts...)

		result := coord.RunWithProfile(cmd.Context(), profile.Build(answers))
		if result.Err != nil {
			return result.Err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result.Presentation.JSON)
		}
		fmt.Println(result.Presentation.Text)
		return nil
	},
}

// --- sessions ---

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect past recommendation sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		sessions, err := store.ListSessions(limit)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		for _, s := range sessions {
			fmt.Printf("%s  %s  %s\n",
				colorize(colorCyan, s.ID),
				s.CreatedAt.Format("2006-01-02 15:04"),
				s.Status,
			)
		}
		return nil
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a session's profile and recommendations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		sess, err := store.GetSession(args[0])
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("session %s not found", args[0])
		}
		if err != nil {
			return err
		}

		recs, err := store.GetRecommendations(sess.ID)
		if err != nil {
			return err
		}

		out := map[string]any{
			"id":         sess.ID,
			"created_at": sess.CreatedAt,
			"status":     sess.Status,
		}
		if sess.Error != "" {
			out["error"] = sess.Error
		}
		if sess.ProfileJSON != "" {
			out["profile"] = json.RawMessage(sess.ProfileJSON)
		}
		projects := make([]json.RawMessage, 0, len(recs))
		for _, r := range recs {
			projects = append(projects, json.RawMessage(r.CandidateJSON))
		}
		out["recommendations"] = projects

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

var sessionsExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a session's recommendations as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		recs, err := store.GetRecommendations(args[0])
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			return fmt.Errorf("session %s has no recommendations", args[0])
		}

		ranked := make([]catalog.Candidate, 0, len(recs))
		for _, r := range recs {
			var c catalog.Candidate
			if err := json.Unmarshal([]byte(r.CandidateJSON), &c); err != nil {
				return fmt.Errorf("corrupt recommendation record: %w", err)
			}
			ranked = append(ranked, c)
		}

		p := present.New().Present(ranked, profile.Profile{})

		writer := os.Stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()
			writer = f
		}

		cw := csv.NewWriter(writer)
		if err := cw.Write(present.CSVHeader); err != nil {
			return err
		}
		if err := cw.WriteAll(p.CSVRows); err != nil {
			return err
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
		if output != "" {
			printSuccess("Exported to %s", output)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().String("domain", "", "restrict ideas to one domain (ai_ml, web_development, data_science, mobile_development)")
	recommendCmd.Flags().String("answers", "", "path to JSON answers file")
	recommendCmd.Flags().String("domain", "", "restrict ideas to one domain")
	recommendCmd.Flags().Bool("json", false, "print recommendations as JSON")
	sessionsListCmd.Flags().Int("limit", 20, "maximum number of sessions to list")
	sessionsExportCmd.Flags().String("output", "", "output file path (default: stdout)")
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsExportCmd)
}

// --- profile ---

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect stored profiles",
}

var profileShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show the latest (or a specific session's) profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		var profileJSON string
		if len(args) == 1 {
			sess, err := store.GetSession(args[0])
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("session %s not found", args[0])
			}
			if err != nil {
				return err
			}
			profileJSON = sess.ProfileJSON
		} else {
			sessions, err := store.ListSessions(20)
			if err != nil {
				return err
			}
			for _, s := range sessions {
				if s.ProfileJSON != "" {
					profileJSON = s.ProfileJSON
					break
				}
			}
		}
		if profileJSON == "" {
			return fmt.Errorf("no profile recorded yet; run a session first")
		}

		var pretty map[string]any
		if err := json.Unmarshal([]byte(profileJSON), &pretty); err != nil {
			return fmt.Errorf("corrupt profile record: %w", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(pretty)
	},
}

func init() {
	profileCmd.AddCommand(profileShowCmd)
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func openStore() (*storage.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	return store, nil
}

// storeOrNil avoids handing the pipeline a typed-nil interface value.
func storeOrNil(s *storage.Store) pipeline.Store {
	if s == nil {
		return nil
	}
	return s
}
