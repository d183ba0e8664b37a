package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"

	"github.com/parlagraph/parlagraph/internal/fetch"
	"github.com/parlagraph/parlagraph/internal/pipeline"
	"github.com/parlagraph/parlagraph/internal/util"
	"github.com/parlagraph/parlagraph/pkg/graph"
	"github.com/parlagraph/parlagraph/pkg/logger"
	"github.com/parlagraph/parlagraph/pkg/logger/console"
	"github.com/parlagraph/parlagraph/pkg/ner"
	"github.com/parlagraph/parlagraph/pkg/ner/httpapi"
	"github.com/parlagraph/parlagraph/pkg/store"
	"github.com/parlagraph/parlagraph/pkg/store/gexffile"
	pgxstore "github.com/parlagraph/parlagraph/pkg/store/pgx"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "parlagraph",
		Short: "Parliamentary transcript mention graphs",
		Long: `Parlagraph turns raw parliamentary session transcripts into
directed mention graphs.

It downloads session transcripts, tags person mentions, attributes
speeches to speakers, and folds who-mentions-whom into a weighted
graph exported as GEXF.`,
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			util.LoadEnv()
			debug, _ := cmd.Flags().GetBool("debug")
			logger.Init(console.NewConsoleBackend(console.ConsoleBackendParams{
				Debug: debug || util.GetEnvBool("DEBUG", false),
			}))
		},
	}
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(fetchCmd())
	rootCmd.AddCommand(annotateCmd())
	rootCmd.AddCommand(graphCmd())
	rootCmd.AddCommand(statsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func fetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download session transcripts",
		Long: `Download transcripts for the session codes listed in --codes.

Senate code files carry one numeric code per line; Chamber files
alternate a session type line and a code line. Each transcript is
written to <output>/<source>/<year>/<code>.txt.

Example:
  parlagraph fetch --source senado --year 2023 --codes sessoes.txt --output corpus/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _ := cmd.Flags().GetString("source")
			codesPath, _ := cmd.Flags().GetString("codes")
			output, _ := cmd.Flags().GetString("output")
			year, _ := cmd.Flags().GetInt("year")

			src := fetch.Source(source)
			if src != fetch.SourceChamber && src != fetch.SourceSenate {
				return fmt.Errorf("unknown source %q, want %s or %s", source, fetch.SourceChamber, fetch.SourceSenate)
			}
			if codesPath == "" {
				return fmt.Errorf("--codes flag is required")
			}

			content, err := os.ReadFile(codesPath)
			if err != nil {
				return fmt.Errorf("failed to read codes file: %w", err)
			}
			sessions, err := fetch.ParseCodes(string(content))
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				return fmt.Errorf("no session codes in %s", codesPath)
			}
			dir := filepath.Join(output, source, strconv.Itoa(year))
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			fetcher := fetch.NewFetcher(fetch.NewFetcherParams{
				RequestsPerSecond: util.GetEnvNumeric("FETCH_RPS", 1),
			})
			ctx := cmd.Context()

			fetched := 0
			for _, session := range sessions {
				text, err := fetcher.Session(ctx, src, session.Code)
				if err != nil {
					logger.Error("Failed to fetch session", "code", session.Code, "err", err)
					continue
				}
				if session.Type != "" {
					text = session.Type + "\n" + text
				}
				path := filepath.Join(dir, strconv.Itoa(session.Code)+".txt")
				if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", path, err)
				}
				fetched++
			}

			logger.Info("Fetch finished", "fetched", fetched, "failed", len(sessions)-fetched)
			return nil
		},
	}
	cmd.Flags().String("source", string(fetch.SourceSenate), "transcript source (camara or senado)")
	cmd.Flags().Int("year", time.Now().Year(), "legislative year, used for the output layout")
	cmd.Flags().String("codes", "", "file listing session codes")
	cmd.Flags().String("output", "corpus", "directory for downloaded transcripts")
	return cmd
}

func annotateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "annotate",
		Short: "Tag person mentions in a transcript corpus",
		Long: `Extract person mentions from every transcript in --input and write
a grouped-entity JSON plus a tagged text per document into --output.

Rule patterns always run; with --model-url an external token
classification endpoint contributes additional mentions.

Example:
  parlagraph annotate --input corpus/ --output annotated/
  parlagraph annotate --input corpus/ --output annotated/ --model-url https://api.example.com/ner`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			output, _ := cmd.Flags().GetString("output")
			modelURL, _ := cmd.Flags().GetString("model-url")
			window, _ := cmd.Flags().GetInt("window")
			overlap, _ := cmd.Flags().GetInt("overlap")
			parallelism, _ := cmd.Flags().GetInt("parallelism")

			if _, err := os.Stat(input); os.IsNotExist(err) {
				return fmt.Errorf("input directory not found: %s", input)
			}

			if modelURL == "" {
				modelURL = util.GetEnv("NER_URL")
			}
			if !cmd.Flags().Changed("parallelism") {
				parallelism = int(util.GetEnvNumeric("PARALLEL_FILES", parallelism))
			}

			var classifier ner.TokenClassifier
			if modelURL != "" {
				client := httpapi.NewClient(httpapi.NewClientParams{
					BaseURL: modelURL,
					APIKey:  util.GetEnv("NER_API_KEY"),
				})
				classifier = ner.NewWindowed(client, window, overlap)
			}

			result, err := pipeline.AnnotateCorpus(cmd.Context(), pipeline.AnnotateParams{
				InputDir:    input,
				OutputDir:   output,
				Classifier:  classifier,
				Parallelism: parallelism,
			})
			if err != nil {
				return err
			}
			if result.Processed == 0 && result.Skipped > 0 {
				return fmt.Errorf("all %d documents failed", result.Skipped)
			}
			return nil
		},
	}
	cmd.Flags().String("input", "corpus", "directory of raw transcripts")
	cmd.Flags().String("output", "annotated", "directory for annotated output")
	cmd.Flags().String("model-url", "", "token classification endpoint (rules only when empty)")
	cmd.Flags().Int("window", 1000, "classifier window size in characters")
	cmd.Flags().Int("overlap", 200, "classifier window overlap in characters")
	cmd.Flags().Int("parallelism", 4, "concurrent documents")
	return cmd
}

func graphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Build a mention graph from annotated transcripts",
		Long: `Fold every annotated transcript in --input into one directed
mention graph and write it as GEXF.

With --store the graph is saved into the graph directory under a
generated ID instead of a single file; with --postgres it is saved to
the database at DATABASE_URL.

Example:
  parlagraph graph --input annotated/ --output senado2023.gexf
  parlagraph graph --input annotated/ --store graphs/ --name "senado 2023"
  parlagraph graph --input annotated/ --postgres --name "senado 2023"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			output, _ := cmd.Flags().GetString("output")
			storeDir, _ := cmd.Flags().GetString("store")
			usePostgres, _ := cmd.Flags().GetBool("postgres")
			name, _ := cmd.Flags().GetString("name")

			g, err := pipeline.BuildCorpusGraph(cmd.Context(), input)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var graphStore store.GraphStore
			switch {
			case usePostgres:
				dbURL := util.GetEnv("DATABASE_URL")
				if dbURL == "" {
					return fmt.Errorf("--postgres requires DATABASE_URL")
				}
				conn, err := pgx.Connect(ctx, dbURL)
				if err != nil {
					return fmt.Errorf("failed to connect to database: %w", err)
				}
				defer conn.Close(ctx)
				graphStore, err = pgxstore.NewGraphDBStoreWithConnection(ctx, conn)
				if err != nil {
					return err
				}
			case storeDir != "":
				fileStore, err := gexffile.New(storeDir)
				if err != nil {
					return err
				}
				graphStore = fileStore
			}

			if graphStore != nil {
				record, err := graphStore.Save(ctx, name, g)
				if err != nil {
					return err
				}
				fmt.Printf("Saved graph %s (%d nodes, %d edges)\n", record.ID, g.NodeCount(), g.EdgeCount())
				return nil
			}

			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer file.Close()
			if err := graph.EncodeGEXF(file, g); err != nil {
				return err
			}
			fmt.Printf("Wrote %s (%d nodes, %d edges)\n", output, g.NodeCount(), g.EdgeCount())
			return nil
		},
	}
	cmd.Flags().String("input", "annotated", "directory of annotated transcripts")
	cmd.Flags().String("output", "graph.gexf", "GEXF output path")
	cmd.Flags().String("store", "", "graph store directory (overrides --output)")
	cmd.Flags().Bool("postgres", false, "save to the database at DATABASE_URL")
	cmd.Flags().String("name", "mention graph", "graph name when saving to a store")
	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [graph.gexf]",
		Short: "Report metrics for a GEXF mention graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open graph: %w", err)
			}
			defer file.Close()

			g, err := graph.DecodeGEXF(file)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(graph.ComputeStats(g), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
}
