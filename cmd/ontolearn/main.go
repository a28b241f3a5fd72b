// Command ontolearn runs an ontology-learning pipeline over a corpus
// and prints (or persists) the resulting knowledge representation.
//
// Basic usage:
//
//	go run ./cmd/ontolearn --corpus ./docs.txt
//
// With a lexicon knowledge source and persistence:
//
//	go run ./cmd/ontolearn \
//	  --corpus ./docs \
//	  --lexicon ./wordnet-export.json \
//	  --db ./ontology.db
//
// With LLM-based term extraction via a local Ollama:
//
//	go run ./cmd/ontolearn \
//	  --corpus ./docs.txt \
//	  --llm-provider ollama --llm-model llama3.1:8b
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mbarbier/ontolearn"
	"github.com/mbarbier/ontolearn/corpus"
	"github.com/mbarbier/ontolearn/extract"
	"github.com/mbarbier/ontolearn/ks"
	"github.com/mbarbier/ontolearn/llm"
	"github.com/mbarbier/ontolearn/loader"
	"github.com/mbarbier/ontolearn/store"
)

func main() {
	var (
		corpusPath  = flag.String("corpus", "", "corpus file or directory (txt, json, csv, pdf, xlsx)")
		configPath  = flag.String("config", "", "optional YAML pipeline config")
		lexiconPath = flag.String("lexicon", "", "optional JSON lexicon for matching and enrichment")
		dbPath      = flag.String("db", "", "optional SQLite path to persist the result")
		llmProvider = flag.String("llm-provider", "", "optional llm provider (ollama, openai, custom)")
		llmModel    = flag.String("llm-model", "", "llm model name")
		llmBaseURL  = flag.String("llm-base-url", "", "llm base URL override")
		maxDocs     = flag.Int("max-docs", 0, "cap on corpus documents (0 = all)")
		verbose     = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *corpusPath == "" {
		fmt.Fprintln(os.Stderr, "usage: ontolearn --corpus <path> [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(context.Background(), *corpusPath, *configPath, *lexiconPath, *dbPath,
		*llmProvider, *llmModel, *llmBaseURL, *maxDocs); err != nil {
		slog.Error("pipeline failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, corpusPath, configPath, lexiconPath, dbPath,
	llmProvider, llmModel, llmBaseURL string, maxDocs int) error {

	cfg := ontolearn.DefaultConfig()
	if configPath != "" {
		loaded, err := ontolearn.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if maxDocs > 0 {
		cfg.MaxDocs = maxDocs
	}
	// Missing optional resources skip their component instead of
	// aborting a CLI run.
	cfg.SkipUnavailable = true

	l, err := loader.NewRegistry().For(corpusPath)
	if err != nil {
		return err
	}

	components := []ontolearn.Component{
		extract.NewPOSTermExtraction(),
		extract.NewCValueTermExtraction(),
	}

	if llmProvider != "" {
		provider, err := llm.NewProvider(llm.Config{
			Provider: llmProvider,
			Model:    llmModel,
			BaseURL:  llmBaseURL,
			APIKey:   os.Getenv("ONTOLEARN_LLM_API_KEY"),
		})
		if err != nil {
			return err
		}
		components = append(components, extract.NewLLMTermExtraction(provider))
	}

	components = append(components, extract.NewTermsToConcepts())

	if lexiconPath != "" {
		lexicon, err := ks.LoadLexicon("lexicon", lexiconPath)
		if err != nil {
			return err
		}
		components = append(components,
			extract.NewKnowledgeConceptExtraction(lexicon),
			extract.NewKnowledgeEnrichment(lexicon),
		)
	}

	axioms := extract.NewAxiomExtraction()
	components = append(components,
		extract.NewCooccurrenceRelationExtraction(),
		extract.NewSubsumptionMetarelationExtraction(),
		axioms,
	)

	pipeline, err := ontolearn.New(cfg,
		ontolearn.WithCorpusLoader(l),
		ontolearn.WithPreprocessors(
			&corpus.LemmaNormalizer{},
			&corpus.StopwordMarker{},
		),
		ontolearn.WithComponents(components...),
	)
	if err != nil {
		return err
	}

	if err := pipeline.Build(ctx); err != nil {
		return err
	}
	if err := pipeline.Run(ctx); err != nil {
		return err
	}

	printGraph(pipeline)

	if dbPath != "" {
		st, err := store.New(dbPath)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.SaveKR(ctx, pipeline.KR()); err != nil {
			return err
		}
		if err := st.SaveAxioms(ctx, axioms.Axioms()); err != nil {
			return err
		}
		slog.Info("graph persisted", "path", dbPath)
	}
	return nil
}

func printGraph(p *ontolearn.Pipeline) {
	graph := p.KR()
	fmt.Printf("concepts: %d\n", len(graph.Concepts()))
	for _, c := range graph.Concepts() {
		if c.ExternalUID() != "" {
			fmt.Printf("  %s  [%s]\n", c.Label(), c.ExternalUID())
			continue
		}
		fmt.Printf("  %s\n", c.Label())
	}

	fmt.Printf("relations: %d\n", len(graph.Relations()))
	for _, r := range graph.Relations() {
		fmt.Printf("  %s --%s--> %s\n", r.Source.Label(), r.Label(), r.Destination.Label())
	}

	fmt.Printf("metarelations: %d\n", len(graph.MetaRelations()))
	for _, m := range graph.MetaRelations() {
		fmt.Printf("  %s --%s--> %s\n", m.Source.Label(), m.Label(), m.Destination.Label())
	}

	for name, report := range p.Reports() {
		fmt.Printf("report %s:\n", name)
		for metric, value := range report {
			fmt.Printf("  %s = %g\n", metric, value)
		}
	}
}
