package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vaani-ai/vaani/config"
	"github.com/vaani-ai/vaani/embeddings"
	"github.com/vaani-ai/vaani/faq"
	"github.com/vaani-ai/vaani/internal/httpclient"
	"github.com/vaani-ai/vaani/language"
	"github.com/vaani-ai/vaani/lead"
	"github.com/vaani-ai/vaani/llm"
	"github.com/vaani-ai/vaani/llm/groq"
	"github.com/vaani-ai/vaani/llm/ollama"
	"github.com/vaani-ai/vaani/llm/openaicompat"
	"github.com/vaani-ai/vaani/llm/openrouter"
	"github.com/vaani-ai/vaani/orchestrator"
	sttpkg "github.com/vaani-ai/vaani/stt"
	sttsarvam "github.com/vaani-ai/vaani/stt/sarvam"
	"github.com/vaani-ai/vaani/stt/whisper"
	"github.com/vaani-ai/vaani/tts"
	"github.com/vaani-ai/vaani/tts/coqui"
	ttssarvam "github.com/vaani-ai/vaani/tts/sarvam"
)

func newChatCmd() *cobra.Command {
	var (
		configPath   string
		campaignName string
		campaignDesc string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive text conversation on stdin",
		Long: `Runs the full conversation pipeline against typed input.
Type a message per line; /end hangs up and prints the lead summary.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			log := newLogger(cfg.Logging)

			orch := buildOrchestrator(cfg, log, campaignName, campaignDesc)
			defer orch.Close()

			return runREPL(cmd.Context(), orch)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "vaani.yaml", "config file path")
	cmd.Flags().StringVar(&campaignName, "campaign", "Vaani Demo", "campaign name")
	cmd.Flags().StringVar(&campaignDesc, "description", "AI calling assistant demo", "campaign description")
	return cmd
}

func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var log zerolog.Logger
	if cfg.Pretty {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		log = zerolog.New(os.Stderr)
	}
	return log.Level(level).With().Timestamp().Logger()
}

// staticCampaigns serves one in-memory campaign for the CLI.
type staticCampaigns struct {
	campaign orchestrator.Campaign
}

func (s *staticCampaigns) Campaign(ctx context.Context, id string) (*orchestrator.Campaign, error) {
	c := s.campaign
	c.ID = id
	return &c, nil
}

func buildOrchestrator(cfg config.Config, log zerolog.Logger, campaignName, campaignDesc string) *orchestrator.Orchestrator {
	httpc := httpclient.New()

	detector := language.NewDetector(nil, language.WithLogger(log.With().Str("component", "language").Logger()))

	general := whisper.New(
		whisper.WithAPIKey(cfg.Providers.Groq.APIKey),
		whisper.WithHTTPClient(httpc),
	)
	native := sttsarvam.New(
		sttsarvam.WithAPIKey(cfg.Providers.Sarvam.APIKey),
		sttsarvam.WithHTTPClient(httpc),
	)
	arbiter := sttpkg.NewArbiter(general, native,
		sttpkg.WithLogger(log.With().Str("component", "stt").Logger()),
	)

	embedder := embeddings.New(
		embeddings.WithAPIKey(cfg.Providers.Embeddings.APIKey),
		embeddings.WithHTTPClient(httpc),
	)
	index := faq.NewIndex(embedder, faq.WithLogger(log.With().Str("component", "faq").Logger()))

	var providers []llm.Provider
	if cfg.Providers.Groq.APIKey != "" {
		providers = append(providers, groq.New(cfg.Providers.Groq.APIKey, openaicompat.WithHTTPClient(httpc)))
	}
	if cfg.Providers.OpenRouter.APIKey != "" {
		providers = append(providers, openrouter.New(cfg.Providers.OpenRouter.APIKey,
			"https://github.com/vaani-ai/vaani", "Vaani",
			openaicompat.WithHTTPClient(httpc)))
	}
	ollamaOpts := []ollama.Option{ollama.WithHTTPClient(httpc)}
	if cfg.Providers.Ollama.BaseURL != "" {
		ollamaOpts = append(ollamaOpts, ollama.WithHost(cfg.Providers.Ollama.BaseURL))
	}
	providers = append(providers, ollama.New(ollamaOpts...))

	chain := llm.NewChain(providers, llm.WithChainLogger(log.With().Str("component", "llm").Logger()))
	generator := llm.NewGenerator(chain,
		llm.WithHistoryWindow(cfg.Session.HistoryWindow),
		llm.WithGeneratorLogger(log.With().Str("component", "generator").Logger()),
	)

	voice := ttssarvam.New(
		ttssarvam.WithAPIKey(cfg.Providers.Sarvam.APIKey),
		ttssarvam.WithHTTPClient(httpc),
	)
	local := coqui.New(coqui.WithHTTPClient(httpc))
	speaker := tts.NewRouter(voice,
		tts.WithFallback(language.English, local),
		tts.WithLogger(log.With().Str("component", "tts").Logger()),
	)

	return orchestrator.New(detector, arbiter, index, generator, lead.NewQualifier(), speaker,
		orchestrator.WithCampaignProvider(&staticCampaigns{campaign: orchestrator.Campaign{
			Name:        campaignName,
			Description: campaignDesc,
		}}),
		orchestrator.WithIdleTTL(cfg.Session.IdleTTL()),
		orchestrator.WithRetrieval(cfg.Retrieval.TopK, cfg.Retrieval.Threshold),
		orchestrator.WithLogger(log.With().Str("component", "orchestrator").Logger()),
	)
}

func runREPL(ctx context.Context, orch *orchestrator.Orchestrator) error {
	callID := uuid.NewString()
	fmt.Println("Call started. Type a message per line; /end hangs up.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/end" {
			break
		}
		reply := orch.ProcessText(ctx, callID, line)
		fmt.Println(reply)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	summary := orch.End(ctx, callID)
	if summary == nil {
		return nil
	}
	fmt.Printf("\nCall %s ended after %s\n", summary.CallID, summary.Duration.Round(time.Second))
	fmt.Printf("Language: %s\n", summary.Language)
	fmt.Printf("Lead: %s (score %.2f): %s\n",
		summary.Qualification.Tier, summary.Qualification.Score, summary.Qualification.Reason)
	return nil
}
