package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"fabriq/internal/answer"
	"fabriq/internal/chart"
	"fabriq/internal/config"
	"fabriq/internal/gateway"
	"fabriq/internal/history"
	"fabriq/internal/sandbox"
	"fabriq/internal/store"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	answerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	noteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// session wires one loaded dataset to the deterministic router, the
// completion gateway and the code sandbox. One query is fully resolved
// before the next is read.
type session struct {
	cfg     config.Config
	records *store.Collection
	client  *gateway.Client
	runner  *sandbox.Runner
	hist    *history.Store
	id      string
	log     *zap.Logger
}

func newSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	// The session streams completions, so the credential is required here.
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	records, err := store.Load(cfg.DataPath)
	if err != nil {
		return nil, err
	}
	logger.Info("dataset loaded",
		zap.String("path", cfg.DataPath),
		zap.Int("records", records.Len()))

	gwCfg := gateway.DefaultConfig(cfg.APIKey)
	gwCfg.BaseURL = cfg.BaseURL
	gwCfg.Model = cfg.Model
	gwCfg.Temperature = cfg.Temperature
	gwCfg.Timeout = timeout

	s := &session{
		cfg:     cfg,
		records: records,
		client:  gateway.NewClient(gwCfg, logger),
		runner:  sandbox.NewRunner(cfg.SandboxTimeout, logger),
		id:      uuid.New().String(),
		log:     logger,
	}

	if cfg.HistoryPath != "" {
		hist, err := history.Open(cfg.HistoryPath)
		if err != nil {
			logger.Warn("history disabled", zap.Error(err))
		} else {
			s.hist = hist
		}
	}
	return s, nil
}

func (s *session) close() {
	if s.hist != nil {
		_ = s.hist.Close()
	}
}

// interactive reads one query per line until EOF or an exit command.
func (s *session) interactive(ctx context.Context) error {
	fmt.Println(promptStyle.Render("fabriq - fabric sales smart assistant"))
	fmt.Println(noteStyle.Render(fmt.Sprintf("%d records loaded. Ask about your sales data, or type exit.", s.records.Len())))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(promptStyle.Render("you> "))
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if query == "exit" || query == "quit" {
			return nil
		}
		if err := s.resolve(ctx, query); err != nil {
			fmt.Println(errorStyle.Render("Error: " + err.Error()))
		}
	}
}

// resolve answers one query: deterministic rules first, then the streamed
// fallback plus the sandbox.
func (s *session) resolve(ctx context.Context, query string) error {
	if ans, ok := answer.Route(s.records, query); ok {
		fmt.Println(answerStyle.Render(ans))
		s.record(query, ans, "rules")
		return nil
	}

	prompt := gateway.BuildPrompt(query, s.records.Sample(gateway.MaxSampleBytes), time.Now())
	full, err := s.client.Stream(ctx, prompt, func(chunk string) {
		fmt.Print(chunk)
	})
	fmt.Println()
	if err != nil {
		return err
	}

	if res, ok := s.runner.ExtractAndRun(ctx, full, s.records.Records()); ok {
		s.showRunResult(res)
	}

	s.record(query, full, "llm")
	return nil
}

func (s *session) showRunResult(res sandbox.Result) {
	if res.Err != nil {
		// The text answer above stays valid; only the rendering failed.
		fmt.Println(errorStyle.Render(fmt.Sprintf("[Render error: %v]", res.Err)))
		return
	}
	if out := strings.TrimSpace(res.Output); out != "" {
		fmt.Println(answerStyle.Render(out))
	}
	if res.Chart != nil {
		path := fmt.Sprintf("chart-%s.png", uuid.New().String()[:8])
		if err := chart.RenderPNG(res.Chart, path, 800, 480); err != nil {
			fmt.Println(errorStyle.Render(fmt.Sprintf("[Render error: %v]", err)))
			return
		}
		fmt.Println(noteStyle.Render("Chart saved to " + path))
	}
}

func (s *session) record(question, ans, source string) {
	if s.hist == nil {
		return
	}
	err := s.hist.Append(history.Exchange{
		SessionID: s.id,
		AskedAt:   time.Now(),
		Question:  question,
		Answer:    ans,
		Source:    source,
	})
	if err != nil {
		s.log.Warn("failed to record exchange", zap.Error(err))
	}
}
