package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"novel_tweet_copywriter/client"
	"novel_tweet_copywriter/config"
	"novel_tweet_copywriter/export"
	"novel_tweet_copywriter/form"
	"novel_tweet_copywriter/generator"
	"novel_tweet_copywriter/server"
	"novel_tweet_copywriter/ui"
)

var verbose bool

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	configPath := flag.String("config", "", "path to config.json (defaults to the built-in mock setup)")
	serve := flag.Bool("serve", false, "start the /generate backend and the web page")
	addr := flag.String("addr", "", "http listen address when --serve (overrides config.server_addr)")
	style := flag.String("style", "", "copy style tag: "+styleTags())
	count := flag.Int("count", generator.MinCount, fmt.Sprintf("number of writing tools (%d-%d)", generator.MinCount, generator.MaxCount))
	endpoint := flag.String("endpoint", "", "generation endpoint URL (overrides config.endpoint)")
	copyAll := flag.Bool("copy", false, "copy the result to the clipboard")
	downloadDir := flag.String("download", "", "write the download artifact into this directory")
	htmlPath := flag.String("html", "", "write the rendered HTML fragments to this file")
	flag.BoolVar(&verbose, "v", false, "enable info logs")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Web server mode
	if *serve {
		if err := runServer(cfg, *addr); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if *style == "" {
		fmt.Fprintln(os.Stderr, "--style is required (or use --serve)")
		flag.Usage()
		os.Exit(2)
	}
	if *endpoint != "" {
		cfg.Endpoint = *endpoint
	}
	opts := oneShotOptions{
		Style:       *style,
		Count:       *count,
		Copy:        *copyAll,
		DownloadDir: *downloadDir,
		HTMLPath:    *htmlPath,
	}
	if err := runOnce(cfg, opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func styleTags() string {
	var tags []string
	for _, s := range generator.Styles() {
		tags = append(tags, s.Tag)
	}
	return strings.Join(tags, "|")
}

func runServer(cfg config.Config, addrOverride string) error {
	llm, err := buildLLM(cfg)
	if err != nil {
		return err
	}
	agent, err := generator.NewAgent(llm)
	if err != nil {
		return err
	}

	listen := cfg.ServerAddr
	if addrOverride != "" {
		listen = addrOverride
	}
	if listen == "" {
		listen = config.DefaultServerAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The page talks to this same process unless an external endpoint is configured.
	endpoint := cfg.Endpoint
	if endpoint == "" || endpoint == config.DefaultEndpoint {
		endpoint = selfEndpoint(listen)
	}
	gen, err := client.New(endpoint,
		client.WithTimeout(time.Duration(cfg.RequestTimeout)),
		client.WithLogger(log.Default(), verbose),
	)
	if err != nil {
		return err
	}

	hub := server.NewHub(time.Duration(cfg.NoticeTTL))
	ctrl, err := ui.New(ui.Config{
		Generator:      gen,
		View:           hub,
		Clipboard:      hub,
		DownloadPrefix: cfg.DownloadPrefix,
		NoticeTTL:      time.Duration(cfg.NoticeTTL),
		Logger:         log.Default(),
		Verbose:        verbose,
	})
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Agent:        agent,
		Controller:   ctrl,
		Hub:          hub,
		RateInterval: time.Duration(cfg.RateInterval),
		RateBurst:    cfg.RateBurst,
		BaseContext:  ctx,
		Logger:       log.Default(),
		Verbose:      verbose,
	})
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              listen,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Printf("Starting web server on %s (generation endpoint %s, llm %s)", listen, endpoint, cfg.LLM.Provider)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func selfEndpoint(listen string) string {
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return config.DefaultEndpoint
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port) + "/generate"
}

type oneShotOptions struct {
	Style       string
	Count       int
	Copy        bool
	DownloadDir string
	HTMLPath    string
}

func runOnce(cfg config.Config, opts oneShotOptions) error {
	gen, err := client.New(cfg.Endpoint,
		client.WithTimeout(time.Duration(cfg.RequestTimeout)),
		client.WithLogger(log.Default(), verbose),
	)
	if err != nil {
		return err
	}

	view := ui.NewTerminalView(os.Stderr)
	ctrl, err := ui.New(ui.Config{
		Generator: gen,
		View:      view,
		Clipboard: export.FallbackClipboard{
			Primary:  export.SystemClipboard{},
			Fallback: export.TerminalClipboard{W: os.Stderr},
		},
		DownloadPrefix: cfg.DownloadPrefix,
		NoticeTTL:      time.Duration(cfg.NoticeTTL),
		Logger:         log.Default(),
		Verbose:        verbose,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	values := url.Values{}
	values.Set(form.FieldStyle, opts.Style)
	values.Set(form.FieldCount, strconv.Itoa(opts.Count))
	log.Printf("[cli] generating style=%s count=%d endpoint=%s", opts.Style, opts.Count, cfg.Endpoint)
	if err := ctrl.Submit(ctx, values); err != nil {
		return err
	}

	res, n, _ := ctrl.Slot().Current()
	fmt.Println(export.CopyAllText(res))

	if opts.Copy {
		if err := ctrl.CopyAll(); err != nil {
			return err
		}
	}
	if opts.DownloadDir != "" {
		art, err := ctrl.Download()
		if err != nil {
			return err
		}
		path := filepath.Join(opts.DownloadDir, art.Name)
		if err := os.WriteFile(path, art.Content, 0o644); err != nil {
			return fmt.Errorf("write download: %w", err)
		}
		log.Printf("[cli] saved %s (generation #%d)", path, n)
	}
	if opts.HTMLPath != "" {
		f, ok, err := ctrl.CurrentFragments()
		if err != nil {
			return err
		}
		if ok {
			if err := os.WriteFile(opts.HTMLPath, []byte(f.HTML()), 0o644); err != nil {
				return fmt.Errorf("write html: %w", err)
			}
		}
	}
	return nil
}

func buildLLM(cfg config.Config) (generator.LLMClient, error) {
	if cfg.LLM == nil || cfg.LLM.Provider == "" {
		return nil, fmt.Errorf("llm config missing; please set llm.provider/model/api_key in config")
	}
	settings := &generator.LLMSettings{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
	}
	switch cfg.LLM.Provider {
	case "mock":
		return generator.MockLLM{}, nil
	case "openai":
		return generator.NewOpenAILLMFromConfig(settings)
	case "deepseek":
		// DeepSeek 提供 OpenAI 兼容接口，需填写 base_url（例如官方/网关地址）。
		if cfg.LLM.BaseURL == "" {
			return nil, fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		return generator.NewOpenAILLMFromConfig(settings)
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
}
