package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

const (
	DefaultServerAddr     = ":8080"
	DefaultEndpoint       = "http://127.0.0.1:8080/generate"
	DefaultRequestTimeout = 120 * time.Second
	DefaultDownloadPrefix = "小说推文文案"
	DefaultNoticeTTL      = 5 * time.Second
	DefaultRateInterval   = 2 * time.Second
	DefaultRateBurst      = 2
)

// Config holds server, client and model settings.
type Config struct {
	ServerAddr     string     `json:"server_addr,omitempty"`
	Endpoint       string     `json:"endpoint,omitempty"`
	RequestTimeout Duration   `json:"request_timeout,omitempty"`
	DownloadPrefix string     `json:"download_prefix,omitempty"`
	NoticeTTL      Duration   `json:"notice_ttl,omitempty"`
	RateInterval   Duration   `json:"rate_interval,omitempty"`
	RateBurst      int        `json:"rate_burst,omitempty"`
	LLM            *LLMConfig `json:"llm,omitempty"`
}

// LLMConfig 生成服务使用的模型配置。
type LLMConfig struct {
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
	APIKey   string `json:"api_key,omitempty"`
	BaseURL  string `json:"base_url,omitempty"`
}

// Duration 在 JSON 里写成 "120s" 这样的字符串。
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"120s\": %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Default returns a config that runs against the local mock model.
func Default() Config {
	return Config{
		ServerAddr:     DefaultServerAddr,
		Endpoint:       DefaultEndpoint,
		RequestTimeout: Duration(DefaultRequestTimeout),
		DownloadPrefix: DefaultDownloadPrefix,
		NoticeTTL:      Duration(DefaultNoticeTTL),
		RateInterval:   Duration(DefaultRateInterval),
		RateBurst:      DefaultRateBurst,
		LLM:            &LLMConfig{Provider: "mock"},
	}
}

// LoadConfig reads JSON config from disk on top of Default.
// An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the client and server cannot run with.
func (c Config) Validate() error {
	if c.RequestTimeout <= 0 {
		return errors.New("request_timeout must be positive")
	}
	if c.DownloadPrefix == "" {
		return errors.New("download_prefix must not be empty")
	}
	if c.RateBurst < 1 {
		return errors.New("rate_burst must be at least 1")
	}
	if c.LLM == nil || c.LLM.Provider == "" {
		return errors.New("llm config missing; please set llm.provider")
	}
	return nil
}
