// Package api implements the ChargerControl REST client: typed operations per
// resource kind, resolved over an ordered list of candidate base addresses.
//
// Deployments may run several backend replicas behind different addresses;
// the client probes them in configured order and remembers, per resource
// kind, which one answered. Example:
//
//	sess := session.New()
//	client := api.New(api.Config{Bases: []string{"http://localhost:8080"}}, sess, logger)
//	stations, err := client.Stations(ctx)
package api

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

// Config for the API client. Bases is the ordered candidate list; a
// single-element list disables probing entirely.
type Config struct {
	Bases       []string
	PaymentBase string
	HTTPTimeout time.Duration
}

const (
	basesEnv       = "CHARGERCONTROL_API_BASES"
	paymentBaseEnv = "CHARGERCONTROL_PAYMENT_BASE"

	defaultBase    = "http://localhost:8080"
	defaultTimeout = 15 * time.Second
)

// LoadConfig builds a Config from the environment.
// CHARGERCONTROL_API_BASES is a comma-separated ordered list.
func LoadConfig() Config {
	cfg := Config{}
	if v := os.Getenv(basesEnv); v != "" {
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.Bases = append(cfg.Bases, b)
			}
		}
	}
	if len(cfg.Bases) == 0 {
		cfg.Bases = []string{defaultBase}
	}
	cfg.PaymentBase = os.Getenv(paymentBaseEnv)
	if cfg.PaymentBase == "" {
		cfg.PaymentBase = cfg.Bases[0]
	}
	return cfg
}

type tokenSource interface {
	Token() (string, error)
}

// Client is safe for concurrent use.
type Client struct {
	httpClient  *http.Client
	resolver    *resolver
	sess        tokenSource
	paymentBase string
	logger      *log.Logger
}

func New(cfg Config, sess tokenSource, logger *log.Logger) *Client {
	if len(cfg.Bases) == 0 {
		cfg.Bases = []string{defaultBase}
	}
	if cfg.PaymentBase == "" {
		cfg.PaymentBase = cfg.Bases[0]
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = defaultTimeout
	}
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.HTTPTimeout},
		resolver:    newResolver(cfg.Bases),
		sess:        sess,
		paymentBase: cfg.PaymentBase,
		logger:      logger,
	}
}
