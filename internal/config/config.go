package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/gym-occupancy-etl/internal/domain"
)

// DefaultPortalURL is the public Rock Gym Pro occupancy iframe for the
// reference deployment.
const DefaultPortalURL = "https://portal.rockgympro.com/portal/public/74083a89f418928244e5479ea18be366/occupancy"

// Config holds all service settings, populated from environment variables.
type Config struct {
	PortalURL     string
	PortalAnchor  string
	FetchTimeout  time.Duration
	PollInterval  time.Duration
	FacilityNames map[string]string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Kafka snapshot publishing (feature-flagged).
	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parsePositiveDuration("FETCH_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	pollInterval, err := parsePositiveDuration("POLL_INTERVAL", "60s")
	if err != nil {
		return nil, err
	}

	facilityNames, err := parseFacilityTable(os.Getenv("FACILITY_TABLE"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		PortalURL:     sharedcfg.EnvOrDefault("PORTAL_URL", DefaultPortalURL),
		PortalAnchor:  sharedcfg.EnvOrDefault("PORTAL_ANCHOR", domain.DefaultAnchor),
		FetchTimeout:  fetchTimeout,
		PollInterval:  pollInterval,
		FacilityNames: facilityNames,

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaEnabled:   os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:   sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "gym-occupancy-snapshots"),
	}

	if cfg.PortalURL == "" {
		return nil, errors.New("PORTAL_URL is required")
	}
	if cfg.PortalAnchor == "" {
		return nil, errors.New("PORTAL_ANCHOR must not be empty")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_SINK_TOPIC is empty")
	}

	return cfg, nil
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

// parseFacilityTable parses a "CODE:Name,CODE:Name" list into a code→name
// mapping. An empty value yields the built-in table.
func parseFacilityTable(s string) (map[string]string, error) {
	if strings.TrimSpace(s) == "" {
		return domain.DefaultFacilityNames, nil
	}

	table := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		code, name, ok := strings.Cut(pair, ":")
		code = strings.TrimSpace(code)
		name = strings.TrimSpace(name)
		if !ok || code == "" || name == "" {
			return nil, fmt.Errorf("invalid FACILITY_TABLE entry %q, want CODE:Name", pair)
		}
		table[code] = name
	}
	if len(table) == 0 {
		return nil, errors.New("FACILITY_TABLE contains no entries")
	}
	return table, nil
}
