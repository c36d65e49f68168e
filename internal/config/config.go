package config

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lcalzada-xor/wscan/internal/core/domain"
)

// Driver transports selectable with -driver.
const (
	DriverNL80211 = "nl80211"
	DriverSim     = "sim"
	DriverReplay  = "replay"
)

// Config holds all application configuration.
type Config struct {
	Interface string
	Driver    string
	PcapPath  string // capture replayed by the replay driver
	FixedMAC  net.HardwareAddr

	Addr           string
	GRPCAddr       string
	DBPath         string
	TokenHash      string
	AllowedOrigins []string
	ScanRateLimit  int

	Debug bool
	Once  bool

	// Scan request used by -once and the periodic loop
	Channels     string
	Bands        string
	SSIDs        []string
	MaxBSS       int
	Passive      bool
	DwellActive  int // in milliseconds
	DwellPassive int // in milliseconds

	// Controller limits
	DefaultMaxBSS     int
	ChannelMax        int
	SSIDMax           int
	TwoFourOnly       bool
	SkipLocalAdminMAC bool

	ScanInterval time.Duration
	ScanTimeout  time.Duration
	PollInterval time.Duration
}

// Load parses command line flags and environment variables to populate Config.
// Flags take precedence over environment variables.
func Load() (*Config, error) {
	return LoadArgs(flag.CommandLine, os.Args[1:])
}

// LoadArgs is Load over an explicit flag set and argument list.
func LoadArgs(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	// Defaults and Environment Variables
	cfg.Interface = getEnv("WSCAN_INTERFACE", "wlan0")
	cfg.Driver = getEnv("WSCAN_DRIVER", DriverNL80211)
	cfg.PcapPath = getEnv("WSCAN_PCAP", "")
	macStr := getEnv("WSCAN_MAC", "")
	cfg.Addr = getEnv("WSCAN_ADDR", ":8080")
	cfg.GRPCAddr = getEnv("WSCAN_GRPC", ":9000")
	cfg.DBPath = getEnv("WSCAN_DB", "")
	cfg.TokenHash = getEnv("WSCAN_TOKEN_HASH", "")
	originStr := getEnv("WSCAN_ORIGINS", "http://localhost:8080,http://127.0.0.1:8080,http://[::1]:8080")
	cfg.ScanRateLimit = getEnvInt("WSCAN_SCAN_RATE", 10)
	cfg.Debug = getEnvBool("WSCAN_DEBUG", false)
	mock := getEnvBool("WSCAN_MOCK", false)

	cfg.Channels = getEnv("WSCAN_CHANNELS", "")
	cfg.Bands = getEnv("WSCAN_BANDS", "")
	ssidStr := getEnv("WSCAN_SSIDS", "")
	cfg.MaxBSS = getEnvInt("WSCAN_MAX_BSS", 0)
	cfg.Passive = getEnvBool("WSCAN_PASSIVE", false)
	cfg.DwellActive = getEnvInt("WSCAN_DWELL_ACTIVE", 0)
	cfg.DwellPassive = getEnvInt("WSCAN_DWELL_PASSIVE", 0)

	cfg.DefaultMaxBSS = getEnvInt("WSCAN_DEFAULT_MAX_BSS", 0)
	cfg.ChannelMax = getEnvInt("WSCAN_CHANNEL_MAX", 16)
	cfg.SSIDMax = getEnvInt("WSCAN_SSID_MAX", 2)
	cfg.TwoFourOnly = getEnvBool("WSCAN_24GHZ_ONLY", false)
	cfg.SkipLocalAdminMAC = getEnvBool("WSCAN_SKIP_LOCAL_ADMIN", false)

	cfg.ScanInterval = getEnvDuration("WSCAN_SCAN_INTERVAL", time.Minute)
	cfg.ScanTimeout = getEnvDuration("WSCAN_SCAN_TIMEOUT", 30*time.Second)
	cfg.PollInterval = getEnvDuration("WSCAN_POLL_INTERVAL", 500*time.Millisecond)

	// Command Line Flags (Override Env)
	fs.StringVar(&cfg.Interface, "i", cfg.Interface, "Station interface name")
	fs.StringVar(&cfg.Driver, "driver", cfg.Driver, "Driver transport: nl80211, sim or replay")
	fs.BoolVar(&mock, "mock", mock, "Run in mock mode (simulated driver)")
	fs.StringVar(&cfg.PcapPath, "pcap", cfg.PcapPath, "Capture file for the replay driver")
	fs.StringVar(&macStr, "mac", macStr, "Fixed station MAC address")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP server address")
	fs.StringVar(&cfg.GRPCAddr, "grpc", cfg.GRPCAddr, "gRPC health server address (empty to disable)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to SQLite database")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable verbose debug logging")
	fs.BoolVar(&cfg.Once, "once", false, "Run a single scan, print the results and exit")

	fs.StringVar(&cfg.Channels, "c", cfg.Channels, "Channel spec, e.g. 2:1,6,11_5:36-48")
	fs.StringVar(&cfg.Bands, "b", cfg.Bands, "Band list, e.g. 2,5")
	fs.StringVar(&ssidStr, "s", ssidStr, "SSID filters (comma separated)")
	fs.IntVar(&cfg.MaxBSS, "m", cfg.MaxBSS, "Maximum results per scan (0 for unbounded)")
	fs.BoolVar(&cfg.Passive, "p", cfg.Passive, "Passive scan")
	fs.IntVar(&cfg.DwellActive, "dwell-active", cfg.DwellActive, "Active dwell time in milliseconds (0 for driver default)")
	fs.IntVar(&cfg.DwellPassive, "dwell-passive", cfg.DwellPassive, "Passive dwell time in milliseconds (0 for driver default)")
	fs.DurationVar(&cfg.ScanInterval, "interval", cfg.ScanInterval, "Periodic rescan interval")
	fs.DurationVar(&cfg.ScanTimeout, "timeout", cfg.ScanTimeout, "Scan completion timeout")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if mock {
		cfg.Driver = DriverSim
	}
	if cfg.DBPath == "" {
		cfg.DBPath = getDefaultDBPath()
	}
	cfg.SSIDs = splitList(ssidStr)
	cfg.AllowedOrigins = splitList(originStr)

	if macStr != "" {
		if !domain.IsValidMAC(macStr) {
			return nil, fmt.Errorf("invalid MAC %q", macStr)
		}
		mac, err := net.ParseMAC(macStr)
		if err != nil {
			return nil, fmt.Errorf("invalid MAC %q: %w", macStr, err)
		}
		cfg.FixedMAC = mac
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks option combinations that flags cannot express.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverNL80211, DriverSim:
	case DriverReplay:
		if c.PcapPath == "" {
			return fmt.Errorf("replay driver requires -pcap")
		}
	default:
		return fmt.Errorf("unknown driver %q", c.Driver)
	}
	if c.ScanInterval <= 0 {
		return fmt.Errorf("scan interval must be positive")
	}
	if c.ChannelMax < 1 || c.SSIDMax < 1 {
		return fmt.Errorf("channel and SSID capacities must be at least 1")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	if s == "" {
		return out
	}
	parts := strings.Split(s, ",")
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// getDefaultDBPath returns the default database path in user's home directory.
// Creates the directory if it doesn't exist.
func getDefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("Warning: Could not get user home directory, using current dir: %v", err)
		return "wscan.db"
	}

	dir := filepath.Join(home, ".wscan")
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("Warning: Could not create .wscan directory, using current dir: %v", err)
		return "wscan.db"
	}

	return filepath.Join(dir, "wscan.db")
}
