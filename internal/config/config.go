package config

import (
	"errors"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultClientAddr is where the client subcommand looks for a server
// started with GRPC_PORT=50051.
const DefaultClientAddr = "127.0.0.1:50051"

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Host            string        // HTTP bind host
	Port            int           // HTTP port
	GRPCPort        int           // gRPC port, 0 disables the listener
	LogLevel        string        // debug, info, warn, error
	LogFormat       string        // text or json
	CORSOrigins     []string      // allowed CORS origins
	Seed            bool          // load the demo records at start-up
	ShutdownTimeout time.Duration // grace period for in-flight requests
	ClientAddr      string        // gRPC address dialled by the client subcommand
}

// Load reads an optional .env file from the working directory and then
// builds the config from the environment, falling back to defaults.
// Variables already set in the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return FromEnv(), nil
}

// FromEnv builds the config from the current environment only.
func FromEnv() *Config {
	return &Config{
		Host:            envOrDefault("HOST", "0.0.0.0"),
		Port:            envOrDefaultInt("PORT", 3000),
		GRPCPort:        envOrDefaultInt("GRPC_PORT", 0),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "text"),
		CORSOrigins:     envOrDefaultList("CORS_ORIGINS", []string{"*"}),
		Seed:            envOrDefaultBool("SEED", true),
		ShutdownTimeout: time.Duration(envOrDefaultInt("SHUTDOWN_TIMEOUT", 10)) * time.Second,
		ClientAddr:      envOrDefault("USERSVC_ADDR", DefaultClientAddr),
	}
}

// ListenAddr is the HTTP host:port pair.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// GRPCAddr is the gRPC host:port pair, or "" when gRPC is disabled.
func (c *Config) GRPCAddr() string {
	if c.GRPCPort <= 0 {
		return ""
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(c.GRPCPort))
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envOrDefaultBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envOrDefaultList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
