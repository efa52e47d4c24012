package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/engine.io/v2/utils"
)

// File is the on-disk form of the client configuration.
type File struct {
	// URL of the engine.io server, e.g. http://localhost:3000
	URL string `mapstructure:"url"`

	Path                  string            `mapstructure:"path"`
	Query                 map[string]string `mapstructure:"query"`
	QueryOnlyForHandshake bool              `mapstructure:"query_only_for_handshake"`
	Upgrade               bool              `mapstructure:"upgrade"`
	Transports            []string          `mapstructure:"transports"`
	PingInterval          time.Duration     `mapstructure:"ping_interval"`
	RequestTimeout        time.Duration     `mapstructure:"request_timeout"`
	HandshakeTimeout      time.Duration     `mapstructure:"handshake_timeout"`
	ExtraHeaders          map[string]string `mapstructure:"extra_headers"`
	Protocols             []string          `mapstructure:"protocols"`
	Extensions            []string          `mapstructure:"extensions"`
	PerMessageDeflate     bool              `mapstructure:"per_message_deflate"`
	CompressionThreshold  int               `mapstructure:"compression_threshold"`

	// Debug turns on engine.io debug logging.
	Debug bool `mapstructure:"debug"`

	pingIntervalSet bool
}

// Load reads configuration from path (YAML), falling back to ./eio.yaml and
// ~/.eio/eio.yaml when path is empty. Environment variables with the EIO_
// prefix override file values, e.g. EIO_PING_INTERVAL=10s.
func Load(path string) (*File, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("EIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("url", "")
	v.SetDefault("query_only_for_handshake", false)
	v.SetDefault("upgrade", true)
	v.SetDefault("transports", []string{"polling", "websocket"})
	v.SetDefault("request_timeout", DefaultRequestTimeout)
	v.SetDefault("handshake_timeout", DefaultHandshakeTimeout)
	v.SetDefault("debug", false)

	if path == "" {
		if envPath := os.Getenv("EIO_CONFIG"); envPath != "" {
			path = envPath
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("eio")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".eio"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	f := &File{}
	if err := v.Unmarshal(f); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	// Unset and zero mean different things for the keep-alive ping.
	f.pingIntervalSet = v.IsSet("ping_interval")

	if err := f.validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) validate() error {
	for i, t := range f.Transports {
		t = strings.ToLower(strings.TrimSpace(t))
		switch t {
		case "polling", "websocket":
			f.Transports[i] = t
		default:
			return fmt.Errorf("invalid transport: %q", t)
		}
	}
	return nil
}

// SocketOptions converts the file into socket options.
func (f *File) SocketOptions() *SocketOptions {
	opts := DefaultSocketOptions()
	// Left unset, the path of the server url applies.
	if f.Path != "" {
		opts.SetPath(f.Path)
	}

	query := utils.NewParameterBag(nil)
	for k, v := range f.Query {
		query.Set(k, v)
	}
	opts.SetQuery(query)
	opts.SetQueryOnlyForHandshake(f.QueryOnlyForHandshake)
	opts.SetUpgrade(f.Upgrade)
	if len(f.Transports) > 0 {
		opts.SetTransports(types.NewSet(f.Transports...))
	}
	if f.pingIntervalSet {
		opts.SetPingInterval(f.PingInterval)
	}
	if f.RequestTimeout > 0 {
		opts.SetRequestTimeout(f.RequestTimeout)
	}
	if f.HandshakeTimeout > 0 {
		opts.SetHandshakeTimeout(f.HandshakeTimeout)
	}
	if len(f.ExtraHeaders) > 0 {
		opts.SetExtraHeaders(f.ExtraHeaders)
	}
	if len(f.Protocols) > 0 {
		opts.SetProtocols(f.Protocols)
	}
	if len(f.Extensions) > 0 {
		opts.SetExtensions(f.Extensions)
	}
	if f.PerMessageDeflate {
		opts.SetPerMessageDeflate(&PerMessageDeflate{Threshold: f.CompressionThreshold})
	}
	return opts
}
