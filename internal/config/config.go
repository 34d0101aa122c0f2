package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/lumen-dev/lumen/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "lumen.json"

	// DefaultDevtoolsPort is the default devtools server port.
	DefaultDevtoolsPort = 3939

	// DefaultDevtoolsHost is the default devtools server host.
	DefaultDevtoolsHost = "localhost"

	// DefaultAssetsDir is the default assets directory.
	DefaultAssetsDir = "assets"
)

// Config represents the complete lumen.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Version is the project version.
	Version string `json:"version,omitempty"`

	// Window contains default window configuration.
	Window WindowConfig `json:"window,omitempty"`

	// Assets contains asset loading configuration.
	Assets AssetsConfig `json:"assets,omitempty"`

	// Devtools contains devtools server configuration.
	Devtools DevtoolsConfig `json:"devtools,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// WindowConfig contains defaults applied to the application's main window.
type WindowConfig struct {
	// Title is the window title.
	Title string `json:"title,omitempty"`

	// Width is the content width in logical pixels.
	Width int `json:"width,omitempty"`

	// Height is the content height in logical pixels.
	Height int `json:"height,omitempty"`

	// Resizable controls whether the user can resize the window.
	Resizable *bool `json:"resizable,omitempty"`

	// Borderless removes the platform chrome.
	Borderless bool `json:"borderless,omitempty"`

	// Transparent requests an alpha-composited window.
	Transparent bool `json:"transparent,omitempty"`

	// AlwaysOnTop keeps the window above normal windows.
	AlwaysOnTop bool `json:"alwaysOnTop,omitempty"`
}

// AssetsConfig contains asset loading settings.
type AssetsConfig struct {
	// Dir is the directory containing static assets.
	Dir string `json:"dir,omitempty"`

	// Manifest is the path to the asset manifest, empty to skip.
	Manifest string `json:"manifest,omitempty"`

	// CacheBudget caps cached asset bytes. Zero uses the built-in
	// default.
	CacheBudget int `json:"cacheBudget,omitempty"`

	// S3 configures a remote asset bucket, empty bucket disables it.
	S3 S3Config `json:"s3,omitempty"`
}

// S3Config points at a remote asset bucket.
type S3Config struct {
	// Bucket is the S3 bucket name.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is prepended to every asset key.
	Prefix string `json:"prefix,omitempty"`

	// Region is the AWS region.
	Region string `json:"region,omitempty"`
}

// DevtoolsConfig contains devtools server settings.
type DevtoolsConfig struct {
	// Enabled turns the devtools HTTP server on.
	Enabled bool `json:"enabled,omitempty"`

	// Port is the port to run the devtools server on.
	Port int `json:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Watch contains paths to watch for asset changes.
	Watch []string `json:"watch,omitempty"`

	// Ignore contains patterns to ignore during watch.
	Ignore []string `json:"ignore,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is the minimum level: debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is the handler format: text or json.
	Format string `json:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	resizable := true
	return &Config{
		Version: "0.1.0",
		Window: WindowConfig{
			Title:     "lumen",
			Width:     800,
			Height:    600,
			Resizable: &resizable,
		},
		Assets: AssetsConfig{
			Dir: DefaultAssetsDir,
		},
		Devtools: DevtoolsConfig{
			Port:  DefaultDevtoolsPort,
			Host:  DefaultDevtoolsHost,
			Watch: []string{"assets", "styles"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for lumen.json in the directory.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No lumen.json found in " + filepath.Dir(path)).
				WithSuggestion("Run 'lumen create' to create a new project or create lumen.json manually")
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse lumen.json: " + err.Error()).
			WithSuggestion("Check that lumen.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E120").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Window.Title == "" {
		c.Window.Title = "lumen"
	}
	if c.Window.Width == 0 {
		c.Window.Width = 800
	}
	if c.Window.Height == 0 {
		c.Window.Height = 600
	}
	if c.Window.Resizable == nil {
		resizable := true
		c.Window.Resizable = &resizable
	}

	if c.Assets.Dir == "" {
		c.Assets.Dir = DefaultAssetsDir
	}

	if c.Devtools.Port == 0 {
		c.Devtools.Port = DefaultDevtoolsPort
	}
	if c.Devtools.Host == "" {
		c.Devtools.Host = DefaultDevtoolsHost
	}
	if c.Devtools.Watch == nil {
		c.Devtools.Watch = []string{"assets", "styles"}
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Devtools.Port < 0 || c.Devtools.Port > 65535 {
		return errors.New("E122").
			WithDetail("Devtools port must be between 0 and 65535")
	}
	if c.Window.Width < 0 || c.Window.Height < 0 {
		return errors.New("E122").
			WithDetail("Window dimensions must not be negative")
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.New("E122").
			WithDetail("Log level must be one of: debug, info, warn, error")
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return errors.New("E122").
			WithDetail("Log format must be text or json")
	}
	return nil
}

// DevtoolsAddress returns the address string for the devtools server.
func (c *Config) DevtoolsAddress() string {
	return c.Devtools.Host + ":" + strconv.Itoa(c.Devtools.Port)
}

// DevtoolsURL returns the full URL for the devtools server.
func (c *Config) DevtoolsURL() string {
	return "http://" + c.DevtoolsAddress()
}

// AssetsPath returns the absolute path to the assets directory.
func (c *Config) AssetsPath() string {
	if filepath.IsAbs(c.Assets.Dir) {
		return c.Assets.Dir
	}
	return filepath.Join(c.Dir(), c.Assets.Dir)
}

// ManifestPath returns the absolute path to the asset manifest, empty
// when no manifest is configured.
func (c *Config) ManifestPath() string {
	if c.Assets.Manifest == "" {
		return ""
	}
	if filepath.IsAbs(c.Assets.Manifest) {
		return c.Assets.Manifest
	}
	return filepath.Join(c.Dir(), c.Assets.Manifest)
}

// WatchPaths returns the absolute paths the devtools watcher should
// observe.
func (c *Config) WatchPaths() []string {
	paths := make([]string, 0, len(c.Devtools.Watch))
	for _, p := range c.Devtools.Watch {
		if filepath.IsAbs(p) {
			paths = append(paths, p)
		} else {
			paths = append(paths, filepath.Join(c.Dir(), p))
		}
	}
	return paths
}

// HasS3 reports whether a remote asset bucket is configured.
func (c *Config) HasS3() bool {
	return c.Assets.S3.Bucket != ""
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing lumen.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E141").
				WithDetail("No lumen.json found in " + startDir + " or any parent directory").
				WithSuggestion("Run 'lumen create' to create a new project")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
