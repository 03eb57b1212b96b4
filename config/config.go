package config

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyERPNextURL       = "erpnext.url"
	KeyERPNextAPIKey    = "erpnext.api_key"
	KeyERPNextAPISecret = "erpnext.api_secret"
	KeyPriceList        = "erpnext.price_list"
	KeyDefaultItemGroup = "erpnext.default_item_group"
	KeyRequestTimeout   = "erpnext.request_timeout_seconds"
	KeyTaxRate          = "import.tax_rate"
	KeyDelimiter        = "import.delimiter"
	KeyEncoding         = "import.encoding"
	KeyBarcodeDenylist  = "import.barcode_denylist"
	KeyHistoryDB        = "import.history_db"
	KeyGeminiAPIKey     = "gemini.api_key"
	KeyGeminiModel      = "gemini.model"
)

type Config struct {
	ERPNext ERPNextConfig `mapstructure:"erpnext" validate:"required"`
	Import  ImportConfig  `mapstructure:"import"`
	Gemini  GeminiConfig  `mapstructure:"gemini"`
}

type ERPNextConfig struct {
	URL                   string `mapstructure:"url" validate:"required,url"`
	APIKey                string `mapstructure:"api_key" validate:"required"`
	APISecret             string `mapstructure:"api_secret" validate:"required"`
	PriceList             string `mapstructure:"price_list"`
	DefaultItemGroup      string `mapstructure:"default_item_group"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" validate:"gte=0"`
}

type ImportConfig struct {
	TaxRate         float64  `mapstructure:"tax_rate" validate:"gte=0,lte=100"`
	Delimiter       string   `mapstructure:"delimiter"`
	Encoding        string   `mapstructure:"encoding"`
	BarcodeDenylist []string `mapstructure:"barcode_denylist"`
	HistoryDB       string   `mapstructure:"history_db"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// Timeout returns the request timeout as a duration.
func (c ERPNextConfig) Timeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// DelimiterRune returns the CSV delimiter as a rune, falling back to the
// semicolon of German exports.
func (c ImportConfig) DelimiterRune() rune {
	trimmed := strings.TrimSpace(c.Delimiter)
	if trimmed == "\\t" || strings.EqualFold(trimmed, "tab") {
		return '\t'
	}
	for _, r := range trimmed {
		return r
	}
	return ';'
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# erpimport configuration
erpnext:
  url: "https://erp.example.com"
  api_key: ""
  api_secret: ""
  price_list: "Standard Selling"
  default_item_group: "All Item Groups"
  request_timeout_seconds: 30

import:
  tax_rate: 19.0
  delimiter: ";"
  encoding: "utf-8"
  barcode_denylist: []
  history_db: ""

gemini:
  api_key: ""
  model: "gemini-2.0-flash"
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateDelimiter(cfg.Import.Delimiter); err != nil {
		return nil, err
	}
	if err := validateEncoding(cfg.Import.Encoding); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyPriceList, "Standard Selling")
	v.SetDefault(KeyDefaultItemGroup, "All Item Groups")
	v.SetDefault(KeyRequestTimeout, 30)
	v.SetDefault(KeyTaxRate, 19.0)
	v.SetDefault(KeyDelimiter, ";")
	v.SetDefault(KeyEncoding, "utf-8")
	v.SetDefault(KeyBarcodeDenylist, []string{})
	v.SetDefault(KeyGeminiModel, "gemini-2.0-flash")
}

func validateDelimiter(delimiter string) error {
	trimmed := strings.TrimSpace(delimiter)
	if trimmed == "" || trimmed == "\\t" || strings.EqualFold(trimmed, "tab") {
		return nil
	}
	if len([]rune(trimmed)) != 1 {
		return fmt.Errorf("validation failed: import.delimiter %q must be a single character", delimiter)
	}
	return nil
}

func validateEncoding(encoding string) error {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8", "latin-1", "latin1", "iso-8859-1", "windows-1252", "cp1252":
		return nil
	default:
		return fmt.Errorf(
			"validation failed: import.encoding %q is not supported (valid: utf-8, latin-1, windows-1252)",
			encoding,
		)
	}
}
