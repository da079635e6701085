package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"dxw/common"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	ImagesConfig struct {
		// Probe enables reading of picture dimensions from image files,
		// without it pictures must have explicit size.
		Probe       bool `yaml:"probe"`
		Optimize    bool `yaml:"optimize"`
		JPEGQuality int  `yaml:"jpeg_quality" validate:"min=40,max=100"`
		Grayscale   bool `yaml:"grayscale"`
		MaxWidth    int  `yaml:"max_width" validate:"gte=0"`
		RasterDPI   int  `yaml:"raster_dpi" validate:"min=72,max=1200"`
	}

	PageBreakConfig struct {
		Enable      bool               `yaml:"enable"`
		Orientation common.Orientation `yaml:"orientation" validate:"gte=0"`
	}

	InputConfig struct {
		Format             common.InputFmt `yaml:"format" validate:"gte=0"`
		MarkdownExtensions []string        `yaml:"markdown_extensions" validate:"dive,oneof=gfm table strikethrough tasklist linkify definition_list footnote typographer"`
	}

	PropertiesConfig struct {
		Title       string   `yaml:"title"`
		Subject     string   `yaml:"subject"`
		Creator     string   `yaml:"creator"`
		Description string   `yaml:"description"`
		Keywords    []string `yaml:"keywords"`
	}

	DocumentConfig struct {
		FixZip                bool             `yaml:"fix_zip"`
		StyleTemplate         string           `yaml:"style_template" sanitize:"assure_file_access"`
		OutputNameTemplate    string           `yaml:"output_name_template"`
		FileNameTransliterate bool             `yaml:"file_name_transliterate"`
		Language              string           `yaml:"language" validate:"omitempty,bcp47_language_tag"`
		Properties            PropertiesConfig `yaml:"properties"`
		PageBreak             PageBreakConfig  `yaml:"page_break"`
		Input                 InputConfig      `yaml:"input"`
		Images                ImagesConfig     `yaml:"images"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Document  DocumentConfig `yaml:"document"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above, alternative is to use struct
	// field name and reflection which I want to avoid for now
	OutputNameTemplateFieldName TemplateFieldName = "output_name_template"
)

// badFileName replaces file names with nothing usable left after cleaning.
const badFileName = "_bad_file_name_"

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
