package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"pdfdesigner/common"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	// MarginsConfig keeps lengths as written, with optional units.
	MarginsConfig struct {
		Top    string `yaml:"top" validate:"required"`
		Right  string `yaml:"right" validate:"required"`
		Bottom string `yaml:"bottom" validate:"required"`
		Left   string `yaml:"left" validate:"required"`
	}

	OutputConfig struct {
		Format        common.OutputFmt `yaml:"format" validate:"gte=0"`
		NameTemplate  string           `yaml:"name_template"`
		Transliterate bool             `yaml:"transliterate"`
		StorePath     string           `yaml:"store_path,omitempty" sanitize:"path_clean,assure_dir_exists_for_file" validate:"omitempty,filepath"`
	}

	// RendererConfig is passed to PDF renderer as is, under renderer own
	// setting names.
	RendererConfig struct {
		ShowBoundary        bool    `yaml:"show_boundary"`
		CompressPages       bool    `yaml:"compress_pages"`
		UseA85              bool    `yaml:"use_a85"`
		Invariant           bool    `yaml:"invariant"`
		PDFComments         bool    `yaml:"pdf_comments"`
		DefaultEncoding     string  `yaml:"default_encoding" validate:"oneof=WinAnsiEncoding MacRomanEncoding"`
		BaseFontName        string  `yaml:"base_font_name" validate:"required"`
		GraphicsFontName    string  `yaml:"graphics_font_name" validate:"required"`
		OnEmptyTable        string  `yaml:"on_empty_table" validate:"oneof=error indicate ignore"`
		UnderlineLinks      bool    `yaml:"underline_links"`
		RTLSupport          bool    `yaml:"rtl_support"`
		WarnOnMissingGlyphs bool    `yaml:"warn_on_missing_glyphs"`
		TableBoundsErrors   bool    `yaml:"table_bounds_errors"`
		SpaceShrinkage      float64 `yaml:"space_shrinkage" validate:"gte=0,lte=1"`
		DecimalSymbol       string  `yaml:"decimal_symbol" validate:"len=1"`
	}

	DocumentConfig struct {
		PageSize       string         `yaml:"page_size" validate:"required"`
		Orientation    string         `yaml:"orientation" validate:"oneof=portrait landscape"`
		Margins        MarginsConfig  `yaml:"margins"`
		Axis           string         `yaml:"y_axis" validate:"oneof=up down"`
		DefaultStyle   string         `yaml:"default_style" validate:"required"`
		StylesheetPath string         `yaml:"stylesheet_path" sanitize:"assure_file_access"`
		Jumplines      bool           `yaml:"jumplines"`
		Renderer       RendererConfig `yaml:"renderer"`
		Output         OutputConfig   `yaml:"output"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Document  DocumentConfig `yaml:"document"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above
	OutputNameTemplateFieldName TemplateFieldName = "name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// only fields we defined are accepted
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
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

// Properties returns renderer settings keyed by renderer names. Empty table
// action is upper cased the way renderer expects it.
func (r *RendererConfig) Properties() map[string]any {
	return map[string]any{
		"showBoundary":            r.ShowBoundary,
		"pageCompression":         r.CompressPages,
		"useA85":                  r.UseA85,
		"invariant":               r.Invariant,
		"pdfComments":             r.PDFComments,
		"defaultEncoding":         r.DefaultEncoding,
		"canvas_basefontname":     r.BaseFontName,
		"defaultGraphicsFontName": r.GraphicsFontName,
		"emptyTableAction":        strings.ToUpper(r.OnEmptyTable),
		"platypus_link_underline": r.UnderlineLinks,
		"rtlSupport":              r.RTLSupport,
		"warnOnMissingFontGlyphs": r.WarnOnMissingGlyphs,
		"allowTableBoundsErrors":  r.TableBoundsErrors,
		"spaceShrinkage":          r.SpaceShrinkage,
		"decimalSymbol":           r.DecimalSymbol,
	}
}
