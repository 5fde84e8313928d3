package config

import (
	"errors"
	"fmt"
	"strings"

	"mapoverlay/internal/debug"
	"mapoverlay/internal/geo"
	"mapoverlay/internal/render"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Map     MapConfig     `mapstructure:"map"`
	Points  []PointConfig `mapstructure:"points"`
	Trails  []TrailConfig `mapstructure:"trails"`
	Scales  []ScaleConfig `mapstructure:"scales"`
	Compass CompassConfig `mapstructure:"compass"`
	Output  OutputConfig  `mapstructure:"output"`
}

type LogConfig struct {
	DebugFile string `mapstructure:"debug_file"`
}

// MapConfig places the map. At most one of Corners, Ground and Extent may be
// set; with none the map is bounded around the points and trails.
type MapConfig struct {
	Width    int     `mapstructure:"width"`
	Height   int     `mapstructure:"height"`
	Rotation float64 `mapstructure:"rotation"`
	Expand   bool    `mapstructure:"expand"`
	Unit     string  `mapstructure:"unit"`

	Corners *CornersConfig `mapstructure:"corners"`
	Ground  *GroundConfig  `mapstructure:"ground"`
	Extent  *ExtentConfig  `mapstructure:"extent"`

	Border BorderConfig `mapstructure:"border"`
	Growth float64      `mapstructure:"growth"`
	Crop   *CropConfig  `mapstructure:"crop"`
}

type LatLong struct {
	Lat  float64 `mapstructure:"lat"`
	Long float64 `mapstructure:"long"`
}

type XY struct {
	X float64 `mapstructure:"x"`
	Y float64 `mapstructure:"y"`
}

type CornersConfig struct {
	UL LatLong `mapstructure:"ul"`
	LR LatLong `mapstructure:"lr"`
}

type GroundConfig struct {
	UL     XY      `mapstructure:"ul"`
	LR     XY      `mapstructure:"lr"`
	Anchor LatLong `mapstructure:"anchor"`
}

type ExtentConfig struct {
	Anchor      LatLong `mapstructure:"anchor"`
	Width       float64 `mapstructure:"width"`
	Height      float64 `mapstructure:"height"`
	Unit        string  `mapstructure:"unit"`
	OffsetEast  float64 `mapstructure:"offset_east"`
	OffsetSouth float64 `mapstructure:"offset_south"`
}

type BorderConfig struct {
	Meters  float64 `mapstructure:"meters"`
	Degrees float64 `mapstructure:"degrees"`
	Pixels  float64 `mapstructure:"pixels"`
}

type CropConfig struct {
	MinX float64 `mapstructure:"min_x"`
	MinY float64 `mapstructure:"min_y"`
	MaxX float64 `mapstructure:"max_x"`
	MaxY float64 `mapstructure:"max_y"`
}

// PositionConfig is a point given in exactly one coordinate space.
type PositionConfig struct {
	Geo    *LatLong `mapstructure:"geo"`
	Ground *XY      `mapstructure:"ground"`
	Pixel  *XY      `mapstructure:"pixel"`
}

type PointConfig struct {
	PositionConfig `mapstructure:",squash"`

	Name   string  `mapstructure:"name"`
	Color  string  `mapstructure:"color"`
	Radius float64 `mapstructure:"radius"`
	Fill   bool    `mapstructure:"fill"`
}

type TrailConfig struct {
	Name   string           `mapstructure:"name"`
	Color  string           `mapstructure:"color"`
	Width  float64          `mapstructure:"width"`
	Points []PositionConfig `mapstructure:"points"`
}

type ScaleConfig struct {
	Start      PositionConfig  `mapstructure:"start"`
	End        *PositionConfig `mapstructure:"end"`
	Length     float64         `mapstructure:"length"`
	Bearing    float64         `mapstructure:"bearing"`
	Marks      float64         `mapstructure:"marks"`
	BigMarks   int             `mapstructure:"big_marks"`
	Unit       string          `mapstructure:"unit"`
	TicDir     int             `mapstructure:"tic_dir"`
	TickLength float64         `mapstructure:"tick_length"`
	FontSize   float64         `mapstructure:"font_size"`
	Width      float64         `mapstructure:"width"`
	Color      string          `mapstructure:"color"`
}

type CompassConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Center   PositionConfig `mapstructure:"center"`
	Radius   float64        `mapstructure:"radius"`
	FontSize float64        `mapstructure:"font_size"`
	Color    string         `mapstructure:"color"`
}

type OutputConfig struct {
	PNG        string  `mapstructure:"png"`
	Preview    bool    `mapstructure:"preview"`
	Background string  `mapstructure:"background"`
	LabelSize  float64 `mapstructure:"label_size"`
	Aspect     float64 `mapstructure:"aspect"`
}

// Load reads configuration from path, or from mapoverlay.yaml in . or
// ./configs when path is empty, then from MAPOVERLAY_ environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("log.debug_file", "")
	v.SetDefault("map.width", 640)
	v.SetDefault("map.height", 640)
	v.SetDefault("map.rotation", 0.0)
	v.SetDefault("map.expand", false)
	v.SetDefault("map.unit", "m")
	v.SetDefault("map.growth", 0.0)
	v.SetDefault("compass.enabled", false)
	v.SetDefault("compass.radius", 40.0)
	v.SetDefault("output.png", "")
	v.SetDefault("output.preview", false)
	v.SetDefault("output.background", "white")
	v.SetDefault("output.label_size", 12.0)
	v.SetDefault("output.aspect", 2.0)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("mapoverlay")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	// Environment variables: MAPOVERLAY_MAP_WIDTH → map.width
	v.SetEnvPrefix("MAPOVERLAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	debug.Log("config loaded", "file", v.ConfigFileUsed(), "points", len(cfg.Points),
		"trails", len(cfg.Trails), "scales", len(cfg.Scales))
	return &cfg, nil
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []string
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}
	unit := func(key, name string) {
		if _, err := geo.UnitToMeters(name); err != nil {
			add("%s: %v", key, err)
		}
	}
	position := func(key string, p PositionConfig) {
		if _, err := p.Position(); err != nil {
			add("%s: %v", key, err)
		}
	}
	color := func(key, s string) {
		if _, err := render.ParseColor(s, render.ColorInk); err != nil {
			add("%s: %v", key, err)
		}
	}

	m := c.Map
	if m.Width <= 0 || m.Height <= 0 {
		add("map.width and map.height must be positive, got %dx%d", m.Width, m.Height)
	}
	unit("map.unit", m.Unit)

	placements := 0
	for _, set := range []bool{m.Corners != nil, m.Ground != nil, m.Extent != nil} {
		if set {
			placements++
		}
	}
	if placements > 1 {
		add("only one of map.corners, map.ground and map.extent may be set")
	}
	if placements == 0 && !c.hasGeoPoints() {
		add("map.corners, map.ground or map.extent is required when no point or trail has a geo position")
	}
	if e := m.Extent; e != nil {
		if e.Width <= 0 || e.Height <= 0 {
			add("map.extent.width and map.extent.height must be positive")
		}
		if e.Unit != "" {
			unit("map.extent.unit", e.Unit)
		}
	}

	borders := 0
	for _, v := range []float64{m.Border.Meters, m.Border.Degrees, m.Border.Pixels} {
		if v < 0 {
			add("map.border values must not be negative")
		}
		if v != 0 {
			borders++
		}
	}
	if borders > 1 {
		add("only one of map.border.meters, map.border.degrees and map.border.pixels may be set")
	}
	if m.Growth != 0 && m.Growth < 1 {
		add("map.growth must be at least 1, got %g", m.Growth)
	}
	if r := m.Crop; r != nil && (r.MaxX <= r.MinX || r.MaxY <= r.MinY) {
		add("map.crop must have max_x > min_x and max_y > min_y")
	}

	for i, p := range c.Points {
		key := fmt.Sprintf("points[%d]", i)
		position(key, p.PositionConfig)
		color(key+".color", p.Color)
		if p.Radius < 0 {
			add("%s.radius must not be negative", key)
		}
	}
	for i, t := range c.Trails {
		key := fmt.Sprintf("trails[%d]", i)
		if len(t.Points) == 0 {
			add("%s has no points", key)
		}
		for j, p := range t.Points {
			position(fmt.Sprintf("%s.points[%d]", key, j), p)
		}
		color(key+".color", t.Color)
	}
	for i, s := range c.Scales {
		key := fmt.Sprintf("scales[%d]", i)
		position(key+".start", s.Start)
		if s.End != nil {
			position(key+".end", *s.End)
		} else if s.Length <= 0 {
			add("%s needs an end or a positive length", key)
		}
		if s.Marks <= 0 {
			add("%s.marks must be positive", key)
		}
		if s.BigMarks < 1 {
			add("%s.big_marks must be at least 1", key)
		}
		if s.Unit != "" {
			unit(key+".unit", s.Unit)
		}
		color(key+".color", s.Color)
	}

	if c.Compass.Enabled {
		if c.Compass.Radius <= 0 {
			add("compass.radius must be positive")
		}
		if c.Compass.Center.set() {
			position("compass.center", c.Compass.Center)
		}
		color("compass.color", c.Compass.Color)
	}

	color("output.background", c.Output.Background)
	if c.Output.LabelSize <= 0 {
		add("output.label_size must be positive")
	}
	if c.Output.Aspect <= 0 {
		add("output.aspect must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func (c *Config) hasGeoPoints() bool {
	for _, p := range c.Points {
		if p.Geo != nil {
			return true
		}
	}
	for _, t := range c.Trails {
		for _, p := range t.Points {
			if p.Geo != nil {
				return true
			}
		}
	}
	return false
}
