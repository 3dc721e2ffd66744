package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Engine holds all configuration for the area simulator.
type Engine struct {
	LogLevel string `yaml:"log_level"` // debug|info|warn|error
	LogFile  string `yaml:"log_file"`  // empty = stdout, or discarded while the viewer runs

	// Content
	TablesPath     string `yaml:"tables_path"`     // rule tables; empty = built-in
	BlueprintsPath string `yaml:"blueprints_path"` // YAML blueprints
	AreaPath       string `yaml:"area_path"`       // level descriptor
	LeaderTag      string `yaml:"leader_tag"`      // creature controlled by input

	// Database (optional blueprint source)
	Database DatabaseConfig `yaml:"database"`

	// Frame loop
	FrameRate int  `yaml:"frame_rate"` // frames per second
	Viewer    bool `yaml:"viewer"`     // draw the area in the terminal

	Area Area `yaml:"area"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Area holds the simulation tuning. Distances are in world units.
type Area struct {
	PerceptionInterval time.Duration `yaml:"perception_interval"`
	HeartbeatInterval  time.Duration `yaml:"heartbeat_interval"`

	SelectionDistance    float64 `yaml:"selection_distance"`
	MaxCollisionDistance float64 `yaml:"max_collision_distance"` // walk and elevation tests
	LineOfSightDistance  float64 `yaml:"line_of_sight_distance"`
	LineOfSightHeight    float64 `yaml:"line_of_sight_height"` // eye height above position
	ElevationTestZ       float64 `yaml:"elevation_test_z"`

	PathKeepDuration       time.Duration `yaml:"path_keep_duration"`
	ArrivalDistance        float64       `yaml:"arrival_distance"`
	PathPointReached       float64       `yaml:"path_point_reached"`
	ObjectInteractDistance float64       `yaml:"object_interact_distance"`
	ConversationDistance   float64       `yaml:"conversation_distance"`
	FollowDistance         float64       `yaml:"follow_distance"`
	DefaultAttackRange     float64       `yaml:"default_attack_range"`

	CreatureCollisionRadius float64 `yaml:"creature_collision_radius"`
}

// DefaultArea returns the stock tuning.
func DefaultArea() Area {
	return Area{
		PerceptionInterval:      1 * time.Second,
		HeartbeatInterval:       6 * time.Second,
		SelectionDistance:       64,
		MaxCollisionDistance:    8,
		LineOfSightDistance:     64,
		LineOfSightHeight:       1.7,
		ElevationTestZ:          1024,
		PathKeepDuration:        1 * time.Second,
		ArrivalDistance:         1.0,
		PathPointReached:        1.0,
		ObjectInteractDistance:  2.0,
		ConversationDistance:    4.0,
		FollowDistance:          2.5,
		DefaultAttackRange:      2.0,
		CreatureCollisionRadius: 0.5,
	}
}

// DefaultEngine returns Engine config with sensible defaults.
func DefaultEngine() Engine {
	return Engine{
		LogLevel:       "info",
		BlueprintsPath: "content/blueprints.yaml",
		AreaPath:       "content/area.yaml",
		LeaderTag:      "player",
		FrameRate:      30,
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "areasim",
			Password: "areasim",
			DBName:   "areasim",
			SSLMode:  "disable",
		},
		Area: DefaultArea(),
	}
}

// FrameInterval returns the duration of one frame.
func (e Engine) FrameInterval() time.Duration {
	if e.FrameRate <= 0 {
		return time.Second / 30
	}
	return time.Second / time.Duration(e.FrameRate)
}

// LoadEngine loads engine config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadEngine(path string) (Engine, error) {
	cfg := DefaultEngine()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
