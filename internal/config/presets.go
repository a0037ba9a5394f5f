package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/ballsim/internal/dynamo"
)

var Presets = map[string]*Config{
	"demo": DefaultConfig(),
	"gravity": preset(func(c *Config) {
		c.Gravity = 500
		c.Balls = []BallConfig{
			{X: -120, Y: -150, Radius: 20, VX: 80},
			{X: 0, Y: -200, Radius: 12},
			{X: 140, Y: -100, Radius: 30, VX: -60},
		}
	}),
	"billiards": preset(func(c *Config) {
		c.Damping = 0.3
		c.Balls = rack(6, 15)
		c.Balls = append(c.Balls, BallConfig{X: -250, Radius: 15, VX: 600, Color: "#ffffff"})
	}),
	"crowd": preset(func(c *Config) {
		c.Gravity = 300
		c.Balls = nil
		c.Crowd = 40
		c.Seed = 1
		c.Run.Duration = 20
	}),
}

func preset(modify func(*Config)) *Config {
	c := DefaultConfig()
	modify(c)
	return c
}

// rack lays out a triangle of rows balls of radius r pointing left.
func rack(rows int, r float64) []BallConfig {
	var balls []BallConfig
	dx := r * 1.7320508075688772
	for row := 0; row < rows; row++ {
		for i := 0; i <= row; i++ {
			balls = append(balls, BallConfig{
				X:      float64(row) * dx,
				Y:      (float64(i) - float64(row)/2) * 2 * r,
				Radius: r,
			})
		}
	}
	return balls
}

// GetPreset returns a copy of the named preset.
func GetPreset(name string) (*Config, error) {
	cfg, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownPreset, name)
	}
	return cfg.Clone(), nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
