package config

import (
	"errors"
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"patchwork/internal/domain"
)

// Layout names how the time track markers are placed.
type Layout = domain.LayoutKind

const (
	LayoutStandard = domain.LayoutStandard
	LayoutRandom   = domain.LayoutRandom
	LayoutExplicit = domain.LayoutExplicit
)

// Variant selects the patch set and the optional rules.
type Variant string

const (
	// VariantFull plays every catalog patch with leather patches and the coverage tile.
	VariantFull Variant = "full"
	// VariantBasic plays the base patches only, without leather patches or coverage tile.
	VariantBasic Variant = "basic"
)

var ErrInvalidConfig = errors.New("invalid rules config")

type BoardConfig struct {
	Width            int `yaml:"width"`
	Height           int `yaml:"height"`
	FullCoverageSize int `yaml:"full_coverage_size"`
}

type TrackConfig struct {
	Length         int    `yaml:"length"`
	Layout         Layout `yaml:"layout"`
	LeatherPatches bool   `yaml:"leather_patches"`
	// Explicit layout only.
	Income  map[int]int          `yaml:"income,omitempty"`
	Bonuses map[int]domain.Bonus `yaml:"bonuses,omitempty"`
}

type EconomyConfig struct {
	StartingMoney int               `yaml:"starting_money"`
	IncomeRule    domain.IncomeRule `yaml:"income_rule"`
}

type ScoringConfig struct {
	EmptyCellPenalty      int  `yaml:"empty_cell_penalty"`
	FullCoverageBonus     int  `yaml:"full_coverage_bonus"`
	FirstArrivalBonus     int  `yaml:"first_arrival_bonus"`
	ExclusiveFullCoverage bool `yaml:"exclusive_full_coverage"`
}

// Config is the rules file.
type Config struct {
	Variant  Variant         `yaml:"variant"`
	Players  int             `yaml:"players"`
	Seed     int64           `yaml:"seed"`
	Catalog  string          `yaml:"catalog"`
	TieBreak domain.TieBreak `yaml:"tie_break"`

	Board   BoardConfig   `yaml:"board"`
	Track   TrackConfig   `yaml:"track"`
	Economy EconomyConfig `yaml:"economy"`
	Scoring ScoringConfig `yaml:"scoring"`
}

// Default mirrors domain.DefaultRules with the standard track.
func Default() Config {
	r := domain.DefaultRules()
	return Config{
		Variant:  VariantFull,
		Players:  r.Players,
		Catalog:  "configs/patches.json",
		TieBreak: r.TieBreak,
		Board: BoardConfig{
			Width:            r.BoardWidth,
			Height:           r.BoardHeight,
			FullCoverageSize: r.CoverageSize,
		},
		Track: TrackConfig{
			Length:         r.TrackLength,
			Layout:         LayoutStandard,
			LeatherPatches: r.LeatherPatches,
		},
		Economy: EconomyConfig{
			StartingMoney: r.StartingMoney,
			IncomeRule:    r.IncomeRule,
		},
		Scoring: ScoringConfig{
			EmptyCellPenalty:      r.EmptyCellPenalty,
			FullCoverageBonus:     r.FullCoverageBonus,
			FirstArrivalBonus:     r.FirstArrivalBonus,
			ExclusiveFullCoverage: r.ExclusiveCoverageBonus,
		},
	}
}

// Load reads a rules file over the defaults. Keys absent from the file keep
// their default value.
func Load(path string) (Config, error) {
	c := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("failed to read rules config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("rules.yaml: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Validate checks the values that do not depend on the random source.
func (c Config) Validate() error {
	switch c.Variant {
	case VariantFull, VariantBasic:
	default:
		return fmt.Errorf("%w: variant %q", ErrInvalidConfig, c.Variant)
	}
	switch c.Track.Layout {
	case LayoutStandard, LayoutRandom:
	case LayoutExplicit:
		if len(c.Track.Income) == 0 && len(c.Track.Bonuses) == 0 {
			return fmt.Errorf("%w: explicit layout without markers", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: track layout %q", ErrInvalidConfig, c.Track.Layout)
	}
	if c.Scoring.EmptyCellPenalty < 0 || c.Scoring.FullCoverageBonus < 0 || c.Scoring.FirstArrivalBonus < 0 {
		return fmt.Errorf("%w: scoring weights must not be negative", ErrInvalidConfig)
	}
	rules, err := c.Rules(rand.New(rand.NewSource(c.Seed)))
	if err != nil {
		return err
	}
	if err := rules.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := domain.NewTrack(rules.TrackLayout(), rules.Players); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Rules converts the file into engine rules. rng draws the random layout.
func (c Config) Rules(rng *rand.Rand) (domain.Rules, error) {
	r := domain.Rules{
		Players:                c.Players,
		BoardWidth:             c.Board.Width,
		BoardHeight:            c.Board.Height,
		TrackLength:            c.Track.Length,
		StartingMoney:          c.Economy.StartingMoney,
		CoverageSize:           c.Board.FullCoverageSize,
		EmptyCellPenalty:       c.Scoring.EmptyCellPenalty,
		FullCoverageBonus:      c.Scoring.FullCoverageBonus,
		FirstArrivalBonus:      c.Scoring.FirstArrivalBonus,
		ExclusiveCoverageBonus: c.Scoring.ExclusiveFullCoverage,
		IncomeRule:             c.Economy.IncomeRule,
		TieBreak:               c.TieBreak,
		LayoutKind:             c.Track.Layout,
		LeatherPatches:         c.Track.LeatherPatches,
	}
	if c.Variant == VariantBasic {
		r.LeatherPatches = false
		r.FullCoverageBonus = 0
	}

	switch c.Track.Layout {
	case LayoutRandom:
		layout := domain.RandomLayout(c.Track.Length, r.LeatherPatches, rng)
		r.Layout = &layout
	case LayoutExplicit:
		layout := domain.TrackLayout{Length: c.Track.Length, Income: c.Track.Income, Bonuses: map[int]domain.Bonus{}}
		for pos, b := range c.Track.Bonuses {
			if b.Kind == domain.BonusLeatherPatch && !r.LeatherPatches {
				continue
			}
			if b.Kind != domain.BonusLeatherPatch && b.Kind != domain.BonusButtons {
				return domain.Rules{}, fmt.Errorf("%w: bonus kind %q at %d", ErrInvalidConfig, b.Kind, pos)
			}
			layout.Bonuses[pos] = b
		}
		r.Layout = &layout
	}
	return r, nil
}

// BaseOnly reports whether the catalog must be filtered to base patches.
func (c Config) BaseOnly() bool {
	return c.Variant == VariantBasic
}
