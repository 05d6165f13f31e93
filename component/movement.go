package component

import (
	"errors"
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
)

var ErrInvalidConfig = errors.New("component: invalid movement config")

// MovementConfig holds the tuning for one character. Durations are in
// seconds, speeds in world units per second and rates are per second.
type MovementConfig struct {
	MaxSpeed           float64 `yaml:"max_speed"`
	GroundAcceleration float64 `yaml:"ground_acceleration"`
	GroundDeceleration float64 `yaml:"ground_deceleration"`
	AirAcceleration    float64 `yaml:"air_acceleration"`

	GroundDetectionRayLength float64 `yaml:"ground_detection_ray_length"`
	HeadDetectionRayLength   float64 `yaml:"head_detection_ray_length"`

	JumpBufferTime       float64 `yaml:"jump_buffer_time"`
	JumpCoyoteTime       float64 `yaml:"jump_coyote_time"`
	NumberOfJumpsAllowed int     `yaml:"number_of_jumps_allowed"`
	InitialJumpVelocity  float64 `yaml:"initial_jump_velocity"`
	TimeForUpwardsCancel float64 `yaml:"time_for_upwards_cancel"`

	// ApexThreshold is the share of the jump velocity spent, in (0, 1],
	// after which the character is considered to be hanging at the apex.
	ApexThreshold    float64 `yaml:"apex_threshold"`
	ApexHangTime     float64 `yaml:"apex_hang_time"`
	ApexGravityScale float64 `yaml:"apex_gravity_scale"`

	FastFallGravityMultiplier float64 `yaml:"fast_fall_gravity_multiplier"`
	MaxFallSpeed              float64 `yaml:"max_fall_speed"`

	Gravity Vec2 `yaml:"gravity"`
}

// Vec2 is the YAML form of a cp.Vector.
type Vec2 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v Vec2) Vector() cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

// DefaultMovementConfig mirrors the movement block of prefabs/player.yaml.
func DefaultMovementConfig() MovementConfig {
	return MovementConfig{
		MaxSpeed:                  260,
		GroundAcceleration:        20,
		GroundDeceleration:        30,
		AirAcceleration:           8,
		GroundDetectionRayLength:  2,
		HeadDetectionRayLength:    2,
		JumpBufferTime:            0.125,
		JumpCoyoteTime:            0.1,
		NumberOfJumpsAllowed:      2,
		InitialJumpVelocity:       600,
		TimeForUpwardsCancel:      0.027,
		ApexThreshold:             0.97,
		ApexHangTime:              0.075,
		ApexGravityScale:          0.35,
		FastFallGravityMultiplier: 2,
		MaxFallSpeed:              900,
		Gravity:                   Vec2{X: 0, Y: -1800},
	}
}

// Validate reports every out-of-range field at once. The returned error
// wraps ErrInvalidConfig.
func (c *MovementConfig) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}

	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	finite := []struct {
		name  string
		value float64
	}{
		{"max_speed", c.MaxSpeed},
		{"ground_acceleration", c.GroundAcceleration},
		{"ground_deceleration", c.GroundDeceleration},
		{"air_acceleration", c.AirAcceleration},
		{"ground_detection_ray_length", c.GroundDetectionRayLength},
		{"head_detection_ray_length", c.HeadDetectionRayLength},
		{"jump_buffer_time", c.JumpBufferTime},
		{"jump_coyote_time", c.JumpCoyoteTime},
		{"initial_jump_velocity", c.InitialJumpVelocity},
		{"time_for_upwards_cancel", c.TimeForUpwardsCancel},
		{"apex_threshold", c.ApexThreshold},
		{"apex_hang_time", c.ApexHangTime},
		{"apex_gravity_scale", c.ApexGravityScale},
		{"fast_fall_gravity_multiplier", c.FastFallGravityMultiplier},
		{"max_fall_speed", c.MaxFallSpeed},
		{"gravity.y", c.Gravity.Y},
	}
	for _, f := range finite {
		check(!math.IsNaN(f.value) && !math.IsInf(f.value, 0), "%s must be finite, got %v", f.name, f.value)
	}

	check(c.MaxSpeed > 0, "max_speed must be positive, got %v", c.MaxSpeed)
	check(c.GroundAcceleration >= 0, "ground_acceleration must not be negative, got %v", c.GroundAcceleration)
	check(c.GroundDeceleration >= 0, "ground_deceleration must not be negative, got %v", c.GroundDeceleration)
	check(c.AirAcceleration >= 0, "air_acceleration must not be negative, got %v", c.AirAcceleration)
	check(c.GroundDetectionRayLength > 0, "ground_detection_ray_length must be positive, got %v", c.GroundDetectionRayLength)
	check(c.HeadDetectionRayLength >= 0, "head_detection_ray_length must not be negative, got %v", c.HeadDetectionRayLength)
	check(c.JumpBufferTime >= 0, "jump_buffer_time must not be negative, got %v", c.JumpBufferTime)
	check(c.JumpCoyoteTime >= 0, "jump_coyote_time must not be negative, got %v", c.JumpCoyoteTime)
	check(c.NumberOfJumpsAllowed >= 1, "number_of_jumps_allowed must be at least 1, got %d", c.NumberOfJumpsAllowed)
	check(c.InitialJumpVelocity > 0, "initial_jump_velocity must be positive, got %v", c.InitialJumpVelocity)
	check(c.TimeForUpwardsCancel >= 0, "time_for_upwards_cancel must not be negative, got %v", c.TimeForUpwardsCancel)
	check(c.ApexThreshold > 0 && c.ApexThreshold <= 1, "apex_threshold must be in (0, 1], got %v", c.ApexThreshold)
	check(c.ApexHangTime >= 0, "apex_hang_time must not be negative, got %v", c.ApexHangTime)
	check(c.ApexGravityScale >= 0 && c.ApexGravityScale <= 1, "apex_gravity_scale must be in [0, 1], got %v", c.ApexGravityScale)
	check(c.FastFallGravityMultiplier >= 1, "fast_fall_gravity_multiplier must be at least 1, got %v", c.FastFallGravityMultiplier)
	check(c.MaxFallSpeed > 0, "max_fall_speed must be positive, got %v", c.MaxFallSpeed)
	check(c.Gravity.Y < 0, "gravity.y must point down (negative), got %v", c.Gravity.Y)

	return errors.Join(errs...)
}
