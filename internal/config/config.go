// Package config holds the tuning parameters for gesture recognition and
// interaction arbitration. Every threshold the engine and arbiter consult
// lives here so it can be re-tuned without a rebuild.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Tuning carries all recognition and arbitration thresholds. Distances are
// meters, angles degrees, durations milliseconds.
type Tuning struct {
	// Sampling.
	MinHandScore float64 `yaml:"min_hand_score" json:"min_hand_score"`

	// Debouncing.
	DebounceWindow   int `yaml:"debounce_window" json:"debounce_window"`
	DebounceSettleMs int `yaml:"debounce_settle_ms" json:"debounce_settle_ms"`

	// Pose recognition.
	PinchDist          float64 `yaml:"pinch_dist" json:"pinch_dist"`
	ThumbExtendDist    float64 `yaml:"thumb_extend_dist" json:"thumb_extend_dist"`
	FingerCurlDist     float64 `yaml:"finger_curl_dist" json:"finger_curl_dist"`
	HeartJoinDist      float64 `yaml:"heart_join_dist" json:"heart_join_dist"`
	PeaceSpreadDist    float64 `yaml:"peace_spread_dist" json:"peace_spread_dist"`
	StopPalmDist       float64 `yaml:"stop_palm_dist" json:"stop_palm_dist"`
	StopPalmCushion    float64 `yaml:"stop_palm_cushion" json:"stop_palm_cushion"`
	StopPalmSpread     float64 `yaml:"stop_palm_spread" json:"stop_palm_spread"`
	StopPalmFacingDeg  float64 `yaml:"stop_palm_facing_deg" json:"stop_palm_facing_deg"`
	StopPalmHoldMs     int     `yaml:"stop_palm_hold_ms" json:"stop_palm_hold_ms"`
	StopPalmCooldownMs int     `yaml:"stop_palm_cooldown_ms" json:"stop_palm_cooldown_ms"`

	// Grab and scroll arbitration.
	SurfaceMargin       float64 `yaml:"surface_margin" json:"surface_margin"`
	GrabInstantDist     float64 `yaml:"grab_instant_dist" json:"grab_instant_dist"`
	ScrollFarDist       float64 `yaml:"scroll_far_dist" json:"scroll_far_dist"`
	GrabHoldMs          int     `yaml:"grab_hold_ms" json:"grab_hold_ms"`
	GrabCancelDrift     float64 `yaml:"grab_cancel_drift" json:"grab_cancel_drift"`
	ScrollMinHoldMs     int     `yaml:"scroll_min_hold_ms" json:"scroll_min_hold_ms"`
	ScrollFilterAlpha   float64 `yaml:"scroll_filter_alpha" json:"scroll_filter_alpha"`
	ScrollVelocityFloor float64 `yaml:"scroll_velocity_floor" json:"scroll_velocity_floor"`
	ScrollStepThreshold float64 `yaml:"scroll_step_threshold" json:"scroll_step_threshold"`
	ScrollCooldownMs    int     `yaml:"scroll_cooldown_ms" json:"scroll_cooldown_ms"`

	// Two-hand transform.
	TwoHandFilterAlpha float64 `yaml:"two_hand_filter_alpha" json:"two_hand_filter_alpha"`
	ScaleGain          float64 `yaml:"scale_gain" json:"scale_gain"`
	ScaleMin           float64 `yaml:"scale_min" json:"scale_min"`
	ScaleMax           float64 `yaml:"scale_max" json:"scale_max"`
	ScaleDeadband      float64 `yaml:"scale_deadband" json:"scale_deadband"`
	RotateMoveEpsilon  float64 `yaml:"rotate_move_epsilon" json:"rotate_move_epsilon"`
	RotateDeadzoneDeg  float64 `yaml:"rotate_deadzone_deg" json:"rotate_deadzone_deg"`
	RotateMaxStepDeg   float64 `yaml:"rotate_max_step_deg" json:"rotate_max_step_deg"`

	// Panel interaction.
	PanelScrollCooldownMs int `yaml:"panel_scroll_cooldown_ms" json:"panel_scroll_cooldown_ms"`

	// Tap fallback.
	TapMaxDurationMs int     `yaml:"tap_max_duration_ms" json:"tap_max_duration_ms"`
	TapMaxTravel     float64 `yaml:"tap_max_travel" json:"tap_max_travel"`
	TapProximity     float64 `yaml:"tap_proximity" json:"tap_proximity"`
	TapCooldownMs    int     `yaml:"tap_cooldown_ms" json:"tap_cooldown_ms"`

	// Transform smoothing.
	ChaseBase          float64 `yaml:"chase_base" json:"chase_base"`
	SpringTimeConstant float64 `yaml:"spring_time_constant" json:"spring_time_constant"`
	SpringMaxSpeedDeg  float64 `yaml:"spring_max_speed_deg" json:"spring_max_speed_deg"`

	// Reactions.
	ReactionCooldownMs int `yaml:"reaction_cooldown_ms" json:"reaction_cooldown_ms"`
}

// Default returns the tuning values the engine ships with.
func Default() *Tuning {
	return &Tuning{
		MinHandScore: 0.5,

		DebounceWindow:   4,
		DebounceSettleMs: 100,

		PinchDist:          0.035,
		ThumbExtendDist:    0.085,
		FingerCurlDist:     0.075,
		HeartJoinDist:      0.045,
		PeaceSpreadDist:    0.03,
		StopPalmDist:       0.30,
		StopPalmCushion:    0.08,
		StopPalmSpread:     0.045,
		StopPalmFacingDeg:  35,
		StopPalmHoldMs:     120,
		StopPalmCooldownMs: 800,

		SurfaceMargin:       0.04,
		GrabInstantDist:     0.14,
		ScrollFarDist:       0.28,
		GrabHoldMs:          200,
		GrabCancelDrift:     0.045,
		ScrollMinHoldMs:     140,
		ScrollFilterAlpha:   0.22,
		ScrollVelocityFloor: 0.01,
		ScrollStepThreshold: 0.028,
		ScrollCooldownMs:    180,

		TwoHandFilterAlpha: 0.28,
		ScaleGain:          2.2,
		ScaleMin:           0.15,
		ScaleMax:           8.0,
		ScaleDeadband:      0.006,
		RotateMoveEpsilon:  0.006,
		RotateDeadzoneDeg:  1.5,
		RotateMaxStepDeg:   50,

		PanelScrollCooldownMs: 130,

		TapMaxDurationMs: 250,
		TapMaxTravel:     0.04,
		TapProximity:     0.25,
		TapCooldownMs:    500,

		ChaseBase:          0.02,
		SpringTimeConstant: 0.15,
		SpringMaxSpeedDeg:  270,

		ReactionCooldownMs: 800,
	}
}

// Load reads a YAML tuning file over the defaults. A missing file is not
// an error; the defaults are returned unchanged.
func Load(path string) (*Tuning, error) {
	t := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return nil, fmt.Errorf("read tuning file: %w", err)
	}

	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("parse tuning file: %w", err)
	}
	return t, nil
}

// ApplyYAML overlays a YAML document (e.g. persisted overrides from the
// settings store) onto t.
func (t *Tuning) ApplyYAML(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := yaml.Unmarshal(data, t); err != nil {
		return fmt.Errorf("parse tuning overrides: %w", err)
	}
	return nil
}

// YAML serializes the full tuning set, used when persisting it back to
// the settings store.
func (t *Tuning) YAML() ([]byte, error) {
	return yaml.Marshal(t)
}

// Ms converts a millisecond tuning field to a time.Duration.
func Ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
