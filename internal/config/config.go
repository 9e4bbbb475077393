// Package config holds the tunable parameters shared by the tracking and
// collision pipeline. Values are clamped once at load time; components never
// re-validate at use time.
package config

// Config is the immutable-per-session set of pipeline tunables.
type Config struct {
	// Hand tracking
	TrackRightHand        bool    `json:"track_right_hand"`
	TrackLeftHand         bool    `json:"track_left_hand"`
	MirrorMode            bool    `json:"mirror_mode"`
	BaseDepthOffset       float64 `json:"base_depth_offset"`       // [0.5, 20]
	DepthScale            float64 `json:"depth_scale"`             // [0, 20]
	MinLandmarkVisibility float64 `json:"min_landmark_visibility"` // [0, 1]
	UseSmoothing          bool    `json:"use_smoothing"`
	SmoothingFactor       float64 `json:"smoothing_factor"`    // [0.01, 1]
	VelocitySampleSize    int     `json:"velocity_sample_size"` // [2, 10]

	// Collision
	HandColliderRadius      float64 `json:"hand_collider_radius"`      // [0.01, 0.5]
	MinHitVelocity          float64 `json:"min_hit_velocity"`          // [0, 5]
	CollisionDetectionRange float64 `json:"collision_detection_range"` // [0.1, 1]
	HitCooldown             float64 `json:"hit_cooldown"`              // [0, 1] seconds

	// Force resolution
	ForceMultiplier   float64 `json:"force_multiplier"`     // [1, 100]
	MaxForce          float64 `json:"max_force"`            // [10, 500]
	ApplyForceAtPoint bool    `json:"apply_force_at_point"`
	UpwardLiftFactor  float64 `json:"upward_lift_factor"` // [0, 2]
}

// Default returns a Config with empirically tuned default values.
func Default() Config {
	return Config{
		TrackRightHand:          true,
		TrackLeftHand:           true,
		MirrorMode:              true,
		BaseDepthOffset:         2.0,
		DepthScale:              1.0,
		MinLandmarkVisibility:   0.5,
		UseSmoothing:            true,
		SmoothingFactor:         0.35,
		VelocitySampleSize:      5,
		HandColliderRadius:      0.1,
		MinHitVelocity:          0.8,
		CollisionDetectionRange: 0.3,
		HitCooldown:             0.25,
		ForceMultiplier:         20,
		MaxForce:                150,
		ApplyForceAtPoint:       true,
		UpwardLiftFactor:        0.3,
	}
}

// Clamp forces every numeric field into its documented range and returns the
// result. Called on every load path (defaults, store, API) so downstream
// code can rely on the ranges unconditionally.
func (c Config) Clamp() Config {
	c.BaseDepthOffset = clampF(c.BaseDepthOffset, 0.5, 20)
	c.DepthScale = clampF(c.DepthScale, 0, 20)
	c.MinLandmarkVisibility = clampF(c.MinLandmarkVisibility, 0, 1)
	c.SmoothingFactor = clampF(c.SmoothingFactor, 0.01, 1)
	c.VelocitySampleSize = clampI(c.VelocitySampleSize, 2, 10)
	c.HandColliderRadius = clampF(c.HandColliderRadius, 0.01, 0.5)
	c.MinHitVelocity = clampF(c.MinHitVelocity, 0, 5)
	c.CollisionDetectionRange = clampF(c.CollisionDetectionRange, 0.1, 1)
	c.HitCooldown = clampF(c.HitCooldown, 0, 1)
	c.ForceMultiplier = clampF(c.ForceMultiplier, 1, 100)
	c.MaxForce = clampF(c.MaxForce, 10, 500)
	c.UpwardLiftFactor = clampF(c.UpwardLiftFactor, 0, 2)
	return c
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampI(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
