// Package object models the focused 3D object: its transform, and the
// smoothing that chases scale/rotation targets without jitter or
// overshoot.
package object

import "math"

// Chase moves value toward target by the fraction 1 - base^dt, an
// exponential approach. With base 0.02 the value covers ~98% of the
// remaining distance per second.
func Chase(value, target, base, dt float64) float64 {
	if dt <= 0 {
		return value
	}
	return value + (target-value)*(1-math.Pow(base, dt))
}

// WrapAngle wraps an angle into [-π, π].
func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// AngleSpring integrates an angle toward a target with critically damped
// spring dynamics: convergence within roughly the time constant, no
// overshoot, angular speed clamped. Angle deltas are always taken along
// the shortest path, so a target on the far side of the wrap never causes
// a long-way-around spin.
type AngleSpring struct {
	// TimeConstant is the smoothing time, seconds.
	TimeConstant float64
	// MaxSpeed is the angular speed clamp, radians per second.
	MaxSpeed float64

	velocity float64
}

// Step advances the spring by dt seconds and returns the next angle.
func (s *AngleSpring) Step(current, target, dt float64) float64 {
	if dt <= 0 {
		return current
	}

	tc := s.TimeConstant
	if tc < 1e-4 {
		s.velocity = 0
		return target
	}

	// Re-express the target as current + shortest-path delta.
	target = current + WrapAngle(target-current)

	omega := 2 / tc
	x := omega * dt
	decay := 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)

	change := current - target
	if s.MaxSpeed > 0 {
		maxChange := s.MaxSpeed * tc
		change = math.Max(-maxChange, math.Min(maxChange, change))
	}
	clampedTarget := current - change

	temp := (s.velocity + omega*change) * dt
	s.velocity = (s.velocity - omega*temp) * decay
	out := clampedTarget + (change+temp)*decay

	// If integration crossed the target, snap to it and kill the spring.
	if (target-current > 0) == (out > target) {
		out = target
		s.velocity = 0
	}

	return out
}

// Velocity returns the current angular velocity, radians per second.
func (s *AngleSpring) Velocity() float64 {
	return s.velocity
}

// Halt zeroes the carried angular velocity, used when a two-hand session
// dissolves so the object does not keep spinning.
func (s *AngleSpring) Halt() {
	s.velocity = 0
}
