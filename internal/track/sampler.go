package track

import "time"

// HandReport is the raw per-hand payload delivered by a tracking device:
// up to 21 landmark positions, handedness, and a confidence score.
type HandReport struct {
	Points     []Vec3  `json:"points"`
	Handedness string  `json:"handedness"` // "Left" or "Right"
	Score      float64 `json:"score"`
}

// Report is one raw device frame: a timestamp plus zero or more hand
// reports. Hands the device lost this frame are simply omitted.
type Report struct {
	TimestampMs int64        `json:"timestamp"`
	Hands       []HandReport `json:"hands"`
}

// Sampler turns raw device reports into per-frame joint maps keyed by hand
// side. It drops hands below a confidence floor and, when a device reports
// the same handedness twice, keeps the higher-scoring one.
type Sampler struct {
	minScore float64
	current  *Frame
}

// NewSampler creates a Sampler that discards hands scoring below minScore.
func NewSampler(minScore float64) *Sampler {
	return &Sampler{minScore: minScore}
}

// Sample converts a raw device report into a Frame and makes it the
// current frame. A report with no usable hands still produces a frame, so
// downstream predicates observe "no signal" rather than a stale frame.
func (s *Sampler) Sample(r Report) *Frame {
	f := &Frame{
		Time:  time.UnixMilli(r.TimestampMs),
		hands: make(map[Side]*Hand, 2),
	}

	for i := range r.Hands {
		hr := &r.Hands[i]
		if hr.Score < s.minScore {
			continue
		}

		side := sideOf(hr.Handedness)
		if side == "" {
			continue
		}

		// Keep the higher-scoring report for a duplicated side.
		if prev := f.hands[side]; prev != nil && prev.score >= hr.Score {
			continue
		}

		h := &Hand{score: hr.Score}
		n := len(hr.Points)
		if n > NumJoints {
			n = NumJoints
		}
		for j := 0; j < n; j++ {
			h.points[j] = hr.Points[j]
			h.present[j] = true
		}
		f.hands[side] = h
	}

	s.current = f
	return f
}

// Current returns the most recently sampled frame, or nil before the first
// sample.
func (s *Sampler) Current() *Frame {
	return s.current
}

func sideOf(handedness string) Side {
	switch handedness {
	case "Left", "left":
		return Left
	case "Right", "right":
		return Right
	}
	return ""
}
