package systems

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clamp01 clamps a float32 value to the [0, 1] range.
func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// modInt returns a mod m in [0, m).
func modInt(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

// distanceSq returns the squared distance between two points.
func distanceSq(x1, y1, x2, y2 float32) float32 {
	dx := x1 - x2
	dy := y1 - y2
	return dx*dx + dy*dy
}

// hash01 maps integer coordinates and a seed to a pseudo-random float in [0,1).
func hash01(a, b uint32, seed uint32) float32 {
	h := a*374761393 + b*668265263 + seed*1442695041
	h = (h ^ (h >> 13)) * 1274126177
	h ^= h >> 16
	return float32(h&0x00FFFFFF) / float32(0x01000000)
}
