// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import "math"

const (
	MinScore = 1
	MaxScore = 10
)

// Rating turns the mean review score into the integer shown to clients.
//
// A nil mean (no reviews) yields nil. Otherwise the mean is rounded half to
// even and clamped to [MinScore, MaxScore].
func Rating(mean *float64) *int {
	if mean == nil || math.IsNaN(*mean) {
		return nil
	}

	rounded := int(math.RoundToEven(*mean))
	rounded = max(MinScore, min(MaxScore, rounded))
	return &rounded
}
