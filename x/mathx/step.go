package mathx

import "golang.org/x/exp/constraints"

// StepToward moves cur toward target by at most step, never overshooting.
// step == 0 returns cur unchanged.
func StepToward[T constraints.Unsigned](cur, target, step T) T {
	if cur < target {
		if d := target - cur; d <= step {
			return target
		}
		return cur + step
	}
	if d := cur - target; d <= step {
		return target
	}
	return cur - step
}
