package sipper

// EstimateGear guesses the selected gear from the RPM to speed ratio. It is
// a heuristic tuned for a small hatchback, not a measurement: at idle or
// standstill it reports "N", and ratios outside the known bands report "?".
func EstimateGear(rpm, speed int) string {
	if speed < 2 || rpm < 600 {
		return "N"
	}
	ratio := float64(rpm) / float64(speed)
	switch {
	case ratio > 90 && ratio <= 130:
		return "1"
	case ratio > 60 && ratio <= 90:
		return "2"
	case ratio > 45 && ratio <= 60:
		return "3"
	case ratio > 35 && ratio <= 45:
		return "4"
	case ratio > 25 && ratio <= 35:
		return "5"
	}
	return "?"
}
