package scoring

import "fmt"

// BallsPerOver is the number of legal deliveries in an over.
const BallsPerOver = 6

// ratio returns num*scale/den rounded half-up to two decimal places, computed on integers
// so that values like 1.005 do not drift. A zero denominator yields 0.
func ratio(num, den, scale int) float64 {
	if den <= 0 || num <= 0 {
		return 0
	}
	hundredths := (2*num*scale*100 + den) / (2 * den)
	return float64(hundredths) / 100
}

// StrikeRate is runs per hundred balls faced.
func StrikeRate(runs, balls int) float64 {
	return ratio(runs, balls, 100)
}

// EconomyRate is runs conceded per six legal balls.
func EconomyRate(runsConceded, legalBalls int) float64 {
	return ratio(runsConceded, legalBalls, BallsPerOver)
}

// RunRate is team runs per over.
func RunRate(runs, legalBalls int) float64 {
	return ratio(runs, legalBalls, BallsPerOver)
}

// RequiredRunRate is the rate needed to score runsNeeded from ballsRemaining.
func RequiredRunRate(runsNeeded, ballsRemaining int) float64 {
	return ratio(runsNeeded, ballsRemaining, BallsPerOver)
}

// OversLabel formats a legal ball count as overs.balls, e.g. 7 -> "1.1".
func OversLabel(legalBalls int) string {
	if legalBalls <= 0 {
		return "0.0"
	}
	return fmt.Sprintf("%d.%d", legalBalls/BallsPerOver, legalBalls%BallsPerOver)
}

// BoundaryPercentage is the share of runs that came in fours and sixes.
func BoundaryPercentage(boundaryRuns, totalRuns int) float64 {
	return ratio(boundaryRuns, totalRuns, 100)
}

// DotBallPercentage is the share of balls faced that produced no runs off the bat.
func DotBallPercentage(dotBalls, ballsFaced int) float64 {
	return ratio(dotBalls, ballsFaced, 100)
}
