// Package render owns the display contract for prediction results: the label
// verbatim, the confidence with exactly two digits after the decimal point.
package render

import "strconv"

// FormatScore renders a confidence score with exactly two decimals, so a raw
// 0.9 displays as "0.90".
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 2, 64)
}

func SentimentLine(label string) string {
	return "Sentiment: " + label
}

func ConfidenceLine(score float64) string {
	return "Confidence Score: " + FormatScore(score)
}
