package analytics

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Report holds the engagement metrics returned by the analytics endpoint
type Report struct {
	Username       string  `json:"username"`
	Followers      int     `json:"followers"`
	AvgLikes       int     `json:"avgLikes"`
	AvgComments    int     `json:"avgComments"`
	EngagementRate RateVal `json:"engagementRate"`
}

// RateVal is an engagement rate percentage. The endpoint serializes it
// either as a JSON number or as a numeric string.
type RateVal float64

// UnmarshalJSON accepts both number and string encodings of the rate
func (r *RateVal) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*r = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			return fmt.Errorf("invalid engagement rate %q: %w", str, err)
		}
		*r = RateVal(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("invalid engagement rate %s: %w", s, err)
	}
	*r = RateVal(f)
	return nil
}

// Float returns the rate as a plain float64 percentage
func (r RateVal) Float() float64 {
	return float64(r)
}

// checkRequest is the JSON body sent to the endpoint
type checkRequest struct {
	Username string `json:"username"`
}

// errorEnvelope is the error shape the endpoint emits, on success and
// failure statuses alike
type errorEnvelope struct {
	Error string `json:"error"`
}
