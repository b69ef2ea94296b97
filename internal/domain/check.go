package domain

import "errors"

var (
	ErrCheckNotFound    = errors.New("check not found")
	ErrMaxChecksReached = errors.New("the user already has the maximum number of checks")
)

// Check is a user-owned monitoring configuration. Its id is a random
// 20-character string; UserPhone is the owning user's key.
type Check struct {
	ID             string `json:"id"`
	UserPhone      string `json:"userPhone"`
	Protocol       string `json:"protocol"`
	URL            string `json:"url"`
	Method         string `json:"method"`
	SuccessCodes   []int  `json:"successCodes"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}
