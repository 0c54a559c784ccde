package model

import "fmt"

// Status is the body returned alongside non-success HTTP responses.
type Status struct {
	Code uint16 `json:"code"`
	Desc string `json:"description"`
}

func NewStatus(code uint16, desc string) *Status {
	return &Status{Code: code, Desc: desc}
}

func (s *Status) Error() string {
	if s == nil {
		return ""
	}
	return fmt.Sprintf("%d: %s", s.Code, s.Desc)
}
