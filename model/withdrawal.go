package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wireskip.dev/core/envelope"
	"wireskip.dev/core/utime"
)

var (
	ErrTerminalState     = errors.New("model: withdrawal is complete")
	ErrInvalidTransition = errors.New("model: invalid withdrawal transition")
)

// WithdrawalState is the lifecycle of a withdrawal. Complete is terminal.
type WithdrawalState int

const (
	WithdrawalPending WithdrawalState = iota
	WithdrawalComplete
)

var withdrawalStateNames = [...]string{
	WithdrawalPending:  "Pending",
	WithdrawalComplete: "Complete",
}

// ParseWithdrawalState maps the canonical (case-sensitive) name to a state.
func ParseWithdrawalState(s string) (WithdrawalState, error) {
	for i, name := range withdrawalStateNames {
		if name == s {
			return WithdrawalState(i), nil
		}
	}
	return 0, envelope.NewError(envelope.KindUnknownVariant, "REC-ENUM-001",
		fmt.Sprintf("unknown withdrawal state %q, expected one of Pending, Complete", s))
}

func (s WithdrawalState) Valid() bool {
	return s >= 0 && int(s) < len(withdrawalStateNames)
}

func (s WithdrawalState) String() string {
	if !s.Valid() {
		return fmt.Sprintf("WithdrawalState(%d)", int(s))
	}
	return withdrawalStateNames[s]
}

func (s WithdrawalState) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, envelope.NewError(envelope.KindUnknownVariant, "REC-ENUM-002", s.String())
	}
	return []byte(s.String()), nil
}

func (s *WithdrawalState) UnmarshalText(text []byte) error {
	parsed, err := ParseWithdrawalState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// WithdrawalStateData is a state together with the time (Unix seconds) it
// was entered. Its fields are inlined into the Withdrawal object.
type WithdrawalStateData struct {
	State        WithdrawalState `json:"state"`
	StateChanged int64           `json:"state_changed"`
}

// To returns the data for entering next at Unix time at.
func (d WithdrawalStateData) To(next WithdrawalState, at int64) (WithdrawalStateData, error) {
	if d.State == WithdrawalComplete {
		return d, ErrTerminalState
	}
	if !next.Valid() || next == d.State {
		return d, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, d.State, next)
	}
	return WithdrawalStateData{State: next, StateChanged: at}, nil
}

// WithdrawalRequest is what a wallet asks to withdraw.
type WithdrawalRequest struct {
	Amount int64 `json:"amount"`
	// "type" is a Go keyword; the wire name is kept as is.
	WType       string `json:"type"`
	Destination string `json:"destination"`
}

func (r *WithdrawalRequest) UnmarshalJSON(data []byte) error {
	obj, err := envelope.DecodeObject(data)
	if err != nil {
		return err
	}
	if err := obj.Require("amount", "type", "destination"); err != nil {
		return err
	}
	var out WithdrawalRequest
	if err := obj.Field("amount", &out.Amount); err != nil {
		return err
	}
	if err := obj.Field("type", &out.WType); err != nil {
		return err
	}
	if err := obj.Field("destination", &out.Destination); err != nil {
		return err
	}
	*r = out
	return nil
}

// Withdrawal is a withdrawal request tracked through its lifecycle. The
// state data is inlined, so "state" and "state_changed" sit next to "id" on
// the wire.
type Withdrawal struct {
	ID string `json:"id"`
	WithdrawalStateData
	WithdrawalRequest WithdrawalRequest `json:"withdrawal_request"`
	Receipt           string            `json:"receipt"`
}

// NewWithdrawal starts a pending withdrawal with a fresh random id.
func NewWithdrawal(req WithdrawalRequest, now time.Time) Withdrawal {
	return Withdrawal{
		ID:                  uuid.NewString(),
		WithdrawalStateData: WithdrawalStateData{State: WithdrawalPending, StateChanged: utime.Unix(now)},
		WithdrawalRequest:   req,
	}
}

// Complete returns w moved to Complete at now with the given receipt.
func (w Withdrawal) Complete(receipt string, now time.Time) (Withdrawal, error) {
	next, err := w.WithdrawalStateData.To(WithdrawalComplete, utime.Unix(now))
	if err != nil {
		return w, err
	}
	w.WithdrawalStateData = next
	w.Receipt = receipt
	return w, nil
}

func (w *Withdrawal) UnmarshalJSON(data []byte) error {
	obj, err := envelope.DecodeObject(data)
	if err != nil {
		return err
	}
	if err := obj.Require("id", "state", "state_changed", "withdrawal_request", "receipt"); err != nil {
		return err
	}
	var out Withdrawal
	if err := obj.Field("id", &out.ID); err != nil {
		return err
	}
	if err := obj.Field("state", &out.State); err != nil {
		return err
	}
	if err := obj.Field("state_changed", &out.StateChanged); err != nil {
		return err
	}
	if err := obj.Field("withdrawal_request", &out.WithdrawalRequest); err != nil {
		return err
	}
	if err := obj.Field("receipt", &out.Receipt); err != nil {
		return err
	}
	*w = out
	return nil
}
