package schemas

import (
	"encoding/json"
	"errors"
)

// GameSessionResponse is the uniform submission envelope. It is either
// accepted, carrying a session id, or rejected, carrying an error message;
// the constructors are the only way to build one.
type GameSessionResponse struct {
	ok        bool
	sessionID string
	err       string
}

// Accepted builds a success envelope. An empty id is a programming error.
func Accepted(sessionID string) GameSessionResponse {
	if sessionID == "" {
		panic("schemas: Accepted requires a session id")
	}
	return GameSessionResponse{ok: true, sessionID: sessionID}
}

// Rejected builds a failure envelope.
func Rejected(message string) GameSessionResponse {
	if message == "" {
		message = "unknown error"
	}
	return GameSessionResponse{err: message}
}

func (r GameSessionResponse) Success() bool { return r.ok }

// SessionID returns the id of an accepted submission.
func (r GameSessionResponse) SessionID() (string, bool) {
	return r.sessionID, r.ok
}

// ErrorMessage returns the message of a rejected submission.
func (r GameSessionResponse) ErrorMessage() (string, bool) {
	return r.err, !r.ok
}

type responseWire struct {
	Success   bool    `json:"success"`
	SessionID *string `json:"session_id,omitempty"`
	Error     *string `json:"error,omitempty"`
}

func (r GameSessionResponse) MarshalJSON() ([]byte, error) {
	w := responseWire{Success: r.ok}
	if r.ok {
		w.SessionID = &r.sessionID
	} else {
		msg := r.err
		if msg == "" {
			msg = "unknown error"
		}
		w.Error = &msg
	}
	return json.Marshal(w)
}

// UnmarshalJSON rejects envelopes that carry both or neither of
// session_id and error.
func (r *GameSessionResponse) UnmarshalJSON(data []byte) error {
	var w responseWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch {
	case w.Success && w.SessionID != nil && *w.SessionID != "" && w.Error == nil:
		*r = GameSessionResponse{ok: true, sessionID: *w.SessionID}
	case !w.Success && w.Error != nil && w.SessionID == nil:
		*r = Rejected(*w.Error)
	default:
		return errors.New("schemas: response must carry session_id on success and error on failure")
	}
	return nil
}
