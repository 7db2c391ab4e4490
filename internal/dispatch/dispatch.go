// Package dispatch exposes named admin operations to untrusted callers
// behind capability and anti-forgery checks. A dispatcher is constructed
// with its full action map; nothing registers itself globally.
package dispatch

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
)

// Error carries the HTTP status class for a failed action. Handlers return
// one of these (or wrap another error) to pick the failure envelope.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NotFound builds a 404-class action error.
func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

// Forbidden builds a 403-class action error.
func Forbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Message: message}
}

// Invalid builds a 500-class action error for bad input or runtime
// failures, matching the single validation/runtime failure class of the
// action envelope.
func Invalid(message string) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: message}
}

// Payload is the flat string-keyed request body handed to action handlers.
// Values are strings or lists of scalars, as decoded from the transport.
type Payload map[string]any

// String returns the trimmed string value for key, or "".
func (p Payload) String(key string) string {
	switch v := p[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "1"
		}
		return "0"
	default:
		return ""
	}
}

// ID returns the positive integer value for key, or 0.
func (p Payload) ID(key string) uint {
	return parseID(p.String(key))
}

// Has reports whether the key was present in the request at all, which is
// distinct from it carrying an empty value.
func (p Payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// IDs decodes an id collection accepted either as a comma-separated string
// or as a native list of scalars. Order is preserved, duplicates and
// non-positive entries are dropped silently.
func (p Payload) IDs(key string) []uint {
	var raw []string
	switch v := p[key].(type) {
	case string:
		raw = strings.Split(v, ",")
	case []any:
		for _, item := range v {
			switch scalar := item.(type) {
			case string:
				raw = append(raw, scalar)
			case float64:
				raw = append(raw, strconv.FormatFloat(scalar, 'f', -1, 64))
			}
		}
	case []string:
		raw = v
	}

	seen := make(map[uint]struct{}, len(raw))
	ids := make([]uint, 0, len(raw))
	for _, token := range raw {
		id := parseID(token)
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// Strings decodes a list of strings accepted either as a comma-separated
// string or as a native list. Entries are trimmed; empty entries are kept
// out.
func (p Payload) Strings(key string) []string {
	var raw []string
	switch v := p[key].(type) {
	case string:
		raw = strings.Split(v, ",")
	case []string:
		raw = v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseID(token string) uint {
	n, err := strconv.ParseUint(strings.TrimSpace(token), 10, 32)
	if err != nil {
		return 0
	}
	return uint(n)
}

// Handler executes one action against an already checked payload.
type Handler func(Payload) (map[string]any, error)

// Action declares a named operation: the capability the caller must hold
// and the nonce scope the request token must verify against. An empty
// scope bypasses the nonce check entirely; that fail-open is an explicit
// opt-out for actions whose output is public anyway, not an oversight.
type Action struct {
	Name       string
	Capability string
	NonceScope string
	Handler    Handler
}

// Info is the published shape of one catalog entry, enough for an admin UI
// to build matching nonces and action names.
type Info struct {
	Name       string `json:"name"`
	Capability string `json:"capability"`
	NonceScope string `json:"nonceScope"`
}

// Caller abstracts the authenticated requester.
type Caller interface {
	Can(capability string) bool
	VerifyNonce(token, scope string) bool
}

// Result is the uniform response envelope for one dispatched action.
type Result struct {
	Status int
	Body   map[string]any
}

// ResultHook may extend a successful action's data before it is sent.
type ResultHook func(action string, data map[string]any) map[string]any

// Dispatcher routes incoming action requests. It is stateless across
// requests; every request is checked and dispatched independently.
type Dispatcher struct {
	actions map[string]Action
	order   []string
	hooks   []ResultHook
}

// NewDispatcher builds a dispatcher from an action list. Malformed entries
// (missing name or handler) are logged and skipped rather than failing
// construction; a later duplicate name is likewise skipped.
func NewDispatcher(actions []Action) *Dispatcher {
	d := &Dispatcher{actions: make(map[string]Action, len(actions))}
	for _, action := range actions {
		name := strings.TrimSpace(action.Name)
		if name == "" || action.Handler == nil {
			log.Printf("dispatch: skipping malformed action registration %q", action.Name)
			continue
		}
		if _, ok := d.actions[name]; ok {
			log.Printf("dispatch: skipping duplicate action %q", name)
			continue
		}
		action.Name = name
		d.actions[name] = action
		d.order = append(d.order, name)
	}
	return d
}

// AddResultHook appends a post-processing hook for successful results.
func (d *Dispatcher) AddResultHook(hook ResultHook) {
	if hook != nil {
		d.hooks = append(d.hooks, hook)
	}
}

// Catalog publishes every registered action in registration order.
func (d *Dispatcher) Catalog() []Info {
	out := make([]Info, 0, len(d.order))
	for _, name := range d.order {
		action := d.actions[name]
		out = append(out, Info{Name: action.Name, Capability: action.Capability, NonceScope: action.NonceScope})
	}
	return out
}

// Dispatch runs one request through the check pipeline: action lookup,
// capability, nonce, then the handler. The capability check always runs
// before the nonce check, so an unauthorized caller learns nothing about
// token validity. Handler errors never escape; they become the failure
// envelope with the error message and no further detail.
func (d *Dispatcher) Dispatch(caller Caller, actionName, nonce string, payload Payload) Result {
	action, ok := d.actions[strings.TrimSpace(actionName)]
	if !ok {
		return failure(http.StatusNotFound, "Unknown action")
	}

	if !caller.Can(action.Capability) {
		return failure(http.StatusForbidden, "Not allowed")
	}

	if action.NonceScope != "" && !caller.VerifyNonce(nonce, action.NonceScope) {
		return failure(http.StatusForbidden, "Nonce verification failed")
	}

	if payload == nil {
		payload = Payload{}
	}
	data, err := action.Handler(payload)
	if err != nil {
		var actionErr *Error
		if errors.As(err, &actionErr) {
			return failure(actionErr.Status, actionErr.Message)
		}
		return failure(http.StatusInternalServerError, err.Error())
	}

	if data == nil {
		data = map[string]any{}
	}
	data["action"] = action.Name
	for _, hook := range d.hooks {
		if extended := hook(action.Name, data); extended != nil {
			data = extended
		}
	}

	return Result{Status: http.StatusOK, Body: map[string]any{"success": true, "data": data}}
}

func failure(status int, message string) Result {
	return Result{Status: status, Body: map[string]any{"message": message}}
}
