/*
Package nep171 implements the NEP-171 non-fungible token event schema
and the NEP-177 metadata structures.

Events are emitted as log lines of the form

	EVENT_JSON:{"standard":"nep171","version":"1.0.0","event":"nft_mint","data":[...]}

with the data payload depending on the event kind.
*/
package nep171

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nearlabs/nftoken/pkg/account"
	ordered "github.com/nspcc-dev/go-ordered-json"
	"go.uber.org/zap"
)

// Standard and Version identify the event schema.
const (
	Standard = "nep171"
	Version  = "1.0.0"
)

// EventPrefix marks an event log line.
const EventPrefix = "EVENT_JSON:"

// Event kinds.
const (
	EventMint     = "nft_mint"
	EventTransfer = "nft_transfer"
	EventBurn     = "nft_burn"
)

// Event line parsing errors.
var (
	ErrNoPrefix      = errors.New("missing EVENT_JSON prefix")
	ErrBadEventKeys  = errors.New("unexpected top-level event keys")
	ErrUnknownEvent  = errors.New("unknown event kind")
	ErrBadEventData  = errors.New("malformed event data")
	ErrWrongStandard = errors.New("unexpected event standard")
)

// MintData is the payload of a single nft_mint event entry.
type MintData struct {
	OwnerID  account.ID `json:"owner_id"`
	TokenIDs []string   `json:"token_ids"`
	Memo     string     `json:"memo,omitempty"`
}

// TransferData is the payload of a single nft_transfer event entry.
// AuthorizedID is set when the transfer was performed through an
// approval rather than by the owner.
type TransferData struct {
	OldOwnerID   account.ID `json:"old_owner_id"`
	NewOwnerID   account.ID `json:"new_owner_id"`
	TokenIDs     []string   `json:"token_ids"`
	AuthorizedID account.ID `json:"authorized_id,omitempty"`
	Memo         string     `json:"memo,omitempty"`
}

// BurnData is the payload of a single nft_burn event entry.
type BurnData struct {
	OwnerID      account.ID `json:"owner_id"`
	TokenIDs     []string   `json:"token_ids"`
	AuthorizedID account.ID `json:"authorized_id,omitempty"`
	Memo         string     `json:"memo,omitempty"`
}

// Event is a complete NEP-171 event. Data holds a slice of MintData,
// TransferData or BurnData matching the Event kind.
type Event struct {
	Standard string      `json:"standard"`
	Version  string      `json:"version"`
	Event    string      `json:"event"`
	Data     interface{} `json:"data"`
}

// MintEvent creates an nft_mint event.
func MintEvent(data ...MintData) Event {
	return Event{Standard: Standard, Version: Version, Event: EventMint, Data: data}
}

// TransferEvent creates an nft_transfer event.
func TransferEvent(data ...TransferData) Event {
	return Event{Standard: Standard, Version: Version, Event: EventTransfer, Data: data}
}

// BurnEvent creates an nft_burn event.
func BurnEvent(data ...BurnData) Event {
	return Event{Standard: Standard, Version: Version, Event: EventBurn, Data: data}
}

// JSON returns the compact JSON encoding of the event with the fixed
// standard/version/event/data key order.
func (e Event) JSON() string {
	b, err := json.Marshal(e)
	if err != nil {
		// All payload types are marshalable, this can't happen with
		// events produced by this package.
		panic(fmt.Sprintf("event marshaling: %v", err))
	}
	return string(b)
}

// String returns the full log line including the EVENT_JSON prefix.
func (e Event) String() string {
	return EventPrefix + e.JSON()
}

// Emit writes the event log line through the given logger at Info
// level. The line itself is the message, the way contract runtimes
// surface it.
func (e Event) Emit(log *zap.Logger) {
	log.Info(e.String())
}

// eventKeys is the only allowed top-level key sequence.
var eventKeys = []string{"standard", "version", "event", "data"}

// Parse validates a log line against the NEP-171 event schema and
// decodes it. The top-level object must contain exactly the keys
// standard, version, event and data in that order.
func Parse(line string) (Event, error) {
	if !strings.HasPrefix(line, EventPrefix) {
		return Event{}, ErrNoPrefix
	}
	raw := strings.TrimPrefix(line, EventPrefix)

	d := ordered.NewDecoder(bytes.NewBufferString(raw))
	d.UseOrderedObject()
	var v interface{}
	if err := d.Decode(&v); err != nil {
		return Event{}, fmt.Errorf("event line is not valid JSON: %w", err)
	}
	obj, ok := v.(ordered.OrderedObject)
	if !ok {
		return Event{}, fmt.Errorf("%w: not an object", ErrBadEventKeys)
	}
	if len(obj) != len(eventKeys) {
		return Event{}, fmt.Errorf("%w: got %d keys", ErrBadEventKeys, len(obj))
	}
	for i := range obj {
		if obj[i].Key != eventKeys[i] {
			return Event{}, fmt.Errorf("%w: %q at position %d", ErrBadEventKeys, obj[i].Key, i)
		}
	}

	var head struct {
		Standard string          `json:"standard"`
		Version  string          `json:"version"`
		Event    string          `json:"event"`
		Data     json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal([]byte(raw), &head); err != nil {
		return Event{}, fmt.Errorf("event line is not valid JSON: %w", err)
	}
	if head.Standard != Standard {
		return Event{}, fmt.Errorf("%w: %q", ErrWrongStandard, head.Standard)
	}
	if len(head.Data) == 0 || head.Data[0] != '[' {
		return Event{}, fmt.Errorf("%w: data is not an array", ErrBadEventData)
	}

	ev := Event{Standard: head.Standard, Version: head.Version, Event: head.Event}
	switch head.Event {
	case EventMint:
		var data []MintData
		if err := json.Unmarshal(head.Data, &data); err != nil {
			return Event{}, fmt.Errorf("%w: %v", ErrBadEventData, err)
		}
		ev.Data = data
	case EventTransfer:
		var data []TransferData
		if err := json.Unmarshal(head.Data, &data); err != nil {
			return Event{}, fmt.Errorf("%w: %v", ErrBadEventData, err)
		}
		ev.Data = data
	case EventBurn:
		var data []BurnData
		if err := json.Unmarshal(head.Data, &data); err != nil {
			return Event{}, fmt.Errorf("%w: %v", ErrBadEventData, err)
		}
		ev.Data = data
	default:
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownEvent, head.Event)
	}
	return ev, nil
}
