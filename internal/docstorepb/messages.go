package docstorepb

import (
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

// Order directions accepted by List.
const (
	Ascending  = "asc"
	Descending = "desc"
)

// StatusOK is the Ping status of a healthy server.
const StatusOK = "OK"

// Timestamp is the {seconds, nanos} wrapper used for instants on the wire.
type Timestamp struct {
	Seconds int64 `json:"seconds"`
	Nanos   int32 `json:"nanos"`
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Seconds: t.Unix(), Nanos: int32(t.Nanosecond())}
}

func (t Timestamp) AsTime() time.Time {
	return time.Unix(t.Seconds, int64(t.Nanos)).UTC()
}

type ListRequest struct {
	Collection string `json:"collection"`
	OwnerID    string `json:"ownerId"`
	OrderField string `json:"orderField,omitempty"`
	Direction  string `json:"direction,omitempty"`
}

type ListResponse struct {
	Documents []map[string]any `json:"documents"`
}

type CreateRequest struct {
	Collection string         `json:"collection"`
	Fields     map[string]any `json:"fields"`
}

type CreateResponse struct {
	ID        string    `json:"id"`
	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

type UpdateRequest struct {
	Collection string         `json:"collection"`
	ID         string         `json:"id"`
	Patch      map[string]any `json:"patch"`
}

type DeleteRequest struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
}

type PingResponse struct {
	Status string `json:"status"`
}

type PresignUploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type PresignDownloadRequest struct {
	Key string `json:"key"`
}

type PresignDownloadResponse struct {
	URL string `json:"url"`
}

type Empty struct{}

// Encode converts a JSON-tagged message into a Struct.
func Encode(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return s, nil
}

// Decode fills the JSON-tagged message v from s. A nil Struct decodes as
// an empty message.
func Decode(s *structpb.Struct, v any) error {
	m := map[string]any{}
	if s != nil {
		m = s.AsMap()
	}
	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	return nil
}

type asTimer interface {
	AsTime() time.Time
}

// EncodeFields prepares record fields for the wire. Top-level instants
// become Timestamp wrappers; everything else is left to JSON encoding.
func EncodeFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		switch t := v.(type) {
		case time.Time:
			out[k] = NewTimestamp(t)
		case *time.Time:
			if t == nil {
				out[k] = nil
				continue
			}
			out[k] = NewTimestamp(*t)
		case asTimer:
			out[k] = NewTimestamp(t.AsTime())
		default:
			out[k] = v
		}
	}
	return out
}
