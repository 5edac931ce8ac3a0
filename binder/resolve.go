package binder

import (
	"fmt"

	"github.com/Konsultn-Engineering/sqlstmt/message"
	"github.com/Konsultn-Engineering/sqlstmt/placeholder"
)

// Resolve fetches the raw value for a descriptor from msg. Missing metadata
// resolves to nil.
func Resolve(d placeholder.Descriptor, msg *message.Message) (any, error) {
	switch d.Origin {
	case placeholder.OriginID:
		return msg.ID(), nil
	case placeholder.OriginPayload:
		return msg.Content(), nil
	case placeholder.OriginMetadata:
		v, ok := msg.Metadata(d.QueryString)
		if !ok {
			return nil, nil
		}
		return v, nil
	case placeholder.OriginConstant:
		return d.QueryString, nil
	default:
		return nil, fmt.Errorf("no value source for origin %s", d.Origin)
	}
}
