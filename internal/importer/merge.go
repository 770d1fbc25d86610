package importer

import (
	"errors"
	"fmt"

	"github.com/SaxonF/supawatch/internal/sidebar"
)

// ErrNilPayload is returned when Merge is given no payload.
var ErrNilPayload = errors.New("nil template payload")

// Merge folds a classified payload into target and returns the resulting
// specification. The target is never mutated; callers persist the result
// themselves.
//
//   - item: appended to the manual item list of the resolved target group.
//     The group is chosen from explicitGroupID, then the payload's envelope
//     group, then sidebar.DefaultGroupID. Unknown groups and dynamically
//     populated groups fail with the corresponding typed error.
//   - group: appended, or replaces an existing group with the same id at
//     its original position.
//   - spec: replaces target wholesale. Destructive; callers must confirm
//     before committing; the admin service enforces that.
func Merge(target *sidebar.Spec, payload *Payload, explicitGroupID string) (*sidebar.Spec, error) {
	if payload == nil {
		return nil, ErrNilPayload
	}
	switch payload.Kind {
	case KindSpec:
		return payload.Spec.Clone(), nil
	case KindGroup:
		out := target.Clone()
		out.PutGroup(*payload.Group)
		return out, nil
	case KindItem:
		groupID := explicitGroupID
		if groupID == "" {
			groupID = payload.GroupID
		}
		if groupID == "" {
			groupID = sidebar.DefaultGroupID
		}
		out := target.Clone()
		if err := out.AddItem(groupID, *payload.Item); err != nil {
			return nil, err
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown payload kind %q", payload.Kind)
	}
}
