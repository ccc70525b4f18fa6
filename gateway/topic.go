package gateway

import (
	"strings"

	"github.com/google/uuid"

	"skillswap/tools/errs"
)

// TopicKind enumerates the closed set of subscription shapes the
// gateway accepts. Destinations are parsed into typed variants up
// front; anything that does not match one of the three shapes is
// rejected before authorization is even considered.
type TopicKind int

const (
	// TopicGroup is the group broadcast channel: group/<uuid>.
	TopicGroup TopicKind = iota
	// TopicGroupTyping is the typing indicator channel: group/<uuid>/typing.
	TopicGroupTyping
	// TopicUser is the per-user private channel: user/<uuid>.
	TopicUser
)

type Topic struct {
	Kind TopicKind
	ID   uuid.UUID
}

func GroupTopic(id uuid.UUID) Topic       { return Topic{Kind: TopicGroup, ID: id} }
func GroupTypingTopic(id uuid.UUID) Topic { return Topic{Kind: TopicGroupTyping, ID: id} }
func UserTopic(id uuid.UUID) Topic        { return Topic{Kind: TopicUser, ID: id} }

func (t Topic) String() string {
	switch t.Kind {
	case TopicGroup:
		return "group/" + t.ID.String()
	case TopicGroupTyping:
		return "group/" + t.ID.String() + "/typing"
	case TopicUser:
		return "user/" + t.ID.String()
	}
	return ""
}

// ParseTopic validates a destination string against the known shapes.
func ParseTopic(s string) (Topic, error) {
	parts := strings.Split(s, "/")
	switch {
	case len(parts) == 2 && parts[0] == "user":
		id, err := uuid.Parse(parts[1])
		if err != nil {
			return Topic{}, errs.ErrInvalidArgument.WithDetail("bad user topic id")
		}
		return UserTopic(id), nil
	case len(parts) == 2 && parts[0] == "group":
		id, err := uuid.Parse(parts[1])
		if err != nil {
			return Topic{}, errs.ErrInvalidArgument.WithDetail("bad group topic id")
		}
		return GroupTopic(id), nil
	case len(parts) == 3 && parts[0] == "group" && parts[2] == "typing":
		id, err := uuid.Parse(parts[1])
		if err != nil {
			return Topic{}, errs.ErrInvalidArgument.WithDetail("bad group topic id")
		}
		return GroupTypingTopic(id), nil
	}
	return Topic{}, errs.ErrInvalidArgument.WithDetail("unrecognized topic shape: " + s)
}
