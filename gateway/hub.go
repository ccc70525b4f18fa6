package gateway

import (
	"github.com/google/uuid"

	"skillswap/logger"
	"skillswap/module/chat/service"
)

// Hub routes outbound events onto live connections. It implements
// service.Pusher: the storing components call it after a successful
// durable write and never learn whether delivery happened; a topic
// with no subscribers simply drops the event.
type Hub struct {
	reg   *Registry
	fan   *Fanout
	relay *Relay // nil when running single-node
}

func NewHub(reg *Registry, fan *Fanout, relay *Relay) *Hub {
	return &Hub{reg: reg, fan: fan, relay: relay}
}

// PushUser delivers to every connection subscribed to the user's
// private topic.
func (h *Hub) PushUser(user uuid.UUID, ev service.Event) {
	h.push(UserTopic(user), ev)
}

// PushGroup delivers to every connection subscribed to the group's
// broadcast topic.
func (h *Hub) PushGroup(group uuid.UUID, ev service.Event) {
	h.push(GroupTopic(group), ev)
}

// PushTyping relays a typing indicator; nothing is persisted.
func (h *Hub) PushTyping(group uuid.UUID, data any) {
	h.push(GroupTypingTopic(group), service.Event{Type: "typing", Data: data})
}

func (h *Hub) push(topic Topic, ev service.Event) {
	payload, err := BuildEventFrame(topic, ev.Type, ev.Data)
	if err != nil {
		logger.Warnf("[hub] marshal event %s: %v", ev.Type, err)
		return
	}
	h.DeliverLocal(topic.String(), payload)
	if h.relay != nil {
		h.relay.Publish(topic.String(), payload)
	}
}

// DeliverLocal fans the payload out to local subscribers. Also the
// entry point for events arriving over the relay.
func (h *Hub) DeliverLocal(topic string, payload []byte) {
	h.fan.Broadcast(h.reg.Subscribers(topic), payload)
}
