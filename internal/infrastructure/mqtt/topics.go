package mqtt

import "strings"

// Topics builds the topic tree of one room. Every client in the room
// publishes its changes under its own sender segment:
//
//	{prefix}/{creator}/{room}/events/{sender}/{event}
//	{prefix}/{creator}/{room}/presence/{sender}
//
// Event names keep their dots, e.g. "Shapes.Position.Update".
type Topics struct {
	Prefix      string
	RoomCreator string
	RoomName    string
}

func (t Topics) room() string {
	return t.Prefix + "/" + t.RoomCreator + "/" + t.RoomName
}

// Event returns the topic sender publishes event on.
func (t Topics) Event(sender, event string) string {
	return t.room() + "/events/" + sender + "/" + event
}

// AllEvents matches every event of every sender in the room.
func (t Topics) AllEvents() string {
	return t.room() + "/events/+/+"
}

// Presence is the retained online/offline topic of sender.
func (t Topics) Presence(sender string) string {
	return t.room() + "/presence/" + sender
}

// ParseEvent splits an event topic of this room into sender and event.
// ok is false for topics outside the room's event tree.
func (t Topics) ParseEvent(topic string) (sender, event string, ok bool) {
	rest, found := strings.CutPrefix(topic, t.room()+"/events/")
	if !found {
		return "", "", false
	}
	sender, event, found = strings.Cut(rest, "/")
	if !found || sender == "" || event == "" || strings.Contains(event, "/") {
		return "", "", false
	}
	return sender, event, true
}
