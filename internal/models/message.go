package models

// Wire message types pushed to websocket clients. The protocol is
// server-push only; clients never send commands over the socket.
const (
	MsgGroupUpdate          = "group_update"
	MsgAssignment           = "assignment"
	MsgAssignmentsGenerated = "assignments_generated"
)

// Envelope is the outer shape of every websocket message.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// AssignmentData carries one member's own pairing: just the display
// name of the person they are gifting.
type AssignmentData struct {
	Receiver string `json:"receiver"`
}

// GeneratedData is the aggregate pairing-generated event. ByUserID maps
// giver ID to receiver display name; Pairs maps giver ID to receiver ID.
type GeneratedData struct {
	ByUserID map[string]string `json:"byUserId"`
	Pairs    map[string]string `json:"pairs"`
}

// GroupUpdateMessage wraps a full group snapshot.
func GroupUpdateMessage(g *Group) Envelope {
	return Envelope{Type: MsgGroupUpdate, Data: g}
}

// AssignmentMessage wraps a member's individual assignment.
func AssignmentMessage(receiver string) Envelope {
	return Envelope{Type: MsgAssignment, Data: AssignmentData{Receiver: receiver}}
}

// AssignmentsGeneratedMessage wraps the aggregate pairing event.
func AssignmentsGeneratedMessage(byUserID, pairs map[string]string) Envelope {
	return Envelope{Type: MsgAssignmentsGenerated, Data: GeneratedData{ByUserID: byUserID, Pairs: pairs}}
}
