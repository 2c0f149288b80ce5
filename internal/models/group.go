package models

// Group represents one Secret Santa exchange.
//
// Once IsGenerated flips to true the group is permanently locked: no
// further joins are accepted and the assignment set is immutable.
type Group struct {
	// ID is the short join code for the group (5 chars, A-Z0-9).
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Office Party 2026").
	Name string `json:"name"`

	// Creator is the display name of the member who created the group.
	Creator string `json:"creator"`

	// Members is the full member list, including the creator.
	Members []Member `json:"members"`

	// IsGenerated reports whether pairs have been generated.
	IsGenerated bool `json:"isGenerated"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"-"`
}

// Member is one participant's identity within a single group.
type Member struct {
	// GroupID is the group this member belongs to.
	GroupID string `json:"-"`

	// UserID is the participant's opaque identity, unique within the group.
	UserID string `json:"userId"`

	// Name is the display name, unique within the group (case-sensitive).
	Name string `json:"name"`

	// IsCreator is true for exactly one member per group.
	IsCreator bool `json:"isCreator"`
}

// Assignment is a directed giver -> receiver edge within a group.
// The full assignment set of a generated group forms a single cycle
// covering every member exactly once in each role.
type Assignment struct {
	GroupID    string `json:"-"`
	GiverID    string `json:"giverId"`
	ReceiverID string `json:"receiverId"`

	// ReceiverName is the receiver's display name, joined in by the
	// storage layer for queries that need it. Not a column.
	ReceiverName string `json:"-"`
}

// UserGroup is a summary row for "which groups does this user belong to".
type UserGroup struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsGenerated bool   `json:"isGenerated"`
	IsCreator   bool   `json:"isCreator"`
}
