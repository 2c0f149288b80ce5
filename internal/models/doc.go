// Package models defines the core domain models for the Secret Santa service.
//
// # Models
//
//   - Group: a code-identified gift exchange with a member list and a
//     one-way "generated" flag
//   - Member: one participant within exactly one group
//   - Assignment: a directed giver -> receiver edge, written once when
//     pairs are generated
//   - UserGroup: a per-user summary row for the group listing endpoint
//
// Participants are identified by an opaque user ID chosen (or accepted)
// at join time; display names are unique within a group but carry no
// identity beyond it.
//
// # Design Principles
//
//  1. JSON tags match the wire format the web client already speaks
//     (camelCase: userId, isCreator, isGenerated)
//  2. Avoid circular references: rows reference groups by ID string
//  3. Models are plain data; all persistence lives in internal/storage
package models
