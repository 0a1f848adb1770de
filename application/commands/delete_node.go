package commands

import "errors"

// DeleteNodeCommand represents the command to remove a node from a session.
// Children are orphaned, never cascade-deleted: an investigator removes one
// step, not the work hanging off it.
type DeleteNodeCommand struct {
	SessionID string `json:"session_id" validate:"required"`
	NodeID    string `json:"node_id" validate:"required"`
}

// Validate validates the command
func (cmd DeleteNodeCommand) Validate() error {
	if cmd.SessionID == "" {
		return errors.New("session ID is required")
	}
	if cmd.NodeID == "" {
		return errors.New("node ID is required")
	}
	return nil
}

// SetNodeTitleCommand represents the command to set or clear a node's custom
// title. An empty title clears the override and derivation takes back over.
type SetNodeTitleCommand struct {
	SessionID string `json:"session_id" validate:"required"`
	NodeID    string `json:"node_id" validate:"required"`
	Title     string `json:"title" validate:"max=200"`
}

// Validate validates the command
func (cmd SetNodeTitleCommand) Validate() error {
	if cmd.SessionID == "" {
		return errors.New("session ID is required")
	}
	if cmd.NodeID == "" {
		return errors.New("node ID is required")
	}
	if len(cmd.Title) > 200 {
		return errors.New("title exceeds maximum length")
	}
	return nil
}

// ImportSessionCommand represents the command to restore a session from an
// exported snapshot
type ImportSessionCommand struct {
	Snapshot []byte `json:"snapshot" validate:"required"`
}

// Validate validates the command
func (cmd ImportSessionCommand) Validate() error {
	if len(cmd.Snapshot) == 0 {
		return errors.New("snapshot payload is required")
	}
	return nil
}
