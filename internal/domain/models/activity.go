package models

import (
	"encoding/xml"
	"time"
)

// Permission grants a user access to a Shared asset
type Permission struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	AssetID   string    `json:"asset_id"`
	AssetType string    `json:"asset_type"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is a note attached to an asset
type Comment struct {
	ID              string    `json:"id" xml:"id"`
	UserID          string    `json:"user_id" xml:"user-id"`
	CommentableID   string    `json:"commentable_id" xml:"commentable-id"`
	CommentableType string    `json:"commentable_type" xml:"commentable-type"`
	Comment         string    `json:"comment" xml:"comment"`
	CreatedAt       time.Time `json:"created_at" xml:"created-at"`
}

// Task is a to-do item that may be attached to an asset
type Task struct {
	XMLName     xml.Name   `json:"-" xml:"task"`
	ID          string     `json:"id" xml:"id"`
	UserID      string     `json:"user_id" xml:"user-id"`
	AssignedTo  *string    `json:"assigned_to" xml:"assigned-to,omitempty"`
	AssetID     *string    `json:"asset_id" xml:"asset-id,omitempty"`
	AssetType   *string    `json:"asset_type" xml:"asset-type,omitempty"`
	Name        string     `json:"name" xml:"name"`
	Category    string     `json:"category" xml:"category"`
	Bucket      string     `json:"bucket" xml:"bucket"`
	DueAt       *time.Time `json:"due_at" xml:"due-at,omitempty"`
	CompletedAt *time.Time `json:"completed_at" xml:"completed-at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" xml:"created-at"`
	UpdatedAt   time.Time  `json:"updated_at" xml:"updated-at"`
}

// AttachedTo reports whether the task belongs to the given asset
func (t *Task) AttachedTo(assetType, assetID string) bool {
	return StringValue(t.AssetType) == assetType && StringValue(t.AssetID) == assetID
}

// Version is an audit trail entry
type Version struct {
	ID        string    `json:"id"`
	ItemType  string    `json:"item_type"`
	ItemID    string    `json:"item_id"`
	Event     string    `json:"event"`
	Whodunnit string    `json:"whodunnit"`
	CreatedAt time.Time `json:"created_at"`
}
