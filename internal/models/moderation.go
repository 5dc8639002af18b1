package models

import (
	"time"

	"github.com/google/uuid"
)

// ModerationEntity says which entity kind a moderation comment targets.
type ModerationEntity string

const (
	ModerationExhibition   ModerationEntity = "exhibition"
	ModerationOrganization ModerationEntity = "organization"
)

// ModerationComment is one append-only entry in an entity's moderation audit
// trail. Comments are never updated or deleted; AuthorID goes nil when the
// author's account is deleted.
type ModerationComment struct {
	ID        uuid.UUID        `json:"id"`
	Entity    ModerationEntity `json:"entity"`
	EntityID  uuid.UUID        `json:"entity_id"`
	AuthorID  *uuid.UUID       `json:"author_id"`
	Text      string           `json:"text"`
	CreatedAt time.Time        `json:"created_at"`
}

// AdminActionType identifies an administrative action for the audit log.
type AdminActionType string

const (
	ActionUpdateExhibitionStatus AdminActionType = "update_exhibition_status"
	ActionUpdateOrgStatus        AdminActionType = "update_org_status"
	ActionBlockUser              AdminActionType = "block_user"
	ActionUnblockUser            AdminActionType = "unblock_user"
)

// AdminAction is one append-only row in the administrative audit log. The
// actor and target references go nil when the referenced row is deleted; the
// action itself is kept.
type AdminAction struct {
	ID                 uuid.UUID       `json:"id"`
	ActionType         AdminActionType `json:"action_type"`
	AdminID            *uuid.UUID      `json:"admin_id"`
	TargetUserID       *uuid.UUID      `json:"target_user_id,omitempty"`
	TargetOrgID        *uuid.UUID      `json:"target_org_id,omitempty"`
	TargetExhibitionID *uuid.UUID      `json:"target_exhibition_id,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}
