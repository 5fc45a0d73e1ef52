package storage

import "time"

// Chat is a persisted support conversation between a client and, once
// routed, an operator.
type Chat struct {
	ID         int64      `gorm:"primaryKey" json:"id"`
	ClientID   int64      `gorm:"column:client_id;not null;index" json:"client_id"`
	OperatorID *int64     `gorm:"column:operator_id;index" json:"operator_id,omitempty"`
	Active     bool       `gorm:"column:active;default:true;index" json:"active"`
	ClosedAt   *time.Time `gorm:"column:closed_at" json:"closed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	Participants []ChatParticipant `gorm:"foreignKey:ChatID" json:"participants,omitempty"`
	Transfers    []ChatTransfer    `gorm:"foreignKey:ChatID" json:"transfers,omitempty"`
}

func (Chat) TableName() string {
	return "chats"
}

// ChatParticipant records a user's membership window in a chat.
type ChatParticipant struct {
	ID       int64      `gorm:"primaryKey" json:"id"`
	ChatID   int64      `gorm:"column:chat_id;not null;index" json:"chat_id"`
	UserID   int64      `gorm:"column:user_id;not null;index" json:"user_id"`
	Role     string     `gorm:"size:20;not null" json:"role"`
	JoinedAt time.Time  `gorm:"column:joined_at;not null" json:"joined_at"`
	LeftAt   *time.Time `gorm:"column:left_at" json:"left_at,omitempty"`
}

func (ChatParticipant) TableName() string {
	return "chat_participants"
}

// ChatTransfer is the audit trail row for a hand-off between operators.
type ChatTransfer struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	ChatID         int64     `gorm:"column:chat_id;not null;index" json:"chat_id"`
	FromOperatorID int64     `gorm:"column:from_operator_id;not null" json:"from_operator_id"`
	ToOperatorID   int64     `gorm:"column:to_operator_id;not null" json:"to_operator_id"`
	Reason         string    `gorm:"size:50" json:"reason,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func (ChatTransfer) TableName() string {
	return "chat_transfers"
}

// LawyerAssignment binds a client to a personal lawyer. At most one active
// row per client.
type LawyerAssignment struct {
	ID        int64      `gorm:"primaryKey" json:"id"`
	ClientID  int64      `gorm:"column:client_id;not null;index" json:"client_id"`
	LawyerID  int64      `gorm:"column:lawyer_id;not null;index" json:"lawyer_id"`
	ChatID    int64      `gorm:"column:chat_id;not null" json:"chat_id"`
	Active    bool       `gorm:"column:active;default:true;index" json:"active"`
	RevokedAt *time.Time `gorm:"column:revoked_at" json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (LawyerAssignment) TableName() string {
	return "lawyer_assignments"
}

// User carries the role the engine resolves when an operator comes online
// without announcing a kind.
type User struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100" json:"name"`
	Role      string    `gorm:"size:20;not null;default:'client'" json:"role"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}
