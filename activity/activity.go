package activity

import (
	"time"

	"github.com/google/uuid"
)

// Activity types dispatched by the host.
const (
	TypeMessage            = "message"
	TypeConversationUpdate = "conversationUpdate"
	TypeEvent              = "event"
)

// NotificationType identifies the kind of agent notification carried by an
// event activity.
type NotificationType string

// Known notification types.
const (
	NotificationEmail   NotificationType = "emailNotification"
	NotificationGeneric NotificationType = "agentNotification"
)

// EventNameAgentNotification is the event activity name carrying a
// notification payload.
const EventNameAgentNotification = "application/vnd.microsoft.agentNotification"

// ChannelAccount identifies a user or agent on a channel. TenantID and
// AgenticAppID on the recipient scope the observability token cache.
type ChannelAccount struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	AADObjectID  string `json:"aadObjectId,omitempty"`
	TenantID     string `json:"tenantId,omitempty"`
	AgenticAppID string `json:"agenticAppId,omitempty"`
}

// Conversation identifies the conversation an activity belongs to.
type Conversation struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	TenantID string `json:"tenantId,omitempty"`
	IsGroup  bool   `json:"isGroup,omitempty"`
}

// Notification is the payload of an agent notification event activity.
type Notification struct {
	NotificationType NotificationType `json:"notificationType"`
	Channel          string           `json:"channel,omitempty"`
	SubChannel       string           `json:"subChannel,omitempty"`
	Payload          map[string]any   `json:"payload,omitempty"`
}

// Activity is a single inbound or outbound unit in the messaging protocol.
type Activity struct {
	Type         string           `json:"type"`
	ID           string           `json:"id,omitempty"`
	Timestamp    string           `json:"timestamp,omitempty"`
	ServiceURL   string           `json:"serviceUrl,omitempty"`
	ChannelID    string           `json:"channelId,omitempty"`
	From         ChannelAccount   `json:"from,omitempty"`
	Recipient    ChannelAccount   `json:"recipient,omitempty"`
	Conversation Conversation     `json:"conversation,omitempty"`
	Text         string           `json:"text,omitempty"`
	TextFormat   string           `json:"textFormat,omitempty"`
	Locale       string           `json:"locale,omitempty"`
	Name         string           `json:"name,omitempty"`
	Value        any              `json:"value,omitempty"`
	ReplyToID    string           `json:"replyToId,omitempty"`
	MembersAdded []ChannelAccount `json:"membersAdded,omitempty"`

	// Notification is decoded from Value for agent notification events.
	Notification *Notification `json:"-"`
}

// TenantID returns the recipient tenant identifier, falling back to "local"
// when the activity carries none.
func (a *Activity) TenantID() string {
	if a.Recipient.TenantID != "" {
		return a.Recipient.TenantID
	}
	if a.Conversation.TenantID != "" {
		return a.Conversation.TenantID
	}
	return "local"
}

// AgentID returns the recipient agentic app identifier, falling back to
// "local" when the activity carries none.
func (a *Activity) AgentID() string {
	if a.Recipient.AgenticAppID != "" {
		return a.Recipient.AgenticAppID
	}
	return "local"
}

// IsNotification reports whether the activity is an agent notification event.
func (a *Activity) IsNotification() bool {
	return a.Type == TypeEvent && a.Name == EventNameAgentNotification
}

// NewReply builds an outbound text message activity addressed back to the
// sender of the inbound activity.
func NewReply(to *Activity, text string) *Activity {
	return &Activity{
		Type:         TypeMessage,
		ID:           uuid.NewString(),
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		ServiceURL:   to.ServiceURL,
		ChannelID:    to.ChannelID,
		From:         to.Recipient,
		Recipient:    to.From,
		Conversation: to.Conversation,
		Text:         text,
		ReplyToID:    to.ID,
	}
}

// NewEmailResponse wraps a reply text in the email response envelope expected
// for email-type notifications.
func NewEmailResponse(to *Activity, text string) *Activity {
	reply := NewReply(to, text)
	reply.Type = TypeEvent
	reply.Name = "application/vnd.microsoft.emailResponse"
	reply.Value = map[string]any{"body": text, "bodyType": "text"}
	return reply
}
