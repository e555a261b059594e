package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MaxNotifications caps the stored list; the oldest entries fall off.
const MaxNotifications = 50

type Notification struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"` // booking_created, booking_status, ...
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Link      string    `json:"link,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifications keeps a newest-first list per user.
type Notifications struct {
	p     Persistence
	now   func() time.Time
	locks keyLocks
}

func NewNotifications(p Persistence) *Notifications {
	return &Notifications{p: p, now: time.Now}
}

func notificationsKey(userID string) string { return "notifications:" + userID }

func (n *Notifications) List(ctx context.Context, userID string) ([]Notification, error) {
	out := []Notification{}
	if err := loadJSON(ctx, n.p, notificationsKey(userID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Push prepends nt, filling ID and CreatedAt when empty, and returns it.
func (n *Notifications) Push(ctx context.Context, userID string, nt Notification) (Notification, error) {
	if nt.ID == "" {
		nt.ID = uuid.NewString()
	}
	if nt.CreatedAt.IsZero() {
		nt.CreatedAt = n.now().UTC()
	}
	err := n.update(ctx, userID, func(list *[]Notification) bool {
		*list = append([]Notification{nt}, *list...)
		if len(*list) > MaxNotifications {
			*list = (*list)[:MaxNotifications]
		}
		return true
	})
	if err != nil {
		return Notification{}, err
	}
	return nt, nil
}

// MarkRead reports whether a notification with that id exists.
func (n *Notifications) MarkRead(ctx context.Context, userID, id string) (bool, error) {
	var found bool
	err := n.update(ctx, userID, func(list *[]Notification) bool {
		found = false
		for i := range *list {
			if (*list)[i].ID == id {
				(*list)[i].Read, found = true, true
				break
			}
		}
		return found
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

func (n *Notifications) MarkAllRead(ctx context.Context, userID string) error {
	return n.update(ctx, userID, func(list *[]Notification) bool {
		changed := false
		for i := range *list {
			if !(*list)[i].Read {
				(*list)[i].Read, changed = true, true
			}
		}
		return changed
	})
}

func (n *Notifications) update(ctx context.Context, userID string, fn func(*[]Notification) bool) error {
	return updateJSON(ctx, n.p, &n.locks, notificationsKey(userID), func(list *[]Notification) (bool, error) {
		return fn(list), nil
	})
}

func (n *Notifications) UnreadCount(ctx context.Context, userID string) (int, error) {
	list, err := n.List(ctx, userID)
	if err != nil {
		return 0, err
	}
	c := 0
	for _, nt := range list {
		if !nt.Read {
			c++
		}
	}
	return c, nil
}

func (n *Notifications) Clear(ctx context.Context, userID string) error {
	return n.p.Clear(ctx, notificationsKey(userID))
}
