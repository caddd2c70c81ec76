package notifications

import "time"

type Notification struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (n Notification) toastTitle() string {
	if n.Title != "" {
		return n.Title
	}
	if title, ok := toastTitles[n.Type]; ok {
		return title
	}
	return "Notification"
}

type deviceRegistration struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}
