package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultListColor = "#3B82F6"
	DefaultListEmoji = "📝"
)

// List is a user-defined grouping. Tasks reference it by name through their
// custom_list field; there is no id-based relation and no cascade on delete.
type List struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Name      string             `bson:"name" json:"name"`
	Color     string             `bson:"color" json:"color"`
	Emoji     string             `bson:"emoji" json:"emoji"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
