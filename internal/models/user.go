package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// User is the account record shared by buyers, sellers and admins. The
// role is fixed at registration and never changes afterwards.
type User struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email               string             `bson:"email" json:"email"`
	PasswordHash        string             `bson:"passwordHash" json:"-"`
	Role                string             `bson:"role" json:"role"`
	ProfileCreated      bool               `bson:"profileCreated" json:"profileCreated"`
	ResetTokenHash      string             `bson:"resetTokenHash,omitempty" json:"-"`
	ResetTokenExpiresAt *time.Time         `bson:"resetTokenExpiresAt,omitempty" json:"-"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func ValidRole(role string) bool {
	return role == RoleBuyer || role == RoleSeller || role == RoleAdmin
}
