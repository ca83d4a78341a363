package user

import (
	"strings"

	"farmlink_backend/internal/shared"
)

// DBToShared converts a GORM user.User model to a shared.User DTO.
func DBToShared(dbUser *User) *shared.User {
	if dbUser == nil {
		return nil
	}
	return &shared.User{
		ID:          dbUser.ID,
		Name:        dbUser.Name,
		Email:       dbUser.Email,
		Role:        dbUser.Role,
		Contact:     dbUser.Contact,
		GoogleID:    dbUser.GoogleID,
		CreatedAt:   dbUser.CreatedAt,
		UpdatedAt:   dbUser.UpdatedAt,
		LastLoginAt: dbUser.LastLoginAt,
	}
}

// CreateRequestToDB builds a GORM user.User model from a registration request
// and a pre-computed password hash.
func CreateRequestToDB(req *shared.CreateUserRequest, passwordHash string) *User {
	dbUser := &User{
		Name:         req.Name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: &passwordHash,
		Role:         req.Role,
	}
	if req.Contact != "" {
		contactCopy := req.Contact
		dbUser.Contact = &contactCopy
	}
	return dbUser
}

// ApplyProfileUpdate copies the updatable fields of a profile update onto an
// existing GORM user.User model. Email, role and OAuth linkage are not
// updatable through this path.
func ApplyProfileUpdate(req *shared.UpdateProfileRequest, dbUser *User) {
	if dbUser == nil || req == nil {
		return
	}
	if req.Name != nil && *req.Name != "" {
		dbUser.Name = *req.Name
	}
	if req.Contact != nil {
		if *req.Contact == "" {
			dbUser.Contact = nil
		} else {
			contactCopy := *req.Contact
			dbUser.Contact = &contactCopy
		}
	}
}
