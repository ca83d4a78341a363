// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"farmlink_backend/internal/app"
	"farmlink_backend/internal/auth"
	"farmlink_backend/internal/chat"
	"farmlink_backend/internal/config"
	"farmlink_backend/internal/jobs"
	"farmlink_backend/internal/platform/database"
	"farmlink_backend/internal/platform/logger"
	"farmlink_backend/internal/post"
	"farmlink_backend/internal/shared"
	"farmlink_backend/internal/user"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		database.NewGORM,
		provideCleanup,

		// Token Services
		provideTokenBlocklist,
		auth.NewJWTService,

		// Core User Services
		user.NewGORMRepository, // Provides user.Repository
		user.NewService,        // Provides *user.ServiceImplementation
		wire.Bind(new(shared.Service), new(*user.ServiceImplementation)),
		wire.Bind(new(auth.OAuthUserProvider), new(*user.ServiceImplementation)),

		// Auth
		auth.NewOAuthService,
		auth.NewHandler,

		// Users
		user.NewHandler,

		// Posts
		post.NewGORMRepository,
		post.NewService,
		post.NewHandler,

		// Chat
		chat.NewGORMRepository,
		chat.NewService,
		chat.NewHandler,

		// Jobs
		jobs.NewPostExpiryJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
