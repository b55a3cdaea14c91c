package repository

import (
	"context"

	"github.com/jwalitptl/marketplace-admin/internal/model"
)

// CurrentSession names the session bound to the caller.
const CurrentSession = "current"

// All remote gateway interfaces in one file
type (
	// DocumentStore reads and writes documents of the remote database
	DocumentStore interface {
		ListDocuments(ctx context.Context, collection string, queries ...model.Query) (*model.DocumentList, error)
		CreateDocument(ctx context.Context, collection, id string, data map[string]interface{}) (model.Document, error)
		UpdateDocument(ctx context.Context, collection, id string, partial map[string]interface{}) (model.Document, error)
		DeleteDocument(ctx context.Context, collection, id string) error
	}

	// AccountGateway manages the admin's remote session and account
	AccountGateway interface {
		CreateSession(ctx context.Context, email, password string) (*model.RemoteSession, error)
		// GetSession reports false, nil when no session exists.
		GetSession(ctx context.Context, sessionID string) (bool, error)
		DeleteSession(ctx context.Context, sessionID string) error
		GetCurrentAccount(ctx context.Context) (*model.Account, error)
		UpdatePassword(ctx context.Context, newPassword, oldPassword string) error
	}

	// FileStore lists objects of a storage bucket one page at a time
	FileStore interface {
		ListFiles(ctx context.Context, bucket string, page model.PageRequest) (*model.FilePage, error)
	}
)
