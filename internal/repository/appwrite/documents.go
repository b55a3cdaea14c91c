package appwrite

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jwalitptl/marketplace-admin/internal/model"
	"github.com/jwalitptl/marketplace-admin/pkg/errors"
)

func (c *Client) ListDocuments(ctx context.Context, collection string, queries ...model.Query) (*model.DocumentList, error) {
	values, err := encodeQueries(queries)
	if err != nil {
		return nil, errors.BadRequest("invalid query", err)
	}

	var list model.DocumentList
	if _, err := c.do(ctx, request{
		op:     "list_documents",
		method: http.MethodGet,
		path:   c.databasePath(collection),
		query:  values,
		out:    &list,
	}); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	if list.Documents == nil {
		list.Documents = []model.Document{}
	}
	return &list, nil
}

func (c *Client) CreateDocument(ctx context.Context, collection, id string, data map[string]interface{}) (model.Document, error) {
	var doc model.Document
	if _, err := c.do(ctx, request{
		op:     "create_document",
		method: http.MethodPost,
		path:   c.databasePath(collection),
		body: map[string]interface{}{
			"documentId": id,
			"data":       data,
		},
		out: &doc,
	}); err != nil {
		return nil, fmt.Errorf("failed to create %s document: %w", collection, err)
	}
	return doc, nil
}

func (c *Client) UpdateDocument(ctx context.Context, collection, id string, partial map[string]interface{}) (model.Document, error) {
	var doc model.Document
	if _, err := c.do(ctx, request{
		op:     "update_document",
		method: http.MethodPatch,
		path:   c.databasePath(collection) + "/" + url.PathEscape(id),
		body:   map[string]interface{}{"data": partial},
		out:    &doc,
	}); err != nil {
		return nil, fmt.Errorf("failed to update %s document %s: %w", collection, id, err)
	}
	return doc, nil
}

func (c *Client) DeleteDocument(ctx context.Context, collection, id string) error {
	if _, err := c.do(ctx, request{
		op:     "delete_document",
		method: http.MethodDelete,
		path:   c.databasePath(collection) + "/" + url.PathEscape(id),
	}); err != nil {
		return fmt.Errorf("failed to delete %s document %s: %w", collection, id, err)
	}
	return nil
}
