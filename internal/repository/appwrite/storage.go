package appwrite

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jwalitptl/marketplace-admin/internal/model"
)

type fileList struct {
	Total int          `json:"total"`
	Files []model.File `json:"files"`
}

// ListFiles returns one page of a bucket listing. The cursor is the id of
// the last file of the previous page.
func (c *Client) ListFiles(ctx context.Context, bucket string, page model.PageRequest) (*model.FilePage, error) {
	queries := []model.Query{}
	if page.Limit > 0 {
		queries = append(queries, model.QueryLimit(page.Limit))
	}
	if page.Cursor != "" {
		queries = append(queries, model.QueryCursorAfter(page.Cursor))
	}
	values, err := encodeQueries(queries)
	if err != nil {
		return nil, err
	}

	var list fileList
	if _, err := c.do(ctx, request{
		op:     "list_files",
		method: http.MethodGet,
		path:   fmt.Sprintf("/storage/buckets/%s/files", url.PathEscape(bucket)),
		query:  values,
		out:    &list,
	}); err != nil {
		return nil, fmt.Errorf("failed to list files of bucket %s: %w", bucket, err)
	}

	out := &model.FilePage{Files: list.Files, Total: list.Total}
	if out.Files == nil {
		out.Files = []model.File{}
	}
	if page.Limit > 0 && len(out.Files) == page.Limit {
		out.Next = out.Files[len(out.Files)-1].ID
	}
	return out, nil
}
