package model

// Document is a raw remote document. System attributes are prefixed with '$'.
type Document map[string]interface{}

func (d Document) ID() string {
	id, _ := d["$id"].(string)
	return id
}

type DocumentList struct {
	Total     int        `json:"total"`
	Documents []Document `json:"documents"`
}

// Query is a single remote filter or modifier.
type Query struct {
	Method    string        `json:"method"`
	Attribute string        `json:"attribute,omitempty"`
	Values    []interface{} `json:"values,omitempty"`
}

func QueryEqual(attribute string, values ...interface{}) Query {
	return Query{Method: "equal", Attribute: attribute, Values: values}
}

func QueryLimit(n int) Query {
	return Query{Method: "limit", Values: []interface{}{n}}
}

func QueryOffset(n int) Query {
	return Query{Method: "offset", Values: []interface{}{n}}
}

func QueryCursorAfter(id string) Query {
	return Query{Method: "cursorAfter", Values: []interface{}{id}}
}

func QueryOrderDesc(attribute string) Query {
	return Query{Method: "orderDesc", Attribute: attribute}
}

// PageRequest asks for one page of a file listing. Cursor is opaque to callers.
type PageRequest struct {
	Limit  int
	Cursor string
}

type File struct {
	ID           string `json:"$id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType,omitempty"`
	SizeOriginal int64  `json:"sizeOriginal"`
}

// FilePage is one page of a listing. Next is empty when no further page exists.
type FilePage struct {
	Files []File
	Total int
	Next  string
}
