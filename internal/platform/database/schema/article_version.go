// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

package schema

// ArticleVersionTable represents the 'lectern.article_version' table
type ArticleVersionTable struct {
	Table    string
	ID       string
	MSID     string
	Record   string
	StoredAt string
}

// ArticleVersion is the schema definition for lectern.article_version
var ArticleVersion = ArticleVersionTable{
	Table:    "lectern.article_version",
	ID:       "id",
	MSID:     "msid",
	Record:   "record",
	StoredAt: "storedat",
}

func (t ArticleVersionTable) Columns() []string {
	return []string{t.ID, t.MSID, t.Record, t.StoredAt}
}
