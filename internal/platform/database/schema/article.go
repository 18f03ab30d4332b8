// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

package schema

// ArticleTable represents the 'lectern.article' table (flat store)
type ArticleTable struct {
	Table    string
	ID       string
	DOI      string
	Hash     string
	Record   string
	StoredAt string
}

// Article is the schema definition for lectern.article
var Article = ArticleTable{
	Table:    "lectern.article",
	ID:       "id",
	DOI:      "doi",
	Hash:     "hash",
	Record:   "record",
	StoredAt: "storedat",
}

func (t ArticleTable) Columns() []string {
	return []string{t.ID, t.DOI, t.Hash, t.Record, t.StoredAt}
}
