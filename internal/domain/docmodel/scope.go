package docmodel

// Scope bounds a retrieval call: one document, one collection, or everything the
// user owns. DocumentId and CollectionId are mutually exclusive; both empty means
// all owned documents.
type Scope struct {
	UserId       string
	DocumentId   string
	CollectionId string
}

func (s Scope) AllDocuments() bool {
	return s.DocumentId == "" && s.CollectionId == ""
}
