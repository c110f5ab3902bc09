package domain

// DocumentSummary is the derived view of a document: the set of chunk
// records sharing a document name. Documents have no storage of their own;
// they exist from the first indexed chunk until the last one is deleted.
type DocumentSummary struct {
	Name       string
	Owner      string
	IsShared   bool
	ChunkCount int
}
