package model

import (
	"github.com/elastic/go-elasticsearch/v9/typedapi/types"
)

// Document is the contract the search index client works with. Pointer
// constrained so the generic client can unmarshal into fresh instances.
type Document interface {
	*Product
	GetID() string
	GetIndex() string
	GetTypeMapping() *types.TypeMapping
}
