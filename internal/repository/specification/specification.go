package specification

import "gorm.io/gorm"

// Specification narrows a users or chat_history query. Repositories apply
// them in order, so paging specs go last.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
