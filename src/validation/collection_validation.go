package validation

type QueryCollections struct {
	Search string `query:"search" json:"search" validate:"omitempty,max=255"`
}

type CreateCollection struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Description string   `json:"description" validate:"required"`
	ArchiveIDs  []string `json:"archiveIds" validate:"required,min=1,dive,uuid"`
}

type UpdateCollection struct {
	Name          *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Description   *string  `json:"description" validate:"omitempty,min=1"`
	AddItemIDs    []string `json:"addItemIds" validate:"omitempty,dive,uuid"`
	RemoveItemIDs []string `json:"removeItemIds" validate:"omitempty,dive,uuid"`
}

// IsEmpty reports whether the request changes nothing.
func (u *UpdateCollection) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && len(u.AddItemIDs) == 0 && len(u.RemoveItemIDs) == 0
}
