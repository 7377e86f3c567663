package validation

type QueryArchiveItems struct {
	CategoryID string `query:"categoryId" json:"categoryId" validate:"omitempty,uuid"`
	Search     string `query:"search" json:"search" validate:"omitempty,max=255"`
}

type CreateArchiveItem struct {
	Title           string `json:"title" form:"title" validate:"required,max=255"`
	Description     string `json:"description" form:"description" validate:"required"`
	CategoryID      string `json:"categoryId" form:"categoryId" validate:"required,uuid"`
	Visibility      string `json:"visibility" form:"visibility" validate:"omitempty,oneof=public private"`
	IsOnTheMainPage bool   `json:"isOnTheMainPage" form:"isOnTheMainPage"`
}

type UpdateArchiveItem struct {
	Title               *string  `json:"title" form:"title" validate:"omitempty,min=1,max=255"`
	Description         *string  `json:"description" form:"description" validate:"omitempty,min=1"`
	CategoryID          *string  `json:"categoryId" form:"categoryId" validate:"omitempty,uuid"`
	Visibility          *string  `json:"visibility" form:"visibility" validate:"omitempty,oneof=public private"`
	IsOnTheMainPage     *bool    `json:"isOnTheMainPage" form:"isOnTheMainPage"`
	AddCollectionIDs    []string `json:"addCollectionIds" form:"addCollectionIds" validate:"omitempty,dive,uuid"`
	RemoveCollectionIDs []string `json:"removeCollectionIds" form:"removeCollectionIds" validate:"omitempty,dive,uuid"`
}

// UpdateDraft edits a private item. Drafts cannot change visibility or
// membership here; publishing is a separate operation.
type UpdateDraft struct {
	Title           *string `json:"title" form:"title" validate:"omitempty,min=1,max=255"`
	Description     *string `json:"description" form:"description" validate:"omitempty,min=1"`
	CategoryID      *string `json:"categoryId" form:"categoryId" validate:"omitempty,uuid"`
	IsOnTheMainPage *bool   `json:"isOnTheMainPage" form:"isOnTheMainPage"`
}
